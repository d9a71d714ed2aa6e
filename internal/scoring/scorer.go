// Package scoring computes the keyword relevance of a job against a resume.
package scoring

import (
	"strings"

	"github.com/jimezsa/jobmatch/internal/models"
)

// Breakdown lists the terms that contributed to a score.
type Breakdown struct {
	Seniority    []string `json:"seniority"`
	DomainJob    []string `json:"domain_job"`
	DomainResume []string `json:"domain_resume"`
	Total        int      `json:"total"`
}

// Scorer counts keyword hits. Matching is plain substring containment, so a term
// like "ev" also matches inside "developer".
type Scorer struct {
	terms Terms
}

func NewScorer(terms Terms) *Scorer {
	return &Scorer{terms: terms.Normalize()}
}

func (s *Scorer) Terms() Terms {
	return Terms{
		Seniority: append([]string(nil), s.terms.Seniority...),
		Domain:    append([]string(nil), s.terms.Domain...),
	}
}

// MaxScore is the upper bound of Score for the configured terms.
func (s *Scorer) MaxScore() int {
	return len(s.terms.Seniority) + 2*len(s.terms.Domain)
}

// Score returns the relevance of job for the given resume text.
func (s *Scorer) Score(job models.Job, resume string) int {
	return s.Explain(job, resume).Total
}

func (s *Scorer) Explain(job models.Job, resume string) Breakdown {
	jobText := strings.ToLower(job.Title + " " + job.Company)
	resumeText := strings.ToLower(resume)

	b := Breakdown{
		Seniority:    matches(s.terms.Seniority, jobText),
		DomainJob:    matches(s.terms.Domain, jobText),
		DomainResume: matches(s.terms.Domain, resumeText),
	}
	b.Total = len(b.Seniority) + len(b.DomainJob) + len(b.DomainResume)
	return b
}

func matches(terms []string, text string) []string {
	var hits []string
	if text == "" {
		return hits
	}
	for _, term := range terms {
		if strings.Contains(text, term) {
			hits = append(hits, term)
		}
	}
	return hits
}
