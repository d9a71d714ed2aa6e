// Package generate produces tailored application documents for a ranked job.
package generate

import (
	"context"
	"strings"
	"text/template"

	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/rs/zerolog"
)

// Client sends one prompt to a text-generation service using the given key.
type Client interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

var promptTemplate = template.Must(template.New("tailor").Parse(`You are a career coach and resume writer.

Resume:
---
{{.Resume}}
---

Job:
---
Title: {{.Job.Title}}
Company: {{.Job.Company}}
Location: {{.Job.Location}}
Link: {{.Job.URL}}
---

Write a cover letter tailored to this job, then a list of suggested resume bullet points that match it.
`))

// Prompt renders the request sent for job.
func Prompt(job models.Job, resume string) string {
	var b strings.Builder
	_ = promptTemplate.Execute(&b, struct {
		Job    models.Job
		Resume string
	}{Job: job, Resume: strings.TrimSpace(resume)})
	return b.String()
}

// Tailor writes a cover letter and resume bullets for one job.
type Tailor struct {
	Client Client
	Logger zerolog.Logger
}

// Result is the outcome of tailoring one job.
type Result struct {
	Job  models.Job
	Text string
	Err  error
}

// Tailor returns the generated text. Failures are *CredentialError or *ServiceError.
func (t *Tailor) Tailor(ctx context.Context, apiKey string, job models.Job, resume string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", &CredentialError{Err: ErrNoCredential}
	}

	t.Logger.Debug().Str("title", job.Title).Str("company", job.Company).Msg("generating tailored documents")
	text, err := t.Client.Generate(ctx, apiKey, Prompt(job, resume))
	if err != nil {
		return "", classify("", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", &ServiceError{Err: ErrEmptyResponse}
	}
	return text, nil
}

// TailorAll handles each job on its own; one failure does not stop the rest.
func (t *Tailor) TailorAll(ctx context.Context, apiKey string, jobs []models.Job, resume string) []Result {
	results := make([]Result, 0, len(jobs))
	for _, job := range jobs {
		text, err := t.Tailor(ctx, apiKey, job, resume)
		if err != nil {
			t.Logger.Warn().Err(err).Str("link", job.URL).Msg("tailoring failed")
		}
		results = append(results, Result{Job: job, Text: text, Err: err})
	}
	return results
}
