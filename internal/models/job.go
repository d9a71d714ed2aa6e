package models

import "strings"

// Job is one listing extracted from a search results page.
type Job struct {
	Site        string `json:"site"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"link"`
	Score       *int   `json:"score,omitempty"`
	Remote      bool   `json:"remote,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
	PostedAtRaw string `json:"posted_at_raw,omitempty"`
}

// Complete reports whether title, company, location and link are all present.
func (j Job) Complete() bool {
	return strings.TrimSpace(j.Title) != "" &&
		strings.TrimSpace(j.Company) != "" &&
		strings.TrimSpace(j.Location) != "" &&
		strings.TrimSpace(j.URL) != ""
}

// ScoreValue returns the assigned score, or 0 when the job has not been scored.
func (j Job) ScoreValue() int {
	if j.Score == nil {
		return 0
	}
	return *j.Score
}

// WithScore returns a copy of j carrying score.
func (j Job) WithScore(score int) Job {
	j.Score = &score
	return j
}

// CloneJobs copies jobs and drops any previously assigned scores.
func CloneJobs(jobs []Job) []Job {
	if jobs == nil {
		return nil
	}
	out := make([]Job, len(jobs))
	for i, job := range jobs {
		job.Score = nil
		out[i] = job
	}
	return out
}
