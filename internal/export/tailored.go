package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jimezsa/jobmatch/internal/generate"
)

// TailoredDoc is the serialized outcome of one generation request.
type TailoredDoc struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	Link    string `json:"link"`
	Score   int    `json:"score"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteTailored writes generated documents. Failed jobs are listed with their error
// so the successful ones are still usable.
func WriteTailored(w io.Writer, results []generate.Result, format Format) error {
	docs := make([]TailoredDoc, 0, len(results))
	for _, res := range results {
		doc := TailoredDoc{
			Title:   safe(res.Job.Title),
			Company: safe(res.Job.Company),
			Link:    safe(res.Job.URL),
			Score:   res.Job.ScoreValue(),
			Text:    strings.TrimSpace(res.Text),
		}
		if res.Err != nil {
			doc.Error = res.Err.Error()
		}
		docs = append(docs, doc)
	}

	if format == FormatJSON {
		return writeJSON(w, docs)
	}

	for i, doc := range docs {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "## %s (%s)\n%s\n\n", doc.Title, doc.Company, doc.Link); err != nil {
			return err
		}
		body := doc.Text
		if doc.Error != "" {
			body = "generation failed: " + doc.Error
		}
		if _, err := fmt.Fprintln(w, body); err != nil {
			return err
		}
	}
	return nil
}
