package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/scoring"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
	// Explain, when set, adds the matched terms for each job.
	Explain func(models.Job) scoring.Breakdown
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

const linkColor = "#87CEEB"

// RankedJob is the serialized form of a ranked listing.
type RankedJob struct {
	Rank     int                `json:"rank"`
	Score    int                `json:"score"`
	Title    string             `json:"title"`
	Company  string             `json:"company"`
	Location string             `json:"location"`
	Link     string             `json:"link"`
	Site     string             `json:"site,omitempty"`
	Remote   bool               `json:"remote,omitempty"`
	Snippet  string             `json:"snippet,omitempty"`
	Posted   string             `json:"posted,omitempty"`
	Matched  *scoring.Breakdown `json:"matched,omitempty"`
}

// WriteJobs writes jobs in rank order. Jobs are expected to be sorted already.
func WriteJobs(w io.Writer, jobs []models.Job, format Format, opts WriteOptions) error {
	ranked := rankedJobs(jobs, opts.Explain)
	switch format {
	case FormatJSON:
		return writeJSON(w, ranked)
	case FormatCSV:
		return writeCSV(w, ranked, ',')
	case FormatTSV:
		return writeCSV(w, ranked, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, ranked)
	default:
		return writeTable(w, ranked, opts)
	}
}

func rankedJobs(jobs []models.Job, explain func(models.Job) scoring.Breakdown) []RankedJob {
	out := make([]RankedJob, 0, len(jobs))
	for i, job := range jobs {
		row := RankedJob{
			Rank:     i + 1,
			Score:    job.ScoreValue(),
			Title:    safe(job.Title),
			Company:  safe(job.Company),
			Location: safe(job.Location),
			Link:     safe(job.URL),
			Site:     safe(job.Site),
			Remote:   job.Remote,
			Snippet:  safe(job.Snippet),
			Posted:   safe(job.PostedAtRaw),
		}
		if explain != nil {
			breakdown := explain(job)
			row.Matched = &breakdown
		}
		out = append(out, row)
	}
	return out
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func writeCSV(w io.Writer, jobs []RankedJob, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, job := range jobs {
		if err := writer.Write(csvRow(job)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, jobs []RankedJob, opts WriteOptions) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, "No matching jobs found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := []string{"#", "score", "title", "company", "location", "link"}
	if opts.Explain != nil {
		header = append(header, "matched")
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	output := termenv.NewOutput(w)
	for _, job := range jobs {
		fmt.Fprintln(tw, strings.Join(tableRow(job, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, jobs []RankedJob) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, job := range jobs {
		urlLine := "  Link: -"
		if job.Link != "" {
			urlLine = fmt.Sprintf("  Link: [Open listing](<%s>)", job.Link)
		}
		lines := []string{
			fmt.Sprintf("%d. **%s** (%s) score %d", job.Rank, job.Title, job.Company, job.Score),
			fmt.Sprintf("  Location: %s", job.Location),
			urlLine,
		}
		if job.Remote {
			lines = append(lines, "  Remote: yes")
		}
		if job.Posted != "" {
			lines = append(lines, fmt.Sprintf("  Posted: %s", job.Posted))
		}
		if job.Snippet != "" {
			lines = append(lines, fmt.Sprintf("  Summary: %s", job.Snippet))
		}
		if job.Matched != nil {
			lines = append(lines, fmt.Sprintf("  Matched: %s", matchedLabel(*job.Matched)))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"rank",
		"score",
		"title",
		"company",
		"location",
		"link",
		"site",
		"remote",
		"snippet",
		"posted_at_raw",
	}
}

func csvRow(job RankedJob) []string {
	return []string{
		strconv.Itoa(job.Rank),
		strconv.Itoa(job.Score),
		job.Title,
		job.Company,
		job.Location,
		job.Link,
		job.Site,
		strconv.FormatBool(job.Remote),
		job.Snippet,
		job.Posted,
	}
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableRow(job RankedJob, output *termenv.Output, opts WriteOptions) []string {
	displayURL := "-"
	if job.Link != "" {
		displayURL = job.Link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(job.Link)
		}
		if opts.ColorEnabled {
			displayURL = output.String(displayURL).Foreground(output.Color(linkColor)).String()
		}
		if opts.Hyperlinks {
			displayURL = hyperlink(job.Link, displayURL)
		}
	}
	row := []string{
		strconv.Itoa(job.Rank),
		strconv.Itoa(job.Score),
		job.Title,
		job.Company,
		job.Location,
		displayURL,
	}
	if job.Matched != nil {
		row = append(row, matchedLabel(*job.Matched))
	}
	return row
}

func matchedLabel(b scoring.Breakdown) string {
	var parts []string
	if len(b.Seniority) > 0 {
		parts = append(parts, "seniority="+strings.Join(b.Seniority, ","))
	}
	if len(b.DomainJob) > 0 {
		parts = append(parts, "job="+strings.Join(b.DomainJob, ","))
	}
	if len(b.DomainResume) > 0 {
		parts = append(parts, "resume="+strings.Join(b.DomainResume, ","))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
