package scraper

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/rs/zerolog"
)

// JSONLDParser reads schema.org JobPosting blocks embedded in a page.
// Relative posting urls are resolved against BaseURL; without one only
// absolute urls survive.
type JSONLDParser struct {
	Site    string
	BaseURL string
	Logger  zerolog.Logger
}

func (p JSONLDParser) Parse(r io.Reader) ([]models.Job, error) {
	doc, err := readDocument(r)
	if err != nil {
		return nil, err
	}
	return p.ParseDocument(doc), nil
}

// ParseDocument keeps document order and drops postings without all four fields.
// Postings sharing a link are all kept, as they are for listing cards.
func (p JSONLDParser) ParseDocument(doc *goquery.Document) []models.Job {
	var jobs []models.Job

	doc.Find("script[type='application/ld+json']").Each(func(i int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		data, err := decodeJSONLD(raw)
		if err != nil {
			p.Logger.Debug().Err(err).Int("block", i).Msg("skipping malformed ld+json block")
			return
		}

		for _, job := range extractJobsFromJSONLD(data, p.Site) {
			job.URL = absoluteURL(p.BaseURL, job.URL)
			if !job.Complete() {
				continue
			}
			jobs = append(jobs, job)
		}
	})

	return jobs
}

func decodeJSONLD(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	raw = strings.ReplaceAll(raw, "\u2028", "")
	raw = strings.ReplaceAll(raw, "\u2029", "")

	var data any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func extractJobsFromJSONLD(data any, site string) []models.Job {
	var jobs []models.Job

	switch value := data.(type) {
	case []any:
		for _, item := range value {
			jobs = append(jobs, extractJobsFromJSONLD(item, site)...)
		}
	case map[string]any:
		switch strings.ToLower(stringValue(value["@type"], value["type"])) {
		case "jobposting":
			return append(jobs, jobFromJobPosting(value, site))
		case "itemlist":
			jobs = append(jobs, extractJobsFromJSONLD(value["itemListElement"], site)...)
		case "listitem":
			jobs = append(jobs, extractJobsFromJSONLD(value["item"], site)...)
		}
		if graph, ok := value["@graph"]; ok {
			jobs = append(jobs, extractJobsFromJSONLD(graph, site)...)
		}
		if main, ok := value["mainEntity"]; ok {
			jobs = append(jobs, extractJobsFromJSONLD(main, site)...)
		}
	}

	return jobs
}

func jobFromJobPosting(value map[string]any, site string) models.Job {
	job := models.Job{
		Site:        site,
		Title:       cleanText(stringValue(value["title"], value["name"])),
		Company:     cleanText(stringValue(mapValue(value["hiringOrganization"], "name"))),
		Location:    cleanText(locationFromJSONLD(value["jobLocation"])),
		URL:         stringValue(value["url"], value["@id"]),
		PostedAtRaw: stringValue(value["datePosted"]),
		Snippet:     truncate(cleanText(stringValue(value["description"])), 240),
	}
	if job.Location == "" && strings.EqualFold(stringValue(value["jobLocationType"]), "TELECOMMUTE") {
		job.Location = "Remote"
	}
	job.Remote = isRemote(job.Location, "")
	return job
}

func locationFromJSONLD(value any) string {
	switch v := value.(type) {
	case []any:
		var parts []string
		for _, item := range v {
			if loc := locationFromJSONLD(item); loc != "" {
				parts = append(parts, loc)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		if address, ok := v["address"].(map[string]any); ok {
			return joinAddress(address)
		}
		return joinAddress(v)
	case string:
		return v
	}
	return ""
}

func joinAddress(value map[string]any) string {
	var cleaned []string
	for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
		if part := stringValue(value[key]); part != "" {
			cleaned = append(cleaned, part)
		}
	}
	return strings.Join(cleaned, ", ")
}

func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		case map[string]any:
			if name := stringValue(v["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}

func mapValue(value any, key string) any {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

// truncate cuts value to at most max bytes without splitting a rune.
func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 0 || len(value) <= max {
		return value
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return strings.TrimSpace(value[:cut]) + "..."
}
