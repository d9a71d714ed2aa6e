package scraper

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/rs/zerolog"
)

const (
	indeedCardSelector     = "div.cardOutline"
	indeedTitleSelector    = "h2.jobTitle"
	indeedCompanySelector  = "span.companyName"
	indeedLocationSelector = "div.companyLocation"
	indeedSnippetSelector  = "div.job-snippet"
	indeedDateSelector     = "span.date"
)

// IndeedParser extracts listing cards from an Indeed results page.
type IndeedParser struct {
	BaseURL string
	Logger  zerolog.Logger
}

func (p IndeedParser) Parse(r io.Reader) ([]models.Job, error) {
	doc, err := readDocument(r)
	if err != nil {
		return nil, err
	}
	return p.ParseDocument(doc), nil
}

// ParseDocument returns one job per complete card. Cards missing a title, company,
// location or link are skipped.
func (p IndeedParser) ParseDocument(doc *goquery.Document) []models.Job {
	cards := doc.Find(indeedCardSelector)
	jobs := make([]models.Job, 0, cards.Length())
	skipped := 0

	cards.Each(func(i int, s *goquery.Selection) {
		job, ok := p.parseCard(s)
		if !ok {
			skipped++
			p.Logger.Debug().Int("card", i).Msg("skipping incomplete listing card")
			return
		}
		jobs = append(jobs, job)
	})

	if len(jobs) == 0 {
		p.Logger.Warn().
			Int("cards", cards.Length()).
			Str("selector", indeedCardSelector).
			Msg("no complete listing cards found; the results page layout may have changed")
	} else if skipped > 0 {
		p.Logger.Debug().Int("kept", len(jobs)).Int("skipped", skipped).Msg("parsed listing cards")
	}

	return jobs
}

func (p IndeedParser) parseCard(s *goquery.Selection) (models.Job, bool) {
	title := s.Find(indeedTitleSelector).First()
	company := s.Find(indeedCompanySelector).First()
	location := s.Find(indeedLocationSelector).First()
	anchor := s.Find("a[href]").First()
	if title.Length() == 0 || company.Length() == 0 || location.Length() == 0 || anchor.Length() == 0 {
		return models.Job{}, false
	}

	href, _ := anchor.Attr("href")
	snippet := cleanText(s.Find(indeedSnippetSelector).Text())

	job := models.Job{
		Site:        SiteIndeed,
		Title:       cleanText(title.Text()),
		Company:     cleanText(company.Text()),
		Location:    cleanText(location.Text()),
		URL:         absoluteURL(p.BaseURL, href),
		Snippet:     snippet,
		PostedAtRaw: cleanText(s.Find(indeedDateSelector).First().Text()),
	}
	job.Remote = isRemote(job.Location, snippet)

	if !job.Complete() {
		return models.Job{}, false
	}
	return job, true
}

// Indeed searches indeed.com and parses the result cards.
type Indeed struct {
	client  Doer
	timeout time.Duration
	logger  zerolog.Logger
}

func NewIndeed(client Doer, timeout time.Duration, logger zerolog.Logger) *Indeed {
	return &Indeed{client: client, timeout: timeout, logger: logger}
}

func (i *Indeed) Name() string {
	return SiteIndeed
}

// Search performs exactly one request. Transport failures, timeouts and non-2xx
// answers come back as *FetchError.
func (i *Indeed) Search(ctx context.Context, params models.SearchParams) ([]models.Job, error) {
	searchURL := buildIndeedURL(params)
	base := baseIndeedURL(params.Country)

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	logger := i.logger.With().Str("site", SiteIndeed).Str("url", searchURL).Logger()
	logger.Debug().Msg("fetching listings")

	doc, err := fetchDocument(ctx, i.client, searchURL, nil)
	if err != nil {
		return nil, err
	}

	jobs := IndeedParser{BaseURL: base, Logger: logger}.ParseDocument(doc)
	if len(jobs) == 0 {
		jobs = JSONLDParser{Site: SiteIndeed, BaseURL: base, Logger: logger}.ParseDocument(doc)
		if len(jobs) > 0 {
			logger.Info().Int("jobs", len(jobs)).Msg("using structured data fallback")
		}
	}

	logger.Debug().Int("jobs", len(jobs)).Msg("parsed listings")
	return jobs, nil
}

func buildIndeedURL(params models.SearchParams) string {
	base := baseIndeedURL(params.Country)
	values := url.Values{}
	values.Set("q", params.Query)
	values.Set("l", params.Location)
	if params.Remote {
		values.Set("remotejob", "1")
	}
	if params.Offset > 0 {
		values.Set("start", fmt.Sprintf("%d", params.Offset))
	}
	if params.JobType != "" {
		values.Set("jt", params.JobType)
	}
	if params.Hours > 0 {
		days := int(math.Ceil(float64(params.Hours) / 24.0))
		if days < 1 {
			days = 1
		}
		values.Set("fromage", fmt.Sprintf("%d", days))
	}
	return fmt.Sprintf("%s/jobs?%s", base, values.Encode())
}

func baseIndeedURL(country string) string {
	country = strings.TrimSpace(strings.ToLower(country))
	if country == "" || country == "usa" || country == "us" {
		return "https://www.indeed.com"
	}
	return fmt.Sprintf("https://%s.indeed.com", country)
}
