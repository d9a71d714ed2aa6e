package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/jimezsa/jobmatch/internal/cache"
	"github.com/jimezsa/jobmatch/internal/config"
	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/network"
	"github.com/jimezsa/jobmatch/internal/ranking"
	"github.com/jimezsa/jobmatch/internal/resume"
	"github.com/jimezsa/jobmatch/internal/scoring"
	"github.com/jimezsa/jobmatch/internal/scraper"
	"github.com/jimezsa/jobmatch/internal/ui"
)

// RankOptions are the inputs shared by every command that ranks listings.
type RankOptions struct {
	Resume    string `short:"r" help:"Resume file (pdf, docx, txt, md)." env:"JOBMATCH_RESUME"`
	Location  string `help:"Job location."`
	Country   string `help:"Indeed country code (usa, uk, de, ...)."`
	Remote    bool   `help:"Remote-only roles." negatable:"" default:"true"`
	Offset    int    `help:"Result offset for pagination."`
	JobType   string `help:"Job type filter (fulltime, parttime, contract, internship)." enum:",fulltime,parttime,contract,internship" default:""`
	Hours     int    `help:"Jobs posted in the last N hours."`
	Top       int    `help:"Number of ranked jobs to keep (default from config, 10)."`
	TermsFile string `help:"YAML file with seniority and domain keyword lists."`
	Site      string `help:"Listing source." default:"indeed"`
	Proxies   string `help:"Comma-separated proxy URLs." env:"JOBMATCH_PROXIES"`
	NoCache   bool   `help:"Always fetch fresh listings."`
}

type rankResult struct {
	jobs   []models.Job
	scorer *scoring.Scorer
	resume string
}

func runRank(ctx *Context, runCtx context.Context, query string, opts RankOptions) (rankResult, error) {
	cfg := ctx.Config

	resumeText, err := loadResume(firstNonEmpty(opts.Resume, cfg.ResumePath))
	if err != nil {
		return rankResult{}, err
	}

	terms, err := resolveTerms(cfg, opts.TermsFile)
	if err != nil {
		return rankResult{}, err
	}
	scorer := scoring.NewScorer(terms)

	source, err := resolveSource(ctx, opts)
	if err != nil {
		return rankResult{}, err
	}

	store, closeStore := buildCache(ctx, opts.NoCache)
	defer closeStore()

	pipeline := &ranking.Pipeline{
		Source: source,
		Scorer: scorer,
		Cache:  store,
		TopN:   defaultInt(opts.Top, cfg.TopN),
		Logger: ctx.Logger,
	}

	params := models.SearchParams{
		Query:    firstNonEmpty(query, cfg.DefaultQuery),
		Location: firstNonEmpty(opts.Location, cfg.DefaultLocation),
		Country:  firstNonEmpty(opts.Country, cfg.DefaultCountry),
		Remote:   opts.Remote,
		Offset:   opts.Offset,
		JobType:  opts.JobType,
		Hours:    opts.Hours,
	}

	var stop func()
	if ctx.UI != nil && !ctx.JSONOutput {
		stop = ui.StartSpinner(ctx.Err, "Searching")
	}
	jobs, err := pipeline.Rank(runCtx, params, resumeText)
	if stop != nil {
		stop()
	}
	if err != nil {
		return rankResult{}, classifyRankError(err)
	}

	ctx.Logger.Info().
		Str("query", params.Query).
		Str("location", params.Location).
		Int("ranked", len(jobs)).
		Msg("search complete")
	return rankResult{jobs: jobs, scorer: scorer, resume: resumeText}, nil
}

func loadResume(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrNoResume
	}
	text, err := resume.Extract(path)
	if err != nil {
		return "", classifyResumeError(err)
	}
	return text, nil
}

func resolveTerms(cfg config.Config, flagPath string) (scoring.Terms, error) {
	path := firstNonEmpty(flagPath, cfg.TermsFile)
	if path == "" {
		return cfg.Terms.Merge(scoring.DefaultTerms()), nil
	}
	return scoring.LoadTerms(path)
}

func resolveSource(ctx *Context, opts RankOptions) (scraper.Source, error) {
	if ctx.Source != nil {
		return ctx.Source, nil
	}

	proxies, err := config.LoadProxies(opts.Proxies)
	if err != nil {
		return nil, err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return nil, err
		}
	}

	timeout := ctx.Config.Timeout()
	client, err := network.NewClient(rotator, models.SourceConfig{
		Proxies:       proxies,
		Timeout:       timeout,
		RatePerSecond: ctx.Config.RatePerSecond,
	})
	if err != nil {
		return nil, err
	}
	return scraper.New(opts.Site, client, timeout, ctx.Logger)
}

func buildCache(ctx *Context, disabled bool) (cache.Store, func()) {
	cfg := ctx.Config.Cache
	if disabled {
		return cache.Nop{}, func() {}
	}

	if cfg.RedisURL != "" {
		store, err := cache.NewRedis(cfg.RedisURL, cfg.TTL())
		if err == nil {
			return store, func() { _ = store.Close() }
		}
		ctx.Logger.Warn().Err(err).Msg("redis cache unavailable; using in-memory cache")
	}

	if cfg.Capacity <= 0 {
		return cache.Nop{}, func() {}
	}
	return cache.NewMemory(cfg.Capacity, cfg.TTL()), func() {}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
