package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/jimezsa/jobmatch/internal/export"
	"github.com/jimezsa/jobmatch/internal/generate"
	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/secrets"
)

type TailorCmd struct {
	Query string `arg:"" optional:"" help:"Search query (default: config default_query, Director)."`
	RankOptions
	Pick   []int    `help:"Ranks to tailor, 1-based (comma-separated)." default:"1"`
	Link   []string `help:"Listing links to tailor instead of ranks."`
	APIKey string   `name:"api-key" help:"Gemini API key (else JOBMATCH_API_KEY, GEMINI_API_KEY, or keyring)."`
	Model  string   `help:"Generation model (default from config)."`
	Output string   `name:"output" short:"o" help:"Write generated documents to a file."`
}

func (c *TailorCmd) Run(ctx *Context) error {
	apiKey, origin, err := secrets.Resolve(c.APIKey)
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrNoCredential, err)
		}
		return err
	}
	ctx.Logger.Debug().Str("origin", string(origin)).Msg("resolved API credential")

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := runRank(ctx, runCtx, c.Query, c.RankOptions)
	if err != nil {
		return err
	}

	selected, err := selectJobs(result.jobs, c.Pick, c.Link)
	if err != nil {
		return err
	}

	tailor := &generate.Tailor{Client: c.generator(ctx), Logger: ctx.Logger}
	results := tailor.TailorAll(runCtx, apiKey, selected, result.resume)

	if err := c.write(ctx, results); err != nil {
		return err
	}
	return tailorOutcome(ctx, results)
}

func (c *TailorCmd) generator(ctx *Context) generate.Client {
	if ctx.Generator != nil {
		return ctx.Generator
	}
	model := firstNonEmpty(c.Model, ctx.Config.Model)
	return generate.NewGemini(model, float32(ctx.Config.Temperature))
}

func (c *TailorCmd) write(ctx *Context, results []generate.Result) error {
	format := export.FormatMarkdown
	if ctx.JSONOutput {
		format = export.FormatJSON
	}

	writer := ctx.Out
	if c.Output != "" {
		file, err := os.Create(c.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}
	return export.WriteTailored(writer, results, format)
}

// tailorOutcome fails the command only when no job could be tailored. A rejected
// credential is reported as such since it affects every job.
func tailorOutcome(ctx *Context, results []generate.Result) error {
	var failed []error
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res.Err)
		}
	}
	if len(failed) == 0 {
		return nil
	}

	for _, err := range failed {
		var credErr *generate.CredentialError
		if errors.As(err, &credErr) {
			return classifyGenerateError(err)
		}
	}
	if len(failed) == len(results) {
		return classifyGenerateError(failed[0])
	}
	if ctx.UI != nil {
		ctx.UI.Warnf("%v for %d of %d jobs", ErrGeneration, len(failed), len(results))
	}
	return nil
}

// selectJobs picks ranked jobs by link when links are given, else by 1-based rank.
func selectJobs(ranked []models.Job, picks []int, links []string) ([]models.Job, error) {
	if len(ranked) == 0 {
		return nil, errors.New("no ranked jobs to tailor")
	}

	if len(links) > 0 {
		byLink := make(map[string]models.Job, len(ranked))
		for _, job := range ranked {
			byLink[strings.TrimSpace(job.URL)] = job
		}
		selected := make([]models.Job, 0, len(links))
		for _, link := range links {
			job, ok := byLink[strings.TrimSpace(link)]
			if !ok {
				return nil, fmt.Errorf("link not among ranked jobs: %s", link)
			}
			selected = append(selected, job)
		}
		return selected, nil
	}

	if len(picks) == 0 {
		picks = []int{1}
	}
	seen := make(map[int]struct{}, len(picks))
	selected := make([]models.Job, 0, len(picks))
	for _, rank := range picks {
		if rank < 1 || rank > len(ranked) {
			return nil, fmt.Errorf("rank %d out of range 1..%d", rank, len(ranked))
		}
		if _, dup := seen[rank]; dup {
			continue
		}
		seen[rank] = struct{}{}
		selected = append(selected, ranked[rank-1])
	}
	return selected, nil
}
