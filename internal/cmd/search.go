package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/jimezsa/jobmatch/internal/export"
	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/scoring"
	"github.com/jimezsa/jobmatch/internal/ui"
)

type SearchCmd struct {
	Query string `arg:"" optional:"" help:"Search query (default: config default_query, Director)."`
	RankOptions
	OutputOptions
	Explain bool `help:"Show which keywords contributed to each score."`
}

type OutputOptions struct {
	Format string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Links  string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output string `name:"output" short:"o" help:"Write output to a file."`
}

func (s *SearchCmd) Run(ctx *Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := runRank(ctx, runCtx, s.Query, s.RankOptions)
	if err != nil {
		return err
	}

	var explain func(models.Job) scoring.Breakdown
	if s.Explain {
		explain = func(job models.Job) scoring.Breakdown {
			return result.scorer.Explain(job, result.resume)
		}
	}

	if err := writeRanked(ctx, result.jobs, s.OutputOptions, explain); err != nil {
		return err
	}
	printSearchSummary(ctx, result.jobs)
	return nil
}

func writeRanked(ctx *Context, jobs []models.Job, opts OutputOptions, explain func(models.Job) scoring.Breakdown) error {
	format, err := resolveFormat(ctx, opts.Format, opts.Output)
	if err != nil {
		return err
	}

	writer := ctx.Out
	if opts.Output != "" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	hyperlinks := colorEnabled && ui.IsTTY(writer)
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(opts.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	return export.WriteJobs(writer, jobs, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   hyperlinks,
		LinkStyle:    linkStyle,
		Explain:      explain,
	})
}

func printSearchSummary(ctx *Context, jobs []models.Job) {
	if ctx == nil || ctx.Err == nil || ctx.JSONOutput {
		return
	}
	_, _ = fmt.Fprintln(ctx.Err, formatSearchSummary(jobs))
}

func formatSearchSummary(jobs []models.Job) string {
	if len(jobs) == 0 {
		return "summary: ranked=0"
	}
	return fmt.Sprintf("summary: ranked=%d top_score=%d", len(jobs), jobs[0].ScoreValue())
}

func resolveFormat(ctx *Context, flagFormat string, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if flagFormat != "" {
		return parseFormat(flagFormat)
	}
	if outputPath != "" {
		return export.FormatCSV, nil
	}
	if ui.IsTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func parseFormat(value string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return export.FormatCSV, nil
	case "json":
		return export.FormatJSON, nil
	case "md", "markdown":
		return export.FormatMarkdown, nil
	case "tsv":
		return export.FormatTSV, nil
	case "table", "":
		return export.FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}
