package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jimezsa/jobmatch/internal/config"
	"github.com/jimezsa/jobmatch/internal/export"
	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/scraper"
	"github.com/jimezsa/jobmatch/internal/ui"
	"github.com/rs/zerolog"
)

type stubSource struct {
	jobs  []models.Job
	err   error
	calls int
	last  models.SearchParams
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Search(_ context.Context, params models.SearchParams) ([]models.Job, error) {
	s.calls++
	s.last = params
	if s.err != nil {
		return nil, s.err
	}
	return models.CloneJobs(s.jobs), nil
}

func listings() []models.Job {
	return []models.Job{
		{Title: "Barista", Company: "Cafe", Location: "Remote", URL: "https://www.indeed.com/viewjob?jk=1"},
		{Title: "Senior Director of Mobility", Company: "Acme EV", Location: "Remote", URL: "https://www.indeed.com/viewjob?jk=2"},
		{Title: "Head of Strategy", Company: "Beta", Location: "Remote", URL: "https://www.indeed.com/viewjob?jk=3"},
	}
}

func writeResume(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write resume: %v", err)
	}
	return path
}

func newTestContext(source scraper.Source) (*Context, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cfg := config.DefaultConfig()
	return &Context{
		Out:        &out,
		Err:        &errOut,
		UI:         ui.New(&out, &errOut, ui.ColorNever, true),
		Config:     cfg,
		Logger:     zerolog.Nop(),
		JSONOutput: true,
		Source:     source,
	}, &out, &errOut
}

func TestSearchRanksAndWritesJSON(t *testing.T) {
	source := &stubSource{jobs: listings()}
	ctx, out, _ := newTestContext(source)

	cmd := &SearchCmd{RankOptions: RankOptions{
		Resume: writeResume(t, "I led automotive strategy transformation."),
		Remote: true,
	}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got []export.RankedJob
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
	wantLinks := []string{
		"https://www.indeed.com/viewjob?jk=2",
		"https://www.indeed.com/viewjob?jk=3",
		"https://www.indeed.com/viewjob?jk=1",
	}
	wantScores := []int{7, 5, 3}
	for i := range got {
		if got[i].Rank != i+1 || got[i].Link != wantLinks[i] || got[i].Score != wantScores[i] {
			t.Fatalf("got[%d] = %+v, want link %s score %d", i, got[i], wantLinks[i], wantScores[i])
		}
	}

	if source.last.Query != "Director" || source.last.Location != "Remote" || !source.last.Remote {
		t.Fatalf("unexpected search params %+v", source.last)
	}
}

func TestSearchExplainAddsMatchedTerms(t *testing.T) {
	ctx, out, _ := newTestContext(&stubSource{jobs: listings()})

	cmd := &SearchCmd{RankOptions: RankOptions{Resume: writeResume(t, "automotive")}, Explain: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got []export.RankedJob
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got[0].Matched == nil || got[0].Matched.Total != got[0].Score {
		t.Fatalf("expected breakdown matching score, got %+v", got[0])
	}
}

func TestSearchUsesTermsFile(t *testing.T) {
	ctx, out, _ := newTestContext(&stubSource{jobs: listings()})
	termsPath := filepath.Join(t.TempDir(), "terms.yaml")
	if err := os.WriteFile(termsPath, []byte("seniority: [barista]\ndomain: [cafe]\n"), 0o644); err != nil {
		t.Fatalf("write terms: %v", err)
	}

	cmd := &SearchCmd{RankOptions: RankOptions{Resume: writeResume(t, "cafe"), TermsFile: termsPath}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got []export.RankedJob
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got[0].Title != "Barista" || got[0].Score != 3 {
		t.Fatalf("expected custom terms to rank Barista first, got %+v", got[0])
	}
}

func TestSearchRequiresResume(t *testing.T) {
	source := &stubSource{jobs: listings()}
	ctx, _, _ := newTestContext(source)

	err := (&SearchCmd{}).Run(ctx)
	if !errors.Is(err, ErrNoResume) {
		t.Fatalf("Run() error = %v, want ErrNoResume", err)
	}
	if source.calls != 0 {
		t.Fatalf("source should not be called without a resume")
	}

	err = (&SearchCmd{RankOptions: RankOptions{Resume: writeResume(t, "  \n")}}).Run(ctx)
	if !errors.Is(err, ErrNoResume) {
		t.Fatalf("empty resume error = %v, want ErrNoResume", err)
	}
}

func TestSearchReportsFetchFailure(t *testing.T) {
	source := &stubSource{err: &scraper.FetchError{URL: "https://www.indeed.com/jobs", StatusCode: 500}}
	ctx, out, _ := newTestContext(source)

	err := (&SearchCmd{RankOptions: RankOptions{Resume: writeResume(t, "resume")}}).Run(ctx)
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("Run() error = %v, want ErrFetchFailed", err)
	}
	var fetchErr *scraper.FetchError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode != 500 {
		t.Fatalf("expected wrapped FetchError, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("no list should be written on failure, got %q", out.String())
	}
}

func TestResolveFormatRespectsGlobalFlags(t *testing.T) {
	ctx := &Context{Out: io.Discard, JSONOutput: true}
	got, err := resolveFormat(ctx, "", "jobs.json")
	if err != nil {
		t.Fatalf("resolveFormat() error = %v", err)
	}
	if got != export.FormatJSON {
		t.Fatalf("resolveFormat() = %q, want %q", got, export.FormatJSON)
	}

	ctx = &Context{Out: io.Discard, PlainText: true}
	got, err = resolveFormat(ctx, "", "")
	if err != nil {
		t.Fatalf("resolveFormat() error = %v", err)
	}
	if got != export.FormatTSV {
		t.Fatalf("resolveFormat() = %q, want %q", got, export.FormatTSV)
	}

	ctx = &Context{Out: io.Discard}
	got, err = resolveFormat(ctx, "md", "")
	if err != nil || got != export.FormatMarkdown {
		t.Fatalf("resolveFormat(md) = %q, %v", got, err)
	}
	got, err = resolveFormat(ctx, "", "")
	if err != nil || got != export.FormatCSV {
		t.Fatalf("resolveFormat() off a terminal = %q, %v; want csv", got, err)
	}
}

func TestParseFormatRejectsUnknown(t *testing.T) {
	if _, err := parseFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestFormatSearchSummary(t *testing.T) {
	if got := formatSearchSummary(nil); got != "summary: ranked=0" {
		t.Fatalf("formatSearchSummary(nil) = %q", got)
	}
	jobs := []models.Job{listings()[1].WithScore(7), listings()[0].WithScore(3)}
	if got := formatSearchSummary(jobs); !strings.Contains(got, "ranked=2 top_score=7") {
		t.Fatalf("formatSearchSummary() = %q", got)
	}
}
