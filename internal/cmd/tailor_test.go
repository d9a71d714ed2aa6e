package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jimezsa/jobmatch/internal/export"
	"github.com/jimezsa/jobmatch/internal/generate"
	"github.com/jimezsa/jobmatch/internal/secrets"
	"github.com/zalando/go-keyring"
)

type fakeGenerator struct {
	keys    []string
	prompts []string
	errFor  map[string]error
}

func (f *fakeGenerator) Generate(_ context.Context, apiKey, prompt string) (string, error) {
	f.keys = append(f.keys, apiKey)
	f.prompts = append(f.prompts, prompt)
	for marker, err := range f.errFor {
		if strings.Contains(prompt, marker) {
			return "", err
		}
	}
	return "Cover letter for " + firstLine(prompt), nil
}

func firstLine(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, "Title: ") {
			return strings.TrimPrefix(line, "Title: ")
		}
	}
	return ""
}

func clearCredentials(t *testing.T) {
	t.Helper()
	keyring.MockInit()
	t.Setenv(secrets.EnvAPIKey, "")
	t.Setenv(secrets.EnvGeminiAPIKey, "")
}

func TestTailorRequiresCredentialBeforeFetching(t *testing.T) {
	clearCredentials(t)
	source := &stubSource{jobs: listings()}
	ctx, _, _ := newTestContext(source)
	ctx.Generator = &fakeGenerator{}

	err := (&TailorCmd{RankOptions: RankOptions{Resume: writeResume(t, "resume")}}).Run(ctx)
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("Run() error = %v, want ErrNoCredential", err)
	}
	if source.calls != 0 {
		t.Fatalf("source called %d times without a credential", source.calls)
	}
}

func TestTailorGeneratesForPickedRanks(t *testing.T) {
	clearCredentials(t)
	t.Setenv(secrets.EnvAPIKey, "env-key")
	gen := &fakeGenerator{}
	ctx, out, _ := newTestContext(&stubSource{jobs: listings()})
	ctx.Generator = gen

	cmd := &TailorCmd{
		RankOptions: RankOptions{Resume: writeResume(t, "automotive strategy")},
		Pick:        []int{2, 1, 2},
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var docs []export.TailoredDoc
	if err := json.Unmarshal(out.Bytes(), &docs); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}
	if docs[0].Title != "Head of Strategy" || docs[1].Title != "Senior Director of Mobility" {
		t.Fatalf("unexpected docs order %+v", docs)
	}
	if docs[0].Text != "Cover letter for Head of Strategy" {
		t.Fatalf("unexpected text %q", docs[0].Text)
	}
	for _, key := range gen.keys {
		if key != "env-key" {
			t.Fatalf("generator got key %q, want env-key", key)
		}
	}
	if !strings.Contains(gen.prompts[0], "automotive strategy") {
		t.Fatalf("prompt should carry the resume text")
	}
}

func TestTailorFlagKeyWins(t *testing.T) {
	clearCredentials(t)
	t.Setenv(secrets.EnvAPIKey, "env-key")
	gen := &fakeGenerator{}
	ctx, _, _ := newTestContext(&stubSource{jobs: listings()})
	ctx.Generator = gen

	cmd := &TailorCmd{RankOptions: RankOptions{Resume: writeResume(t, "r")}, APIKey: "flag-key"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(gen.keys) != 1 || gen.keys[0] != "flag-key" {
		t.Fatalf("expected one call with flag-key, got %v", gen.keys)
	}
}

func TestTailorRejectedCredential(t *testing.T) {
	clearCredentials(t)
	ctx, _, _ := newTestContext(&stubSource{jobs: listings()})
	ctx.Generator = &fakeGenerator{errFor: map[string]error{
		"Title:": &generate.CredentialError{Err: errors.New("API key not valid")},
	}}

	err := (&TailorCmd{RankOptions: RankOptions{Resume: writeResume(t, "r")}, APIKey: "bad"}).Run(ctx)
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("Run() error = %v, want ErrNoCredential", err)
	}
}

func TestTailorPartialFailureKeepsOtherJobs(t *testing.T) {
	clearCredentials(t)
	ctx, out, errOut := newTestContext(&stubSource{jobs: listings()})
	ctx.Generator = &fakeGenerator{errFor: map[string]error{
		"Company: Beta": &generate.ServiceError{Err: errors.New("rate limited")},
	}}

	cmd := &TailorCmd{
		RankOptions: RankOptions{Resume: writeResume(t, "automotive strategy")},
		APIKey:      "k",
		Pick:        []int{1, 2},
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var docs []export.TailoredDoc
	if err := json.Unmarshal(out.Bytes(), &docs); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if docs[0].Error != "" || docs[0].Text == "" {
		t.Fatalf("first job should succeed: %+v", docs[0])
	}
	if docs[1].Error == "" {
		t.Fatalf("second job should carry its error: %+v", docs[1])
	}
	if !strings.Contains(errOut.String(), "generation failed for 1 of 2 jobs") {
		t.Fatalf("expected partial failure warning, got %q", errOut.String())
	}
}

func TestTailorAllFailed(t *testing.T) {
	clearCredentials(t)
	ctx, _, _ := newTestContext(&stubSource{jobs: listings()})
	ctx.Generator = &fakeGenerator{errFor: map[string]error{
		"Title:": &generate.ServiceError{Err: errors.New("unavailable")},
	}}

	err := (&TailorCmd{RankOptions: RankOptions{Resume: writeResume(t, "r")}, APIKey: "k"}).Run(ctx)
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("Run() error = %v, want ErrGeneration", err)
	}
}

func TestSelectJobs(t *testing.T) {
	ranked := listings()

	got, err := selectJobs(ranked, nil, []string{" https://www.indeed.com/viewjob?jk=3 "})
	if err != nil || len(got) != 1 || got[0].Title != "Head of Strategy" {
		t.Fatalf("selectJobs(link) = %+v, %v", got, err)
	}

	if _, err := selectJobs(ranked, nil, []string{"https://example.com/missing"}); err == nil {
		t.Fatalf("expected error for unknown link")
	}

	got, err = selectJobs(ranked, nil, nil)
	if err != nil || len(got) != 1 || got[0].Title != "Barista" {
		t.Fatalf("selectJobs(default) = %+v, %v", got, err)
	}

	if _, err := selectJobs(ranked, []int{4}, nil); err == nil {
		t.Fatalf("expected out of range error")
	}
	if _, err := selectJobs(nil, []int{1}, nil); err == nil {
		t.Fatalf("expected error for empty ranking")
	}

	got, err = selectJobs(ranked, []int{3, 3, 1}, nil)
	if err != nil || len(got) != 2 || got[0].Title != "Head of Strategy" {
		t.Fatalf("selectJobs(dupes) = %+v, %v", got, err)
	}
}
