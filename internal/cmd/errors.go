package cmd

import (
	"errors"
	"fmt"

	"github.com/jimezsa/jobmatch/internal/generate"
	"github.com/jimezsa/jobmatch/internal/resume"
	"github.com/jimezsa/jobmatch/internal/scraper"
)

// User-facing failure classes. Commands wrap the underlying error with one of these.
var (
	ErrNoResume     = errors.New("no resume provided")
	ErrNoCredential = errors.New("no credential provided")
	ErrFetchFailed  = errors.New("fetch failed")
	ErrGeneration   = errors.New("generation failed")
)

func classifyRankError(err error) error {
	if err == nil {
		return nil
	}
	if scraper.IsFetchError(err) || scraper.IsParseError(err) {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return err
}

func classifyResumeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, resume.ErrEmpty) {
		return fmt.Errorf("%w: %w", ErrNoResume, err)
	}
	return fmt.Errorf("read resume: %w", err)
}

func classifyGenerateError(err error) error {
	if err == nil {
		return nil
	}
	var credErr *generate.CredentialError
	if errors.As(err, &credErr) {
		return fmt.Errorf("%w: %w", ErrNoCredential, err)
	}
	return fmt.Errorf("%w: %w", ErrGeneration, err)
}
