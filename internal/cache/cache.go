// Package cache memoizes parsed listing results keyed by source and request parameters.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"

	"github.com/jimezsa/jobmatch/internal/models"
)

// Store holds parsed search results. Implementations return copies so callers
// may score the jobs in place.
type Store interface {
	Get(ctx context.Context, key string) ([]models.Job, bool)
	Set(ctx context.Context, key string, jobs []models.Job) error
}

// Key builds a stable cache key for one listing request. Every field that
// changes the request URL is part of the key.
func Key(source string, params models.SearchParams) string {
	source = strings.ToLower(strings.TrimSpace(source))
	raw := strings.Join([]string{
		source,
		normalize(params.Query),
		normalize(params.Location),
		normalize(params.Country),
		strconv.FormatBool(params.Remote),
		strconv.Itoa(params.Offset),
		normalize(params.JobType),
		strconv.Itoa(params.Hours),
	}, "\x00")
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("jobmatch:%s:%x", source, hash[:8])
}

func normalize(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]models.Job, bool) { return nil, false }

func (Nop) Set(context.Context, string, []models.Job) error { return nil }
