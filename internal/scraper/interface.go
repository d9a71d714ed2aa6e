package scraper

import (
	"context"
	"io"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobmatch/internal/models"
)

// Source fetches one search results page and returns its listings in document order.
type Source interface {
	Name() string
	Search(ctx context.Context, params models.SearchParams) ([]models.Job, error)
}

// Parser turns a raw results page into complete job records.
type Parser interface {
	Parse(r io.Reader) ([]models.Job, error)
}

// Doer performs a single HTTP round trip.
type Doer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}
