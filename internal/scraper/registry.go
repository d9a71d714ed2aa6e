package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const SiteIndeed = "indeed"

// New returns the listing source registered under site.
func New(site string, client Doer, timeout time.Duration, logger zerolog.Logger) (Source, error) {
	switch NormalizeSite(site) {
	case "", SiteIndeed, "indeed.com":
		return NewIndeed(client, timeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown site: %s", site)
	}
}

func NormalizeSite(site string) string {
	site = strings.ToLower(strings.TrimSpace(site))
	return strings.TrimPrefix(site, "www.")
}
