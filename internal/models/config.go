package models

import "time"

// SourceConfig contains runtime options for the listing source HTTP client.
type SourceConfig struct {
	Proxies    []string
	Timeout    time.Duration
	UserAgents []string
	// Requests per second allowed against a single host; zero disables limiting.
	RatePerSecond float64
}
