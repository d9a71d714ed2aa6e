package cmd

import (
	"io"

	"github.com/jimezsa/jobmatch/internal/config"
	"github.com/jimezsa/jobmatch/internal/generate"
	"github.com/jimezsa/jobmatch/internal/scraper"
	"github.com/jimezsa/jobmatch/internal/ui"
	"github.com/rs/zerolog"
)

type Context struct {
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode

	// Source and Generator replace the network-backed defaults when set.
	Source    scraper.Source
	Generator generate.Client
}
