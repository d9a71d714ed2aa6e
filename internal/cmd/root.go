package cmd

import "github.com/alecthomas/kong"

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `name:"version" help:"Print version."`

	Search     SearchCmd     `cmd:"" default:"withargs" help:"Rank job listings against your resume."`
	Tailor     TailorCmd     `cmd:"" help:"Generate a cover letter and resume bullets for ranked jobs."`
	Config     ConfigCmd     `cmd:"" help:"Manage configuration."`
	Credential CredentialCmd `cmd:"" help:"Manage the generation API key."`
	Proxies    ProxiesCmd    `cmd:"" help:"Proxy utilities."`
	Version    VersionCmd    `cmd:"" help:"Print version."`
}

func NewCLI() *CLI {
	return &CLI{}
}
