package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jimezsa/jobmatch/internal/secrets"
)

type CredentialCmd struct {
	Set    SetCredentialCmd    `cmd:"" help:"Store the Gemini API key in the OS keyring."`
	Clear  ClearCredentialCmd  `cmd:"" help:"Remove the stored API key."`
	Status StatusCredentialCmd `cmd:"" help:"Show where the API key would be read from."`
}

type SetCredentialCmd struct {
	Key string `arg:"" optional:"" help:"API key. Read from stdin when omitted."`
}

type ClearCredentialCmd struct{}

type StatusCredentialCmd struct {
	APIKey string `name:"api-key" help:"Key passed on the command line."`
}

func (c *SetCredentialCmd) Run(ctx *Context) error {
	key := strings.TrimSpace(c.Key)
	if key == "" && ctx.In != nil {
		line, err := bufio.NewReader(ctx.In).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read key: %w", err)
		}
		key = strings.TrimSpace(line)
	}
	if key == "" {
		return ErrNoCredential
	}
	if err := secrets.Store(key); err != nil {
		return fmt.Errorf("store key: %w", err)
	}
	ctx.UI.Successf("Stored API key %s in keyring service %q", secrets.Mask(key), secrets.KeyringService)
	return nil
}

func (c *ClearCredentialCmd) Run(ctx *Context) error {
	if err := secrets.Clear(); err != nil {
		return fmt.Errorf("clear key: %w", err)
	}
	ctx.UI.Successf("Removed stored API key")
	return nil
}

func (c *StatusCredentialCmd) Run(ctx *Context) error {
	key, origin, err := secrets.Resolve(c.APIKey)
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			_, err = fmt.Fprintln(ctx.Out, "credential: none")
		}
		return err
	}
	_, err = fmt.Fprintf(ctx.Out, "credential: %s (%s)\n", secrets.Mask(key), origin)
	return err
}
