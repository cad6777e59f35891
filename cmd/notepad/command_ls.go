package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"notepad/internal/config"
	"notepad/internal/logging"
	"notepad/internal/notes"
)

const (
	lsFormatTable = "table"
	lsFormatJSON  = "json"
)

type LSCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
}

func NewLSCommand(wiring commandWiring) *LSCommand {
	return &LSCommand{
		stdout:     wiring.stdout,
		stderr:     wiring.stderr,
		loadConfig: wiring.loadConfig,
		newClient:  wiring.newClient,
	}
}

func (c *LSCommand) Run(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	baseURL := fs.String("base-url", "", "notes service base url (overrides config and "+config.BaseURLEnv+")")
	format := fs.String("format", lsFormatTable, "output format: table|json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	resolvedFormat := strings.ToLower(strings.TrimSpace(*format))
	if resolvedFormat != lsFormatTable && resolvedFormat != lsFormatJSON {
		return fmt.Errorf("unsupported format %q", *format)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(c.stderr, logging.ParseLevel(cfg.LogLevel()))
	client, err := c.newClient(cfg, *baseURL, logger)
	if err != nil {
		return err
	}

	controller := notes.NewController(client, notes.WithLogger(logger))
	defer controller.Close()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()
	controller.Await(ctx, controller.Initialize())

	state := controller.Snapshot()
	if state.Err != "" {
		return errors.New(state.Err)
	}
	if resolvedFormat == lsFormatJSON {
		encoder := json.NewEncoder(c.stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(state.Notes)
	}
	printNotes(c.stdout, state.Notes)
	return nil
}
