package main

import (
	"flag"
	"fmt"
	"io"

	"notepad/internal/config"
	"notepad/internal/devserver"
	"notepad/internal/logging"
	"notepad/internal/types"
)

const defaultDevServerAddr = "127.0.0.1:8080"

var sampleNotes = []types.Note{
	{ID: "welcome", Title: "Welcome", Content: "# Welcome\n\nPress **n** to create a note and **ctrl+s** to save it."},
	{ID: "shortcuts", Title: "Shortcuts", Content: "- `r` refresh\n- `y` copy content\n- `p` toggle preview\n- `d` delete"},
}

type DevServerCommand struct {
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	run        devServerRunner
}

func NewDevServerCommand(stderr io.Writer, loadConfig func() (config.Config, error), run devServerRunner) *DevServerCommand {
	return &DevServerCommand{stderr: stderr, loadConfig: loadConfig, run: run}
}

func (c *DevServerCommand) Run(args []string) error {
	fs := flag.NewFlagSet("devserver", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	addr := fs.String("addr", defaultDevServerAddr, "listen address")
	seed := fs.Bool("seed", false, "start with sample notes when the store is empty")
	dataPath := fs.String("data", "", "persist notes to this JSON file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(c.stderr, logging.ParseLevel(cfg.LogLevel())).With(logging.F("component", "devserver"))
	opts := []devserver.Option{devserver.WithLogger(logger)}
	var store *devserver.FileStore
	if *dataPath != "" {
		store = devserver.NewFileStore(*dataPath)
		opts = append(opts, devserver.WithStore(store))
		logger.Info("persisting notes", logging.F("path", store.Path()))
	}
	srv := devserver.New(opts...)
	if err := srv.Restore(); err != nil {
		return fmt.Errorf("restore notes: %w", err)
	}
	if *seed && len(srv.Notes()) == 0 {
		srv.Seed(sampleNotes...)
		if store != nil {
			if err := store.Save(sampleNotes); err != nil {
				return fmt.Errorf("seed notes: %w", err)
			}
		}
	}

	ctx, cancel := signalContext()
	defer cancel()
	return c.run(ctx, srv, *addr)
}
