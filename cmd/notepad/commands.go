package main

import (
	"context"
	"io"
	"os"

	"notepad/internal/app"
	"notepad/internal/config"
	"notepad/internal/devserver"
	"notepad/internal/logging"
	"notepad/internal/notes"
)

type commandRunner interface {
	Run(args []string) error
}

type uiRunner func(ctx context.Context, controller *notes.Controller, opts ...app.Option) error

type devServerRunner func(ctx context.Context, srv *devserver.Server, addr string) error

type commandWiring struct {
	stdout       io.Writer
	stderr       io.Writer
	loadConfig   func() (config.Config, error)
	newClient    clientFactory
	openUILog    func(level logging.Level) (logging.Logger, io.Closer, error)
	runUI        uiRunner
	runDevServer devServerRunner
	version      string
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: config.Load,
		newClient:  newNotesClient,
		openUILog:  openUILog,
		runUI:      app.Run,
		runDevServer: func(ctx context.Context, srv *devserver.Server, addr string) error {
			return srv.ListenAndServe(ctx, addr)
		},
		version: buildVersion(),
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"ui":        NewUICommand(wiring),
		"ls":        NewLSCommand(wiring),
		"config":    NewConfigCommand(wiring.stdout, wiring.stderr, wiring.loadConfig),
		"devserver": NewDevServerCommand(wiring.stderr, wiring.loadConfig, wiring.runDevServer),
	}
}
