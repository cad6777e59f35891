package main

import (
	"flag"
	"io"

	"notepad/internal/app"
	"notepad/internal/config"
	"notepad/internal/logging"
	"notepad/internal/notes"
)

type UICommand struct {
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
	openUILog  func(level logging.Level) (logging.Logger, io.Closer, error)
	runUI      uiRunner
	version    string
}

func NewUICommand(wiring commandWiring) *UICommand {
	return &UICommand{
		stderr:     wiring.stderr,
		loadConfig: wiring.loadConfig,
		newClient:  wiring.newClient,
		openUILog:  wiring.openUILog,
		runUI:      wiring.runUI,
		version:    wiring.version,
	}
}

func (c *UICommand) Run(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	baseURL := fs.String("base-url", "", "notes service base url (overrides config and "+config.BaseURLEnv+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Nop()
	if c.openUILog != nil {
		fileLogger, closer, err := c.openUILog(logging.ParseLevel(cfg.LogLevel()))
		if err == nil {
			defer closer.Close()
			logger = fileLogger
		}
	}

	client, err := c.newClient(cfg, *baseURL, logger)
	if err != nil {
		return err
	}
	logger.Info("starting ui", logging.F("version", c.version), logging.F("base_url", client.BaseURL()))

	controller := notes.NewController(client, notes.WithLogger(logger))
	ctx, cancel := signalContext()
	defer cancel()
	return c.runUI(ctx, controller,
		app.WithLogger(logger),
		app.WithKeybindings(app.NewKeybindings(cfg.KeybindingOverrides())),
		app.WithPreview(cfg.PreviewEnabled()),
		app.WithRequestTimeout(cfg.Timeout()),
	)
}

// openUILog sends UI logs to a file; the terminal belongs to the UI.
func openUILog(level logging.Level) (logging.Logger, io.Closer, error) {
	path, err := config.UILogPath()
	if err != nil {
		return nil, nil, err
	}
	return logging.OpenFile(path, level)
}
