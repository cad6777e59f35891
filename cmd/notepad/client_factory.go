package main

import (
	"fmt"
	"strings"

	"notepad/internal/client"
	"notepad/internal/config"
	"notepad/internal/logging"
)

// clientFactory builds a service client from the config. A non-empty
// baseURL flag wins over the config file and the environment.
type clientFactory func(cfg config.Config, baseURL string, logger logging.Logger) (*client.Client, error)

func newNotesClient(cfg config.Config, baseURL string, logger logging.Logger) (*client.Client, error) {
	resolved := cfg.BaseURL()
	if strings.TrimSpace(baseURL) != "" {
		resolved = config.NormalizeBaseURL(baseURL)
	}
	if err := config.ValidateBaseURL(resolved); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", resolved, err)
	}
	return client.New(resolved,
		client.WithTimeout(cfg.Timeout()),
		client.WithLogger(logger),
	), nil
}
