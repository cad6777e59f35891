package main

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"notepad/internal/app"
	"notepad/internal/config"
)

const (
	configFormatJSON = "json"
	configFormatTOML = "toml"

	configScopeService     = "service"
	configScopeUI          = "ui"
	configScopeKeybindings = "keybindings"
)

type ConfigCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
}

type configOutput struct {
	ConfigPath  string                  `json:"config_path,omitempty" toml:"config_path,omitempty"`
	Service     *effectiveServiceConfig `json:"service,omitempty" toml:"service,omitempty"`
	Logging     *effectiveLoggingConfig `json:"logging,omitempty" toml:"logging,omitempty"`
	UI          *effectiveUIConfig      `json:"ui,omitempty" toml:"ui,omitempty"`
	Keybindings map[string]string       `json:"keybindings,omitempty" toml:"keybindings,omitempty"`
}

type effectiveServiceConfig struct {
	BaseURL        string `json:"base_url" toml:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds" toml:"timeout_seconds"`
}

type effectiveLoggingConfig struct {
	Level string `json:"level" toml:"level"`
	UILog string `json:"ui_log,omitempty" toml:"ui_log,omitempty"`
}

type effectiveUIConfig struct {
	Preview bool `json:"preview" toml:"preview"`
}

func NewConfigCommand(stdout, stderr io.Writer, loadConfig func() (config.Config, error)) *ConfigCommand {
	return &ConfigCommand{stdout: stdout, stderr: stderr, loadConfig: loadConfig}
}

func (c *ConfigCommand) Run(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	defaults := fs.Bool("default", false, "print default config values")
	format := fs.String("format", configFormatJSON, "output format: json|toml")
	var scopes stringList
	fs.Var(&scopes, "scope", "scope to print: service|ui|keybindings|all (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolvedFormat, err := resolveConfigFormat(*format)
	if err != nil {
		return err
	}
	resolvedScopes, err := resolveConfigScopes(scopes)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if !*defaults {
		cfg, err = c.loadConfig()
		if err != nil {
			return err
		}
	}
	payload, err := buildConfigOutput(cfg, resolvedScopes)
	if err != nil {
		return err
	}
	return writeConfigOutput(c.stdout, resolvedFormat, payload)
}

func buildConfigOutput(cfg config.Config, scopes map[string]struct{}) (configOutput, error) {
	out := configOutput{}
	if scopeSelected(scopes, configScopeService) {
		path, err := config.ConfigPath()
		if err != nil {
			return configOutput{}, err
		}
		uiLog, err := config.UILogPath()
		if err != nil {
			return configOutput{}, err
		}
		out.ConfigPath = path
		out.Service = &effectiveServiceConfig{
			BaseURL:        cfg.BaseURL(),
			TimeoutSeconds: int(cfg.Timeout().Seconds()),
		}
		out.Logging = &effectiveLoggingConfig{Level: cfg.LogLevel(), UILog: uiLog}
	}
	if scopeSelected(scopes, configScopeUI) {
		out.UI = &effectiveUIConfig{Preview: cfg.PreviewEnabled()}
	}
	if scopeSelected(scopes, configScopeKeybindings) {
		out.Keybindings = app.NewKeybindings(cfg.KeybindingOverrides()).Bindings()
	}
	return out, nil
}

func writeConfigOutput(out io.Writer, format string, payload any) error {
	switch format {
	case configFormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case configFormatTOML:
		data, err := toml.Marshal(payload)
		if err != nil {
			return err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err = out.Write(data)
		return err
	default:
		return errors.New("unsupported format")
	}
}

func resolveConfigFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", configFormatJSON:
		return configFormatJSON, nil
	case configFormatTOML:
		return configFormatTOML, nil
	default:
		return "", errors.New("invalid format: must be json or toml")
	}
}

func allConfigScopes() map[string]struct{} {
	return map[string]struct{}{
		configScopeService:     {},
		configScopeUI:          {},
		configScopeKeybindings: {},
	}
}

func resolveConfigScopes(values []string) (map[string]struct{}, error) {
	if len(values) == 0 {
		return allConfigScopes(), nil
	}
	out := map[string]struct{}{}
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			scope, err := normalizeConfigScope(part)
			if err != nil {
				return nil, err
			}
			if scope == "all" {
				return allConfigScopes(), nil
			}
			out[scope] = struct{}{}
		}
	}
	return out, nil
}

func normalizeConfigScope(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "all":
		return "all", nil
	case configScopeService, "core":
		return configScopeService, nil
	case configScopeUI:
		return configScopeUI, nil
	case configScopeKeybindings, "keys":
		return configScopeKeybindings, nil
	default:
		return "", errors.New("invalid scope: must be service, ui, keybindings, or all")
	}
}

func scopeSelected(scopes map[string]struct{}, scope string) bool {
	_, ok := scopes[scope]
	return ok
}
