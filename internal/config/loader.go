package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"mcpflow/internal/mcpclient"
	"mcpflow/pkg/logging"
)

const (
	userConfigDir  = ".config/mcpflow"
	configFileName = "config.yaml"
)

// GetDefaultConfigPathOrPanic returns the conventional per-user config
// directory, panicking only when the OS cannot report a home directory
// at all.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}
	return filepath.Join(homeDir, userConfigDir)
}

// Load reads config.yaml from configPath, overlaying it onto Default().
// A missing file is not an error — it just means every default applies.
func Load(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	cfg := Default()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "no config.yaml found at %s, using defaults", configFilePath)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", configFilePath, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", configFilePath, err)
	}
	logging.Info("ConfigLoader", "loaded configuration from %s", configFilePath)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ServerDescriptors resolves every configured mcp.servers.<id> entry
// into a mcpclient.ServerDescriptor, reading Environment as literal
// KEY=VALUE pairs passed through to the server process verbatim (the
// vendor API key for the ai namespace is handled separately, via its
// own environment variable, never through per-server env pairs).
func ServerDescriptors(cfg Config) []mcpclient.ServerDescriptor {
	descriptors := make([]mcpclient.ServerDescriptor, 0, len(cfg.MCP.Servers))
	for id, sc := range cfg.MCP.Servers {
		timeout := time.Duration(sc.TimeoutMS) * time.Millisecond
		if timeout <= 0 {
			timeout = time.Duration(cfg.MCP.Client.DefaultTimeoutMS) * time.Millisecond
		}
		descriptors = append(descriptors, mcpclient.ServerDescriptor{
			ID:      id,
			Type:    mcpclient.TransportKind(sc.Type),
			Enabled: sc.Enabled,
			Command: sc.Command,
			Args:    sc.Args,
			Env:     sc.Environment,
			URL:     sc.URL,
			Headers: sc.Headers,
			Timeout: timeout,
		})
	}
	return descriptors
}
