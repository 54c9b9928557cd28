package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadRunner loads the game loop configuration.
// Search order: customPath -> ~/.jumpgame/configs/runner.yaml -> ./configs/runner.yaml -> embedded default
func LoadRunner(customPath string) (RunnerConfig, error) {
	cfg := DefaultRunnerConfig()
	if err := load("runner.yaml", customPath, defaultRunnerYAML, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadServer loads the record server configuration.
// Search order: customPath -> ~/.jumpgame/configs/server.yaml -> ./configs/server.yaml -> embedded default
func LoadServer(customPath string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if err := load("server.yaml", customPath, defaultServerYAML, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// load decodes the first readable document in the search order into out.
// out must already hold the hard-coded defaults; keys missing from the file keep them.
func load(filename, customPath string, embedded []byte, out any) error {
	// Custom path is the only source whose failures are reported
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return nil
	}

	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, out); err == nil {
				return nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", filename)); err == nil {
		if err := yaml.Unmarshal(data, out); err == nil {
			return nil
		}
	}

	// A broken embed leaves the hard-coded defaults in place
	//nolint:errcheck
	yaml.Unmarshal(embedded, out)
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jumpgame", "configs", filename)
}

// ApplyEnv overrides server settings from the environment.
// Only PORT is consulted; an unset or empty value leaves the config alone.
func ApplyEnv(cfg *ServerConfig, getenv func(string) string) error {
	raw := getenv("PORT")
	if raw == "" {
		return nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("config: invalid PORT %q", raw)
	}
	cfg.Port = port
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
