package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/stellarlinkco/opentool/internal/fsutil"
)

const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 18790
	DefaultBashTimeoutMS  = 120_000
	DefaultMaxBashTimeout = 600_000
)

type Config struct {
	Agent   AgentConfig   `json:"agent"`
	Tools   ToolsConfig   `json:"tools"`
	Gateway GatewayConfig `json:"gateway"`
}

type AgentConfig struct {
	// Workspace is the default working directory for tool calls.
	Workspace string `json:"workspace"`
}

type ToolsConfig struct {
	// BashTimeoutMS is the default bash timeout in milliseconds.
	BashTimeoutMS int `json:"bashTimeoutMs"`
	// RestrictToWorkspace rejects gateway tool calls whose file paths
	// resolve outside the workspace.
	RestrictToWorkspace bool `json:"restrictToWorkspace"`
}

type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Agent: AgentConfig{
			Workspace: filepath.Join(home, ".opentool", "workspace"),
		},
		Tools: ToolsConfig{
			BashTimeoutMS:       DefaultBashTimeoutMS,
			RestrictToWorkspace: false,
		},
		Gateway: GatewayConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".opentool")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// LocalConfigName is a per-project override discovered by walking up
// from the working directory.
const LocalConfigName = ".opentool.json"

// applyLocalOverrides overlays .opentool.json files found between the
// working directory and the home directory, nearest file winning. The
// walk only runs when the working directory lives under home, so
// unrelated trees are never scanned.
func applyLocalOverrides(cfg *Config) {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	home := os.Getenv("HOME")
	if home == "" || !fsutil.Overlaps(home, cwd) {
		return
	}

	paths := fsutil.FindUp(LocalConfigName, cwd, home)
	for i := len(paths) - 1; i >= 0; i-- {
		data, err := os.ReadFile(paths[i])
		if err != nil {
			continue
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			log.Printf("[config] skip %s: %v", paths[i], err)
		}
	}
}

func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyLocalOverrides(cfg)

	// Environment variable overrides
	if ws := os.Getenv("OPENTOOL_WORKSPACE"); ws != "" {
		cfg.Agent.Workspace = ws
	}
	if host := os.Getenv("OPENTOOL_GATEWAY_HOST"); host != "" {
		cfg.Gateway.Host = host
	}
	if port := os.Getenv("OPENTOOL_GATEWAY_PORT"); port != "" {
		if parsed, err := strconv.Atoi(port); err == nil {
			cfg.Gateway.Port = parsed
		}
	}
	if timeout := os.Getenv("OPENTOOL_BASH_TIMEOUT_MS"); timeout != "" {
		if parsed, err := strconv.Atoi(timeout); err == nil {
			cfg.Tools.BashTimeoutMS = parsed
		}
	}
	if restrict := os.Getenv("OPENTOOL_RESTRICT_TO_WORKSPACE"); restrict != "" {
		if parsed, err := strconv.ParseBool(restrict); err == nil {
			cfg.Tools.RestrictToWorkspace = parsed
		}
	}

	if cfg.Agent.Workspace == "" {
		cfg.Agent.Workspace = DefaultConfig().Agent.Workspace
	}
	if cfg.Tools.BashTimeoutMS <= 0 {
		cfg.Tools.BashTimeoutMS = DefaultBashTimeoutMS
	}
	if cfg.Tools.BashTimeoutMS > DefaultMaxBashTimeout {
		cfg.Tools.BashTimeoutMS = DefaultMaxBashTimeout
	}

	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(ConfigPath(), data, 0644)
}
