package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if cfg.Gateway.Host != DefaultHost {
		t.Errorf("host = %q, want %q", cfg.Gateway.Host, DefaultHost)
	}
	if cfg.Gateway.Port != DefaultPort {
		t.Errorf("port = %d, want %d", cfg.Gateway.Port, DefaultPort)
	}
	if cfg.Tools.BashTimeoutMS != DefaultBashTimeoutMS {
		t.Errorf("bashTimeoutMs = %d, want %d", cfg.Tools.BashTimeoutMS, DefaultBashTimeoutMS)
	}
	if cfg.Agent.Workspace == "" {
		t.Error("workspace should not be empty")
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("OPENTOOL_WORKSPACE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Gateway.Port != DefaultPort {
		t.Errorf("expected default port %d, got %d", DefaultPort, cfg.Gateway.Port)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("OPENTOOL_WORKSPACE", "")
	t.Setenv("OPENTOOL_GATEWAY_PORT", "")

	cfgDir := filepath.Join(tmpDir, ".opentool")
	os.MkdirAll(cfgDir, 0755)

	testCfg := map[string]any{
		"agent": map[string]any{
			"workspace": "/srv/agent",
		},
		"gateway": map[string]any{
			"host": "127.0.0.1",
			"port": 9000,
		},
	}
	data, _ := json.MarshalIndent(testCfg, "", "  ")
	os.WriteFile(filepath.Join(cfgDir, "config.json"), data, 0644)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Agent.Workspace != "/srv/agent" {
		t.Errorf("workspace = %q, want /srv/agent", cfg.Agent.Workspace)
	}
	if cfg.Gateway.Host != "127.0.0.1" {
		t.Errorf("host = %q, want 127.0.0.1", cfg.Gateway.Host)
	}
	if cfg.Gateway.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Gateway.Port)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	t.Setenv("OPENTOOL_WORKSPACE", "/env/workspace")
	t.Setenv("OPENTOOL_GATEWAY_HOST", "10.0.0.1")
	t.Setenv("OPENTOOL_GATEWAY_PORT", "9191")
	t.Setenv("OPENTOOL_BASH_TIMEOUT_MS", "5000")
	t.Setenv("OPENTOOL_RESTRICT_TO_WORKSPACE", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Agent.Workspace != "/env/workspace" {
		t.Errorf("workspace = %q, want /env/workspace", cfg.Agent.Workspace)
	}
	if cfg.Gateway.Host != "10.0.0.1" {
		t.Errorf("host = %q, want 10.0.0.1", cfg.Gateway.Host)
	}
	if cfg.Gateway.Port != 9191 {
		t.Errorf("port = %d, want 9191", cfg.Gateway.Port)
	}
	if cfg.Tools.BashTimeoutMS != 5000 {
		t.Errorf("bashTimeoutMs = %d, want 5000", cfg.Tools.BashTimeoutMS)
	}
	if !cfg.Tools.RestrictToWorkspace {
		t.Error("restrictToWorkspace override not applied")
	}
}

func TestLoadConfig_TimeoutClamped(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("OPENTOOL_BASH_TIMEOUT_MS", "9999999")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Tools.BashTimeoutMS != DefaultMaxBashTimeout {
		t.Errorf("bashTimeoutMs = %d, want clamp to %d", cfg.Tools.BashTimeoutMS, DefaultMaxBashTimeout)
	}
}

func TestLoadConfig_LocalOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("OPENTOOL_GATEWAY_PORT", "")

	proj := filepath.Join(tmpDir, "proj")
	sub := filepath.Join(proj, "sub")
	os.MkdirAll(sub, 0755)

	projCfg, _ := json.Marshal(map[string]any{
		"gateway": map[string]any{"port": 9100},
		"tools":   map[string]any{"restrictToWorkspace": true},
	})
	os.WriteFile(filepath.Join(proj, LocalConfigName), projCfg, 0644)

	subCfg, _ := json.Marshal(map[string]any{
		"gateway": map[string]any{"port": 9200},
	})
	os.WriteFile(filepath.Join(sub, LocalConfigName), subCfg, 0644)

	t.Chdir(sub)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	// Nearest file wins; farther levels still apply.
	if cfg.Gateway.Port != 9200 {
		t.Errorf("port = %d, want 9200", cfg.Gateway.Port)
	}
	if !cfg.Tools.RestrictToWorkspace {
		t.Error("restrictToWorkspace from parent override not applied")
	}
}

func TestLoadConfig_LocalOverridesOutsideHome(t *testing.T) {
	homeDir := t.TempDir()
	elsewhere := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("OPENTOOL_GATEWAY_PORT", "")

	localCfg, _ := json.Marshal(map[string]any{
		"gateway": map[string]any{"port": 9300},
	})
	os.WriteFile(filepath.Join(elsewhere, LocalConfigName), localCfg, 0644)

	t.Chdir(elsewhere)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Gateway.Port != DefaultPort {
		t.Errorf("port = %d, want default %d (override outside home must be ignored)", cfg.Gateway.Port, DefaultPort)
	}
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cfg := DefaultConfig()
	cfg.Agent.Workspace = "/saved/workspace"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, ".opentool", "config.json"))
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal saved config: %v", err)
	}
	if loaded.Agent.Workspace != "/saved/workspace" {
		t.Errorf("saved workspace = %q, want /saved/workspace", loaded.Agent.Workspace)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cfgDir := filepath.Join(tmpDir, ".opentool")
	os.MkdirAll(cfgDir, 0755)
	os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte("invalid json"), 0644)

	_, err := LoadConfig()
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadConfig_EmptyWorkspace(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("OPENTOOL_WORKSPACE", "")

	cfgDir := filepath.Join(tmpDir, ".opentool")
	os.MkdirAll(cfgDir, 0755)

	testCfg := map[string]any{
		"agent": map[string]any{
			"workspace": "",
		},
	}
	data, _ := json.MarshalIndent(testCfg, "", "  ")
	os.WriteFile(filepath.Join(cfgDir, "config.json"), data, 0644)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Agent.Workspace == "" {
		t.Error("workspace should not be empty")
	}
}
