package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	xdg.Reload()
	defer xdg.Reload()

	if got := ConfigPath(); got != "/custom/config/perso/config.yaml" {
		t.Errorf("Expected XDG config path, got %s", got)
	}
}

func TestSearchPaths_Order(t *testing.T) {
	t.Setenv(ConfigEnvVar, "/explicit/perso.yaml")

	paths := SearchPaths()
	if len(paths) < 4 {
		t.Fatalf("Expected at least 4 candidate paths, got %v", paths)
	}
	if paths[0] != "/explicit/perso.yaml" {
		t.Errorf("Explicit config path should come first, got %s", paths[0])
	}

	cwd, _ := os.Getwd()
	if paths[1] != filepath.Join(cwd, "config", "config.yaml") {
		t.Errorf("Expected ./config/config.yaml second, got %s", paths[1])
	}
	if paths[2] != filepath.Join(cwd, "config.yaml") {
		t.Errorf("Expected ./config.yaml third, got %s", paths[2])
	}
}

func TestLoad_UsesEnvVarPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "database:\n  path: /data/recipes.db\nmbox:\n  path: /data/ia.mbox\n  SRC: ia\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv(ConfigEnvVar, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Source() != configPath {
		t.Errorf("Expected source %s, got %s", configPath, cfg.Source())
	}
	if cfg.DatabasePath() != "/data/recipes.db" {
		t.Errorf("Unexpected database path %s", cfg.DatabasePath())
	}
	if cfg.MboxPath() != "/data/ia.mbox" || cfg.Mbox.Src != "ia" {
		t.Errorf("Unexpected mbox config %+v", cfg.Mbox)
	}
	// Server section absent from the file keeps its defaults
	if cfg.Server.Name != "serveur-mcp" || cfg.Server.Version != "1.0.0" {
		t.Errorf("Expected default server info, got %+v", cfg.Server)
	}
}

func TestLoad_NoConfigReturnsDefaults(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	defer xdg.Reload()

	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	cfg, err := Load()
	if !errors.Is(err, ErrNoConfig) {
		t.Errorf("Expected ErrNoConfig, got %v", err)
	}
	if cfg == nil {
		t.Fatal("Load should return defaults even without a file")
	}
	if cfg.Database.Path != DefaultConfig().Database.Path {
		t.Errorf("Expected default database path, got %s", cfg.Database.Path)
	}
}

func TestConfigSaveLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	original := DefaultConfig()
	original.Database.Path = "/test/recipes.db"
	original.Mbox = MboxConfig{Path: "/test/mail.mbox", Src: "ia"}
	original.Environment = map[string]string{"DISPLAY": ":1"}

	if err := original.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %s", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %s", err)
	}

	if loaded.Database.Path != original.Database.Path {
		t.Errorf("Database path mismatch: expected %s, got %s", original.Database.Path, loaded.Database.Path)
	}
	if loaded.Mbox != original.Mbox {
		t.Errorf("Mbox mismatch: expected %+v, got %+v", original.Mbox, loaded.Mbox)
	}
	if loaded.Environment["DISPLAY"] != ":1" {
		t.Errorf("Environment mismatch: got %v", loaded.Environment)
	}
}

func TestConfigFilePermissions(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	config := DefaultConfig()
	if err := config.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %s", err)
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %s", err)
	}

	mode := fileInfo.Mode()
	if mode&0077 != 0 {
		t.Errorf("Config file should not be readable by group/others, got mode %o", mode)
	}
}

func TestLoadFrom_EmptyFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Empty config should load, got %v", err)
	}
	if cfg.Database.Path != DefaultConfig().Database.Path {
		t.Errorf("Expected default database path, got %s", cfg.Database.Path)
	}
}

func TestEnvironmentVars(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("DISPLAY=:9\nNODE_PATH=/usr/lib/node_modules\n"), 0600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	cfg := DefaultConfig()
	cfg.EnvFile = envFile
	cfg.Environment = map[string]string{
		"DISPLAY":    ":0",
		"XAUTHORITY": "~/.Xauthority",
	}

	vars, err := cfg.EnvironmentVars()
	if err != nil {
		t.Fatalf("EnvironmentVars returned error: %v", err)
	}

	if vars["DISPLAY"] != ":0" {
		t.Errorf("yaml value should override env file, got %s", vars["DISPLAY"])
	}
	if vars["NODE_PATH"] != "/usr/lib/node_modules" {
		t.Errorf("env file value missing, got %v", vars)
	}
	if vars["XAUTHORITY"] != filepath.Join(home, ".Xauthority") {
		t.Errorf("Expected ~ expansion, got %s", vars["XAUTHORITY"])
	}
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv("PERSO_TEST_OVERRIDE", "before")

	cfg := DefaultConfig()
	cfg.Environment = map[string]string{"PERSO_TEST_OVERRIDE": "after"}

	if err := cfg.ApplyEnvironment(); err != nil {
		t.Fatalf("ApplyEnvironment returned error: %v", err)
	}
	if got := os.Getenv("PERSO_TEST_OVERRIDE"); got != "after" {
		t.Errorf("Expected override to be exported, got %s", got)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/Mail/ia_raw.mbox", filepath.Join(home, "Mail", "ia_raw.mbox")},
		{"/abs/path", "/abs/path"},
		{"relative/~", "relative/~"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Error handling tests
func TestConfigErrorHandling(t *testing.T) {
	t.Run("load non-existent file", func(t *testing.T) {
		_, err := LoadFrom("/non/existent/file.yaml")
		if err == nil {
			t.Error("Should error when loading non-existent file")
		}
	})

	t.Run("load invalid YAML", func(t *testing.T) {
		invalidFile := filepath.Join(t.TempDir(), "invalid.yaml")
		os.WriteFile(invalidFile, []byte("invalid: yaml: content: ["), 0644)

		_, err := LoadFrom(invalidFile)
		if err == nil {
			t.Error("Should error when loading invalid YAML")
		}
	})

	t.Run("missing env file", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EnvFile = "/non/existent/.env"
		if _, err := cfg.EnvironmentVars(); err == nil {
			t.Error("Should error when env file is missing")
		}
	})
}
