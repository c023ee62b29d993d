package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"perso/internal/logging"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "perso" // application name used for config directory

// ConfigEnvVar names the environment variable that points at an explicit config file.
const ConfigEnvVar = "PERSO_CONFIG"

var ErrNoConfig = errors.New("no configuration file found")

// Config holds the user configuration consumed by the tool collaborators.
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Mbox        MboxConfig        `yaml:"mbox"`
	Environment map[string]string `yaml:"environment"`
	// EnvFile is an optional dotenv file whose values sit under Environment.
	EnvFile string       `yaml:"env_file"`
	Server  ServerConfig `yaml:"server"`

	// path the config was read from, empty for defaults
	source string
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type MboxConfig struct {
	Path string `yaml:"path"`
	Src  string `yaml:"SRC"`
}

type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() string {
	configPath := filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")
	logging.Debug("Determined config path", "path", configPath)
	return configPath
}

// SearchPaths lists the candidate config locations in lookup order.
func SearchPaths() []string {
	var paths []string
	if env := os.Getenv(ConfigEnvVar); env != "" {
		paths = append(paths, ExpandHome(env))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths,
			filepath.Join(cwd, "config", "config.yaml"),
			filepath.Join(cwd, "config.yaml"),
		)
	}
	paths = append(paths, ConfigPath())
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".mcps", "config.yaml"))
	}
	return paths
}

// FindConfigFile returns the path to an existing config file, and whether it exists.
func FindConfigFile() (string, bool) {
	for _, candidate := range SearchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			logging.Debug("Config found", "path", candidate)
			return candidate, true
		}
	}
	return ConfigPath(), false
}

// Load finds and loads the configuration. A missing or unreadable file is
// not fatal: the defaults are returned along with the reason, so callers can
// log it and keep serving.
func Load() (*Config, error) {
	path, exists := FindConfigFile()
	if !exists {
		cfg := DefaultConfig()
		return &cfg, ErrNoConfig
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		def := DefaultConfig()
		return &def, err
	}
	return cfg, nil
}

// LoadFrom loads config from a specific path. Fields absent from the file
// keep their default values.
func LoadFrom(path string) (*Config, error) {
	logging.Info("Reading config file", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	// an empty file decodes to io.EOF and keeps the defaults
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.source = path
	cfg.fillDefaults()

	return &cfg, nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/gourmand/recipes.db",
		},
		Mbox: MboxConfig{
			Path: "~/Mail/ia_raw.mbox",
		},
		Environment: map[string]string{},
		Server: ServerConfig{
			Name:    "serveur-mcp",
			Version: "1.0.0",
		},
	}
}

func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
	if c.Server.Name == "" {
		c.Server.Name = def.Server.Name
	}
	if c.Server.Version == "" {
		c.Server.Version = def.Server.Version
	}
	if c.Environment == nil {
		c.Environment = map[string]string{}
	}
}

// Source returns the file the configuration was read from, or "" for defaults.
func (c *Config) Source() string {
	return c.source
}

// DatabasePath returns the recipe database location with ~ expanded.
func (c *Config) DatabasePath() string {
	return ExpandHome(c.Database.Path)
}

// MboxPath returns the mailbox location with ~ expanded. Empty means the
// mailbox is not configured.
func (c *Config) MboxPath() string {
	return ExpandHome(c.Mbox.Path)
}

// EnvironmentVars merges the dotenv file (if any) with the yaml environment
// map; yaml values win. Values are ~-expanded.
func (c *Config) EnvironmentVars() (map[string]string, error) {
	merged := map[string]string{}

	if c.EnvFile != "" {
		fromFile, err := godotenv.Read(ExpandHome(c.EnvFile))
		if err != nil {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
		for k, v := range fromFile {
			merged[k] = ExpandHome(v)
		}
	}

	for k, v := range c.Environment {
		merged[k] = ExpandHome(v)
	}
	return merged, nil
}

// ApplyEnvironment exports the configured environment to the current process
// so subprocess-backed collaborators inherit it. Call once at start-up.
func (c *Config) ApplyEnvironment() error {
	vars, err := c.EnvironmentVars()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := os.Setenv(k, vars[k]); err != nil {
			return fmt.Errorf("failed to set %s: %w", k, err)
		}
		logging.Debug("Environment override applied", "key", k)
	}
	return nil
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
