package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Repos lists the repositories to gather, as owner/name.
	Repos []string `yaml:"repos,omitempty"`

	// Branch is the branch whose commits are gathered. Empty means the
	// default branch of each repository.
	Branch string `yaml:"branch,omitempty"`

	// Since is the default collection window, either an ISO date
	// (2024-01-01) or a relative duration (30d, 6mo).
	Since string `yaml:"since,omitempty"`

	// OutputDir is where gathered collections are written.
	OutputDir string `yaml:"output_dir,omitempty"`

	// UsernamesFile maps GitHub logins to display names for reports.
	UsernamesFile string `yaml:"usernames_file,omitempty"`

	// DefaultFormat is the presentation format: table, markdown, or json.
	DefaultFormat string `yaml:"default_format,omitempty"`
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".contrib"
	}
	return filepath.Join(configDir, "contrib")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".contrib.yaml"
}

// ConfigFileExists returns true if the config file exists on disk
func ConfigFileExists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Load loads the configuration from disk.
// It first loads the global config from the XDG config directory, then
// merges any local .contrib.yaml on top (local values take precedence).
func Load() (*Config, error) {
	cfg := &Config{
		OutputDir:     "commits-issues-prs",
		DefaultFormat: "markdown",
	}

	if err := loadFile(ConfigPath(), cfg); err != nil {
		return nil, err
	}

	var local Config
	if err := loadFile(LocalConfigPath(), &local); err != nil {
		return nil, err
	}
	cfg = mergeConfig(cfg, &local)

	if cfg.OutputDir == "" {
		cfg.OutputDir = "commits-issues-prs"
	}
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "markdown"
	}

	return cfg, nil
}

// loadFile parses a YAML config file into cfg. A missing file is not an
// error.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{}

	if len(local.Repos) > 0 {
		result.Repos = local.Repos
	} else {
		result.Repos = global.Repos
	}

	if local.Branch != "" {
		result.Branch = local.Branch
	} else {
		result.Branch = global.Branch
	}

	if local.Since != "" {
		result.Since = local.Since
	} else {
		result.Since = global.Since
	}

	if local.OutputDir != "" {
		result.OutputDir = local.OutputDir
	} else {
		result.OutputDir = global.OutputDir
	}

	if local.UsernamesFile != "" {
		result.UsernamesFile = local.UsernamesFile
	} else {
		result.UsernamesFile = global.UsernamesFile
	}

	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	} else {
		result.DefaultFormat = global.DefaultFormat
	}

	return result
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	configDir := DefaultConfigDir()

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN
// environment variable, loading a .env file first if one is present.
// An empty token means unauthenticated requests with their much lower
// rate limit.
func (c *Config) GetGitHubToken() string {
	_ = godotenv.Load()
	return os.Getenv("GITHUB_TOKEN")
}

// SetDefaultFormat sets the default output format and saves
func (c *Config) SetDefaultFormat(format string) error {
	c.DefaultFormat = format
	return c.Save()
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	localPath := LocalConfigPath()
	if abs, err := filepath.Abs(localPath); err == nil {
		localPath = abs
	}

	_, localErr := os.Stat(LocalConfigPath())

	return ConfigPathInfo{
		GlobalPath:   ConfigPath(),
		GlobalExists: ConfigFileExists(),
		LocalPath:    localPath,
		LocalExists:  localErr == nil,
	}
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# contrib configuration file

# Repositories to gather, as owner/name
# repos:
#   - golang/go
#   - kubernetes/kubernetes

# Collection window: an ISO date or a relative duration
# since: 30d

# Where gathered collections are written
output_dir: commits-issues-prs

# Output format: table, markdown, or json
default_format: markdown

# Map GitHub logins to display names (optional)
# usernames_file: usernames.json
`
}
