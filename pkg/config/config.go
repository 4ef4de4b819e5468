// Package config loads devsetup's component definitions. Built-in defaults
// ship as an embedded YAML manifest; an optional TOML file under the user's
// XDG config directory overrides individual sections.
package config

import (
	"io/fs"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/example/devsetup/pkg/errors"
	"github.com/example/devsetup/pkg/logging"
)

// DotfileSpec describes one logical configuration file to deploy.
type DotfileSpec struct {
	// Name is the logical source filename looked up in the source tiers.
	Name string `yaml:"name" toml:"name"`
	// Target is the deployment path relative to home.
	Target string `yaml:"target" toml:"target"`
	// Mode is the octal permission mode applied after deployment.
	Mode string `yaml:"mode" toml:"mode"`
}

// FileMode parses the entry's octal mode, defaulting to owner-only.
func (d DotfileSpec) FileMode() fs.FileMode {
	if d.Mode == "" {
		return 0o600
	}
	mode, err := strconv.ParseUint(d.Mode, 8, 32)
	if err != nil {
		return 0o600
	}
	return fs.FileMode(mode)
}

// ZshPluginSpec describes one oh-my-zsh plugin to clone.
type ZshPluginSpec struct {
	Name string `yaml:"name" toml:"name"`
	URL  string `yaml:"url" toml:"url"`
}

// MCPPluginSpec describes one MCP plugin and the exact command that
// registers it with the coding assistant.
type MCPPluginSpec struct {
	Name    string   `yaml:"name" toml:"name"`
	Command []string `yaml:"command" toml:"command"`
}

// Config is the merged view of defaults and user overrides.
type Config struct {
	// BackupDir relocates pre-overwrite backups; empty keeps the default.
	BackupDir string `yaml:"backup_dir" toml:"backup_dir"`

	Dotfiles   []DotfileSpec   `yaml:"dotfiles" toml:"dotfiles"`
	ZshPlugins []ZshPluginSpec `yaml:"zsh_plugins" toml:"zsh_plugins"`
	MCPPlugins []MCPPluginSpec `yaml:"mcp_plugins" toml:"mcp_plugins"`
}

// Defaults returns the built-in configuration.
func Defaults() (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid embedded defaults manifest")
	}
	return &cfg, nil
}

// Load returns the defaults merged with the user config at path, if one
// exists. A missing user config is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path)
	}

	var user Config
	if err := toml.Unmarshal(data, &user); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse config file %s", path)
	}

	cfg.merge(&user)
	logger := logging.GetLogger("config")
	logger.Debug().Str("path", path).Msg("User config merged over defaults")
	return cfg, nil
}

// merge overlays non-empty sections of the user config. Lists replace the
// defaults wholesale rather than appending, so users can drop entries.
func (c *Config) merge(user *Config) {
	if user.BackupDir != "" {
		c.BackupDir = user.BackupDir
	}
	if len(user.Dotfiles) > 0 {
		c.Dotfiles = user.Dotfiles
	}
	if len(user.ZshPlugins) > 0 {
		c.ZshPlugins = user.ZshPlugins
	}
	if len(user.MCPPlugins) > 0 {
		c.MCPPlugins = user.MCPPlugins
	}
}
