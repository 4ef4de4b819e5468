// Package paths provides centralized path handling for devsetup.
// It resolves the configuration repository, the dotfile source tiers and
// the backup directory, with XDG Base Directory compliance for the tool's
// own config and state files.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/example/devsetup/pkg/errors"
)

// Environment variable names
const (
	// EnvRepoRoot overrides the configuration repository location
	EnvRepoRoot = "DEVSETUP_ROOT"

	// EnvBackupDir overrides the backup directory location
	EnvBackupDir = "DEVSETUP_BACKUP_DIR"
)

// Directory and file names.
// These define devsetup's on-disk layout and are not user-configurable;
// configurable locations belong in pkg/config.
const (
	// ConfigsDirName is the directory holding dotfile sources in the repo
	ConfigsDirName = "configs"

	// PersonalDirName holds per-user overrides of dotfile sources
	PersonalDirName = "personal"

	// DefaultDirName holds the shipped dotfile sources
	DefaultDirName = "default"

	// BackupDirName is the default backup directory under home
	BackupDirName = ".config-backups"

	// AppDirName is the directory name for devsetup's own files
	AppDirName = "devsetup"

	// UserConfigFile is the name of the optional user configuration file
	UserConfigFile = "config.toml"
)

// Paths resolves all filesystem locations used by devsetup.
type Paths struct {
	home      string
	repoRoot  string
	backupDir string
}

// Option customizes path resolution, mainly for tests.
type Option func(*Paths)

// WithHome overrides the home directory.
func WithHome(home string) Option {
	return func(p *Paths) { p.home = home }
}

// WithRepoRoot overrides the configuration repository root.
func WithRepoRoot(root string) Option {
	return func(p *Paths) { p.repoRoot = root }
}

// New resolves paths from the environment. The repository root comes from
// DEVSETUP_ROOT, falling back to the current working directory so the tool
// works when invoked from a checkout.
func New(opts ...Option) (*Paths, error) {
	p := &Paths{}
	for _, opt := range opts {
		opt(p)
	}

	if p.home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrNotFound, "cannot determine home directory")
		}
		p.home = home
	}

	if p.repoRoot == "" {
		if root := os.Getenv(EnvRepoRoot); root != "" {
			p.repoRoot = root
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrNotFound, "cannot determine working directory")
			}
			p.repoRoot = cwd
		}
	}

	if dir := os.Getenv(EnvBackupDir); dir != "" {
		p.backupDir = dir
	} else {
		p.backupDir = filepath.Join(p.home, BackupDirName)
	}

	return p, nil
}

// Home returns the user's home directory.
func (p *Paths) Home() string { return p.home }

// RepoRoot returns the configuration repository root.
func (p *Paths) RepoRoot() string { return p.repoRoot }

// ConfigsDir returns the dotfile sources directory in the repository.
func (p *Paths) ConfigsDir() string { return filepath.Join(p.repoRoot, ConfigsDirName) }

// PersonalDir returns the personal-override source tier.
func (p *Paths) PersonalDir() string { return filepath.Join(p.ConfigsDir(), PersonalDirName) }

// DefaultDir returns the default source tier.
func (p *Paths) DefaultDir() string { return filepath.Join(p.ConfigsDir(), DefaultDirName) }

// BackupDir returns the directory where pre-overwrite backups accumulate.
func (p *Paths) BackupDir() string { return p.backupDir }

// SetBackupDir overrides the backup directory (user config may relocate it).
func (p *Paths) SetBackupDir(dir string) { p.backupDir = dir }

// SourceCandidates returns the ordered source locations for a logical
// dotfile name: personal override, default, then the repository root for
// backward compatibility. First existing wins.
func (p *Paths) SourceCandidates(name string) []string {
	return []string{
		filepath.Join(p.PersonalDir(), name),
		filepath.Join(p.DefaultDir(), name),
		filepath.Join(p.repoRoot, name),
	}
}

// OhMyZshDir returns the oh-my-zsh installation directory.
func (p *Paths) OhMyZshDir() string { return filepath.Join(p.home, ".oh-my-zsh") }

// OhMyZshPluginsDir returns the custom plugins directory of oh-my-zsh.
func (p *Paths) OhMyZshPluginsDir() string {
	return filepath.Join(p.OhMyZshDir(), "custom", "plugins")
}

// UserConfigPath returns the XDG path of the optional user config file.
func (p *Paths) UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppDirName, UserConfigFile)
}
