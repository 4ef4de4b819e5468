// Package dotfiles deploys personal configuration files into the home
// directory as symlinks. Each entry is classified against its selected
// source and reconciled with the minimal action: already-correct targets
// are never touched, and anything about to be overwritten is backed up
// first.
package dotfiles

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/devsetup/pkg/config"
	"github.com/example/devsetup/pkg/errors"
	"github.com/example/devsetup/pkg/installer"
	"github.com/example/devsetup/pkg/logging"
	"github.com/example/devsetup/pkg/paths"
	"github.com/example/devsetup/pkg/style"
)

// ComponentName identifies this installer.
const ComponentName = "dotfiles"

// sourceTiers labels the candidate source locations in priority order.
var sourceTiers = []string{"personal", "default", "legacy"}

// Entry is one logical configuration item: an ordered list of candidate
// sources and a single deployment target.
type Entry struct {
	// Name is the logical source filename.
	Name string

	// Sources are candidate locations in priority order; the first one
	// that exists is the selected source.
	Sources []string

	// Target is the absolute deployment path.
	Target string

	// Mode is applied to the selected source after deployment, since a
	// symlink's effective permissions defer to its target.
	Mode fs.FileMode
}

// Installer deploys dotfile entries and keeps them reconciled.
type Installer struct {
	entries []Entry
	backups *BackupStore
	logger  zerolog.Logger
}

// New builds the installer from configuration: entry names and modes come
// from cfg, source tiers and the backup directory from p.
func New(p *paths.Paths, cfg *config.Config) *Installer {
	backupDir := cfg.BackupDir
	if backupDir == "" {
		backupDir = p.BackupDir()
	}

	entries := make([]Entry, 0, len(cfg.Dotfiles))
	for _, spec := range cfg.Dotfiles {
		entries = append(entries, Entry{
			Name:    spec.Name,
			Sources: p.SourceCandidates(spec.Name),
			Target:  filepath.Join(p.Home(), spec.Target),
			Mode:    spec.FileMode(),
		})
	}

	return NewFromEntries(entries, backupDir)
}

// NewFromEntries builds the installer from explicit entries.
func NewFromEntries(entries []Entry, backupDir string) *Installer {
	return &Installer{
		entries: entries,
		backups: NewBackupStore(backupDir),
		logger:  logging.GetLogger(ComponentName),
	}
}

// Backups exposes the backup store, mainly for tests and status display.
func (i *Installer) Backups() *BackupStore { return i.backups }

func (i *Installer) Name() string { return ComponentName }

func (i *Installer) Description() string {
	return "Deploy dotfiles (.zshrc, .gitconfig, etc.) to home directory"
}

// resolveSource returns the first existing source candidate and its tier
// label. ok is false when no candidate exists.
func (i *Installer) resolveSource(e Entry) (source, tier string, ok bool) {
	for idx, candidate := range e.Sources {
		if _, err := os.Stat(candidate); err == nil {
			label := "source"
			if idx < len(sourceTiers) && len(e.Sources) == len(sourceTiers) {
				label = sourceTiers[idx]
			}
			return candidate, label, true
		}
	}
	return "", "", false
}

// IsInstalled reports whether every entry whose source exists is already
// deployed. Any absent, foreign or wrongly-linked target makes the whole
// component not installed; there is no partial credit.
func (i *Installer) IsInstalled() bool {
	for _, e := range i.entries {
		source, _, ok := i.resolveSource(e)
		if !ok {
			continue
		}
		if !Classify(source, e.Target).Deployed() {
			return false
		}
	}
	return true
}

// Install reconciles every entry to a correct symlink, backing up anything
// it is about to overwrite. Entries whose source is missing are skipped
// with a warning. Per-entry failures are logged and do not stop the
// remaining entries; the overall install fails if any entry failed.
func (i *Installer) Install(ctx context.Context) error {
	done := logging.LogOperationStart(i.logger, "install")
	defer done()

	var changed, failed int

	for _, e := range i.entries {
		source, tier, ok := i.resolveSource(e)
		if !ok {
			i.logger.Warn().
				Str("entry", e.Name).
				Strs("candidates", e.Sources).
				Msg("No source found, skipping entry")
			continue
		}

		state := Classify(source, e.Target)
		i.logger.Debug().
			Str("entry", e.Name).
			Str("tier", tier).
			Stringer("state", state).
			Msg("Classified entry")

		switch state {
		case StateSameFile, StateCorrectLink:
			// Already in the desired state.
			continue

		case StateAbsent:
			if err := i.link(source, e.Target); err != nil {
				i.logger.Error().Err(err).Str("entry", e.Name).Msg("Failed to deploy entry")
				failed++
				continue
			}

		case StateWrongLink, StateForeignFile:
			if _, err := i.backups.Create(e.Target); err != nil {
				// Never overwrite something we could not back up.
				i.logger.Error().Err(err).Str("entry", e.Name).Msg("Backup failed, leaving target untouched")
				failed++
				continue
			}
			if err := os.Remove(e.Target); err != nil {
				i.logger.Error().Err(err).Str("entry", e.Name).Msg("Failed to remove existing target")
				failed++
				continue
			}
			if err := i.link(source, e.Target); err != nil {
				i.logger.Error().Err(err).Str("entry", e.Name).Msg("Failed to deploy entry")
				failed++
				continue
			}
		}

		i.logger.Info().
			Str("entry", e.Name).
			Str("source", source).
			Str("tier", tier).
			Str("target", e.Target).
			Msg("Deployed entry")
		changed++
	}

	i.setPermissions()

	if failed > 0 {
		return errors.Newf(errors.ErrInstallFailed,
			"%d of %d dotfile entries failed to deploy", failed, len(i.entries))
	}
	if changed == 0 {
		i.logger.Info().Msg("Dotfiles already correctly deployed")
	} else {
		i.logger.Info().Int("deployed", changed).Msg("Dotfiles deployment completed")
	}
	return nil
}

// link creates the parent directories and the symlink itself.
func (i *Installer) link(source, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create parent of %s", target)
	}
	if err := os.Symlink(source, target); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s -> %s", target, source)
	}
	return nil
}

// setPermissions applies each entry's mode to its selected source file.
// Permissions go on the source because the targets are symlinks.
func (i *Installer) setPermissions() {
	for _, e := range i.entries {
		source, _, ok := i.resolveSource(e)
		if !ok {
			continue
		}
		if err := os.Chmod(source, e.Mode); err != nil {
			i.logger.Warn().Err(err).Str("entry", e.Name).Msg("Failed to set permissions")
		}
	}
}

// Uninstall deletes each deployed target and restores the newest backup
// when one exists. Each entry is attempted independently; failures are
// logged and do not stop the remaining entries.
func (i *Installer) Uninstall(ctx context.Context) error {
	var failed int

	for _, e := range i.entries {
		if _, err := os.Lstat(e.Target); err != nil {
			continue
		}

		i.logger.Info().Str("target", e.Target).Msg("Removing deployed file")
		if err := os.Remove(e.Target); err != nil {
			i.logger.Error().Err(err).Str("entry", e.Name).Msg("Failed to remove target")
			failed++
			continue
		}

		restored, err := i.backups.Restore(e.Target)
		if err != nil {
			i.logger.Error().Err(err).Str("entry", e.Name).Msg("Failed to restore backup")
			failed++
			continue
		}
		if !restored {
			i.logger.Debug().Str("entry", e.Name).Msg("No backup to restore")
		}
	}

	if failed > 0 {
		return errors.Newf(errors.ErrRestoreFailed,
			"%d dotfile entries could not be removed or restored", failed)
	}
	return nil
}

// Status reports the per-entry deployment state.
func (i *Installer) Status(ctx context.Context) string {
	var b strings.Builder
	b.WriteString(style.Header("Dotfiles") + "\n")

	for _, e := range i.entries {
		source, tier, ok := i.resolveSource(e)
		if !ok {
			fmt.Fprintf(&b, "  %s %s: source not found\n", style.Glyph(style.StatusWarn), e.Name)
			continue
		}

		state := Classify(source, e.Target)
		switch {
		case state.Deployed():
			fmt.Fprintf(&b, "  %s %s: %s (%s)\n", style.Glyph(style.StatusOK), e.Name, state, tier)
		case state == StateAbsent:
			fmt.Fprintf(&b, "  %s %s: not deployed (%s)\n", style.Glyph(style.StatusMissing), e.Name, tier)
		default:
			fmt.Fprintf(&b, "  %s %s: %s (%s)\n", style.Glyph(style.StatusWarn), e.Name, state, tier)
		}
	}

	if n := i.backups.Count(); n > 0 {
		fmt.Fprintf(&b, "  %s\n", style.Dim(fmt.Sprintf("%d backups in %s", n, i.backups.Dir())))
	}

	return b.String()
}

// Verify interface compliance
var (
	_ installer.Installer   = (*Installer)(nil)
	_ installer.Uninstaller = (*Installer)(nil)
)
