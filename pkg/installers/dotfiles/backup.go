package dotfiles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/example/devsetup/pkg/errors"
	"github.com/example/devsetup/pkg/logging"
)

// timestampLayout names backups down to the second. Two backups of the same
// target within one second collide and the last write wins; acceptable for
// a single-user interactive tool.
const timestampLayout = "20060102_150405"

// backupSuffix separates the original filename from the timestamp.
const backupSuffix = ".backup_"

// BackupStore creates and restores timestamped copies of files about to be
// overwritten. The directory is created lazily on first use and nothing
// ever deletes old backups automatically.
type BackupStore struct {
	dir string

	// now is the clock, injectable for collision tests.
	now func() time.Time
}

// NewBackupStore creates a store rooted at dir.
func NewBackupStore(dir string) *BackupStore {
	return &BackupStore{dir: dir, now: time.Now}
}

// Dir returns the backup directory.
func (b *BackupStore) Dir() string { return b.dir }

// Create backs up the file at target before a destructive overwrite and
// returns the backup path. Regular files are copied with their metadata;
// for symlinks the backup records the prior link destination as text.
func (b *BackupStore) Create(target string) (string, error) {
	fi, err := os.Lstat(target)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupFailed, "cannot stat %s", target)
	}

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupFailed, "cannot create backup directory %s", b.dir)
	}

	name := fmt.Sprintf("%s%s%s", filepath.Base(target), backupSuffix, b.now().Format(timestampLayout))
	backupPath := filepath.Join(b.dir, name)

	if fi.Mode()&os.ModeSymlink != 0 {
		dest, err := os.Readlink(target)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrBackupFailed, "cannot read link %s", target)
		}
		if err := os.WriteFile(backupPath, []byte(dest+"\n"), 0600); err != nil {
			return "", errors.Wrapf(err, errors.ErrBackupFailed, "cannot record link target for %s", target)
		}
		return backupPath, nil
	}

	if err := copyFile(target, backupPath); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupFailed, "cannot back up %s", target)
	}

	logger := logging.GetLogger("dotfiles.backup")
	logger.Info().
		Str("target", target).
		Str("backup", backupPath).
		Msg("Backed up existing file")
	return backupPath, nil
}

// Latest returns the most-recently-modified backup for a target basename,
// or false when none exist.
func (b *BackupStore) Latest(basename string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(b.dir, basename+backupSuffix+"*"))
	if err != nil || len(matches) == 0 {
		return "", false
	}

	var newest string
	var newestMod time.Time
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil {
			continue
		}
		if newest == "" || fi.ModTime().After(newestMod) {
			newest = m
			newestMod = fi.ModTime()
		}
	}
	if newest == "" {
		return "", false
	}
	return newest, true
}

// Restore copies the newest backup for target back into place. It reports
// whether a backup existed; absence of one is not an error.
func (b *BackupStore) Restore(target string) (bool, error) {
	backup, ok := b.Latest(filepath.Base(target))
	if !ok {
		return false, nil
	}
	if err := copyFile(backup, target); err != nil {
		return true, errors.Wrapf(err, errors.ErrRestoreFailed, "cannot restore %s", backup)
	}
	logger := logging.GetLogger("dotfiles.backup")
	logger.Info().
		Str("backup", backup).
		Str("target", target).
		Msg("Restored backup")
	return true, nil
}

// Count returns the number of accumulated backups.
func (b *BackupStore) Count() int {
	matches, err := filepath.Glob(filepath.Join(b.dir, "*"+backupSuffix+"*"))
	if err != nil {
		return 0
	}
	return len(matches)
}

// copyFile copies src to dst preserving mode and modification time.
func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// Preserve the permission bits even when dst already existed.
	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())
}
