package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/remancodeking/zocopos-launcher/internal/logger"
)

const (
	// executableBackupPrefix names rolling backups of the installed executable.
	executableBackupPrefix = "ZocoPOS_backup_"

	// databaseBackupPrefix names rolling backups of the application database.
	databaseBackupPrefix = "zocopos_local_backup_"

	// maxExecutableBackups is how many executable backups are retained.
	maxExecutableBackups = 3

	// maxDatabaseBackups is how many database backups are retained.
	maxDatabaseBackups = 5
)

// errNoBackups is returned when a restore is requested but no backup exists.
var errNoBackups = errors.New("no backups available")

// BackupExecutable copies the installed executable into the backup directory
// and prunes backups beyond the retention limit. A missing executable is not
// an error; there is simply nothing to back up.
func (i *Installer) BackupExecutable(ctx context.Context) error {
	if _, err := os.Stat(i.paths.AppExecutable); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err := os.MkdirAll(i.paths.BackupDir, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	backupName := fmt.Sprintf("%s%d.exe", executableBackupPrefix, time.Now().UnixNano())
	backupPath := filepath.Join(i.paths.BackupDir, backupName)

	if err := copyFile(i.paths.AppExecutable, backupPath); err != nil {
		return fmt.Errorf("copy executable backup: %w", err)
	}

	logger.InfoKV(ctx, "Executable backed up", "path", backupPath)

	return pruneBackups(i.paths.BackupDir, executableBackupPrefix, ".exe", maxExecutableBackups)
}

// BackupDatabase copies the application database into the data directory
// and prunes backups beyond the retention limit.
func (i *Installer) BackupDatabase(ctx context.Context) error {
	if _, err := os.Stat(i.paths.DatabaseFile); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	backupName := fmt.Sprintf("%s%d.db", databaseBackupPrefix, time.Now().UnixNano())
	backupPath := filepath.Join(i.cfg.DataDir, backupName)

	if err := copyFile(i.paths.DatabaseFile, backupPath); err != nil {
		return fmt.Errorf("copy database backup: %w", err)
	}

	logger.InfoKV(ctx, "Database backed up", "path", backupPath)

	return pruneBackups(i.cfg.DataDir, databaseBackupPrefix, ".db", maxDatabaseBackups)
}

// RestoreBackup copies the newest executable backup back into place.
func (i *Installer) RestoreBackup(ctx context.Context) error {
	backups, err := listBackups(i.paths.BackupDir, executableBackupPrefix, ".exe")
	if err != nil {
		return err
	}

	if len(backups) == 0 {
		return errNoBackups
	}

	// Names embed a nanosecond timestamp, so the lexicographically last one is newest.
	newest := backups[len(backups)-1]
	backupPath := filepath.Join(i.paths.BackupDir, newest)

	if err = copyFile(backupPath, i.paths.AppExecutable); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}

	logger.InfoKV(ctx, "Restored previous version from backup", "backup", newest)

	return nil
}

// listBackups returns matching backup filenames sorted ascending.
func listBackups(dir, prefix, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	var names []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.Type().IsRegular() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix) {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names, nil
}

// pruneBackups removes the oldest backups beyond the retention limit.
func pruneBackups(dir, prefix, suffix string, keep int) error {
	names, err := listBackups(dir, prefix, suffix)
	if err != nil {
		return err
	}

	for len(names) > keep {
		oldest := names[0]
		names = names[1:]

		if err = os.Remove(filepath.Join(dir, oldest)); err != nil {
			return fmt.Errorf("prune backup %s: %w", oldest, err)
		}
	}

	return nil
}

// copyFile copies src to dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, DefaultFileMode)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return err
	}

	return out.Close()
}
