package installer

import (
	"bytes"
	"context"
	"crypto"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/remancodeking/zocopos-launcher/internal/config"
	domain "github.com/remancodeking/zocopos-launcher/internal/domain/release"
	"github.com/remancodeking/zocopos-launcher/internal/logger"
	"github.com/remancodeking/zocopos-launcher/internal/repository/manifest"
	"github.com/remancodeking/zocopos-launcher/internal/service/common"
	"github.com/remancodeking/zocopos-launcher/internal/service/source"
)

const (
	// DefaultFileMode is used when producing executable artifacts.
	DefaultFileMode os.FileMode = 0o755

	// stagedExecutableName is the download staged inside the update directory
	// before it is applied.
	stagedExecutableName = "ZocoPOS_new.exe"

	// checksumFunction hashes release executables. The sha256 import in
	// checksum.go guarantees availability.
	checksumFunction = crypto.SHA256
)

var (
	// errChecksumMismatch indicates the downloaded executable is corrupted.
	errChecksumMismatch = errors.New("downloaded file checksum mismatch")
	// errReleaseIsNotSet is returned when a nil release is provided.
	errReleaseIsNotSet = errors.New("release is not set")
)

// Installer downloads releases, verifies their integrity and applies them to
// the installation directory, keeping rolling backups of what it replaces.
type Installer struct {
	// cfg holds the launcher configuration.
	cfg *config.Config
	// paths is the derived installation layout.
	paths config.Paths
	// repo persists the installed-version manifest.
	repo manifest.Repository
}

// New creates an installer for the provided configuration.
func New(cfg *config.Config, repo manifest.Repository) *Installer {
	return &Installer{
		cfg:   cfg,
		paths: cfg.Paths(),
		repo:  repo,
	}
}

// Install downloads and applies a release.
//
// Before an update (not a first install) the current executable and the
// application database are backed up. If the installation fails and no
// executable survived, the newest backup is restored. Backup and restore
// problems are logged as warnings, never escalated: a failed backup must not
// block an otherwise healthy update.
func (i *Installer) Install(ctx context.Context, src source.Source, rel *domain.Release, firstTime bool) error {
	if rel == nil {
		return errReleaseIsNotSet
	}

	if !firstTime {
		logger.Info(ctx, "Backing up current version")

		if err := i.BackupExecutable(ctx); err != nil {
			logger.WarnKV(ctx, "Executable backup failed", "error", err)
		}

		if err := i.BackupDatabase(ctx); err != nil {
			logger.WarnKV(ctx, "Database backup failed", "error", err)
		}
	}

	if err := i.install(ctx, src, rel); err != nil {
		if _, statErr := os.Stat(i.paths.AppExecutable); errors.Is(statErr, os.ErrNotExist) {
			if restoreErr := i.RestoreBackup(ctx); restoreErr != nil {
				logger.WarnKV(ctx, "Restore after failed install did not succeed", "error", restoreErr)
			}
		}

		return err
	}

	return nil
}

// install stages the download, verifies it and atomically replaces the
// installed executable.
func (i *Installer) install(ctx context.Context, src source.Source, rel *domain.Release) error {
	if err := os.MkdirAll(i.paths.UpdateDir, 0o755); err != nil {
		return fmt.Errorf("create update directory: %w", err)
	}

	stagedPath := filepath.Join(i.paths.UpdateDir, stagedExecutableName)

	logger.InfoKV(ctx, "Downloading release",
		"version", rel.Version, "source", src.Name(), "staging", stagedPath)

	if err := src.Fetch(ctx, rel, stagedPath); err != nil {
		return fmt.Errorf("download release: %w", err)
	}

	checksumHex := rel.SHA256
	if checksumHex != "" {
		logger.Info(ctx, "Verifying integrity of the downloaded file")

		actual, err := FileChecksumHex(stagedPath)
		if err != nil {
			return err
		}

		if actual != checksumHex {
			_ = os.Remove(stagedPath)

			return fmt.Errorf("%w: expected %s, got %s", errChecksumMismatch, checksumHex, actual)
		}
	} else {
		// No published checksum; record the one we computed ourselves.
		computed, err := FileChecksumHex(stagedPath)
		if err != nil {
			return err
		}

		checksumHex = computed
	}

	if err := i.applyStaged(ctx, stagedPath, checksumHex); err != nil {
		return err
	}

	return i.saveManifest(ctx, rel.Version, checksumHex, src.Name())
}

// applyStaged replaces the installed executable with the staged file.
// go-update re-verifies the checksum and keeps a rollback copy during apply.
func (i *Installer) applyStaged(ctx context.Context, stagedPath, checksumHex string) error {
	data, err := os.ReadFile(filepath.Clean(stagedPath))
	if err != nil {
		return err
	}

	checksum, err := hex.DecodeString(checksumHex)
	if err != nil {
		return fmt.Errorf("decode checksum: %w", err)
	}

	if _, err = os.Stat(i.paths.AppExecutable); errors.Is(err, os.ErrNotExist) {
		var created *os.File

		if created, err = os.Create(i.paths.AppExecutable); err != nil {
			return err
		}

		_ = created.Close()
	}

	logger.InfoKV(ctx, "Applying update", "target", i.paths.AppExecutable)

	options := goupdate.Options{
		TargetPath: i.paths.AppExecutable,
		TargetMode: DefaultFileMode,
		Checksum:   checksum,
		Hash:       checksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	_ = os.Remove(stagedPath)

	oldFileName := i.paths.AppExecutable + ".old"
	if _, err = os.Stat(oldFileName); err == nil {
		_ = os.Remove(oldFileName)
	}

	return nil
}

// saveManifest records what was installed, when, and by whom.
func (i *Installer) saveManifest(ctx context.Context, version, checksumHex, sourceName string) error {
	actor, err := common.DetectActor()
	if err != nil {
		logger.WarnKV(ctx, "Unable to detect actor for manifest", "error", err)
	}

	m := &domain.Manifest{
		Version:     version,
		SHA256:      checksumHex,
		Source:      sourceName,
		InstalledAt: time.Now().UTC(),
		InstalledBy: actor,
	}

	if err = i.repo.Save(ctx, m); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}

	logger.InfoKV(ctx, "Installed", "version", version, "source", sourceName)

	return nil
}
