package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/remancodeking/zocopos-launcher/internal/config"
	domain "github.com/remancodeking/zocopos-launcher/internal/domain/release"
	"github.com/remancodeking/zocopos-launcher/internal/logger"
	"github.com/remancodeking/zocopos-launcher/internal/repository/manifest"
)

// DefaultLocalVersion is reported when the dist folder has no version.json.
const DefaultLocalVersion = "1.0.0"

// Local serves releases from a local dist folder. It exists for testing the
// launcher against a desktop build that has not been published yet.
type Local struct {
	// dir is the dist folder containing the built executable.
	dir string
}

// NewLocal creates a release source backed by a local dist folder.
func NewLocal(dir string) *Local {
	return &Local{
		dir: dir,
	}
}

// Name implements Source.
func (l *Local) Name() string {
	return "local"
}

// Latest describes the executable currently sitting in the dist folder.
// Version and checksum come from the folder's version.json when present.
func (l *Local) Latest(ctx context.Context) (*domain.Release, error) {
	executablePath := filepath.Join(l.dir, config.AppExecutableName)

	info, err := os.Stat(executablePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", executablePath, ErrNoRelease)
		}

		return nil, fmt.Errorf("stat %s: %w", executablePath, err)
	}

	rel := &domain.Release{
		Version:     DefaultLocalVersion,
		DownloadURL: executablePath,
		Size:        info.Size(),
		Notes:       "Local build",
	}

	repo := manifest.NewFileRepository(filepath.Join(l.dir, config.ManifestFilename))

	m, err := repo.Load(ctx)

	switch {
	case err == nil:
		if m.Version != "" {
			rel.Version = m.Version
		}

		rel.SHA256 = m.SHA256
	case errors.Is(err, manifest.ErrNotFound):
		logger.DebugKV(ctx, "Dist folder has no manifest, using fallback version",
			"version", rel.Version)
	default:
		return nil, err
	}

	return rel, nil
}

// Fetch copies the executable out of the dist folder.
func (l *Local) Fetch(_ context.Context, rel *domain.Release, destination string) error {
	in, err := os.Open(filepath.Clean(rel.DownloadURL))
	if err != nil {
		return fmt.Errorf("open local build: %w", err)
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(destination), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return fmt.Errorf("copy local build: %w", err)
	}

	return out.Close()
}
