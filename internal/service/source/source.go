package source

import (
	"context"
	"errors"

	domain "github.com/remancodeking/zocopos-launcher/internal/domain/release"
)

// Source provides releases of the desktop application.
type Source interface {
	// Name identifies the source in logs and manifests ("github" or "local").
	Name() string
	// Latest returns the most recent available release.
	Latest(ctx context.Context) (*domain.Release, error)
	// Fetch downloads the release executable to the provided destination path.
	Fetch(ctx context.Context, rel *domain.Release, destination string) error
}

// ErrNoRelease is returned when the source has nothing to offer: the
// repository has no releases, the release carries no executable asset, or the
// local dist folder is empty.
var ErrNoRelease = errors.New("no release available")
