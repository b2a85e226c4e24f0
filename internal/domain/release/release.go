package release

import (
	"time"

	goversion "github.com/hashicorp/go-version"
)

// Actor identifies who performed an installation.
type Actor struct {
	// Hostname is the machine name where the installation was performed.
	Hostname string `json:"hostname"`
	// Username is the system user who ran the launcher.
	Username string `json:"username"`
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// Release describes an available build of the desktop application.
type Release struct {
	// Version is the semantic version of the release (without the "v" prefix).
	Version string
	// DownloadURL locates the executable asset. For local sources it is a filesystem path.
	DownloadURL string
	// SHA256 is the uppercase hex checksum of the executable, empty when unknown.
	SHA256 string
	// Size is the executable size in bytes, zero when unknown.
	Size int64
	// Notes are the release notes, if any.
	Notes string
}

// Manifest is the version.json document.
//
// The packager publishes it next to the release asset (version, checksum,
// size, release time); the installer writes it next to the installed
// executable with the installation fields filled in.
type Manifest struct {
	// Version is the semantic version the manifest describes.
	Version string `json:"version"`
	// SHA256 is the uppercase hex checksum of the executable.
	SHA256 string `json:"sha256"`
	// SizeBytes is the executable size, set by the packager.
	SizeBytes int64 `json:"size_bytes,omitempty"`
	// ReleasedAt is when the release manifest was produced.
	ReleasedAt time.Time `json:"released_at,omitzero"`
	// Source records where the installed build came from ("github" or "local").
	Source string `json:"source,omitempty"`
	// InstalledAt is when the build was installed on this machine.
	InstalledAt time.Time `json:"installed_at,omitzero"`
	// InstalledBy records the host and user that performed the installation.
	InstalledBy *Actor `json:"installed_by,omitempty"`
}

// Clone returns a copy of the manifest to avoid leaking internal references.
func (m *Manifest) Clone() *Manifest {
	if m == nil {
		return nil
	}

	cloned := *m
	cloned.InstalledBy = m.InstalledBy.Clone()

	return &cloned
}

// IsNewer reports whether the remote version should replace the local one.
// A missing or unparsable local version always triggers an update; an
// unparsable remote version falls back to a plain inequality check.
func IsNewer(local, remote string) bool {
	if remote == "" {
		return false
	}

	remoteVersion, err := goversion.NewVersion(remote)
	if err != nil {
		return remote != local
	}

	if local == "" {
		return true
	}

	localVersion, err := goversion.NewVersion(local)
	if err != nil {
		return true
	}

	return remoteVersion.GreaterThan(localVersion)
}
