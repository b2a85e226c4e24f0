package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/remancodeking/zocopos-launcher/internal/repository/manifest"
	"github.com/remancodeking/zocopos-launcher/internal/service/installer"
	"github.com/remancodeking/zocopos-launcher/internal/service/packager"
)

// TestPackager_WritesManifest generates a release manifest for a built
// executable and verifies its contents.
func TestPackager_WritesManifest(t *testing.T) {
	dir := t.TempDir()
	exePath := filepath.Join(dir, "ZocoPOS.exe")
	require.NoError(t, os.WriteFile(exePath, []byte("desktop build"), 0o755))

	// Run packager with timeout context.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	options := &packager.Options{
		ExecutablePath: exePath,
		Version:        "2.0.0",
	}

	require.NoError(t, packager.Run(ctx, options))

	// Verify the manifest file was created next to the executable.
	manifestPath := filepath.Join(dir, "version.json")
	_, err := os.Stat(manifestPath)
	require.NoError(t, err)

	m, err := manifest.NewFileRepository(manifestPath).Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "2.0.0", m.Version)
	require.Equal(t, int64(len("desktop build")), m.SizeBytes)
	require.False(t, m.ReleasedAt.IsZero())

	// The published checksum matches the executable.
	sha, err := installer.FileChecksumHex(exePath)
	require.NoError(t, err)
	require.Equal(t, sha, m.SHA256)
}

// TestPackager_MissingExecutable fails when the build artifact does not exist.
func TestPackager_MissingExecutable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	options := &packager.Options{
		ExecutablePath: filepath.Join(t.TempDir(), "ZocoPOS.exe"),
	}

	err := packager.Run(ctx, options)
	require.ErrorIs(t, err, os.ErrNotExist)
}
