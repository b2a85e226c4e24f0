package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/remancodeking/zocopos-launcher/internal/config"
	"github.com/remancodeking/zocopos-launcher/internal/repository/manifest"
	"github.com/remancodeking/zocopos-launcher/internal/service/launcher"
	"github.com/remancodeking/zocopos-launcher/internal/service/packager"
)

// publishBuild writes a desktop build into the dist folder and runs the real
// packager against it, exactly as a release pipeline would.
func publishBuild(t *testing.T, distDir, version string, content []byte) {
	t.Helper()

	exePath := filepath.Join(distDir, config.AppExecutableName)
	require.NoError(t, os.WriteFile(exePath, content, 0o755))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, packager.Run(ctx, &packager.Options{
		ExecutablePath: exePath,
		Version:        version,
	}))
}

// writeLauncherConfig persists a local-mode configuration and returns its path.
func writeLauncherConfig(t *testing.T, root, distDir string) string {
	t.Helper()

	cfg := &config.Config{
		LocalMode:      true,
		LocalSourceDir: distDir,
		InstallDir:     filepath.Join(root, "install"),
		DataDir:        filepath.Join(root, "data"),
	}

	configPath := filepath.Join(root, config.DefaultConfigFilename)
	require.NoError(t, config.Save(configPath, cfg))

	return configPath
}

// TestLauncher_InstallThenUpdate runs the packager and the launcher end to
// end: first install, an update to a newer build, and a no-op third run.
func TestLauncher_InstallThenUpdate(t *testing.T) {
	root := t.TempDir()
	distDir := filepath.Join(root, "dist")
	require.NoError(t, os.MkdirAll(distDir, 0o755))

	publishBuild(t, distDir, "1.0.0", []byte("build-one"))

	configPath := writeLauncherConfig(t, root, distDir)
	options := &launcher.Options{
		ConfigPath: configPath,
		Once:       true,
		SkipLaunch: true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// First run installs.
	require.NoError(t, launcher.Run(ctx, options))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	paths := cfg.Paths()
	installed, err := os.ReadFile(paths.AppExecutable)
	require.NoError(t, err)
	require.Equal(t, []byte("build-one"), installed)

	repo := manifest.NewFileRepository(paths.ManifestFile)
	m, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.0.0", m.Version)
	require.Equal(t, "local", m.Source)
	require.NotNil(t, m.InstalledBy)

	// Publish a newer build; the second run updates and backs up the old one.
	publishBuild(t, distDir, "1.1.0", []byte("build-two"))
	require.NoError(t, launcher.Run(ctx, options))

	installed, err = os.ReadFile(paths.AppExecutable)
	require.NoError(t, err)
	require.Equal(t, []byte("build-two"), installed)

	backups, err := os.ReadDir(paths.BackupDir)
	require.NoError(t, err)
	require.Len(t, backups, 1)

	// Third run with nothing new keeps everything as is.
	require.NoError(t, launcher.Run(ctx, options))

	m, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.1.0", m.Version)

	backups, err = os.ReadDir(paths.BackupDir)
	require.NoError(t, err)
	require.Len(t, backups, 1)
}

// TestLauncher_FirstInstallRequiresSource fails fast when nothing can be installed.
func TestLauncher_FirstInstallRequiresSource(t *testing.T) {
	root := t.TempDir()
	distDir := filepath.Join(root, "dist")
	require.NoError(t, os.MkdirAll(distDir, 0o755))

	configPath := writeLauncherConfig(t, root, distDir)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := launcher.Run(ctx, &launcher.Options{
		ConfigPath: configPath,
		Once:       true,
		SkipLaunch: true,
	})
	require.ErrorContains(t, err, "first install")
}
