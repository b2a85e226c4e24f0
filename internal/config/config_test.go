package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and defaulting for launcher settings.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nothing configured.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Bad repository format.
	cfg = &Config{
		GitHubRepo: "not-a-repo",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Local mode requires a source directory.
	cfg = &Config{
		LocalMode: true,
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Okay, defaults are filled.
	cfg = &Config{
		GitHubRepo: "remancodeking/zocopos-launcher",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultCheckInterval, cfg.CheckInterval)
	require.NotEmpty(t, cfg.InstallDir)
	require.NotEmpty(t, cfg.DataDir)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		GitHubRepo:    "remancodeking/zocopos-launcher",
		InstallDir:    filepath.Join(dir, "install"),
		DataDir:       filepath.Join(dir, "data"),
		Timeout:       30 * time.Second,
		CheckInterval: time.Minute,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.GitHubRepo, loaded.GitHubRepo)
	require.Equal(t, cfg.InstallDir, loaded.InstallDir)
	require.Equal(t, cfg.Timeout, loaded.Timeout)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadOrCreate_WritesDefaults verifies a missing settings file is created with defaults.
func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.Equal(t, DefaultGitHubRepo, cfg.GitHubRepo)

	_, err = os.Stat(path)
	require.NoError(t, err)

	// Second call loads the file it just wrote.
	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.Equal(t, cfg.GitHubRepo, again.GitHubRepo)
}

// TestPaths verifies the conventional layout derived from the directories.
func TestPaths(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		InstallDir: filepath.Join("root", "install"),
		DataDir:    filepath.Join("root", "data"),
	}

	paths := cfg.Paths()
	require.Equal(t, filepath.Join("root", "install", "app"), paths.AppDir)
	require.Equal(t, filepath.Join("root", "install", "app", AppExecutableName), paths.AppExecutable)
	require.Equal(t, filepath.Join("root", "install", "app", ManifestFilename), paths.ManifestFile)
	require.Equal(t, filepath.Join("root", "install", "update"), paths.UpdateDir)
	require.Equal(t, filepath.Join("root", "data", DatabaseFilename), paths.DatabaseFile)
}
