package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds launcher settings shared by the ZOCO POS binaries.
type Config struct {
	// GitHubRepo is the public "owner/name" repository hosting releases.
	GitHubRepo string `yaml:"github_repo"`
	// LocalMode switches the release source to a local dist folder for testing.
	LocalMode bool `yaml:"local_mode"`
	// LocalSourceDir is the dist folder used when LocalMode is enabled.
	LocalSourceDir string `yaml:"local_source_dir"`
	// InstallDir is the root installation directory of the desktop application.
	InstallDir string `yaml:"install_dir"`
	// DataDir is the application data directory holding the database and lock file.
	DataDir string `yaml:"data_dir"`
	// Timeout bounds network operations, release downloads included.
	Timeout time.Duration `yaml:"timeout"`
	// CheckInterval is the period of the background update monitor.
	CheckInterval time.Duration `yaml:"check_interval"`
	// ForceClose terminates the application when it does not close within the
	// bounded wait of a pending update, instead of postponing the update.
	ForceClose bool `yaml:"force_close"`
}

const (
	// DefaultConfigFilename is the default filename for launcher settings.
	DefaultConfigFilename = "zocopos-launcher-settings.yaml"

	// DefaultGitHubRepo is the public repository hosting ZocoPOS releases.
	DefaultGitHubRepo = "remancodeking/zocopos-launcher"

	// DefaultTimeout bounds release downloads; large assets need a generous cap.
	DefaultTimeout = 2 * time.Minute

	// DefaultCheckInterval is the default background update check period.
	DefaultCheckInterval = 30 * time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// AppExecutableName is the desktop application binary installed and launched.
	AppExecutableName = "ZocoPOS.exe"

	// ManifestFilename stores release and installation metadata as JSON.
	ManifestFilename = "version.json"

	// DatabaseFilename is the application's SQLite database inside DataDir.
	DatabaseFilename = "zocopos_local.db"

	// appFolderName is the vendor folder used under system directories.
	appFolderName = "ZocoPOS"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errSourceRequired is returned when neither release source is configured.
	errSourceRequired = errors.New("github repository or local source directory must be provided")
	// errInvalidRepo is returned when the repository is not in "owner/name" form.
	errInvalidRepo = errors.New("github repository must be in owner/name form")
)

// Paths groups filesystem locations derived from the install and data directories.
type Paths struct {
	// AppDir contains the installed application.
	AppDir string
	// AppExecutable is the full path of the installed desktop binary.
	AppExecutable string
	// ManifestFile is the installed-version manifest inside AppDir.
	ManifestFile string
	// BackupDir stores rolling backups of the previous executable.
	BackupDir string
	// UpdateDir stages downloads before they are applied.
	UpdateDir string
	// DatabaseFile is the application database inside DataDir.
	DatabaseFile string
}

// Paths derives the conventional installation layout from the configuration.
func (c *Config) Paths() Paths {
	appDir := filepath.Join(c.InstallDir, "app")

	return Paths{
		AppDir:        appDir,
		AppExecutable: filepath.Join(appDir, AppExecutableName),
		ManifestFile:  filepath.Join(appDir, ManifestFilename),
		BackupDir:     filepath.Join(appDir, "backup"),
		UpdateDir:     filepath.Join(c.InstallDir, "update"),
		DatabaseFile:  filepath.Join(c.DataDir, DatabaseFilename),
	}
}

// EnsureDirs creates every directory the launcher writes into.
func (c *Config) EnsureDirs() error {
	paths := c.Paths()

	for _, dir := range []string{c.DataDir, paths.AppDir, paths.BackupDir, paths.UpdateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// DefaultDataDir returns the per-user application data directory.
// On Windows this is %LOCALAPPDATA%\ZocoPOS; elsewhere it falls back to the home directory.
func DefaultDataDir() string {
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil {
			base = home
		} else {
			base = "."
		}
	}

	return filepath.Join(base, appFolderName)
}

// DefaultInstallDir returns the installation root.
// Production installs go under Program Files; local mode installs under the
// data directory so no elevated permissions are needed.
func DefaultInstallDir(localMode bool) string {
	if localMode {
		return filepath.Join(DefaultDataDir(), "install")
	}

	base := os.Getenv("PROGRAMFILES")
	if base == "" {
		base = `C:\Program Files`
	}

	return filepath.Join(base, appFolderName)
}

// Default returns a configuration populated with production defaults.
func Default() *Config {
	cfg := &Config{
		GitHubRepo:    DefaultGitHubRepo,
		Timeout:       DefaultTimeout,
		CheckInterval: DefaultCheckInterval,
	}
	cfg.DataDir = DefaultDataDir()
	cfg.InstallDir = DefaultInstallDir(cfg.LocalMode)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrCreate loads the settings file, creating it with defaults when missing.
// A first launch on a clean machine therefore leaves a file the user can edit.
func LoadOrCreate(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	if _, err := os.Stat(filepath.Clean(path)); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return nil, err
		}

		return cfg, nil
	}

	return Load(path)
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.LocalMode {
		if cfg.LocalSourceDir == "" {
			return errSourceRequired
		}
	} else {
		if cfg.GitHubRepo == "" {
			return errSourceRequired
		}

		parts := strings.Split(cfg.GitHubRepo, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("%w: %q", errInvalidRepo, cfg.GitHubRepo)
		}
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}

	if cfg.InstallDir == "" {
		cfg.InstallDir = DefaultInstallDir(cfg.LocalMode)
	}

	return nil
}
