package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gofrs/flock"

	"github.com/remancodeking/zocopos-launcher/internal/config"
	domain "github.com/remancodeking/zocopos-launcher/internal/domain/release"
	"github.com/remancodeking/zocopos-launcher/internal/logger"
	"github.com/remancodeking/zocopos-launcher/internal/repository/manifest"
	"github.com/remancodeking/zocopos-launcher/internal/service/installer"
	"github.com/remancodeking/zocopos-launcher/internal/service/source"
)

// lockFilename guards against two launchers managing the same installation.
const lockFilename = "zocopos-launcher.lock"

var (
	// errAlreadyRunning indicates another launcher instance holds the lock.
	errAlreadyRunning = errors.New("another launcher instance is already running")
	// errExecutableMissing indicates there is nothing to launch.
	errExecutableMissing = errors.New("application executable not found")
	// errUnsupportedOS is returned for platforms without a launch strategy.
	errUnsupportedOS = errors.New("os not supported")
)

// Options are inputs accepted by the launcher entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Once performs a single startup pass without the background monitor.
	Once bool
	// SkipLaunch installs and updates but does not start the application.
	// Useful on build machines and in tests.
	SkipLaunch bool
}

// flow holds the collaborators of a single launcher run.
type flow struct {
	cfg   *config.Config
	paths config.Paths
	src   source.Source
	repo  manifest.Repository
	ins   *installer.Installer

	// waitTimeout bounds how long a pending update waits for the application
	// to close. Tests shorten it.
	waitTimeout time.Duration
}

// Run executes the launcher lifecycle: install or update the desktop
// application, start it, then keep monitoring for updates in the background
// until the context is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "zocopos-launcher")

	if opts == nil {
		opts = &Options{}
	}

	cfg, err := config.LoadOrCreate(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err = cfg.EnsureDirs(); err != nil {
		return err
	}

	// One launcher per machine; a second instance exits immediately.
	lock, err := acquireInstanceLock(cfg)
	if err != nil {
		return err
	}

	defer func() {
		_ = lock.Unlock()
	}()

	f := newFlow(cfg)

	mode := "ONLINE"
	if cfg.LocalMode {
		mode = "LOCAL TEST"
	}

	logger.InfoKV(ctx, "Launcher starting",
		"mode", mode, "install_dir", cfg.InstallDir, "data_dir", cfg.DataDir)

	if err = f.startup(ctx); err != nil {
		return err
	}

	if !opts.SkipLaunch {
		if err = f.launchApplication(ctx); err != nil {
			return err
		}
	}

	if opts.Once {
		return nil
	}

	return f.monitor(ctx)
}

// newFlow wires the launcher collaborators from the configuration.
func newFlow(cfg *config.Config) *flow {
	paths := cfg.Paths()

	var src source.Source
	if cfg.LocalMode {
		src = source.NewLocal(cfg.LocalSourceDir)
	} else {
		src = source.NewGitHub(cfg.GitHubRepo, cfg.Timeout)
	}

	repo := manifest.NewFileRepository(paths.ManifestFile)

	return &flow{
		cfg:         cfg,
		paths:       paths,
		src:         src,
		repo:        repo,
		ins:         installer.New(cfg, repo),
		waitTimeout: maxProcessWait,
	}
}

// acquireInstanceLock takes the single-instance file lock in the data directory.
func acquireInstanceLock(cfg *config.Config) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(cfg.DataDir, lockFilename))

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire instance lock: %w", err)
	}

	if !locked {
		return nil, errAlreadyRunning
	}

	return lock, nil
}

// startup decides between first-time installation and an update check.
func (f *flow) startup(ctx context.Context) error {
	localVersion := f.localVersion(ctx)

	if !f.isInstalled() {
		return f.firstInstall(ctx)
	}

	f.updateIfAvailable(ctx, localVersion)

	return nil
}

// firstInstall performs the initial installation from the configured source.
// Unlike updates, a failure here is fatal: there is nothing to fall back to.
func (f *flow) firstInstall(ctx context.Context) error {
	logger.Info(ctx, "First time setup: application is not installed yet")

	rel, err := f.src.Latest(ctx)
	if err != nil {
		return fmt.Errorf("no release available for first install: %w", err)
	}

	logger.InfoKV(ctx, "Installing", "version", rel.Version, "size_bytes", rel.Size)

	if err = f.ins.Install(ctx, f.src, rel, true); err != nil {
		return fmt.Errorf("first install: %w", err)
	}

	if err = f.createDesktopShortcut(ctx); err != nil {
		logger.WarnKV(ctx, "Desktop shortcut creation failed", "error", err)
	}

	logger.InfoKV(ctx, "Installation complete", "version", rel.Version)

	return nil
}

// updateIfAvailable applies a newer release when one exists. Source or install
// failures never prevent launching the already installed version.
func (f *flow) updateIfAvailable(ctx context.Context, localVersion string) {
	logger.InfoKV(ctx, "Checking for updates", "current_version", localVersion)

	rel, err := f.src.Latest(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Release source unreachable, staying on current version",
			"version", localVersion, "error", err)

		return
	}

	if !domain.IsNewer(localVersion, rel.Version) {
		logger.InfoKV(ctx, "Application is up to date", "version", localVersion)

		return
	}

	logger.InfoKV(ctx, "Updating", "from", localVersion, "to", rel.Version)

	if err = f.ins.Install(ctx, f.src, rel, false); err != nil {
		logger.WarnKV(ctx, "Update failed, using current version", "error", err)

		return
	}

	logger.InfoKV(ctx, "Updated", "version", rel.Version)
}

// localVersion reads the installed version from the manifest, empty when unknown.
func (f *flow) localVersion(ctx context.Context) string {
	m, err := f.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, manifest.ErrNotFound) {
			logger.WarnKV(ctx, "Unable to read installed manifest", "error", err)
		}

		return ""
	}

	return m.Version
}

// isInstalled reports whether the desktop executable exists.
func (f *flow) isInstalled() bool {
	return fileExists(f.paths.AppExecutable)
}

// fileExists reports whether path exists as a file.
func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

// launchApplication starts the desktop application detached, so that stopping
// the launcher (or canceling its context) never takes the POS down with it.
func (f *flow) launchApplication(ctx context.Context) error {
	if !fileExists(f.paths.AppExecutable) {
		return fmt.Errorf("%s: %w", f.paths.AppExecutable, errExecutableMissing)
	}

	logger.InfoKV(ctx, "Starting application", "executable", f.paths.AppExecutable)

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd.exe", "/C", "start", "", f.paths.AppExecutable)
	case "linux", "darwin":
		cmd = exec.Command(f.paths.AppExecutable)
	default:
		return fmt.Errorf("%s: %w", runtime.GOOS, errUnsupportedOS)
	}

	cmd.Dir = f.paths.AppDir

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start application: %w", err)
	}

	// Detach: the launcher must not collect the application's exit status.
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("release application process: %w", err)
	}

	return nil
}
