package launcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/remancodeking/zocopos-launcher/internal/config"
	domain "github.com/remancodeking/zocopos-launcher/internal/domain/release"
	"github.com/remancodeking/zocopos-launcher/internal/logger"
	"github.com/remancodeking/zocopos-launcher/internal/service/common"
)

const (
	// processPollInterval is how often the monitor re-checks whether the
	// application has exited before applying a pending update.
	processPollInterval = 10 * time.Second

	// maxProcessWait bounds how long a pending update waits for the
	// application to close before giving up until the next cycle, or forcing
	// it to close when the configuration allows that.
	maxProcessWait = time.Hour
)

// errStillRunning indicates the application did not close within maxProcessWait.
var errStillRunning = errors.New("application still running, update postponed")

// monitor periodically checks the release source and silently applies updates
// once the application has exited. It runs until the context is canceled.
func (f *flow) monitor(ctx context.Context) error {
	logger.InfoKV(ctx, "Background update monitor started",
		"interval", f.cfg.CheckInterval.String())

	ticker := time.NewTicker(f.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Background update monitor stopped")
			return nil
		case <-ticker.C:
			if err := f.checkOnce(ctx); err != nil {
				if errors.Is(err, errStillRunning) {
					logger.Info(ctx, "Waited too long for the application to close, skipping update")
					continue
				}

				logger.WarnKV(ctx, "Background update check failed", "error", err)
			}
		}
	}
}

// checkOnce performs a single background update cycle.
func (f *flow) checkOnce(ctx context.Context) error {
	localVersion := f.localVersion(ctx)

	rel, err := f.src.Latest(ctx)
	if err != nil {
		// Offline or source error; try again next cycle.
		logger.DebugKV(ctx, "No release info", "error", err)
		return nil
	}

	if !domain.IsNewer(localVersion, rel.Version) {
		logger.InfoKV(ctx, "Up to date", "version", localVersion)
		return nil
	}

	logger.InfoKV(ctx, "Update available", "from", localVersion, "to", rel.Version)

	// Never replace the executable under a running application.
	if err = f.waitForApplicationExit(ctx); err != nil {
		if !errors.Is(err, errStillRunning) || !f.cfg.ForceClose {
			return err
		}

		logger.WarnKV(ctx, "Application did not close in time, forcing it to close",
			"executable", config.AppExecutableName)

		if err = common.TerminateProcessByName(config.AppExecutableName); err != nil {
			return fmt.Errorf("terminate application: %w", err)
		}
	}

	logger.InfoKV(ctx, "Applying update silently", "version", rel.Version)

	if err = f.ins.Install(ctx, f.src, rel, false); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Update complete", "version", rel.Version)

	return nil
}

// waitForApplicationExit polls the process list until the application closes,
// the bounded wait elapses, or the context is canceled.
func (f *flow) waitForApplicationExit(ctx context.Context) error {
	deadline := time.Now().Add(f.waitTimeout)

	for {
		running, err := common.IsProcessRunning(config.AppExecutableName)
		if err != nil {
			return err
		}

		if !running {
			return nil
		}

		if time.Now().After(deadline) {
			return errStillRunning
		}

		logger.DebugKV(ctx, "Waiting for the application to close",
			"executable", config.AppExecutableName)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(processPollInterval):
		}
	}
}
