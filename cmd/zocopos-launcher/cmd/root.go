package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/remancodeking/zocopos-launcher/internal/config"
	"github.com/remancodeking/zocopos-launcher/internal/logger"
	"github.com/remancodeking/zocopos-launcher/internal/service/launcher"
	"github.com/remancodeking/zocopos-launcher/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// logLevel adjusts logger verbosity.
	logLevel string

	// once performs a single startup pass without the background monitor.
	once bool

	// noLaunch installs and updates but does not start the application.
	noLaunch bool

	// rootCmd represents the base command installing, updating and starting
	// the desktop application.
	rootCmd = &cobra.Command{
		Use:   "zocopos-launcher",
		Short: "Install, update and start the ZOCO POS desktop application",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &launcher.Options{
				ConfigPath: configPath,
				Once:       once,
				SkipLaunch: noLaunch,
			}

			return launcher.Run(ctx, options)
		},
	}
)

// Execute runs the zocopos-launcher CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&once, "once", false, "run a single install/update pass and exit")
	rootCmd.Flags().BoolVar(&noLaunch, "no-launch", false, "do not start the application (for testing)")
}
