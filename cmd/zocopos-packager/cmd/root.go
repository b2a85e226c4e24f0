package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/remancodeking/zocopos-launcher/internal/service/packager"
	"github.com/remancodeking/zocopos-launcher/internal/version"
)

var (
	// executablePath is the built desktop executable to describe.
	executablePath string

	// outputPath overrides where the release manifest is written.
	outputPath string

	// releaseVersion overrides the version stamped into the manifest.
	releaseVersion string

	// rootCmd represents the base command for preparing release metadata.
	rootCmd = &cobra.Command{
		Use:   "zocopos-packager",
		Short: "Prepare release metadata for distribution",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &packager.Options{
				ExecutablePath: executablePath,
				OutputPath:     outputPath,
				Version:        releaseVersion,
			}

			return packager.Run(ctx, options)
		},
	}
)

// Execute runs the zocopos-packager CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&executablePath, "executable", "e",
		packager.DefaultExecutablePath, "path to the built desktop executable")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o",
		"", "path for the release manifest (defaults to version.json next to the executable)")
	rootCmd.Flags().StringVarP(&releaseVersion, "release-version", "r",
		"", "release version to stamp (defaults to the build version)")
}
