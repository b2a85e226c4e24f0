package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/remancodeking/zocopos-launcher/internal/service/builder"
	"github.com/remancodeking/zocopos-launcher/internal/version"
)

// rootCmd represents the base command for bundling the launcher.
// The build takes no flags and no arguments: the packaging tool always
// receives the same fixed argument list.
var rootCmd = &cobra.Command{
	Use:   "zocopos-builder",
	Short: "Bundle the launcher into a standalone executable",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return builder.Run(ctx, &builder.Options{
			PauseOnFailure: true,
		})
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the zocopos-builder CLI. When the packaging tool fails, the
// process terminates with the tool's own exit code.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *builder.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}

		os.Exit(1)
	}
}
