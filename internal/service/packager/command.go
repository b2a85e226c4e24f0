package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/remancodeking/zocopos-launcher/internal/config"
	domain "github.com/remancodeking/zocopos-launcher/internal/domain/release"
	"github.com/remancodeking/zocopos-launcher/internal/logger"
	"github.com/remancodeking/zocopos-launcher/internal/repository/manifest"
	"github.com/remancodeking/zocopos-launcher/internal/service/installer"
	"github.com/remancodeking/zocopos-launcher/internal/version"
)

// DefaultExecutablePath is where the desktop build pipeline leaves the executable.
const DefaultExecutablePath = "dist/ZocoPOS.exe"

// errEmptyExecutable is returned when the built executable is zero bytes.
var errEmptyExecutable = errors.New("built executable is empty")

// Options contains inputs for the packager entry point.
type Options struct {
	// ExecutablePath is the built desktop executable to describe.
	ExecutablePath string
	// OutputPath is where the release manifest is written
	// (defaults to version.json next to the executable).
	OutputPath string
	// Version is the release version (defaults to the build version).
	Version string
}

// Run computes the checksum of the built executable and writes the release
// manifest to publish next to it.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "zocopos-packager")

	if opts == nil {
		opts = &Options{}
	}

	executablePath := opts.ExecutablePath
	if executablePath == "" {
		executablePath = DefaultExecutablePath
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(executablePath), config.ManifestFilename)
	}

	releaseVersion := opts.Version
	if releaseVersion == "" {
		releaseVersion = version.Short()
	}

	m, err := describe(executablePath, releaseVersion)
	if err != nil {
		return fmt.Errorf("describe executable: %w", err)
	}

	logger.InfoKV(ctx, "Saving release manifest", "path", outputPath)

	repo := manifest.NewFileRepository(outputPath)
	if err = repo.Save(ctx, m); err != nil {
		return err
	}

	printNextSteps(ctx, m, executablePath, outputPath)

	return nil
}

// describe builds the release manifest for the executable.
func describe(executablePath, releaseVersion string) (*domain.Manifest, error) {
	info, err := os.Stat(executablePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", executablePath, os.ErrNotExist)
		}

		return nil, fmt.Errorf("stat %s: %w", executablePath, err)
	}

	if info.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", executablePath, errEmptyExecutable)
	}

	checksum, err := installer.FileChecksumHex(executablePath)
	if err != nil {
		return nil, err
	}

	return &domain.Manifest{
		Version:    releaseVersion,
		SHA256:     checksum,
		SizeBytes:  info.Size(),
		ReleasedAt: time.Now().UTC(),
	}, nil
}

// printNextSteps logs human-readable guidance for publishing the release.
func printNextSteps(ctx context.Context, m *domain.Manifest, executablePath, outputPath string) {
	var builder strings.Builder

	builder.WriteString("Create a GitHub release tagged v")
	builder.WriteString(m.Version)
	builder.WriteString(" and upload the following assets:\n")
	builder.WriteString(executablePath)
	builder.WriteString(",\n")
	builder.WriteString(outputPath)
	builder.WriteString("\nClients verify downloads against the checksum in ")
	builder.WriteString(filepath.Base(outputPath))
	builder.WriteString(", so both files must come from the same build.")

	logger.Info(ctx, builder.String())
}
