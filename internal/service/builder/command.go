package builder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/remancodeking/zocopos-launcher/internal/logger"
)

const (
	// PackagerExecutable is the external packaging tool bundling the launcher.
	PackagerExecutable = "pyinstaller"

	// ApplicationName is the name baked into the produced executable.
	ApplicationName = "ZocoPOS_Launcher"

	// OutputPath is the conventional artifact location owned by the packaging
	// tool. The builder reports it without verifying it exists.
	OutputPath = "dist/ZocoPOS_Launcher.exe"

	// bannerWidth is the width of the console banners around status messages.
	bannerWidth = 48
)

// PackagerArguments returns the fixed argument list passed to the packaging
// tool. The list is literal and identical on every run; nothing here depends
// on the environment or on caller input.
func PackagerArguments() []string {
	return []string{
		"--noconsole",
		"--onefile",
		"--name", ApplicationName,
		"--icon=assets/icon.png",
		"--add-data", "assets;assets",
		"--add-data", "ui;ui",
		"main.py",
	}
}

// Runner executes the packaging tool and reports its exit code.
// A non-nil error means the tool could not be run at all.
type Runner func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error)

// ExecRunner runs the packaging tool as a child process via os/exec,
// streaming its output to the provided writers.
func ExecRunner(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return 0, err
}

// ExitError carries the packaging tool's non-zero exit code so the CLI can
// terminate with the same status.
type ExitError struct {
	// Code is the exit code returned by the packaging tool.
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("packaging tool exited with code %d", e.Code)
}

// Options contains inputs for the builder entry point.
// The build itself takes no parameters; these only redirect I/O for tests
// and control the failure pause.
type Options struct {
	// Out receives banners and the packaging tool output (defaults to stdout).
	Out io.Writer
	// In is read for acknowledgment after a failure (defaults to stdin).
	In io.Reader
	// PauseOnFailure waits for a line on In before returning a failure.
	PauseOnFailure bool
	// Runner executes the packaging tool (defaults to ExecRunner).
	Runner Runner
}

// Run invokes the packaging tool with the fixed argument list, prints status
// banners and propagates the tool's exit status.
//
// On exit code 0 it prints the completion banner naming OutputPath and
// returns nil. On a non-zero code N it prints the error banner, optionally
// pauses for acknowledgment, and returns *ExitError carrying N. A tool
// killed by a signal reports no exit code and is treated as a plain failure
// with code 1.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "zocopos-builder")

	if opts == nil {
		opts = &Options{}
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	runner := opts.Runner
	if runner == nil {
		runner = ExecRunner
	}

	printBanner(out, "Building "+ApplicationName)
	logger.InfoKV(ctx, "Running packaging tool",
		"tool", PackagerExecutable, "args", strings.Join(PackagerArguments(), " "))

	code, err := runner(ctx, PackagerExecutable, PackagerArguments(), out, out)
	if err != nil {
		return fmt.Errorf("run packaging tool: %w", err)
	}

	if code == 0 {
		printBanner(out, "Build complete: "+OutputPath)
		return nil
	}

	if code < 0 {
		// Killed by a signal; there is no child exit code to mirror.
		code = 1
	}

	printBanner(out, fmt.Sprintf("BUILD FAILED (exit code %d)", code))

	if opts.PauseOnFailure {
		pause(out, opts.In)
	}

	return &ExitError{Code: code}
}

// printBanner writes a framed status line to the console.
func printBanner(w io.Writer, message string) {
	frame := strings.Repeat("=", bannerWidth)

	_, _ = fmt.Fprintln(w, frame)
	_, _ = fmt.Fprintln(w, " ", message)
	_, _ = fmt.Fprintln(w, frame)
}

// pause blocks until the user acknowledges the failure with Enter.
func pause(out io.Writer, in io.Reader) {
	if in == nil {
		in = os.Stdin
	}

	_, _ = fmt.Fprint(out, "Press Enter to continue...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}
