package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/remancodeking/zocopos-launcher/internal/logger"
)

const (
	// shortcutName is the desktop shortcut created after first install.
	shortcutName = "ZOCO POS.lnk"

	// shortcutScriptName is the temporary PowerShell script inside UpdateDir.
	shortcutScriptName = "_create_shortcut.ps1"

	// shortcutTimeout bounds the PowerShell invocation.
	shortcutTimeout = 10 * time.Second
)

// createDesktopShortcut places a shortcut to the launcher on the user's
// desktop. The shortcut targets the launcher, not the application, so every
// start goes through the update check. Windows only; a no-op elsewhere.
func (f *flow) createDesktopShortcut(ctx context.Context) error {
	if runtime.GOOS != "windows" {
		logger.DebugKV(ctx, "Skipping desktop shortcut", "os", runtime.GOOS)
		return nil
	}

	target, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate launcher executable: %w", err)
	}

	desktop := filepath.Join(os.Getenv("USERPROFILE"), "Desktop")
	shortcutPath := filepath.Join(desktop, shortcutName)
	scriptPath := filepath.Join(f.paths.UpdateDir, shortcutScriptName)

	// A temporary .ps1 file avoids quoting problems on the command line.
	script := buildShortcutScript(shortcutPath, target, filepath.Dir(target))
	if err = os.WriteFile(scriptPath, []byte(script), 0o600); err != nil {
		return fmt.Errorf("write shortcut script: %w", err)
	}

	defer func() {
		_ = os.Remove(scriptPath)
	}()

	cmdCtx, cancel := context.WithTimeout(ctx, shortcutTimeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, powershellPath(),
		"-NoProfile", "-ExecutionPolicy", "Bypass", "-File", scriptPath)

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("create shortcut: %w: %s", err, strings.TrimSpace(string(output)))
	}

	logger.InfoKV(ctx, "Desktop shortcut created", "path", shortcutPath)

	return nil
}

// buildShortcutScript renders the WScript.Shell shortcut creation script.
func buildShortcutScript(shortcutPath, target, workingDir string) string {
	var b strings.Builder

	b.WriteString("$ws = New-Object -ComObject WScript.Shell\n")
	fmt.Fprintf(&b, "$s = $ws.CreateShortcut(%q)\n", shortcutPath)
	fmt.Fprintf(&b, "$s.TargetPath = %q\n", target)
	fmt.Fprintf(&b, "$s.WorkingDirectory = %q\n", workingDir)
	fmt.Fprintf(&b, "$s.IconLocation = %q\n", target+", 0")
	b.WriteString("$s.Description = \"ZOCO POS - Point of Sale System\"\n")
	b.WriteString("$s.Save()\n")

	return b.String()
}

// powershellPath returns the full PowerShell path; PATH lookup is unreliable
// for child processes on stripped-down systems.
func powershellPath() string {
	systemRoot := os.Getenv("SYSTEMROOT")
	if systemRoot == "" {
		systemRoot = `C:\WINDOWS`
	}

	full := filepath.Join(systemRoot, "System32", "WindowsPowerShell", "v1.0", "powershell.exe")
	if _, err := os.Stat(full); err == nil {
		return full
	}

	return "powershell"
}
