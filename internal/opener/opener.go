// Package opener hands a selected path to the platform file opener.
package opener

import (
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strings"

	"github.com/harrison/blink/internal/logger"
)

var slashRuns = regexp.MustCompile(`/+`)

// Cleanup normalizes a path for handing to the opener: backslashes become
// forward slashes and runs of slashes collapse. Needed because locations may
// mix separators (network shares configured Windows-style) and joining can
// double up separators.
func Cleanup(path string) string {
	path = strings.TrimSpace(path)
	path = strings.ReplaceAll(path, "\\", "/")
	return slashRuns.ReplaceAllString(path, "/")
}

// platformArg converts a cleaned path into the form the platform opener
// expects. On Windows a leading slash marks a UNC path and gets its second
// slash back before the separators flip to backslashes.
func platformArg(path string) string {
	if runtime.GOOS != "windows" {
		return path
	}
	if strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	path = strings.ReplaceAll(path, "/", "\\")
	return strings.TrimRight(path, "\\")
}

// Open launches the platform opener on path and returns without waiting for
// it; blink exits while the file manager or editor comes up.
func Open(path string, log *logger.Logger) error {
	arg := platformArg(Cleanup(path))

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", arg)
	case "darwin":
		cmd = exec.Command("open", arg)
	default:
		cmd = exec.Command("xdg-open", arg)
	}

	if log != nil {
		log.Debugf("opening %q with %s", arg, cmd.Path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %q: %w", arg, err)
	}
	return cmd.Process.Release()
}
