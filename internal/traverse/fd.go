// Package traverse produces candidate path lists by running the external fd
// binary against a location root.
package traverse

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/harrison/blink/internal/config"
	"github.com/harrison/blink/internal/logger"
)

// FD traverses a location root by spawning fd. fd's stderr is passed through
// so permission warnings on partially readable trees reach the user.
type FD struct {
	// Binary is the fd executable name or path. Defaults to "fd".
	Binary string

	// ExtraFlags come from the config file's fd_flags and are appended to
	// every invocation.
	ExtraFlags []string

	// Stderr receives fd's stderr. Defaults to os.Stderr.
	Stderr io.Writer

	Log *logger.Logger
}

// Traverse runs fd in root and returns the normalized candidate paths,
// relative to root. Output is NUL-separated on the wire so newlines in file
// names cannot corrupt entry boundaries.
func (f *FD) Traverse(ctx context.Context, root string, mode config.Mode) ([]string, error) {
	binary := f.Binary
	if binary == "" {
		binary = "fd"
	}

	args := []string{".", "--print0", "--type", typeFlag(mode)}
	args = append(args, f.ExtraFlags...)

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = root
	cmd.Stderr = f.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if f.Log != nil {
		f.Log.Debugf("executing %s %v in %s", binary, args, root)
	}

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s %v in %s: %w", binary, args, root, err)
	}

	return SplitNul(out), nil
}

func typeFlag(mode config.Mode) string {
	if mode == config.ModeFolders {
		return "d"
	}
	return "f"
}

// SplitNul splits NUL-separated traversal output into normalized entries,
// dropping any that normalize to nothing.
func SplitNul(out []byte) []string {
	var entries []string
	for _, chunk := range bytes.Split(out, []byte{0}) {
		if entry := Normalize(string(chunk)); entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}
