// Package selector implements the interactive selection capability by
// spawning fzf. fzf owns the terminal for the duration of each invocation;
// blink only feeds it candidates and decodes what it printed on exit.
package selector

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/harrison/blink/internal/config"
	"github.com/harrison/blink/internal/logger"
	"github.com/harrison/blink/internal/session"
)

// Markers printed by key bindings so the exit can be told apart from a plain
// abort. fzf aborts with code 130 after executing the binding, and the
// marker arrives on its stdout.
const (
	switchMarker     = "SWITCH"
	editConfigMarker = "EDIT_CONFIG"
)

// abort and no-match are both "the user did not choose anything".
const (
	exitNoMatch = 1
	exitAbort   = 130
)

// MenuItem is one row of the location-switch menu.
type MenuItem struct {
	Name  string
	Label string
}

// Fzf runs fzf for both the candidate list and the location-switch menu.
type Fzf struct {
	// Binary is the fzf executable name or path. Defaults to "fzf".
	Binary string

	// ExtraFlags come from the config file's fzf_flags.
	ExtraFlags []string

	// HistoryDir holds per-location history files. Empty disables history.
	HistoryDir string

	// Menu lists the switchable locations in registry order.
	Menu []MenuItem

	Log *logger.Logger
}

// NewFzf builds an Fzf selector over the configured locations. historyDir is
// normally the config base dir.
func NewFzf(cfg *config.Config, historyDir string, log *logger.Logger) *Fzf {
	f := &Fzf{
		ExtraFlags: cfg.FzfFlags,
		HistoryDir: historyDir,
		Log:        log,
	}
	for _, spec := range cfg.Locations.All() {
		f.Menu = append(f.Menu, MenuItem{Name: spec.Name, Label: spec.Describe()})
	}
	return f
}

// Select shows the candidate list for spec and decodes the outcome. On a
// switch request it runs the location menu itself and returns the chosen
// name, or an empty name when the menu is cancelled.
func (f *Fzf) Select(ctx context.Context, candidates []string, spec config.LocationSpec) (session.Outcome, error) {
	args := []string{
		"--scheme=path",
		"--header=" + spec.Describe(),
		"--bind=tab:execute(echo " + switchMarker + ")+abort",
		"--bind=alt-c:execute(echo " + editConfigMarker + ")+abort",
	}
	if path := f.historyFile("history-" + HistoryID(spec.Name) + ".txt"); path != "" {
		args = append(args, "--history="+path)
	}
	// ctrl-x opens the highlighted candidate without ending the session by
	// re-invoking this binary.
	if exe, err := os.Executable(); err == nil {
		args = append(args, fmt.Sprintf("--bind=ctrl-x:execute(%q --open-path={} %s)", exe, spec.Name))
	}
	args = append(args, f.ExtraFlags...)

	line, code, err := f.run(ctx, args, candidates)
	if err != nil {
		return session.Outcome{}, err
	}

	switch {
	case code == 0 && line != "":
		return session.Outcome{Kind: session.OutcomeAccepted, Path: unquote(line)}, nil

	case code == exitAbort && line == switchMarker:
		name, err := f.menu(ctx)
		if err != nil {
			return session.Outcome{}, err
		}
		return session.Outcome{Kind: session.OutcomeSwitch, Location: name}, nil

	case code == exitAbort && line == editConfigMarker:
		return session.Outcome{Kind: session.OutcomeEditConfig}, nil

	case code == exitAbort || code == exitNoMatch:
		return session.Outcome{Kind: session.OutcomeCancelled}, nil

	default:
		return session.Outcome{}, fmt.Errorf("fzf exited with code %d", code)
	}
}

// menu shows the location list. Returns the chosen location name, or empty
// when the menu is cancelled.
func (f *Fzf) menu(ctx context.Context) (string, error) {
	args := []string{"--bind=tab:accept"}
	if path := f.historyFile("history-menu.txt"); path != "" {
		args = append(args, "--history="+path)
	}
	args = append(args, f.ExtraFlags...)

	labels := make([]string, 0, len(f.Menu))
	for _, item := range f.Menu {
		labels = append(labels, item.Label)
	}

	line, code, err := f.run(ctx, args, labels)
	if err != nil {
		return "", err
	}

	switch {
	case code == 0:
		name, ok := f.menuName(line)
		if !ok {
			return "", fmt.Errorf("menu selection %q matches no location", line)
		}
		return name, nil
	case code == exitAbort || code == exitNoMatch:
		return "", nil
	default:
		return "", fmt.Errorf("fzf exited with code %d", code)
	}
}

// run spawns fzf with the given args, feeds it the input lines, and returns
// the last line of its stdout plus the exit code. stderr is inherited: that
// is where fzf draws its interface.
func (f *Fzf) run(ctx context.Context, args []string, input []string) (string, int, error) {
	binary := f.Binary
	if binary == "" {
		binary = "fzf"
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = strings.NewReader(joinLines(input))
	cmd.Stderr = os.Stderr

	if f.Log != nil {
		f.Log.Debugf("executing %s %v", binary, args)
	}

	out, err := cmd.Output()
	line := lastLine(string(out))

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return line, exitErr.ExitCode(), nil
		}
		return "", 0, fmt.Errorf("run %s: %w", binary, err)
	}
	return line, 0, nil
}

// menuName maps a menu line back to its location name.
func (f *Fzf) menuName(line string) (string, bool) {
	for _, item := range f.Menu {
		if item.Label == line {
			return item.Name, true
		}
	}
	return "", false
}

func (f *Fzf) historyFile(name string) string {
	if f.HistoryDir == "" {
		return ""
	}
	return filepath.Join(f.HistoryDir, name)
}

// HistoryID derives a history-file identifier from a location name:
// lowercased with everything outside [a-z0-9] removed.
func HistoryID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// unquote undoes the quoting fzf applies to entries containing special
// characters: surrounding double quotes removed and doubled backslashes
// collapsed.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return strings.ReplaceAll(s[1:len(s)-1], `\\`, `\`)
	}
	return s
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// lastLine returns the final non-empty line of s.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
