// Package display renders blink's user-facing terminal output.
package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/harrison/blink/internal/config"
)

// exampleConfig is shown in the no-locations guidance so a first-time user
// can copy a working starting point.
const exampleConfig = `locations:
  home:
    path: /home/user
    mode: files
  nas:
    path: //nas.local/share
    mode: folders
    cache_file: .blink/all-folders.txt`

// ListLocations prints one "name (path)" line per location, in registry
// order, with the name highlighted.
func ListLocations(out io.Writer, specs []config.LocationSpec) {
	cyan := color.New(color.FgCyan)
	for _, spec := range specs {
		cyan.Fprint(out, spec.Name)
		fmt.Fprintf(out, " (%s)\n", spec.Path)
	}
}

// NoLocationsGuidance tells the user how to configure their first location.
func NoLocationsGuidance(out io.Writer, configPath string) {
	bold := color.New(color.Bold)
	bold.Fprintln(out, "No locations defined")
	fmt.Fprintf(out, "Define locations in %s\n", configPath)
	fmt.Fprintln(out, "Example config with some locations:")
	fmt.Fprintln(out, exampleConfig)
	fmt.Fprintln(out)
}

// FirstRunNotice reports that a fresh config file was just created.
func FirstRunNotice(out io.Writer, configPath string) {
	fmt.Fprintf(out, "Created new config file: %s\n", configPath)
}

// Warnf prints a yellow warning line.
func Warnf(out io.Writer, format string, args ...interface{}) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(out, "Warning: "+format+"\n", args...)
}
