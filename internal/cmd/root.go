// Package cmd wires the blink command line: flag surface, config loading,
// and the handoff into the interactive selection session.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/blink/internal/cache"
	"github.com/harrison/blink/internal/config"
	"github.com/harrison/blink/internal/display"
	"github.com/harrison/blink/internal/location"
	"github.com/harrison/blink/internal/logger"
	"github.com/harrison/blink/internal/opener"
	"github.com/harrison/blink/internal/selector"
	"github.com/harrison/blink/internal/session"
	"github.com/harrison/blink/internal/traverse"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for blink
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blink [location]",
		Short: "Location-aware interactive file and folder finder",
		Long: `Blink searches named locations (configured in a YAML file) interactively.

It resolves the location argument by exact name or unique abbreviation (any
fragment that appears in exactly one location name), produces a candidate
list either from the location's cache file or by running fd, and
hands the list to fzf. Inside the session, tab switches to another location
without leaving the program, alt-c opens the config file, and ctrl-x opens
the highlighted entry while the session keeps running.

Examples:
  blink                  # search the first configured location
  blink nas              # search the only location with "nas" in its name
  blink --refresh docs   # regenerate the docs cache before searching
  blink --list-locations # show all configured locations`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		RunE:         runRoot,
	}

	cmd.Flags().Bool("get-config-path", false, "Print the config file path and exit")
	cmd.Flags().Bool("list-locations", false, "List all configured locations and exit")
	cmd.Flags().Bool("refresh", false, "Force cache regeneration for the selected location")
	cmd.Flags().Bool("create-cache", false, "Write the freshly traversed candidate list to stdout")
	cmd.Flags().String("open-path", "", "Open this path (relative to the location root) and exit")

	return cmd
}

// runRoot implements the root command logic
func runRoot(cmd *cobra.Command, args []string) error {
	if get, _ := cmd.Flags().GetBool("get-config-path"); get {
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}

	// Scaffolding the config dir up front also gives the log file a home.
	configPath, created, err := config.EnsureDefault()
	if err != nil {
		return err
	}
	if created {
		display.FirstRunNotice(cmd.OutOrStdout(), configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := openLog(cfg.LogLevel)
	defer log.Close()
	log.Debugf("command line: %v", os.Args)

	if list, _ := cmd.Flags().GetBool("list-locations"); list {
		display.ListLocations(cmd.OutOrStdout(), cfg.Locations.All())
		return nil
	}

	// An unconfigured tool prints guidance and exits cleanly; the error
	// exits are reserved for a config that exists and is wrong.
	if cfg.Locations.Len() == 0 {
		display.NoLocationsGuidance(cmd.OutOrStdout(), configPath)
		return nil
	}

	token := ""
	if len(args) == 1 {
		token = args[0]
	}

	spec, err := location.Resolve(token, &cfg.Locations)
	if err != nil {
		if errors.Is(err, location.ErrNoLocations) {
			display.NoLocationsGuidance(cmd.OutOrStdout(), configPath)
			return nil
		}
		return err
	}
	log.Infof("resolved location %q from token %q", spec.Name, token)

	traverser := &traverse.FD{
		ExtraFlags: cfg.FdFlags,
		Stderr:     cmd.ErrOrStderr(),
		Log:        log,
	}

	if create, _ := cmd.Flags().GetBool("create-cache"); create {
		return createCache(cmd, traverser, spec)
	}

	if openPath, _ := cmd.Flags().GetString("open-path"); openPath != "" {
		log.Infof("open-path %q in %s", openPath, spec.Name)
		return opener.Open(filepath.Join(spec.Path, openPath), log)
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("interactive selection requires a terminal (use --create-cache for scripting)")
	}

	refresh, _ := cmd.Flags().GetBool("refresh")
	baseDir, err := config.BaseDir()
	if err != nil {
		return err
	}

	controller := &session.Controller{
		Registry: &cfg.Locations,
		Source:   &cache.Cache{Traverser: traverser, Log: log},
		Selector: selector.NewFzf(cfg, baseDir, log),
		Log:      log,
		Warnings: cmd.ErrOrStderr(),
	}

	result, err := controller.Run(cmd.Context(), spec, refresh)
	if err != nil {
		return err
	}

	switch result.Kind {
	case session.ResultSelected:
		log.Infof("opening %q", result.Path)
		return opener.Open(result.Path, log)
	case session.ResultEditConfig:
		log.Infof("opening config file %s", configPath)
		return opener.Open(configPath, log)
	default:
		// User cancellation is a successful exit.
		log.Infof("session cancelled")
		return nil
	}
}

// createCache streams a fresh traversal of spec to stdout, one candidate per
// line, for scripted cache-file creation (e.g. a cron job on the NAS host).
func createCache(cmd *cobra.Command, traverser *traverse.FD, spec config.LocationSpec) error {
	paths, err := traverser.Traverse(cmd.Context(), spec.Path, spec.Mode)
	if err != nil {
		return fmt.Errorf("traversal of %s failed: %w", spec.Path, err)
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

// openLog opens the debug log, falling back to a discard logger when the log
// file cannot be opened; logging failures never block a search.
func openLog(level string) *logger.Logger {
	path, err := config.LogPath()
	if err != nil {
		return logger.Discard()
	}
	log, err := logger.New(path, level)
	if err != nil {
		return logger.Discard()
	}
	return log
}
