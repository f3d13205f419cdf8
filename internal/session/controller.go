// Package session drives the interactive selection loop: feed candidates to
// the selector capability, interpret its outcome, and on a switch request
// re-resolve and re-fetch without leaving the process.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/harrison/blink/internal/cache"
	"github.com/harrison/blink/internal/config"
	"github.com/harrison/blink/internal/display"
	"github.com/harrison/blink/internal/location"
	"github.com/harrison/blink/internal/logger"
)

// OutcomeKind classifies what the selector capability returned.
type OutcomeKind int

const (
	// OutcomeAccepted means the user chose a candidate.
	OutcomeAccepted OutcomeKind = iota
	// OutcomeSwitch means the user asked to change the active location.
	OutcomeSwitch
	// OutcomeCancelled means the user aborted without choosing.
	OutcomeCancelled
	// OutcomeEditConfig means the user asked to open the config file.
	OutcomeEditConfig
)

// Outcome is the result of one selector invocation.
type Outcome struct {
	Kind OutcomeKind

	// Path is the accepted candidate, relative to the active location
	// root. Set for OutcomeAccepted.
	Path string

	// Location is the switch target name. Set for OutcomeSwitch; empty
	// means the switch menu was cancelled and the current location stays
	// active.
	Location string
}

// Selector is the external fuzzy-selection capability. The call blocks for
// its whole duration: the selector owns the terminal until it returns.
type Selector interface {
	Select(ctx context.Context, candidates []string, spec config.LocationSpec) (Outcome, error)
}

// CandidateSource produces the candidate set for a location. Implemented by
// cache.Cache in production and by fakes in tests.
type CandidateSource interface {
	Get(ctx context.Context, spec config.LocationSpec, forceRefresh bool) (cache.CandidateSet, error)
}

// ResultKind classifies how a session ended.
type ResultKind int

const (
	// ResultSelected means a path was chosen.
	ResultSelected ResultKind = iota
	// ResultCancelled means the user aborted; this is a successful,
	// non-error outcome.
	ResultCancelled
	// ResultEditConfig means the user asked to open the config file.
	ResultEditConfig
)

// Result is the terminal state of a session.
type Result struct {
	Kind ResultKind

	// Path is the accepted path joined with its location root. Set for
	// ResultSelected.
	Path string
}

// Controller owns the session state machine. Single-threaded: the registry,
// the candidate set, and the active spec all live on the calling goroutine.
type Controller struct {
	Registry *config.Registry
	Source   CandidateSource
	Selector Selector
	Log      *logger.Logger

	// Warnings receives user-facing warnings (traversal fallbacks).
	// Defaults to os.Stderr.
	Warnings io.Writer
}

// Run executes the selection loop starting from spec. forceRefresh applies
// to the initial fetch only; switches follow each location's own cache
// policy.
//
// A traversal failure does not end the session: the user sees a warning and
// an empty candidate list, and can still switch to a working location. Any
// resolve failure during a switch ends the session with a diagnostic rather
// than leaving it half-initialized. The loop has no iteration cap; it is
// bounded only by user action and context cancellation.
func (c *Controller) Run(ctx context.Context, spec config.LocationSpec, forceRefresh bool) (Result, error) {
	active := spec
	refresh := forceRefresh

	for {
		if err := ctx.Err(); err != nil {
			return Result{Kind: ResultCancelled}, err
		}

		candidates, err := c.Source.Get(ctx, active, refresh)
		refresh = false
		if err != nil {
			var travErr *cache.TraversalError
			if !errors.As(err, &travErr) {
				return Result{Kind: ResultCancelled}, err
			}
			c.warnf("%v", err)
			c.warnf("showing an empty list for %s; press tab to switch location", active.Name)
			candidates = nil
		}

		c.logf("selecting from %d candidates in %s", len(candidates), active.Describe())

		outcome, err := c.Selector.Select(ctx, candidates, active)
		if err != nil {
			return Result{Kind: ResultCancelled}, err
		}

		switch outcome.Kind {
		case OutcomeAccepted:
			return Result{
				Kind: ResultSelected,
				Path: filepath.Join(active.Path, outcome.Path),
			}, nil

		case OutcomeCancelled:
			return Result{Kind: ResultCancelled}, nil

		case OutcomeEditConfig:
			return Result{Kind: ResultEditConfig}, nil

		case OutcomeSwitch:
			if outcome.Location == "" {
				// Menu cancelled; stay on the current location.
				continue
			}
			next, err := location.Resolve(outcome.Location, c.Registry)
			if err != nil {
				return Result{Kind: ResultCancelled}, fmt.Errorf("switch location: %w", err)
			}
			c.logf("switching location: %s -> %s", active.Name, next.Name)
			// The old candidate set is discarded entirely; the next
			// iteration fetches fresh state for the new location.
			active = next

		default:
			return Result{Kind: ResultCancelled}, fmt.Errorf("unexpected selector outcome %d", outcome.Kind)
		}
	}
}

func (c *Controller) warnf(format string, args ...interface{}) {
	out := c.Warnings
	if out == nil {
		out = os.Stderr
	}
	display.Warnf(out, format, args...)
	if c.Log != nil {
		c.Log.Warnf(format, args...)
	}
}

func (c *Controller) logf(format string, args ...interface{}) {
	if c.Log != nil {
		c.Log.Infof(format, args...)
	}
}
