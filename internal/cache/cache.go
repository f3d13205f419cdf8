// Package cache turns a location spec into an ordered candidate set, either
// by reading the location's persisted cache file or by invoking the
// traversal capability and writing the result back atomically.
package cache

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/blink/internal/config"
	"github.com/harrison/blink/internal/filelock"
	"github.com/harrison/blink/internal/logger"
)

// CandidateSet is the ordered candidate paths for one resolved location.
// It is never mutated in place; a refresh produces a new set.
type CandidateSet []string

// Traverser is the external traversal capability: given a root and a mode,
// produce a sequence of path strings. Implemented by traverse.FD in
// production and by fakes in tests.
type Traverser interface {
	Traverse(ctx context.Context, root string, mode config.Mode) ([]string, error)
}

// TraversalError wraps a failure to generate candidates for a root. It is
// never retried automatically; the session layer may fall back to an empty
// set with a warning so the user can still switch locations.
type TraversalError struct {
	Root string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("traversal of %s failed: %v", e.Root, e.Err)
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}

// Cache decides between cached and freshly generated candidate lists.
type Cache struct {
	Traverser Traverser
	Log       *logger.Logger
}

// Get returns the candidate set for spec.
//
// When the location has a cache file and forceRefresh is false, an existing
// non-empty cache file is loaded verbatim, with no traversal and no
// per-entry validation against the live filesystem: staleness is the user's
// documented trade-off for speed on slow or remote mounts. An empty or
// unreadable cache file counts as a miss and forces regeneration.
//
// On a miss the traversal capability runs, the result is filtered by mode,
// and, when the location has a cache file, persisted all-or-nothing. A
// persist failure is logged and otherwise ignored; caching is an
// optimization, not a correctness requirement.
func (c *Cache) Get(ctx context.Context, spec config.LocationSpec, forceRefresh bool) (CandidateSet, error) {
	if spec.HasCache() && !forceRefresh {
		if set, ok := c.readCacheFile(spec.CacheFilePath()); ok {
			return set, nil
		}
	}

	paths, err := c.Traverser.Traverse(ctx, spec.Path, spec.Mode)
	if err != nil {
		return nil, &TraversalError{Root: spec.Path, Err: err}
	}

	set := CandidateSet(filterByMode(spec, paths))

	if spec.HasCache() {
		target := spec.CacheFilePath()
		if err := writeCacheFile(target, set); err != nil {
			c.logf("cache write to %s failed, continuing without persisting: %v", target, err)
		} else {
			c.logf("wrote %d candidates to cache file %s", len(set), target)
		}
	}

	return set, nil
}

// readCacheFile loads a cache file line by line. ok is false when the file
// is missing, unreadable, or empty, all of which force regeneration: a cache
// file that merely was never populated must not silently yield an empty set.
func (c *Cache) readCacheFile(path string) (CandidateSet, bool) {
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logf("cache file %s unreadable, regenerating: %v", path, err)
		}
		return nil, false
	}
	defer file.Close()

	var set CandidateSet
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			set = append(set, line)
		}
	}
	if err := scanner.Err(); err != nil {
		c.logf("cache file %s unreadable, regenerating: %v", path, err)
		return nil, false
	}

	if len(set) == 0 {
		return nil, false
	}

	c.logf("cache hit: %d candidates from %s", len(set), path)
	return set, true
}

// writeCacheFile persists the set as newline-delimited text via a temp file
// and rename, so a kill mid-write cannot leave a truncated list for the next
// run. The format stays plain text: the README tells users they may inspect
// and hand-edit cache files.
func writeCacheFile(path string, set CandidateSet) error {
	var b strings.Builder
	for _, candidate := range set {
		b.WriteString(candidate)
		b.WriteByte('\n')
	}
	return filelock.AtomicWrite(path, []byte(b.String()))
}

// filterByMode enforces the location mode on fresh traversal output, since
// the traversal capability may return mixed entries. Each entry is stat'd
// relative to the location root; entries that cannot be stat'd are kept.
// Cache hits are deliberately never filtered.
func filterByMode(spec config.LocationSpec, paths []string) []string {
	filtered := paths[:0:0]
	for _, p := range paths {
		info, err := os.Stat(filepath.Join(spec.Path, p))
		if err == nil {
			if spec.Mode == config.ModeFolders && !info.IsDir() {
				continue
			}
			if spec.Mode == config.ModeFiles && info.IsDir() {
				continue
			}
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func (c *Cache) logf(format string, args ...interface{}) {
	if c.Log != nil {
		c.Log.Infof(format, args...)
	}
}
