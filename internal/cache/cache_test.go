package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/blink/internal/config"
	"github.com/harrison/blink/internal/logger"
)

// fakeTraverser returns a scripted path list and counts invocations
type fakeTraverser struct {
	paths []string
	err   error
	calls int
}

func (f *fakeTraverser) Traverse(ctx context.Context, root string, mode config.Mode) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.paths, nil
}

// newSpec builds a location rooted in a fresh temp dir, optionally with a
// cache file inside another temp dir
func newSpec(t *testing.T, mode config.Mode, withCache bool) config.LocationSpec {
	t.Helper()
	spec := config.LocationSpec{Name: "docs", Path: t.TempDir(), Mode: mode}
	if withCache {
		spec.CacheFile = filepath.Join(t.TempDir(), "cache.txt")
	}
	return spec
}

func TestGetNoCacheFileAlwaysTraverses(t *testing.T) {
	trav := &fakeTraverser{paths: []string{"a.txt", "b.txt"}}
	c := &Cache{Traverser: trav, Log: logger.Discard()}
	spec := newSpec(t, config.ModeFiles, false)

	// Files must exist for mode filtering to pass them through.
	for _, name := range trav.paths {
		require.NoError(t, os.WriteFile(filepath.Join(spec.Path, name), []byte("x"), 0644))
	}

	for i := 1; i <= 2; i++ {
		set, err := c.Get(context.Background(), spec, false)
		require.NoError(t, err)
		assert.Equal(t, CandidateSet{"a.txt", "b.txt"}, set)
		assert.Equal(t, i, trav.calls, "a location without cache_file must traverse every time")
	}
}

func TestGetCacheMissPersistsAndHits(t *testing.T) {
	trav := &fakeTraverser{paths: []string{"one", "two", "three"}}
	c := &Cache{Traverser: trav, Log: logger.Discard()}
	spec := newSpec(t, config.ModeFiles, true)
	for _, name := range trav.paths {
		require.NoError(t, os.WriteFile(filepath.Join(spec.Path, name), []byte("x"), 0644))
	}

	first, err := c.Get(context.Background(), spec, false)
	require.NoError(t, err)
	assert.Equal(t, CandidateSet{"one", "two", "three"}, first)
	assert.Equal(t, 1, trav.calls)

	// Cache file now exists and is non-empty: the second call is a hit and
	// must not invoke traversal.
	second, err := c.Get(context.Background(), spec, false)
	require.NoError(t, err)
	assert.Equal(t, first, second, "idempotent on an unchanged cache file")
	assert.Equal(t, 1, trav.calls, "cache hit must not traverse")

	// Cache file format: plain newline-delimited, diffable.
	data, err := os.ReadFile(spec.CacheFilePath())
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", string(data))

	// No temp files left behind by the atomic write.
	entries, err := os.ReadDir(filepath.Dir(spec.CacheFilePath()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGetCacheHitSkipsValidation(t *testing.T) {
	trav := &fakeTraverser{}
	c := &Cache{Traverser: trav, Log: logger.Discard()}
	spec := newSpec(t, config.ModeFiles, true)

	// Entries that do not exist on disk: a hit serves them verbatim,
	// staleness is the user's responsibility.
	require.NoError(t, os.WriteFile(spec.CacheFilePath(), []byte("ghost/one\nghost/two\n"), 0644))

	set, err := c.Get(context.Background(), spec, false)
	require.NoError(t, err)
	assert.Equal(t, CandidateSet{"ghost/one", "ghost/two"}, set)
	assert.Zero(t, trav.calls)
}

func TestGetEmptyCacheFileIsAMiss(t *testing.T) {
	trav := &fakeTraverser{paths: []string{"fresh"}}
	c := &Cache{Traverser: trav, Log: logger.Discard()}
	spec := newSpec(t, config.ModeFiles, true)
	require.NoError(t, os.WriteFile(filepath.Join(spec.Path, "fresh"), []byte("x"), 0644))

	// Present but empty: never serve an empty set from a file that was
	// merely not populated yet.
	require.NoError(t, os.WriteFile(spec.CacheFilePath(), nil, 0644))

	set, err := c.Get(context.Background(), spec, false)
	require.NoError(t, err)
	assert.Equal(t, CandidateSet{"fresh"}, set)
	assert.Equal(t, 1, trav.calls)
}

func TestGetForceRefreshBypassesCache(t *testing.T) {
	trav := &fakeTraverser{paths: []string{"new"}}
	c := &Cache{Traverser: trav, Log: logger.Discard()}
	spec := newSpec(t, config.ModeFiles, true)
	require.NoError(t, os.WriteFile(filepath.Join(spec.Path, "new"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(spec.CacheFilePath(), []byte("old\n"), 0644))

	set, err := c.Get(context.Background(), spec, true)
	require.NoError(t, err)
	assert.Equal(t, CandidateSet{"new"}, set)
	assert.Equal(t, 1, trav.calls)

	// The refresh atomically replaced the cache contents.
	data, err := os.ReadFile(spec.CacheFilePath())
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}

func TestGetRoundTrip(t *testing.T) {
	trav := &fakeTraverser{paths: []string{"b", "a", "c"}}
	c := &Cache{Traverser: trav, Log: logger.Discard()}
	spec := newSpec(t, config.ModeFiles, true)
	for _, name := range trav.paths {
		require.NoError(t, os.WriteFile(filepath.Join(spec.Path, name), []byte("x"), 0644))
	}

	written, err := c.Get(context.Background(), spec, false)
	require.NoError(t, err)

	read, err := c.Get(context.Background(), spec, false)
	require.NoError(t, err)
	assert.Equal(t, written, read, "write-then-read must preserve order exactly")
}

func TestGetTraversalError(t *testing.T) {
	trav := &fakeTraverser{err: errors.New("permission denied")}
	c := &Cache{Traverser: trav, Log: logger.Discard()}
	spec := newSpec(t, config.ModeFiles, false)

	_, err := c.Get(context.Background(), spec, false)
	require.Error(t, err)

	var travErr *TraversalError
	require.ErrorAs(t, err, &travErr)
	assert.Equal(t, spec.Path, travErr.Root)
}

func TestGetFiltersByMode(t *testing.T) {
	spec := newSpec(t, config.ModeFolders, false)
	require.NoError(t, os.WriteFile(filepath.Join(spec.Path, "plain.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(spec.Path, "subdir"), 0755))

	mixed := []string{"plain.txt", "subdir", "vanished"}

	// Folders mode drops the plain file; the unstattable entry is kept.
	c := &Cache{Traverser: &fakeTraverser{paths: mixed}, Log: logger.Discard()}
	set, err := c.Get(context.Background(), spec, false)
	require.NoError(t, err)
	assert.Equal(t, CandidateSet{"subdir", "vanished"}, set)

	// Files mode drops the directory instead.
	spec.Mode = config.ModeFiles
	c = &Cache{Traverser: &fakeTraverser{paths: mixed}, Log: logger.Discard()}
	set, err = c.Get(context.Background(), spec, false)
	require.NoError(t, err)
	assert.Equal(t, CandidateSet{"plain.txt", "vanished"}, set)
}

func TestGetCacheWriteFailureIsNonFatal(t *testing.T) {
	trav := &fakeTraverser{paths: []string{"a"}}
	c := &Cache{Traverser: trav, Log: logger.Discard()}

	spec := config.LocationSpec{
		Name: "docs",
		Path: t.TempDir(),
		Mode: config.ModeFiles,
		// Parent is a file, so the cache write cannot succeed.
		CacheFile: filepath.Join(t.TempDir(), "blocker", "cache.txt"),
	}
	require.NoError(t, os.WriteFile(filepath.Join(spec.Path, "a"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Dir(spec.CacheFilePath()), []byte("in the way"), 0644))

	set, err := c.Get(context.Background(), spec, false)
	require.NoError(t, err, "caching is an optimization; its failure must not fail the fetch")
	assert.Equal(t, CandidateSet{"a"}, set)
}
