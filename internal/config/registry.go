package config

import (
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Mode determines what kind of entries a location's traversal produces.
type Mode int

const (
	// ModeFiles lists plain files under the location root.
	ModeFiles Mode = iota
	// ModeFolders lists directories under the location root.
	ModeFolders
)

// String returns the config-file spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeFiles:
		return "files"
	case ModeFolders:
		return "folders"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses the config-file spelling of a mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "files":
		return ModeFiles, nil
	case "folders":
		return ModeFolders, nil
	default:
		return 0, fmt.Errorf("invalid mode %q, must be %q or %q", s, "files", "folders")
	}
}

// LocationSpec is one named search root. Immutable after load; the Registry
// owns all specs for the process lifetime.
type LocationSpec struct {
	// Name is the unique registry key.
	Name string

	// Path is the root to search. May be a network share.
	Path string

	// Mode selects files or folders.
	Mode Mode

	// CacheFile is an optional persisted candidate list. Empty means
	// always regenerate, never persist. Relative paths resolve against
	// the location root.
	CacheFile string
}

// HasCache reports whether the location persists its candidate list.
func (s LocationSpec) HasCache() bool {
	return s.CacheFile != ""
}

// CacheFilePath returns the absolute cache file path, resolving a relative
// cache_file against the location root. Empty when the location has no cache.
func (s LocationSpec) CacheFilePath() string {
	if s.CacheFile == "" {
		return ""
	}
	if filepath.IsAbs(s.CacheFile) {
		return s.CacheFile
	}
	return filepath.Join(s.Path, s.CacheFile)
}

// Describe returns the "name (path)" label used for menu lines and the
// selector header.
func (s LocationSpec) Describe() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Path)
}

// Registry is an ordered name -> LocationSpec mapping. YAML document order is
// insertion order, and the first entry is the default location, so a plain
// map cannot back this; a name slice provides ordering and a map provides
// lookup.
type Registry struct {
	names  []string
	byName map[string]LocationSpec
}

// Len returns the number of registered locations.
func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns the location names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Get looks up a location by exact name.
func (r *Registry) Get(name string) (LocationSpec, bool) {
	spec, ok := r.byName[name]
	return spec, ok
}

// First returns the first-inserted location, the default when no token is
// given on the command line.
func (r *Registry) First() (LocationSpec, bool) {
	if len(r.names) == 0 {
		return LocationSpec{}, false
	}
	return r.byName[r.names[0]], true
}

// All returns the locations in insertion order.
func (r *Registry) All() []LocationSpec {
	out := make([]LocationSpec, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}

// Add appends a location, rejecting duplicate names.
func (r *Registry) Add(spec LocationSpec) error {
	if r.byName == nil {
		r.byName = make(map[string]LocationSpec)
	}
	if _, exists := r.byName[spec.Name]; exists {
		return fmt.Errorf("duplicate location name %q", spec.Name)
	}
	r.names = append(r.names, spec.Name)
	r.byName[spec.Name] = spec
	return nil
}

// rawLocation mirrors one location record as written in the config file.
// Pointer fields distinguish "missing" from "empty" so required keys can
// fail the whole load. Unknown keys are ignored for forward compatibility.
type rawLocation struct {
	Path      *string `yaml:"path"`
	Mode      *string `yaml:"mode"`
	CacheFile *string `yaml:"cache_file"`
}

// UnmarshalYAML decodes the locations mapping while preserving document
// order. Decoding through the mapping node is what keeps insertion order;
// letting yaml.v3 fill a Go map would lose it.
func (r *Registry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("locations must be a mapping of name to location")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]
		name := keyNode.Value

		var raw rawLocation
		if err := valNode.Decode(&raw); err != nil {
			return fmt.Errorf("location %q: %w", name, err)
		}

		// path and mode are required; a file missing either is rejected
		// wholesale rather than loading a partial registry.
		if raw.Path == nil || *raw.Path == "" {
			return fmt.Errorf("location %q: missing required key %q", name, "path")
		}
		if raw.Mode == nil {
			return fmt.Errorf("location %q: missing required key %q", name, "mode")
		}
		mode, err := ParseMode(*raw.Mode)
		if err != nil {
			return fmt.Errorf("location %q: %w", name, err)
		}

		spec := LocationSpec{
			Name: name,
			Path: *raw.Path,
			Mode: mode,
		}
		if raw.CacheFile != nil {
			spec.CacheFile = *raw.CacheFile
		}

		if err := r.Add(spec); err != nil {
			return err
		}
	}

	return nil
}
