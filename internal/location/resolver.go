// Package location resolves a user-supplied token to one configured
// location using exact-name, unique-abbreviation, and default rules.
package location

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harrison/blink/internal/config"
)

// ErrNoLocations is returned when the registry is empty. The CLI layer
// renders setup guidance for it instead of a plain error.
var ErrNoLocations = errors.New("no locations configured")

// UnknownError means the token matched no location name, exactly or as an
// abbreviation.
type UnknownError struct {
	Token string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown location %q", e.Token)
}

// AmbiguousError means the token abbreviated two or more location names.
// Matches holds every matching name in registry order; the caller reports
// them all rather than picking one silently.
type AmbiguousError struct {
	Token   string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous location %q matches: %s", e.Token, strings.Join(e.Matches, ", "))
}

// Resolve picks one location from the registry.
//
// An empty token selects the first-inserted entry. An exact name match wins
// even when the token also abbreviates other names. Otherwise the token must
// be a case-sensitive substring of exactly one name, supporting shortened
// invocations like "nas" for "local-nas-smb".
func Resolve(token string, reg *config.Registry) (config.LocationSpec, error) {
	if reg.Len() == 0 {
		return config.LocationSpec{}, ErrNoLocations
	}

	if token == "" {
		spec, _ := reg.First()
		return spec, nil
	}

	if spec, ok := reg.Get(token); ok {
		return spec, nil
	}

	var matches []string
	for _, name := range reg.Names() {
		if strings.Contains(name, token) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return config.LocationSpec{}, &UnknownError{Token: token}
	case 1:
		spec, _ := reg.Get(matches[0])
		return spec, nil
	default:
		return config.LocationSpec{}, &AmbiguousError{Token: token, Matches: matches}
	}
}
