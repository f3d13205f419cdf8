package traverse

import (
	"strings"
	"unicode"
)

// Normalize cleans one raw traversal entry: surrounding whitespace and the
// leading "./" (or ".\") that fd emits are stripped, and control characters
// are replaced so a hostile file name cannot inject extra lines into the
// cache file or the selector's input stream.
func Normalize(entry string) string {
	entry = strings.TrimSpace(entry)
	entry = strings.TrimPrefix(entry, "./")
	entry = strings.TrimPrefix(entry, ".\\")

	if strings.IndexFunc(entry, unicode.IsControl) < 0 {
		return entry
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return unicode.ReplacementChar
		}
		return r
	}, entry)
}
