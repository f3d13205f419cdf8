package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/blink/internal/filelock"
)

// configFileName is the config file inside the blink base directory.
const configFileName = "blink.yml"

// defaultTemplate is written on first run so the user has a commented
// starting point to edit.
const defaultTemplate = `# blink configuration.
#
# Locations are tried in the order listed; the first one is the default.
# mode is "files" or "folders". cache_file is optional and, when relative,
# resolves against the location path.
#
# locations:
#   home:
#     path: /home/user
#     mode: files
#   nas:
#     path: //nas.local/share
#     mode: folders
#     cache_file: .blink/all-folders.txt
locations: {}
`

// BaseDir returns the blink configuration directory.
// Priority order:
//  1. BLINK_CONFIG_DIR environment variable (if set)
//  2. the user config dir (e.g. ~/.config) joined with "blink"
func BaseDir() (string, error) {
	if dir := os.Getenv("BLINK_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	userDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(userDir, "blink"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LogPath returns the debug log file path.
func LogPath() (string, error) {
	dir, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "blink.log"), nil
}

// EnsureDefault creates the base directory and, when no config file exists
// yet, writes the commented template. The write happens under a file lock so
// two racing first runs cannot both scaffold the file; the existence check is
// repeated inside the lock and an existing file is never overwritten.
// Returns the config file path and whether this call created it.
func EnsureDefault() (string, bool, error) {
	dir, err := BaseDir()
	if err != nil {
		return "", false, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", false, fmt.Errorf("create config directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, configFileName)

	lock := filelock.NewFileLock(path + ".lock")
	if err := lock.Lock(); err != nil {
		return "", false, err
	}
	defer lock.Unlock()

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := filelock.AtomicWrite(path, []byte(defaultTemplate)); err != nil {
		return "", false, fmt.Errorf("write default config: %w", err)
	}
	return path, true, nil
}
