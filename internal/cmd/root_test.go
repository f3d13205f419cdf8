package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command against an isolated config dir and returns
// stdout plus the command error
func execute(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BLINK_CONFIG_DIR", configDir)

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// writeLocations seeds a config file with two locations
func writeLocations(t *testing.T, configDir string) {
	t.Helper()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := `locations:
  docs:
    path: /d
    mode: files
  local-nas-smb:
    path: //nas.local/share
    mode: folders
`
	if err := os.WriteFile(filepath.Join(configDir, "blink.yml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestGetConfigPath(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "--get-config-path")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(dir, "blink.yml") {
		t.Errorf("output = %q", out)
	}
}

func TestFirstRunScaffoldsAndGuides(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blink")

	out, err := execute(t, dir)
	if err != nil {
		t.Fatalf("Execute() error = %v; an unconfigured run must exit zero", err)
	}
	if !strings.Contains(out, "No locations defined") {
		t.Errorf("missing guidance:\n%s", out)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "blink.yml")); statErr != nil {
		t.Errorf("config template not scaffolded: %v", statErr)
	}
}

func TestListLocations(t *testing.T) {
	dir := t.TempDir()
	writeLocations(t, dir)

	out, err := execute(t, dir, "--list-locations")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "docs (/d)") {
		t.Errorf("missing docs line:\n%s", out)
	}
	if !strings.Contains(out, "local-nas-smb (//nas.local/share)") {
		t.Errorf("missing nas line:\n%s", out)
	}

	// Registry order: docs listed first.
	if strings.Index(out, "docs") > strings.Index(out, "local-nas-smb") {
		t.Errorf("locations out of registry order:\n%s", out)
	}
}

func TestUnknownLocationFails(t *testing.T) {
	dir := t.TempDir()
	writeLocations(t, dir)

	_, err := execute(t, dir, "pictures")
	if err == nil {
		t.Fatal("Execute() should fail for an unknown location")
	}
	if !strings.Contains(err.Error(), "pictures") {
		t.Errorf("error %q does not name the token", err)
	}
}

func TestAmbiguousLocationFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := `locations:
  a-one:
    path: /1
    mode: files
  a-two:
    path: /2
    mode: files
`
	if err := os.WriteFile(filepath.Join(dir, "blink.yml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := execute(t, dir, "a")
	if err == nil {
		t.Fatal("Execute() should fail for an ambiguous location")
	}
	if !strings.Contains(err.Error(), "a-one") || !strings.Contains(err.Error(), "a-two") {
		t.Errorf("error %q does not list both matches", err)
	}
}

func TestMalformedConfigFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "blink.yml"), []byte("locations: [broken\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := execute(t, dir); err == nil {
		t.Fatal("Execute() should fail on a malformed config")
	}
}

func TestInteractiveRequiresTerminal(t *testing.T) {
	dir := t.TempDir()
	writeLocations(t, dir)

	// Test processes have no tty on stdin/stdout, so the interactive path
	// must refuse to start.
	_, err := execute(t, dir, "docs")
	if err == nil {
		t.Fatal("Execute() should refuse interactive mode without a terminal")
	}
	if !strings.Contains(err.Error(), "terminal") {
		t.Errorf("error = %q", err)
	}
}

func TestMaxOneArg(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"docs", "extra"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() should reject more than one positional argument")
	}
}
