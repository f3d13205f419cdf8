package traverse

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/harrison/blink/internal/config"
)

// fakeFd writes a shell script standing in for fd
func fakeFd(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fd stand-in requires a POSIX shell")
	}
	script := filepath.Join(t.TempDir(), "fakefd")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("failed to write fake fd: %v", err)
	}
	return script
}

func TestTraverse(t *testing.T) {
	f := &FD{
		Binary: fakeFd(t, `printf './a.txt\0sub/b.txt\0'`),
		Stderr: &bytes.Buffer{},
	}

	got, err := f.Traverse(context.Background(), t.TempDir(), config.ModeFiles)
	if err != nil {
		t.Fatalf("Traverse() error = %v", err)
	}

	want := []string{"a.txt", "sub/b.txt"}
	if len(got) != len(want) {
		t.Fatalf("Traverse() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Traverse()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTraverseNonZeroExit(t *testing.T) {
	f := &FD{
		Binary: fakeFd(t, "exit 1"),
		Stderr: &bytes.Buffer{},
	}

	if _, err := f.Traverse(context.Background(), t.TempDir(), config.ModeFiles); err == nil {
		t.Fatal("Traverse() should surface a non-zero exit")
	}
}

func TestTraverseMissingBinary(t *testing.T) {
	f := &FD{
		Binary: filepath.Join(t.TempDir(), "no-such-fd"),
		Stderr: &bytes.Buffer{},
	}

	if _, err := f.Traverse(context.Background(), t.TempDir(), config.ModeFiles); err == nil {
		t.Fatal("Traverse() should fail when the binary cannot be started")
	}
}
