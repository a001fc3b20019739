// Package testutil provides executable stubs and helpers for tests that
// drive real subprocesses.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteStub writes an executable shell stub named name into dir that exits
// successfully and returns its path.
func WriteStub(t *testing.T, dir string, name string) string {
	t.Helper()
	return WriteStubWithExit(t, dir, name, 0)
}

// WriteStubWithExit writes an executable shell stub that exits with
// exitCode and returns its path.
func WriteStubWithExit(t *testing.T, dir string, name string, exitCode int) string {
	t.Helper()
	return WriteScript(t, dir, name, fmt.Sprintf("exit %d\n", exitCode))
}

// WriteRecordingStub writes a stub that appends its arguments, one
// invocation per line, to logPath and then exits with exitCode.
func WriteRecordingStub(t *testing.T, dir string, name string, logPath string, exitCode int) string {
	t.Helper()
	body := fmt.Sprintf("echo \"$@\" >> %s\nexit %d\n", shellQuote(logPath), exitCode)
	return WriteScript(t, dir, name, body)
}

// WriteScript writes an executable /bin/sh script with body and returns its
// path.
func WriteScript(t *testing.T, dir string, name string, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := []byte("#!/bin/sh\n" + body)
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

// ReadLines returns the non-empty lines of the file at path, or nil when it
// does not exist.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// WithWorkingDir runs fn with dir as the current working directory and restores the previous directory.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
