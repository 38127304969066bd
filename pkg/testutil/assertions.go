package testutil

import (
	"os"
	"testing"
)

// AssertSymlink checks that path is a symlink pointing exactly at target
func AssertSymlink(t *testing.T, path, target string) {
	t.Helper()

	info, err := os.Lstat(path)
	if err != nil {
		t.Errorf("Expected symlink at %s: %v", path, err)
		return
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Errorf("Expected %s to be a symlink, mode is %s", path, info.Mode())
		return
	}

	got, err := os.Readlink(path)
	if err != nil {
		t.Errorf("Failed to read symlink %s: %v", path, err)
		return
	}
	if got != target {
		t.Errorf("Symlink %s points to %q, want %q", path, got, target)
	}
}

// AssertFileContent checks that path is a regular file holding content
func AssertFileContent(t *testing.T, path, content string) {
	t.Helper()

	info, err := os.Lstat(path)
	if err != nil {
		t.Errorf("Expected file at %s: %v", path, err)
		return
	}
	if !info.Mode().IsRegular() {
		t.Errorf("Expected %s to be a regular file, mode is %s", path, info.Mode())
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("Failed to read %s: %v", path, err)
		return
	}
	if string(data) != content {
		t.Errorf("File %s content = %q, want %q", path, string(data), content)
	}
}

// AssertDir checks that path is a real directory, not a symlink to one
func AssertDir(t *testing.T, path string) {
	t.Helper()

	info, err := os.Lstat(path)
	if err != nil {
		t.Errorf("Expected directory at %s: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("Expected %s to be a directory, mode is %s", path, info.Mode())
	}
}

// AssertNotExists checks that nothing exists at path
func AssertNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Lstat(path); err == nil {
		t.Errorf("Expected nothing at %s", path)
	} else if !os.IsNotExist(err) {
		t.Errorf("Unexpected error checking %s: %v", path, err)
	}
}
