package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FileTree represents a directory structure for testing. Values are a
// string (file content), a nested FileTree (directory) or a Link.
type FileTree map[string]interface{}

// Link is a symlink entry in a FileTree
type Link struct {
	Target string
}

// CreateFileTree recursively creates a file tree under basePath
func CreateFileTree(t *testing.T, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create parent of %s: %v", fullPath, err)
			}
			if err := os.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			if err := os.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			CreateFileTree(t, fullPath, v)
		case Link:
			if err := os.Symlink(v.Target, fullPath); err != nil {
				t.Fatalf("Failed to create symlink %s: %v", fullPath, err)
			}
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}

// WriteExecutable writes a script with the executable bit set
func WriteExecutable(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("Failed to write script %s: %v", path, err)
	}
}
