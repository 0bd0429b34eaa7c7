package fsops

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRealFS_Exists(t *testing.T) {
	fs := NewRealFS()
	tmpDir := t.TempDir()

	existingFile := filepath.Join(tmpDir, "exists.txt")
	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "existing file", path: existingFile, want: true},
		{name: "existing directory", path: tmpDir, want: true},
		{name: "missing path", path: filepath.Join(tmpDir, "missing"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.Exists(tt.path)
			if err != nil {
				t.Fatalf("Exists(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRealFS_IsDir(t *testing.T) {
	fs := NewRealFS()
	tmpDir := t.TempDir()

	file := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	if ok, err := fs.IsDir(tmpDir); err != nil || !ok {
		t.Errorf("IsDir(dir) = %v, %v; want true, nil", ok, err)
	}
	if ok, err := fs.IsDir(file); err != nil || ok {
		t.Errorf("IsDir(file) = %v, %v; want false, nil", ok, err)
	}
	if ok, err := fs.IsDir(filepath.Join(tmpDir, "missing")); err != nil || ok {
		t.Errorf("IsDir(missing) = %v, %v; want false, nil", ok, err)
	}
}

func TestRealFS_Rename(t *testing.T) {
	fs := NewRealFS()
	tmpDir := t.TempDir()

	src := filepath.Join(tmpDir, "01")
	dst := filepath.Join(tmpDir, "sub-01")
	if err := os.MkdirAll(filepath.Join(src, "01"), 0755); err != nil {
		t.Fatalf("failed to create source: %v", err)
	}

	if err := fs.Rename(src, dst); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dst, "01")); err != nil {
		t.Errorf("expected nested directory to move with parent: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("expected source to be gone, got %v", err)
	}
}

func TestRealFS_Rename_RefusesExistingDestination(t *testing.T) {
	fs := NewRealFS()
	tmpDir := t.TempDir()

	src := filepath.Join(tmpDir, "01")
	dst := filepath.Join(tmpDir, "sub-01")
	for _, dir := range []string{src, dst} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	err := fs.Rename(src, dst)
	if err == nil {
		t.Fatal("expected error when destination exists")
	}
	if !errors.Is(err, os.ErrExist) {
		t.Errorf("expected os.ErrExist, got %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source should be untouched: %v", err)
	}
}

func TestListDirs(t *testing.T) {
	fs := NewRealFS()
	tmpDir := t.TempDir()

	for _, dir := range []string{"02", "01", "sub-03"} {
		if err := os.MkdirAll(filepath.Join(tmpDir, dir), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "04"), []byte("not a dir"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	names, err := ListDirs(fs, tmpDir)
	if err != nil {
		t.Fatalf("ListDirs failed: %v", err)
	}

	want := []string{"01", "02", "sub-03"}
	if len(names) != len(want) {
		t.Fatalf("ListDirs = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ListDirs[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestListDirs_MissingDirectory(t *testing.T) {
	fs := NewRealFS()
	if _, err := ListDirs(fs, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := NewRealFS()
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "out", "heuristic.json")
	data := []byte(`{"t1w": []}`)

	if err := fs.AtomicWrite(path, data, 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	got, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("content = %q, want %q", got, data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}
