package integration

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/deepprep/bidsify/internal/clock"
	"github.com/deepprep/bidsify/internal/dicomscan"
	"github.com/deepprep/bidsify/internal/engine"
)

// testFS is a filesystem implementation that tracks a directory tree in memory for testing
type testFS struct {
	files map[string][]byte
	dirs  map[string]bool

	// failRename makes Rename of the given source path fail
	failRename map[string]error

	// renames records every successful rename as "src -> dst"
	renames []string
}

func newTestFS(dirs ...string) *testFS {
	fs := &testFS{
		files:      make(map[string][]byte),
		dirs:       map[string]bool{string(filepath.Separator): true},
		failRename: make(map[string]error),
	}
	for _, d := range dirs {
		_ = fs.MkdirAll(d, 0755)
	}
	return fs
}

func (fs *testFS) Stat(path string) (os.FileInfo, error) {
	if fs.dirs[path] {
		return &mockFileInfo{name: filepath.Base(path), isDir: true}, nil
	}
	if content, ok := fs.files[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), size: int64(len(content))}, nil
	}
	return nil, os.ErrNotExist
}

func (fs *testFS) ReadDir(path string) ([]os.DirEntry, error) {
	if !fs.dirs[path] {
		return nil, os.ErrNotExist
	}
	var entries []os.DirEntry
	for d := range fs.dirs {
		if d != path && filepath.Dir(d) == path {
			entries = append(entries, iofsEntry(&mockFileInfo{name: filepath.Base(d), isDir: true}))
		}
	}
	for f := range fs.files {
		if filepath.Dir(f) == path {
			entries = append(entries, iofsEntry(&mockFileInfo{name: filepath.Base(f)}))
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (fs *testFS) Exists(path string) (bool, error) {
	_, hasFile := fs.files[path]
	return hasFile || fs.dirs[path], nil
}

func (fs *testFS) IsDir(path string) (bool, error) {
	return fs.dirs[path], nil
}

func (fs *testFS) MkdirAll(path string, perm os.FileMode) error {
	for d := path; !fs.dirs[d]; d = filepath.Dir(d) {
		fs.dirs[d] = true
	}
	return nil
}

func (fs *testFS) Rename(oldpath, newpath string) error {
	if err, ok := fs.failRename[oldpath]; ok {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
	}
	if exists, _ := fs.Exists(newpath); exists {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: os.ErrExist}
	}
	if !fs.dirs[oldpath] {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: os.ErrNotExist}
	}

	prefix := oldpath + string(filepath.Separator)
	moved := make(map[string]bool)
	for d := range fs.dirs {
		if d == oldpath || len(d) > len(prefix) && d[:len(prefix)] == prefix {
			moved[newpath+d[len(oldpath):]] = true
			delete(fs.dirs, d)
		}
	}
	for d := range moved {
		fs.dirs[d] = true
	}
	for f, content := range fs.files {
		if len(f) > len(prefix) && f[:len(prefix)] == prefix {
			delete(fs.files, f)
			fs.files[newpath+f[len(oldpath):]] = content
		}
	}
	fs.renames = append(fs.renames, oldpath+" -> "+newpath)
	return nil
}

func (fs *testFS) ReadFile(path string) ([]byte, error) {
	if content, ok := fs.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, os.ErrNotExist
}

func (fs *testFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	_ = fs.MkdirAll(filepath.Dir(path), 0755)
	fs.files[path] = append([]byte(nil), data...)
	return nil
}

// sortedDirs lists every directory below root, relative and slash separated.
func (fs *testFS) sortedDirs(root string) []string {
	var out []string
	prefix := root + string(filepath.Separator)
	for d := range fs.dirs {
		if len(d) > len(prefix) && d[:len(prefix)] == prefix {
			out = append(out, filepath.ToSlash(d[len(prefix):]))
		}
	}
	sort.Strings(out)
	return out
}

func iofsEntry(info *mockFileInfo) os.DirEntry {
	return fs.FileInfoToDirEntry(info)
}

// mockFileInfo implements os.FileInfo
type mockFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (m *mockFileInfo) Name() string { return m.name }
func (m *mockFileInfo) Size() int64  { return m.size }
func (m *mockFileInfo) Mode() os.FileMode {
	if m.isDir {
		return os.ModeDir | 0755
	}
	return 0644
}
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

func setupTestEngine(t *testing.T, dirs ...string) (*engine.Engine, *testFS) {
	t.Helper()
	fs := newTestFS(dirs...)
	clk := clock.NewStepClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), time.Second)
	return engine.New(fs, clk, dicomscan.NewScanner()), fs
}
