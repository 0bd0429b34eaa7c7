package planner

import (
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"
)

// mockFS is an in-memory directory tree implementing fsops.FS for testing.
// Paths are slash separated and absolute.
type mockFS struct {
	dirs     map[string]bool
	files    map[string]bool
	existErr map[string]error
}

func newMockFS(dirs ...string) *mockFS {
	m := &mockFS{
		dirs:     map[string]bool{"/": true},
		files:    make(map[string]bool),
		existErr: make(map[string]error),
	}
	for _, d := range dirs {
		_ = m.MkdirAll(d, 0755)
	}
	return m
}

func (m *mockFS) addFile(p string) {
	_ = m.MkdirAll(path.Dir(p), 0755)
	m.files[p] = true
}

func (m *mockFS) Stat(p string) (os.FileInfo, error) {
	if err, ok := m.existErr[p]; ok {
		return nil, err
	}
	if m.dirs[p] {
		return &mockFileInfo{name: path.Base(p), isDir: true}, nil
	}
	if m.files[p] {
		return &mockFileInfo{name: path.Base(p)}, nil
	}
	return nil, os.ErrNotExist
}

func (m *mockFS) ReadDir(p string) ([]os.DirEntry, error) {
	if !m.dirs[p] {
		return nil, os.ErrNotExist
	}
	var entries []os.DirEntry
	for d := range m.dirs {
		if d != p && path.Dir(d) == p {
			entries = append(entries, fs.FileInfoToDirEntry(&mockFileInfo{name: path.Base(d), isDir: true}))
		}
	}
	for f := range m.files {
		if path.Dir(f) == p {
			entries = append(entries, fs.FileInfoToDirEntry(&mockFileInfo{name: path.Base(f)}))
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *mockFS) Exists(p string) (bool, error) {
	if err, ok := m.existErr[p]; ok {
		return false, err
	}
	return m.dirs[p] || m.files[p], nil
}

func (m *mockFS) IsDir(p string) (bool, error) {
	return m.dirs[p], nil
}

func (m *mockFS) MkdirAll(p string, perm os.FileMode) error {
	for d := p; d != "/" && d != "."; d = path.Dir(d) {
		m.dirs[d] = true
	}
	return nil
}

func (m *mockFS) Rename(oldpath, newpath string) error {
	if m.dirs[newpath] || m.files[newpath] {
		return os.ErrExist
	}
	if !m.dirs[oldpath] || !m.dirs[path.Dir(newpath)] {
		return os.ErrNotExist
	}
	prefix := oldpath + "/"
	var movedDirs, movedFiles []string
	for d := range m.dirs {
		if d == oldpath || strings.HasPrefix(d, prefix) {
			movedDirs = append(movedDirs, d)
		}
	}
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			movedFiles = append(movedFiles, f)
		}
	}
	for _, d := range movedDirs {
		delete(m.dirs, d)
		m.dirs[newpath+strings.TrimPrefix(d, oldpath)] = true
	}
	for _, f := range movedFiles {
		delete(m.files, f)
		m.files[newpath+strings.TrimPrefix(f, oldpath)] = true
	}
	return nil
}

// Unused methods for mockFS
func (m *mockFS) ReadFile(p string) ([]byte, error)                         { return nil, nil }
func (m *mockFS) AtomicWrite(p string, data []byte, perm os.FileMode) error { return nil }

// mockFileInfo is a simple implementation of os.FileInfo
type mockFileInfo struct {
	name  string
	isDir bool
}

func (m *mockFileInfo) Name() string { return m.name }
func (m *mockFileInfo) Size() int64  { return 0 }
func (m *mockFileInfo) Mode() os.FileMode {
	if m.isDir {
		return os.ModeDir | 0755
	}
	return 0644
}
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }
