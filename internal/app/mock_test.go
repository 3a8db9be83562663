package app

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"filecopier/internal/domain"
)

type mockFS struct {
	dirs   map[string]bool
	files  []mockFile
	fail   map[string]error
	ops    []string
	mkdirs []string
}

type mockFile struct {
	path string
	size int64
}

func newMockFS(root string, files ...string) *mockFS {
	m := &mockFS{
		dirs: map[string]bool{root: true},
		fail: map[string]error{},
	}
	for _, f := range files {
		m.addFile(f, int64(len(f)))
	}
	return m
}

func (m *mockFS) addFile(path string, size int64) {
	m.files = append(m.files, mockFile{path: path, size: size})
	for dir := filepath.Dir(path); !m.dirs[dir]; dir = filepath.Dir(dir) {
		m.dirs[dir] = true
	}
}

// WalkDir visits directories before their contents, in lexical order like
// filepath.WalkDir, and honours filepath.SkipDir.
func (m *mockFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	if !m.dirs[root] {
		return fn(root, nil, fs.ErrNotExist)
	}

	type entry struct {
		path  string
		isDir bool
	}
	var entries []entry
	for dir := range m.dirs {
		if dir == root || strings.HasPrefix(dir, root+string(filepath.Separator)) {
			entries = append(entries, entry{path: dir, isDir: true})
		}
	}
	for _, f := range m.files {
		if strings.HasPrefix(f.path, root+string(filepath.Separator)) {
			entries = append(entries, entry{path: f.path})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].path < entries[j].path })

	var skipped []string
	for _, e := range entries {
		inSkipped := false
		for _, s := range skipped {
			if strings.HasPrefix(e.path, s+string(filepath.Separator)) {
				inSkipped = true
				break
			}
		}
		if inSkipped {
			continue
		}
		err := fn(e.path, mockDirEntry{name: filepath.Base(e.path), isDir: e.isDir}, nil)
		if err == filepath.SkipDir && e.isDir {
			skipped = append(skipped, e.path)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *mockFS) Stat(path string) (fs.FileInfo, error) {
	if m.dirs[path] {
		return mockFileInfo{name: filepath.Base(path), isDir: true}, nil
	}
	for _, f := range m.files {
		if f.path == path {
			return mockFileInfo{name: filepath.Base(path), size: f.size}, nil
		}
	}
	return nil, fs.ErrNotExist
}

func (m *mockFS) Exists(path string) (bool, error) {
	_, err := m.Stat(path)
	return err == nil, nil
}

func (m *mockFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mkdirs = append(m.mkdirs, path)
	for dir := path; !m.dirs[dir]; dir = filepath.Dir(dir) {
		m.dirs[dir] = true
	}
	return nil
}

func (m *mockFS) CopyFile(src, dst string) error {
	if err := m.fail[src]; err != nil {
		return err
	}
	m.ops = append(m.ops, "copy "+src+" -> "+dst)
	return nil
}

func (m *mockFS) MoveFile(src, dst string) error {
	if err := m.fail[src]; err != nil {
		return err
	}
	m.ops = append(m.ops, "move "+src+" -> "+dst)
	return nil
}

type mockDirEntry struct {
	name  string
	isDir bool
}

func (m mockDirEntry) Name() string { return m.name }
func (m mockDirEntry) IsDir() bool  { return m.isDir }
func (m mockDirEntry) Type() fs.FileMode {
	if m.isDir {
		return fs.ModeDir
	}
	return 0
}
func (m mockDirEntry) Info() (fs.FileInfo, error) { return nil, nil }

type mockFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (m mockFileInfo) Name() string       { return m.name }
func (m mockFileInfo) Size() int64        { return m.size }
func (m mockFileInfo) Mode() fs.FileMode  { return 0 }
func (m mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m mockFileInfo) IsDir() bool        { return m.isDir }
func (m mockFileInfo) Sys() interface{}   { return nil }

type eventRecorder struct {
	events []domain.Event
}

func (r *eventRecorder) OnEvent(event domain.Event) {
	r.events = append(r.events, event)
}

func (r *eventRecorder) kinds() []domain.EventKind {
	kinds := make([]domain.EventKind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func (r *eventRecorder) ofKind(kind domain.EventKind) []domain.Event {
	var out []domain.Event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
