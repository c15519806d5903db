// Package fstest provides an in-memory sysfs.FS implementation for
// package tests. Hooks let tests mimic kernel-side behavior such as
// configfs auto-populating overlay directories or a firmware write
// flipping a device's state node.
package fstest

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemFS is an in-memory filesystem. The zero value is not usable; use
// New.
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool

	readErr   map[string]error
	writeErr  map[string]error
	mkdirErr  map[string]error
	removeErr map[string]error

	// OnMkdir is invoked (without the lock held) for every directory
	// MkdirAll creates, deepest last.
	OnMkdir func(dir string)

	// OnWrite is invoked (without the lock held) after a successful
	// WriteFile.
	OnWrite func(file string, data []byte)
}

// New creates an empty MemFS.
func New() *MemFS {
	return &MemFS{
		files:     make(map[string][]byte),
		dirs:      map[string]bool{"/": true},
		readErr:   make(map[string]error),
		writeErr:  make(map[string]error),
		mkdirErr:  make(map[string]error),
		removeErr: make(map[string]error),
	}
}

// SetFile creates the file (and parent directories) with the given
// contents, bypassing hooks and error injection.
func (m *MemFS) SetFile(p, contents string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	m.addDirsLocked(path.Dir(p))
	m.files[p] = []byte(contents)
}

// SetDir creates the directory (and parents), bypassing hooks.
func (m *MemFS) SetDir(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addDirsLocked(path.Clean(p))
}

// Contents returns the current contents of the file at p and whether it
// exists.
func (m *MemFS) Contents(p string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path.Clean(p)]
	return string(data), ok
}

// FailRead makes future reads of p return err.
func (m *MemFS) FailRead(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr[path.Clean(p)] = err
}

// FailWrite makes future writes of p return err.
func (m *MemFS) FailWrite(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr[path.Clean(p)] = err
}

// FailMkdir makes future creations of p return err.
func (m *MemFS) FailMkdir(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirErr[path.Clean(p)] = err
}

// FailRemove makes future removals of p return err.
func (m *MemFS) FailRemove(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeErr[path.Clean(p)] = err
}

func (m *MemFS) addDirsLocked(dir string) {
	for d := dir; d != "/" && d != "."; d = path.Dir(d) {
		m.dirs[d] = true
	}
}

// ReadFile implements sysfs.FS.
func (m *MemFS) ReadFile(p string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if err, ok := m.readErr[p]; ok {
		return nil, err
	}
	data, ok := m.files[p]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteFile implements sysfs.FS.
func (m *MemFS) WriteFile(p string, data []byte, create bool) error {
	m.mu.Lock()
	p = path.Clean(p)
	if err, ok := m.writeErr[p]; ok {
		m.mu.Unlock()
		return err
	}
	if _, ok := m.files[p]; !ok {
		if !create {
			m.mu.Unlock()
			return &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
		}
		m.addDirsLocked(path.Dir(p))
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.files[p] = buf
	hook := m.OnWrite
	m.mu.Unlock()
	if hook != nil {
		hook(p, buf)
	}
	return nil
}

// MkdirAll implements sysfs.FS.
func (m *MemFS) MkdirAll(p string) error {
	m.mu.Lock()
	p = path.Clean(p)
	if err, ok := m.mkdirErr[p]; ok {
		m.mu.Unlock()
		return err
	}
	var created []string
	for d := p; d != "/" && d != "."; d = path.Dir(d) {
		if !m.dirs[d] {
			created = append(created, d)
		}
	}
	// Deepest was collected first; create parents before children.
	sort.Slice(created, func(i, j int) bool { return len(created[i]) < len(created[j]) })
	for _, d := range created {
		m.dirs[d] = true
	}
	hook := m.OnMkdir
	m.mu.Unlock()
	if hook != nil {
		for _, d := range created {
			hook(d)
		}
	}
	return nil
}

// Remove implements sysfs.FS. Removing a directory takes its attribute
// files with it, as configfs rmdir does; directories holding
// subdirectories are rejected.
func (m *MemFS) Remove(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if err, ok := m.removeErr[p]; ok {
		return err
	}
	if _, ok := m.files[p]; ok {
		delete(m.files, p)
		return nil
	}
	if !m.dirs[p] {
		return &fs.PathError{Op: "remove", Path: p, Err: fs.ErrNotExist}
	}
	for d := range m.dirs {
		if strings.HasPrefix(d, p+"/") {
			return &fs.PathError{Op: "remove", Path: p, Err: fs.ErrInvalid}
		}
	}
	for f := range m.files {
		if strings.HasPrefix(f, p+"/") {
			delete(m.files, f)
		}
	}
	delete(m.dirs, p)
	return nil
}

// ReadDir implements sysfs.FS.
func (m *MemFS) ReadDir(p string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if !m.dirs[p] {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	seen := make(map[string]bool)
	collect := func(child string) {
		rest := strings.TrimPrefix(child, p+"/")
		if rest == child {
			return
		}
		if i := strings.Index(rest, "/"); i >= 0 {
			rest = rest[:i]
		}
		seen[rest] = true
	}
	for f := range m.files {
		collect(f)
	}
	for d := range m.dirs {
		collect(d)
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Exists implements sysfs.FS.
func (m *MemFS) Exists(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if m.dirs[p] {
		return true
	}
	_, ok := m.files[p]
	return ok
}
