// Package sysfs wraps filesystem access to kernel virtual-filesystem
// trees (sysfs device classes, configfs overlay directories, module
// parameter files). Every operation converts low-level failures into
// typed, path-annotated fpgaerr errors.
//
// All access goes through the FS interface so tests can substitute an
// in-memory filesystem that mimics sysfs and configfs node behavior.
package sysfs

import (
	"os"
)

// FS is the set of primitive filesystem operations the adapter needs.
// It is satisfied by OSFS for real hardware and by test fakes.
type FS interface {
	// ReadFile reads the full contents of the file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to the file at path. When create is false
	// the file must already exist; virtual-filesystem nodes are never
	// created by writers.
	WriteFile(path string, data []byte, create bool) error

	// MkdirAll creates the directory at path, including parents.
	MkdirAll(path string) error

	// Remove deletes the (empty) directory or file at path.
	Remove(path string) error

	// ReadDir lists the entry names in the directory at path.
	ReadDir(path string) ([]string, error)

	// Exists reports whether path exists.
	Exists(path string) bool
}

// OSFS implements FS with real OS calls.
type OSFS struct{}

func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFS) WriteFile(path string, data []byte, create bool) error {
	flags := os.O_WRONLY
	if create {
		flags |= os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

func (OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (OSFS) Remove(path string) error {
	return os.Remove(path)
}

func (OSFS) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
