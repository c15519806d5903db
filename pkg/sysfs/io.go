package sysfs

import (
	"log/slog"

	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
)

// IO performs virtual-filesystem operations through an FS, converting
// failures into typed fpgaerr errors carrying the offending path.
type IO struct {
	fs  FS
	log *slog.Logger
}

// New creates an IO backed by the real OS filesystem.
func New() *IO {
	return NewWithFS(OSFS{})
}

// NewWithFS creates an IO backed by the given FS.
func NewWithFS(fs FS) *IO {
	return &IO{fs: fs, log: slog.Default()}
}

// SetLogger replaces the logger. Pass nil to restore the default.
func (s *IO) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	s.log = logger
}

// Read returns the full contents of the file at path.
func (s *IO) Read(path string) (string, error) {
	s.log.Debug("sysfs read", "path", path)
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return "", fpgaerr.IORead(path, err)
	}
	return string(data), nil
}

// Write writes value to the file at path. When create is false the file
// must already exist.
func (s *IO) Write(path, value string, create bool) error {
	s.log.Debug("sysfs write", "path", path, "value", value)
	if err := s.fs.WriteFile(path, []byte(value), create); err != nil {
		return fpgaerr.IOWrite(path, err)
	}
	return nil
}

// WriteBytes writes raw bytes to the file at path.
func (s *IO) WriteBytes(path string, data []byte, create bool) error {
	s.log.Debug("sysfs write bytes", "path", path, "len", len(data))
	if err := s.fs.WriteFile(path, data, create); err != nil {
		return fpgaerr.IOWrite(path, err)
	}
	return nil
}

// CreateDir recursively creates the directory at path.
func (s *IO) CreateDir(path string) error {
	s.log.Debug("sysfs create dir", "path", path)
	if err := s.fs.MkdirAll(path); err != nil {
		return fpgaerr.IOCreate(path, err)
	}
	return nil
}

// RemoveDir deletes the directory at path. The kernel rejects removal
// of non-empty configfs directories; that surfaces as IODelete.
func (s *IO) RemoveDir(path string) error {
	s.log.Debug("sysfs remove dir", "path", path)
	if err := s.fs.Remove(path); err != nil {
		return fpgaerr.IODelete(path, err)
	}
	return nil
}

// ReadDir lists the entry names in the directory at path.
func (s *IO) ReadDir(path string) ([]string, error) {
	s.log.Debug("sysfs read dir", "path", path)
	names, err := s.fs.ReadDir(path)
	if err != nil {
		return nil, fpgaerr.IOReadDir(path, err)
	}
	return names, nil
}

// Exists reports whether path exists.
func (s *IO) Exists(path string) bool {
	return s.fs.Exists(path)
}
