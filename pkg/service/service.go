// Package service implements the daemon's request services. Control
// carries every mutating operation and owns the write coordination
// lock; Status carries the read-only queries. Both are thin
// orchestration over the platform engines: validate, resolve a
// platform, drive the lifecycle methods, format a confirmation string.
package service

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/fpgad-project/fpgad-go/pkg/config"
	"github.com/fpgad-project/fpgad-go/pkg/firmware"
	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
	"github.com/fpgad-project/fpgad-go/pkg/platform"
	"github.com/fpgad-project/fpgad-go/pkg/sysfs"
)

// Services bundles the daemon's request services with their shared
// collaborators.
type Services struct {
	Control *Control
	Status  *Status
}

// New wires up Control and Status over a shared registry and I/O
// layer.
func New(io *sysfs.IO, paths config.Paths, registry *platform.Registry) *Services {
	searchPath := firmware.NewSearchPath(io, paths.SearchPathRegister)
	return &Services{
		Control: NewControl(io, paths, registry, searchPath),
		Status:  NewStatus(io, paths, registry),
	}
}

// SetLogger replaces the logger on both services.
func (s *Services) SetLogger(log *slog.Logger) {
	s.Control.SetLogger(log)
	s.Status.SetLogger(log)
}

// validateDeviceHandle checks that handle names an existing device.
// The handle must be non-empty printable ASCII and its device
// directory must exist.
func validateDeviceHandle(io *sysfs.IO, paths config.Paths, handle string) error {
	if handle == "" || !isPrintableASCII(handle) {
		return fpgaerr.Argumentf(
			"%q is an invalid name for an fpga device, handles must follow sysfs naming rules",
			handle)
	}
	if !io.Exists(paths.DevicePath(handle)) {
		return fpgaerr.Argumentf("device %q not found", handle)
	}
	return nil
}

func isPrintableASCII(s string) bool {
	for _, r := range s {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}

// validatePropertyPath checks that a raw property path sits under one
// of the allowed virtual-filesystem trees.
func validatePropertyPath(propertyPath string, roots ...string) error {
	for _, root := range roots {
		if strings.HasPrefix(propertyPath, strings.TrimRight(root, "/")+"/") {
			return nil
		}
	}
	return fpgaerr.Argumentf(
		"cannot access property %q: not under %s", propertyPath, strings.Join(roots, " or "))
}

// writeLock is the write coordination lock. It serializes the
// composite sequence {write search-path register; trigger load} so one
// operation's load cannot resolve against another operation's prefix.
// It is held for that span only, not across validation or post-write
// verification, and acquisition blocks indefinitely.
type writeLock struct {
	mu sync.Mutex
}

func (l *writeLock) withLock(fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn()
}
