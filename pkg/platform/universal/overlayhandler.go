package universal

import (
	"fmt"
	"strings"

	"github.com/fpgad-project/fpgad-go/pkg/config"
	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
	"github.com/fpgad-project/fpgad-go/pkg/sysfs"
)

// StatusApplied is the substring an overlay status node reports once
// the kernel has merged the overlay into the live device tree.
const StatusApplied = "applied"

// StatusNotPresent is returned by Status for overlays whose configfs
// directory does not exist.
const StatusNotPresent = "not present"

// OverlayHandler manages one device-tree overlay through its configfs
// directory.
type OverlayHandler struct {
	io     *sysfs.IO
	handle string
	dir    string
}

// NewOverlayHandler creates a handler for the overlay named handle.
func NewOverlayHandler(io *sysfs.IO, paths config.Paths, handle string) *OverlayHandler {
	return &OverlayHandler{io: io, handle: handle, dir: paths.OverlayPath(handle)}
}

// Path returns the overlay's configfs directory.
func (h *OverlayHandler) Path() string { return h.dir }

// Instantiate creates the overlay's configfs directory. The kernel
// populates the directory's control nodes on creation; a directory
// that exists but lacks them means configfs is not behaving as a
// device-tree overlay tree.
func (h *OverlayHandler) Instantiate() error {
	if h.io.Exists(h.dir) {
		return fpgaerr.Argumentf(
			"overlay %q already exists at %q, remove it first", h.handle, h.dir)
	}
	if err := h.io.CreateDir(h.dir); err != nil {
		return err
	}
	if !h.io.Exists(h.pathNode()) {
		return fpgaerr.Internalf(
			"overlay directory %q has no path node, is configfs mounted?", h.dir)
	}
	return nil
}

// WriteSource writes the overlay source suffix to the overlay's path
// node, which makes the kernel load and apply the overlay.
func (h *OverlayHandler) WriteSource(suffix string) error {
	return h.io.Write(h.pathNode(), suffix, false)
}

// VerifyApplied checks that the overlay's path node records suffix and
// that its status node reports the overlay as applied.
func (h *OverlayHandler) VerifyApplied(suffix string) error {
	got, err := h.io.Read(h.pathNode())
	if err != nil {
		return err
	}
	got = strings.TrimRight(got, "\n")
	if !hasPathSuffix(got, suffix) {
		return fpgaerr.OverlayVerificationf(
			"overlay %q path node reads %q, expected it to end with %q", h.handle, got, suffix)
	}
	status, err := h.vfsStatus()
	if err != nil {
		return err
	}
	if !strings.Contains(status, StatusApplied) {
		return fpgaerr.OverlayVerificationf(
			"overlay %q has status %q, expected %q", h.handle, status, StatusApplied)
	}
	return nil
}

// Apply runs the full overlay lifecycle: instantiate, write the
// source, verify. Callers holding a write lock should use the three
// steps separately so the lock covers only the source write.
func (h *OverlayHandler) Apply(suffix string) error {
	if err := h.Instantiate(); err != nil {
		return err
	}
	if err := h.WriteSource(suffix); err != nil {
		return err
	}
	return h.VerifyApplied(suffix)
}

// Remove deletes the overlay's configfs directory, which makes the
// kernel revert the overlay.
func (h *OverlayHandler) Remove() error {
	return h.io.RemoveDir(h.dir)
}

// Status reports the overlay's path and status nodes, or "not present"
// when the overlay directory does not exist.
func (h *OverlayHandler) Status() (string, error) {
	if !h.io.Exists(h.dir) {
		return StatusNotPresent, nil
	}
	p, err := h.io.Read(h.pathNode())
	if err != nil {
		return "", err
	}
	status, err := h.vfsStatus()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%q %s", strings.TrimRight(p, "\n"), status), nil
}

// RequiredFlags implements platform.OverlayHandler. The universal
// platform imposes no flag requirements before overlay application.
func (h *OverlayHandler) RequiredFlags() (uint32, error) { return 0, nil }

func (h *OverlayHandler) pathNode() string { return h.dir + "/path" }

func (h *OverlayHandler) vfsStatus() (string, error) {
	status, err := h.io.Read(h.dir + "/status")
	if err != nil {
		return "", err
	}
	return strings.TrimRight(status, "\n"), nil
}

// hasPathSuffix reports whether p ends with the path components of
// suffix. A plain string suffix check would let "xa/b.dtbo" match
// "a/b.dtbo".
func hasPathSuffix(p, suffix string) bool {
	if p == suffix {
		return true
	}
	return strings.HasSuffix(p, "/"+strings.TrimLeft(suffix, "/"))
}
