package fstest

import (
	"strings"

	"github.com/fpgad-project/fpgad-go/pkg/config"
)

// Tree wires a MemFS with kernel-like reactions for the FPGA device
// class tree, the configfs overlay tree and the firmware search-path
// register.
type Tree struct {
	FS    *MemFS
	Paths config.Paths

	// StateAfterLoad is written to a device's state node after its
	// firmware node is written. Defaults to "operating".
	StateAfterLoad string

	// StatusAfterApply is written to an overlay's status node after its
	// path node is written. Defaults to "applied".
	StatusAfterApply string

	// PopulateOverlayNodes controls whether creating an overlay
	// directory auto-creates its path and status nodes, as a mounted
	// configfs does. Disable to simulate an unmounted control tree.
	PopulateOverlayNodes bool
}

// NewTree creates a MemFS with the three trees present and kernel
// reactions installed.
func NewTree(paths config.Paths) *Tree {
	t := &Tree{
		FS:                   New(),
		Paths:                paths,
		StateAfterLoad:       "operating",
		StatusAfterApply:     "applied",
		PopulateOverlayNodes: true,
	}
	t.FS.SetDir(paths.DeviceClassDir)
	t.FS.SetDir(paths.OverlayControlDir)
	t.FS.SetFile(paths.SearchPathRegister, "")
	t.FS.OnMkdir = t.onMkdir
	t.FS.OnWrite = t.onWrite
	return t
}

// AddDevice creates the sysfs nodes for a device handle.
func (t *Tree) AddDevice(handle, compat, state string, flags string) {
	t.FS.SetFile(t.Paths.DeviceNode(handle, "state"), state+"\n")
	t.FS.SetFile(t.Paths.DeviceNode(handle, "flags"), flags+"\n")
	t.FS.SetFile(t.Paths.DeviceNode(handle, "firmware"), "")
	t.FS.SetFile(t.Paths.CompatNode(handle), compat)
}

// SearchPath returns the current contents of the search-path register.
func (t *Tree) SearchPath() string {
	s, _ := t.FS.Contents(t.Paths.SearchPathRegister)
	return s
}

func (t *Tree) onMkdir(dir string) {
	if !t.PopulateOverlayNodes {
		return
	}
	rest := strings.TrimPrefix(dir, t.Paths.OverlayControlDir+"/")
	if rest == dir || strings.Contains(rest, "/") {
		return
	}
	t.FS.SetFile(dir+"/path", "")
	t.FS.SetFile(dir+"/status", "unapplied\n")
}

func (t *Tree) onWrite(file string, data []byte) {
	// A firmware write flips the device state.
	if strings.HasPrefix(file, t.Paths.DeviceClassDir+"/") && strings.HasSuffix(file, "/firmware") {
		handle := strings.TrimSuffix(strings.TrimPrefix(file, t.Paths.DeviceClassDir+"/"), "/firmware")
		if !strings.Contains(handle, "/") {
			t.FS.SetFile(t.Paths.DeviceNode(handle, "state"), t.StateAfterLoad+"\n")
		}
		return
	}
	// A path write applies the overlay.
	if strings.HasPrefix(file, t.Paths.OverlayControlDir+"/") && strings.HasSuffix(file, "/path") {
		dir := strings.TrimSuffix(file, "/path")
		t.FS.SetFile(file, string(data)+"\n")
		t.FS.SetFile(dir+"/status", t.StatusAfterApply+"\n")
	}
}
