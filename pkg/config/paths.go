// Package config holds the daemon configuration: the locations of the
// kernel virtual-filesystem trees, boot-time default firmware, the RPC
// listen endpoints, and vendor platform definition files.
//
// Configuration is layered: hardcoded defaults, overridden by the
// vendor file (/usr/lib/fpgad/config.yaml), overridden by the user file
// (/etc/fpgad/config.yaml). Both files are optional.
package config

import "path"

// Hardcoded path defaults. The device-class dir is driver-decided; the
// overlay control dir is often remounted (e.g. /config/device-tree).
const (
	DefaultDeviceClassDir     = "/sys/class/fpga_manager"
	DefaultOverlayControlDir  = "/sys/kernel/config/device-tree/overlays"
	DefaultSearchPathRegister = "/sys/module/firmware_class/parameters/path"

	VendorConfigFile = "/usr/lib/fpgad/config.yaml"
	UserConfigFile   = "/etc/fpgad/config.yaml"

	DefaultSocketPath = "/run/fpgad/fpgad.sock"
)

// Paths locates the virtual-filesystem trees the daemon drives.
type Paths struct {
	// DeviceClassDir contains one subdirectory per FPGA device handle,
	// each exposing state, flags, firmware and of_node/compatible.
	DeviceClassDir string `yaml:"device_class_dir"`

	// OverlayControlDir is the configfs tree where creating a
	// subdirectory instantiates a device-tree overlay.
	OverlayControlDir string `yaml:"overlay_control_dir"`

	// SearchPathRegister is the module parameter file holding the
	// global firmware search-path prefix.
	SearchPathRegister string `yaml:"firmware_search_path_file"`
}

// DefaultPaths returns the hardcoded path defaults.
func DefaultPaths() Paths {
	return Paths{
		DeviceClassDir:     DefaultDeviceClassDir,
		OverlayControlDir:  DefaultOverlayControlDir,
		SearchPathRegister: DefaultSearchPathRegister,
	}
}

// withDefaults fills empty fields from def.
func (p Paths) withDefaults(def Paths) Paths {
	if p.DeviceClassDir == "" {
		p.DeviceClassDir = def.DeviceClassDir
	}
	if p.OverlayControlDir == "" {
		p.OverlayControlDir = def.OverlayControlDir
	}
	if p.SearchPathRegister == "" {
		p.SearchPathRegister = def.SearchPathRegister
	}
	return p
}

// DevicePath returns the device directory for handle.
func (p Paths) DevicePath(handle string) string {
	return path.Join(p.DeviceClassDir, handle)
}

// DeviceNode returns the path of a named node in handle's device
// directory.
func (p Paths) DeviceNode(handle, node string) string {
	return path.Join(p.DeviceClassDir, handle, node)
}

// CompatNode returns the hardware-signature node for handle.
func (p Paths) CompatNode(handle string) string {
	return path.Join(p.DeviceClassDir, handle, "of_node", "compatible")
}

// OverlayPath returns the configfs directory for an overlay handle.
func (p Paths) OverlayPath(handle string) string {
	return path.Join(p.OverlayControlDir, handle)
}

// OverlayNode returns the path of a named node in an overlay directory.
func (p Paths) OverlayNode(handle, node string) string {
	return path.Join(p.OverlayControlDir, handle, node)
}
