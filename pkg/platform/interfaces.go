// Package platform defines the vendor-independent capability contracts
// for FPGA management and the registry that selects a vendor
// implementation from a hardware compatibility signature.
package platform

// Device is bound to one FPGA device handle and drives its sysfs
// nodes. Instances are cheap, reconstructed per request, and carry no
// persisted identity.
type Device interface {
	// Handle returns the device handle (e.g. "fpga0").
	Handle() string

	// State reads the state node verbatim, trailing newline stripped.
	State() (string, error)

	// Flags reads the programming flags node as hexadecimal (optional
	// 0x prefix).
	Flags() (uint32, error)

	// SetFlags writes flags as uppercase 0x-prefixed hex and verifies
	// the value by reading it back.
	SetFlags(flags uint32) error

	// TriggerLoad writes relPath to the firmware trigger node. The
	// kernel resolves relPath against the global search path, so the
	// caller must hold the write coordination lock across the search
	// path write and this call.
	TriggerLoad(relPath string) error

	// VerifyOperating asserts the device reached the "operating" state.
	VerifyOperating() error

	// LoadFirmware is TriggerLoad followed by VerifyOperating.
	LoadFirmware(relPath string) error
}

// OverlayHandler manages one device-tree overlay through its control
// filesystem directory.
type OverlayHandler interface {
	// Path returns the overlay's control-filesystem directory.
	Path() string

	// Instantiate creates the overlay directory and checks that the
	// control filesystem populated its path node. The overlay must be
	// absent beforehand.
	Instantiate() error

	// WriteSource writes the relative overlay source path into the
	// path node, triggering application. Same locking contract as
	// Device.TriggerLoad.
	WriteSource(relSource string) error

	// VerifyApplied asserts the path node ends with relSource and the
	// status node reports the overlay as applied.
	VerifyApplied(relSource string) error

	// Apply is Instantiate, WriteSource and VerifyApplied in sequence.
	Apply(relSource string) error

	// Remove deletes the overlay directory, deactivating the overlay.
	Remove() error

	// Status reports the overlay state: the literal "not present" when
	// the directory is absent, otherwise a combination of the path and
	// status node contents.
	Status() (string, error)

	// RequiredFlags derives device programming flags from overlay
	// metadata. The vendor-neutral implementation returns 0.
	RequiredFlags() (uint32, error)
}

// Platform is the per-vendor capability object. It owns at most one
// Device and one OverlayHandler, lazily created and cached for the
// instance's lifetime. Instances are request-scoped, never shared
// across requests.
type Platform interface {
	// Type returns the platform name (e.g. "universal").
	Type() string

	// Device returns the cached Device for handle, creating it on
	// first access.
	Device(handle string) (Device, error)

	// OverlayHandler returns the cached OverlayHandler for handle,
	// creating it on first access.
	OverlayHandler(handle string) (OverlayHandler, error)
}

// Factory constructs a fresh Platform instance.
type Factory func() Platform
