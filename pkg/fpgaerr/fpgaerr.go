// Package fpgaerr defines the error taxonomy for FPGA management
// operations. Every failure in the daemon is classified into a Kind so
// that the RPC boundary can map it to a status code and so that callers
// can tell "command rejected" apart from "command accepted but hardware
// state diverged".
package fpgaerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindUnknown is the zero Kind, reported for errors that did not
	// originate in this package.
	KindUnknown Kind = iota

	// KindArgument is invalid caller input. Surfaced immediately, never
	// retried.
	KindArgument

	// KindIORead is a filesystem read failure.
	KindIORead

	// KindIOWrite is a filesystem write failure.
	KindIOWrite

	// KindIOCreate is a directory or file creation failure.
	KindIOCreate

	// KindIODelete is a directory or file deletion failure.
	KindIODelete

	// KindIOReadDir is a directory listing failure.
	KindIOReadDir

	// KindFlagParse means the flags node could not be parsed, or a flag
	// write was accepted by the OS but the read-back value diverged.
	KindFlagParse

	// KindOverlayVerification means an overlay write succeeded at the OS
	// level but the overlay did not verify as applied.
	KindOverlayVerification

	// KindDeviceStateVerification means a firmware load write succeeded
	// but the device did not reach the expected state.
	KindDeviceStateVerification

	// KindInternal is an environment or invariant violation, e.g. the
	// control filesystem not auto-populating an overlay directory.
	KindInternal

	// KindVendorTool is an opaque external vendor-tool process failure.
	KindVendorTool
)

// String returns the variant name used to prefix boundary error messages.
func (k Kind) String() string {
	switch k {
	case KindArgument:
		return "Argument"
	case KindIORead:
		return "IORead"
	case KindIOWrite:
		return "IOWrite"
	case KindIOCreate:
		return "IOCreate"
	case KindIODelete:
		return "IODelete"
	case KindIOReadDir:
		return "IOReadDirectory"
	case KindFlagParse:
		return "FlagParse"
	case KindOverlayVerification:
		return "OverlayVerification"
	case KindDeviceStateVerification:
		return "DeviceStateVerification"
	case KindInternal:
		return "Internal"
	case KindVendorTool:
		return "VendorTool"
	default:
		return "Unknown"
	}
}

// IsIO reports whether the kind is one of the filesystem I/O variants.
func (k Kind) IsIO() bool {
	switch k {
	case KindIORead, KindIOWrite, KindIOCreate, KindIODelete, KindIOReadDir:
		return true
	default:
		return false
	}
}

// Error is a classified FPGA management error. Path is set for the I/O
// kinds and names the offending filesystem node.
type Error struct {
	Kind Kind
	Path string
	Msg  string
	Err  error
}

// Error formats the error with its variant-name prefix, e.g.
// "IORead: reading /sys/class/fpga_manager/fpga0/state: permission denied".
func (e *Error) Error() string {
	s := e.Kind.String() + ": " + e.Msg
	if e.Path != "" {
		s += " " + e.Path
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Argumentf creates an Argument error.
func Argumentf(format string, args ...any) *Error {
	return &Error{Kind: KindArgument, Msg: fmt.Sprintf(format, args...)}
}

// Internalf creates an Internal error.
func Internalf(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Msg: fmt.Sprintf(format, args...)}
}

// FlagParsef creates a FlagParse error.
func FlagParsef(format string, args ...any) *Error {
	return &Error{Kind: KindFlagParse, Msg: fmt.Sprintf(format, args...)}
}

// OverlayVerificationf creates an OverlayVerification error.
func OverlayVerificationf(format string, args ...any) *Error {
	return &Error{Kind: KindOverlayVerification, Msg: fmt.Sprintf(format, args...)}
}

// DeviceStateVerificationf creates a DeviceStateVerification error.
func DeviceStateVerificationf(format string, args ...any) *Error {
	return &Error{Kind: KindDeviceStateVerification, Msg: fmt.Sprintf(format, args...)}
}

// VendorTool wraps an external vendor-tool process failure.
func VendorTool(err error) *Error {
	return &Error{Kind: KindVendorTool, Msg: "vendor tool failed", Err: err}
}

// IORead wraps a read failure for path.
func IORead(path string, err error) *Error {
	return &Error{Kind: KindIORead, Path: path, Msg: "reading", Err: err}
}

// IOWrite wraps a write failure for path.
func IOWrite(path string, err error) *Error {
	return &Error{Kind: KindIOWrite, Path: path, Msg: "writing", Err: err}
}

// IOCreate wraps a creation failure for path.
func IOCreate(path string, err error) *Error {
	return &Error{Kind: KindIOCreate, Path: path, Msg: "creating", Err: err}
}

// IODelete wraps a deletion failure for path.
func IODelete(path string, err error) *Error {
	return &Error{Kind: KindIODelete, Path: path, Msg: "deleting", Err: err}
}

// IOReadDir wraps a directory listing failure for path.
func IOReadDir(path string, err error) *Error {
	return &Error{Kind: KindIOReadDir, Path: path, Msg: "listing", Err: err}
}
