// Package version provides daemon and protocol version information.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the daemon version, overridable at build time with
// -ldflags "-X .../pkg/version.Version=...".
var Version = "0.3.0-dev"

// Protocol is the RPC protocol version implemented by this module.
const Protocol = "1.0"

// Current returns Protocol in parsed form.
func Current() ProtocolVersion {
	v, err := Parse(Protocol)
	if err != nil {
		panic(fmt.Sprintf("bad built-in protocol version %q: %v", Protocol, err))
	}
	return v
}

// ProtocolVersion represents a parsed "major.minor" protocol version.
type ProtocolVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (ProtocolVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return ProtocolVersion{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v ProtocolVersion) Compatible(other ProtocolVersion) bool {
	return v.Major == other.Major
}
