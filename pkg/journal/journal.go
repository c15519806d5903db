// Package journal records control-plane operations to an append-only
// CBOR file. Each handled request becomes one Entry, whether it
// succeeded or not, so a device's reconfiguration history can be
// reconstructed after the fact.
package journal

import (
	"time"

	"github.com/fpgad-project/fpgad-go/pkg/wire"
)

// Entry is one recorded operation. CBOR encoding uses integer keys
// for compactness.
type Entry struct {
	// Timestamp when the operation completed (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// MessageID of the request, zero for internally initiated
	// operations such as boot loads.
	MessageID uint32 `cbor:"2,keyasint,omitempty"`

	// Method that was invoked.
	Method wire.Method `cbor:"3,keyasint"`

	// Device handle, when the operation targeted a device.
	Device string `cbor:"4,keyasint,omitempty"`

	// Overlay handle, when the operation targeted an overlay.
	Overlay string `cbor:"5,keyasint,omitempty"`

	// Source path of the bitstream or overlay, when one was loaded.
	Source string `cbor:"6,keyasint,omitempty"`

	// Status the operation resolved to.
	Status wire.Status `cbor:"7,keyasint"`

	// Result message on success.
	Result string `cbor:"8,keyasint,omitempty"`

	// Error message on failure.
	Error string `cbor:"9,keyasint,omitempty"`
}

// Recorder receives completed operations. Pass nil or Noop to disable
// journaling.
type Recorder interface {
	// Record stores one entry. Implementations must be safe for
	// concurrent use and must not block the caller for long.
	Record(entry Entry)
}

// Noop discards all entries. Safe for concurrent use and usable as a
// zero value.
type Noop struct{}

// Record discards the entry.
func (Noop) Record(Entry) {}

var _ Recorder = Noop{}
