package universal

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fpgad-project/fpgad-go/pkg/config"
	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
	"github.com/fpgad-project/fpgad-go/pkg/sysfs"
)

// StateOperating is the device-class state that indicates a successful
// firmware load.
const StateOperating = "operating"

// Device manages one FPGA region through its device-class directory.
type Device struct {
	io     *sysfs.IO
	paths  config.Paths
	handle string
	log    *slog.Logger
}

// NewDevice creates a device bound to handle.
func NewDevice(io *sysfs.IO, paths config.Paths, handle string) *Device {
	return &Device{io: io, paths: paths, handle: handle, log: slog.Default()}
}

// SetLogger replaces the device's logger.
func (d *Device) SetLogger(log *slog.Logger) {
	if log != nil {
		d.log = log
	}
}

// Handle implements platform.Device.
func (d *Device) Handle() string { return d.handle }

// State reads the device's state node with the trailing newline
// stripped.
func (d *Device) State() (string, error) {
	raw, err := d.io.Read(d.paths.DeviceNode(d.handle, "state"))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(raw, "\n"), nil
}

// Flags reads the device's flags node and parses it as hexadecimal,
// with or without a 0x prefix.
func (d *Device) Flags() (uint32, error) {
	raw, err := d.io.Read(d.paths.DeviceNode(d.handle, "flags"))
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "0x")
	v, err := strconv.ParseUint(text, 16, 32)
	if err != nil {
		return 0, fpgaerr.FlagParsef("could not parse flags value %q: %v", raw, err)
	}
	return uint32(v), nil
}

// SetFlags writes flags to the device's flags node and reads the node
// back to confirm the value took. A state other than operating after
// the write is logged but not an error; a readback mismatch is.
func (d *Device) SetFlags(flags uint32) error {
	node := d.paths.DeviceNode(d.handle, "flags")
	if err := d.io.Write(node, fmt.Sprintf("0x%X", flags), false); err != nil {
		return err
	}
	state, err := d.State()
	if err != nil {
		return err
	}
	if state != StateOperating {
		d.log.Warn("device state after flags write",
			"handle", d.handle, "state", state)
	}
	got, err := d.Flags()
	if err != nil {
		return fpgaerr.FlagParsef("flags for %q unreadable after write: %v", d.handle, err)
	}
	if got != flags {
		return fpgaerr.FlagParsef(
			"flags readback mismatch for %q: wrote 0x%X, read 0x%X", d.handle, flags, got)
	}
	return nil
}

// TriggerLoad writes the firmware suffix to the device's firmware
// node, starting a kernel-driven load.
func (d *Device) TriggerLoad(suffix string) error {
	return d.io.Write(d.paths.DeviceNode(d.handle, "firmware"), suffix, false)
}

// VerifyOperating checks that the device reached the operating state.
func (d *Device) VerifyOperating() error {
	state, err := d.State()
	if err != nil {
		return err
	}
	if state != StateOperating {
		return fpgaerr.DeviceStateVerificationf(
			"device %q is in state %q, expected %q", d.handle, state, StateOperating)
	}
	return nil
}

// LoadFirmware triggers a firmware load and verifies the resulting
// device state. Callers holding a write lock should use TriggerLoad
// and VerifyOperating separately so the lock does not cover the
// verification read.
func (d *Device) LoadFirmware(suffix string) error {
	if err := d.TriggerLoad(suffix); err != nil {
		return err
	}
	return d.VerifyOperating()
}
