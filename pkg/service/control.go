package service

import (
	"fmt"
	"log/slog"

	"github.com/fpgad-project/fpgad-go/pkg/config"
	"github.com/fpgad-project/fpgad-go/pkg/firmware"
	"github.com/fpgad-project/fpgad-go/pkg/platform"
	"github.com/fpgad-project/fpgad-go/pkg/sysfs"
)

// Control implements the mutating operations: flag writes, bitstream
// loads, overlay application and removal, and raw property writes.
type Control struct {
	io         *sysfs.IO
	paths      config.Paths
	registry   *platform.Registry
	searchPath *firmware.SearchPath
	lock       writeLock
	log        *slog.Logger
}

// NewControl creates the control service.
func NewControl(io *sysfs.IO, paths config.Paths, registry *platform.Registry, searchPath *firmware.SearchPath) *Control {
	return &Control{
		io:         io,
		paths:      paths,
		registry:   registry,
		searchPath: searchPath,
		log:        slog.Default(),
	}
}

// SetLogger replaces the logger. Pass nil to restore the default.
func (c *Control) SetLogger(log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	c.log = log
}

// PlatformSignatureFor reads the hardware signature of a device, for
// callers that need an explicit signature for overlay operations.
func (c *Control) PlatformSignatureFor(deviceHandle string) (string, error) {
	if err := validateDeviceHandle(c.io, c.paths, deviceHandle); err != nil {
		return "", err
	}
	sig, err := c.registry.ReadSignature(deviceHandle)
	if err != nil {
		return "", err
	}
	return string(sig), nil
}

// SetFpgaFlags writes programming flags to a device. The platform is
// taken from platformSignature, or discovered from the device when the
// signature is empty.
func (c *Control) SetFpgaFlags(platformSignature, deviceHandle string, flags uint32) (string, error) {
	c.log.Info("set fpga flags", "device", deviceHandle, "flags", flags)
	if err := validateDeviceHandle(c.io, c.paths, deviceHandle); err != nil {
		return "", err
	}
	p, err := c.registry.ResolveOrDiscover(platform.Signature(platformSignature), deviceHandle)
	if err != nil {
		return "", err
	}
	dev, err := p.Device(deviceHandle)
	if err != nil {
		return "", err
	}
	if err := dev.SetFlags(flags); err != nil {
		return "", err
	}
	return fmt.Sprintf("Flags set to 0x%X for %s", flags, deviceHandle), nil
}

// WriteBitstreamDirect loads a bitstream into a device without
// touching the device tree. The firmware lookup path may be empty, in
// which case the bitstream's parent directory is used.
//
// The search-path register write and the triggering firmware write run
// under the write coordination lock; validation before and state
// verification after run outside it.
func (c *Control) WriteBitstreamDirect(platformSignature, deviceHandle, bitstreamPath, lookupPath string) (string, error) {
	c.log.Info("write bitstream direct", "device", deviceHandle, "bitstream", bitstreamPath)
	if err := validateDeviceHandle(c.io, c.paths, deviceHandle); err != nil {
		return "", err
	}
	p, err := c.registry.ResolveOrDiscover(platform.Signature(platformSignature), deviceHandle)
	if err != nil {
		return "", err
	}
	dev, err := p.Device(deviceHandle)
	if err != nil {
		return "", err
	}
	prefix, suffix, err := firmware.ResolvePair(bitstreamPath, lookupPath)
	if err != nil {
		return "", err
	}

	err = c.lock.withLock(func() error {
		c.log.Debug("got write lock")
		if err := c.searchPath.Set(prefix); err != nil {
			return err
		}
		return dev.TriggerLoad(suffix)
	})
	if err != nil {
		return "", err
	}
	if err := dev.VerifyOperating(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s loaded to %s using firmware lookup path: '%s'",
		bitstreamPath, deviceHandle, prefix), nil
}

// ApplyOverlay applies a device-tree overlay, triggering a bitstream
// load and driver probe events. The platform signature must name a
// registered platform; overlay operations never discover from a
// device.
//
// Locking follows WriteBitstreamDirect: the directory creation and the
// post-write verification read only the overlay's own directory and
// run outside the lock.
func (c *Control) ApplyOverlay(platformSignature, overlayHandle, sourcePath, lookupPath string) (string, error) {
	c.log.Info("apply overlay", "overlay", overlayHandle, "source", sourcePath)
	p, err := c.registry.Resolve(platform.Signature(platformSignature))
	if err != nil {
		return "", err
	}
	handler, err := p.OverlayHandler(overlayHandle)
	if err != nil {
		return "", err
	}
	prefix, suffix, err := firmware.ResolvePair(sourcePath, lookupPath)
	if err != nil {
		return "", err
	}
	if err := handler.Instantiate(); err != nil {
		return "", err
	}

	err = c.lock.withLock(func() error {
		c.log.Debug("got write lock")
		if err := c.searchPath.Set(prefix); err != nil {
			return err
		}
		return handler.WriteSource(suffix)
	})
	if err != nil {
		return "", err
	}
	if err := handler.VerifyApplied(suffix); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s loaded via %s using firmware lookup path: '%s'",
		sourcePath, handler.Path(), prefix), nil
}

// RemoveOverlay removes a previously applied overlay.
func (c *Control) RemoveOverlay(platformSignature, overlayHandle string) (string, error) {
	c.log.Info("remove overlay", "overlay", overlayHandle)
	p, err := c.registry.Resolve(platform.Signature(platformSignature))
	if err != nil {
		return "", err
	}
	handler, err := p.OverlayHandler(overlayHandle)
	if err != nil {
		return "", err
	}
	if err := handler.Remove(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s removed by deleting %s", overlayHandle, handler.Path()), nil
}

// WriteProperty writes a string to an arbitrary device property. The
// path must sit under the device class tree.
func (c *Control) WriteProperty(propertyPath, data string) (string, error) {
	c.log.Info("write property", "path", propertyPath)
	if err := validatePropertyPath(propertyPath, c.paths.DeviceClassDir); err != nil {
		return "", err
	}
	if err := c.io.Write(propertyPath, data, false); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s written to %s", data, propertyPath), nil
}

// WritePropertyBytes writes raw bytes to an arbitrary device property.
// The path must sit under the device class tree.
func (c *Control) WritePropertyBytes(propertyPath string, data []byte) (string, error) {
	c.log.Info("write property bytes", "path", propertyPath, "len", len(data))
	if err := validatePropertyPath(propertyPath, c.paths.DeviceClassDir); err != nil {
		return "", err
	}
	if err := c.io.WriteBytes(propertyPath, data, false); err != nil {
		return "", err
	}
	return fmt.Sprintf("Byte string successfully written to %s", propertyPath), nil
}
