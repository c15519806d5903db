package service

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fpgad-project/fpgad-go/pkg/config"
	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
	"github.com/fpgad-project/fpgad-go/pkg/platform"
	"github.com/fpgad-project/fpgad-go/pkg/sysfs"
)

// Status implements the read-only queries over devices and overlays.
type Status struct {
	io       *sysfs.IO
	paths    config.Paths
	registry *platform.Registry
	log      *slog.Logger
}

// NewStatus creates the status service.
func NewStatus(io *sysfs.IO, paths config.Paths, registry *platform.Registry) *Status {
	return &Status{io: io, paths: paths, registry: registry, log: slog.Default()}
}

// SetLogger replaces the logger. Pass nil to restore the default.
func (s *Status) SetLogger(log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	s.log = log
}

// GetFpgaState reports the current state of a device, e.g. "operating".
func (s *Status) GetFpgaState(platformSignature, deviceHandle string) (string, error) {
	s.log.Info("get fpga state", "device", deviceHandle)
	if err := validateDeviceHandle(s.io, s.paths, deviceHandle); err != nil {
		return "", err
	}
	p, err := s.registry.ResolveOrDiscover(platform.Signature(platformSignature), deviceHandle)
	if err != nil {
		return "", err
	}
	dev, err := p.Device(deviceHandle)
	if err != nil {
		return "", err
	}
	return dev.State()
}

// GetFpgaFlags reports a device's programming flags rendered as a
// decimal string.
func (s *Status) GetFpgaFlags(platformSignature, deviceHandle string) (string, error) {
	s.log.Info("get fpga flags", "device", deviceHandle)
	if err := validateDeviceHandle(s.io, s.paths, deviceHandle); err != nil {
		return "", err
	}
	p, err := s.registry.ResolveOrDiscover(platform.Signature(platformSignature), deviceHandle)
	if err != nil {
		return "", err
	}
	dev, err := p.Device(deviceHandle)
	if err != nil {
		return "", err
	}
	flags, err := dev.Flags()
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(uint64(flags), 10), nil
}

// GetOverlayStatus reports the status of one overlay, or the literal
// "not present" for an overlay that was never instantiated.
func (s *Status) GetOverlayStatus(platformSignature, overlayHandle string) (string, error) {
	s.log.Info("get overlay status", "overlay", overlayHandle)
	if overlayHandle == "" {
		return "", fpgaerr.Argumentf("an overlay handle is required, provided handle is empty")
	}
	p, err := s.registry.Resolve(platform.Signature(platformSignature))
	if err != nil {
		return "", err
	}
	handler, err := p.OverlayHandler(overlayHandle)
	if err != nil {
		return "", err
	}
	return handler.Status()
}

// GetOverlays lists the overlay handles present on the system, newline
// separated.
func (s *Status) GetOverlays() (string, error) {
	s.log.Info("get overlays")
	handles, err := s.io.ReadDir(s.paths.OverlayControlDir)
	if err != nil {
		return "", err
	}
	return strings.Join(handles, "\n"), nil
}

// GetPlatformType reports a device's hardware signature.
func (s *Status) GetPlatformType(deviceHandle string) (string, error) {
	s.log.Info("get platform type", "device", deviceHandle)
	if err := validateDeviceHandle(s.io, s.paths, deviceHandle); err != nil {
		return "", err
	}
	sig, err := s.registry.ReadSignature(deviceHandle)
	if err != nil {
		return "", err
	}
	return string(sig), nil
}

// GetPlatformTypes lists every device and its hardware signature, one
// "handle:signature" line per device. A device whose signature cannot
// be read appears with an empty signature.
func (s *Status) GetPlatformTypes() (string, error) {
	s.log.Info("get platform types")
	devices, err := s.registry.ListDevices()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, handle := range devices {
		sig, err := s.registry.ReadSignature(handle)
		if err != nil {
			s.log.Error("failed to read signature", "device", handle, "error", err)
			fmt.Fprintf(&b, "%s:\n", handle)
			continue
		}
		fmt.Fprintf(&b, "%s:%s\n", handle, sig)
	}
	return b.String(), nil
}

// ReadProperty reads an arbitrary property file. The path must sit
// under the device class tree or the overlay control tree.
func (s *Status) ReadProperty(propertyPath string) (string, error) {
	s.log.Info("read property", "path", propertyPath)
	if err := validatePropertyPath(propertyPath, s.paths.DeviceClassDir, s.paths.OverlayControlDir); err != nil {
		return "", err
	}
	return s.io.Read(propertyPath)
}
