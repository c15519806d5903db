// Package universal implements the vendor-neutral platform for devices
// managed by the standard Linux FPGA subsystem. It drives sysfs and
// configfs directly, without vendor extensions, and doubles as the
// fallback when device discovery cannot match a more specific platform.
package universal

import (
	"sync"

	"github.com/fpgad-project/fpgad-go/pkg/config"
	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
	"github.com/fpgad-project/fpgad-go/pkg/platform"
	"github.com/fpgad-project/fpgad-go/pkg/sysfs"
)

// TypeName is the universal platform's registry signature and type
// name.
const TypeName = "universal"

// Platform is the vendor-neutral platform. It caches one Device and
// one OverlayHandler for its lifetime; instances are request-scoped.
type Platform struct {
	io    *sysfs.IO
	paths config.Paths

	mu      sync.Mutex
	device  *Device
	handler *OverlayHandler
}

// New creates a universal platform instance.
func New(io *sysfs.IO, paths config.Paths) *Platform {
	return &Platform{io: io, paths: paths}
}

// Register adds the universal platform to reg under its own signature
// and installs it as the discovery fallback.
func Register(reg *platform.Registry, io *sysfs.IO, paths config.Paths) {
	factory := func() platform.Platform { return New(io, paths) }
	reg.Register(TypeName, factory)
	reg.SetFallback(factory)
}

// Type implements platform.Platform.
func (p *Platform) Type() string { return TypeName }

// Device implements platform.Platform. The first call binds the cached
// device to handle.
func (p *Platform) Device(handle string) (platform.Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.device == nil {
		p.device = NewDevice(p.io, p.paths, handle)
	}
	return p.device, nil
}

// OverlayHandler implements platform.Platform. The overlay control
// tree must exist; a missing tree means configfs is not mounted.
func (p *Platform) OverlayHandler(handle string) (platform.OverlayHandler, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handler == nil {
		if !p.io.Exists(p.paths.OverlayControlDir) {
			return nil, fpgaerr.Argumentf(
				"overlay control directory %q does not exist", p.paths.OverlayControlDir)
		}
		p.handler = NewOverlayHandler(p.io, p.paths, handle)
	}
	return p.handler, nil
}
