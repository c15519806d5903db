// Package xilinx implements the Xilinx platform variant. Device and
// overlay management reuse the vendor-neutral engines; on top of those
// the package exposes a pass-through to the dfx-mgr-client tool for
// accelerator package management on boards running dfx-mgr.
package xilinx

import (
	"sync"

	"github.com/fpgad-project/fpgad-go/pkg/config"
	"github.com/fpgad-project/fpgad-go/pkg/platform"
	"github.com/fpgad-project/fpgad-go/pkg/platform/universal"
	"github.com/fpgad-project/fpgad-go/pkg/sysfs"
)

// TypeName is the Xilinx platform's type name.
const TypeName = "xilinx"

// Signature covers the device-tree compatible strings of the Xilinx
// FPGA managers the platform supports.
const Signature platform.Signature = "xlnx,versal-fpga,zynqmp-pcap-fpga,zynq-devcfg-1.0"

// Platform is the Xilinx platform. Lifecycle operations are the
// universal ones; vendor-specific behavior lives in the dfx-mgr
// pass-through.
type Platform struct {
	io    *sysfs.IO
	paths config.Paths

	mu      sync.Mutex
	device  *universal.Device
	handler *universal.OverlayHandler
	dfx     *DfxMgr
}

// New creates a Xilinx platform instance.
func New(io *sysfs.IO, paths config.Paths) *Platform {
	return &Platform{io: io, paths: paths}
}

// Register adds the Xilinx platform to reg under its compatible-string
// signature.
func Register(reg *platform.Registry, io *sysfs.IO, paths config.Paths) {
	reg.Register(Signature, func() platform.Platform { return New(io, paths) })
}

// Type implements platform.Platform.
func (p *Platform) Type() string { return TypeName }

// Device implements platform.Platform.
func (p *Platform) Device(handle string) (platform.Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.device == nil {
		p.device = universal.NewDevice(p.io, p.paths, handle)
	}
	return p.device, nil
}

// OverlayHandler implements platform.Platform.
func (p *Platform) OverlayHandler(handle string) (platform.OverlayHandler, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handler == nil {
		p.handler = universal.NewOverlayHandler(p.io, p.paths, handle)
	}
	return p.handler, nil
}

// DfxMgr returns the dfx-mgr-client pass-through, shared for the
// platform's lifetime. Boards without dfx-mgr fail at call time with a
// VendorTool error.
func (p *Platform) DfxMgr() *DfxMgr {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dfx == nil {
		p.dfx = NewDfxMgr()
	}
	return p.dfx
}
