package xilinx

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
)

// DfxMgrBinary is the client binary of Xilinx's dfx-mgr accelerator
// daemon.
const DfxMgrBinary = "dfx-mgr-client"

// DfxMgr invokes dfx-mgr-client subcommands and returns their raw
// stdout. Outputs are opaque to the daemon and passed through to the
// caller unmodified.
type DfxMgr struct {
	binary string
	log    *slog.Logger
}

// NewDfxMgr creates a pass-through for the default client binary.
func NewDfxMgr() *DfxMgr {
	return &DfxMgr{binary: DfxMgrBinary, log: slog.Default()}
}

// SetBinary overrides the client binary path, for tests.
func (m *DfxMgr) SetBinary(path string) { m.binary = path }

// ListPackages lists locally available accelerator packages.
func (m *DfxMgr) ListPackages(ctx context.Context) (string, error) {
	return m.run(ctx, "-listPackage")
}

// Load programs the named accelerator package.
func (m *DfxMgr) Load(ctx context.Context, accelName string) (string, error) {
	return m.run(ctx, "-load", accelName)
}

// Remove unloads the accelerator programmed into slot.
func (m *DfxMgr) Remove(ctx context.Context, slot uint32) (string, error) {
	return m.run(ctx, "-remove", fmt.Sprint(slot))
}

// ListUIO lists accelerator UIO devices, optionally filtered by name
// and slot.
func (m *DfxMgr) ListUIO(ctx context.Context, slot *uint32, uioName string) (string, error) {
	args := []string{"-listUIO"}
	if uioName != "" {
		args = append(args, uioName)
	}
	if slot != nil {
		args = append(args, fmt.Sprint(*slot))
	}
	return m.run(ctx, args...)
}

// ListIRBuf lists inter-RM buffer info, optionally for one slot.
func (m *DfxMgr) ListIRBuf(ctx context.Context, slot *uint32) (string, error) {
	args := []string{"-listIRbuf"}
	if slot != nil {
		args = append(args, fmt.Sprint(*slot))
	}
	return m.run(ctx, args...)
}

// SetIRBuf routes the RM stream from slot a to slot b.
func (m *DfxMgr) SetIRBuf(ctx context.Context, a, b uint32) (string, error) {
	return m.run(ctx, "-setIRbuf", fmt.Sprintf("%d,%d", a, b))
}

// AllocBuffer allocates a DMA buffer of size bytes and reports its fd
// and physical address.
func (m *DfxMgr) AllocBuffer(ctx context.Context, size uint64) (string, error) {
	return m.run(ctx, "-allocBuffer", fmt.Sprint(size))
}

// FreeBuffer frees the buffer at physical address pa.
func (m *DfxMgr) FreeBuffer(ctx context.Context, pa uint64) (string, error) {
	return m.run(ctx, "-freeBuffer", fmt.Sprint(pa))
}

// GetFDs requests the IP device fds for slot.
func (m *DfxMgr) GetFDs(ctx context.Context, slot uint32) (string, error) {
	return m.run(ctx, "-getFDs", fmt.Sprint(slot))
}

// GetRMInfo reports reconfigurable-module info.
func (m *DfxMgr) GetRMInfo(ctx context.Context) (string, error) {
	return m.run(ctx, "-getRMInfo")
}

// GetShellFD requests the shell fd.
func (m *DfxMgr) GetShellFD(ctx context.Context) (string, error) {
	return m.run(ctx, "-getShellFD")
}

// GetClockFD requests the clock fd.
func (m *DfxMgr) GetClockFD(ctx context.Context) (string, error) {
	return m.run(ctx, "-getClockFD")
}

func (m *DfxMgr) run(ctx context.Context, args ...string) (string, error) {
	m.log.Debug("running vendor tool", "binary", m.binary, "args", args)
	cmd := exec.CommandContext(ctx, m.binary, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fpgaerr.VendorTool(fmt.Errorf("%s: %s", m.binary, msg))
	}
	return string(out), nil
}
