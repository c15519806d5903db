package boot

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/blake2b"

	"github.com/fpgad-project/fpgad-go/internal/fstest"
	"github.com/fpgad-project/fpgad-go/pkg/config"
	"github.com/fpgad-project/fpgad-go/pkg/platform"
	"github.com/fpgad-project/fpgad-go/pkg/platform/universal"
	"github.com/fpgad-project/fpgad-go/pkg/platform/xilinx"
	"github.com/fpgad-project/fpgad-go/pkg/service"
	"github.com/fpgad-project/fpgad-go/pkg/sysfs"
)

func newBootStack(t *testing.T) (*service.Services, *fstest.Tree) {
	t.Helper()
	paths := config.DefaultPaths()
	tree := fstest.NewTree(paths)
	io := sysfs.NewWithFS(tree.FS)
	reg := platform.NewRegistry(io, paths)
	xilinx.Register(reg, io, paths)
	universal.Register(reg, io, paths)
	return service.New(io, paths, reg), tree
}

func TestApplyNothingConfigured(t *testing.T) {
	svc, tree := newBootStack(t)
	Apply(config.Boot{}, svc.Control, nil)
	if got := tree.SearchPath(); got != "" {
		t.Errorf("search path register touched: %q", got)
	}
}

func TestApplyFlagsAndBitstream(t *testing.T) {
	svc, tree := newBootStack(t)
	tree.AddDevice("fpga0", "acme,board", "power off", "0")

	flags := uint32(0x20)
	Apply(config.Boot{
		DeviceHandle: "fpga0",
		Flags:        &flags,
		Bitstream:    "/lib/firmware/boot/default.bit",
	}, svc.Control, nil)

	node, _ := tree.FS.Contents(tree.Paths.DeviceNode("fpga0", "flags"))
	if node != "0x20" {
		t.Errorf("flags node = %q", node)
	}
	fw, _ := tree.FS.Contents(tree.Paths.DeviceNode("fpga0", "firmware"))
	if fw != "default.bit" {
		t.Errorf("firmware node = %q", fw)
	}
	if got := tree.SearchPath(); got != "/lib/firmware/boot" {
		t.Errorf("search path = %q", got)
	}
}

func TestApplyBitstreamDigestMismatchSkipsLoad(t *testing.T) {
	svc, tree := newBootStack(t)
	tree.AddDevice("fpga0", "acme,board", "power off", "0")

	p := filepath.Join(t.TempDir(), "default.bit")
	if err := os.WriteFile(p, []byte("bitstream contents"), 0o644); err != nil {
		t.Fatal(err)
	}
	wrong := blake2b.Sum256([]byte("something else"))

	Apply(config.Boot{
		DeviceHandle:    "fpga0",
		Bitstream:       p,
		BitstreamDigest: hex.EncodeToString(wrong[:]),
	}, svc.Control, nil)

	fw, _ := tree.FS.Contents(tree.Paths.DeviceNode("fpga0", "firmware"))
	if fw != "" {
		t.Errorf("firmware node = %q, digest mismatch must abort the load", fw)
	}
}

func TestApplyBitstreamDigestMatch(t *testing.T) {
	svc, tree := newBootStack(t)
	tree.AddDevice("fpga0", "acme,board", "power off", "0")

	data := []byte("bitstream contents")
	p := filepath.Join(t.TempDir(), "default.bit")
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	sum := blake2b.Sum256(data)

	Apply(config.Boot{
		DeviceHandle:    "fpga0",
		Bitstream:       p,
		BitstreamDigest: hex.EncodeToString(sum[:]),
	}, svc.Control, nil)

	fw, _ := tree.FS.Contents(tree.Paths.DeviceNode("fpga0", "firmware"))
	if fw != "default.bit" {
		t.Errorf("firmware node = %q, matching digest should load", fw)
	}
}

func TestApplyOverlayWithDevicePlatform(t *testing.T) {
	svc, tree := newBootStack(t)
	tree.AddDevice("fpga0", "xlnx,zynqmp-pcap-fpga", "operating", "0")

	Apply(config.Boot{
		DeviceHandle:  "fpga0",
		Overlay:       "/srv/overlays/base.dtbo",
		OverlayHandle: "base",
	}, svc.Control, nil)

	status, _ := tree.FS.Contents(tree.Paths.OverlayNode("base", "status"))
	if !strings.Contains(status, "applied") {
		t.Errorf("overlay status = %q", status)
	}
}

func TestApplyOverlayOnlyDefaultsHandle(t *testing.T) {
	svc, tree := newBootStack(t)

	// No device configured: the overlay goes through the universal
	// platform under the default handle.
	Apply(config.Boot{Overlay: "/srv/overlays/base.dtbo"}, svc.Control, nil)

	status, _ := tree.FS.Contents(tree.Paths.OverlayNode("boot", "status"))
	if !strings.Contains(status, "applied") {
		t.Errorf("overlay status = %q", status)
	}
}

func TestApplyFailureDoesNotPanic(t *testing.T) {
	svc, _ := newBootStack(t)
	// Absent device: every step fails, none may escape as a panic.
	flags := uint32(1)
	Apply(config.Boot{
		DeviceHandle: "fpga9",
		Flags:        &flags,
		Bitstream:    "/lib/firmware/x.bit",
		Overlay:      "/srv/overlays/x.dtbo",
	}, svc.Control, nil)
}
