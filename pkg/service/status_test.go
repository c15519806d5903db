package service

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
)

func TestGetFpgaState(t *testing.T) {
	svc, tree := newTestServices(t)
	tree.AddDevice("fpga0", "acme,board", "operating", "0")

	state, err := svc.Status.GetFpgaState("universal", "fpga0")
	if err != nil {
		t.Fatalf("GetFpgaState failed: %v", err)
	}
	if state != "operating" {
		t.Errorf("state = %q", state)
	}
}

func TestGetFpgaFlagsDecimal(t *testing.T) {
	svc, tree := newTestServices(t)
	tree.AddDevice("fpga0", "acme,board", "operating", "0x20")

	// The node holds hex; the query reports decimal.
	flags, err := svc.Status.GetFpgaFlags("universal", "fpga0")
	if err != nil {
		t.Fatalf("GetFpgaFlags failed: %v", err)
	}
	if flags != "32" {
		t.Errorf("flags = %q, want %q", flags, "32")
	}
}

func TestGetOverlayStatus(t *testing.T) {
	svc, _ := newTestServices(t)
	if _, err := svc.Control.ApplyOverlay("universal", "ov0", "/srv/overlays/board.dtbo", ""); err != nil {
		t.Fatal(err)
	}

	status, err := svc.Status.GetOverlayStatus("universal", "ov0")
	if err != nil {
		t.Fatalf("GetOverlayStatus failed: %v", err)
	}
	if !strings.Contains(status, "applied") || !strings.Contains(status, "board.dtbo") {
		t.Errorf("status = %q", status)
	}

	status, err = svc.Status.GetOverlayStatus("universal", "ghost")
	if err != nil {
		t.Fatal(err)
	}
	if status != "not present" {
		t.Errorf("status for absent overlay = %q, want %q", status, "not present")
	}
}

func TestGetOverlayStatusEmptyHandle(t *testing.T) {
	svc, _ := newTestServices(t)
	_, err := svc.Status.GetOverlayStatus("universal", "")
	if err == nil {
		t.Fatal("empty overlay handle accepted")
	}
	if kind := fpgaerr.KindOf(err); kind != fpgaerr.KindArgument {
		t.Errorf("error kind = %v, want KindArgument", kind)
	}
}

func TestGetOverlays(t *testing.T) {
	svc, _ := newTestServices(t)

	out, err := svc.Status.GetOverlays()
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("GetOverlays on empty tree = %q", out)
	}

	for _, h := range []string{"ov0", "full"} {
		if _, err := svc.Control.ApplyOverlay("universal", h, "/srv/overlays/"+h+".dtbo", ""); err != nil {
			t.Fatal(err)
		}
	}
	out, err = svc.Status.GetOverlays()
	if err != nil {
		t.Fatal(err)
	}
	if out != "full\nov0" {
		t.Errorf("GetOverlays = %q, want %q", out, "full\nov0")
	}
}

func TestGetPlatformType(t *testing.T) {
	svc, tree := newTestServices(t)
	tree.AddDevice("fpga0", "xlnx,zynqmp-pcap-fpga", "operating", "0")

	sig, err := svc.Status.GetPlatformType("fpga0")
	if err != nil {
		t.Fatalf("GetPlatformType failed: %v", err)
	}
	if sig != "xlnx,zynqmp-pcap-fpga" {
		t.Errorf("signature = %q", sig)
	}
}

func TestGetPlatformTypes(t *testing.T) {
	svc, tree := newTestServices(t)
	tree.AddDevice("fpga0", "xlnx,zynqmp-pcap-fpga", "operating", "0")
	tree.AddDevice("fpga1", "acme,board", "operating", "0")

	out, err := svc.Status.GetPlatformTypes()
	if err != nil {
		t.Fatalf("GetPlatformTypes failed: %v", err)
	}
	want := "fpga0:xlnx,zynqmp-pcap-fpga\nfpga1:acme,board\n"
	if out != want {
		t.Errorf("GetPlatformTypes = %q, want %q", out, want)
	}
}

func TestGetPlatformTypesUnreadableSignature(t *testing.T) {
	svc, tree := newTestServices(t)
	tree.AddDevice("fpga0", "acme,board", "operating", "0")
	tree.AddDevice("fpga1", "acme,board", "operating", "0")
	tree.FS.FailRead(tree.Paths.CompatNode("fpga1"), &fs.PathError{
		Op: "open", Path: tree.Paths.CompatNode("fpga1"), Err: errors.New("device gone"),
	})

	// One broken device must not hide the others.
	out, err := svc.Status.GetPlatformTypes()
	if err != nil {
		t.Fatalf("GetPlatformTypes failed: %v", err)
	}
	want := "fpga0:acme,board\nfpga1:\n"
	if out != want {
		t.Errorf("GetPlatformTypes = %q, want %q", out, want)
	}
}

func TestReadProperty(t *testing.T) {
	svc, tree := newTestServices(t)
	tree.AddDevice("fpga0", "acme,board", "operating", "0")

	got, err := svc.Status.ReadProperty(tree.Paths.DeviceNode("fpga0", "state"))
	if err != nil {
		t.Fatalf("ReadProperty failed: %v", err)
	}
	if got != "operating\n" {
		t.Errorf("ReadProperty = %q", got)
	}
}

func TestReadPropertyOverlayTree(t *testing.T) {
	svc, tree := newTestServices(t)
	if _, err := svc.Control.ApplyOverlay("universal", "ov0", "/srv/overlays/board.dtbo", ""); err != nil {
		t.Fatal(err)
	}

	got, err := svc.Status.ReadProperty(tree.Paths.OverlayNode("ov0", "status"))
	if err != nil {
		t.Fatalf("ReadProperty under overlay tree failed: %v", err)
	}
	if !strings.Contains(got, "applied") {
		t.Errorf("ReadProperty = %q", got)
	}
}

func TestReadPropertyOutsideTrees(t *testing.T) {
	svc, _ := newTestServices(t)
	_, err := svc.Status.ReadProperty("/etc/passwd")
	if err == nil {
		t.Fatal("ReadProperty outside the managed trees succeeded")
	}
	if kind := fpgaerr.KindOf(err); kind != fpgaerr.KindArgument {
		t.Errorf("error kind = %v, want KindArgument", kind)
	}
}
