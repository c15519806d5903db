package universal

import (
	"strings"
	"testing"

	"github.com/fpgad-project/fpgad-go/internal/fstest"
	"github.com/fpgad-project/fpgad-go/pkg/config"
	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
	"github.com/fpgad-project/fpgad-go/pkg/sysfs"
)

func TestOverlayApply(t *testing.T) {
	tree, io := newDeviceTree(t)
	h := NewOverlayHandler(io, tree.Paths, "ov0")

	if err := h.Apply("a/board.dtbo"); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	pathNode, _ := tree.FS.Contents(tree.Paths.OverlayNode("ov0", "path"))
	if strings.TrimRight(pathNode, "\n") != "a/board.dtbo" {
		t.Errorf("path node = %q", pathNode)
	}
	status, err := h.Status()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(status, "applied") || !strings.Contains(status, "a/board.dtbo") {
		t.Errorf("Status = %q, want path and applied status", status)
	}
}

func TestInstantiateExisting(t *testing.T) {
	tree, io := newDeviceTree(t)
	h := NewOverlayHandler(io, tree.Paths, "ov0")
	if err := h.Instantiate(); err != nil {
		t.Fatal(err)
	}

	err := h.Instantiate()
	if err == nil {
		t.Fatal("second Instantiate succeeded")
	}
	if kind := fpgaerr.KindOf(err); kind != fpgaerr.KindArgument {
		t.Errorf("error kind = %v, want KindArgument", kind)
	}
	// The existing overlay must be left alone.
	if !tree.FS.Exists(tree.Paths.OverlayNode("ov0", "path")) {
		t.Error("existing overlay directory was disturbed")
	}
}

func TestInstantiateUnmountedConfigfs(t *testing.T) {
	tree, io := newDeviceTree(t)
	tree.PopulateOverlayNodes = false

	err := NewOverlayHandler(io, tree.Paths, "ov0").Instantiate()
	if err == nil {
		t.Fatal("Instantiate succeeded without configfs populating the directory")
	}
	if kind := fpgaerr.KindOf(err); kind != fpgaerr.KindInternal {
		t.Errorf("error kind = %v, want KindInternal", kind)
	}
}

func TestVerifyApplied(t *testing.T) {
	tests := []struct {
		name     string
		pathNode string
		status   string
		suffix   string
		wantErr  bool
	}{
		{"exact match", "a/b.dtbo", "applied", "a/b.dtbo", false},
		{"kernel prepends search path", "/lib/firmware/a/b.dtbo", "applied", "a/b.dtbo", false},
		{"component boundary respected", "xa/b.dtbo", "applied", "a/b.dtbo", true},
		{"wrong file", "a/other.dtbo", "applied", "a/b.dtbo", true},
		{"not applied", "a/b.dtbo", "unapplied", "a/b.dtbo", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, io := newDeviceTree(t)
			tree.FS.SetFile(tree.Paths.OverlayNode("ov0", "path"), tt.pathNode+"\n")
			tree.FS.SetFile(tree.Paths.OverlayNode("ov0", "status"), tt.status+"\n")

			err := NewOverlayHandler(io, tree.Paths, "ov0").VerifyApplied(tt.suffix)
			if tt.wantErr {
				if err == nil {
					t.Fatal("VerifyApplied succeeded, want error")
				}
				if kind := fpgaerr.KindOf(err); kind != fpgaerr.KindOverlayVerification {
					t.Errorf("error kind = %v, want KindOverlayVerification", kind)
				}
			} else if err != nil {
				t.Errorf("VerifyApplied failed: %v", err)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	tree, io := newDeviceTree(t)
	tree.PopulateOverlayNodes = false
	tree.FS.SetDir(tree.Paths.OverlayPath("ov0"))

	h := NewOverlayHandler(io, tree.Paths, "ov0")
	if err := h.Remove(); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if tree.FS.Exists(tree.Paths.OverlayPath("ov0")) {
		t.Error("overlay directory still present after Remove")
	}
}

func TestRemoveAbsent(t *testing.T) {
	tree, io := newDeviceTree(t)
	err := NewOverlayHandler(io, tree.Paths, "ghost").Remove()
	if err == nil {
		t.Fatal("Remove of absent overlay succeeded")
	}
	if kind := fpgaerr.KindOf(err); kind != fpgaerr.KindIODelete {
		t.Errorf("error kind = %v, want KindIODelete", kind)
	}
}

func TestStatusNotPresent(t *testing.T) {
	tree, io := newDeviceTree(t)
	status, err := NewOverlayHandler(io, tree.Paths, "ghost").Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status != StatusNotPresent {
		t.Errorf("Status = %q, want %q", status, StatusNotPresent)
	}
}

func TestPlatformCachesComponents(t *testing.T) {
	tree := fstest.NewTree(config.DefaultPaths())
	io := sysfs.NewWithFS(tree.FS)
	tree.AddDevice("fpga0", "acme,board", "operating", "0")

	p := New(io, tree.Paths)
	if p.Type() != TypeName {
		t.Errorf("Type = %q, want %q", p.Type(), TypeName)
	}
	d1, err := p.Device("fpga0")
	if err != nil {
		t.Fatal(err)
	}
	d2, _ := p.Device("fpga0")
	if d1 != d2 {
		t.Error("Device not cached across calls")
	}
	h1, err := p.OverlayHandler("ov0")
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := p.OverlayHandler("ov0")
	if h1 != h2 {
		t.Error("OverlayHandler not cached across calls")
	}
	flags, err := h1.RequiredFlags()
	if err != nil || flags != 0 {
		t.Errorf("RequiredFlags = (%d, %v), want (0, nil)", flags, err)
	}
}

func TestPlatformOverlayHandlerUnmountedTree(t *testing.T) {
	fs := fstest.New()
	io := sysfs.NewWithFS(fs)

	_, err := New(io, config.DefaultPaths()).OverlayHandler("ov0")
	if err == nil {
		t.Fatal("OverlayHandler succeeded with no overlay control tree")
	}
	if kind := fpgaerr.KindOf(err); kind != fpgaerr.KindArgument {
		t.Errorf("error kind = %v, want KindArgument", kind)
	}
}
