package firmware

import (
	"testing"

	"github.com/fpgad-project/fpgad-go/internal/fstest"
	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
	"github.com/fpgad-project/fpgad-go/pkg/sysfs"
)

const registerPath = "/sys/module/firmware_class/parameters/path"

func TestSearchPathSet(t *testing.T) {
	fs := fstest.New()
	fs.SetFile(registerPath, "")

	sp := NewSearchPath(sysfs.NewWithFS(fs), registerPath)
	if err := sp.Set("/lib/firmware"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, _ := fs.Contents(registerPath)
	if got != "/lib/firmware" {
		t.Errorf("register = %q, want %q", got, "/lib/firmware")
	}

	// Later writes replace the register wholesale.
	if err := sp.Set("/srv/overlays"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, _ = fs.Contents(registerPath)
	if got != "/srv/overlays" {
		t.Errorf("register = %q, want %q", got, "/srv/overlays")
	}
}

func TestSearchPathSetMissingRegister(t *testing.T) {
	// The module parameter file is created by the kernel; Set never
	// creates it.
	fs := fstest.New()
	sp := NewSearchPath(sysfs.NewWithFS(fs), registerPath)

	err := sp.Set("/lib/firmware")
	if err == nil {
		t.Fatal("Set succeeded with no register file")
	}
	if kind := fpgaerr.KindOf(err); kind != fpgaerr.KindIOWrite {
		t.Errorf("error kind = %v, want KindIOWrite", kind)
	}
}
