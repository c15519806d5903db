package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDef(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadPlatformDefs(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "acme.yaml", `
name: acme-k7
signature: acme,kintex7-loader
base: universal
`)
	writeDef(t, dir, "board.yml", `
name: lab-board
signature: acme,lab-board,zynqmp-pcap-fpga
base: xilinx
`)
	writeDef(t, dir, "README.md", "not a definition")

	defs, err := LoadPlatformDefs(dir)
	if err != nil {
		t.Fatalf("LoadPlatformDefs failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("got %d definitions, want 2", len(defs))
	}
	if defs[0].Name != "acme-k7" || defs[0].Signature != "acme,kintex7-loader" || defs[0].Base != "universal" {
		t.Errorf("defs[0] = %+v", defs[0])
	}
	if defs[1].Base != "xilinx" {
		t.Errorf("defs[1].Base = %q, want xilinx", defs[1].Base)
	}
}

func TestLoadPlatformDefsMissingDir(t *testing.T) {
	defs, err := LoadPlatformDefs(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("missing dir should not be an error: %v", err)
	}
	if defs != nil {
		t.Errorf("defs = %v, want nil", defs)
	}
}

func TestLoadPlatformDefsEmptyDirArg(t *testing.T) {
	defs, err := LoadPlatformDefs("")
	if err != nil || defs != nil {
		t.Errorf("LoadPlatformDefs(\"\") = (%v, %v), want (nil, nil)", defs, err)
	}
}

func TestLoadPlatformDefsMissingSignature(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "broken.yaml", "name: nameless\n")
	if _, err := LoadPlatformDefs(dir); err == nil {
		t.Error("definition without signature accepted")
	}
}
