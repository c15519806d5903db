package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Boot describes firmware to load when the daemon starts. All fields
// are optional; a bitstream load needs DeviceHandle+Bitstream, an
// overlay apply needs DeviceHandle+Overlay+OverlayHandle.
type Boot struct {
	// DeviceHandle is the target device (e.g. "fpga0").
	DeviceHandle string `yaml:"device_handle"`

	// Flags, when set, is written to the device before loading.
	Flags *uint32 `yaml:"flags"`

	// Bitstream is the absolute path of a default bitstream.
	Bitstream string `yaml:"bitstream"`

	// BitstreamDigest is an optional hex BLAKE2b-256 digest the default
	// bitstream must match before it is loaded.
	BitstreamDigest string `yaml:"bitstream_digest"`

	// Overlay is the absolute path of a default device-tree overlay.
	Overlay string `yaml:"overlay"`

	// OverlayHandle names the configfs directory for the default
	// overlay.
	OverlayHandle string `yaml:"overlay_handle"`

	// LookupPath overrides the firmware search-path prefix for the
	// boot loads. Empty means "parent directory of the source".
	LookupPath string `yaml:"lookup_path"`
}

func (b Boot) withDefaults(def Boot) Boot {
	if b.DeviceHandle == "" {
		b.DeviceHandle = def.DeviceHandle
	}
	if b.Flags == nil {
		b.Flags = def.Flags
	}
	if b.Bitstream == "" {
		b.Bitstream = def.Bitstream
	}
	if b.BitstreamDigest == "" {
		b.BitstreamDigest = def.BitstreamDigest
	}
	if b.Overlay == "" {
		b.Overlay = def.Overlay
	}
	if b.OverlayHandle == "" {
		b.OverlayHandle = def.OverlayHandle
	}
	if b.LookupPath == "" {
		b.LookupPath = def.LookupPath
	}
	return b
}

// Listen describes the RPC endpoints.
type Listen struct {
	// SocketPath is the unix socket the daemon serves on.
	SocketPath string `yaml:"socket_path"`

	// TCPAddress, when set, additionally serves the RPC protocol on a
	// TCP listener (e.g. ":9332") for remote administration.
	TCPAddress string `yaml:"tcp_address"`

	// Announce advertises the TCP endpoint over mDNS when true.
	Announce bool `yaml:"announce"`

	// InstanceName is the mDNS instance name. Defaults to the host
	// name.
	InstanceName string `yaml:"instance_name"`
}

func (l Listen) withDefaults(def Listen) Listen {
	if l.SocketPath == "" {
		l.SocketPath = def.SocketPath
	}
	if l.TCPAddress == "" {
		l.TCPAddress = def.TCPAddress
	}
	if !l.Announce {
		l.Announce = def.Announce
	}
	if l.InstanceName == "" {
		l.InstanceName = def.InstanceName
	}
	return l
}

// File is the on-disk daemon configuration.
type File struct {
	Paths  Paths  `yaml:"paths"`
	Boot   Boot   `yaml:"boot"`
	Listen Listen `yaml:"listen"`

	// PlatformDefsDir contains vendor platform definition files
	// (*.yaml), each contributing a registry signature.
	PlatformDefsDir string `yaml:"platform_definitions_dir"`

	// JournalPath, when set, enables the CBOR operations journal at
	// the given file.
	JournalPath string `yaml:"journal_path"`
}

// Default returns the built-in configuration.
func Default() File {
	return File{
		Paths:  DefaultPaths(),
		Listen: Listen{SocketPath: DefaultSocketPath},
	}
}

// Merge layers f over base: empty fields in f are filled from base.
func (f File) Merge(base File) File {
	f.Paths = f.Paths.withDefaults(base.Paths)
	f.Boot = f.Boot.withDefaults(base.Boot)
	f.Listen = f.Listen.withDefaults(base.Listen)
	if f.PlatformDefsDir == "" {
		f.PlatformDefsDir = base.PlatformDefsDir
	}
	if f.JournalPath == "" {
		f.JournalPath = base.JournalPath
	}
	return f
}

// Load reads a single configuration file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return f, nil
}

// LoadLayered builds the effective configuration from the built-in
// defaults, the vendor file and the user file, in that precedence
// order. Missing files are skipped; malformed files are an error.
func LoadLayered(vendorPath, userPath string) (File, error) {
	eff := Default()
	for _, p := range []string{vendorPath, userPath} {
		if p == "" {
			continue
		}
		f, err := Load(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return File{}, err
		}
		eff = f.Merge(eff)
	}
	return eff, nil
}
