package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PlatformDef is a vendor platform definition loaded from a YAML file.
// Each definition contributes one registry signature; the named base
// selects which built-in component set backs it ("universal" when
// empty).
type PlatformDef struct {
	// Name identifies the definition in logs.
	Name string `yaml:"name"`

	// Signature is the comma-separated compatibility token set.
	Signature string `yaml:"signature"`

	// Base names the built-in component set ("universal" or "xilinx").
	Base string `yaml:"base"`
}

// LoadPlatformDefs loads every *.yaml / *.yml file in dir. A missing
// dir is not an error; there simply are no vendor definitions.
func LoadPlatformDefs(dir string) ([]PlatformDef, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading platform definitions dir %s: %w", dir, err)
	}
	var defs []PlatformDef
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		p := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading platform definition %s: %w", p, err)
		}
		var def PlatformDef
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("parsing platform definition %s: %w", p, err)
		}
		if def.Signature == "" {
			return nil, fmt.Errorf("platform definition %s has no signature", p)
		}
		defs = append(defs, def)
	}
	return defs, nil
}
