// Package rules loads the tunable mortality and medical tables from YAML,
// falling back to the built-in tables for anything the file omits.
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/lifesim/internal/game/medical"
	"github.com/cory-johannsen/lifesim/internal/game/mortality"
)

// Set is the full rule content used by the aftermath pipeline.
type Set struct {
	Causes mortality.Table
	Care   medical.Catalog
}

// Defaults returns the built-in rules.
func Defaults() Set {
	return Set{Causes: mortality.DefaultCauses(), Care: medical.DefaultCatalog()}
}

type file struct {
	Causes map[string]mortality.CauseInfo `yaml:"death_causes"`
	Care   []medical.Care                 `yaml:"medical_care"`
}

// Parse decodes rule YAML. Causes in the file replace or extend the default
// causes; a non-empty care list replaces the default catalog. Unknown keys
// are rejected.
//
// Postcondition: Returns a validated Set or a non-nil error.
func Parse(data []byte) (Set, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Set{}, fmt.Errorf("parsing rules YAML: %w", err)
	}

	set := Defaults()
	for id, info := range f.Causes {
		set.Causes[mortality.Cause(id)] = info
	}
	if len(f.Care) > 0 {
		set.Care = medical.Catalog(f.Care)
	}
	if err := set.Causes.Validate(); err != nil {
		return Set{}, fmt.Errorf("validating death causes: %w", err)
	}
	if err := set.Care.Validate(); err != nil {
		return Set{}, fmt.Errorf("validating medical care: %w", err)
	}
	return set, nil
}

// Load reads rules from path. An empty path returns Defaults.
func Load(path string) (Set, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("reading rules file %s: %w", path, err)
	}
	return Parse(data)
}
