package world

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlCountryFile is the top-level YAML structure for country files.
type yamlCountryFile struct {
	Country yamlCountry `yaml:"country"`
}

type yamlCountry struct {
	ID     string     `yaml:"id"`
	Name   string     `yaml:"name"`
	Cities []yamlCity `yaml:"cities"`
}

type yamlCity struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Population  int    `yaml:"population"`
}

// LoadCountryFromFile reads and validates a single country YAML file.
//
// Precondition: path must point to a valid YAML country file.
// Postcondition: Returns a validated Country or a non-nil error.
func LoadCountryFromFile(path string) (*Country, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading country file %s: %w", path, err)
	}
	return LoadCountryFromBytes(data)
}

// LoadCountryFromBytes parses and validates a country from YAML bytes.
// Unknown keys are rejected.
func LoadCountryFromBytes(data []byte) (*Country, error) {
	var file yamlCountryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing country YAML: %w", err)
	}

	country := convertYAMLCountry(file.Country)
	if err := country.Validate(); err != nil {
		return nil, fmt.Errorf("validating country: %w", err)
	}
	return country, nil
}

// LoadCountriesFromDir loads all YAML files in a directory as countries.
//
// Postcondition: Returns all validated countries or the first error encountered.
func LoadCountriesFromDir(dir string) ([]*Country, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading world directory %s: %w", dir, err)
	}

	var countries []*Country
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		c, err := LoadCountryFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading country from %s: %w", name, err)
		}
		countries = append(countries, c)
	}

	if len(countries) == 0 {
		return nil, fmt.Errorf("no country files found in %s", dir)
	}
	return countries, nil
}

func convertYAMLCountry(yc yamlCountry) *Country {
	c := &Country{
		ID:     yc.ID,
		Name:   yc.Name,
		Cities: make(map[string]*City, len(yc.Cities)),
	}
	for _, ycity := range yc.Cities {
		c.Cities[ycity.ID] = &City{
			ID:          ycity.ID,
			CountryID:   yc.ID,
			Name:        ycity.Name,
			Description: strings.TrimSpace(ycity.Description),
			Population:  ycity.Population,
		}
	}
	return c
}
