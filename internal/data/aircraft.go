package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// AircraftType holds static data for one aircraft kind.
type AircraftType struct {
	Name     string    `yaml:"name"`
	Strength int       `yaml:"strength"`
	Speed    int32     `yaml:"speed"` // leptons per tick
	Armor    ArmorKind `yaml:"armor"`
	Primary  string    `yaml:"primary,omitempty"`
	MaxAmmo  int       `yaml:"max_ammo"` // -1 = unlimited; reloads while docked
	Sight    int32     `yaml:"sight"`
	Cost     int       `yaml:"cost,omitempty"` // production credits
}

type aircraftListFile struct {
	Aircraft []AircraftType `yaml:"aircraft"`
}

// AircraftTable holds all aircraft kinds indexed by name.
type AircraftTable struct {
	types map[string]*AircraftType
}

// LoadAircraftTable loads aircraft definitions from a YAML file.
func LoadAircraftTable(path string) (*AircraftTable, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aircraft list: %w", err)
	}
	return ParseAircraftTable(data)
}

// ParseAircraftTable parses aircraft definitions from YAML bytes.
func ParseAircraftTable(data []byte) (*AircraftTable, error) {
	var f aircraftListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse aircraft list: %w", err)
	}
	t := &AircraftTable{types: make(map[string]*AircraftType, len(f.Aircraft))}
	for i := range f.Aircraft {
		at := &f.Aircraft[i]
		if at.MaxAmmo == 0 {
			at.MaxAmmo = -1
		}
		t.types[at.Name] = at
	}
	return t, nil
}

// Get returns an aircraft kind by name, or nil if not found.
func (t *AircraftTable) Get(name string) *AircraftType {
	return t.types[name]
}

// Count returns the number of loaded aircraft kinds.
func (t *AircraftTable) Count() int {
	return len(t.types)
}
