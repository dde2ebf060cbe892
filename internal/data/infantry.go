package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// InfantryType holds static data for one infantry kind.
type InfantryType struct {
	Name     string    `yaml:"name"`
	Strength int       `yaml:"strength"`
	Speed    int32     `yaml:"speed"` // leptons per tick
	Armor    ArmorKind `yaml:"armor"`
	Primary  string    `yaml:"primary,omitempty"` // weapon name, empty = unarmed
	Engineer bool      `yaml:"engineer,omitempty"`
	Fearless bool      `yaml:"fearless,omitempty"`
	Sight    int32     `yaml:"sight"` // leptons
	Cost     int       `yaml:"cost,omitempty"` // production credits
}

type infantryListFile struct {
	Infantry []InfantryType `yaml:"infantry"`
}

// InfantryTable holds all infantry kinds indexed by name.
type InfantryTable struct {
	types map[string]*InfantryType
}

// LoadInfantryTable loads infantry definitions from a YAML file.
func LoadInfantryTable(path string) (*InfantryTable, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read infantry list: %w", err)
	}
	return ParseInfantryTable(data)
}

// ParseInfantryTable parses infantry definitions from YAML bytes.
func ParseInfantryTable(data []byte) (*InfantryTable, error) {
	var f infantryListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse infantry list: %w", err)
	}
	t := &InfantryTable{types: make(map[string]*InfantryType, len(f.Infantry))}
	for i := range f.Infantry {
		it := &f.Infantry[i]
		t.types[it.Name] = it
	}
	return t, nil
}

// Get returns an infantry kind by name, or nil if not found.
func (t *InfantryTable) Get(name string) *InfantryType {
	return t.types[name]
}

// Count returns the number of loaded infantry kinds.
func (t *InfantryTable) Count() int {
	return len(t.types)
}
