package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnitType holds static data for one vehicle kind.
type UnitType struct {
	Name       string    `yaml:"name"`
	Strength   int       `yaml:"strength"`
	Speed      int32     `yaml:"speed"` // leptons per tick
	Armor      ArmorKind `yaml:"armor"`
	Primary    string    `yaml:"primary,omitempty"`
	MaxAmmo    int       `yaml:"max_ammo"` // -1 = unlimited
	Harvester  bool      `yaml:"harvester,omitempty"`
	OreLoad    int       `yaml:"ore_load,omitempty"` // full harvester capacity (credits)
	Passengers int       `yaml:"passengers,omitempty"`
	Cloakable  bool      `yaml:"cloakable,omitempty"`
	Crusher    bool      `yaml:"crusher,omitempty"`
	Sight      int32     `yaml:"sight"`
	Cost       int       `yaml:"cost,omitempty"` // production credits
}

type unitListFile struct {
	Units []UnitType `yaml:"units"`
}

// UnitTable holds all vehicle kinds indexed by name.
type UnitTable struct {
	types map[string]*UnitType
}

// LoadUnitTable loads vehicle definitions from a YAML file.
func LoadUnitTable(path string) (*UnitTable, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit list: %w", err)
	}
	return ParseUnitTable(data)
}

// ParseUnitTable parses vehicle definitions from YAML bytes.
func ParseUnitTable(data []byte) (*UnitTable, error) {
	var f unitListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse unit list: %w", err)
	}
	t := &UnitTable{types: make(map[string]*UnitType, len(f.Units))}
	for i := range f.Units {
		ut := &f.Units[i]
		if ut.MaxAmmo == 0 {
			ut.MaxAmmo = -1
		}
		t.types[ut.Name] = ut
	}
	return t, nil
}

// Get returns a vehicle kind by name, or nil if not found.
func (t *UnitTable) Get(name string) *UnitType {
	return t.types[name]
}

// Count returns the number of loaded vehicle kinds.
func (t *UnitTable) Count() int {
	return len(t.types)
}
