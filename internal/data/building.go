package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// BuildingType holds static data for one structure kind.
type BuildingType struct {
	Name       string    `yaml:"name"`
	Strength   int       `yaml:"strength"`
	Armor      ArmorKind `yaml:"armor"`
	Primary    string    `yaml:"primary,omitempty"` // turret weapon, empty = unarmed
	Power      int       `yaml:"power,omitempty"`   // watts produced
	Drain      int       `yaml:"drain,omitempty"`   // watts consumed
	Storage    int       `yaml:"storage,omitempty"` // ore credits held
	Refinery   bool      `yaml:"refinery,omitempty"`
	Factory    string    `yaml:"factory,omitempty"` // kind produced: "infantry", "unit", "aircraft", "building"
	Helipad    bool      `yaml:"helipad,omitempty"`
	Capturable bool      `yaml:"capturable,omitempty"`
	BuildTime  int       `yaml:"build_time"` // construction ticks
	Sight      int32     `yaml:"sight"`
	Cost       int       `yaml:"cost,omitempty"` // placement credits
}

type buildingListFile struct {
	Buildings []BuildingType `yaml:"buildings"`
}

// BuildingTable holds all structure kinds indexed by name.
type BuildingTable struct {
	types map[string]*BuildingType
}

// LoadBuildingTable loads structure definitions from a YAML file.
func LoadBuildingTable(path string) (*BuildingTable, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read building list: %w", err)
	}
	return ParseBuildingTable(data)
}

// ParseBuildingTable parses structure definitions from YAML bytes.
func ParseBuildingTable(data []byte) (*BuildingTable, error) {
	var f buildingListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse building list: %w", err)
	}
	t := &BuildingTable{types: make(map[string]*BuildingType, len(f.Buildings))}
	for i := range f.Buildings {
		bt := &f.Buildings[i]
		if bt.BuildTime <= 0 {
			bt.BuildTime = 1
		}
		t.types[bt.Name] = bt
	}
	return t, nil
}

// Get returns a structure kind by name, or nil if not found.
func (t *BuildingTable) Get(name string) *BuildingType {
	return t.types[name]
}

// Count returns the number of loaded structure kinds.
func (t *BuildingTable) Count() int {
	return len(t.types)
}
