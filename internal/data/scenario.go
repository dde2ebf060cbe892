package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ScenarioHouse describes one faction in a scenario.
type ScenarioHouse struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Credits int    `yaml:"credits"`
	Human   bool   `yaml:"human,omitempty"`
	Allies  []int  `yaml:"allies,omitempty"`
}

// ScenarioSpawn places one entity at scenario start.
type ScenarioSpawn struct {
	House   int    `yaml:"house"`
	Kind    string `yaml:"kind"` // "building", "infantry", "unit", "aircraft"
	Type    string `yaml:"type"` // name in the matching rules table
	CellX   int    `yaml:"cell_x"`
	CellY   int    `yaml:"cell_y"`
	Mission string `yaml:"mission,omitempty"` // initial mission, default guard
}

// ScenarioOre seeds one ore-bearing cell.
type ScenarioOre struct {
	CellX  int `yaml:"cell_x"`
	CellY  int `yaml:"cell_y"`
	Amount int `yaml:"amount"`
}

// Scenario is a start setup: factions, initial placements, and the ore layer.
type Scenario struct {
	Name   string          `yaml:"name"`
	Houses []ScenarioHouse `yaml:"houses"`
	Spawns []ScenarioSpawn `yaml:"spawns"`
	Ore    []ScenarioOre   `yaml:"ore,omitempty"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses a scenario from YAML bytes.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(s.Houses) == 0 {
		return nil, fmt.Errorf("scenario %q: no houses defined", s.Name)
	}
	houses := make(map[int]bool, len(s.Houses))
	for _, h := range s.Houses {
		houses[h.ID] = true
	}
	for _, sp := range s.Spawns {
		if !houses[sp.House] {
			return nil, fmt.Errorf("scenario %q: spawn references unknown house %d", s.Name, sp.House)
		}
	}
	return &s, nil
}
