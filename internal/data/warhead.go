package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ArmorKind classifies how a warhead's damage is scaled against a target.
type ArmorKind uint8

const (
	ArmorNone ArmorKind = iota
	ArmorWood
	ArmorAluminum
	ArmorSteel
	ArmorConcrete
	armorCount
)

var armorNames = map[string]ArmorKind{
	"none":     ArmorNone,
	"wood":     ArmorWood,
	"aluminum": ArmorAluminum,
	"steel":    ArmorSteel,
	"concrete": ArmorConcrete,
}

func (a ArmorKind) String() string {
	for name, k := range armorNames {
		if k == a {
			return name
		}
	}
	return "none"
}

// UnmarshalYAML decodes an armor class from its name.
func (a *ArmorKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	k, ok := armorNames[s]
	if !ok {
		return fmt.Errorf("unknown armor class %q", s)
	}
	*a = k
	return nil
}

// WarheadType holds the damage scaling table for one warhead.
type WarheadType struct {
	Name   string `yaml:"name"`
	Spread int32  `yaml:"spread"` // leptons per halving step of distance falloff
	// Verses scales raw damage (percent) against each armor class, indexed
	// by ArmorKind: none, wood, aluminum, steel, concrete.
	Verses []int `yaml:"verses"`
}

// ModifyDamage applies the armor scaling percentage. A positive raw amount
// never scales below 1: armor reduces damage, it does not grant immunity.
func (w *WarheadType) ModifyDamage(damage int, armor ArmorKind) int {
	if damage <= 0 {
		return 0
	}
	pct := 100
	if int(armor) < len(w.Verses) {
		pct = w.Verses[armor]
	}
	scaled := damage * pct / 100
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}

// DistanceFalloff halves damage for every full spread step between the
// detonation point and the target.
func (w *WarheadType) DistanceFalloff(damage int, distance int32) int {
	if damage <= 0 {
		return 0
	}
	spread := w.Spread
	if spread <= 0 {
		spread = 1
	}
	for d := distance; d >= spread; d -= spread {
		damage >>= 1
		if damage == 0 {
			return 0
		}
	}
	return damage
}

type warheadListFile struct {
	Warheads []WarheadType `yaml:"warheads"`
}

// WarheadTable holds all warheads indexed by name.
type WarheadTable struct {
	warheads map[string]*WarheadType
}

// LoadWarheadTable loads warhead definitions from a YAML file.
func LoadWarheadTable(path string) (*WarheadTable, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read warhead list: %w", err)
	}
	return ParseWarheadTable(data)
}

// ParseWarheadTable parses warhead definitions from YAML bytes.
func ParseWarheadTable(data []byte) (*WarheadTable, error) {
	var f warheadListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse warhead list: %w", err)
	}
	t := &WarheadTable{warheads: make(map[string]*WarheadType, len(f.Warheads))}
	for i := range f.Warheads {
		w := &f.Warheads[i]
		if len(w.Verses) != int(armorCount) {
			return nil, fmt.Errorf("warhead %q: expected %d verses entries, got %d", w.Name, armorCount, len(w.Verses))
		}
		t.warheads[w.Name] = w
	}
	return t, nil
}

// Get returns a warhead by name, or nil if not found.
func (t *WarheadTable) Get(name string) *WarheadType {
	return t.warheads[name]
}

// Count returns the number of loaded warheads.
func (t *WarheadTable) Count() int {
	return len(t.warheads)
}
