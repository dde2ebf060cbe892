package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WeaponType holds static data for one weapon.
type WeaponType struct {
	Name       string `yaml:"name"`
	Damage     int    `yaml:"damage"`
	ROF        int    `yaml:"rof"`   // ticks between shots
	Range      int32  `yaml:"range"` // leptons
	Projectile string `yaml:"projectile"`
	Burst      int    `yaml:"burst,omitempty"`
	MuzzleAnim string `yaml:"muzzle_anim,omitempty"`
}

type weaponListFile struct {
	Weapons []WeaponType `yaml:"weapons"`
}

// WeaponTable holds all weapons indexed by name.
type WeaponTable struct {
	weapons map[string]*WeaponType
}

// LoadWeaponTable loads weapon definitions from a YAML file.
func LoadWeaponTable(path string) (*WeaponTable, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weapon list: %w", err)
	}
	return ParseWeaponTable(data)
}

// ParseWeaponTable parses weapon definitions from YAML bytes.
func ParseWeaponTable(data []byte) (*WeaponTable, error) {
	var f weaponListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse weapon list: %w", err)
	}
	t := &WeaponTable{weapons: make(map[string]*WeaponType, len(f.Weapons))}
	for i := range f.Weapons {
		w := &f.Weapons[i]
		if w.Burst <= 0 {
			w.Burst = 1
		}
		t.weapons[w.Name] = w
	}
	return t, nil
}

// Get returns a weapon by name, or nil if not found.
func (t *WeaponTable) Get(name string) *WeaponType {
	if name == "" {
		return nil
	}
	return t.weapons[name]
}

// Count returns the number of loaded weapons.
func (t *WeaponTable) Count() int {
	return len(t.weapons)
}
