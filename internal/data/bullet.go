package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// BulletType holds static data for one projectile kind.
type BulletType struct {
	Name       string `yaml:"name"`
	Speed      int32  `yaml:"speed"` // leptons per tick
	Warhead    string `yaml:"warhead"`
	Arcing     bool   `yaml:"arcing,omitempty"`  // ballistic arc, detonates on ground contact
	Homing     bool   `yaml:"homing,omitempty"`  // tracks its target while in flight
	ROT        int    `yaml:"rot,omitempty"`     // facing steps per tick while homing
	Inaccurate bool   `yaml:"inaccurate,omitempty"`
	Fuel       int    `yaml:"fuel"` // flight ticks before the hard fuse fires
	Proximity  int32  `yaml:"proximity,omitempty"` // leptons; 0 = contact only
	Explosion  string `yaml:"explosion,omitempty"` // anim spawned on detonation
}

type bulletListFile struct {
	Bullets []BulletType `yaml:"bullets"`
}

// BulletTable holds all projectile kinds indexed by name.
type BulletTable struct {
	bullets map[string]*BulletType
}

// LoadBulletTable loads projectile definitions from a YAML file.
func LoadBulletTable(path string) (*BulletTable, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bullet list: %w", err)
	}
	return ParseBulletTable(data)
}

// ParseBulletTable parses projectile definitions from YAML bytes.
func ParseBulletTable(data []byte) (*BulletTable, error) {
	var f bulletListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse bullet list: %w", err)
	}
	t := &BulletTable{bullets: make(map[string]*BulletType, len(f.Bullets))}
	for i := range f.Bullets {
		b := &f.Bullets[i]
		if b.Fuel <= 0 {
			b.Fuel = 1
		}
		t.bullets[b.Name] = b
	}
	return t, nil
}

// Get returns a projectile kind by name, or nil if not found.
func (t *BulletTable) Get(name string) *BulletType {
	if name == "" {
		return nil
	}
	return t.bullets[name]
}

// Count returns the number of loaded projectile kinds.
func (t *BulletTable) Count() int {
	return len(t.bullets)
}
