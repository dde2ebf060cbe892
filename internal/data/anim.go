package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// AnimType holds static data for one visual effect kind.
type AnimType struct {
	Name    string `yaml:"name"`
	Stages  int    `yaml:"stages"` // frames per loop
	Rate    int    `yaml:"rate"`   // ticks per frame
	Loops   int    `yaml:"loops"`  // loop count before expiry
	Damage  int    `yaml:"damage,omitempty"`  // applied to the attached entity per completed frame
	Warhead string `yaml:"warhead,omitempty"` // warhead used for the periodic damage
	Chain   string `yaml:"chain,omitempty"`   // successor anim spawned on expiry
}

type animListFile struct {
	Anims []AnimType `yaml:"anims"`
}

// AnimTable holds all effect kinds indexed by name.
type AnimTable struct {
	anims map[string]*AnimType
}

// LoadAnimTable loads effect definitions from a YAML file.
func LoadAnimTable(path string) (*AnimTable, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read anim list: %w", err)
	}
	return ParseAnimTable(data)
}

// ParseAnimTable parses effect definitions from YAML bytes.
func ParseAnimTable(data []byte) (*AnimTable, error) {
	var f animListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse anim list: %w", err)
	}
	t := &AnimTable{anims: make(map[string]*AnimType, len(f.Anims))}
	for i := range f.Anims {
		a := &f.Anims[i]
		if a.Stages <= 0 {
			a.Stages = 1
		}
		if a.Rate <= 0 {
			a.Rate = 1
		}
		if a.Loops <= 0 {
			a.Loops = 1
		}
		t.anims[a.Name] = a
	}
	return t, nil
}

// Get returns an effect kind by name, or nil if not found.
func (t *AnimTable) Get(name string) *AnimType {
	if name == "" {
		return nil
	}
	return t.anims[name]
}

// Count returns the number of loaded effect kinds.
func (t *AnimTable) Count() int {
	return len(t.anims)
}
