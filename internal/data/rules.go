package data

import (
	"fmt"
	"path/filepath"
)

// Rules aggregates every static table the simulation consults.
type Rules struct {
	Weapons   *WeaponTable
	Warheads  *WarheadTable
	Bullets   *BulletTable
	Anims     *AnimTable
	Infantry  *InfantryTable
	Units     *UnitTable
	Aircraft  *AircraftTable
	Buildings *BuildingTable
}

// LoadRules loads all rules tables from a directory of YAML files and
// cross-validates the references between them.
func LoadRules(dir string) (*Rules, error) {
	r := &Rules{}
	var err error
	if r.Warheads, err = LoadWarheadTable(filepath.Join(dir, "warhead_list.yaml")); err != nil {
		return nil, err
	}
	if r.Bullets, err = LoadBulletTable(filepath.Join(dir, "bullet_list.yaml")); err != nil {
		return nil, err
	}
	if r.Weapons, err = LoadWeaponTable(filepath.Join(dir, "weapon_list.yaml")); err != nil {
		return nil, err
	}
	if r.Anims, err = LoadAnimTable(filepath.Join(dir, "anim_list.yaml")); err != nil {
		return nil, err
	}
	if r.Infantry, err = LoadInfantryTable(filepath.Join(dir, "infantry_list.yaml")); err != nil {
		return nil, err
	}
	if r.Units, err = LoadUnitTable(filepath.Join(dir, "unit_list.yaml")); err != nil {
		return nil, err
	}
	if r.Aircraft, err = LoadAircraftTable(filepath.Join(dir, "aircraft_list.yaml")); err != nil {
		return nil, err
	}
	if r.Buildings, err = LoadBuildingTable(filepath.Join(dir, "building_list.yaml")); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks that every cross-table reference resolves.
func (r *Rules) Validate() error {
	for name, b := range r.Bullets.bullets {
		if r.Warheads.Get(b.Warhead) == nil {
			return fmt.Errorf("bullet %q: unknown warhead %q", name, b.Warhead)
		}
		if b.Explosion != "" && r.Anims.Get(b.Explosion) == nil {
			return fmt.Errorf("bullet %q: unknown explosion anim %q", name, b.Explosion)
		}
	}
	for name, w := range r.Weapons.weapons {
		if r.Bullets.Get(w.Projectile) == nil {
			return fmt.Errorf("weapon %q: unknown projectile %q", name, w.Projectile)
		}
		if w.MuzzleAnim != "" && r.Anims.Get(w.MuzzleAnim) == nil {
			return fmt.Errorf("weapon %q: unknown muzzle anim %q", name, w.MuzzleAnim)
		}
	}
	for name, a := range r.Anims.anims {
		if a.Chain != "" && r.Anims.Get(a.Chain) == nil {
			return fmt.Errorf("anim %q: unknown chain anim %q", name, a.Chain)
		}
		if a.Damage > 0 && r.Warheads.Get(a.Warhead) == nil {
			return fmt.Errorf("anim %q: unknown warhead %q", name, a.Warhead)
		}
	}
	for name, it := range r.Infantry.types {
		if it.Primary != "" && r.Weapons.Get(it.Primary) == nil {
			return fmt.Errorf("infantry %q: unknown weapon %q", name, it.Primary)
		}
	}
	for name, ut := range r.Units.types {
		if ut.Primary != "" && r.Weapons.Get(ut.Primary) == nil {
			return fmt.Errorf("unit %q: unknown weapon %q", name, ut.Primary)
		}
	}
	for name, at := range r.Aircraft.types {
		if at.Primary != "" && r.Weapons.Get(at.Primary) == nil {
			return fmt.Errorf("aircraft %q: unknown weapon %q", name, at.Primary)
		}
	}
	for name, bt := range r.Buildings.types {
		if bt.Primary != "" && r.Weapons.Get(bt.Primary) == nil {
			return fmt.Errorf("building %q: unknown weapon %q", name, bt.Primary)
		}
	}
	return nil
}
