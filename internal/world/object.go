package world

import (
	"github.com/ironvein/engine/internal/core/event"
	"github.com/ironvein/engine/internal/core/target"
	"github.com/ironvein/engine/internal/data"
)

// ObjectState is the lifecycle and health block shared by every placeable
// entity kind. Concrete kinds embed it; everything else refers to the entity
// through its Self handle, never through the pointer.
type ObjectState struct {
	Self        target.Target
	InLimbo     bool
	Pos         Coord
	Strength    int
	MaxStrength int
	Armor       data.ArmorKind
	Selected    bool
	SelectMask  uint32 // per-player selection bits
}

func (o *ObjectState) Obj() *ObjectState { return o }

// ObjectLike is the minimal surface every pooled entity presents.
type ObjectLike interface {
	Obj() *ObjectState
	Kind() target.Kind
}

// ResultType grades the outcome of a damage application.
type ResultType uint8

const (
	ResultNone ResultType = iota
	ResultLight
	ResultHalf
	ResultDestroyed
)

// Unlimbo places an entity on the map at the given coordinate. Fails when
// the entity is already placed or the coordinate is off the map.
func (w *State) Unlimbo(o ObjectLike, at Coord) bool {
	obj := o.Obj()
	if !obj.InLimbo {
		return false
	}
	cell := at.Cell()
	if !w.Map.InBounds(cell) {
		return false
	}
	obj.Pos = at
	obj.InLimbo = false
	// Aircraft, projectiles, and effects pass over cells without holding
	// them; only ground kinds own their footprint.
	switch o.Kind() {
	case target.KindBullet, target.KindAnim, target.KindAircraft:
	default:
		w.Map.MarkOccupied(cell, obj.Self)
	}
	return true
}

// Limbo removes an entity from the map without destroying it. An entity in
// radio contact signs off first so its peer is never left half-connected.
func (w *State) Limbo(o ObjectLike) bool {
	obj := o.Obj()
	if obj.InLimbo {
		return false
	}
	if r, ok := o.(RadioLike); ok && !r.Radio().Contact.IsNone() {
		Transmit(w, r, RadioOverOut, nil, target.None)
	}
	w.Map.ClearOccupied(obj.Pos.Cell(), obj.Self)
	obj.InLimbo = true
	obj.Selected = false
	obj.SelectMask = 0
	return true
}

// Select marks the entity selected for a player. Fails silently for entities
// that are in limbo.
func (w *State) Select(o ObjectLike, player int) bool {
	obj := o.Obj()
	if obj.InLimbo {
		return false
	}
	obj.Selected = true
	if player >= 0 && player < 32 {
		obj.SelectMask |= 1 << uint(player)
	}
	return true
}

// Unselect clears a player's selection of the entity.
func (w *State) Unselect(o ObjectLike, player int) {
	obj := o.Obj()
	if player >= 0 && player < 32 {
		obj.SelectMask &^= 1 << uint(player)
	}
	if obj.SelectMask == 0 {
		obj.Selected = false
	}
}

// Damage applies a warhead hit to an entity. The raw amount is scaled by
// distance falloff and the warhead's armor table; a positive raw amount
// always removes at least one point. Destruction credits the source and
// removes the entity from the world before returning.
func (w *State) Damage(o ObjectLike, amount int, distance int32, warhead *data.WarheadType, source target.Target) ResultType {
	obj := o.Obj()
	if amount <= 0 || obj.Strength <= 0 {
		return ResultNone
	}
	dmg := amount
	if warhead != nil {
		dmg = warhead.DistanceFalloff(dmg, distance)
		if dmg <= 0 {
			return ResultNone
		}
		dmg = warhead.ModifyDamage(dmg, obj.Armor)
	}
	if dmg < 1 {
		dmg = 1
	}

	before := obj.Strength
	obj.Strength -= dmg
	if obj.Strength <= 0 {
		obj.Strength = 0
		w.recordKill(o, source)
		w.Destroy(o, source)
		return ResultDestroyed
	}

	if t, ok := o.(TechnoLike); ok {
		t.Tech().Flasher.Flash(flashTicks)
	}
	w.noteDamage(o, dmg, source)

	if before > obj.MaxStrength/2 && obj.Strength <= obj.MaxStrength/2 {
		return ResultHalf
	}
	return ResultLight
}

// recordKill credits the killer's crew and the killer's house tally.
func (w *State) recordKill(victim ObjectLike, source target.Target) {
	house := -1
	if vt, ok := victim.(TechnoLike); ok {
		house = vt.Tech().House
		if h := w.HouseByID(house); h != nil {
			h.Losses++
		}
	}
	if killer := w.TechnoOf(source); killer != nil {
		killer.Tech().Crew.MadeAKill()
		if h := w.HouseByID(killer.Tech().House); h != nil {
			h.Kills++
		}
	}
	event.Emit(w.Bus, event.UnitKilled{Victim: victim.Obj().Self, Killer: source, House: house})
}

// noteDamage gives nearby kinds a chance to react to a non-fatal hit;
// infantry accumulate fear here.
func (w *State) noteDamage(o ObjectLike, dmg int, source target.Target) {
	if inf, ok := o.(*Infantry); ok {
		inf.AddFear(fearPerHit + dmg)
	}
}
