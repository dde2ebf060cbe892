package world

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/ironvein/engine/internal/core/event"
	"github.com/ironvein/engine/internal/core/pool"
	"github.com/ironvein/engine/internal/core/target"
	"github.com/ironvein/engine/internal/data"
)

// Options configures a fresh simulation state. Zero capacities fall back to
// defaults; a nil pathfinder gets the straight-line fallback.
type Options struct {
	Log   *zap.Logger
	Rules *data.Rules
	Map   MapService
	Ore   OreField
	Path  PathFinder
	Seed  int64

	Buildings int
	Infantry  int
	Units     int
	Aircraft  int
	Bullets   int
	Anims     int
}

// State is the whole simulation: the rules, the map collaborators, the
// houses, and one fixed-capacity pool per entity kind. Everything a tick
// touches hangs off this struct; there is no hidden global.
//
// All randomness flows through Rand, which is seeded once, so two states
// constructed with the same options and fed the same orders stay in
// lockstep forever.
type State struct {
	Log   *zap.Logger
	Rules *data.Rules
	Map   MapService
	Ore   OreField
	Path  PathFinder
	Bus   *event.Bus
	Rand  *rand.Rand

	Frame  int64
	Seed   int64
	Houses []*House

	Buildings *pool.Pool[Building]
	Infantry  *pool.Pool[Infantry]
	Units     *pool.Pool[Unit]
	Aircraft  *pool.Pool[Aircraft]
	Bullets   *pool.Pool[Bullet]
	Anims     *pool.Pool[Anim]
}

func defaultCap(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

func NewState(opts Options) *State {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Path == nil {
		opts.Path = LinePather{}
	}
	w := &State{
		Log:       opts.Log,
		Rules:     opts.Rules,
		Map:       opts.Map,
		Ore:       opts.Ore,
		Path:      opts.Path,
		Bus:       event.NewBus(),
		Rand:      rand.New(rand.NewSource(opts.Seed)),
		Seed:      opts.Seed,
		Buildings: pool.New[Building]("buildings", defaultCap(opts.Buildings, 500)),
		Infantry:  pool.New[Infantry]("infantry", defaultCap(opts.Infantry, 500)),
		Units:     pool.New[Unit]("units", defaultCap(opts.Units, 500)),
		Aircraft:  pool.New[Aircraft]("aircraft", defaultCap(opts.Aircraft, 100)),
		Bullets:   pool.New[Bullet]("bullets", defaultCap(opts.Bullets, 50)),
		Anims:     pool.New[Anim]("anims", defaultCap(opts.Anims, 100)),
	}
	return w
}

// reseed restarts the deterministic random stream. Folding the frame in
// keeps a restored game from replaying the opening draw sequence.
func (w *State) reseed() {
	w.Rand = rand.New(rand.NewSource(w.Seed ^ w.Frame))
}

// AddHouse registers a house. House IDs must be unique; the caller owns that.
func (w *State) AddHouse(h *House) {
	w.Houses = append(w.Houses, h)
}

func (w *State) HouseByID(id int) *House {
	for _, h := range w.Houses {
		if h.ID == id {
			return h
		}
	}
	return nil
}

// Cell targets pack the cell coordinates into the index field, twelve bits
// per axis. They name map positions in the same currency as entity handles
// so a navigation target can be either.

// TargetForCell encodes a map cell as a target handle.
func (w *State) TargetForCell(c Cell) target.Target {
	return target.Build(target.KindCell, int(uint16(c.Y))<<12|int(uint16(c.X))&0xFFF)
}

func cellOfTarget(t target.Target) Cell {
	i := t.Index()
	return Cell{X: int16(i & 0xFFF), Y: int16(i >> 12)}
}

// Resolve turns a handle into the live entity behind it, or nil when the
// slot is empty. A handle whose slot was recycled resolves to the new
// occupant; holders that care scrub their handles through Detach.
func (w *State) Resolve(t target.Target) ObjectLike {
	idx := t.Index()
	switch t.Kind() {
	case target.KindBuilding:
		if b := w.Buildings.Get(idx); b != nil {
			return b
		}
	case target.KindInfantry:
		if i := w.Infantry.Get(idx); i != nil {
			return i
		}
	case target.KindUnit:
		if u := w.Units.Get(idx); u != nil {
			return u
		}
	case target.KindAircraft:
		if a := w.Aircraft.Get(idx); a != nil {
			return a
		}
	case target.KindBullet:
		if b := w.Bullets.Get(idx); b != nil {
			return b
		}
	case target.KindAnim:
		if a := w.Anims.Get(idx); a != nil {
			return a
		}
	}
	return nil
}

// TechnoOf resolves a handle to its combat surface, nil for non-combat kinds.
func (w *State) TechnoOf(t target.Target) TechnoLike {
	if o, ok := w.Resolve(t).(TechnoLike); ok {
		return o
	}
	return nil
}

// FootOf resolves a handle to its mobile surface.
func (w *State) FootOf(t target.Target) FootLike {
	if o, ok := w.Resolve(t).(FootLike); ok {
		return o
	}
	return nil
}

// RadioOf resolves a handle to its radio endpoint.
func (w *State) RadioOf(t target.Target) RadioLike {
	if o, ok := w.Resolve(t).(RadioLike); ok {
		return o
	}
	return nil
}

// IsValid reports whether a handle currently points at something: a live
// entity, or an in-bounds cell.
func (w *State) IsValid(t target.Target) bool {
	if t.Kind() == target.KindCell {
		return w.Map.InBounds(cellOfTarget(t))
	}
	return w.Resolve(t) != nil
}

// TargetCoord returns the map position a handle names.
func (w *State) TargetCoord(t target.Target) (Coord, bool) {
	if t.Kind() == target.KindCell {
		c := cellOfTarget(t)
		if !w.Map.InBounds(c) {
			return Coord{}, false
		}
		return c.Center(), true
	}
	o := w.Resolve(t)
	if o == nil || o.Obj().InLimbo {
		return Coord{}, false
	}
	return o.Obj().Pos, true
}

// freeCellAround probes the eight neighbors in facing order for the first
// cell a ground entity could stand in.
func (w *State) freeCellAround(at Cell) (Cell, bool) {
	for f := FacingType(0); f < FacingCount; f++ {
		c := at.Adjacent(f)
		if w.Map.InBounds(c) && w.Map.CanEnterCell(c, MoveFoot) == MoveOK {
			return c, true
		}
	}
	return Cell{}, false
}

// poolFull logs and reports a spawn that found its pool with no free slot.
func (w *State) poolFull(k target.Kind) {
	w.Log.Warn("物件池已滿", zap.String("kind", k.String()))
	event.Emit(w.Bus, event.PoolExhausted{Kind: k})
}

// CreateBuilding places an operational structure. Use ConstructBuilding for
// the scaffold-up variant.
func (w *State) CreateBuilding(typeName string, house int, at Cell) (*Building, bool) {
	bt := w.Rules.Buildings.Get(typeName)
	if bt == nil {
		w.Log.Error("未知建築類型", zap.String("type", typeName))
		return nil, false
	}
	idx, b, ok := w.Buildings.Allocate()
	if !ok {
		w.poolFull(target.KindBuilding)
		return nil, false
	}
	b.Self = target.Build(target.KindBuilding, idx)
	b.InLimbo = true
	b.Type = bt
	b.House = house
	b.Strength = bt.Strength
	b.MaxStrength = bt.Strength
	b.Armor = bt.Armor
	b.Primary = w.Rules.Weapons.Get(bt.Primary)
	b.Ammo = AmmoUnlimited
	b.Sight = bt.Sight
	b.State = BStateIdle
	b.Mission = MissionGuard
	if !w.Unlimbo(b, at.Center()) {
		w.Buildings.Free(idx)
		return nil, false
	}
	if h := w.HouseByID(house); h != nil {
		h.PowerOutput += bt.Power
		h.PowerDrain += bt.Drain
	}
	return b, true
}

// ConstructBuilding places a structure as a one-point scaffold that builds
// itself up over the type's build time.
func (w *State) ConstructBuilding(typeName string, house int, at Cell) (*Building, bool) {
	b, ok := w.CreateBuilding(typeName, house, at)
	if !ok {
		return nil, false
	}
	b.Strength = 1
	b.State = BStateConstruction
	b.Mission = MissionConstruction
	return b, true
}

func (w *State) CreateInfantry(typeName string, house int, at Cell) (*Infantry, bool) {
	it := w.Rules.Infantry.Get(typeName)
	if it == nil {
		w.Log.Error("未知步兵類型", zap.String("type", typeName))
		return nil, false
	}
	idx, i, ok := w.Infantry.Allocate()
	if !ok {
		w.poolFull(target.KindInfantry)
		return nil, false
	}
	i.Self = target.Build(target.KindInfantry, idx)
	i.InLimbo = true
	i.Type = it
	i.House = house
	i.Strength = it.Strength
	i.MaxStrength = it.Strength
	i.Armor = it.Armor
	i.Primary = w.Rules.Weapons.Get(it.Primary)
	i.Ammo = AmmoUnlimited
	i.Sight = it.Sight
	i.Speed = it.Speed
	i.Class = MoveFoot
	i.Mission = MissionGuard
	if !w.Unlimbo(i, at.Center()) {
		w.Infantry.Free(idx)
		return nil, false
	}
	return i, true
}

func (w *State) CreateUnit(typeName string, house int, at Cell) (*Unit, bool) {
	ut := w.Rules.Units.Get(typeName)
	if ut == nil {
		w.Log.Error("未知載具類型", zap.String("type", typeName))
		return nil, false
	}
	idx, u, ok := w.Units.Allocate()
	if !ok {
		w.poolFull(target.KindUnit)
		return nil, false
	}
	u.Self = target.Build(target.KindUnit, idx)
	u.InLimbo = true
	u.Type = ut
	u.House = house
	u.Strength = ut.Strength
	u.MaxStrength = ut.Strength
	u.Armor = ut.Armor
	u.Primary = w.Rules.Weapons.Get(ut.Primary)
	u.Ammo = ut.MaxAmmo
	u.Sight = ut.Sight
	u.Speed = ut.Speed
	u.Class = MoveTrack
	u.Cloakable = ut.Cloakable
	u.Cargo.Max = ut.Passengers
	u.Mission = MissionGuard
	if ut.Harvester {
		u.Mission = MissionHarvest
	}
	if !w.Unlimbo(u, at.Center()) {
		w.Units.Free(idx)
		return nil, false
	}
	return u, true
}

func (w *State) CreateAircraft(typeName string, house int, at Cell) (*Aircraft, bool) {
	ft := w.Rules.Aircraft.Get(typeName)
	if ft == nil {
		w.Log.Error("未知飛行器類型", zap.String("type", typeName))
		return nil, false
	}
	idx, a, ok := w.Aircraft.Allocate()
	if !ok {
		w.poolFull(target.KindAircraft)
		return nil, false
	}
	a.Self = target.Build(target.KindAircraft, idx)
	a.InLimbo = true
	a.Type = ft
	a.House = house
	a.Strength = ft.Strength
	a.MaxStrength = ft.Strength
	a.Armor = ft.Armor
	a.Primary = w.Rules.Weapons.Get(ft.Primary)
	a.Ammo = ft.MaxAmmo
	a.Sight = ft.Sight
	a.Speed = ft.Speed
	a.Class = MoveWinged
	a.Mission = MissionGuard
	if !w.Unlimbo(a, at.Center()) {
		w.Aircraft.Free(idx)
		return nil, false
	}
	return a, true
}

// SpawnBullet launches a projectile from a firer toward a target. A full
// bullet pool swallows the shot: the round is spent and nothing flies,
// mirroring how the rest of the kernel degrades instead of growing.
func (w *State) SpawnBullet(t TechnoLike, wp *data.WeaponType, tgt target.Target) target.Target {
	bt := w.Rules.Bullets.Get(wp.Projectile)
	if bt == nil {
		w.Log.Error("未知投射物", zap.String("projectile", wp.Projectile))
		return target.None
	}
	aim, ok := w.TargetCoord(tgt)
	if !ok {
		return target.None
	}
	idx, b, ok := w.Bullets.Allocate()
	if !ok {
		w.poolFull(target.KindBullet)
		return target.None
	}
	b.Self = target.Build(target.KindBullet, idx)
	b.InLimbo = true
	b.Type = bt
	b.Payload = w.Rules.Warheads.Get(bt.Warhead)
	b.Damage = wp.Damage
	b.Firer = t.Obj().Self
	b.TarCom = tgt
	if bt.Inaccurate {
		aim.X += int32(w.Rand.Intn(LeptonsPerCell)) - LeptonsPerCell/2
		aim.Y += int32(w.Rand.Intn(LeptonsPerCell)) - LeptonsPerCell/2
	}
	b.AimPos = aim
	b.Fuel = bt.Fuel
	b.Facing = DirectionTo(t.Obj().Pos, aim)
	if !w.Unlimbo(b, t.Obj().Pos) {
		w.Bullets.Free(idx)
		return target.None
	}
	return b.Self
}

// SpawnAnim starts a visual effect, optionally riding another entity.
// Unknown names are ignored so data-driven effect hooks stay optional.
func (w *State) SpawnAnim(typeName string, at Coord, attached target.Target) target.Target {
	an := w.Rules.Anims.Get(typeName)
	if an == nil {
		return target.None
	}
	idx, a, ok := w.Anims.Allocate()
	if !ok {
		w.poolFull(target.KindAnim)
		return target.None
	}
	a.Self = target.Build(target.KindAnim, idx)
	a.InLimbo = true
	a.Type = an
	a.Attached = attached
	a.start()
	if !w.Unlimbo(a, at) {
		w.Anims.Free(idx)
		return target.None
	}
	return a.Self
}

// Destroy handles an entity's death: survivors bail out of a dead transport,
// the wreck burns, and the entity leaves the world. Damage calls this; it is
// also the path for scripted removal with effects.
func (w *State) Destroy(o ObjectLike, source target.Target) {
	if t, ok := o.(TechnoLike); ok {
		for {
			p := t.Tech().Cargo.DetachFirst()
			if p.IsNone() {
				break
			}
			po := w.Resolve(p)
			if po == nil {
				continue
			}
			if cell, found := w.freeCellAround(o.Obj().Pos.Cell()); found {
				w.Unlimbo(po, cell.Center())
				if m, isM := po.(Missioner); isM {
					AssignMission(w, m, MissionGuard)
				}
			} else {
				w.DeleteObject(po) // no ground to bail onto
			}
		}
	}
	switch o.Kind() {
	case target.KindBullet, target.KindAnim:
	case target.KindBuilding:
		b := o.(*Building)
		if h := w.HouseByID(b.House); h != nil {
			h.PowerOutput -= b.Type.Power
			h.PowerDrain -= b.Type.Drain
		}
		w.SpawnAnim("big_explosion", o.Obj().Pos, target.None)
	default:
		w.SpawnAnim("small_explosion", o.Obj().Pos, target.None)
	}
	w.DeleteObject(o)
}

// Detach scrubs every reference to a handle across the world. Run when an
// entity leaves so no tracker, radio peer, or hold keeps a recycled slot.
func (w *State) Detach(t target.Target) {
	scrubTechno := func(tech *TechnoState) {
		if tech.TarCom == t {
			tech.TarCom = target.None
		}
		tech.Cargo.Remove(t)
	}
	scrubRadio := func(r *RadioState) {
		if r.Contact == t {
			r.Contact = target.None
		}
	}
	scrubFoot := func(ft *FootState) {
		if ft.NavCom == t {
			ft.NavCom = target.None
			ft.PathLen = 0
		}
	}
	w.Buildings.EachActive(func(_ int, b *Building) bool {
		scrubTechno(&b.TechnoState)
		scrubRadio(&b.RadioState)
		if b.Docked == t {
			b.Docked = target.None
			b.State = BStateIdle
		}
		return true
	})
	w.Infantry.EachActive(func(_ int, i *Infantry) bool {
		scrubTechno(&i.TechnoState)
		scrubRadio(&i.RadioState)
		scrubFoot(&i.FootState)
		return true
	})
	w.Units.EachActive(func(_ int, u *Unit) bool {
		scrubTechno(&u.TechnoState)
		scrubRadio(&u.RadioState)
		scrubFoot(&u.FootState)
		return true
	})
	w.Aircraft.EachActive(func(_ int, a *Aircraft) bool {
		scrubTechno(&a.TechnoState)
		scrubRadio(&a.RadioState)
		scrubFoot(&a.FootState)
		return true
	})
	w.Bullets.EachActive(func(_ int, b *Bullet) bool {
		if b.TarCom == t {
			b.TarCom = target.None
		}
		if b.Firer == t {
			b.Firer = target.None
		}
		return true
	})
	w.Anims.EachActive(func(_ int, a *Anim) bool {
		if a.Attached == t {
			a.Attached = target.None
		}
		return true
	})
}

// DeleteObject removes an entity outright: off the map, out of everyone's
// handles, slot back to the pool. No death effects; Destroy layers those.
func (w *State) DeleteObject(o ObjectLike) {
	obj := o.Obj()
	self := obj.Self
	if !obj.InLimbo {
		w.Limbo(o)
	}
	w.Detach(self)
	idx := self.Index()
	switch o.Kind() {
	case target.KindBuilding:
		w.Buildings.Free(idx)
	case target.KindInfantry:
		w.Infantry.Free(idx)
	case target.KindUnit:
		w.Units.Free(idx)
	case target.KindAircraft:
		w.Aircraft.Free(idx)
	case target.KindBullet:
		w.Bullets.Free(idx)
	case target.KindAnim:
		w.Anims.Free(idx)
	}
}

// homeCell is where a house's units rally: its first structure, ascending
// slot order.
func (w *State) homeCell(house int) Cell {
	var home Cell
	w.Buildings.EachActive(func(_ int, b *Building) bool {
		if b.House == house && !b.InLimbo {
			home = b.Pos.Cell()
			return false
		}
		return true
	})
	return home
}

// crushable reports whether a mover may roll into an occupied cell by
// flattening what stands there, and flattens it when so.
func (w *State) crushable(f FootLike, c Cell) bool {
	u, ok := f.(*Unit)
	if !ok || !u.Type.Crusher {
		return false
	}
	inf, ok := w.Resolve(w.Map.OccupierOf(c)).(*Infantry)
	if !ok {
		return false
	}
	if h := w.HouseByID(u.House); h != nil && h.IsAllied(inf.House) {
		return false
	}
	w.recordKill(inf, u.Self)
	w.Destroy(inf, u.Self)
	return true
}

// Tick advances the simulation one frame. The order is fixed: last tick's
// events drain first, then each kind pool in sequence, ascending slot order
// inside each pool. Nothing else may vary the order; reproducibility of the
// whole game hangs on it.
func (w *State) Tick() {
	w.Frame++
	// Each frame draws from its own stream, so a run that was saved and
	// restored rolls the same numbers as one that never stopped.
	w.reseed()
	w.Bus.SwapBuffers()
	w.Bus.DispatchAll()

	w.Buildings.EachActive(func(_ int, b *Building) bool {
		if !b.InLimbo {
			tickTechno(w, b)
			DispatchMission(w, b)
		}
		return true
	})
	w.Infantry.EachActive(func(_ int, i *Infantry) bool {
		if !i.InLimbo {
			i.tickFear()
			tickTechno(w, i)
			w.tickDrive(i)
			DispatchMission(w, i)
		}
		return true
	})
	w.Units.EachActive(func(_ int, u *Unit) bool {
		if !u.InLimbo {
			tickTechno(w, u)
			w.tickDrive(u)
			DispatchMission(w, u)
		}
		return true
	})
	w.Aircraft.EachActive(func(_ int, a *Aircraft) bool {
		if !a.InLimbo {
			tickTechno(w, a)
			w.tickDrive(a)
			DispatchMission(w, a)
		}
		return true
	})
	w.Bullets.EachActive(func(_ int, b *Bullet) bool {
		b.Logic(w)
		return true
	})
	w.Anims.EachActive(func(_ int, a *Anim) bool {
		a.Logic(w)
		return true
	})
}
