package world

import (
	"github.com/ironvein/engine/internal/core/target"
	"github.com/ironvein/engine/internal/data"
)

// CloakState is the four-state visibility machine. The transitional states
// walk a stage counter between 0 and cloakStages.
type CloakState uint8

const (
	Uncloaked CloakState = iota
	Cloaking
	Cloaked
	Uncloaking
)

const cloakStages = 38

// AmmoUnlimited marks a weapon that never runs dry.
const AmmoUnlimited = -1

// TechnoState is the combat block shared by every armed or ownable kind:
// weapon bookkeeping, targeting, cloak, and the composed behavior mixins.
type TechnoState struct {
	House   int
	TarCom  target.Target
	Facing  DirType
	Primary *data.WeaponType // nil = unarmed
	Ammo    int              // AmmoUnlimited or rounds remaining
	Rearm   int              // ticks until the next shot
	Sight   int32            // leptons

	Cloakable  bool
	Cloak      CloakState
	CloakStage int

	Flasher Flasher
	Cargo   Cargo
	Door    Door
	Crew    Crew
}

func (t *TechnoState) Tech() *TechnoState { return t }

// TechnoLike is a combat-capable, radio-capable, mission-driven entity.
type TechnoLike interface {
	Missioner
	RadioLike
	Tech() *TechnoState
}

// FireError explains why an entity cannot fire right now.
type FireError uint8

const (
	FireOK FireError = iota
	FireNoTarget
	FireIllegal
	FireAmmo
	FireRearm
	FireCloaked
	FireRange
)

var fireErrorNames = [...]string{
	"ok", "no_target", "illegal", "ammo", "rearm", "cloaked", "range",
}

func (f FireError) String() string {
	if int(f) < len(fireErrorNames) {
		return fireErrorNames[f]
	}
	return "unknown"
}

// CanFire checks whether the entity can shoot at a target right now. The
// checks run in a fixed priority order — target validity, weapon presence,
// ammunition, rearm delay, cloak, range — and the first failure wins.
func (w *State) CanFire(t TechnoLike, tgt target.Target, which int) FireError {
	if !w.IsValid(tgt) {
		return FireNoTarget
	}
	tech := t.Tech()
	if which != 0 || tech.Primary == nil {
		return FireIllegal
	}
	if tech.Ammo == 0 {
		return FireAmmo
	}
	if tech.Rearm > 0 {
		return FireRearm
	}
	if tech.Cloak == Cloaked || tech.Cloak == Cloaking {
		return FireCloaked
	}
	at, ok := w.TargetCoord(tgt)
	if !ok {
		return FireNoTarget
	}
	if Distance(t.Obj().Pos, at) > tech.Primary.Range {
		return FireRange
	}
	return FireOK
}

// FireAt discharges the weapon at a target: ammunition is spent, the rearm
// timer restarts, a cloaked firer starts uncloaking, and the projectile is
// spawned from the muzzle toward the target's current position. Returns the
// projectile's handle, or None when CanFire refuses.
func (w *State) FireAt(t TechnoLike, tgt target.Target, which int) target.Target {
	if w.CanFire(t, tgt, which) != FireOK {
		return target.None
	}
	tech := t.Tech()
	wp := tech.Primary

	if tech.Ammo > 0 {
		tech.Ammo--
	}
	tech.Rearm = wp.ROF
	if h := w.HouseByID(tech.House); h != nil && h.LowPower() {
		if _, isBuilding := t.(*Building); isBuilding {
			tech.Rearm *= 2 // brown-out slows defensive fire
		}
	}

	// Firing always reveals.
	if tech.Cloak == Cloaked || tech.Cloak == Cloaking {
		w.DoUncloak(t)
	}

	at, _ := w.TargetCoord(tgt)
	tech.Facing = DirectionTo(t.Obj().Pos, at)

	bullet := w.SpawnBullet(t, wp, tgt)
	if wp.MuzzleAnim != "" {
		w.SpawnAnim(wp.MuzzleAnim, t.Obj().Pos, target.None)
	}
	return bullet
}

// ThreatFlag selects which kinds a threat scan considers.
type ThreatFlag uint8

const (
	ThreatInfantry ThreatFlag = 1 << iota
	ThreatUnits
	ThreatAircraft
	ThreatBuildings
	ThreatArea // widen the scan beyond weapon range

	ThreatNormal = ThreatInfantry | ThreatUnits | ThreatAircraft | ThreatBuildings
)

const areaScanMultiplier = 2

// GreatestThreat scans for the best enemy candidate within range. Scoring is
// monotone in closeness with bonuses for damaged and structure targets; on
// an exact score tie the earliest candidate in scan order wins, which is why
// pool iteration order is part of the kernel's contract.
func (w *State) GreatestThreat(t TechnoLike, flags ThreatFlag) target.Target {
	tech := t.Tech()
	radius := tech.Sight
	if tech.Primary != nil {
		radius = tech.Primary.Range
	}
	if flags&ThreatArea != 0 {
		radius *= areaScanMultiplier
	}
	if radius <= 0 {
		return target.None
	}

	me := w.HouseByID(tech.House)
	origin := t.Obj().Pos
	best := target.None
	bestScore := 0

	consider := func(cand TechnoLike) {
		obj := cand.Obj()
		if obj.InLimbo || obj.Self == t.Obj().Self {
			return
		}
		if me != nil && me.IsAllied(cand.Tech().House) {
			return
		}
		if cand.Tech().Cloak == Cloaked {
			return
		}
		dist := Distance(origin, obj.Pos)
		if dist > radius {
			return
		}
		score := int(radius - dist + 1)
		if obj.Strength < obj.MaxStrength/2 {
			score += score / 2
		}
		if cand.Kind() == target.KindBuilding {
			score += score / 4
		}
		if score > bestScore {
			bestScore = score
			best = obj.Self
		}
	}

	if flags&ThreatBuildings != 0 {
		w.Buildings.EachActive(func(_ int, b *Building) bool {
			consider(b)
			return true
		})
	}
	if flags&ThreatInfantry != 0 {
		w.Infantry.EachActive(func(_ int, inf *Infantry) bool {
			consider(inf)
			return true
		})
	}
	if flags&ThreatUnits != 0 {
		w.Units.EachActive(func(_ int, u *Unit) bool {
			consider(u)
			return true
		})
	}
	if flags&ThreatAircraft != 0 {
		w.Aircraft.EachActive(func(_ int, a *Aircraft) bool {
			consider(a)
			return true
		})
	}
	return best
}

// DoCloak begins the cloaking sequence for a cloak-capable entity.
func (w *State) DoCloak(t TechnoLike) bool {
	tech := t.Tech()
	if !tech.Cloakable || tech.Cloak != Uncloaked {
		return false
	}
	tech.Cloak = Cloaking
	tech.CloakStage = 0
	return true
}

// DoUncloak begins the uncloaking sequence from any shimmering state.
func (w *State) DoUncloak(t TechnoLike) bool {
	tech := t.Tech()
	switch tech.Cloak {
	case Cloaked:
		tech.Cloak = Uncloaking
		tech.CloakStage = cloakStages
		return true
	case Cloaking:
		tech.Cloak = Uncloaking
		return true
	}
	return false
}

// tickCloak walks the transitional cloak states one stage per tick.
func tickCloak(tech *TechnoState) {
	switch tech.Cloak {
	case Cloaking:
		tech.CloakStage++
		if tech.CloakStage >= cloakStages {
			tech.CloakStage = cloakStages
			tech.Cloak = Cloaked
		}
	case Uncloaking:
		tech.CloakStage--
		if tech.CloakStage <= 0 {
			tech.CloakStage = 0
			tech.Cloak = Uncloaked
		}
	}
}

// tickTechno updates the shared combat bookkeeping once per tick.
func tickTechno(w *State, t TechnoLike) {
	tech := t.Tech()
	if tech.Rearm > 0 {
		tech.Rearm--
	}
	tech.Flasher.Update()
	tech.Door.Update()
	tickCloak(tech)
	if !tech.TarCom.IsNone() && !w.IsValid(tech.TarCom) {
		tech.TarCom = target.None
	}
}

// technoMission is the stationary combat layer of the handler chain: guard
// missions scan and fire without moving. Mobile kinds layer movement on top
// in footMission.
func technoMission(w *State, t TechnoLike, mission Mission) int {
	tech := t.Tech()
	switch mission {
	case MissionGuard, MissionGuardArea:
		if tech.Primary == nil {
			return delaySleep
		}
		if tech.TarCom.IsNone() {
			flags := ThreatNormal
			if mission == MissionGuardArea {
				flags |= ThreatArea
			}
			tech.TarCom = w.GreatestThreat(t, flags)
			if tech.TarCom.IsNone() {
				return delayIdle
			}
		}
		fallthrough
	case MissionAttack:
		if tech.TarCom.IsNone() {
			return delayIdle
		}
		switch w.CanFire(t, tech.TarCom, 0) {
		case FireOK:
			w.FireAt(t, tech.TarCom, 0)
			return delayCombat
		case FireCloaked:
			w.DoUncloak(t)
			return delayCombat
		case FireRearm:
			return delayCombat
		case FireRange:
			// Stationary shooter: out of range means give up the target.
			tech.TarCom = target.None
			return delayIdle
		default:
			tech.TarCom = target.None
			return delayIdle
		}
	default:
		return baseMission(w, t, mission)
	}
}
