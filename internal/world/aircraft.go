package world

import (
	"github.com/ironvein/engine/internal/core/target"
	"github.com/ironvein/engine/internal/data"
)

// Flight tuning.
const (
	flightAltitude = 2 * LeptonsPerCell // cruise height, leptons
	climbRate      = 16                 // leptons per tick
)

// Aircraft is a winged unit. It flies over terrain and occupancy, and rearms
// by landing on a helipad.
type Aircraft struct {
	ObjectState
	MissionState
	RadioState
	TechnoState
	FootState

	Type     *data.AircraftType
	Altitude int32
}

func (a *Aircraft) Kind() target.Kind { return target.KindAircraft }

func (a *Aircraft) airborne() bool { return a.Altitude > 0 }

// tickFlight moves the craft toward its working altitude: cruise height when
// it has anywhere to be, ground level when it is trying to land.
func (a *Aircraft) tickFlight(landing bool) {
	want := flightAltitude
	if landing {
		want = 0
	}
	switch {
	case a.Altitude < int32(want):
		a.Altitude += climbRate
		if a.Altitude > int32(want) {
			a.Altitude = int32(want)
		}
	case a.Altitude > int32(want):
		a.Altitude -= climbRate
		if a.Altitude < 0 {
			a.Altitude = 0
		}
	}
}

// Rearm docking phases.
const (
	rearmSeeking = iota
	rearmFlying
	rearmLanding
	rearmLoading
)

// HandleMission adds the rearm cycle and altitude gating on top of the
// mobile layer. An attacker that runs dry heads for a pad on its own.
func (a *Aircraft) HandleMission(w *State, mission Mission) int {
	switch mission {
	case MissionAttack, MissionHunt, MissionTimedHunt:
		if a.Ammo == 0 {
			AssignMission(w, a, MissionEnter)
			return delayCombat
		}
		a.tickFlight(false)
		if !a.airborne() {
			return delayCombat // still climbing out
		}
		return footMission(w, a, mission)

	case MissionMove, MissionRetreat:
		a.tickFlight(false)
		return footMission(w, a, mission)

	case MissionEnter, MissionReturn:
		return a.missionRearm(w)

	case MissionGuard, MissionGuardArea:
		// Loiter on the ground when parked; scan from where we are.
		return footMission(w, a, mission)

	default:
		return footMission(w, a, mission)
	}
}

// missionRearm lands the craft on a friendly helipad and reloads one round
// per dock beat until full, then lifts off back to guard.
func (a *Aircraft) missionRearm(w *State) int {
	max := a.Type.MaxAmmo
	if max == AmmoUnlimited || a.Ammo == AmmoUnlimited {
		AssignMission(w, a, MissionGuard)
		return delayIdle
	}

	switch a.Status {
	case rearmSeeking:
		pad := w.findHelipad(a.House, a.Pos)
		if pad == nil {
			return delaySleep
		}
		if Transmit(w, a, RadioHello, nil, pad.Self) != RadioRoger {
			return delayIdle
		}
		Transmit(w, a, RadioDocking, nil, pad.Self)
		a.Status = rearmFlying
		return delayCombat

	case rearmFlying:
		pad := w.RadioOf(a.Contact)
		if pad == nil {
			a.Status = rearmSeeking
			return delayIdle
		}
		a.tickFlight(false)
		if a.Pos.Cell() == pad.Obj().Pos.Cell() {
			a.NavCom = target.None
			a.PathLen = 0
			a.Status = rearmLanding
			return delayCombat
		}
		if a.NavCom.IsNone() {
			w.AssignDestination(a, pad.Obj().Self)
		}
		return delayMove

	case rearmLanding:
		a.tickFlight(true)
		if a.airborne() {
			return delayCombat
		}
		pad := w.RadioOf(a.Contact)
		if pad == nil || Transmit(w, a, RadioImIn, nil, pad.Obj().Self) != RadioRoger {
			a.Status = rearmSeeking
			return delayIdle
		}
		a.Status = rearmLoading
		return delayDock

	default: // loading
		if a.Ammo < max {
			a.Ammo++
			return delayDock
		}
		Transmit(w, a, RadioOverOut, nil, target.None)
		AssignMission(w, a, MissionGuard)
		return delayIdle
	}
}

// findHelipad returns the nearest operational helipad owned by the house.
func (w *State) findHelipad(house int, near Coord) *Building {
	var best *Building
	var bestDist int32 = 1 << 30
	w.Buildings.EachActive(func(idx int, b *Building) bool {
		if b.InLimbo || !b.Type.Helipad || b.House != house {
			return true
		}
		if b.Mission == MissionConstruction {
			return true
		}
		d := Distance(near, b.Pos)
		if d < bestDist {
			bestDist = d
			best = b
		}
		return true
	})
	return best
}
