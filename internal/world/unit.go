package world

import (
	"github.com/ironvein/engine/internal/core/target"
	"github.com/ironvein/engine/internal/data"
)

// Harvest tuning.
const (
	harvestScanRadius = 16 // cells
	harvestBite       = 25 // credits per gulp
	doorRate          = 2  // ticks per door stage
)

// Harvest mission phases, kept in MissionState.Status.
const (
	harvestLooking = iota
	harvestGulping
)

// Unit is a ground vehicle: combat, harvester, or transport depending on its
// type flags.
type Unit struct {
	ObjectState
	MissionState
	RadioState
	TechnoState
	FootState

	Type    *data.UnitType
	OreLoad int // credits on board (harvesters)
}

func (u *Unit) Kind() target.Kind { return target.KindUnit }

// ReceiveMessage adds the transport boarding protocol for units with a
// passenger hold. A passenger announcing ImIn is swallowed into cargo.
func (u *Unit) ReceiveMessage(w *State, from RadioLike, msg RadioMessage, param *int) RadioMessage {
	if u.Type.Passengers <= 0 {
		return u.RadioState.ReceiveMessage(w, from, msg, param)
	}
	switch msg {
	case RadioHello:
		if u.Cargo.IsFull() {
			return RadioCant
		}
		return u.RadioState.ReceiveMessage(w, from, msg, param)
	case RadioImIn:
		if u.Contact != from.Obj().Self {
			return RadioStatic
		}
		passenger := from.Obj().Self
		if !w.Limbo(from.(ObjectLike)) {
			return RadioCant
		}
		if !u.Cargo.Attach(passenger) {
			// Hold filled between Hello and arrival; put them back down.
			w.Unlimbo(from.(ObjectLike), u.Pos)
			return RadioCant
		}
		Transmit(w, u, RadioOverOut, nil, passenger)
		return RadioRoger
	default:
		return u.RadioState.ReceiveMessage(w, from, msg, param)
	}
}

// HandleMission covers the vehicle-only missions and falls to the mobile
// layer for everything else.
func (u *Unit) HandleMission(w *State, mission Mission) int {
	switch mission {
	case MissionHarvest:
		return u.missionHarvest(w)
	case MissionReturn:
		return u.missionReturn(w)
	case MissionUnload:
		return u.missionUnload(w)
	case MissionAttack:
		if u.Type.Harvester {
			// Harvesters do not fight; shrug the order off.
			u.TarCom = target.None
			AssignMission(w, u, MissionHarvest)
			return delayCombat
		}
		return footMission(w, u, mission)
	default:
		return footMission(w, u, mission)
	}
}

// missionHarvest loops between finding an ore cell and gulping from it until
// the hold is full, then heads home.
func (u *Unit) missionHarvest(w *State) int {
	if !u.Type.Harvester {
		AssignMission(w, u, MissionGuard)
		return delayIdle
	}
	if u.OreLoad >= u.Type.OreLoad {
		AssignMission(w, u, MissionReturn)
		return delayCombat
	}

	switch u.Status {
	case harvestLooking:
		cell, ok := w.Ore.FindOre(u.Pos.Cell(), harvestScanRadius)
		if !ok {
			if u.OreLoad > 0 {
				AssignMission(w, u, MissionReturn)
				return delayCombat
			}
			return delaySleep // field exhausted
		}
		if u.Pos.Cell() == cell {
			u.Status = harvestGulping
			return delayCombat
		}
		w.AssignDestination(u, w.TargetForCell(cell))
		if u.NavCom.IsNone() && !u.Driving {
			u.Status = harvestGulping
		}
		return delayMove

	default: // gulping
		here := u.Pos.Cell()
		if w.Ore.OreAt(here) <= 0 {
			u.Status = harvestLooking
			return delayCombat
		}
		room := u.Type.OreLoad - u.OreLoad
		bite := harvestBite
		if bite > room {
			bite = room
		}
		u.OreLoad += w.Ore.RemoveOre(here, bite)
		return delayDock
	}
}

// Return mission phases.
const (
	returnSeeking = iota
	returnDriving
	returnDocked
)

// missionReturn brings a loaded harvester home: raise the nearest friendly
// refinery, drive to it, dock, and let the refinery bank the load.
func (u *Unit) missionReturn(w *State) int {
	if u.OreLoad <= 0 {
		Transmit(w, u, RadioOverOut, nil, target.None)
		AssignMission(w, u, MissionHarvest)
		return delayCombat
	}

	switch u.Status {
	case returnSeeking:
		refinery := w.findRefinery(u.House, u.Pos)
		if refinery == nil {
			return delaySleep // nowhere to unload; wait for one to exist
		}
		if Transmit(w, u, RadioHello, nil, refinery.Self) != RadioRoger {
			return delayIdle // bay busy
		}
		Transmit(w, u, RadioDocking, nil, refinery.Self)
		u.Status = returnDriving
		return delayCombat

	case returnDriving:
		peer := w.RadioOf(u.Contact)
		if peer == nil {
			u.Status = returnSeeking
			return delayIdle
		}
		if CellDistance(u.Pos.Cell(), peer.Obj().Pos.Cell()) <= 1 {
			u.NavCom = target.None
			u.PathLen = 0
			// The refinery unloads us inside this exchange.
			if Transmit(w, u, RadioImIn, nil, peer.Obj().Self) == RadioRoger {
				u.Status = returnDocked
				return delayDock
			}
			u.Status = returnSeeking
			return delayIdle
		}
		if u.NavCom.IsNone() {
			w.AssignDestination(u, peer.Obj().Self)
		}
		return delayMove

	default: // docked; load already banked
		Transmit(w, u, RadioOverOut, nil, target.None)
		AssignMission(w, u, MissionHarvest)
		return delayDock
	}
}

// missionUnload discharges passengers one per dispatch into free cells
// around the transport, door open first.
func (u *Unit) missionUnload(w *State) int {
	if u.Cargo.Count() == 0 {
		u.Door.Close(doorRate)
		AssignMission(w, u, MissionGuard)
		return delayIdle
	}
	if !u.Door.IsOpen() {
		u.Door.Open(doorRate)
		return delayCombat
	}
	exit, ok := w.freeCellAround(u.Pos.Cell())
	if !ok {
		return delayIdle // surrounded; try again later
	}
	passenger := u.Cargo.DetachFirst()
	p := w.Resolve(passenger)
	if p != nil {
		w.Unlimbo(p, exit.Center())
		if m, ok := p.(Missioner); ok {
			AssignMission(w, m, MissionGuard)
		}
	}
	return delayDock
}

// findRefinery returns the nearest refinery owned by the house, ascending
// index breaking distance ties.
func (w *State) findRefinery(house int, near Coord) *Building {
	var best *Building
	var bestDist int32 = 1 << 30
	w.Buildings.EachActive(func(idx int, b *Building) bool {
		if b.InLimbo || !b.Type.Refinery || b.House != house {
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
