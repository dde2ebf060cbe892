package world

import (
	"go.uber.org/zap"

	"github.com/ironvein/engine/internal/core/event"
	"github.com/ironvein/engine/internal/core/target"
	"github.com/ironvein/engine/internal/data"
)

// BState is a structure's animation and activity phase.
type BState uint8

const (
	BStateConstruction BState = iota
	BStateIdle
	BStateActive // attacking, producing, or servicing a docked unit
	BStateFull   // refinery holding a docked harvester
	BStateAux1
	BStateAux2
)

const repairStepHP = 5

// repairCostPer is credits per repair step.
const repairCostPer = 1

// Building is a placed structure. Buildings never move; their mission set is
// the static one (construction, production, repair, guard fire) and their
// radio side runs the docking bays.
type Building struct {
	ObjectState
	MissionState
	RadioState
	TechnoState

	Type  *data.BuildingType
	State BState

	// Factory production.
	Producing  string // type name under production, empty = idle
	BuildTicks int    // ticks remaining

	// Refinery / helipad docking.
	Docked target.Target
}

func (b *Building) Kind() target.Kind { return target.KindBuilding }

// CanCommence refuses new missions while the structure is still being built.
// Selling is the one exception; an unfinished structure may be torn back down.
func (b *Building) CanCommence(w *State) bool {
	return b.State != BStateConstruction || b.Queue == MissionDeconstruction
}

// ReceiveMessage runs the docking bay protocol on top of the default
// handshake. Only refineries and helipads service callers; everything else
// falls through.
func (b *Building) ReceiveMessage(w *State, from RadioLike, msg RadioMessage, param *int) RadioMessage {
	if !b.Type.Refinery && !b.Type.Helipad {
		return b.RadioState.ReceiveMessage(w, from, msg, param)
	}
	sender := from.Obj().Self
	switch msg {
	case RadioHello:
		// One bay: refuse while another unit is docked or inbound.
		if !b.Docked.IsNone() && b.Docked != sender {
			return RadioCant
		}
		return b.RadioState.ReceiveMessage(w, from, msg, param)
	case RadioDocking:
		if b.Contact != sender {
			return RadioStatic
		}
		b.State = BStateActive
		return RadioRoger
	case RadioImIn:
		if b.Contact != sender {
			return RadioStatic
		}
		b.Docked = sender
		b.State = BStateFull
		if b.Type.Refinery {
			if u, ok := from.(*Unit); ok && u.Type.Harvester {
				w.unloadOre(b, u)
			}
		}
		return RadioRoger
	case RadioOverOut:
		if b.Docked == sender {
			b.Docked = target.None
			b.State = BStateIdle
		}
		return b.RadioState.ReceiveMessage(w, from, msg, param)
	default:
		return b.RadioState.ReceiveMessage(w, from, msg, param)
	}
}

// unloadOre banks a docked harvester's load with its house.
func (w *State) unloadOre(b *Building, u *Unit) {
	if u.OreLoad <= 0 {
		return
	}
	h := w.HouseByID(u.House)
	if h != nil {
		h.Credits += u.OreLoad
		event.Emit(w.Bus, event.OreDelivered{House: u.House, Amount: u.OreLoad})
	}
	u.OreLoad = 0
}

// HandleMission is the structure mission set. Unhandled missions fall to the
// techno layer, which covers turret guard fire.
func (b *Building) HandleMission(w *State, mission Mission) int {
	switch mission {
	case MissionConstruction:
		// Scaffolding rises: strength climbs from the placement sliver to
		// full over the build time.
		step := b.MaxStrength / b.Type.BuildTime
		if step < 1 {
			step = 1
		}
		b.Strength += step
		if b.Strength >= b.MaxStrength {
			b.Strength = b.MaxStrength
			b.State = BStateIdle
			AssignMission(w, b, MissionGuard)
			return delayIdle
		}
		return delayCombat

	case MissionDeconstruction:
		// Selling: strength winds down, then the structure is refunded
		// and removed.
		step := b.MaxStrength / b.Type.BuildTime
		if step < 1 {
			step = 1
		}
		b.Strength -= step
		if b.Strength <= 0 {
			if h := w.HouseByID(b.House); h != nil {
				h.Credits += b.Type.Cost / 2 // partial refund
			}
			w.DeleteObject(b)
			return delayIdle
		}
		return delayCombat

	case MissionRepair:
		if b.Strength >= b.MaxStrength {
			AssignMission(w, b, MissionGuard)
			return delayIdle
		}
		h := w.HouseByID(b.House)
		if h == nil || h.Credits < repairCostPer {
			return delayIdle // broke; keep the mission, wait for funds
		}
		h.Credits -= repairCostPer
		b.Strength += repairStepHP
		if b.Strength > b.MaxStrength {
			b.Strength = b.MaxStrength
		}
		return delayCombat

	case MissionMissile:
		// Superweapon charge cycle. Status counts launch readiness.
		b.Status++
		return delaySleep

	case MissionGuard, MissionGuardArea:
		b.tickProduction(w)
		if b.Type.Primary == "" {
			return delayIdle
		}
		return technoMission(w, b, mission)

	default:
		return technoMission(w, b, mission)
	}
}

// CanProduce reports whether the factory can start on the named type.
func (b *Building) CanProduce(w *State, typeName string) bool {
	if b.Type.Factory == "" || b.Producing != "" || b.InLimbo {
		return false
	}
	switch b.Type.Factory {
	case "infantry":
		return w.Rules.Infantry.Get(typeName) != nil
	case "unit":
		return w.Rules.Units.Get(typeName) != nil
	case "aircraft":
		return w.Rules.Aircraft.Get(typeName) != nil
	default:
		return false
	}
}

// StartProduction queues one item of the named type.
func (b *Building) StartProduction(w *State, typeName string, ticks int) bool {
	if !b.CanProduce(w, typeName) {
		return false
	}
	if ticks < 1 {
		ticks = 1
	}
	b.Producing = typeName
	b.BuildTicks = ticks
	b.State = BStateActive
	return true
}

// tickProduction advances the factory and ejects the finished item at the
// first free cell around the structure.
func (b *Building) tickProduction(w *State) {
	if b.Producing == "" {
		return
	}
	b.BuildTicks--
	if b.BuildTicks > 0 {
		return
	}
	name := b.Producing
	b.Producing = ""
	if b.State == BStateActive {
		b.State = BStateIdle
	}
	exit, ok := w.freeCellAround(b.Pos.Cell())
	if !ok {
		w.Log.Warn("工廠出口受阻",
			zap.String("building", b.Type.Name), zap.String("producing", name))
		return
	}
	switch b.Type.Factory {
	case "infantry":
		w.CreateInfantry(name, b.House, exit)
	case "unit":
		w.CreateUnit(name, b.House, exit)
	case "aircraft":
		w.CreateAircraft(name, b.House, exit)
	}
}

// CaptureBuilding hands a structure to another house. The radio contact and
// any production in flight do not survive the change of ownership.
func (w *State) CaptureBuilding(b *Building, house int) {
	if old := w.HouseByID(b.House); old != nil {
		old.Losses++
		old.PowerOutput -= b.Type.Power
		old.PowerDrain -= b.Type.Drain
	}
	if next := w.HouseByID(house); next != nil {
		next.PowerOutput += b.Type.Power
		next.PowerDrain += b.Type.Drain
	}
	Transmit(w, b, RadioOverOut, nil, target.None)
	b.Docked = target.None
	b.Producing = ""
	b.BuildTicks = 0
	b.TarCom = target.None
	b.House = house
	w.Log.Info("建築已被佔領",
		zap.String("building", b.Type.Name), zap.Int("house", house))
}
