package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/ironvein/engine/internal/command"
	"github.com/ironvein/engine/internal/core/event"
	coresys "github.com/ironvein/engine/internal/core/system"
	"github.com/ironvein/engine/internal/world"
)

// OrderSink receives every accepted order, tagged with the frame it applied
// on. The replay log implements it; nil disables recording.
type OrderSink interface {
	Append(frame int64, o command.Order)
}

// InputSystem drains the order queue and applies each order to the world.
// Orders apply in arrival order at the top of the tick, before any entity
// logic runs, which is what makes a recorded order stream replayable.
// Phase 0 (Input).
type InputSystem struct {
	world *world.State
	queue *command.Queue
	sink  OrderSink
	log   *zap.Logger
}

func NewInputSystem(ws *world.State, queue *command.Queue, sink OrderSink, log *zap.Logger) *InputSystem {
	return &InputSystem{world: ws, queue: queue, sink: sink, log: log}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	for _, o := range s.queue.Drain() {
		if !s.apply(o) {
			s.log.Debug("order rejected",
				zap.String("kind", o.Kind.String()),
				zap.Int("house", o.House))
			continue
		}
		event.Emit(s.world.Bus, event.OrderIssued{House: o.House, Subject: o.Subject})
		if s.sink != nil {
			s.sink.Append(s.world.Frame, o)
		}
	}
}

// kindMissions maps the plain "set a mission" orders.
var kindMissions = map[command.Kind]world.Mission{
	command.KindStop:      world.MissionStop,
	command.KindGuard:     world.MissionGuard,
	command.KindGuardArea: world.MissionGuardArea,
	command.KindHunt:      world.MissionHunt,
	command.KindHarvest:   world.MissionHarvest,
	command.KindReturn:    world.MissionReturn,
	command.KindUnload:    world.MissionUnload,
	command.KindRetreat:   world.MissionRetreat,
	command.KindSell:      world.MissionDeconstruction,
	command.KindRepair:    world.MissionRepair,
}

func (s *InputSystem) apply(o command.Order) bool {
	w := s.world

	if o.Kind == command.KindPlace {
		return s.applyPlace(o)
	}

	subj := w.Resolve(o.Subject)
	if subj == nil {
		return false
	}
	tech, isTechno := subj.(world.TechnoLike)
	if !isTechno || tech.Tech().House != o.House {
		return false // not yours to command
	}
	m, isMissioner := subj.(world.Missioner)
	if !isMissioner {
		return false
	}

	switch o.Kind {
	case command.KindMove:
		f, ok := subj.(world.FootLike)
		if !ok || !w.IsValid(o.Target) {
			return false
		}
		w.AssignDestination(f, o.Target)
		world.AssignMission(w, m, world.MissionMove)
		return true

	case command.KindAttack:
		if !w.IsValid(o.Target) {
			return false
		}
		tech.Tech().TarCom = o.Target
		world.AssignMission(w, m, world.MissionAttack)
		return true

	case command.KindScatter:
		f, ok := subj.(world.FootLike)
		if !ok || !w.Scatter(f) {
			return false
		}
		world.AssignMission(w, m, world.MissionMove)
		return true

	case command.KindEnter, command.KindCapture:
		f, ok := subj.(world.FootLike)
		if !ok || !w.IsValid(o.Target) {
			return false
		}
		if o.Kind == command.KindCapture {
			tech.Tech().TarCom = o.Target
			world.AssignMission(w, m, world.MissionCapture)
		} else {
			w.AssignDestination(f, o.Target)
			world.AssignMission(w, m, world.MissionEnter)
		}
		return true

	case command.KindProduce:
		b, ok := subj.(*world.Building)
		if !ok {
			return false
		}
		return s.applyProduce(b, o)

	default:
		mission, ok := kindMissions[o.Kind]
		if !ok {
			return false
		}
		world.AssignMission(w, m, mission)
		return true
	}
}

// productionTicks converts a credit cost into build time.
func productionTicks(cost int) int {
	ticks := cost / 2
	if ticks < world.TicksPerSecond {
		ticks = world.TicksPerSecond
	}
	return ticks
}

func (s *InputSystem) applyProduce(b *world.Building, o command.Order) bool {
	w := s.world
	h := w.HouseByID(o.House)
	if h == nil {
		return false
	}
	cost := 0
	switch b.Type.Factory {
	case "infantry":
		t := w.Rules.Infantry.Get(o.TypeName)
		if t == nil {
			return false
		}
		cost = t.Cost
	case "unit":
		t := w.Rules.Units.Get(o.TypeName)
		if t == nil {
			return false
		}
		cost = t.Cost
	case "aircraft":
		t := w.Rules.Aircraft.Get(o.TypeName)
		if t == nil {
			return false
		}
		cost = t.Cost
	default:
		return false
	}
	if h.Credits < cost {
		return false
	}
	if !b.StartProduction(w, o.TypeName, productionTicks(cost)) {
		return false
	}
	h.Credits -= cost
	return true
}

func (s *InputSystem) applyPlace(o command.Order) bool {
	w := s.world
	h := w.HouseByID(o.House)
	if h == nil {
		return false
	}
	bt := w.Rules.Buildings.Get(o.TypeName)
	if bt == nil || h.Credits < bt.Cost {
		return false
	}
	cell := world.Cell{X: o.CellX, Y: o.CellY}
	if !w.Map.InBounds(cell) || w.Map.CanEnterCell(cell, world.MoveFoot) != world.MoveOK {
		return false
	}
	if _, ok := w.ConstructBuilding(o.TypeName, o.House, cell); !ok {
		return false
	}
	h.Credits -= bt.Cost
	return true
}
