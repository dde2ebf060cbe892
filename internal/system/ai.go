package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/ironvein/engine/internal/command"
	coresys "github.com/ironvein/engine/internal/core/system"
	"github.com/ironvein/engine/internal/core/target"
	"github.com/ironvein/engine/internal/scripting"
	"github.com/ironvein/engine/internal/world"
)

// HouseAISystem runs computer-controlled houses via Lua: Go packs the
// situation report and executes the decision, Lua holds all the strategy.
// Runs every interval ticks, houses in registration order. Phase 1 (AI).
type HouseAISystem struct {
	world    *world.State
	engine   *scripting.Engine
	queue    *command.Queue
	interval int64
	log      *zap.Logger
}

func NewHouseAISystem(ws *world.State, engine *scripting.Engine, queue *command.Queue, interval int64, log *zap.Logger) *HouseAISystem {
	if interval < 1 {
		interval = 1
	}
	return &HouseAISystem{world: ws, engine: engine, queue: queue, interval: interval, log: log}
}

func (s *HouseAISystem) Phase() coresys.Phase { return coresys.PhaseAI }

func (s *HouseAISystem) Update(_ time.Duration) {
	if s.engine == nil || s.world.Frame%s.interval != 0 {
		return
	}
	for _, h := range s.world.Houses {
		if h.Human {
			continue
		}
		ctx := s.survey(h.ID)
		s.execute(h.ID, s.engine.DecideHouse(ctx))
	}
}

// survey packs a house's situation for the script.
func (s *HouseAISystem) survey(house int) scripting.HouseContext {
	w := s.world
	h := w.HouseByID(house)
	ctx := scripting.HouseContext{
		HouseID:     house,
		Credits:     h.Credits,
		PowerOutput: h.PowerOutput,
		PowerDrain:  h.PowerDrain,
	}

	w.Buildings.EachActive(func(_ int, b *world.Building) bool {
		if b.House != house {
			if !h.IsAllied(b.House) {
				ctx.EnemyCount++
			}
			return true
		}
		ctx.Buildings++
		if b.Type.Refinery {
			ctx.Refineries++
		}
		if b.Producing == "" && b.Mission != world.MissionConstruction {
			switch b.Type.Factory {
			case "infantry":
				ctx.InfantryFactoryFree = true
			case "unit":
				ctx.UnitFactoryFree = true
			case "aircraft":
				ctx.AircraftFactoryFree = true
			}
		}
		return true
	})
	w.Infantry.EachActive(func(_ int, i *world.Infantry) bool {
		if i.House == house {
			ctx.Infantry++
			if i.Mission == world.MissionGuard {
				ctx.IdleDefenders++
			}
		} else if !h.IsAllied(i.House) {
			ctx.EnemyCount++
		}
		return true
	})
	w.Units.EachActive(func(_ int, u *world.Unit) bool {
		if u.House == house {
			ctx.Units++
			if u.Type.Harvester {
				ctx.Harvesters++
			} else if u.Mission == world.MissionGuard {
				ctx.IdleDefenders++
			}
		} else if !h.IsAllied(u.House) {
			ctx.EnemyCount++
		}
		return true
	})
	w.Aircraft.EachActive(func(_ int, a *world.Aircraft) bool {
		if a.House == house {
			ctx.Aircraft++
		} else if !h.IsAllied(a.House) {
			ctx.EnemyCount++
		}
		return true
	})
	return ctx
}

// execute turns a script decision into queued orders, the same mailbox
// player orders go through, so AI and human actions replay identically.
func (s *HouseAISystem) execute(house int, d scripting.HouseDecision) {
	w := s.world

	if d.ProduceType != "" {
		if slot := s.freeFactory(house, d.ProduceKind); !slot.IsNone() {
			s.queue.Push(command.Order{
				House:    house,
				Kind:     command.KindProduce,
				Subject:  slot,
				TypeName: d.ProduceType,
			})
		}
	}

	if d.Attack || d.Retreat {
		kind := command.KindHunt
		if d.Retreat {
			kind = command.KindRetreat
		}
		w.Infantry.EachActive(func(_ int, i *world.Infantry) bool {
			if i.House == house && i.Mission == world.MissionGuard {
				s.queue.Push(command.Order{House: house, Kind: kind, Subject: i.Self})
			}
			return true
		})
		w.Units.EachActive(func(_ int, u *world.Unit) bool {
			if u.House == house && !u.Type.Harvester && u.Mission == world.MissionGuard {
				s.queue.Push(command.Order{House: house, Kind: kind, Subject: u.Self})
			}
			return true
		})
	}
}

// freeFactory finds the lowest-slot idle factory of the wanted kind.
func (s *HouseAISystem) freeFactory(house int, kind string) target.Target {
	var found target.Target = target.None
	s.world.Buildings.EachActive(func(_ int, b *world.Building) bool {
		if b.House == house && b.Type.Factory == kind &&
			b.Producing == "" && b.Mission != world.MissionConstruction {
			found = b.Self
			return false
		}
		return true
	})
	return found
}
