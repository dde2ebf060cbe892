package system

import (
	"time"

	coresys "github.com/ironvein/engine/internal/core/system"
	"github.com/ironvein/engine/internal/metrics"
	"github.com/ironvein/engine/internal/world"
)

// LogicSystem advances the world one frame: event delivery, then every kind
// pool in fixed order. Phase 2 (Update).
type LogicSystem struct {
	world *world.State
	m     *metrics.Metrics // optional
}

func NewLogicSystem(ws *world.State, m *metrics.Metrics) *LogicSystem {
	return &LogicSystem{world: ws, m: m}
}

func (s *LogicSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *LogicSystem) Update(_ time.Duration) {
	start := time.Now()
	s.world.Tick()
	if s.m != nil {
		s.m.TickSeconds.Observe(time.Since(start).Seconds())
	}
}
