package system

import (
	"strconv"
	"time"

	"github.com/ironvein/engine/internal/core/event"
	coresys "github.com/ironvein/engine/internal/core/system"
	"github.com/ironvein/engine/internal/metrics"
	"github.com/ironvein/engine/internal/world"
)

// MetricsSystem samples pool and house gauges after entity logic has run and
// counts simulation events as they drain. Phase 3 (PostUpdate).
type MetricsSystem struct {
	world *world.State
	m     *metrics.Metrics
}

func NewMetricsSystem(ws *world.State, m *metrics.Metrics) *MetricsSystem {
	s := &MetricsSystem{world: ws, m: m}
	event.Subscribe(ws.Bus, func(event.OrderIssued) {
		m.OrdersApplied.Inc()
	})
	event.Subscribe(ws.Bus, func(ev event.OreDelivered) {
		m.OreDelivered.Add(float64(ev.Amount))
	})
	event.Subscribe(ws.Bus, func(event.UnitKilled) {
		m.UnitsKilled.Inc()
	})
	return s
}

func (s *MetricsSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *MetricsSystem) Update(_ time.Duration) {
	w := s.world
	s.m.Frame.Set(float64(w.Frame))

	sample := func(kind string, active, free int) {
		s.m.ActiveByKind.WithLabelValues(kind).Set(float64(active))
		s.m.FreeByKind.WithLabelValues(kind).Set(float64(free))
	}
	sample("building", w.Buildings.ActiveCount(), w.Buildings.FreeCount())
	sample("infantry", w.Infantry.ActiveCount(), w.Infantry.FreeCount())
	sample("unit", w.Units.ActiveCount(), w.Units.FreeCount())
	sample("aircraft", w.Aircraft.ActiveCount(), w.Aircraft.FreeCount())
	sample("bullet", w.Bullets.ActiveCount(), w.Bullets.FreeCount())
	sample("anim", w.Anims.ActiveCount(), w.Anims.FreeCount())

	for _, h := range w.Houses {
		s.m.HouseCredits.WithLabelValues(strconv.Itoa(h.ID)).Set(float64(h.Credits))
	}
}
