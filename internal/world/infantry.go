package world

import (
	"github.com/ironvein/engine/internal/core/target"
	"github.com/ironvein/engine/internal/data"
)

// Fear tuning. A hit adds fearPerHit plus the damage dealt; fear drains one
// point per tick. Crossing fearPanic drops the soldier prone, which halves
// speed but also halves incoming small-arms exposure in the field.
const (
	fearMax    = 255
	fearPanic  = 200
	fearCalm   = 10
	fearPerHit = 30
)

// Infantry is a single soldier.
type Infantry struct {
	ObjectState
	MissionState
	RadioState
	TechnoState
	FootState

	Type  *data.InfantryType
	Fear  int
	Prone bool
}

func (i *Infantry) Kind() target.Kind { return target.KindInfantry }

// AddFear raises the fear level, clamped, and drops the soldier prone past
// the panic threshold. Fearless types never accumulate fear.
func (i *Infantry) AddFear(amount int) {
	if i.Type.Fearless {
		return
	}
	i.Fear += amount
	if i.Fear > fearMax {
		i.Fear = fearMax
	}
	if i.Fear >= fearPanic {
		i.Prone = true
	}
}

// tickFear drains fear and stands the soldier back up once calm.
func (i *Infantry) tickFear() {
	if i.Fear > 0 {
		i.Fear--
	}
	if i.Prone && i.Fear < fearCalm {
		i.Prone = false
	}
}

// HandleMission redirects the engineer's combat orders to capture, then
// defers to the mobile layer.
func (i *Infantry) HandleMission(w *State, mission Mission) int {
	if i.Type.Engineer {
		switch mission {
		case MissionAttack:
			// Engineers take buildings instead of shooting at them.
			if _, ok := w.Resolve(i.TarCom).(*Building); ok {
				AssignMission(w, i, MissionCapture)
				return delayCombat
			}
		case MissionHunt, MissionTimedHunt:
			if t := w.huntCapturable(i); !t.IsNone() {
				i.TarCom = t
				AssignMission(w, i, MissionCapture)
				return delayCombat
			}
			return delaySleep
		}
	}
	return footMission(w, i, mission)
}

// huntCapturable scans for the nearest enemy structure an engineer can take,
// ascending index so the pick is reproducible.
func (w *State) huntCapturable(i *Infantry) target.Target {
	var best target.Target = target.None
	var bestDist int32 = 1 << 30
	w.Buildings.EachActive(func(idx int, b *Building) bool {
		if b.InLimbo || !b.Type.Capturable {
			return true
		}
		if h := w.HouseByID(i.House); h != nil && h.IsAllied(b.House) {
			return true
		}
		d := Distance(i.Pos, b.Pos)
		if d < bestDist {
			bestDist = d
			best = b.Self
		}
		return true
	})
	return best
}
