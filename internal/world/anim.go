package world

import (
	"github.com/ironvein/engine/internal/core/target"
	"github.com/ironvein/engine/internal/data"
)

// Anim is a transient visual effect: an explosion, fire, smoke. Anims step
// through their frames on a fixed rate, optionally ride an attached entity,
// can burn whatever they are attached to, and may chain into a successor
// when they expire.
type Anim struct {
	ObjectState

	Type     *data.AnimType
	Attached target.Target
	Loops    int // loops remaining
	stage    Stage
}

func (a *Anim) Kind() target.Kind { return target.KindAnim }

func (a *Anim) start() {
	a.Loops = a.Type.Loops
	a.stage = Stage{}
	a.stage.Set(a.Type.Rate)
}

// Logic advances the effect one tick. Attached anims follow their host and
// die with it.
func (a *Anim) Logic(w *State) {
	if a.InLimbo {
		return
	}

	if !a.Attached.IsNone() {
		host := w.Resolve(a.Attached)
		if host == nil || host.Obj().InLimbo {
			w.DeleteObject(a)
			return
		}
		a.Pos = host.Obj().Pos
	}

	if !a.stage.Update() {
		return
	}

	// A frame elapsed. Burn the host, then check for loop end.
	if a.Type.Damage > 0 && !a.Attached.IsNone() {
		if host := w.Resolve(a.Attached); host != nil {
			wh := w.Rules.Warheads.Get(a.Type.Warhead)
			w.Damage(host, a.Type.Damage, 0, wh, target.None)
			if !w.IsValid(a.Self) {
				return // host death tore us down
			}
		}
	}

	if a.stage.Stage < a.Type.Stages {
		return
	}
	a.stage.Stage = 0
	a.Loops--
	if a.Loops > 0 {
		return
	}

	// Expired. Chain before the slot is recycled.
	chain := a.Type.Chain
	pos := a.Pos
	attached := a.Attached
	w.DeleteObject(a)
	if chain != "" {
		w.SpawnAnim(chain, pos, attached)
	}
}
