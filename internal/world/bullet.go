package world

import (
	"github.com/ironvein/engine/internal/core/target"
	"github.com/ironvein/engine/internal/data"
)

// Bullet is a projectile in flight. Bullets are not mission driven; Logic
// runs their whole life every tick. They never occupy cells and never appear
// in threat scans.
type Bullet struct {
	ObjectState

	Type    *data.BulletType
	Payload *data.WarheadType
	Damage  int           // base damage at zero distance
	Firer   target.Target // credited with the kill
	TarCom  target.Target // homing target; also the aim point memory
	AimPos  Coord         // where the shot was aimed, for dumb projectiles
	Facing  DirType
	Fuel    int
}

func (b *Bullet) Kind() target.Kind { return target.KindBullet }

// Logic flies the projectile one tick: steer if homing, advance, then check
// the fuse. Detonation frees the bullet within the same tick.
func (b *Bullet) Logic(w *State) {
	if b.InLimbo {
		return
	}

	aim := b.AimPos
	if b.Type.Homing && w.IsValid(b.TarCom) {
		if at, ok := w.TargetCoord(b.TarCom); ok {
			aim = at
			b.AimPos = at
		}
	}

	want := DirectionTo(b.Pos, aim)
	if b.Type.Homing && b.Type.ROT > 0 {
		b.Facing = turnToward(b.Facing, want, b.Type.ROT)
	} else {
		b.Facing = want
	}

	step := b.Type.Speed
	if dist := Distance(b.Pos, aim); dist < step {
		step = dist
	}
	b.Pos = b.Pos.Move(b.Facing.Facing(), step)

	// Fuse checks: proximity or contact with the aim point first, then the
	// hard fuel timeout. Arcing shots only burst on arrival.
	trigger := b.Type.Proximity
	if trigger <= 0 {
		trigger = LeptonsPerCell / 4
	}
	if Distance(b.Pos, aim) <= trigger && !b.Type.Arcing {
		w.detonate(b)
		return
	}
	if b.Pos.Cell() == aim.Cell() {
		w.detonate(b)
		return
	}
	b.Fuel--
	if b.Fuel <= 0 {
		w.detonate(b)
	}
}

// turnToward rotates a facing toward a goal by at most rate steps, taking
// the short way around the circle.
func turnToward(cur, want DirType, rate int) DirType {
	diff := int(int8(want - cur)) // signed shortest arc
	if diff > rate {
		diff = rate
	} else if diff < -rate {
		diff = -rate
	}
	return cur + DirType(diff)
}

// detonate applies the warhead around the burst point and removes the
// bullet. The homing target takes the direct hit; everything standing in the
// surrounding cells takes splash scaled by distance.
func (w *State) detonate(b *Bullet) {
	pos := b.Pos
	if b.Type.Explosion != "" {
		w.SpawnAnim(b.Type.Explosion, pos, target.None)
	}

	hit := map[target.Target]bool{b.Self: true}
	if o := w.Resolve(b.TarCom); o != nil && !o.Obj().InLimbo {
		hit[b.TarCom] = true
		w.Damage(o, b.Damage, Distance(pos, o.Obj().Pos), b.Payload, b.Firer)
	}

	// Splash sweeps the 3x3 around the burst cell in row order.
	center := pos.Cell()
	for dy := int16(-1); dy <= 1; dy++ {
		for dx := int16(-1); dx <= 1; dx++ {
			c := Cell{X: center.X + dx, Y: center.Y + dy}
			occ := w.Map.OccupierOf(c)
			if occ.IsNone() || hit[occ] {
				continue
			}
			hit[occ] = true
			if o := w.Resolve(occ); o != nil && !o.Obj().InLimbo {
				w.Damage(o, b.Damage, Distance(pos, o.Obj().Pos), b.Payload, b.Firer)
			}
		}
	}

	w.DeleteObject(b)
}
