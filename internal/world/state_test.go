package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironvein/engine/internal/core/event"
	"github.com/ironvein/engine/internal/core/target"
)

func TestCellTargetRoundTrip(t *testing.T) {
	w, _ := newTestState(t)
	for _, c := range []Cell{{X: 0, Y: 0}, {X: 31, Y: 31}, {X: 7, Y: 23}} {
		tgt := w.TargetForCell(c)
		assert.Equal(t, target.KindCell, tgt.Kind())
		assert.Equal(t, c, cellOfTarget(tgt))
		assert.True(t, w.IsValid(tgt))
		pos, ok := w.TargetCoord(tgt)
		require.True(t, ok)
		assert.Equal(t, c.Center(), pos)
	}

	off := w.TargetForCell(Cell{X: 40, Y: 40})
	assert.False(t, w.IsValid(off), "out of bounds cell is not a valid target")
	_, ok := w.TargetCoord(off)
	assert.False(t, ok)
}

func TestResolveAndSurfaces(t *testing.T) {
	w, _ := newTestState(t)
	u, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	b, _ := w.CreateBuilding("power_plant", 0, Cell{X: 10, Y: 10})

	assert.Equal(t, u, w.Resolve(u.Self))
	assert.Equal(t, b, w.Resolve(b.Self))
	assert.Nil(t, w.Resolve(target.None))

	assert.NotNil(t, w.TechnoOf(u.Self))
	assert.NotNil(t, w.FootOf(u.Self))
	assert.NotNil(t, w.TechnoOf(b.Self))
	assert.Nil(t, w.FootOf(b.Self), "buildings do not move")
	assert.Nil(t, w.TechnoOf(w.TargetForCell(Cell{X: 1, Y: 1})))
}

func TestTargetCoordLimbo(t *testing.T) {
	w, _ := newTestState(t)
	u, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	_, ok := w.TargetCoord(u.Self)
	require.True(t, ok)

	w.Limbo(u)
	_, ok = w.TargetCoord(u.Self)
	assert.False(t, ok, "a limboed entity has no map position")
}

func TestDetachScrubsEveryReference(t *testing.T) {
	w, _ := newTestState(t)
	victim, _ := w.CreateUnit("tank", 1, Cell{X: 7, Y: 5})
	hunter, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	refinery, _ := w.CreateBuilding("refinery", 1, Cell{X: 15, Y: 15})

	hunter.TarCom = victim.Self
	w.AssignDestination(hunter, victim.Self)
	hunter.PathLen = 3
	refinery.Docked = victim.Self
	refinery.State = BStateFull
	shot := w.FireAt(hunter, victim.Self, 0)
	require.False(t, shot.IsNone())
	anim := w.SpawnAnim("fire", victim.Pos, victim.Self)
	require.False(t, anim.IsNone())

	w.Detach(victim.Self)

	assert.True(t, hunter.TarCom.IsNone())
	assert.True(t, hunter.NavCom.IsNone())
	assert.Equal(t, 0, hunter.PathLen)
	assert.True(t, refinery.Docked.IsNone())
	assert.Equal(t, BStateIdle, refinery.State)
	bullet := w.Bullets.Get(shot.Index())
	require.NotNil(t, bullet)
	assert.True(t, bullet.TarCom.IsNone())
	burn := w.Anims.Get(anim.Index())
	require.NotNil(t, burn)
	assert.True(t, burn.Attached.IsNone())
}

func TestPoolExhaustedEvent(t *testing.T) {
	grid := NewGridMap(16, 16)
	w := NewState(Options{
		Rules: testRules(t),
		Map:   grid,
		Ore:   grid,
		Seed:  1,
		Units: 1,
	})
	w.AddHouse(NewHouse(0, "player"))

	var exhausted []target.Kind
	event.Subscribe(w.Bus, func(ev event.PoolExhausted) {
		exhausted = append(exhausted, ev.Kind)
	})

	_, ok := w.CreateUnit("tank", 0, Cell{X: 1, Y: 1})
	require.True(t, ok)
	_, ok = w.CreateUnit("tank", 0, Cell{X: 2, Y: 2})
	require.False(t, ok)

	w.Tick() // events deliver on the next frame
	require.Len(t, exhausted, 1)
	assert.Equal(t, target.KindUnit, exhausted[0])
}

func TestTickAdvancesFrame(t *testing.T) {
	w, _ := newTestState(t)
	require.EqualValues(t, 0, w.Frame)
	w.Tick()
	w.Tick()
	assert.EqualValues(t, 2, w.Frame)
}

func TestHomeCell(t *testing.T) {
	w, _ := newTestState(t)
	assert.Equal(t, Cell{}, w.homeCell(0), "no structures, no rally point")

	w.CreateBuilding("power_plant", 1, Cell{X: 3, Y: 3})
	first, _ := w.CreateBuilding("power_plant", 0, Cell{X: 8, Y: 8})
	w.CreateBuilding("barracks", 0, Cell{X: 12, Y: 12})

	assert.Equal(t, first.Pos.Cell(), w.homeCell(0), "first own structure in slot order wins")
}

func TestDestroyBailsOutCargo(t *testing.T) {
	w, _ := newTestState(t)
	carrier, _ := w.CreateUnit("carrier", 0, Cell{X: 5, Y: 5})
	rider, _ := w.CreateInfantry("rifleman", 0, Cell{X: 6, Y: 5})

	w.Limbo(rider)
	require.True(t, carrier.Cargo.Attach(rider.Self))

	w.Destroy(carrier, target.None)

	assert.Nil(t, w.Units.Get(carrier.Self.Index()))
	survivor := w.Infantry.Get(rider.Self.Index())
	require.NotNil(t, survivor)
	assert.False(t, survivor.InLimbo, "the passenger bails out beside the wreck")
	assert.LessOrEqual(t, CellDistance(survivor.Pos.Cell(), Cell{X: 5, Y: 5}), 1)
}

func TestSpawnBulletScatterIsSeeded(t *testing.T) {
	aims := make([]Coord, 2)
	for trial := range aims {
		w, _ := newTestState(t)
		u, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
		enemy, _ := w.CreateInfantry("rifleman", 1, Cell{X: 8, Y: 5})

		// Missiles are accurate; force the scatter branch.
		bt := w.Rules.Bullets.Get("missile")
		require.NotNil(t, bt)
		bt.Inaccurate = true

		shot := w.SpawnBullet(u, u.Primary, enemy.Self)
		require.False(t, shot.IsNone())
		aims[trial] = w.Bullets.Get(shot.Index()).AimPos
	}
	assert.Equal(t, aims[0], aims[1], "same seed, same scatter")
}

func TestSpawnAnimUnknownName(t *testing.T) {
	w, _ := newTestState(t)
	assert.True(t, w.SpawnAnim("no_such_effect", Cell{X: 1, Y: 1}.Center(), target.None).IsNone())
	assert.Equal(t, 0, w.Anims.ActiveCount())
}

func TestReseedFoldsFrame(t *testing.T) {
	w, _ := newTestState(t)
	w.Tick()
	w.Tick()
	w.reseed()
	a := w.Rand.Int63()

	w2, _ := newTestState(t)
	w2.reseed()
	b := w2.Rand.Int63()
	assert.NotEqual(t, a, b, "the frame is folded into the restart seed")
}

// Tick walks the pools in a fixed kind order: buildings, infantry, units,
// aircraft, bullets, anims. Everything an earlier pass spawns still acts on
// its birth frame; what a later pass spawns waits for the next one. All
// three scenes run in a single tick, far enough apart not to see each other.
func TestTickKindOrder(t *testing.T) {
	w, _ := newTestState(t)

	// A factory finishing this frame: the recruit steps out during the
	// building pass and is dispatched by the infantry pass right after.
	barracks, _ := w.CreateBuilding("barracks", 0, Cell{X: 3, Y: 3})
	require.True(t, barracks.StartProduction(w, "rifleman", 1))

	// A rifle round at point-blank range crosses the whole cell in one
	// step, so the shot fired in the infantry pass lands in the bullet pass
	// of the same frame.
	shooter, _ := w.CreateInfantry("rifleman", 0, Cell{X: 3, Y: 20})
	mark, _ := w.CreateUnit("tank", 1, Cell{X: 4, Y: 20})
	mark.TarCom = target.None // hold fire; only the rifleman shoots here
	AssignMission(w, mark, MissionSleep)
	shooter.TarCom = mark.Self
	AssignMission(w, shooter, MissionAttack)
	shooter.Timer = 0

	// A missile bursting this frame: its explosion spawns in the bullet
	// pass and burns its first tick in the anim pass right after.
	gunner, _ := w.CreateUnit("tank", 0, Cell{X: 20, Y: 3})
	victim, _ := w.CreateInfantry("rifleman", 1, Cell{X: 21, Y: 3})
	AssignMission(w, victim, MissionSleep)
	gunner.TarCom = victim.Self
	AssignMission(w, gunner, MissionAttack)
	gunner.Timer = 0

	markHP, victimHP := mark.Strength, victim.Strength
	before := w.Infantry.ActiveCount()

	w.Tick()

	recruit := w.Infantry.Get(2) // slots 0 and 1 hold the two riflemen above
	require.NotNil(t, recruit, "production ejected the recruit")
	assert.Equal(t, before+1, w.Infantry.ActiveCount())
	assert.Greater(t, recruit.Timer, 0, "the recruit was dispatched on its birth frame")

	assert.Greater(t, shooter.Rearm, 0, "the rifleman fired")
	assert.Less(t, mark.Strength, markHP, "the round landed on the frame it was fired")

	assert.Less(t, victim.Strength, victimHP)
	var blast *Anim
	w.Anims.EachActive(func(_ int, a *Anim) bool {
		blast = a
		return false
	})
	require.NotNil(t, blast, "the burst spawned its explosion")
	_, rate, timer := blast.stage.Snapshot()
	assert.Equal(t, rate-1, timer, "the explosion ran its first tick on its birth frame")
}
