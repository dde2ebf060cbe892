package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironvein/engine/internal/core/target"
)

func TestAssignDestinationSameTargetKeepsPath(t *testing.T) {
	w, _ := newTestState(t)
	u, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})

	dest := w.TargetForCell(Cell{X: 10, Y: 5})
	w.AssignDestination(u, dest)
	require.True(t, w.BasicPath(u))
	require.Greater(t, u.PathLen, 0)
	before := u.PathLen

	w.AssignDestination(u, dest)
	assert.Equal(t, before, u.PathLen, "re-assigning the same destination keeps the route")

	w.AssignDestination(u, w.TargetForCell(Cell{X: 2, Y: 2}))
	assert.Equal(t, 0, u.PathLen, "a new destination clears the route")
}

func TestBasicPathFallsBackToStraightLine(t *testing.T) {
	w, _ := newTestState(t)
	w.Path = blockedPather{}
	u, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})

	w.AssignDestination(u, w.TargetForCell(Cell{X: 10, Y: 5}))
	require.True(t, w.BasicPath(u))
	assert.Equal(t, 1, u.PathLen)
	assert.Equal(t, FacingE, u.Path[0])
}

func TestBasicPathScrubsDeadDestination(t *testing.T) {
	w, _ := newTestState(t)
	u, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	victim, _ := w.CreateInfantry("rifleman", 1, Cell{X: 8, Y: 5})

	w.AssignDestination(u, victim.Self)
	w.DeleteObject(victim)
	assert.False(t, w.BasicPath(u))
	assert.True(t, u.NavCom.IsNone())
}

func TestDriveStepsTowardDestination(t *testing.T) {
	w, grid := newTestState(t)
	u, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	w.AssignDestination(u, w.TargetForCell(Cell{X: 6, Y: 5}))

	w.tickDrive(u)
	require.True(t, u.Driving)
	assert.Equal(t, Cell{X: 6, Y: 5}.Center(), u.HeadTo)
	assert.Equal(t, u.Self, grid.OccupierOf(Cell{X: 6, Y: 5}), "the next cell is reserved before the step")
	assert.Equal(t, u.Self, grid.OccupierOf(Cell{X: 5, Y: 5}), "the old cell stays held until arrival")

	// A cell is 256 leptons; at speed 40 the crossing takes several ticks.
	for i := 0; i < 20 && u.Driving; i++ {
		w.tickDrive(u)
	}
	require.False(t, u.Driving)
	assert.Equal(t, Cell{X: 6, Y: 5}, u.Pos.Cell())
	assert.Equal(t, target.None, grid.OccupierOf(Cell{X: 5, Y: 5}), "the old cell is released")
	assert.True(t, u.NavCom.IsNone(), "arrival clears the destination")
}

func TestDriveBlockedRetriesLater(t *testing.T) {
	w, grid := newTestState(t)
	u, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})

	// Wall off every cell around the destination approach.
	for y := int16(0); y < 32; y++ {
		grid.SetPassable(Cell{X: 6, Y: y}, false)
	}
	w.AssignDestination(u, w.TargetForCell(Cell{X: 7, Y: 5}))

	w.tickDrive(u)
	if u.PathLen > 0 {
		// The pather routed somewhere; force the straight step into the wall.
		u.Path[0] = FacingE
		u.PathLen = 1
		u.Driving = false
		w.tickDrive(u)
	}
	assert.False(t, u.Driving)
	assert.Equal(t, pathRetryDelay, u.PathDelay)
	assert.Equal(t, 0, u.PathLen)
}

func TestDriveWaitsBehindOccupiedCell(t *testing.T) {
	w, _ := newTestState(t)
	u, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	w.CreateUnit("digger", 0, Cell{X: 6, Y: 5}) // friendly roadblock

	w.AssignDestination(u, w.TargetForCell(Cell{X: 6, Y: 5}))
	u.Path[0] = FacingE
	u.PathLen = 1
	w.tickDrive(u)

	assert.False(t, u.Driving, "waits instead of entering an occupied cell")
	assert.Equal(t, blockedWaitTick, u.PathDelay)
	assert.Equal(t, 1, u.PathLen, "the route survives a temporary block")
}

func TestCrusherRunsOverEnemyInfantry(t *testing.T) {
	w, _ := newTestState(t)
	u, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	require.True(t, u.Type.Crusher)
	victim, _ := w.CreateInfantry("rifleman", 1, Cell{X: 6, Y: 5})

	w.AssignDestination(u, w.TargetForCell(Cell{X: 6, Y: 5}))
	u.Path[0] = FacingE
	u.PathLen = 1
	w.tickDrive(u)

	assert.True(t, u.Driving, "a crusher drives into the occupied cell")
	assert.Nil(t, w.Infantry.Get(victim.Self.Index()), "the infantry is crushed")
}

func TestCrusherSparesFriendlies(t *testing.T) {
	w, _ := newTestState(t)
	u, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	friend, _ := w.CreateInfantry("rifleman", 0, Cell{X: 6, Y: 5})

	w.AssignDestination(u, w.TargetForCell(Cell{X: 6, Y: 5}))
	u.Path[0] = FacingE
	u.PathLen = 1
	w.tickDrive(u)

	assert.False(t, u.Driving)
	assert.NotNil(t, w.Infantry.Get(friend.Self.Index()))
}

func TestProneHalvesSpeed(t *testing.T) {
	w, _ := newTestState(t)
	inf, _ := w.CreateInfantry("rifleman", 0, Cell{X: 5, Y: 5})

	require.Equal(t, inf.Speed, effectiveSpeed(inf))
	inf.Prone = true
	assert.Equal(t, inf.Speed/2, effectiveSpeed(inf))
}

func TestApproachTargetStandsOffAtRange(t *testing.T) {
	w, _ := newTestState(t)
	u, _ := w.CreateUnit("tank", 0, Cell{X: 2, Y: 2})
	enemy, _ := w.CreateUnit("tank", 1, Cell{X: 20, Y: 20})
	u.TarCom = enemy.Self

	w.ApproachTarget(u)
	require.False(t, u.NavCom.IsNone())
	dest, ok := w.TargetCoord(u.NavCom)
	require.True(t, ok)
	assert.LessOrEqual(t, Distance(dest, enemy.Pos), u.Primary.Range,
		"the standoff cell is within weapon range of the target")
	assert.NotEqual(t, enemy.Pos.Cell(), dest.Cell())
}

func TestApproachTargetKeepsExistingDestination(t *testing.T) {
	w, _ := newTestState(t)
	u, _ := w.CreateUnit("tank", 0, Cell{X: 2, Y: 2})
	enemy, _ := w.CreateUnit("tank", 1, Cell{X: 20, Y: 20})
	u.TarCom = enemy.Self

	pending := w.TargetForCell(Cell{X: 8, Y: 8})
	w.AssignDestination(u, pending)
	w.ApproachTarget(u)
	assert.Equal(t, pending, u.NavCom)
}

func TestStopMissionClearsOrders(t *testing.T) {
	w, _ := newTestState(t)
	u, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	enemy, _ := w.CreateUnit("tank", 1, Cell{X: 20, Y: 20})
	u.TarCom = enemy.Self
	w.AssignDestination(u, w.TargetForCell(Cell{X: 10, Y: 10}))

	AssignMission(w, u, MissionStop)
	CommenceMission(w, u)
	DispatchMission(w, u)

	assert.True(t, u.NavCom.IsNone())
	assert.True(t, u.TarCom.IsNone())
	assert.Equal(t, MissionGuard, u.Mis().Queue)
}
