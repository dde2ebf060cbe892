package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFearClampsAndPanics(t *testing.T) {
	w, _ := newTestState(t)
	inf, _ := w.CreateInfantry("rifleman", 0, Cell{X: 5, Y: 5})

	inf.AddFear(fearPerHit)
	assert.Equal(t, fearPerHit, inf.Fear)
	assert.False(t, inf.Prone)

	inf.AddFear(1000)
	assert.Equal(t, fearMax, inf.Fear, "fear saturates")
	assert.True(t, inf.Prone, "panic drops the soldier prone")
}

func TestFearlessNeverPanics(t *testing.T) {
	w, _ := newTestState(t)
	zealot, _ := w.CreateInfantry("zealot", 0, Cell{X: 5, Y: 5})

	zealot.AddFear(1000)
	assert.Equal(t, 0, zealot.Fear)
	assert.False(t, zealot.Prone)
}

func TestFearDrainsAndStandsBackUp(t *testing.T) {
	w, _ := newTestState(t)
	inf, _ := w.CreateInfantry("rifleman", 0, Cell{X: 5, Y: 5})
	inf.Fear = fearCalm + 2
	inf.Prone = true

	inf.tickFear()
	assert.Equal(t, fearCalm+1, inf.Fear)
	assert.True(t, inf.Prone, "still too rattled to stand")

	inf.tickFear()
	inf.tickFear()
	assert.True(t, inf.Fear < fearCalm)
	assert.False(t, inf.Prone, "calm again, back on its feet")
}

func TestDamageFrightensInfantry(t *testing.T) {
	w, _ := newTestState(t)
	inf, _ := w.CreateInfantry("rifleman", 0, Cell{X: 5, Y: 5})
	wh := w.Rules.Warheads.Get("ball")

	w.Damage(inf, 10, 0, wh, inf.Self)
	assert.Greater(t, inf.Fear, 0, "taking fire raises fear")
}

func TestEngineerAttackBecomesCapture(t *testing.T) {
	w, _ := newTestState(t)
	eng, _ := w.CreateInfantry("engineer", 0, Cell{X: 5, Y: 5})
	outpost, _ := w.CreateBuilding("outpost", 1, Cell{X: 10, Y: 10})
	eng.TarCom = outpost.Self

	AssignMission(w, eng, MissionAttack)
	DispatchMission(w, eng)
	assert.Equal(t, MissionCapture, eng.Mission)
}

func TestEngineerCapturesAdjacentBuilding(t *testing.T) {
	w, _ := newTestState(t)
	eng, _ := w.CreateInfantry("engineer", 0, Cell{X: 5, Y: 5})
	outpost, _ := w.CreateBuilding("outpost", 1, Cell{X: 6, Y: 5})
	eng.TarCom = outpost.Self

	AssignMission(w, eng, MissionCapture)
	DispatchMission(w, eng)

	assert.Equal(t, 0, outpost.House, "ownership flips")
	assert.Nil(t, w.Infantry.Get(eng.Self.Index()), "the engineer is expended")
}

func TestEngineerHuntSeeksCapturable(t *testing.T) {
	w, _ := newTestState(t)
	eng, _ := w.CreateInfantry("engineer", 0, Cell{X: 5, Y: 5})
	w.CreateBuilding("turret", 1, Cell{X: 7, Y: 5}) // armed but not capturable
	far, _ := w.CreateBuilding("outpost", 1, Cell{X: 20, Y: 20})
	near, _ := w.CreateBuilding("outpost", 1, Cell{X: 10, Y: 5})
	_ = far

	AssignMission(w, eng, MissionHunt)
	DispatchMission(w, eng)
	assert.Equal(t, MissionCapture, eng.Mission)
	assert.Equal(t, near.Self, eng.TarCom, "nearest capturable structure wins")
}

func TestEngineerHuntIgnoresAlliedBuildings(t *testing.T) {
	w, _ := newTestState(t)
	eng, _ := w.CreateInfantry("engineer", 0, Cell{X: 5, Y: 5})
	w.CreateBuilding("outpost", 0, Cell{X: 6, Y: 6})

	assert.True(t, w.huntCapturable(eng).IsNone())
}

func TestCaptureNonCapturableFallsBack(t *testing.T) {
	w, _ := newTestState(t)
	eng, _ := w.CreateInfantry("engineer", 0, Cell{X: 5, Y: 5})
	turret, _ := w.CreateBuilding("turret", 1, Cell{X: 6, Y: 5})
	eng.TarCom = turret.Self

	AssignMission(w, eng, MissionCapture)
	DispatchMission(w, eng)
	assert.Equal(t, 1, turret.House)
	require.NotNil(t, w.Infantry.Get(eng.Self.Index()))
	assert.Equal(t, MissionGuard, eng.Mission)
}
