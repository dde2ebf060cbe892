package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ironvein/engine/internal/command"
	"github.com/ironvein/engine/internal/core/event"
	"github.com/ironvein/engine/internal/world"
)

func newInputFixture(t *testing.T) (*world.State, *command.Queue, *recordingSink, *InputSystem) {
	t.Helper()
	w := newTestWorld(t)
	q := command.NewQueue()
	sink := &recordingSink{}
	return w, q, sink, NewInputSystem(w, q, sink, zap.NewNop())
}

func TestMoveOrderSetsCourse(t *testing.T) {
	w, q, sink, sys := newInputFixture(t)
	inf, ok := w.CreateInfantry("rifleman", 0, world.Cell{X: 5, Y: 5})
	require.True(t, ok)

	dest := w.TargetForCell(world.Cell{X: 9, Y: 5})
	q.Push(command.Order{House: 0, Kind: command.KindMove, Subject: inf.Self, Target: dest})
	sys.Update(0)

	assert.Equal(t, dest, inf.NavCom)
	assert.Equal(t, world.MissionMove, inf.Mission)
	require.Len(t, sink.entries, 1)
	assert.Equal(t, w.Frame, sink.entries[0].frame)
	assert.Equal(t, command.KindMove, sink.entries[0].order.Kind)
}

func TestOrderRejectedForWrongHouse(t *testing.T) {
	w, q, sink, sys := newInputFixture(t)
	inf, ok := w.CreateInfantry("rifleman", 0, world.Cell{X: 5, Y: 5})
	require.True(t, ok)

	q.Push(command.Order{
		House:   1,
		Kind:    command.KindMove,
		Subject: inf.Self,
		Target:  w.TargetForCell(world.Cell{X: 9, Y: 5}),
	})
	sys.Update(0)

	assert.True(t, inf.NavCom.IsNone())
	assert.Empty(t, sink.entries)
}

func TestOrderRejectedForDeadSubject(t *testing.T) {
	w, q, sink, sys := newInputFixture(t)
	inf, ok := w.CreateInfantry("rifleman", 0, world.Cell{X: 5, Y: 5})
	require.True(t, ok)
	stale := inf.Self
	w.DeleteObject(inf)

	q.Push(command.Order{House: 0, Kind: command.KindStop, Subject: stale})
	sys.Update(0)

	assert.Empty(t, sink.entries)
}

func TestAttackOrderSetsTarget(t *testing.T) {
	w, q, _, sys := newInputFixture(t)
	tank, ok := w.CreateUnit("tank", 0, world.Cell{X: 5, Y: 5})
	require.True(t, ok)
	foe, ok := w.CreateInfantry("rifleman", 1, world.Cell{X: 8, Y: 5})
	require.True(t, ok)

	q.Push(command.Order{House: 0, Kind: command.KindAttack, Subject: tank.Self, Target: foe.Self})
	sys.Update(0)

	assert.Equal(t, foe.Self, tank.TarCom)
	assert.Equal(t, world.MissionAttack, tank.Mission)
}

func TestMissionKindMapping(t *testing.T) {
	w, q, _, sys := newInputFixture(t)
	tank, ok := w.CreateUnit("tank", 0, world.Cell{X: 5, Y: 5})
	require.True(t, ok)
	b, ok := w.CreateBuilding("power_plant", 0, world.Cell{X: 10, Y: 10})
	require.True(t, ok)

	q.Push(command.Order{House: 0, Kind: command.KindStop, Subject: tank.Self})
	q.Push(command.Order{House: 0, Kind: command.KindSell, Subject: b.Self})
	sys.Update(0)

	assert.Equal(t, world.MissionStop, tank.Mission)
	assert.Equal(t, world.MissionDeconstruction, b.Mission)

	q.Push(command.Order{House: 0, Kind: command.KindRepair, Subject: b.Self})
	sys.Update(0)
	assert.Equal(t, world.MissionRepair, b.Mission)
}

func TestScatterOrderMovesOneCellOut(t *testing.T) {
	w, q, _, sys := newInputFixture(t)
	inf, ok := w.CreateInfantry("rifleman", 0, world.Cell{X: 5, Y: 5})
	require.True(t, ok)

	q.Push(command.Order{House: 0, Kind: command.KindScatter, Subject: inf.Self})
	sys.Update(0)

	require.False(t, inf.NavCom.IsNone())
	dest, ok := w.TargetCoord(inf.NavCom)
	require.True(t, ok)
	assert.Equal(t, 1, world.CellDistance(world.Cell{X: 5, Y: 5}, dest.Cell()))
	assert.Equal(t, world.MissionMove, inf.Mission)
}

func TestProduceChargesAndStarts(t *testing.T) {
	w, q, sink, sys := newInputFixture(t)
	b, ok := w.CreateBuilding("barracks", 0, world.Cell{X: 10, Y: 10})
	require.True(t, ok)

	q.Push(command.Order{House: 0, Kind: command.KindProduce, Subject: b.Self, TypeName: "rifleman"})
	sys.Update(0)

	assert.Equal(t, "rifleman", b.Producing)
	assert.Equal(t, productionTicks(100), b.BuildTicks)
	assert.Equal(t, 4900, w.HouseByID(0).Credits)
	require.Len(t, sink.entries, 1)
}

func TestProduceRefusedWhenBroke(t *testing.T) {
	w, q, sink, sys := newInputFixture(t)
	b, ok := w.CreateBuilding("barracks", 0, world.Cell{X: 10, Y: 10})
	require.True(t, ok)
	w.HouseByID(0).Credits = 50

	q.Push(command.Order{House: 0, Kind: command.KindProduce, Subject: b.Self, TypeName: "rifleman"})
	sys.Update(0)

	assert.Empty(t, b.Producing)
	assert.Equal(t, 50, w.HouseByID(0).Credits)
	assert.Empty(t, sink.entries)
}

func TestProduceRefusesWrongFactoryTable(t *testing.T) {
	w, q, _, sys := newInputFixture(t)
	b, ok := w.CreateBuilding("barracks", 0, world.Cell{X: 10, Y: 10})
	require.True(t, ok)

	q.Push(command.Order{House: 0, Kind: command.KindProduce, Subject: b.Self, TypeName: "tank"})
	sys.Update(0)

	assert.Empty(t, b.Producing)
	assert.Equal(t, 5000, w.HouseByID(0).Credits)
}

func TestProduceRefusesBusyFactory(t *testing.T) {
	w, q, sink, sys := newInputFixture(t)
	b, ok := w.CreateBuilding("war_factory", 0, world.Cell{X: 10, Y: 10})
	require.True(t, ok)

	q.Push(command.Order{House: 0, Kind: command.KindProduce, Subject: b.Self, TypeName: "tank"})
	q.Push(command.Order{House: 0, Kind: command.KindProduce, Subject: b.Self, TypeName: "digger"})
	sys.Update(0)

	assert.Equal(t, "tank", b.Producing)
	assert.Equal(t, 4200, w.HouseByID(0).Credits)
	assert.Len(t, sink.entries, 1)
}

func TestProductionTicksFloor(t *testing.T) {
	assert.Equal(t, world.TicksPerSecond, productionTicks(10))
	assert.Equal(t, 400, productionTicks(800))
}

func TestPlaceBuildsScaffold(t *testing.T) {
	w, q, sink, sys := newInputFixture(t)

	q.Push(command.Order{House: 0, Kind: command.KindPlace, TypeName: "power_plant", CellX: 12, CellY: 12})
	sys.Update(0)

	occ := w.Map.OccupierOf(world.Cell{X: 12, Y: 12})
	require.False(t, occ.IsNone())
	b := w.Resolve(occ).(*world.Building)
	assert.Equal(t, world.BStateConstruction, b.State)
	assert.Equal(t, world.MissionConstruction, b.Mission)
	assert.Equal(t, 4700, w.HouseByID(0).Credits)
	require.Len(t, sink.entries, 1)
}

func TestPlaceRefusedOnOccupiedCell(t *testing.T) {
	w, q, _, sys := newInputFixture(t)
	_, ok := w.CreateUnit("tank", 0, world.Cell{X: 12, Y: 12})
	require.True(t, ok)

	q.Push(command.Order{House: 0, Kind: command.KindPlace, TypeName: "power_plant", CellX: 12, CellY: 12})
	sys.Update(0)

	assert.Equal(t, 5000, w.HouseByID(0).Credits)
}

func TestPlaceRefusedOutOfBounds(t *testing.T) {
	w, q, _, sys := newInputFixture(t)

	q.Push(command.Order{House: 0, Kind: command.KindPlace, TypeName: "power_plant", CellX: 40, CellY: 2})
	sys.Update(0)

	assert.Equal(t, 5000, w.HouseByID(0).Credits)
	assert.Equal(t, 0, w.Buildings.ActiveCount())
}

func TestPlaceRefusedWhenBroke(t *testing.T) {
	w, q, _, sys := newInputFixture(t)
	w.HouseByID(0).Credits = 100

	q.Push(command.Order{House: 0, Kind: command.KindPlace, TypeName: "power_plant", CellX: 12, CellY: 12})
	sys.Update(0)

	assert.Equal(t, 0, w.Buildings.ActiveCount())
}

func TestAcceptedOrderEmitsEvent(t *testing.T) {
	w, q, _, sys := newInputFixture(t)
	inf, ok := w.CreateInfantry("rifleman", 0, world.Cell{X: 5, Y: 5})
	require.True(t, ok)

	var got []event.OrderIssued
	event.Subscribe(w.Bus, func(ev event.OrderIssued) { got = append(got, ev) })

	q.Push(command.Order{House: 0, Kind: command.KindGuard, Subject: inf.Self})
	sys.Update(0)
	w.Tick()

	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].House)
	assert.Equal(t, inf.Self, got[0].Subject)
}
