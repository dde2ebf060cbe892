package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironvein/engine/internal/command"
	"github.com/ironvein/engine/internal/data"
	"github.com/ironvein/engine/internal/world"
)

// testRules is a trimmed rules set: one house-hold of each kind plus the
// structures the order handlers touch. Parsed through the real loaders.
func testRules(t *testing.T) *data.Rules {
	t.Helper()

	warheads, err := data.ParseWarheadTable([]byte(`
warheads:
  - name: ball
    spread: 128
    verses: [100, 80, 50, 25, 10]
  - name: high_explosive
    spread: 256
    verses: [100, 100, 75, 50, 90]
`))
	require.NoError(t, err)

	bullets, err := data.ParseBulletTable([]byte(`
bullets:
  - name: slug
    speed: 512
    warhead: ball
    fuel: 30
  - name: missile
    speed: 128
    warhead: high_explosive
    homing: true
    rot: 16
    fuel: 60
    explosion: big_explosion
`))
	require.NoError(t, err)

	weapons, err := data.ParseWeaponTable([]byte(`
weapons:
  - name: rifle
    damage: 15
    rof: 20
    range: 1024
    projectile: slug
  - name: rockets
    damage: 40
    rof: 45
    range: 1536
    projectile: missile
`))
	require.NoError(t, err)

	anims, err := data.ParseAnimTable([]byte(`
anims:
  - name: big_explosion
    stages: 8
    rate: 2
    loops: 1
  - name: small_explosion
    stages: 4
    rate: 2
    loops: 1
`))
	require.NoError(t, err)

	infantry, err := data.ParseInfantryTable([]byte(`
infantry:
  - name: rifleman
    strength: 50
    speed: 24
    armor: none
    primary: rifle
    sight: 1280
    cost: 100
`))
	require.NoError(t, err)

	units, err := data.ParseUnitTable([]byte(`
units:
  - name: digger
    strength: 300
    speed: 32
    armor: steel
    harvester: true
    ore_load: 100
    sight: 1024
    cost: 1400
  - name: tank
    strength: 400
    speed: 40
    armor: steel
    primary: rockets
    sight: 1280
    cost: 800
`))
	require.NoError(t, err)

	aircraft, err := data.ParseAircraftTable([]byte(`
aircraft:
  - name: gunship
    strength: 125
    speed: 80
    armor: aluminum
    primary: rockets
    max_ammo: 6
    sight: 1536
    cost: 1200
`))
	require.NoError(t, err)

	buildings, err := data.ParseBuildingTable([]byte(`
buildings:
  - name: power_plant
    strength: 400
    armor: wood
    power: 100
    build_time: 60
    sight: 1024
    cost: 300
  - name: refinery
    strength: 450
    armor: wood
    drain: 30
    storage: 2000
    refinery: true
    build_time: 90
    sight: 1024
    cost: 2000
  - name: barracks
    strength: 400
    armor: wood
    drain: 20
    factory: infantry
    build_time: 50
    sight: 1024
    cost: 400
  - name: war_factory
    strength: 500
    armor: steel
    drain: 30
    factory: unit
    build_time: 60
    sight: 1024
    cost: 1000
`))
	require.NoError(t, err)

	return &data.Rules{
		Warheads:  warheads,
		Bullets:   bullets,
		Weapons:   weapons,
		Anims:     anims,
		Infantry:  infantry,
		Units:     units,
		Aircraft:  aircraft,
		Buildings: buildings,
	}
}

// newTestWorld builds a 32x32 world with a human house 0 and a computer
// house 1, both funded.
func newTestWorld(t *testing.T) *world.State {
	t.Helper()
	grid := world.NewGridMap(32, 32)
	w := world.NewState(world.Options{
		Rules: testRules(t),
		Map:   grid,
		Ore:   grid,
		Seed:  1,
	})
	player := world.NewHouse(0, "player")
	player.Human = true
	player.Credits = 5000
	w.AddHouse(player)
	rival := world.NewHouse(1, "rival")
	rival.Credits = 5000
	w.AddHouse(rival)
	return w
}

type recordedOrder struct {
	frame int64
	order command.Order
}

// recordingSink captures every order the input system accepts.
type recordingSink struct {
	entries []recordedOrder
}

func (s *recordingSink) Append(frame int64, o command.Order) {
	s.entries = append(s.entries, recordedOrder{frame: frame, order: o})
}
