package world

import "github.com/ironvein/engine/internal/core/target"

// MoveClass describes how an entity crosses terrain.
type MoveClass uint8

const (
	MoveFoot MoveClass = iota
	MoveTrack
	MoveWheel
	MoveWinged
)

// MoveResult reports whether a cell can be entered.
type MoveResult uint8

const (
	MoveOK MoveResult = iota
	MoveBlocked            // permanently impassable
	MoveTemporarilyBlocked // occupied; may clear
)

// MapService is the cell occupancy collaborator. The kernel marks and clears
// occupancy as entities are placed, removed, and driven around.
type MapService interface {
	InBounds(c Cell) bool
	MarkOccupied(c Cell, who target.Target)
	ClearOccupied(c Cell, who target.Target)
	OccupierOf(c Cell) target.Target
	CanEnterCell(c Cell, mc MoveClass) MoveResult
}

// PathFinder is the black-box pathfinding collaborator: a synchronous
// cell-to-cell route query that must return within the current tick.
type PathFinder interface {
	FindPath(from, to Cell, maxSteps int, mc MoveClass) ([]FacingType, bool)
}

// OreField is the harvestable-resource collaborator.
type OreField interface {
	OreAt(c Cell) int
	// RemoveOre takes up to amount credits of ore from a cell and returns
	// the credits actually removed.
	RemoveOre(c Cell, amount int) int
	// FindOre returns the nearest ore-bearing cell within radius, scanning
	// deterministically outward.
	FindOre(near Cell, radius int) (Cell, bool)
}

// GridMap is a simple in-memory map: terrain passability, single occupier
// per cell, and an ore layer. It implements MapService and OreField.
type GridMap struct {
	width, height int
	passable      []bool
	occupier      []target.Target
	ore           []int
}

func NewGridMap(width, height int) *GridMap {
	m := &GridMap{
		width:    width,
		height:   height,
		passable: make([]bool, width*height),
		occupier: make([]target.Target, width*height),
		ore:      make([]int, width*height),
	}
	for i := range m.passable {
		m.passable[i] = true
	}
	return m
}

func (m *GridMap) Width() int  { return m.width }
func (m *GridMap) Height() int { return m.height }

func (m *GridMap) index(c Cell) int {
	return int(c.Y)*m.width + int(c.X)
}

func (m *GridMap) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && int(c.X) < m.width && int(c.Y) < m.height
}

// SetPassable marks terrain as passable or not.
func (m *GridMap) SetPassable(c Cell, ok bool) {
	if m.InBounds(c) {
		m.passable[m.index(c)] = ok
	}
}

// SetOre places ore credits on a cell.
func (m *GridMap) SetOre(c Cell, amount int) {
	if m.InBounds(c) {
		m.ore[m.index(c)] = amount
	}
}

func (m *GridMap) MarkOccupied(c Cell, who target.Target) {
	if m.InBounds(c) {
		m.occupier[m.index(c)] = who
	}
}

func (m *GridMap) ClearOccupied(c Cell, who target.Target) {
	if m.InBounds(c) && m.occupier[m.index(c)] == who {
		m.occupier[m.index(c)] = target.None
	}
}

func (m *GridMap) OccupierOf(c Cell) target.Target {
	if !m.InBounds(c) {
		return target.None
	}
	return m.occupier[m.index(c)]
}

func (m *GridMap) CanEnterCell(c Cell, mc MoveClass) MoveResult {
	if !m.InBounds(c) {
		return MoveBlocked
	}
	if mc == MoveWinged {
		return MoveOK
	}
	i := m.index(c)
	if !m.passable[i] {
		return MoveBlocked
	}
	if !m.occupier[i].IsNone() {
		return MoveTemporarilyBlocked
	}
	return MoveOK
}

func (m *GridMap) OreAt(c Cell) int {
	if !m.InBounds(c) {
		return 0
	}
	return m.ore[m.index(c)]
}

func (m *GridMap) RemoveOre(c Cell, amount int) int {
	if !m.InBounds(c) || amount <= 0 {
		return 0
	}
	i := m.index(c)
	taken := amount
	if taken > m.ore[i] {
		taken = m.ore[i]
	}
	m.ore[i] -= taken
	return taken
}

// FindOre scans outward ring by ring, west-to-east and north-to-south within
// a ring, so the result is a pure function of the field contents.
func (m *GridMap) FindOre(near Cell, radius int) (Cell, bool) {
	if m.OreAt(near) > 0 {
		return near, true
	}
	for r := 1; r <= radius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx > -r && dx < r && dy > -r && dy < r {
					continue // interior already scanned
				}
				c := Cell{X: near.X + int16(dx), Y: near.Y + int16(dy)}
				if m.OreAt(c) > 0 {
					return c, true
				}
			}
		}
	}
	return Cell{}, false
}

// LinePather is the fallback pathfinder: it walks straight toward the goal,
// one facing per step, ignoring terrain. Real deployments plug in a proper
// pathfinder; the kernel only requires the interface.
type LinePather struct{}

func (LinePather) FindPath(from, to Cell, maxSteps int, mc MoveClass) ([]FacingType, bool) {
	if from == to {
		return nil, true
	}
	var steps []FacingType
	cur := from
	for cur != to && len(steps) < maxSteps {
		f := FacingCell(cur, to)
		steps = append(steps, f)
		cur = cur.Adjacent(f)
	}
	return steps, true
}
