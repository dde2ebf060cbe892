// Package world implements the entity simulation kernel: object lifecycle,
// mission state machines, the radio protocol, the combat and movement layers,
// and the concrete entity kinds, all owned by a single deterministic State.
package world

// Positions are held in leptons, a sub-cell unit: 256 leptons per cell.
// All coordinate math is integer-only so that identical inputs produce
// identical worlds on every platform.

const (
	// LeptonsPerCell is the sub-cell resolution of a map cell.
	LeptonsPerCell = 256
	cellShift      = 8
)

// Coord is a map position in leptons.
type Coord struct {
	X, Y int32
}

// Cell is a whole-cell map position.
type Cell struct {
	X, Y int16
}

// Cell returns the cell containing the coordinate.
func (c Coord) Cell() Cell {
	return Cell{X: int16(c.X >> cellShift), Y: int16(c.Y >> cellShift)}
}

// Center returns the coordinate of the cell's center.
func (c Cell) Center() Coord {
	return Coord{
		X: int32(c.X)<<cellShift + LeptonsPerCell/2,
		Y: int32(c.Y)<<cellShift + LeptonsPerCell/2,
	}
}

// Distance returns an octagonal approximation of the straight-line lepton
// distance: max + min/2, accurate to about 12% and branch-cheap.
func Distance(a, b Coord) int32 {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx + dy/2
	}
	return dy + dx/2
}

// CellDistance returns the Chebyshev distance between two cells.
func CellDistance(a, b Cell) int {
	dx := int(a.X) - int(b.X)
	if dx < 0 {
		dx = -dx
	}
	dy := int(a.Y) - int(b.Y)
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// DirType is a discretized direction: 0 = north, increasing clockwise,
// 256 steps per full turn.
type DirType uint8

// FacingType is an 8-way facing used for path steps.
type FacingType uint8

const (
	FacingN FacingType = iota
	FacingNE
	FacingE
	FacingSE
	FacingS
	FacingSW
	FacingW
	FacingNW
	FacingCount
)

var facingDelta = [FacingCount]struct{ DX, DY int16 }{
	{0, -1},  // N
	{1, -1},  // NE
	{1, 0},   // E
	{1, 1},   // SE
	{0, 1},   // S
	{-1, 1},  // SW
	{-1, 0},  // W
	{-1, -1}, // NW
}

// Dir returns the facing widened to a 256-step direction.
func (f FacingType) Dir() DirType {
	return DirType(f) * 32
}

// Opposite returns the facing rotated a half turn.
func (f FacingType) Opposite() FacingType {
	return (f + 4) % FacingCount
}

// Facing narrows a direction to the nearest 8-way facing.
func (d DirType) Facing() FacingType {
	return FacingType((uint16(d) + 16) / 32 % 8)
}

// Adjacent returns the cell one step away in the given facing.
func (c Cell) Adjacent(f FacingType) Cell {
	d := facingDelta[f%FacingCount]
	return Cell{X: c.X + d.DX, Y: c.Y + d.DY}
}

// FacingCell returns the 8-way facing from one cell toward another.
// Same-cell input reports north.
func FacingCell(from, to Cell) FacingType {
	return facingOf(int32(to.X)-int32(from.X), int32(to.Y)-int32(from.Y))
}

// FacingCoord returns the 8-way facing from one coordinate toward another.
func FacingCoord(from, to Coord) FacingType {
	return facingOf(to.X-from.X, to.Y-from.Y)
}

// DirectionTo returns the 256-step direction from one coordinate toward
// another, quantized to octants.
func DirectionTo(from, to Coord) DirType {
	return FacingCoord(from, to).Dir()
}

// facingOf picks the octant for a delta using integer slope comparisons:
// a component more than twice the other is treated as cardinal.
func facingOf(dx, dy int32) FacingType {
	adx, ady := dx, dy
	if adx < 0 {
		adx = -adx
	}
	if ady < 0 {
		ady = -ady
	}
	switch {
	case adx >= 2*ady: // mostly horizontal
		if dx > 0 {
			return FacingE
		}
		return FacingW
	case ady >= 2*adx: // mostly vertical
		if dy > 0 {
			return FacingS
		}
		return FacingN
	case dx > 0 && dy < 0:
		return FacingNE
	case dx > 0:
		return FacingSE
	case dy > 0:
		return FacingSW
	default:
		return FacingNW
	}
}

// diagNumer/diagDenom approximate 1/sqrt(2) for diagonal movement.
const (
	diagNumer = 181
	diagDenom = 256
)

// Move advances a coordinate by dist leptons along an 8-way facing.
// Diagonal steps are scaled so that speed is uniform in every facing.
func (c Coord) Move(f FacingType, dist int32) Coord {
	d := facingDelta[f%FacingCount]
	step := dist
	if d.DX != 0 && d.DY != 0 {
		step = dist * diagNumer / diagDenom
	}
	return Coord{
		X: c.X + int32(d.DX)*step,
		Y: c.Y + int32(d.DY)*step,
	}
}
