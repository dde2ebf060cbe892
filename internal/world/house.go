package world

// House is one faction. The kernel only tracks ownership, alliance, and the
// thin economy surface the harvest/production missions need; build queues and
// tech trees belong to the production layer outside the kernel.
type House struct {
	ID      int
	Name    string
	Human   bool
	Credits int

	// Power totals recomputed as buildings come and go.
	PowerOutput int
	PowerDrain  int

	Kills  int
	Losses int

	allies uint32
}

func NewHouse(id int, name string) *House {
	h := &House{ID: id, Name: name}
	h.Ally(id) // always allied with itself
	return h
}

func (h *House) Ally(id int) {
	if id >= 0 && id < 32 {
		h.allies |= 1 << uint(id)
	}
}

func (h *House) Unally(id int) {
	if id >= 0 && id < 32 && id != h.ID {
		h.allies &^= 1 << uint(id)
	}
}

// IsAllied reports whether the house treats another house as friendly.
// A house is always allied with itself.
func (h *House) IsAllied(id int) bool {
	if id < 0 || id >= 32 {
		return false
	}
	return h.allies&(1<<uint(id)) != 0
}

// AllyMask returns the raw alliance bitmask, used by save/load.
func (h *House) AllyMask() uint32 { return h.allies }

// SetAllyMask restores the alliance bitmask, used by save/load.
func (h *House) SetAllyMask(mask uint32) {
	h.allies = mask
	h.Ally(h.ID)
}

// LowPower reports whether drain exceeds output; armed buildings slow their
// rate of fire and factories stall while low.
func (h *House) LowPower() bool {
	return h.PowerDrain > h.PowerOutput
}
