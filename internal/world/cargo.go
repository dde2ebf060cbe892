package world

import "github.com/ironvein/engine/internal/core/target"

// Cargo is the bounded passenger hold of a transport. Cargo entities are in
// limbo while carried; the hold owns them until they are detached or the
// transport dies.
type Cargo struct {
	Max  int
	hold []target.Target
}

func (c *Cargo) Count() int { return len(c.hold) }

func (c *Cargo) IsFull() bool { return c.Max > 0 && len(c.hold) >= c.Max }

// Attach stores a passenger handle. Returns false when the hold is full or
// has no capacity at all.
func (c *Cargo) Attach(t target.Target) bool {
	if c.Max <= 0 || len(c.hold) >= c.Max || t.IsNone() {
		return false
	}
	c.hold = append(c.hold, t)
	return true
}

// DetachFirst removes and returns the oldest passenger, or None when empty.
func (c *Cargo) DetachFirst() target.Target {
	if len(c.hold) == 0 {
		return target.None
	}
	t := c.hold[0]
	c.hold = c.hold[1:]
	return t
}

// Remove drops a specific passenger handle if present.
func (c *Cargo) Remove(t target.Target) bool {
	for i, h := range c.hold {
		if h == t {
			c.hold = append(c.hold[:i], c.hold[i+1:]...)
			return true
		}
	}
	return false
}

// Holds reports whether a handle is currently in the hold.
func (c *Cargo) Holds(t target.Target) bool {
	for _, h := range c.hold {
		if h == t {
			return true
		}
	}
	return false
}

// List returns a copy of the hold, oldest first. Save/load uses it.
func (c *Cargo) List() []target.Target {
	out := make([]target.Target, len(c.hold))
	copy(out, c.hold)
	return out
}

// SetList restores the hold contents. Save/load uses it.
func (c *Cargo) SetList(ts []target.Target) {
	c.hold = append(c.hold[:0], ts...)
}
