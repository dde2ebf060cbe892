// Package pool provides the fixed-capacity slab allocator that owns all
// entity storage. One Pool exists per entity kind; slot indices are the
// identity used by target handles, so allocation order and iteration order
// are both deterministic.
package pool

// Pool is a fixed-capacity slab of pre-constructed slots with stable indices.
// Allocate hands out the lowest free index; Free returns it. Slots are never
// compacted, so an index stays valid until the matching Free call and a
// freed slot is simply skipped by iteration.
type Pool[T any] struct {
	name        string
	slots       []T
	active      []bool
	activeCount int
	firstFree   int // lowest index that may be free; scan hint only
}

// New creates a pool with the given capacity. Capacity is fixed for the
// lifetime of the pool.
func New[T any](name string, capacity int) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool[T]{
		name:   name,
		slots:  make([]T, capacity),
		active: make([]bool, capacity),
	}
}

func (p *Pool[T]) Name() string     { return p.name }
func (p *Pool[T]) Cap() int         { return len(p.slots) }
func (p *Pool[T]) ActiveCount() int { return p.activeCount }
func (p *Pool[T]) FreeCount() int   { return len(p.slots) - p.activeCount }

// Allocate activates the lowest free slot and returns its index. The slot's
// value is zeroed before being handed out. Returns ok=false when the pool is
// exhausted; the caller treats that as "cannot spawn", not as a fault.
func (p *Pool[T]) Allocate() (int, *T, bool) {
	for i := p.firstFree; i < len(p.slots); i++ {
		if p.active[i] {
			continue
		}
		var zero T
		p.slots[i] = zero
		p.active[i] = true
		p.activeCount++
		p.firstFree = i + 1
		return i, &p.slots[i], true
	}
	return -1, nil, false
}

// AllocateAt activates a specific free slot, used when restoring a saved
// world where every entity must come back at its recorded index. Returns
// ok=false if the slot is out of range or already active.
func (p *Pool[T]) AllocateAt(index int) (*T, bool) {
	if index < 0 || index >= len(p.slots) || p.active[index] {
		return nil, false
	}
	var zero T
	p.slots[index] = zero
	p.active[index] = true
	p.activeCount++
	return &p.slots[index], true
}

// Reset frees every slot. Used before loading a saved world.
func (p *Pool[T]) Reset() {
	for i := range p.active {
		p.active[i] = false
	}
	p.activeCount = 0
	p.firstFree = 0
}

// Free deactivates a slot. Freeing an inactive or out-of-range slot is a
// no-op reported as false. The occupant's outward references must already
// have been scrubbed by the owner before Free is called.
func (p *Pool[T]) Free(index int) bool {
	if index < 0 || index >= len(p.slots) || !p.active[index] {
		return false
	}
	p.active[index] = false
	p.activeCount--
	if index < p.firstFree {
		p.firstFree = index
	}
	return true
}

// Get returns the occupant of an active slot, or nil for free and
// out-of-range slots. Stale handles therefore fail here instead of
// dereferencing a recycled entity.
func (p *Pool[T]) Get(index int) *T {
	if index < 0 || index >= len(p.slots) || !p.active[index] {
		return nil
	}
	return &p.slots[index]
}

// IsActive reports whether a slot currently holds a live entity.
func (p *Pool[T]) IsActive(index int) bool {
	return index >= 0 && index < len(p.slots) && p.active[index]
}

// EachActive visits active slots in ascending index order. Returning false
// from fn stops the pass. Frees during the pass are safe (the slot becomes
// inert and later visits skip it); a slot allocated during the pass is
// visited only if its index is still ahead of the cursor.
func (p *Pool[T]) EachActive(fn func(index int, item *T) bool) {
	for i := 0; i < len(p.slots); i++ {
		if !p.active[i] {
			continue
		}
		if !fn(i, &p.slots[i]) {
			return
		}
	}
}
