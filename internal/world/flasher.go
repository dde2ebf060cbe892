package world

const flashTicks = 7

// Flasher makes an entity blink briefly after taking a hit. Pure display
// state, but it lives in the kernel because the blink phase must be
// identical on every client of a deterministic session.
type Flasher struct {
	Count   int  // remaining blink ticks
	Blinked bool // current phase
}

// Flash starts (or extends) a blink for n ticks.
func (f *Flasher) Flash(n int) {
	if n > f.Count {
		f.Count = n
	}
}

// Update advances one tick and reports whether the entity should render
// flashed this tick.
func (f *Flasher) Update() bool {
	if f.Count <= 0 {
		f.Blinked = false
		return false
	}
	f.Count--
	f.Blinked = !f.Blinked
	return f.Blinked
}
