package world

// Stage is a frame-stepping timer shared by anims, doors, and the cloak
// machine: a countdown that advances a stage counter every rate ticks.
type Stage struct {
	Stage int // current frame
	Rate  int // ticks per frame; 0 = stopped
	timer int
}

// Set starts stepping at the given rate, keeping the current stage.
func (s *Stage) Set(rate int) {
	s.Rate = rate
	s.timer = rate
}

// Stop halts stepping.
func (s *Stage) Stop() {
	s.Rate = 0
	s.timer = 0
}

// Snapshot returns the full stepping state for serialization.
func (s *Stage) Snapshot() (stage, rate, timer int) {
	return s.Stage, s.Rate, s.timer
}

// Restore reinstates a snapshot taken with Snapshot.
func (s *Stage) Restore(stage, rate, timer int) {
	s.Stage = stage
	s.Rate = rate
	s.timer = timer
}

// Update advances one tick and reports whether the stage counter stepped.
func (s *Stage) Update() bool {
	if s.Rate <= 0 {
		return false
	}
	s.timer--
	if s.timer > 0 {
		return false
	}
	s.timer = s.Rate
	s.Stage++
	return true
}
