package world

// Crew carries the kill tally used for veterancy-style bookkeeping and
// end-of-game statistics.
type Crew struct {
	Kills int
}

func (c *Crew) MadeAKill() {
	c.Kills++
}
