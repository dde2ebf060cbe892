package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain queued orders
	PhaseAI                      // 1: house AI decisions
	PhaseUpdate                  // 2: entity simulation (mission dispatch)
	PhasePostUpdate              // 3: metrics sampling
	PhasePersist                 // 4: autosave + replay flush
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
