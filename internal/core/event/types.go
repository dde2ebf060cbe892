package event

import "github.com/ironvein/engine/internal/core/target"

// Simulation event types. Emitted during a tick, readable the next one.

// UnitKilled fires when damage processing destroys an entity.
type UnitKilled struct {
	Victim target.Target
	Killer target.Target // None when the source is unknown (crush, scenario)
	House  int
}

// PoolExhausted fires when a spawn request finds its kind's pool full.
type PoolExhausted struct {
	Kind target.Kind
}

// OrderIssued fires for every accepted player or AI order.
type OrderIssued struct {
	House   int
	Subject target.Target
}

// OreDelivered fires when a harvester finishes unloading at a refinery.
type OreDelivered struct {
	House  int
	Amount int
}
