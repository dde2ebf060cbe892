// Package command carries player and AI orders into the simulation. Orders
// are collected from any goroutine and drained by the input system at the
// top of each tick, which is the only place they touch world state.
package command

import (
	"sync"

	"github.com/ironvein/engine/internal/core/target"
)

// Kind identifies what an order asks for.
type Kind uint8

const (
	KindMove Kind = iota
	KindAttack
	KindStop
	KindGuard
	KindGuardArea
	KindHunt
	KindHarvest
	KindReturn
	KindEnter
	KindCapture
	KindUnload
	KindScatter
	KindRetreat
	KindSell
	KindRepair
	KindProduce
	KindPlace
	kindCount
)

var kindNames = [kindCount]string{
	"move", "attack", "stop", "guard", "guard_area", "hunt", "harvest",
	"return", "enter", "capture", "unload", "scatter", "retreat", "sell", "repair",
	"produce", "place",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// Order is one instruction for one entity (or, for production and placement,
// for a house's structure).
type Order struct {
	House    int
	Kind     Kind
	Subject  target.Target // the commanded entity
	Target   target.Target // destination or victim, kind-dependent
	CellX    int16         // placement cell for KindPlace
	CellY    int16
	TypeName string // type under production or placement
}

// Queue is the mailbox between order producers and the tick loop.
type Queue struct {
	mu     sync.Mutex
	orders []Order
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an order. Safe from any goroutine.
func (q *Queue) Push(o Order) {
	q.mu.Lock()
	q.orders = append(q.orders, o)
	q.mu.Unlock()
}

// Drain removes and returns all pending orders in arrival order.
func (q *Queue) Drain() []Order {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.orders) == 0 {
		return nil
	}
	out := q.orders
	q.orders = nil
	return out
}

// Len reports the number of pending orders.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.orders)
}
