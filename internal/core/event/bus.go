package event

import "reflect"

// Bus is a double-buffered event bus. Events emitted in tick N are delivered
// at the start of tick N+1, after SwapBuffers. Delivery order is the order of
// first emission per type, then emission order within a type, so subscribers
// observe a deterministic stream.
type Bus struct {
	front     map[reflect.Type][]any
	back      map[reflect.Type][]any
	backOrder []reflect.Type
	order     []reflect.Type
	handlers  map[reflect.Type][]func(any)
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

// Emit queues an event into the back buffer; it becomes readable next tick.
func Emit[T any](b *Bus, ev T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if _, seen := b.back[t]; !seen {
		b.backOrder = append(b.backOrder, t)
	}
	b.back[t] = append(b.back[t], ev)
}

// Subscribe registers a typed handler for events of type T. Registration is
// done during setup, before the tick loop starts.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// SwapBuffers rotates back to front and clears the new back buffer.
// Called once at tick start.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	b.order, b.backOrder = b.backOrder, b.order[:0]
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// DispatchAll delivers all front-buffer events to their subscribed handlers.
func (b *Bus) DispatchAll() {
	for _, t := range b.order {
		handlers := b.handlers[t]
		for _, ev := range b.front[t] {
			for _, h := range handlers {
				h(ev)
			}
		}
	}
}
