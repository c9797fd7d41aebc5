package input

import "sync"

// Fanout delivers events to a changing set of listeners. The zero value is
// ready to use.
type Fanout struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(Event)
}

// Listen registers fn and returns a func that removes it.
func (f *Fanout) Listen(fn func(Event)) (detach func()) {
	f.mu.Lock()
	if f.listeners == nil {
		f.listeners = make(map[int]func(Event))
	}
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

// Emit calls every listener with e. Listeners run outside the lock.
func (f *Fanout) Emit(e Event) {
	f.mu.Lock()
	fns := make([]func(Event), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
