package message

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/junsooki/InputDetect/internal/input"
)

func TestPostDeliversEnvelope(t *testing.T) {
	ch := NewChannel()
	var got input.Event
	ch.Listen(func(e input.Event) { got = e })

	ch.Post("ctx", input.Envelope{Type: input.MessageTag, Message: "hello"})

	if got.Type != input.EventMessage {
		t.Fatalf("Type = %q, want %q", got.Type, input.EventMessage)
	}
	if got.Source != "ctx" {
		t.Errorf("Source = %q, want %q", got.Source, "ctx")
	}
	if got.Data == nil || got.Data.Message != "hello" || got.Data.Type != input.MessageTag {
		t.Errorf("Data = %+v", got.Data)
	}
}

func TestPostNoListeners(t *testing.T) {
	ch := NewChannel()
	ch.Post("ctx", input.Envelope{Type: input.MessageTag})
}

func TestDetach(t *testing.T) {
	ch := NewChannel()
	var a, b int32
	detachA := ch.Listen(func(input.Event) { atomic.AddInt32(&a, 1) })
	ch.Listen(func(input.Event) { atomic.AddInt32(&b, 1) })

	ch.Post("ctx", input.Envelope{})
	detachA()
	detachA()
	ch.Post("ctx", input.Envelope{})

	if a != 1 {
		t.Errorf("detached listener called %d times, want 1", a)
	}
	if b != 2 {
		t.Errorf("listener called %d times, want 2", b)
	}
}

func TestListenerPanicIsContained(t *testing.T) {
	ch := NewChannel()
	var called bool
	ch.Listen(func(input.Event) { panic("boom") })
	ch.Listen(func(input.Event) { called = true })

	ch.Post("ctx", input.Envelope{})

	if !called {
		t.Error("listener after a panicking one was not called")
	}
}

func TestConcurrentPostAndListen(t *testing.T) {
	ch := NewChannel()
	var count atomic.Int64
	ch.Listen(func(input.Event) { count.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch.Post("ctx", input.Envelope{})
		}()
		go func() {
			defer wg.Done()
			detach := ch.Listen(func(input.Event) {})
			detach()
		}()
	}
	wg.Wait()

	if count.Load() != 100 {
		t.Errorf("received %d events, want 100", count.Load())
	}
}
