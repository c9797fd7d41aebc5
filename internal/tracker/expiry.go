package tracker

import "time"

// Timer is the part of *time.Timer the tracker needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// expiry owns the restartable timer behind a self-expiring field.
// All methods are called with Tracker.mu held.
type expiry struct {
	timer Timer
	gen   uint64
}

// restart cancels the pending expiry and schedules reset after the tracker delay.
// A callback from a superseded timer sees a stale generation and does nothing.
func (x *expiry) restart(t *Tracker, reset func()) {
	x.stop()
	gen := x.gen
	x.timer = t.afterFunc(t.delay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.closed || x.gen != gen {
			return
		}
		x.timer = nil
		reset()
	})
}

func (x *expiry) stop() {
	if x.timer != nil {
		x.timer.Stop()
		x.timer = nil
	}
	x.gen++
}
