// Package display captures mouse and keyboard input from a desktop window and
// draws the tracked state back into it.
package display

import (
	"math"
	"time"

	"github.com/junsooki/InputDetect/internal/input"
)

// wheelLineHeight converts wheel notches into browser-style pixel deltas.
const wheelLineHeight = 100

// clickSlop is how far apart two presses may land and still count as a
// double click.
const clickSlop = 4.0

// SnapshotFunc supplies the state drawn in the window.
type SnapshotFunc func() input.Snapshot

// wheelDelta converts a wheel reading (positive is away from the user) into
// a deltaY where positive scrolls down.
func wheelDelta(wheelY float64) float64 {
	return -wheelY * wheelLineHeight
}

// clickDetector turns two nearby left presses inside the window into a
// double click.
type clickDetector struct {
	window time.Duration

	armed bool
	last  time.Time
	lastX float64
	lastY float64
}

// press records a left press and reports whether it completes a double click.
// A completed double click disarms the detector so a third press starts over.
func (d *clickDetector) press(now time.Time, x, y float64) bool {
	if d.armed &&
		now.Sub(d.last) <= d.window &&
		math.Abs(x-d.lastX) <= clickSlop &&
		math.Abs(y-d.lastY) <= clickSlop {
		d.armed = false
		return true
	}
	d.armed = true
	d.last = now
	d.lastX, d.lastY = x, y
	return false
}
