// Package scroll tracks the vertical scroll offset and the
// "scroll to next section" command.
package scroll

import "math"

// Behavior is how a scroll command moves the viewport.
type Behavior string

const (
	Smooth  Behavior = "smooth"
	Instant Behavior = "auto"
)

// Target is a scroll command: move to Top using Behavior.
type Target struct {
	Top      float64  `json:"top"`
	Behavior Behavior `json:"behavior"`
}

// Controller holds the offset for one mounted view. It is not safe for
// concurrent use; hosts drive it from their event loop.
type Controller struct {
	offset   float64
	detached bool
}

// Offset returns the last recorded vertical offset.
func (c *Controller) Offset() float64 {
	return c.offset
}

// Listener returns the scroll event callback. Every call records the
// offset until Detach.
func (c *Controller) Listener() func(y float64) {
	return c.onScroll
}

func (c *Controller) onScroll(y float64) {
	if c.detached || math.IsNaN(y) {
		return
	}
	c.offset = math.Max(0, y)
}

// Detach deregisters the listener. Later scroll events are ignored.
func (c *Controller) Detach() {
	c.detached = true
}

// Detached reports whether Detach was called.
func (c *Controller) Detached() bool {
	return c.detached
}

// ScrollToNext returns the command that scrolls to the section after the
// viewport-tall hero. The target is always one viewport height from the
// top, whatever the current offset.
func (c *Controller) ScrollToNext(viewportHeight float64) Target {
	return Target{Top: math.Max(0, viewportHeight), Behavior: Smooth}
}

// Step moves current toward target by fraction of the remaining distance
// and snaps to target once within half a unit.
func Step(current, target, fraction float64) float64 {
	if fraction <= 0 || fraction > 1 {
		fraction = 1
	}
	next := current + (target-current)*fraction
	if math.Abs(target-next) < 0.5 {
		return target
	}
	return next
}
