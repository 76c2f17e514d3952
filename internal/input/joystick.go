package input

import (
	"math"
	"sync"

	"github.com/vehicle-control/vcc/internal/classify"
	"github.com/vehicle-control/vcc/internal/motion"
)

// Joystick tracks a drag gesture on the virtual joystick surface. Offsets
// are relative to the surface center, captured at drag start.
//
// Move events arrive far faster than a reasonable command rate. Coalescing
// is structural: every move synchronously overwrites the store with the
// latest computed value, the store only emits a command when (direction,
// speed) actually changed, and command delivery is fire-and-forget, so no
// queue of superseded intermediates can build up.
type Joystick struct {
	store     *motion.Store
	maxRadius float64

	mu       sync.Mutex
	dragging bool
	lastDX   float64
	lastDY   float64
}

// NewJoystick creates a joystick adapter with the given tracking radius.
func NewJoystick(store *motion.Store, maxRadius float64) *Joystick {
	return &Joystick{store: store, maxRadius: maxRadius}
}

// DragStart marks first contact. The visual handle snaps to the pointer on
// the UI side; nothing is dispatched until the first move.
func (j *Joystick) DragStart() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.dragging = true
	j.lastDX, j.lastDY = 0, 0
}

// DragMove feeds one pointer offset through the classifier and writes the
// scaled result to the store. Moves outside an active drag are ignored.
func (j *Joystick) DragMove(dx, dy float64) {
	j.mu.Lock()
	if !j.dragging {
		j.mu.Unlock()
		return
	}
	j.lastDX, j.lastDY = dx, dy
	j.mu.Unlock()

	j.apply(dx, dy)
}

// DragEnd releases the gesture: direction goes to stop and the raw vector
// resets to zero, regardless of how many moves were in flight. Repeated end
// events (mouse-up followed by pointer-leave) collapse to a single stop.
func (j *Joystick) DragEnd() {
	j.mu.Lock()
	if !j.dragging {
		j.mu.Unlock()
		return
	}
	j.dragging = false
	j.lastDX, j.lastDY = 0, 0
	j.mu.Unlock()

	j.store.Apply(motion.StopUpdate(motion.SourceJoystick))
}

// SetSpeed stores the operator's cruise speed. While a drag is active the
// current deflection is re-evaluated so the new scaled speed goes out
// immediately; while idle only the stored value changes and no command is
// produced.
func (j *Joystick) SetSpeed(pct int) {
	j.store.SetCruiseSpeed(pct)

	j.mu.Lock()
	dragging, dx, dy := j.dragging, j.lastDX, j.lastDY
	j.mu.Unlock()

	if dragging {
		j.apply(dx, dy)
	}
}

// Dragging reports whether a drag gesture is active.
func (j *Joystick) Dragging() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dragging
}

func (j *Joystick) apply(dx, dy float64) {
	direction, magnitude := classify.Classify(dx, dy, j.maxRadius)
	scaled := int(math.Round(float64(j.store.CruiseSpeed()) * magnitude))
	j.store.Apply(motion.Update{
		Direction:    direction,
		SpeedPercent: scaled,
		AngleRadians: classify.Angle(dx, dy),
		Magnitude:    magnitude,
		Source:       motion.SourceJoystick,
	})
}
