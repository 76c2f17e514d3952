package input

import (
	"sync"
	"testing"

	"github.com/vehicle-control/vcc/internal/motion"
)

// recordingDispatcher captures dispatched commands for all adapter tests in
// this package.
type recordingDispatcher struct {
	mu    sync.Mutex
	calls []dispatchedCommand
}

type dispatchedCommand struct {
	Direction motion.Direction
	Speed     int
}

func (d *recordingDispatcher) DispatchMotion(direction motion.Direction, speed int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, dispatchedCommand{direction, speed})
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func (d *recordingDispatcher) last() dispatchedCommand {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[len(d.calls)-1]
}

func (d *recordingDispatcher) all() []dispatchedCommand {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]dispatchedCommand, len(d.calls))
	copy(out, d.calls)
	return out
}

type nullFeedback struct{}

func (nullFeedback) MotionChanged(motion.State) {}

func newAdapterStore(cruise int) (*motion.Store, *recordingDispatcher) {
	d := &recordingDispatcher{}
	return motion.NewStore(cruise, d, nullFeedback{}), d
}

func TestJoystickDragScalesCruiseByMagnitude(t *testing.T) {
	store, d := newAdapterStore(80)
	j := NewJoystick(store, 50)

	j.DragStart()
	j.DragMove(40, 0)

	if d.count() != 1 {
		t.Fatalf("expected 1 dispatch, got %d", d.count())
	}
	cmd := d.last()
	if cmd.Direction != motion.DirectionRight || cmd.Speed != 64 {
		t.Errorf("dispatched (%s, %d), want (right, 64)", cmd.Direction, cmd.Speed)
	}
	state := store.State()
	if state.Magnitude != 0.8 {
		t.Errorf("magnitude = %f, want 0.8", state.Magnitude)
	}
}

func TestJoystickCoalescesIdenticalMoves(t *testing.T) {
	store, d := newAdapterStore(80)
	j := NewJoystick(store, 50)

	j.DragStart()
	for i := 0; i < 10; i++ {
		j.DragMove(40, 0)
	}

	if d.count() != 1 {
		t.Errorf("10 identical moves dispatched %d commands, want 1", d.count())
	}
}

func TestJoystickDragEndAlwaysStops(t *testing.T) {
	store, d := newAdapterStore(80)
	j := NewJoystick(store, 50)

	j.DragStart()
	j.DragMove(40, 0)
	j.DragMove(0, 40)
	j.DragMove(-25, 0)
	j.DragEnd()

	state := store.State()
	if state.Direction != motion.DirectionStop || state.AngleRadians != 0 || state.Magnitude != 0 {
		t.Errorf("after release state = %+v, want stopped with zero vector", state)
	}
	cmd := d.last()
	if cmd.Direction != motion.DirectionStop {
		t.Errorf("last dispatch = %s, want stop", cmd.Direction)
	}

	before := d.count()
	j.DragEnd() // mouse-up followed by pointer-leave
	if d.count() != before {
		t.Errorf("repeated drag end dispatched an extra command")
	}
}

func TestJoystickIgnoresMovesOutsideDrag(t *testing.T) {
	store, d := newAdapterStore(80)
	j := NewJoystick(store, 50)

	j.DragMove(40, 0)
	if d.count() != 0 {
		t.Errorf("move without drag start dispatched %d commands", d.count())
	}

	j.DragStart()
	j.DragMove(40, 0)
	j.DragEnd()
	before := d.count()

	j.DragMove(0, 40)
	if d.count() != before {
		t.Errorf("move after drag end dispatched a command")
	}
	if store.State().Direction != motion.DirectionStop {
		t.Errorf("direction = %s, want stop", store.State().Direction)
	}
}

func TestJoystickSpeedChangeWhileDraggingReissues(t *testing.T) {
	store, d := newAdapterStore(80)
	j := NewJoystick(store, 50)

	j.DragStart()
	j.DragMove(50, 0) // full deflection, 80
	j.SetSpeed(60)

	cmds := d.all()
	if len(cmds) != 2 {
		t.Fatalf("expected 2 dispatches, got %d", len(cmds))
	}
	if cmds[1].Direction != motion.DirectionRight || cmds[1].Speed != 60 {
		t.Errorf("re-issued (%s, %d), want (right, 60)", cmds[1].Direction, cmds[1].Speed)
	}
}

func TestJoystickSpeedChangeWhileIdleIsSilent(t *testing.T) {
	store, d := newAdapterStore(80)
	j := NewJoystick(store, 50)

	j.SetSpeed(30)
	if d.count() != 0 {
		t.Errorf("idle speed change dispatched %d commands", d.count())
	}
	if store.CruiseSpeed() != 30 {
		t.Errorf("cruise = %d, want 30", store.CruiseSpeed())
	}
}

func TestJoystickCenterMoveClassifiesAsStop(t *testing.T) {
	store, d := newAdapterStore(80)
	j := NewJoystick(store, 50)

	j.DragStart()
	j.DragMove(40, 0)
	j.DragMove(0, 0)

	cmd := d.last()
	if cmd.Direction != motion.DirectionStop || cmd.Speed != 0 {
		t.Errorf("dispatched (%s, %d), want (stop, 0)", cmd.Direction, cmd.Speed)
	}
}
