package motion

import "sync"

// Dispatcher receives the outgoing command for every qualifying state
// change. Implementations must not block: the input path never waits for
// command delivery.
type Dispatcher interface {
	DispatchMotion(direction Direction, speedPercent int)
}

// Feedback is notified of every applied write so the UI can re-render the
// active direction. It is a pure consumer and never a source of truth.
type Feedback interface {
	MotionChanged(state State)
}

// Store holds the single shared motion record plus the operator's cruise
// speed. All mutation is funneled through Apply, which serializes writers
// and decides whether the write produces an outgoing command.
type Store struct {
	mu     sync.Mutex
	state  State
	cruise int

	// cancelAutoStop stops a pending voice auto-stop timer. Any applied
	// command clears it: a new command of any kind supersedes the
	// scheduled stop.
	cancelAutoStop func()

	dispatcher Dispatcher
	feedback   Feedback
}

// NewStore creates a stopped store with the given cruise speed.
func NewStore(cruiseSpeedPercent int, dispatcher Dispatcher, feedback Feedback) *Store {
	return &Store{
		state:      State{Direction: DirectionStop},
		cruise:     ClampSpeed(cruiseSpeedPercent),
		dispatcher: dispatcher,
		feedback:   feedback,
	}
}

// Apply arbitrates a state write. The most recent write always supersedes
// the current state. It returns the resulting snapshot.
//
// Exactly one command is dispatched when the write changes the direction or
// the commanded speed; writes that only refresh the raw joystick vector
// notify feedback but send nothing.
func (s *Store) Apply(u Update) State {
	return s.apply(u, nil)
}

// ApplyArmed is Apply for a self-terminating command: cancel is registered
// as the pending auto-stop cancel in the same critical section as the
// write, so no writer from another source can slip in between the write and
// the arm. The store invokes cancel (once) on the next applied command.
func (s *Store) ApplyArmed(u Update, cancel func()) State {
	return s.apply(u, cancel)
}

func (s *Store) apply(u Update, cancel func()) State {
	s.mu.Lock()

	if s.cancelAutoStop != nil {
		s.cancelAutoStop()
	}
	s.cancelAutoStop = cancel

	prevDirection := s.state.Direction
	prevSpeed := s.state.SpeedPercent

	next := State{
		Direction:    u.Direction,
		SpeedPercent: ClampSpeed(u.SpeedPercent),
		AngleRadians: u.AngleRadians,
		Magnitude:    u.Magnitude,
		Source:       u.Source,
	}
	if next.Direction == DirectionStop {
		next.AngleRadians = 0
		next.Magnitude = 0
	}
	s.state = next

	changed := next.Direction != prevDirection || next.SpeedPercent != prevSpeed
	s.mu.Unlock()

	if changed && s.dispatcher != nil {
		s.dispatcher.DispatchMotion(next.Direction, next.SpeedPercent)
	}
	if s.feedback != nil {
		s.feedback.MotionChanged(next)
	}
	return next
}

// SetCruiseSpeed stores the operator's cruise value. While idle it only
// updates the stored value; callers that hold an active gesture re-issue
// their own scaled command afterwards.
func (s *Store) SetCruiseSpeed(pct int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cruise = ClampSpeed(pct)
}

// CruiseSpeed returns the operator's cruise speed percentage.
func (s *Store) CruiseSpeed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cruise
}

// State returns the current motion snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
