package input

import (
	"github.com/pkg/errors"

	"github.com/vehicle-control/vcc/internal/motion"
	"github.com/vehicle-control/vcc/internal/vehicle"
)

// Buttons handles the discrete directional controls: one press, one
// command, no continuous tracking. The state write happens synchronously
// inside Press, so feedback rendered afterwards always reflects the
// last-issued command.
type Buttons struct {
	store *motion.Store
}

// NewButtons creates a button adapter.
func NewButtons(store *motion.Store) *Buttons {
	return &Buttons{store: store}
}

// Press sets the direction at the current cruise speed. The stop button
// clears the raw joystick vector no matter which adapter wrote it.
func (b *Buttons) Press(direction motion.Direction) (motion.State, error) {
	if !direction.Valid() {
		return motion.State{}, errors.Wrapf(vehicle.ErrInvalidParameter, "unknown direction %q", direction)
	}

	if direction == motion.DirectionStop {
		return b.store.Apply(motion.StopUpdate(motion.SourceButton)), nil
	}
	return b.store.Apply(motion.Update{
		Direction:    direction,
		SpeedPercent: b.store.CruiseSpeed(),
		Source:       motion.SourceButton,
	}), nil
}
