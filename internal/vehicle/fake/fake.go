// Package fake provides in-memory vehicle services for testing.
package fake

import (
	"context"
	"sync"

	"github.com/vehicle-control/vcc/internal/motion"
	"github.com/vehicle-control/vcc/internal/vehicle"
)

// MoveCall records one motion command received by the fake.
type MoveCall struct {
	Direction    motion.Direction
	SpeedPercent int
}

// Motion implements vehicle.MotionService and records every command.
type Motion struct {
	mu    sync.Mutex
	calls []MoveCall

	// NextErr, when set, is returned by the next Move call and cleared.
	NextErr error
	// Err, when set, is returned by every Move call.
	Err error
}

// NewMotion creates a fake motion service.
func NewMotion() *Motion { return &Motion{} }

// Move records the command.
func (f *Motion) Move(ctx context.Context, direction motion.Direction, speedPercent int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, MoveCall{Direction: direction, SpeedPercent: speedPercent})
	if f.NextErr != nil {
		err := f.NextErr
		f.NextErr = nil
		return err
	}
	return f.Err
}

// Calls returns a copy of the recorded commands.
func (f *Motion) Calls() []MoveCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]MoveCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// Last returns the most recent command and whether any was recorded.
func (f *Motion) Last() (MoveCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return MoveCall{}, false
	}
	return f.calls[len(f.calls)-1], true
}

// Camera implements vehicle.CameraService and records gimbal moves.
type Camera struct {
	mu    sync.Mutex
	calls []struct {
		Control string
		Value   int
	}
	Err error
}

// NewCamera creates a fake camera service.
func NewCamera() *Camera { return &Camera{} }

// SetGimbal records the gimbal move.
func (f *Camera) SetGimbal(ctx context.Context, control string, valueDegrees int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, struct {
		Control string
		Value   int
	}{control, valueDegrees})
	return f.Err
}

// CallCount returns how many gimbal moves were recorded.
func (f *Camera) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Mapping implements vehicle.MappingService and records commands.
type Mapping struct {
	mu    sync.Mutex
	calls []vehicle.MappingCommand
	Err   error
}

// NewMapping creates a fake mapping service.
func NewMapping() *Mapping { return &Mapping{} }

// Execute records the mapping command.
func (f *Mapping) Execute(ctx context.Context, cmd vehicle.MappingCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)
	return f.Err
}

// Calls returns a copy of the recorded mapping commands.
func (f *Mapping) Calls() []vehicle.MappingCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]vehicle.MappingCommand, len(f.calls))
	copy(out, f.calls)
	return out
}

// Voice implements vehicle.VoiceService with a fixed reply.
type Voice struct {
	Reply string
	Err   error
}

// NewVoice creates a fake voice service.
func NewVoice(reply string) *Voice { return &Voice{Reply: reply} }

// Ask returns the fixed reply.
func (f *Voice) Ask(ctx context.Context, utterance string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}
