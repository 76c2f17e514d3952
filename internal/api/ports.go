// Ports (interfaces) the API server needs from the rest of the console.
package api

import (
	"context"
	"net/http"

	"github.com/vehicle-control/vcc/internal/input"
	"github.com/vehicle-control/vcc/internal/motion"
	"github.com/vehicle-control/vcc/internal/vehicle"
)

// JoystickPort is the drag-gesture surface of the joystick adapter.
type JoystickPort interface {
	DragStart()
	DragMove(dx, dy float64)
	DragEnd()
	SetSpeed(pct int)
}

// KeyboardPort is the key-event surface of the keyboard adapter.
type KeyboardPort interface {
	KeyDown(key input.Key, editableTarget bool)
	KeyUp(key input.Key)
}

// ButtonPort is the discrete-control surface of the button adapter.
type ButtonPort interface {
	Press(direction motion.Direction) (motion.State, error)
}

// VoicePort is the utterance surface of the voice adapter.
type VoicePort interface {
	HandleUtterance(ctx context.Context, utterance string) input.Reply
}

// StatePort reads the current motion snapshot.
type StatePort interface {
	State() motion.State
	CruiseSpeed() int
}

// CommandPort is the synchronous southbound surface of the dispatcher.
type CommandPort interface {
	Camera(ctx context.Context, control string, valueDegrees int) error
	Mapping(ctx context.Context, cmd vehicle.MappingCommand) error
}

// TelemetryPort streams feedback to UI clients.
type TelemetryPort interface {
	ServeSSE(w http.ResponseWriter, r *http.Request)
}

// LocationsPort is the known-locations registry.
type LocationsPort interface {
	Add(name string)
	Has(name string) bool
	List() []string
}
