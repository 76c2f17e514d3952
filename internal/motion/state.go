package motion

// Direction is a discrete drive direction.
type Direction string

// Drive directions accepted by the motion service.
const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
	DirectionLeft     Direction = "left"
	DirectionRight    Direction = "right"
	DirectionStop     Direction = "stop"
)

// Valid reports whether d is one of the five drive directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionForward, DirectionBackward, DirectionLeft, DirectionRight, DirectionStop:
		return true
	}
	return false
}

// Source identifies which input adapter last wrote the state. It is carried
// for telemetry and debugging only and never gates a write.
type Source string

// Known input sources.
const (
	SourceJoystick Source = "joystick"
	SourceKeyboard Source = "keyboard"
	SourceButton   Source = "button"
	SourceVoice    Source = "voice"
)

// State is a snapshot of the intended vehicle motion.
type State struct {
	Direction    Direction `json:"direction"`
	SpeedPercent int       `json:"speedPercent"`
	AngleRadians float64   `json:"angleRadians"`
	Magnitude    float64   `json:"magnitude"`
	Source       Source    `json:"source"`
}

// Update is a requested state write from an input adapter.
type Update struct {
	Direction    Direction
	SpeedPercent int
	AngleRadians float64
	Magnitude    float64
	Source       Source
}

// StopUpdate returns the canonical terminal write for a source.
func StopUpdate(source Source) Update {
	return Update{Direction: DirectionStop, SpeedPercent: 0, Source: source}
}

// ClampSpeed clamps a speed percentage into [0, 100].
func ClampSpeed(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
