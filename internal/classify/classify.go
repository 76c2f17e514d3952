package classify

import (
	"math"

	"github.com/vehicle-control/vcc/internal/motion"
)

// Classify converts an offset (dx, dy) from a fixed origin into a discrete
// direction and a magnitude in [0, 1]. Offsets beyond maxRadius are clamped
// to the rim, so magnitude saturates at 1.
//
// Angle buckets are lower-edge inclusive, [lo, hi) in degrees:
//
//	right    [-45,   45)
//	backward [ 45,  135)
//	left     [135,  180] and [-180, -135)
//	forward  [-135, -45)
//
// A zero offset classifies as stop regardless of angle.
func Classify(dx, dy, maxRadius float64) (motion.Direction, float64) {
	distance := math.Hypot(dx, dy)
	if distance == 0 {
		return motion.DirectionStop, 0
	}
	if distance > maxRadius {
		distance = maxRadius
	}
	magnitude := distance / maxRadius

	angleDeg := math.Atan2(dy, dx) * 180 / math.Pi

	var direction motion.Direction
	switch {
	case angleDeg >= -45 && angleDeg < 45:
		direction = motion.DirectionRight
	case angleDeg >= 45 && angleDeg < 135:
		direction = motion.DirectionBackward
	case angleDeg >= -135 && angleDeg < -45:
		direction = motion.DirectionForward
	default:
		direction = motion.DirectionLeft
	}

	return direction, magnitude
}

// Angle returns the offset angle in radians, as reported alongside the
// classified direction in the motion state.
func Angle(dx, dy float64) float64 {
	if dx == 0 && dy == 0 {
		return 0
	}
	return math.Atan2(dy, dx)
}
