// Package classify maps a 2D pointer offset to a discrete drive direction
// and a normalized magnitude.
//
// Coordinates are screen-space: X grows right, Y grows down. "Forward"
// therefore corresponds to offsets above the origin (negative dy).
package classify
