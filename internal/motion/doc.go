// Package motion owns the vehicle's intended motion state.
//
// The Store is the single source of truth for "what is the vehicle doing
// right now". Input adapters never write fields directly; every mutation
// goes through Apply, which enforces the arbitration invariants:
//
//   - last write wins, no queued history
//   - speed is clamped to 0-100 on write
//   - stop implies zero angle and zero magnitude
//   - exactly one outgoing command per change of (direction, speed);
//     writes that only move the raw joystick vector are visual re-renders
//     and produce no command
//
// Conflicting writes from different input sources are not an error; the
// most recent write fully supersedes earlier ones.
package motion
