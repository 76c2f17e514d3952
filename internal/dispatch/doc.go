// Package dispatch serializes arbitrated state into southbound service
// calls.
//
// Motion commands are fire-and-forget: Dispatch returns before the network
// round trip, in-flight commands are unordered relative to each other, and
// a failure is logged and surfaced as a passive status message. The local
// state is operator intent, not confirmed vehicle state, so nothing is
// retried or rolled back.
package dispatch
