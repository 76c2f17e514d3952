// Package vehicle holds the southbound contracts to the services running on
// the vehicle: motion, camera gimbal, mapping, and voice recognition.
//
// All services speak the same envelope: a JSON request POSTed to a fixed
// base address, answered by {"success": bool, "error": string}. Transport
// failures and non-success responses surface as normalized errors; nothing
// here panics or throws past the client boundary.
package vehicle
