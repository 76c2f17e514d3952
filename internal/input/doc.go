// Package input translates the operator's input modalities into arbitration
// writes on the motion store.
//
// Four adapters live here: the draggable virtual joystick, the keyboard,
// the discrete direction buttons, and the voice command interpreter. Each
// adapter owns the quirks of its modality (drag tracking, key-repeat
// suppression, auto-stop timers); none of them talks to the network
// directly.
package input
