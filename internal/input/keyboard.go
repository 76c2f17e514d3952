package input

import (
	"sync"

	"github.com/vehicle-control/vcc/internal/motion"
)

// Key is a keyboard key name as reported by the UI.
type Key string

// Keys the adapter reacts to; everything else is ignored.
const (
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeySpace      Key = "Space"
)

var keyDirections = map[Key]motion.Direction{
	KeyArrowUp:    motion.DirectionForward,
	KeyArrowDown:  motion.DirectionBackward,
	KeyArrowLeft:  motion.DirectionLeft,
	KeyArrowRight: motion.DirectionRight,
}

// Keyboard maps arrow keys to directions and space to stop. Keyboard input
// has no continuous deflection, so it bypasses the classifier and always
// drives at the full cruise speed.
//
// Release tracking follows the most recent directional key only: pressing a
// second key supersedes the first, and the first key's later release must
// not stop the second.
type Keyboard struct {
	store *motion.Store

	mu   sync.Mutex
	held Key
}

// NewKeyboard creates a keyboard adapter.
func NewKeyboard(store *motion.Store) *Keyboard {
	return &Keyboard{store: store}
}

// KeyDown handles a key press. Events originating from an editable control
// (text input, select) are ignored so driving keys never hijack form
// typing. OS key-repeat emits duplicate downs for a held key; those are
// idempotent and produce no duplicate command.
func (k *Keyboard) KeyDown(key Key, editableTarget bool) {
	if editableTarget {
		return
	}

	if key == KeySpace {
		k.mu.Lock()
		k.held = ""
		k.mu.Unlock()
		k.store.Apply(motion.StopUpdate(motion.SourceKeyboard))
		return
	}

	direction, ok := keyDirections[key]
	if !ok {
		return
	}

	k.mu.Lock()
	if k.held == key {
		// Key-repeat for the key already held.
		k.mu.Unlock()
		return
	}
	k.held = key
	k.mu.Unlock()

	k.store.Apply(motion.Update{
		Direction:    direction,
		SpeedPercent: k.store.CruiseSpeed(),
		Source:       motion.SourceKeyboard,
	})
}

// KeyUp handles a key release. The release is authoritative for the held
// key regardless of how many downs preceded it; a release of a superseded
// (stale) key is ignored.
func (k *Keyboard) KeyUp(key Key) {
	if _, ok := keyDirections[key]; !ok {
		return
	}

	k.mu.Lock()
	if k.held != key {
		k.mu.Unlock()
		return
	}
	k.held = ""
	k.mu.Unlock()

	k.store.Apply(motion.StopUpdate(motion.SourceKeyboard))
}

// Held returns the directional key currently tracked for release.
func (k *Keyboard) Held() Key {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.held
}
