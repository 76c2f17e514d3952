package config

import (
	"sort"
	"strings"
	"sync"
)

// Locations is the set of named places the vehicle can navigate to. It is
// seeded from configuration and grows as the operator names locations during
// a mapping session. Lookups are case-insensitive.
type Locations struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// NewLocations creates a location set seeded with names.
func NewLocations(names []string) *Locations {
	l := &Locations{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if key := normalizeLocation(n); key != "" {
			l.names[key] = struct{}{}
		}
	}
	return l
}

// Add registers a named location. Empty names are ignored.
func (l *Locations) Add(name string) {
	key := normalizeLocation(name)
	if key == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names[key] = struct{}{}
}

// Has reports whether name is a known location.
func (l *Locations) Has(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.names[normalizeLocation(name)]
	return ok
}

// List returns the known locations in sorted order.
func (l *Locations) List() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.names))
	for n := range l.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func normalizeLocation(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
