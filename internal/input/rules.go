package input

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vehicle-control/vcc/internal/motion"
	"github.com/vehicle-control/vcc/internal/vehicle"
)

// IntentKind labels what a voice utterance asked for.
type IntentKind string

// Voice intents, in rough priority order.
const (
	IntentGreeting   IntentKind = "greeting"
	IntentStatus     IntentKind = "status"
	IntentMovement   IntentKind = "movement"
	IntentMapping    IntentKind = "mapping"
	IntentStop       IntentKind = "stop"
	IntentNavigation IntentKind = "navigation"
	IntentUnknown    IntentKind = "unknown"
)

// Intent is the extracted meaning of an utterance.
type Intent struct {
	Kind          IntentKind
	Direction     motion.Direction
	SpeedPercent  int
	MappingAction vehicle.MappingAction
	Destination   string
}

// voiceRule pairs a predicate with the intent it produces. Rules are
// evaluated in table order; the first match wins.
type voiceRule struct {
	match func(utterance string) (Intent, bool)
}

// voiceRules is the fixed keyword dispatch table. This is intent
// extraction, not NLP: word and prefix matching only. Mapping rules sit
// before the bare stop rule so "stop mapping" controls the mapper instead
// of the motors.
var voiceRules = []voiceRule{
	{matchGreeting},
	{matchStatus},
	{matchMovement},
	{matchMapping},
	{matchStop},
	{matchNavigation},
}

// Interpret runs the utterance through the rule table. Unmatched utterances
// yield IntentUnknown and must cause no state change.
func Interpret(utterance string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(utterance))
	for _, r := range voiceRules {
		if intent, ok := r.match(normalized); ok {
			return intent
		}
	}
	return Intent{Kind: IntentUnknown}
}

var speedPattern = regexp.MustCompile(`\b(\d{1,3})\s*(?:%|percent\b)`)

func matchGreeting(s string) (Intent, bool) {
	if hasAnyWord(s, "hello", "hi", "hey", "greetings") {
		return Intent{Kind: IntentGreeting}, true
	}
	return Intent{}, false
}

func matchStatus(s string) (Intent, bool) {
	if hasAnyWord(s, "status") || strings.Contains(s, "how are you") {
		return Intent{Kind: IntentStatus}, true
	}
	return Intent{}, false
}

var movementSynonyms = []struct {
	word      string
	direction motion.Direction
}{
	{"forward", motion.DirectionForward},
	{"ahead", motion.DirectionForward},
	{"backward", motion.DirectionBackward},
	{"back", motion.DirectionBackward},
	{"left", motion.DirectionLeft},
	{"right", motion.DirectionRight},
}

func matchMovement(s string) (Intent, bool) {
	if !hasAnyWord(s, "go", "move", "drive", "turn") {
		return Intent{}, false
	}
	for _, syn := range movementSynonyms {
		if hasAnyWord(s, syn.word) {
			speed := 50
			if m := speedPattern.FindStringSubmatch(s); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					speed = motion.ClampSpeed(n)
				}
			}
			return Intent{Kind: IntentMovement, Direction: syn.direction, SpeedPercent: speed}, true
		}
	}
	return Intent{}, false
}

func matchMapping(s string) (Intent, bool) {
	if !hasAnyWord(s, "mapping", "map", "slam") {
		return Intent{}, false
	}
	switch {
	case hasAnyWord(s, "start", "begin", "initiate"):
		return Intent{Kind: IntentMapping, MappingAction: vehicle.MappingStart}, true
	case hasAnyWord(s, "stop", "end", "finish"):
		return Intent{Kind: IntentMapping, MappingAction: vehicle.MappingStop}, true
	case hasAnyWord(s, "save"):
		return Intent{Kind: IntentMapping, MappingAction: vehicle.MappingSave}, true
	case hasAnyWord(s, "load"):
		return Intent{Kind: IntentMapping, MappingAction: vehicle.MappingLoad}, true
	}
	return Intent{}, false
}

func matchStop(s string) (Intent, bool) {
	if hasAnyWord(s, "stop", "halt", "freeze") {
		return Intent{Kind: IntentStop}, true
	}
	return Intent{}, false
}

var navigationPrefixes = []string{"go to ", "navigate to ", "take me to "}

func matchNavigation(s string) (Intent, bool) {
	for _, prefix := range navigationPrefixes {
		idx := strings.Index(s, prefix)
		if idx < 0 {
			continue
		}
		destination := strings.TrimSpace(s[idx+len(prefix):])
		destination = strings.TrimPrefix(destination, "the ")
		destination = strings.Trim(destination, " .!?")
		if destination == "" {
			continue
		}
		return Intent{Kind: IntentNavigation, Destination: destination}, true
	}
	return Intent{}, false
}

// hasAnyWord reports whether any of words appears as a whole word in s.
func hasAnyWord(s string, words ...string) bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}
