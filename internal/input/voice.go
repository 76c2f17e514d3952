package input

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/vehicle-control/vcc/internal/config"
	"github.com/vehicle-control/vcc/internal/motion"
	"github.com/vehicle-control/vcc/internal/vehicle"
)

// MappingDispatcher is the slice of the dispatcher the voice adapter needs
// for mapping and navigation intents.
type MappingDispatcher interface {
	Mapping(ctx context.Context, cmd vehicle.MappingCommand) error
}

// Reply is what the operator sees after an utterance is processed.
type Reply struct {
	Intent IntentKind `json:"intent"`
	// Message is the local canned response; it is what drives the UI.
	Message string `json:"message"`
	// ServiceReply is the recognition service's free-text answer. Cosmetic
	// only: it never influences vehicle behavior.
	ServiceReply string `json:"serviceReply,omitempty"`
	// Acted reports whether the utterance changed state or issued a
	// southbound call.
	Acted bool `json:"acted"`
}

// Voice interprets utterances against the fixed rule table and executes the
// resulting intent.
//
// Voice is the only adapter that self-terminates a direction: a movement
// intent has no release event, so an automatic stop is scheduled after a
// configured window. The timer is canceled by any subsequent command from
// any source.
type Voice struct {
	store     *motion.Store
	mapper    MappingDispatcher
	service   vehicle.VoiceService
	locations *config.Locations

	clk           clock.Clock
	autoStopAfter time.Duration
	logger        golog.Logger
}

// NewVoice creates a voice adapter. clk is injectable so tests can drive
// the auto-stop window with a mock clock.
func NewVoice(
	store *motion.Store,
	mapper MappingDispatcher,
	service vehicle.VoiceService,
	locations *config.Locations,
	clk clock.Clock,
	autoStopAfter time.Duration,
	logger golog.Logger,
) *Voice {
	return &Voice{
		store:         store,
		mapper:        mapper,
		service:       service,
		locations:     locations,
		clk:           clk,
		autoStopAfter: autoStopAfter,
		logger:        logger,
	}
}

// HandleUtterance extracts an intent and executes it. Unmatched utterances
// and unknown destinations refuse locally: a canned message, no state
// mutation, no southbound call.
func (v *Voice) HandleUtterance(ctx context.Context, utterance string) Reply {
	intent := Interpret(utterance)
	reply := v.execute(ctx, intent)
	reply.ServiceReply = v.askService(ctx, utterance)
	return reply
}

func (v *Voice) execute(ctx context.Context, intent Intent) Reply {
	switch intent.Kind {
	case IntentGreeting:
		return Reply{Intent: intent.Kind, Message: "Hello! How can I assist you today?"}

	case IntentStatus:
		return Reply{Intent: intent.Kind, Message: "All systems are functioning normally."}

	case IntentMovement:
		v.applyWithAutoStop(motion.Update{
			Direction:    intent.Direction,
			SpeedPercent: intent.SpeedPercent,
			Source:       motion.SourceVoice,
		})
		return Reply{
			Intent:  intent.Kind,
			Message: fmt.Sprintf("Moving %s at %d%% speed.", intent.Direction, intent.SpeedPercent),
			Acted:   true,
		}

	case IntentStop:
		v.store.Apply(motion.StopUpdate(motion.SourceVoice))
		return Reply{Intent: intent.Kind, Message: "Stopping now.", Acted: true}

	case IntentMapping:
		cmd := vehicle.MappingCommand{Action: intent.MappingAction}
		if err := v.mapper.Mapping(ctx, cmd); err != nil {
			return Reply{
				Intent:  intent.Kind,
				Message: fmt.Sprintf("Could not %s mapping: %v.", intent.MappingAction, err),
			}
		}
		return Reply{
			Intent:  intent.Kind,
			Message: fmt.Sprintf("Mapping %s acknowledged.", intent.MappingAction),
			Acted:   true,
		}

	case IntentNavigation:
		if !v.locations.Has(intent.Destination) {
			return Reply{
				Intent:  intent.Kind,
				Message: fmt.Sprintf("I don't know where %q is.", intent.Destination),
			}
		}
		cmd := vehicle.MappingCommand{
			Action:      vehicle.MappingNavigate,
			Destination: intent.Destination,
		}
		if err := v.mapper.Mapping(ctx, cmd); err != nil {
			return Reply{
				Intent:  intent.Kind,
				Message: fmt.Sprintf("Could not navigate to %s: %v.", intent.Destination, err),
			}
		}
		return Reply{
			Intent:  intent.Kind,
			Message: fmt.Sprintf("Navigating to %s.", intent.Destination),
			Acted:   true,
		}

	default:
		return Reply{Intent: IntentUnknown, Message: "I'm sorry, I didn't understand that command."}
	}
}

// applyWithAutoStop writes the movement and arms its automatic stop in the
// same arbitration step. The store cancels the timer on the next applied
// command from any source; arming together with the write means no command
// can land between the two and be killed by a stale timer.
func (v *Voice) applyWithAutoStop(u motion.Update) {
	timer := v.clk.AfterFunc(v.autoStopAfter, func() {
		v.logger.Infow("voice movement window elapsed, stopping")
		v.store.Apply(motion.StopUpdate(motion.SourceVoice))
	})
	v.store.ApplyArmed(u, func() { timer.Stop() })
}

// askService forwards the raw utterance for a conversational reply.
// Failures are logged and swallowed: the reply is cosmetic.
func (v *Voice) askService(ctx context.Context, utterance string) string {
	reply, err := v.service.Ask(ctx, utterance)
	if err != nil {
		v.logger.Debugw("voice service unavailable", "error", err)
		return ""
	}
	return reply
}
