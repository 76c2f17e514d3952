package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vehicle-control/vcc/internal/auth"
	"github.com/vehicle-control/vcc/internal/input"
	"github.com/vehicle-control/vcc/internal/motion"
	"github.com/vehicle-control/vcc/internal/vehicle"
)

// RegisterRoutes registers all v1 endpoints. Health is always open; when
// auth is configured, read endpoints need the read scope and everything
// that moves the vehicle needs the control scope.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	const apiV1 = "/api/v1"

	mux.HandleFunc(apiV1+"/health", s.handleHealth)

	read := s.protect(auth.ScopeRead)
	control := s.protect(auth.ScopeControl)

	mux.HandleFunc(apiV1+"/state", read(s.handleState))
	mux.HandleFunc(apiV1+"/telemetry", read(s.handleTelemetry))
	mux.HandleFunc(apiV1+"/locations", read(s.handleLocations))

	mux.HandleFunc(apiV1+"/motion/joystick", control(s.handleJoystick))
	mux.HandleFunc(apiV1+"/motion/key", control(s.handleKey))
	mux.HandleFunc(apiV1+"/motion/button", control(s.handleButton))
	mux.HandleFunc(apiV1+"/motion/speed", control(s.handleSpeed))

	mux.HandleFunc(apiV1+"/camera", control(s.handleCamera))
	mux.HandleFunc(apiV1+"/map", control(s.handleMap))
	mux.HandleFunc(apiV1+"/map/location", control(s.handleNameLocation))
	mux.HandleFunc(apiV1+"/navigation", control(s.handleNavigation))
	mux.HandleFunc(apiV1+"/voice", control(s.handleVoice))
}

// protect wraps a handler with auth when a middleware is configured.
func (s *Server) protect(scope string) func(http.HandlerFunc) http.HandlerFunc {
	if s.authMiddleware == nil {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return s.authMiddleware.RequireAuth(s.authMiddleware.RequireScope(scope)(next))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	WriteSuccess(w, map[string]interface{}{
		"status":        "ok",
		"version":       Version,
		"uptimeSeconds": int(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	WriteSuccess(w, map[string]interface{}{
		"motion":        s.state.State(),
		"cruiseSpeed":   s.state.CruiseSpeed(),
		"uptimeSeconds": int(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	s.telemetry.ServeSSE(w, r)
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	WriteSuccess(w, map[string]interface{}{"locations": s.locations.List()})
}

type joystickRequest struct {
	Phase string  `json:"phase"`
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
}

func (s *Server) handleJoystick(w http.ResponseWriter, r *http.Request) {
	var req joystickRequest
	if !decodePost(w, r, &req) {
		return
	}
	switch req.Phase {
	case "start":
		s.joystick.DragStart()
	case "move":
		s.joystick.DragMove(req.DX, req.DY)
	case "end":
		s.joystick.DragEnd()
	default:
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "phase must be start, move, or end")
		return
	}
	WriteSuccess(w, s.state.State())
}

type keyRequest struct {
	Key            string `json:"key"`
	Action         string `json:"action"`
	EditableTarget bool   `json:"editableTarget"`
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !decodePost(w, r, &req) {
		return
	}
	switch req.Action {
	case "down":
		s.keyboard.KeyDown(input.Key(req.Key), req.EditableTarget)
	case "up":
		s.keyboard.KeyUp(input.Key(req.Key))
	default:
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "action must be down or up")
		return
	}
	WriteSuccess(w, s.state.State())
}

type buttonRequest struct {
	Direction string `json:"direction"`
}

func (s *Server) handleButton(w http.ResponseWriter, r *http.Request) {
	var req buttonRequest
	if !decodePost(w, r, &req) {
		return
	}
	state, err := s.buttons.Press(motion.Direction(req.Direction))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	WriteSuccess(w, state)
}

type speedRequest struct {
	SpeedPercent int `json:"speedPercent"`
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req speedRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.SpeedPercent < 0 || req.SpeedPercent > 100 {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "speedPercent must be within 0-100")
		return
	}
	s.joystick.SetSpeed(req.SpeedPercent)
	WriteSuccess(w, map[string]interface{}{"cruiseSpeed": s.state.CruiseSpeed()})
}

type cameraRequest struct {
	Control string `json:"control"`
	Value   int    `json:"value"`
}

func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request) {
	var req cameraRequest
	if !decodePost(w, r, &req) {
		return
	}
	switch req.Control {
	case vehicle.GimbalPan:
		if req.Value < -90 || req.Value > 90 {
			WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "pan must be within -90..90 degrees")
			return
		}
	case vehicle.GimbalTilt:
		if req.Value < -45 || req.Value > 45 {
			WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "tilt must be within -45..45 degrees")
			return
		}
	default:
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "control must be pan or tilt")
		return
	}

	if err := s.commands.Camera(r.Context(), req.Control, req.Value); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]interface{}{"control": req.Control, "value": req.Value})
}

type mapRequest struct {
	Action string `json:"action"`
	Name   string `json:"name"`
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	var req mapRequest
	if !decodePost(w, r, &req) {
		return
	}
	action := vehicle.MappingAction(req.Action)
	switch action {
	case vehicle.MappingStart, vehicle.MappingStop, vehicle.MappingSave, vehicle.MappingLoad:
	default:
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "action must be start, stop, save, or load")
		return
	}

	cmd := vehicle.MappingCommand{Action: action, Name: req.Name}
	if err := s.commands.Mapping(r.Context(), cmd); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]interface{}{"action": req.Action})
}

type nameLocationRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleNameLocation(w http.ResponseWriter, r *http.Request) {
	var req nameLocationRequest
	if !decodePost(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "location name must not be empty")
		return
	}

	cmd := vehicle.MappingCommand{Action: vehicle.MappingNameLocation, Name: name}
	if err := s.commands.Mapping(r.Context(), cmd); err != nil {
		writeServiceError(w, err)
		return
	}
	s.locations.Add(name)
	WriteSuccess(w, map[string]interface{}{"name": name})
}

type navigationRequest struct {
	Action      string `json:"action"`
	Destination string `json:"destination"`
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	var req navigationRequest
	if !decodePost(w, r, &req) {
		return
	}
	switch req.Action {
	case "start":
		if req.Destination == "" {
			WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "destination must not be empty")
			return
		}
		if !s.locations.Has(req.Destination) {
			WriteError(w, http.StatusBadRequest, "UNKNOWN_LOCATION", "destination is not a known location")
			return
		}
		cmd := vehicle.MappingCommand{Action: vehicle.MappingNavigate, Destination: req.Destination}
		if err := s.commands.Mapping(r.Context(), cmd); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteSuccess(w, map[string]interface{}{"destination": req.Destination})
	case "stop":
		cmd := vehicle.MappingCommand{Action: vehicle.MappingStop}
		if err := s.commands.Mapping(r.Context(), cmd); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteSuccess(w, map[string]interface{}{"stopped": true})
	default:
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "action must be start or stop")
	}
}

type voiceRequest struct {
	Utterance string `json:"utterance"`
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if !decodePost(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Utterance) == "" {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "utterance must not be empty")
		return
	}
	reply := s.voice.HandleUtterance(r.Context(), req.Utterance)
	WriteSuccess(w, reply)
}

// decodePost enforces POST + JSON body. It writes the error envelope and
// returns false when the request is unusable.
func decodePost(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body")
		return false
	}
	return true
}

// writeServiceError maps normalized southbound errors to HTTP answers.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, vehicle.ErrInvalidParameter):
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
	case errors.Is(err, vehicle.ErrRejected):
		WriteError(w, http.StatusBadGateway, "REJECTED", err.Error())
	case errors.Is(err, vehicle.ErrUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}
