package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/vehicle-control/vcc/internal/auth"
	"github.com/vehicle-control/vcc/internal/config"
	"github.com/vehicle-control/vcc/internal/input"
	"github.com/vehicle-control/vcc/internal/motion"
	"github.com/vehicle-control/vcc/internal/vehicle"
)

// nullDispatcher satisfies motion.Dispatcher; the API tests only care about
// local state and the command port.
type nullDispatcher struct{}

func (nullDispatcher) DispatchMotion(direction motion.Direction, speedPercent int) {}

type nullFeedback struct{}

func (nullFeedback) MotionChanged(state motion.State) {}

type cameraCall struct {
	Control string
	Value   int
}

// fakeCommands implements CommandPort with settable behavior.
type fakeCommands struct {
	mu           sync.Mutex
	cameraCalls  []cameraCall
	mappingCalls []vehicle.MappingCommand

	cameraErr  error
	mappingErr error
}

func (f *fakeCommands) Camera(ctx context.Context, control string, valueDegrees int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cameraCalls = append(f.cameraCalls, cameraCall{control, valueDegrees})
	return f.cameraErr
}

func (f *fakeCommands) Mapping(ctx context.Context, cmd vehicle.MappingCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mappingCalls = append(f.mappingCalls, cmd)
	return f.mappingErr
}

func (f *fakeCommands) cameraCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cameraCalls)
}

func (f *fakeCommands) lastMapping() (vehicle.MappingCommand, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.mappingCalls) == 0 {
		return vehicle.MappingCommand{}, false
	}
	return f.mappingCalls[len(f.mappingCalls)-1], true
}

type stubTelemetry struct{}

func (stubTelemetry) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type stubMapper struct{}

func (stubMapper) Mapping(ctx context.Context, cmd vehicle.MappingCommand) error { return nil }

type stubVoiceService struct{}

func (stubVoiceService) Ask(ctx context.Context, utterance string) (string, error) {
	return "understood", nil
}

type apiFixture struct {
	srv      *httptest.Server
	store    *motion.Store
	commands *fakeCommands
}

func newAPIFixture(t *testing.T, authMw *auth.Middleware) *apiFixture {
	t.Helper()
	logger := golog.NewTestLogger(t)

	store := motion.NewStore(80, nullDispatcher{}, nullFeedback{})
	joystick := input.NewJoystick(store, 50)
	keyboard := input.NewKeyboard(store)
	buttons := input.NewButtons(store)
	locations := config.NewLocations([]string{"kitchen"})
	voice := input.NewVoice(store, stubMapper{}, stubVoiceService{}, locations,
		clock.NewMock(), 3*time.Second, logger)

	commands := &fakeCommands{}
	server := NewServer(Deps{
		Joystick:  joystick,
		Keyboard:  keyboard,
		Buttons:   buttons,
		Voice:     voice,
		State:     store,
		Commands:  commands,
		Telemetry: stubTelemetry{},
		Locations: locations,
		Auth:      authMw,
		Logger:    logger,
	})

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &apiFixture{srv: srv, store: store, commands: commands}
}

func (f *apiFixture) post(t *testing.T, path string, body interface{}, token string) (int, Response) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, f.srv.URL+path, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()

	var env Response
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope from %s: %v", path, err)
	}
	return resp.StatusCode, env
}

func (f *apiFixture) get(t *testing.T, path, token string) (int, Response) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.srv.URL+path, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()

	var env Response
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope from %s: %v", path, err)
	}
	return resp.StatusCode, env
}

func TestHealthEnvelope(t *testing.T) {
	f := newAPIFixture(t, nil)

	status, env := f.get(t, "/api/v1/health", "")
	if status != http.StatusOK || env.Result != "ok" {
		t.Fatalf("health = %d %+v, want 200 ok", status, env)
	}
	if env.CorrelationID == "" {
		t.Error("envelope missing correlation id")
	}
	data, ok := env.Data.(map[string]interface{})
	if !ok || data["status"] != "ok" || data["version"] != Version {
		t.Errorf("data = %v, want status ok and version", env.Data)
	}
}

func TestJoystickDragFlow(t *testing.T) {
	f := newAPIFixture(t, nil)

	f.post(t, "/api/v1/motion/joystick", map[string]interface{}{"phase": "start"}, "")
	status, env := f.post(t, "/api/v1/motion/joystick",
		map[string]interface{}{"phase": "move", "dx": 40, "dy": 0}, "")
	if status != http.StatusOK {
		t.Fatalf("move: status = %d %+v", status, env)
	}

	state := f.store.State()
	if state.Direction != motion.DirectionRight || state.SpeedPercent != 64 {
		t.Errorf("state = (%s, %d), want (right, 64)", state.Direction, state.SpeedPercent)
	}

	f.post(t, "/api/v1/motion/joystick", map[string]interface{}{"phase": "end"}, "")
	if f.store.State().Direction != motion.DirectionStop {
		t.Errorf("direction after end = %s, want stop", f.store.State().Direction)
	}
}

func TestJoystickRejectsUnknownPhase(t *testing.T) {
	f := newAPIFixture(t, nil)
	status, env := f.post(t, "/api/v1/motion/joystick", map[string]interface{}{"phase": "wiggle"}, "")
	if status != http.StatusBadRequest || env.Code != "BAD_REQUEST" {
		t.Errorf("status = %d code = %s, want 400 BAD_REQUEST", status, env.Code)
	}
}

func TestKeyFlow(t *testing.T) {
	f := newAPIFixture(t, nil)

	f.post(t, "/api/v1/motion/key", map[string]interface{}{"key": "ArrowUp", "action": "down"}, "")
	state := f.store.State()
	if state.Direction != motion.DirectionForward || state.SpeedPercent != 80 {
		t.Fatalf("state = (%s, %d), want (forward, 80)", state.Direction, state.SpeedPercent)
	}

	f.post(t, "/api/v1/motion/key", map[string]interface{}{"key": "ArrowUp", "action": "up"}, "")
	if f.store.State().Direction != motion.DirectionStop {
		t.Errorf("direction after release = %s, want stop", f.store.State().Direction)
	}
}

func TestButtonRejectsUnknownDirection(t *testing.T) {
	f := newAPIFixture(t, nil)
	status, env := f.post(t, "/api/v1/motion/button", map[string]interface{}{"direction": "sideways"}, "")
	if status != http.StatusBadRequest || env.Code != "BAD_REQUEST" {
		t.Errorf("status = %d code = %s, want 400 BAD_REQUEST", status, env.Code)
	}
}

func TestSpeedValidation(t *testing.T) {
	f := newAPIFixture(t, nil)

	status, _ := f.post(t, "/api/v1/motion/speed", map[string]interface{}{"speedPercent": 150}, "")
	if status != http.StatusBadRequest {
		t.Errorf("out-of-range speed: status = %d, want 400", status)
	}

	status, env := f.post(t, "/api/v1/motion/speed", map[string]interface{}{"speedPercent": 30}, "")
	if status != http.StatusOK {
		t.Fatalf("status = %d %+v", status, env)
	}
	if f.store.CruiseSpeed() != 30 {
		t.Errorf("cruise = %d, want 30", f.store.CruiseSpeed())
	}
}

func TestCameraRangeValidation(t *testing.T) {
	f := newAPIFixture(t, nil)

	status, _ := f.post(t, "/api/v1/camera", map[string]interface{}{"control": "pan", "value": 120}, "")
	if status != http.StatusBadRequest {
		t.Errorf("pan 120: status = %d, want 400", status)
	}
	status, _ = f.post(t, "/api/v1/camera", map[string]interface{}{"control": "tilt", "value": -50}, "")
	if status != http.StatusBadRequest {
		t.Errorf("tilt -50: status = %d, want 400", status)
	}
	if f.commands.cameraCount() != 0 {
		t.Errorf("rejected requests reached the service: %d calls", f.commands.cameraCount())
	}

	status, _ = f.post(t, "/api/v1/camera", map[string]interface{}{"control": "pan", "value": 45}, "")
	if status != http.StatusOK || f.commands.cameraCount() != 1 {
		t.Errorf("valid pan: status = %d calls = %d, want 200 and 1 call", status, f.commands.cameraCount())
	}
}

func TestCameraServiceErrorMapping(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.commands.cameraErr = &vehicle.ServiceError{Code: vehicle.ErrUnavailable, Service: "camera", Message: "down"}

	status, env := f.post(t, "/api/v1/camera", map[string]interface{}{"control": "tilt", "value": 10}, "")
	if status != http.StatusServiceUnavailable || env.Code != "UNAVAILABLE" {
		t.Errorf("status = %d code = %s, want 503 UNAVAILABLE", status, env.Code)
	}
}

func TestMapActions(t *testing.T) {
	f := newAPIFixture(t, nil)

	status, _ := f.post(t, "/api/v1/map", map[string]interface{}{"action": "start"}, "")
	if status != http.StatusOK {
		t.Fatalf("start: status = %d", status)
	}
	cmd, ok := f.commands.lastMapping()
	if !ok || cmd.Action != vehicle.MappingStart {
		t.Errorf("mapping command = %+v, want start", cmd)
	}

	status, env := f.post(t, "/api/v1/map", map[string]interface{}{"action": "explode"}, "")
	if status != http.StatusBadRequest || env.Code != "BAD_REQUEST" {
		t.Errorf("unknown action: status = %d code = %s", status, env.Code)
	}
}

func TestNameLocationRegistersForNavigation(t *testing.T) {
	f := newAPIFixture(t, nil)

	status, _ := f.post(t, "/api/v1/map/location", map[string]interface{}{"name": "  "}, "")
	if status != http.StatusBadRequest {
		t.Errorf("blank name: status = %d, want 400", status)
	}

	status, _ = f.post(t, "/api/v1/map/location", map[string]interface{}{"name": "Dock"}, "")
	if status != http.StatusOK {
		t.Fatalf("name location: status = %d", status)
	}
	cmd, _ := f.commands.lastMapping()
	if cmd.Action != vehicle.MappingNameLocation || cmd.Name != "Dock" {
		t.Errorf("mapping command = %+v, want name_location Dock", cmd)
	}

	// The freshly named location is immediately navigable.
	status, _ = f.post(t, "/api/v1/navigation", map[string]interface{}{"action": "start", "destination": "dock"}, "")
	if status != http.StatusOK {
		t.Errorf("navigate to named location: status = %d, want 200", status)
	}
}

func TestNavigationUnknownLocation(t *testing.T) {
	f := newAPIFixture(t, nil)

	status, env := f.post(t, "/api/v1/navigation", map[string]interface{}{"action": "start", "destination": "garage"}, "")
	if status != http.StatusBadRequest || env.Code != "UNKNOWN_LOCATION" {
		t.Errorf("status = %d code = %s, want 400 UNKNOWN_LOCATION", status, env.Code)
	}
	if _, ok := f.commands.lastMapping(); ok {
		t.Error("unknown destination reached the mapping service")
	}

	status, _ = f.post(t, "/api/v1/navigation", map[string]interface{}{"action": "start", "destination": "kitchen"}, "")
	if status != http.StatusOK {
		t.Errorf("known destination: status = %d, want 200", status)
	}
}

func TestVoiceEndpoint(t *testing.T) {
	f := newAPIFixture(t, nil)

	status, _ := f.post(t, "/api/v1/voice", map[string]interface{}{"utterance": "  "}, "")
	if status != http.StatusBadRequest {
		t.Errorf("blank utterance: status = %d, want 400", status)
	}

	status, env := f.post(t, "/api/v1/voice", map[string]interface{}{"utterance": "go forward"}, "")
	if status != http.StatusOK {
		t.Fatalf("status = %d %+v", status, env)
	}
	if f.store.State().Direction != motion.DirectionForward {
		t.Errorf("direction = %s, want forward", f.store.State().Direction)
	}
}

func TestStateSnapshot(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.post(t, "/api/v1/motion/button", map[string]interface{}{"direction": "left"}, "")

	status, env := f.get(t, "/api/v1/state", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %v", env.Data)
	}
	motionData, ok := data["motion"].(map[string]interface{})
	if !ok || motionData["direction"] != "left" {
		t.Errorf("motion = %v, want direction left", data["motion"])
	}
	if data["cruiseSpeed"] != float64(80) {
		t.Errorf("cruiseSpeed = %v, want 80", data["cruiseSpeed"])
	}
}

func TestAuthEnforcement(t *testing.T) {
	verifier := auth.NewVerifier("test-secret")
	f := newAPIFixture(t, auth.NewMiddleware(verifier))

	// Health stays open.
	if status, _ := f.get(t, "/api/v1/health", ""); status != http.StatusOK {
		t.Errorf("health: status = %d, want 200", status)
	}

	// Everything else needs a token.
	if status, _ := f.get(t, "/api/v1/state", ""); status != http.StatusUnauthorized {
		t.Errorf("state without token: status = %d, want 401", status)
	}

	readOnly, err := verifier.IssueToken("viewer", []string{auth.ScopeRead}, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if status, _ := f.get(t, "/api/v1/state", readOnly); status != http.StatusOK {
		t.Errorf("state with read token: status = %d, want 200", status)
	}
	if status, _ := f.post(t, "/api/v1/motion/button", map[string]interface{}{"direction": "forward"}, readOnly); status != http.StatusForbidden {
		t.Errorf("button with read token: status = %d, want 403", status)
	}

	operator, err := verifier.IssueToken("operator", []string{auth.ScopeRead, auth.ScopeControl}, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if status, _ := f.post(t, "/api/v1/motion/button", map[string]interface{}{"direction": "forward"}, operator); status != http.StatusOK {
		t.Errorf("button with control token: status = %d, want 200", status)
	}
}

func TestMalformedBodyRejected(t *testing.T) {
	f := newAPIFixture(t, nil)

	resp, err := http.Post(f.srv.URL+"/api/v1/motion/button", "application/json",
		bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPostOnlyEndpointsRefuseGet(t *testing.T) {
	f := newAPIFixture(t, nil)
	status, env := f.get(t, "/api/v1/motion/button", "")
	if status != http.StatusMethodNotAllowed || env.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("status = %d code = %s, want 405 METHOD_NOT_ALLOWED", status, env.Code)
	}
}
