package vehicle

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/vehicle-control/vcc/internal/motion"
)

// Envelope is the uniform response shape every vehicle service answers with.
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	// Response carries the voice service's free-text reply; other services
	// leave it empty.
	Response string `json:"response,omitempty"`
}

// MotionService drives the vehicle.
type MotionService interface {
	Move(ctx context.Context, direction motion.Direction, speedPercent int) error
}

// CameraService aims the camera gimbal.
type CameraService interface {
	SetGimbal(ctx context.Context, control string, valueDegrees int) error
}

// Gimbal controls accepted by the camera service.
const (
	GimbalPan  = "pan"
	GimbalTilt = "tilt"
)

// MappingAction is a mapping service operation.
type MappingAction string

// Mapping service actions.
const (
	MappingStart        MappingAction = "start"
	MappingStop         MappingAction = "stop"
	MappingSave         MappingAction = "save"
	MappingLoad         MappingAction = "load"
	MappingNameLocation MappingAction = "name_location"
	MappingNavigate     MappingAction = "navigate"
)

// MappingCommand is a request to the mapping service.
type MappingCommand struct {
	Action      MappingAction `json:"action"`
	Name        string        `json:"name,omitempty"`
	Destination string        `json:"destination,omitempty"`
}

// MappingService runs SLAM mapping and navigation on the vehicle.
type MappingService interface {
	Execute(ctx context.Context, cmd MappingCommand) error
}

// VoiceService produces a conversational reply for a raw utterance. The
// reply is cosmetic; local keyword dispatch drives actual vehicle behavior.
type VoiceService interface {
	Ask(ctx context.Context, utterance string) (string, error)
}

// Client calls one vehicle service over HTTP using the uniform envelope.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(name, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// post sends the request body and decodes the uniform envelope. A transport
// failure normalizes to UNAVAILABLE, a success=false answer to REJECTED.
func (c *Client) post(ctx context.Context, path string, body interface{}) (*Envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: encode request", c.name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: build request", c.name)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ServiceError{Code: ErrUnavailable, Service: c.name, Message: err.Error()}
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &ServiceError{Code: ErrUnavailable, Service: c.name, Message: "malformed response: " + err.Error()}
	}
	if !env.Success {
		return &env, &ServiceError{Code: ErrRejected, Service: c.name, Message: env.Error}
	}
	return &env, nil
}

// MotionClient implements MotionService against the motion service endpoint.
type MotionClient struct{ *Client }

// NewMotionClient creates a motion service client.
func NewMotionClient(baseURL string, httpClient *http.Client) *MotionClient {
	return &MotionClient{NewClient("motion", baseURL, httpClient)}
}

// Move sends a drive command.
func (c *MotionClient) Move(ctx context.Context, direction motion.Direction, speedPercent int) error {
	if !direction.Valid() {
		return &ServiceError{Code: ErrInvalidParameter, Service: c.name, Message: "invalid direction"}
	}
	_, err := c.post(ctx, "/api/movement", map[string]interface{}{
		"direction": direction,
		"speed":     motion.ClampSpeed(speedPercent),
	})
	return err
}

// CameraClient implements CameraService against the camera service endpoint.
type CameraClient struct{ *Client }

// NewCameraClient creates a camera service client.
func NewCameraClient(baseURL string, httpClient *http.Client) *CameraClient {
	return &CameraClient{NewClient("camera", baseURL, httpClient)}
}

// SetGimbal aims the pan or tilt axis, in degrees.
func (c *CameraClient) SetGimbal(ctx context.Context, control string, valueDegrees int) error {
	_, err := c.post(ctx, "/api/camera", map[string]interface{}{
		"control": control,
		"value":   valueDegrees,
	})
	return err
}

// MappingClient implements MappingService against the mapping service
// endpoint.
type MappingClient struct{ *Client }

// NewMappingClient creates a mapping service client.
func NewMappingClient(baseURL string, httpClient *http.Client) *MappingClient {
	return &MappingClient{NewClient("mapping", baseURL, httpClient)}
}

// Execute runs one mapping or navigation action.
func (c *MappingClient) Execute(ctx context.Context, cmd MappingCommand) error {
	_, err := c.post(ctx, "/api/map", cmd)
	return err
}

// VoiceClient implements VoiceService against the voice service endpoint.
type VoiceClient struct{ *Client }

// NewVoiceClient creates a voice service client.
func NewVoiceClient(baseURL string, httpClient *http.Client) *VoiceClient {
	return &VoiceClient{NewClient("voice", baseURL, httpClient)}
}

// Ask forwards the raw utterance and returns the service's free-text reply.
func (c *VoiceClient) Ask(ctx context.Context, utterance string) (string, error) {
	env, err := c.post(ctx, "/api/voice", map[string]interface{}{
		"command": utterance,
	})
	if err != nil {
		return "", err
	}
	return env.Response, nil
}
