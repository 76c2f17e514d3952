package api

import (
	"context"
	"net/http"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/vehicle-control/vcc/internal/auth"
)

// Version of the console API.
const Version = "1.0.0"

// Server is the northbound HTTP API.
type Server struct {
	httpServer *http.Server

	joystick  JoystickPort
	keyboard  KeyboardPort
	buttons   ButtonPort
	voice     VoicePort
	state     StatePort
	commands  CommandPort
	telemetry TelemetryPort
	locations LocationsPort

	authMiddleware *auth.Middleware
	logger         golog.Logger
	startTime      time.Time

	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration
}

// Deps bundles the ports the server talks to.
type Deps struct {
	Joystick  JoystickPort
	Keyboard  KeyboardPort
	Buttons   ButtonPort
	Voice     VoicePort
	State     StatePort
	Commands  CommandPort
	Telemetry TelemetryPort
	Locations LocationsPort

	// Auth is optional; with a nil middleware the API runs open.
	Auth *auth.Middleware

	Logger golog.Logger

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer creates the API server.
func NewServer(deps Deps) *Server {
	return &Server{
		joystick:       deps.Joystick,
		keyboard:       deps.Keyboard,
		buttons:        deps.Buttons,
		voice:          deps.Voice,
		state:          deps.State,
		commands:       deps.Commands,
		telemetry:      deps.Telemetry,
		locations:      deps.Locations,
		authMiddleware: deps.Auth,
		logger:         deps.Logger,
		startTime:      time.Now(),
		readTimeout:    deps.ReadTimeout,
		writeTimeout:   deps.WriteTimeout,
		idleTimeout:    deps.IdleTimeout,
	}
}

// Start serves the API on addr until Stop is called.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: s.readTimeout,
		// The telemetry stream writes indefinitely; WriteTimeout applies
		// per-connection, so it stays unset and command handlers rely on
		// their own deadlines.
		IdleTimeout: s.idleTimeout,
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "serve console API")
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown console API")
	}
	return nil
}
