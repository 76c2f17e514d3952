// Package main implements the Vehicle Control Console entry point.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/vehicle-control/vcc/internal/api"
	"github.com/vehicle-control/vcc/internal/audit"
	"github.com/vehicle-control/vcc/internal/auth"
	"github.com/vehicle-control/vcc/internal/config"
	"github.com/vehicle-control/vcc/internal/dispatch"
	"github.com/vehicle-control/vcc/internal/feedback"
	"github.com/vehicle-control/vcc/internal/input"
	"github.com/vehicle-control/vcc/internal/motion"
	"github.com/vehicle-control/vcc/internal/vehicle"
)

func main() {
	logger := golog.NewDevelopmentLogger("vcc")
	logger.Infow("starting vehicle control console", "version", api.Version)

	configPath := flag.String("config", "vcc.yaml", "path to the optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalw("failed to load configuration", "error", err)
	}
	logger.Infow("configuration loaded", "listen", cfg.ListenAddr)

	auditLogger, err := audit.NewLogger(cfg.AuditDir)
	if err != nil {
		logger.Fatalw("failed to initialize audit logger", "error", err)
	}

	hub := feedback.NewHub(cfg.FeedbackBufferSize, cfg.HeartbeatInterval, logger)

	httpClient := &http.Client{Timeout: cfg.CommandTimeout}
	motionSvc := vehicle.NewMotionClient(cfg.MotionServiceURL, httpClient)
	cameraSvc := vehicle.NewCameraClient(cfg.CameraServiceURL, httpClient)
	mappingSvc := vehicle.NewMappingClient(cfg.MappingServiceURL, httpClient)
	voiceSvc := vehicle.NewVoiceClient(cfg.VoiceServiceURL, httpClient)

	dispatcher := dispatch.New(motionSvc, cameraSvc, mappingSvc, auditLogger, hub, logger, cfg.CommandTimeout)

	store := motion.NewStore(cfg.DefaultCruiseSpeed, dispatcher, hub)

	locations := config.NewLocations(cfg.KnownLocations)

	joystick := input.NewJoystick(store, cfg.JoystickRadius)
	keyboard := input.NewKeyboard(store)
	buttons := input.NewButtons(store)
	voice := input.NewVoice(store, dispatcher, voiceSvc, locations, clock.New(), cfg.VoiceAutoStopAfter, logger)

	var authMiddleware *auth.Middleware
	if cfg.AuthSecret != "" {
		authMiddleware = auth.NewMiddleware(auth.NewVerifier(cfg.AuthSecret))
		logger.Infow("API authentication enabled")
	} else {
		logger.Warnw("API authentication disabled, running open")
	}

	server := api.NewServer(api.Deps{
		Joystick:     joystick,
		Keyboard:     keyboard,
		Buttons:      buttons,
		Voice:        voice,
		State:        store,
		Commands:     dispatcher,
		Telemetry:    hub,
		Locations:    locations,
		Auth:         authMiddleware,
		Logger:       logger,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.ListenAddr); err != nil {
			serverErr <- err
		}
	}()
	logger.Infow("console API listening", "addr", cfg.ListenAddr)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Infow("received signal, shutting down", "signal", sig)
	case err := <-serverErr:
		logger.Errorw("server error", "error", err)
	}

	// On the way out: stop the vehicle, flush in-flight commands, close
	// everything down.
	store.Apply(motion.StopUpdate(motion.SourceButton))
	dispatcher.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Errorw("error stopping server", "error", err)
	}
	hub.Stop()
	if err := auditLogger.Close(); err != nil {
		logger.Errorw("error closing audit logger", "error", err)
	}
	logger.Infow("vehicle control console stopped")
}
