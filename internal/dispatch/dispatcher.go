package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/edaniels/golog"

	"github.com/vehicle-control/vcc/internal/audit"
	"github.com/vehicle-control/vcc/internal/motion"
	"github.com/vehicle-control/vcc/internal/vehicle"
)

// StatusSink receives passive, user-visible status messages.
type StatusSink interface {
	Status(level, message string)
}

// Dispatcher owns all southbound command traffic: asynchronous motion
// commands plus the synchronous camera and mapping pass-throughs. Every
// call is audited with its outcome and latency.
type Dispatcher struct {
	motionSvc  vehicle.MotionService
	cameraSvc  vehicle.CameraService
	mappingSvc vehicle.MappingService

	recorder audit.Recorder
	status   StatusSink
	logger   golog.Logger
	timeout  time.Duration

	wg sync.WaitGroup
}

// New creates a dispatcher. timeout bounds each southbound call.
func New(
	motionSvc vehicle.MotionService,
	cameraSvc vehicle.CameraService,
	mappingSvc vehicle.MappingService,
	recorder audit.Recorder,
	status StatusSink,
	logger golog.Logger,
	timeout time.Duration,
) *Dispatcher {
	return &Dispatcher{
		motionSvc:  motionSvc,
		cameraSvc:  cameraSvc,
		mappingSvc: mappingSvc,
		recorder:   recorder,
		status:     status,
		logger:     logger,
		timeout:    timeout,
	}
}

// DispatchMotion implements motion.Dispatcher. It hands the send off to a
// goroutine and returns immediately; the result is only used for logging,
// auditing, and a status message. A command superseded while in flight is
// still transmitted; later commands never wait for earlier responses.
func (d *Dispatcher) DispatchMotion(direction motion.Direction, speedPercent int) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		start := time.Now()
		err := d.motionSvc.Move(ctx, direction, speedPercent)
		latency := time.Since(start)

		d.recorder.Record("move", map[string]interface{}{
			"direction": string(direction),
			"speed":     speedPercent,
		}, vehicle.CodeOf(err), latency)

		if err != nil {
			d.logger.Errorw("motion command failed",
				"direction", direction, "speed", speedPercent, "error", err)
			d.status.Status("error",
				fmt.Sprintf("motion command %s failed: %v", direction, err))
			return
		}
		d.logger.Debugw("motion command delivered",
			"direction", direction, "speed", speedPercent, "latency", latency)
	}()
}

// Camera forwards a gimbal move and waits for the answer.
func (d *Dispatcher) Camera(ctx context.Context, control string, valueDegrees int) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := d.cameraSvc.SetGimbal(ctx, control, valueDegrees)
	d.recorder.Record("camera", map[string]interface{}{
		"control": control,
		"value":   valueDegrees,
	}, vehicle.CodeOf(err), time.Since(start))

	if err != nil {
		d.logger.Errorw("camera command failed", "control", control, "error", err)
	}
	return err
}

// Mapping forwards a mapping or navigation action and waits for the answer.
func (d *Dispatcher) Mapping(ctx context.Context, cmd vehicle.MappingCommand) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := d.mappingSvc.Execute(ctx, cmd)
	d.recorder.Record("mapping", map[string]interface{}{
		"action":      string(cmd.Action),
		"name":        cmd.Name,
		"destination": cmd.Destination,
	}, vehicle.CodeOf(err), time.Since(start))

	if err != nil {
		d.logger.Errorw("mapping command failed", "action", cmd.Action, "error", err)
	}
	return err
}

// Wait blocks until in-flight motion commands finish. Used on shutdown and
// by tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
