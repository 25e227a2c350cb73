// Package resistivetouch implements an input controller for a 4-wire resistive touch panel. It polls
// a touch.Engine and reports each new tap as a ButtonPress with the tap's screen position.
package resistivetouch

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"golang.org/x/time/rate"

	"github.com/viam-modules/resistive-touch/components/input"
	"github.com/viam-modules/resistive-touch/logging"
	"github.com/viam-modules/resistive-touch/touch"
	"github.com/viam-modules/resistive-touch/utils"
)

// DefaultPollHz is how often the panel is polled unless configured otherwise.
const DefaultPollHz = 100

// errorLogInterval is the shortest gap between two logs of the same polling error.
const errorLogInterval = 10 * time.Second

var controls = []input.Control{input.ButtonTouch, input.AbsoluteX, input.AbsoluteY, input.AbsolutePressure}

// Config describes how a controller polls its panel.
type Config struct {
	Orientation touch.Orientation `json:"orientation"`
	PollHz      int               `json:"poll_hz,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	if !conf.Orientation.Supported() {
		return goutils.NewConfigValidationError(path,
			errors.Wrapf(touch.ErrUnsupportedOrientation, "orientation %s", conf.Orientation))
	}
	if conf.PollHz < 0 {
		return goutils.NewConfigValidationError(path, errors.New("poll_hz cannot be negative"))
	}
	return nil
}

func (conf *Config) pollInterval() time.Duration {
	hz := conf.PollHz
	if hz == 0 {
		hz = DefaultPollHz
	}
	return time.Second / time.Duration(hz)
}

// An Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the clock that drives polling.
func WithClock(clk clock.Clock) Option {
	return func(c *Controller) {
		c.clk = clk
	}
}

var _ = input.Controller(&Controller{})

// Controller polls a touch engine in the background and turns taps into input events.
type Controller struct {
	engine   *touch.Engine
	clk      clock.Clock
	logger   logging.Logger
	interval time.Duration

	mu          sync.RWMutex
	orientation touch.Orientation
	callbacks   map[input.Control]map[input.EventType]input.ControlFunction
	lastEvents  map[input.Control]input.Event

	// Only touched by the polling goroutine.
	touching   bool
	lastErr    string
	errLimiter *rate.Limiter
	suppressed int

	workers utils.StoppableWorkers
}

// NewController starts polling engine.
func NewController(engine *touch.Engine, conf Config, logger logging.Logger, opts ...Option) (*Controller, error) {
	if err := conf.Validate("input"); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Global()
	}
	c := &Controller{
		engine:      engine,
		clk:         clock.New(),
		logger:      logger,
		interval:    conf.pollInterval(),
		orientation: conf.Orientation,
		callbacks:   map[input.Control]map[input.EventType]input.ControlFunction{},
		lastEvents:  map[input.Control]input.Event{},
	}
	for _, opt := range opts {
		opt(c)
	}

	now := c.clk.Now()
	for _, control := range controls {
		c.lastEvents[control] = input.Event{Time: now, Event: input.Connect, Control: control}
	}
	c.logger.Infow("polling touch panel", "orientation", c.orientation.String(), "interval", c.interval)
	c.workers = utils.NewStoppableWorkers(c.pollLoop)
	return c, nil
}

func (c *Controller) pollLoop(ctx context.Context) {
	ticker := c.clk.Ticker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		c.poll(ctx)
	}
}

// poll runs one engine poll and dispatches whatever it produced.
func (c *Controller) poll(ctx context.Context) {
	point, tapped, err := c.engine.Poll(ctx, c.Orientation())
	if err != nil {
		if ctx.Err() == nil {
			c.logPollError(ctx, err)
		}
		return
	}
	c.clearPollError(ctx)

	now := c.clk.Now()
	switch {
	case tapped:
		c.touching = true
		c.dispatch(ctx, []input.Event{
			{Time: now, Event: input.PositionChangeAbs, Control: input.AbsoluteX, Value: float64(point.X)},
			{Time: now, Event: input.PositionChangeAbs, Control: input.AbsoluteY, Value: float64(point.Y)},
			{Time: now, Event: input.PositionChangeAbs, Control: input.AbsolutePressure, Value: float64(point.Z)},
			{Time: now, Event: input.ButtonPress, Control: input.ButtonTouch, Value: 1},
		})
	case c.touching && !c.engine.Touching():
		c.touching = false
		c.dispatch(ctx, []input.Event{
			{Time: now, Event: input.ButtonRelease, Control: input.ButtonTouch, Value: 0},
		})
	}
}

// dispatch records events as the latest state and calls matching callbacks in order. Positions go
// out before the press so a press callback can read them from Events.
func (c *Controller) dispatch(ctx context.Context, events []input.Event) {
	type call struct {
		fn input.ControlFunction
		ev input.Event
	}
	var calls []call

	c.mu.Lock()
	for _, ev := range events {
		c.lastEvents[ev.Control] = ev
		for trigger, fn := range c.callbacks[ev.Control] {
			if ev.Matches(trigger) {
				calls = append(calls, call{fn, ev})
			}
		}
	}
	c.mu.Unlock()

	for _, cl := range calls {
		cl.fn(ctx, cl.ev)
	}
}

func (c *Controller) logPollError(ctx context.Context, err error) {
	msg := err.Error()
	if msg != c.lastErr {
		c.lastErr = msg
		c.errLimiter = rate.NewLimiter(rate.Every(errorLogInterval), 1)
		c.suppressed = 0
	}
	if !c.errLimiter.AllowN(c.clk.Now(), 1) {
		c.suppressed++
		return
	}
	c.logger.CWarnw(ctx, "polling touch panel failed", "error", msg, "repeats", c.suppressed)
	c.suppressed = 0
}

func (c *Controller) clearPollError(ctx context.Context) {
	if c.lastErr == "" {
		return
	}
	c.logger.CInfow(ctx, "touch panel readings recovered", "repeats", c.suppressed)
	c.lastErr = ""
	c.suppressed = 0
}

// Orientation returns the orientation taps are mapped for.
func (c *Controller) Orientation() touch.Orientation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.orientation
}

// Reconfigure replaces the engine's calibration and the orientation. Nothing changes if either is
// rejected.
func (c *Controller) Reconfigure(ctx context.Context, cal touch.Calibration, o touch.Orientation) error {
	if !o.Supported() {
		return errors.Wrapf(touch.ErrUnsupportedOrientation, "orientation %s", o)
	}
	if err := c.engine.Configure(cal); err != nil {
		return err
	}
	c.mu.Lock()
	c.orientation = o
	c.mu.Unlock()
	c.logger.CInfow(ctx, "touch controller reconfigured", "orientation", o.String(), "calibration", cal.String())
	return nil
}

// Controls lists the inputs this controller reports.
func (c *Controller) Controls(ctx context.Context) ([]input.Control, error) {
	out := make([]input.Control, len(controls))
	copy(out, controls)
	return out, nil
}

// Events returns the last event on each control.
func (c *Controller) Events(ctx context.Context) (map[input.Control]input.Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[input.Control]input.Event, len(c.lastEvents))
	for control, ev := range c.lastEvents {
		out[control] = ev
	}
	return out, nil
}

// RegisterControlCallback registers a callback function to be executed on the specified control's
// trigger events. Callbacks run on the polling goroutine and should return quickly.
func (c *Controller) RegisterControlCallback(
	ctx context.Context,
	control input.Control,
	triggers []input.EventType,
	ctrlFunc input.ControlFunction,
) error {
	known := false
	for _, ctrl := range controls {
		if ctrl == control {
			known = true
			break
		}
	}
	if !known {
		return errors.Errorf("touch controller has no control %q", control)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.callbacks[control] == nil {
		c.callbacks[control] = map[input.EventType]input.ControlFunction{}
	}
	for _, trigger := range triggers {
		if ctrlFunc == nil {
			delete(c.callbacks[control], trigger)
			continue
		}
		c.callbacks[control][trigger] = ctrlFunc
	}
	return nil
}

// Close stops polling and waits for any callback in progress to return.
func (c *Controller) Close(ctx context.Context) error {
	c.workers.Stop()
	return nil
}
