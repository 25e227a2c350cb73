package resistivetouch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/viam-modules/resistive-touch/components/input"
	"github.com/viam-modules/resistive-touch/logging"
	"github.com/viam-modules/resistive-touch/touch"
)

type scriptedSensor struct {
	mu       sync.Mutex
	x, y     int
	pressure int
	err      error
}

func (s *scriptedSensor) set(x, y, pressure int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.x, s.y, s.pressure = x, y, pressure
}

func (s *scriptedSensor) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *scriptedSensor) read(v *int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *v, s.err
}

func (s *scriptedSensor) ReadX(ctx context.Context) (int, error) { return s.read(&s.x) }

func (s *scriptedSensor) ReadY(ctx context.Context) (int, error) { return s.read(&s.y) }

func (s *scriptedSensor) ReadPressure(ctx context.Context) (int, error) { return s.read(&s.pressure) }

type recorder struct {
	mu     sync.Mutex
	events []input.Event
}

func (r *recorder) record(ctx context.Context, ev input.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) take() []input.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.events
	r.events = nil
	return events
}

func setup(t *testing.T, logger logging.Logger) (*Controller, *scriptedSensor, *clock.Mock) {
	t.Helper()
	sensor := &scriptedSensor{}
	engine, err := touch.NewEngine(sensor, touch.DefaultCalibration(), logger)
	test.That(t, err, test.ShouldBeNil)

	clk := clock.NewMock()
	c, err := NewController(engine, Config{Orientation: touch.Landscape}, logger, WithClock(clk))
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() {
		test.That(t, c.Close(context.Background()), test.ShouldBeNil)
	})
	return c, sensor, clk
}

func TestConfigValidate(t *testing.T) {
	conf := Config{}
	err := conf.Validate("path")
	test.That(t, errors.Is(err, touch.ErrUnsupportedOrientation), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "path")

	conf.Orientation = touch.FlippedLandscape
	test.That(t, conf.Validate("path"), test.ShouldBeNil)
	test.That(t, conf.pollInterval(), test.ShouldEqual, 10*time.Millisecond)

	conf.PollHz = 50
	test.That(t, conf.pollInterval(), test.ShouldEqual, 20*time.Millisecond)

	conf.PollHz = -1
	test.That(t, conf.Validate("path"), test.ShouldNotBeNil)
}

func TestNewControllerNilLogger(t *testing.T) {
	engine, err := touch.NewEngine(&scriptedSensor{}, touch.DefaultCalibration(), nil)
	test.That(t, err, test.ShouldBeNil)

	c, err := NewController(engine, Config{Orientation: touch.Landscape}, nil, WithClock(clock.NewMock()))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.logger, test.ShouldEqual, logging.Global())
	test.That(t, c.Close(context.Background()), test.ShouldBeNil)
}

func TestControllerTap(t *testing.T) {
	c, sensor, _ := setup(t, logging.NewTestLogger(t))
	ctx := context.Background()

	controls, err := c.Controls(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, controls, test.ShouldResemble,
		[]input.Control{input.ButtonTouch, input.AbsoluteX, input.AbsoluteY, input.AbsolutePressure})

	events, err := c.Events(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, events, test.ShouldHaveLength, 4)
	test.That(t, events[input.ButtonTouch].Event, test.ShouldEqual, input.Connect)

	buttons := &recorder{}
	positions := &recorder{}
	test.That(t, c.RegisterControlCallback(ctx, input.ButtonTouch,
		[]input.EventType{input.ButtonChange}, buttons.record), test.ShouldBeNil)
	test.That(t, c.RegisterControlCallback(ctx, input.AbsoluteX,
		[]input.EventType{input.PositionChangeAbs}, positions.record), test.ShouldBeNil)
	test.That(t, c.RegisterControlCallback(ctx, input.AbsoluteY,
		[]input.EventType{input.AllEvents}, positions.record), test.ShouldBeNil)

	// Nothing is reported while the panel is untouched.
	c.poll(ctx)
	test.That(t, buttons.take(), test.ShouldBeEmpty)

	sensor.set(500, 500, 300)
	c.poll(ctx)
	test.That(t, positions.take(), test.ShouldHaveLength, 2)
	pressed := buttons.take()
	test.That(t, pressed, test.ShouldHaveLength, 1)
	test.That(t, pressed[0].Event, test.ShouldEqual, input.ButtonPress)
	test.That(t, pressed[0].Value, test.ShouldEqual, 1.0)

	events, err = c.Events(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, events[input.AbsoluteX].Value, test.ShouldEqual, 160.0)
	test.That(t, events[input.AbsoluteY].Value, test.ShouldEqual, 120.0)
	test.That(t, events[input.AbsolutePressure].Value, test.ShouldEqual, 300.0)

	// Holding the press reports nothing more.
	c.poll(ctx)
	c.poll(ctx)
	test.That(t, buttons.take(), test.ShouldBeEmpty)
	test.That(t, positions.take(), test.ShouldBeEmpty)

	sensor.set(500, 500, 0)
	c.poll(ctx)
	released := buttons.take()
	test.That(t, released, test.ShouldHaveLength, 1)
	test.That(t, released[0].Event, test.ShouldEqual, input.ButtonRelease)
	test.That(t, positions.take(), test.ShouldBeEmpty)

	// Removing the callback stops delivery.
	test.That(t, c.RegisterControlCallback(ctx, input.ButtonTouch,
		[]input.EventType{input.ButtonChange}, nil), test.ShouldBeNil)
	sensor.set(500, 500, 300)
	c.poll(ctx)
	test.That(t, buttons.take(), test.ShouldBeEmpty)

	err = c.RegisterControlCallback(ctx, input.Control("ButtonSouth"), []input.EventType{input.ButtonPress}, buttons.record)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestControllerPollLoop(t *testing.T) {
	c, sensor, clk := setup(t, logging.NewTestLogger(t))
	ctx := context.Background()

	taps := make(chan input.Event, 10)
	test.That(t, c.RegisterControlCallback(ctx, input.ButtonTouch, []input.EventType{input.ButtonPress},
		func(ctx context.Context, ev input.Event) {
			taps <- ev
		}), test.ShouldBeNil)

	sensor.set(100, 100, 600)
	for {
		clk.Add(c.interval)
		select {
		case ev := <-taps:
			test.That(t, ev.Control, test.ShouldEqual, input.ButtonTouch)
			test.That(t, ev.Time.IsZero(), test.ShouldBeFalse)
			return
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestControllerErrorThrottling(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	c, sensor, clk := setup(t, logger)
	ctx := context.Background()
	// Stop the background loop so advancing the clock does not poll behind the test's back.
	test.That(t, c.Close(ctx), test.ShouldBeNil)

	sensor.setErr(errors.New("adc timeout"))
	for i := 0; i < 5; i++ {
		c.poll(ctx)
	}
	test.That(t, logs.FilterMessage("polling touch panel failed").Len(), test.ShouldEqual, 1)

	clk.Add(errorLogInterval)
	c.poll(ctx)
	warnings := logs.FilterMessage("polling touch panel failed").All()
	test.That(t, warnings, test.ShouldHaveLength, 2)
	test.That(t, warnings[1].ContextMap()["repeats"], test.ShouldEqual, int64(4))
	test.That(t, warnings[1].ContextMap()["error"], test.ShouldContainSubstring, "adc timeout")

	// A different error is logged right away.
	sensor.setErr(errors.New("line busy"))
	c.poll(ctx)
	test.That(t, logs.FilterMessage("polling touch panel failed").Len(), test.ShouldEqual, 3)

	sensor.setErr(nil)
	c.poll(ctx)
	c.poll(ctx)
	test.That(t, logs.FilterMessage("touch panel readings recovered").Len(), test.ShouldEqual, 1)
}

func TestControllerReconfigure(t *testing.T) {
	c, sensor, _ := setup(t, logging.NewTestLogger(t))
	ctx := context.Background()

	err := c.Reconfigure(ctx, touch.DefaultCalibration(), touch.Portrait)
	test.That(t, errors.Is(err, touch.ErrUnsupportedOrientation), test.ShouldBeTrue)
	test.That(t, c.Orientation(), test.ShouldEqual, touch.Landscape)

	bad := touch.DefaultCalibration()
	bad.Width = 0
	err = c.Reconfigure(ctx, bad, touch.FlippedLandscape)
	test.That(t, errors.Is(err, touch.ErrInvalidCalibration), test.ShouldBeTrue)
	test.That(t, c.Orientation(), test.ShouldEqual, touch.Landscape)

	test.That(t, c.Reconfigure(ctx, touch.DefaultCalibration(), touch.FlippedLandscape), test.ShouldBeNil)
	test.That(t, c.Orientation(), test.ShouldEqual, touch.FlippedLandscape)

	sensor.set(100, 100, 300)
	c.poll(ctx)
	events, err := c.Events(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, events[input.AbsoluteX].Value, test.ShouldEqual, 320.0)
	test.That(t, events[input.AbsoluteY].Value, test.ShouldEqual, 0.0)
	test.That(t, events[input.ButtonTouch].Event, test.ShouldEqual, input.ButtonPress)
}
