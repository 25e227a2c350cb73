package utils

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"github.com/viam-modules/resistive-touch/logging"
)

func TestRollingAverage(t *testing.T) {
	ra := NewRollingAverage(3)
	test.That(t, ra.NumSamples(), test.ShouldEqual, 3)
	test.That(t, ra.Average(), test.ShouldEqual, 0)

	ra.Add(10)
	test.That(t, ra.Average(), test.ShouldEqual, 10)
	ra.Add(20)
	test.That(t, ra.Average(), test.ShouldEqual, 15)
	ra.Add(31)
	test.That(t, ra.Average(), test.ShouldEqual, 20)
	// 10 drops out.
	ra.Add(40)
	test.That(t, ra.Average(), test.ShouldEqual, 30)

	test.That(t, NewRollingAverage(0).NumSamples(), test.ShouldEqual, 1)
}

func TestSlowLogger(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	clk := clock.NewMock()
	stop := SlowLogger(context.Background(), clk, "waiting for a touch", "panel", "xp", logger)

	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		clk.Add(time.Second)
		test.That(tb, logs.FilterMessage("waiting for a touch").Len(), test.ShouldBeGreaterThanOrEqualTo, 2)
	})
	stop()

	count := logs.FilterMessage("waiting for a touch").Len()
	clk.Add(time.Minute)
	test.That(t, logs.FilterMessage("waiting for a touch").Len(), test.ShouldEqual, count)
	test.That(t, logs.All()[0].ContextMap()["panel"], test.ShouldEqual, "xp")
}
