package utils

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/viam-modules/resistive-touch/logging"
)

// SlowLogger starts a goroutine that warns every few seconds until the returned function is called
// or ctx is done. The first warning comes after two seconds, the next after three more, then every
// five.
func SlowLogger(ctx context.Context, clk clock.Clock, msg, fieldName, fieldVal string, logger logging.Logger) func() {
	slowTimer := clk.Timer(2 * time.Second)
	firstTick := true

	ctxWithCancel, cancel := context.WithCancel(ctx)
	startTime := clk.Now()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-slowTimer.C:
				elapsed := clk.Since(startTime).Round(time.Second).String()
				logger.CWarnw(ctx, msg, fieldName, fieldVal, "time_elapsed", elapsed)
				if firstTick {
					slowTimer.Reset(3 * time.Second)
					firstTick = false
				} else {
					slowTimer.Reset(5 * time.Second)
				}
			case <-ctxWithCancel.Done():
				return
			}
		}
	}()
	return func() {
		cancel()
		<-done
		slowTimer.Stop()
	}
}
