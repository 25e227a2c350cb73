package utils

import (
	"context"
	"sync/atomic"
	"testing"

	"go.viam.com/test"
)

func TestStoppableWorkers(t *testing.T) {
	var started, stopped atomic.Int32
	worker := func(ctx context.Context) {
		started.Add(1)
		<-ctx.Done()
		stopped.Add(1)
	}

	sw := NewStoppableWorkers(worker, worker)
	sw.Add(worker)
	sw.Stop()
	test.That(t, started.Load(), test.ShouldEqual, 3)
	test.That(t, stopped.Load(), test.ShouldEqual, 3)
	test.That(t, sw.Context().Err(), test.ShouldNotBeNil)

	// Adding after Stop is a no-op.
	sw.Add(worker)
	test.That(t, started.Load(), test.ShouldEqual, 3)
}

func TestStoppableWorkersParentContext(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sw := NewStoppableWorkersWithContext(parent, func(ctx context.Context) {
		<-ctx.Done()
		close(done)
	})
	cancel()
	<-done
	sw.Stop()
}
