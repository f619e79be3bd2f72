package lifecycle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type mockService struct {
	started  atomic.Bool
	stopped  atomic.Bool
	returned atomic.Bool
	startFn  func() error
}

func (m *mockService) Start() error {
	m.started.Store(true)
	defer m.returned.Store(true)
	if m.startFn != nil {
		return m.startFn()
	}
	// Block until stopped
	for !m.stopped.Load() {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func (m *mockService) Stop() {
	m.stopped.Store(true)
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
		return nil
	}
}

func TestLifecycleStartsAndStopsServices(t *testing.T) {
	lc := New(zaptest.NewLogger(t))

	svc1 := &mockService{}
	svc2 := &mockService{}
	lc.Add("svc1", svc1)
	lc.Add("svc2", svc2)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- lc.Run(ctx)
	}()

	assert.Eventually(t, func() bool {
		return svc1.started.Load() && svc2.started.Load()
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	assert.NoError(t, waitDone(t, done))
	assert.True(t, svc1.stopped.Load())
	assert.True(t, svc2.stopped.Load())
	assert.True(t, svc1.returned.Load())
	assert.True(t, svc2.returned.Load())
}

func TestLifecycleWaitsForSlowServiceToReturn(t *testing.T) {
	lc := New(zaptest.NewLogger(t))

	slow := &mockService{}
	slow.startFn = func() error {
		for !slow.stopped.Load() {
			time.Sleep(5 * time.Millisecond)
		}
		time.Sleep(100 * time.Millisecond)
		return nil
	}
	lc.Add("slow", slow)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- lc.Run(ctx)
	}()

	assert.Eventually(t, slow.started.Load, 2*time.Second, 5*time.Millisecond)
	cancel()

	assert.NoError(t, waitDone(t, done))
	assert.True(t, slow.returned.Load())
}

func TestLifecycleStopTimeoutBoundsWait(t *testing.T) {
	// The stuck service logs after the test ends, so it gets a no-op logger.
	lc := New(zap.NewNop())
	lc.stopTimeout = 50 * time.Millisecond

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	stuck := &mockService{startFn: func() error {
		<-release
		return nil
	}}
	lc.Add("stuck", stuck)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- lc.Run(ctx)
	}()

	assert.Eventually(t, stuck.started.Load, 2*time.Second, 5*time.Millisecond)
	start := time.Now()
	cancel()

	assert.NoError(t, waitDone(t, done))
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, stuck.stopped.Load())
	assert.False(t, stuck.returned.Load())
}

func TestLifecycleReturnsWhenAllServicesFinish(t *testing.T) {
	lc := New(zaptest.NewLogger(t))

	console := &mockService{startFn: func() error { return nil }}
	lc.Add("console", console)

	done := make(chan error, 1)
	go func() {
		done <- lc.Run(context.Background())
	}()

	assert.NoError(t, waitDone(t, done))
	assert.True(t, console.stopped.Load())
}

func TestLifecycleReturnsServiceError(t *testing.T) {
	lc := New(zaptest.NewLogger(t))

	boom := errors.New("boom")
	failing := &mockService{startFn: func() error { return boom }}
	blocking := &mockService{}
	lc.Add("blocking", blocking)
	lc.Add("failing", failing)

	done := make(chan error, 1)
	go func() {
		done <- lc.Run(context.Background())
	}()

	err := waitDone(t, done)
	assert.ErrorIs(t, err, boom)
	assert.True(t, blocking.stopped.Load())
}

func TestFuncService(t *testing.T) {
	started := false
	stopped := false

	svc := &FuncService{
		StartFn: func() error {
			started = true
			return nil
		},
		StopFn: func() {
			stopped = true
		},
	}

	err := svc.Start()
	assert.NoError(t, err)
	assert.True(t, started)

	svc.Stop()
	assert.True(t, stopped)
}

func TestFuncService_NilStop(t *testing.T) {
	svc := &FuncService{StartFn: func() error { return nil }}
	assert.NotPanics(t, svc.Stop)
}
