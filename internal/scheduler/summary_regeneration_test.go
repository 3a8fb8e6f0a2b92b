package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhsinkutay/mediatrack/internal/config"
)

func newTestScheduler(enabled bool) *SummaryRegenerationScheduler {
	return NewSummaryRegenerationScheduler(nil, nil, config.Summaries{
		RegenerateEnabled:  enabled,
		RegenerateSchedule: "0 3 * * *",
	})
}

func TestStart_DisabledStaysStopped(t *testing.T) {
	s := newTestScheduler(false)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := NewSummaryRegenerationScheduler(nil, nil, config.Summaries{
		RegenerateEnabled:  true,
		RegenerateSchedule: "not a schedule",
	})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestStop_ReleasesShutdownWatcher(t *testing.T) {
	s := newTestScheduler(true)
	require.NoError(t, s.Start(context.Background()))
	require.True(t, s.IsRunning())

	// Wrap the cancel func so the test can observe Stop invoking it. If Stop
	// only nils the reference, the goroutine watching the derived context
	// blocks forever.
	released := make(chan struct{})
	s.mu.Lock()
	inner := s.cancelFunc
	s.cancelFunc = func() {
		close(released)
		inner()
	}
	s.mu.Unlock()

	s.Stop()

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("Stop never cancelled the shutdown watcher context")
	}
	assert.False(t, s.IsRunning())
}

func TestStop_Idempotent(t *testing.T) {
	s := newTestScheduler(true)
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestStop_ViaParentContext(t *testing.T) {
	s := newTestScheduler(true)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	cancel()

	assert.Eventually(t, func() bool {
		return !s.IsRunning()
	}, time.Second, 10*time.Millisecond)
}
