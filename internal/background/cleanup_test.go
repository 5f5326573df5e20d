package background

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) Sweep(context.Context) (int, error) {
	s.calls.Add(1)
	return 1, s.err
}

func newTestManager(interval time.Duration) *CleanupManager {
	return NewCleanupManager(slog.New(slog.NewTextHandler(io.Discard, nil)), interval)
}

func TestCleanupManager_RunsOnStartAndTick(t *testing.T) {
	cm := newTestManager(10 * time.Millisecond)
	s := &countingSweeper{}
	cm.Register("notifications", s)

	done := make(chan struct{})
	go func() {
		cm.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return s.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cm.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup manager did not stop")
	}
}

func TestCleanupManager_StopsOnContextCancel(t *testing.T) {
	cm := newTestManager(time.Hour)
	failing := &countingSweeper{err: errors.New("boom")}
	cm.Register("failing", failing)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cm.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return failing.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup manager ignored cancellation")
	}
	assert.Equal(t, int32(1), failing.calls.Load())
}
