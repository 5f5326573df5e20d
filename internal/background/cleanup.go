package background

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper removes expired entries and reports how many it dropped
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// CleanupManager periodically runs registered sweepers
type CleanupManager struct {
	sweepers map[string]Sweeper
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(logger *slog.Logger, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		sweepers: make(map[string]Sweeper),
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Register adds a sweeper under name. Call before Start.
func (cm *CleanupManager) Register(name string, s Sweeper) {
	cm.sweepers[name] = s
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for name, s := range cm.sweepers {
		removed, err := s.Sweep(cleanupCtx)
		if err != nil {
			cm.logger.Error("cleanup failed", slog.String("sweeper", name), slog.Any("error", err))
			continue
		}
		if removed > 0 {
			cm.logger.Info("cleanup completed", slog.String("sweeper", name), slog.Int("removed", removed))
		}
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
