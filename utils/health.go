package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     *bool     `json:"mongo,omitempty"`
	Redis     *bool     `json:"redis,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// HealthMonitor keeps the latest health snapshot of the configured backends.
// Nil backends are skipped, which is the case in memory mode.
type HealthMonitor struct {
	Redis    *redis.Client
	Mongo    *mongo.Client
	Interval time.Duration

	mu      sync.RWMutex
	current HealthStatus
}

// Status returns latest stored health snapshot.
func (h *HealthMonitor) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Check pings every configured backend once and stores the result.
func (h *HealthMonitor) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := HealthStatus{CheckedAt: time.Now()}
	if h.Redis != nil {
		ok := h.Redis.Ping(ctx).Err() == nil
		status.Redis = &ok
	}
	if h.Mongo != nil {
		ok := h.Mongo.Ping(ctx, nil) == nil
		status.Mongo = &ok
	}

	h.mu.Lock()
	h.current = status
	h.mu.Unlock()
	return status
}

// Healthy reports whether every checked backend answered.
func (s HealthStatus) Healthy() bool {
	if s.Mongo != nil && !*s.Mongo {
		return false
	}
	if s.Redis != nil && !*s.Redis {
		return false
	}
	return true
}

// Start performs periodic health checks until ctx is cancelled.
func (h *HealthMonitor) Start(ctx context.Context) {
	interval := h.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	h.Check(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.Check(ctx)
			}
		}
	}()
}
