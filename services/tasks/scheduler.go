package tasks

import (
	"context"
	"fmt"
	"time"

	"washx/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RatingScheduler defers a rating recomputation that could not run inline.
type RatingScheduler interface {
	ScheduleRecompute(ctx context.Context, providerID string) error
}

// AsynqScheduler enqueues recompute tasks on Redis for the rating worker.
type AsynqScheduler struct {
	client *asynq.Client
}

func NewAsynqScheduler(client *asynq.Client) *AsynqScheduler {
	return &AsynqScheduler{client: client}
}

func (s *AsynqScheduler) ScheduleRecompute(ctx context.Context, providerID string) error {
	task, opts, err := NewRatingRecomputeTask(providerID)
	if err != nil {
		return err
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue rating recompute for %s: %w", providerID, err)
	}
	utils.GetLogger().Info("Rating recompute scheduled",
		zap.String("providerId", providerID), zap.String("taskId", info.ID))
	return nil
}

// RecomputeFunc runs one recomputation.
type RecomputeFunc func(ctx context.Context, providerID string) error

// InProcessScheduler retries recomputations on a goroutine. It is used when no Redis queue is
// configured, so pending work is lost on restart.
type InProcessScheduler struct {
	Recompute RecomputeFunc
	Attempts  int
	Backoff   time.Duration
}

func (s *InProcessScheduler) ScheduleRecompute(_ context.Context, providerID string) error {
	attempts := s.Attempts
	if attempts <= 0 {
		attempts = 5
	}
	backoff := s.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}

	go func() {
		logger := utils.GetLogger()
		for attempt := 1; attempt <= attempts; attempt++ {
			time.Sleep(time.Duration(attempt) * backoff)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := s.Recompute(ctx, providerID)
			cancel()
			if err == nil {
				return
			}
			if k := utils.KindOf(err); k == utils.KindNotFound || k == utils.KindValidation {
				logger.Warn("Dropping rating recompute", zap.String("providerId", providerID), zap.Error(err))
				return
			}
			logger.Warn("Rating recompute failed",
				zap.String("providerId", providerID), zap.Int("attempt", attempt), zap.Error(err))
		}
		logger.Error("Rating recompute gave up", zap.String("providerId", providerID))
	}()
	return nil
}
