package cron

import (
	"context"
	"fmt"
	"time"

	"washx/config"
	"washx/models"
	"washx/services/tasks"
	"washx/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Recomputer is the part of the rating aggregator the worker drives.
type Recomputer interface {
	Recompute(ctx context.Context, providerID string) (models.Rating, error)
}

// RatingWorker consumes rating recompute tasks from the Redis queue.
type RatingWorker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewRatingWorker builds the asynq server for the ratings queue.
func NewRatingWorker(cfg *config.Config, recomputer Recomputer) *RatingWorker {
	redisOpts := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}

	concurrency := cfg.RatingWorkerConcurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				tasks.QueueRatings: 1,
			},
			Logger: utils.GetLogger().Named("asynq").Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRatingRecompute, HandleRatingRecompute(recomputer))
	return &RatingWorker{srv: srv, mux: mux}
}

// Start runs the worker in the background, retrying the Redis connection with backoff.
func (w *RatingWorker) Start() error {
	logger := utils.GetLogger()
	const maxAttempts = 5

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = w.srv.Start(w.mux); err == nil {
			logger.Info("Rating worker started")
			return nil
		}
		logger.Warn("Rating worker failed to start",
			zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
		time.Sleep(time.Duration(attempt*2) * time.Second)
	}
	return fmt.Errorf("rating worker did not start after %d attempts: %w", maxAttempts, err)
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *RatingWorker) Shutdown() {
	w.srv.Shutdown()
}

// HandleRatingRecompute recomputes one provider rating. Failures that a retry cannot fix skip the
// retry queue; everything else is retried with asynq's backoff.
func HandleRatingRecompute(recomputer Recomputer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		p, err := tasks.ParseRatingRecompute(task)
		if err != nil {
			logger.Error("Dropping malformed rating task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		rating, err := recomputer.Recompute(ctx, p.ProviderID)
		if err != nil {
			switch utils.KindOf(err) {
			case utils.KindNotFound, utils.KindValidation:
				logger.Warn("Dropping rating task", zap.String("providerId", p.ProviderID), zap.Error(err))
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			logger.Warn("Rating task failed, will retry", zap.String("providerId", p.ProviderID), zap.Error(err))
			return err
		}

		logger.Info("Rating recomputed from queue",
			zap.String("providerId", p.ProviderID),
			zap.Float64("average", rating.Average),
			zap.Int("count", rating.Count))
		return nil
	}
}
