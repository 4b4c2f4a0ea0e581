package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeRatingRecompute = "rating:recompute"
	QueueRatings        = "ratings"
)

type RatingRecomputePayload struct {
	ProviderID string `json:"providerId"`
}

func NewRatingRecomputeTask(providerID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(RatingRecomputePayload{ProviderID: providerID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeRatingRecompute, b)
	opts := []asynq.Option{
		asynq.Queue(QueueRatings),
		asynq.MaxRetry(10),
		asynq.Timeout(30 * time.Second),
	}
	return task, opts, nil
}

func ParseRatingRecompute(task *asynq.Task) (RatingRecomputePayload, error) {
	var p RatingRecomputePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %w", TypeRatingRecompute, err)
	}
	if p.ProviderID == "" {
		return p, fmt.Errorf("invalid %s payload: providerId is empty", TypeRatingRecompute)
	}
	return p, nil
}
