package worker

import (
	"context"
	"encoding/json"
	"time"

	"makiti/internal/model"
	"makiti/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// StartWorkerPool launches numWorkers goroutines consuming the activity
// queue. Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, logs repository.ActivityLogRepository, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, logs, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, logs repository.ActivityLogRepository, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueActivity).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, logs, result[1])
		}
	}
}

func processJob(ctx context.Context, logs repository.ActivityLogRepository, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}
	if job.Type != "activity" {
		log.Warn().Str("type", job.Type).Msg("unknown job type, dropping")
		return
	}

	var ev ActivityEvent
	if err := json.Unmarshal(job.Payload, &ev); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal activity event")
		return
	}
	userID, err := uuid.Parse(ev.UserID)
	if err != nil {
		log.Error().Str("user_id", ev.UserID).Msg("activity event with invalid user id, dropping")
		return
	}

	entry := &model.ActivityLog{
		UserID:     userID,
		UserName:   ev.UserName,
		ActionType: ev.ActionType,
		EntityType: ev.EntityType,
		EntityID:   ev.EntityID,
		EntityName: ev.EntityName,
	}
	if ev.Details != nil {
		if b, err := json.Marshal(ev.Details); err == nil {
			entry.Details = datatypes.JSON(b)
		}
	}

	if err := logs.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("action_type", ev.ActionType).Msg("failed to persist activity entry")
	}
}
