package worker

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const QueueActivity = "jobs:activity"

// Actor identifies the authenticated user on whose behalf a service acts.
// Carried into activity-log entries so the audit trail names a person.
type Actor struct {
	ID  uuid.UUID
	Nom string
}

// ActivityEvent is the payload of an asynchronous activity-log write.
type ActivityEvent struct {
	UserID     string                 `json:"user_id"`
	UserName   string                 `json:"user_name"`
	ActionType string                 `json:"action_type"`
	EntityType *string                `json:"entity_type,omitempty"`
	EntityID   *string                `json:"entity_id,omitempty"`
	EntityName *string                `json:"entity_name,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP. Enqueueing is best-effort:
// services fire and forget, a lost audit entry never fails a sale.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueActivity pushes an activity-log write job to Redis.
func (d *Dispatcher) EnqueueActivity(ctx context.Context, ev ActivityEvent) error {
	return d.enqueue(ctx, QueueActivity, "activity", ev)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
