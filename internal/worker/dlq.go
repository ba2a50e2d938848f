package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry is what gets stored for a job that exceeded MaxJobAttempts.
type DLQEntry struct {
	Queue     string          `json:"queue"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	LastError string          `json:"last_error"`
	Attempts  int             `json:"attempts"`
	FailedAt  time.Time       `json:"failed_at"`
}

// SendToDLQ records a permanently failed job so it can be inspected and
// replayed manually. Failures here are only logged; losing the DLQ write
// must not take the worker down.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, lastErr string, attempts int) {
	entry := DLQEntry{
		Queue:     queue,
		Type:      jobType,
		Payload:   payload,
		LastError: lastErr,
		Attempts:  attempts,
		FailedAt:  time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal DLQ entry")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to push to DLQ")
		return
	}
	log.Error().
		Str("queue", queue).
		Str("type", jobType).
		Int("attempts", attempts).
		Str("last_error", lastErr).
		Msg("job moved to DLQ")
}

// DLQLength returns how many dead jobs are parked for a queue.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
