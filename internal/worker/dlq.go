package worker

// dlq.go: dead letter queue.
// Statement and reminder jobs that fail MaxIntentos times are parked in
// dlq:<queue>, newest first, until an operator re-enqueues them
// (aikz recordatorios --reintentar-dlq) or they age out past maxDLQ.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DLQPrefix = "dlq:"

	maxDLQ = 1000
)

// DLQEntry is a failed job plus why and when it failed.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // RFC 3339, UTC
	Attempts      int             `json:"attempts"`
}

// SendToDLQ parks a job. Redis errors are logged; the job is then lost.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, jobType string, payload json.RawMessage, reason string, attempts int) {
	data, err := json.Marshal(DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      attempts,
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal entry")
		return
	}

	key := DLQPrefix + queue
	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, maxDLQ-1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: push failed, job dropped")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job parked")
}

// DLQLength is reported by /health.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// DLQEntries returns up to n entries, newest first. Unreadable entries are
// skipped.
func DLQEntries(ctx context.Context, rdb *redis.Client, queue string, n int64) ([]DLQEntry, error) {
	raws, err := rdb.LRange(ctx, DLQPrefix+queue, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DLQEntry, 0, len(raws))
	for _, raw := range raws {
		var e DLQEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// ReencolarDLQ moves every parked job of queue back onto it, oldest first,
// with a fresh attempt count. Entries whose envelope could not be read are
// dropped since there is nothing to retry.
func ReencolarDLQ(ctx context.Context, rdb *redis.Client, queue string) (int, error) {
	key := DLQPrefix + queue
	n := 0
	for {
		raw, err := rdb.RPop(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		var e DLQEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil || e.JobType == jobDesconocido {
			log.Warn().Str("queue", queue).Msg("dlq: discarding unreadable entry")
			continue
		}
		job, err := json.Marshal(Job{Type: e.JobType, Payload: e.Payload})
		if err != nil {
			return n, err
		}
		if err := rdb.LPush(ctx, queue, job).Err(); err != nil {
			// Put it back so nothing is lost.
			_ = rdb.RPush(ctx, key, raw).Err()
			return n, err
		}
		n++
	}
}

// Colas lists the queues that have a DLQ.
func Colas() []string { return []string{QueueEstadoCuenta, QueueRecordatorio} }
