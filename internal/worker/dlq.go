package worker

// dlq.go: failed sync jobs. Nothing re-reads them automatically; the list
// exists so an operator can see which table mirror broke and why.
// Key layout: dlq:{source_queue}, newest first.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DLQPrefix = "dlq:"
	// dlqMaxLen caps each list; older entries fall off the tail.
	dlqMaxLen = 1000
)

// FallaSync is one dead-lettered sync job.
type FallaSync struct {
	Cola    string          `json:"cola"`
	Tipo    string          `json:"tipo"`
	Tabla   string          `json:"tabla,omitempty"`
	Payload json.RawMessage `json:"payload"`
	Motivo  string          `json:"motivo"`
	FallaEn time.Time       `json:"falla_en"`
}

// SendToDLQ parks a failed job. Best effort: a Redis error is only logged.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, motivo string) {
	falla := FallaSync{
		Cola:    queue,
		Tipo:    job.Type,
		Payload: job.Payload,
		Motivo:  motivo,
		FallaEn: time.Now().UTC(),
	}
	var p SheetsSyncPayload
	if json.Unmarshal(job.Payload, &p) == nil {
		falla.Tabla = p.Tabla
	}

	data, err := json.Marshal(falla)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal")
		return
	}

	key := DLQPrefix + queue
	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, dlqMaxLen-1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: push failed")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("tabla", falla.Tabla).
		Str("motivo", motivo).
		Msg("dlq: sync job parked")
}

// DLQLength reports how many failed jobs are parked for queue.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// RecentDLQ returns up to n parked failures, newest first. Undecodable
// entries are skipped.
func RecentDLQ(ctx context.Context, rdb *redis.Client, queue string, n int64) ([]FallaSync, error) {
	if n <= 0 {
		return nil, nil
	}
	raws, err := rdb.LRange(ctx, DLQPrefix+queue, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]FallaSync, 0, len(raws))
	for _, raw := range raws {
		var f FallaSync
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}
