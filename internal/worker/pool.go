package worker

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueSheetsSync = "jobs:sheets_sync"
	JobSheetsSync   = "sheets_sync"

	enqueueTimeout = 5 * time.Second
	jobTimeout     = 60 * time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JobHandler executes one job payload. Errors are logged and dead-lettered,
// never retried.
type JobHandler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher hands sync jobs off the request path through a bounded queue
// drained by poolSize goroutines. With Redis each job is pushed to the list
// consumed by StartWorkerPool; without Redis it runs in place. A full queue
// drops the job: every job is a full-table snapshot, so the next write
// resends the data.
type Dispatcher struct {
	rdb     *redis.Client
	handler JobHandler
	queue   chan SheetsSyncPayload
	wg      sync.WaitGroup
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// queuePerWorker sizes the pending-job buffer relative to the pool.
const queuePerWorker = 16

func NewDispatcher(rdb *redis.Client, handler JobHandler, poolSize int) *Dispatcher {
	if poolSize <= 0 {
		poolSize = 1
	}
	return newDispatcher(rdb, handler, poolSize, poolSize*queuePerWorker)
}

func newDispatcher(rdb *redis.Client, handler JobHandler, poolSize, queueCap int) *Dispatcher {
	d := &Dispatcher{rdb: rdb, handler: handler, queue: make(chan SheetsSyncPayload, queueCap)}
	for i := 0; i < poolSize; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for p := range d.queue {
				d.run(p)
			}
		}()
	}
	return d
}

// Notify schedules a full-table sync of tabla and returns immediately.
func (d *Dispatcher) Notify(tabla string) {
	if d.rdb == nil && d.handler == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Warn().Str("tabla", tabla).Msg("dispatcher: closed, sync job dropped")
		return
	}
	select {
	case d.queue <- SheetsSyncPayload{Tabla: tabla}:
	default:
		d.dropped.Add(1)
		log.Warn().Str("tabla", tabla).Msg("dispatcher: queue full, sync job dropped")
	}
}

// Dropped counts jobs discarded because the queue was full.
func (d *Dispatcher) Dropped() int64 { return d.dropped.Load() }

// Wait stops accepting jobs and blocks until the queued ones have run.
func (d *Dispatcher) Wait() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	d.wg.Wait()
}

func (d *Dispatcher) run(payload SheetsSyncPayload) {
	if d.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		defer cancel()
		if err := d.enqueue(ctx, QueueSheetsSync, JobSheetsSync, payload); err != nil {
			log.Error().Err(err).Str("tabla", payload.Tabla).Msg("dispatcher: failed to enqueue sync job")
		}
		return
	}
	raw, _ := json.Marshal(payload)
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := d.handler.Process(ctx, raw); err != nil {
		log.Error().Err(err).Str("tabla", payload.Tabla).Msg("dispatcher: sync job failed")
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the sync queue.
// Each goroutine blocks on BRPOP, zero CPU when idle. The returned
// WaitGroup is done once every worker has observed ctx cancellation.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handler JobHandler, numWorkers int) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, rdb, handler, id)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
	return &wg
}

func runWorker(ctx context.Context, rdb *redis.Client, handler JobHandler, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueSheetsSync).Result()
			if err != nil || len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handler, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handler JobHandler, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	if job.Type != JobSheetsSync {
		log.Warn().Str("type", job.Type).Str("queue", queue).Msg("unknown job type, dropped")
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()
	if err := handler.Process(jobCtx, job.Payload); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("sync job failed")
		if rdb != nil {
			SendToDLQ(ctx, rdb, queue, job, err.Error())
		}
	}
}
