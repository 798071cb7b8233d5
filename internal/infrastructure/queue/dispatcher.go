package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookshelf/secureapp/internal/api/metrics"
	"github.com/bookshelf/secureapp/internal/core/domain"
	"github.com/bookshelf/secureapp/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	// drainTimeout bounds how long a worker keeps persisting its backlog
	// after the dispatcher's context is cancelled.
	drainTimeout = 5 * time.Second
)

// Dispatcher routes authentication audit events to a fixed set of workers
// using consistent hashing on the account token, so the events of one account
// are stored in the order they happened.
type Dispatcher struct {
	workers []chan domain.AuthEvent
	repo    ports.AuthEventRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuthEventRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// persists what is already buffered, then stops.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go func(id int, ch chan domain.AuthEvent) {
			defer d.wg.Done()
			d.runWorker(ctx, id, ch)
		}(i, ch)
	}
}

// Wait blocks until every worker has drained and returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands event to the worker responsible for its account. It never
// blocks the caller: when that worker's buffer is full the event is dropped
// and logged.
func (d *Dispatcher) Publish(event domain.AuthEvent) {
	idx := d.shardIndex(shardKey(event))
	select {
	case d.workers[idx] <- event:
		metrics.AuthEventsTotal.WithLabelValues(string(event.Kind)).Inc()
		metrics.AuthEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuthEventsErrorsTotal.WithLabelValues("queue_full").Inc()
		d.log.Warn().
			Str("kind", string(event.Kind)).
			Int("worker_id", idx).
			Msg("auth event dropped, queue full")
	}
}

func shardKey(event domain.AuthEvent) string {
	if event.Subject != "" {
		return event.Subject
	}
	return event.Identifier
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, ch)
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				d.drain(ctx, id, ch, event)
				return
			}
			metrics.AuthEventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.persist(ctx, id, event)
		}
	}
}

// drain persists pending and the events still buffered on ch once ctx is
// done. Whatever cannot be stored before drainTimeout is counted and logged as
// dropped.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.AuthEvent, pending ...domain.AuthEvent) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()

	stored, dropped := 0, 0
	for _, event := range pending {
		if d.persist(dctx, id, event) {
			stored++
		} else {
			dropped++
		}
	}
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				d.logDrain(id, stored, dropped)
				return
			}
			if dctx.Err() != nil {
				dropped++
				metrics.AuthEventsErrorsTotal.WithLabelValues("dropped_on_shutdown").Inc()
				continue
			}
			if d.persist(dctx, id, event) {
				stored++
			} else {
				dropped++
			}
		default:
			metrics.AuthEventsQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			d.logDrain(id, stored, dropped)
			return
		}
	}
}

func (d *Dispatcher) logDrain(id, stored, dropped int) {
	if stored == 0 && dropped == 0 {
		return
	}
	ev := d.log.Info()
	if dropped > 0 {
		ev = d.log.Warn()
	}
	ev.Int("worker_id", id).
		Int("stored", stored).
		Int("dropped", dropped).
		Msg("auth event worker drained")
}

func (d *Dispatcher) persist(ctx context.Context, id int, event domain.AuthEvent) bool {
	start := time.Now()
	if err := d.repo.Insert(ctx, &event); err != nil {
		metrics.AuthEventsErrorsTotal.WithLabelValues("insert_failed").Inc()
		d.log.Error().Err(err).
			Str("kind", string(event.Kind)).
			Int("worker_id", id).
			Msg("auth event persistence failed")
		return false
	}
	metrics.AuthEventPersistDuration.Observe(time.Since(start).Seconds())
	return true
}
