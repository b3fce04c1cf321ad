package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/booknook/storefront/internal/api/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned by Apply once the dispatcher's workers have exited.
var ErrStopped = errors.New("mutation queue stopped")

// mutation is one cache write. Mutations sharing a key run on the same
// worker, one at a time, in the order they were submitted.
type mutation struct {
	key   string
	apply func()
	done  chan struct{}
}

// Dispatcher routes cache mutations to a fixed set of workers using
// consistent hashing on the mutation key, so the live channel and REST
// responses never write the same collection concurrently.
type Dispatcher struct {
	workers []chan mutation
	stopped chan struct{}
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan mutation, numWorkers),
		stopped: make(chan struct{}),
		log:     log.With().Str("component", "mutation_queue").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan mutation, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
// The returned channel is closed once every worker has exited.
func (d *Dispatcher) Start(ctx context.Context) <-chan struct{} {
	exited := make(chan struct{}, len(d.workers))
	for i, ch := range d.workers {
		go func() {
			defer func() { exited <- struct{}{} }()
			d.runWorker(ctx, i, ch)
		}()
	}
	go func() {
		for range d.workers {
			<-exited
		}
		close(d.stopped)
	}()
	return d.stopped
}

// Enqueue hands apply to the worker responsible for key without waiting for
// it to run. It blocks only when that worker's buffer is full.
func (d *Dispatcher) Enqueue(key string, apply func()) {
	m := mutation{key: key, apply: apply}
	i := d.shardIndex(key)
	select {
	case d.workers[i] <- m:
		metrics.MutationQueueDepth.WithLabelValues(strconv.Itoa(i)).Inc()
	case <-d.stopped:
		d.log.Warn().Str("key", m.key).Msg("mutation dropped, queue stopped")
	}
}

// Apply enqueues apply behind every earlier mutation of key and waits until
// it has run.
func (d *Dispatcher) Apply(ctx context.Context, key string, apply func()) error {
	m := mutation{key: key, apply: apply, done: make(chan struct{})}
	i := d.shardIndex(key)
	select {
	case d.workers[i] <- m:
		metrics.MutationQueueDepth.WithLabelValues(strconv.Itoa(i)).Inc()
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-m.done:
		return nil
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan mutation) {
	depth := metrics.MutationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-ch:
			depth.Dec()
			d.run(id, m)
		}
	}
}

func (d *Dispatcher) run(id int, m mutation) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Str("key", m.key).
				Int("worker_id", id).
				Interface("panic", r).
				Msg("mutation panicked")
		}
		if m.done != nil {
			close(m.done)
		}
	}()
	if m.apply != nil {
		m.apply()
	}
}
