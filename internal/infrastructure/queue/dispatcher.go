package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync/atomic"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned for work submitted after the dispatcher shut down.
var ErrStopped = errors.New("dispatcher stopped")

// Job states. A job leaves jobPending exactly once: either a worker claims
// it and runs it, or its caller abandons it.
const (
	jobPending int32 = iota
	jobRunning
	jobAbandoned
)

type job struct {
	ctx   context.Context
	key   string
	fn    func(ctx context.Context) error
	done  chan error
	state atomic.Int32
}

func (j *job) claim() bool   { return j.state.CompareAndSwap(jobPending, jobRunning) }
func (j *job) abandon() bool { return j.state.CompareAndSwap(jobPending, jobAbandoned) }

// Dispatcher routes post mutations to a fixed set of workers using consistent
// hashing on the post id, so two writes to the same post never interleave.
type Dispatcher struct {
	workers []chan *job
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
		workers: make([]chan *job, numWorkers),
		stopped: make(chan struct{}),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(d.stopped)
	}()
}

// Do enqueues fn on the worker owning key and waits for it to finish.
// Cancelling ctx or stopping the dispatcher only aborts a job that has not
// started yet; once a worker has picked it up, Do returns the job's own result.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	select {
	case <-d.stopped:
		return ErrStopped
	default:
	}

	j := &job{ctx: ctx, key: key, fn: fn, done: make(chan error, 1)}
	select {
	case d.workers[d.shardIndex(key)] <- j:
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-d.stopped:
		if j.abandon() {
			return ErrStopped
		}
	case <-ctx.Done():
		if j.abandon() {
			return ctx.Err()
		}
	}
	// A worker already claimed the job.
	return <-j.done
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan *job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-ch:
			// The caller gave up while the job was queued.
			if !j.claim() {
				continue
			}
			err := j.fn(j.ctx)
			if err != nil {
				d.log.Debug().Err(err).
					Str("key", j.key).
					Int("worker_id", id).
					Msg("mutation rejected")
			}
			j.done <- err
		}
	}
}
