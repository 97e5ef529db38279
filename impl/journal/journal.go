// Package journal fans activity records out to the configured sinks from a
// background worker, so a slow or unreachable sink never delays a request.
package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"rsvpd/entity"
	"rsvpd/lib/api/cont"
	"rsvpd/lib/clock"
	"rsvpd/lib/sl"
)

const (
	queueSize   = 256
	sinkTimeout = 5 * time.Second
)

type Sink interface {
	Record(ctx context.Context, activity *entity.Activity) error
}

type Journal struct {
	sinks []Sink
	clock clock.Clock
	log   *slog.Logger
	queue chan *entity.Activity
	// guards queue against sends after Close
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// New starts the worker when there is at least one sink; with none, Record
// only stamps and drops.
func New(clk clock.Clock, log *slog.Logger, sinks ...Sink) *Journal {
	j := &Journal{
		clock: clk,
		log:   log.With(sl.Module("impl.journal")),
		done:  make(chan struct{}),
	}
	for _, s := range sinks {
		if s != nil {
			j.sinks = append(j.sinks, s)
		}
	}
	if len(j.sinks) == 0 {
		close(j.done)
		return j
	}
	j.queue = make(chan *entity.Activity, queueSize)
	go j.run()
	return j
}

func (j *Journal) run() {
	defer close(j.done)
	for activity := range j.queue {
		for _, s := range j.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
			if err := s.Record(ctx, activity); err != nil {
				j.log.With(
					slog.String("type", string(activity.Type)),
				).Warn("record activity", sl.Err(err))
			}
			cancel()
		}
	}
}

// Record stamps the activity and queues it. When the queue is full the
// activity is dropped with a warning.
func (j *Journal) Record(ctx context.Context, activity *entity.Activity) {
	if j == nil {
		return
	}
	if activity.OccurredAt.IsZero() {
		activity.OccurredAt = j.clock.Now()
	}
	if activity.Remote == "" {
		activity.Remote = cont.GetRemote(ctx)
	}
	if j.queue == nil {
		return
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		j.log.With(slog.String("type", string(activity.Type))).Warn("journal closed, activity dropped")
		return
	}
	select {
	case j.queue <- activity:
	default:
		j.log.With(slog.String("type", string(activity.Type))).Warn("activity queue full, dropped")
	}
}

// Close drains the queue and waits for the worker. Activities recorded
// afterwards are dropped.
func (j *Journal) Close() {
	if j == nil {
		return
	}
	j.mu.Lock()
	if !j.closed {
		j.closed = true
		if j.queue != nil {
			close(j.queue)
		}
	}
	j.mu.Unlock()
	<-j.done
}
