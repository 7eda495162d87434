package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/shipment-dashboard/internal/core/ports"
	"github.com/99minutos/shipment-dashboard/internal/pkg/metrics"
)

const defaultBuffer = 256

// EventApplier folds one change event into local state.
type EventApplier interface {
	ApplyRemoteEvent(ctx context.Context, ev ports.ChangeEvent) error
}

// Dispatcher is the inbound queue of the change feed. A single worker applies
// events strictly in arrival order, so the local collection is only ever
// written by one feed consumer at a time.
type Dispatcher struct {
	inbox   chan ports.ChangeEvent
	applier EventApplier
	log     zerolog.Logger

	closeOnce sync.Once
	quit      chan struct{}
	done      chan struct{}
}

// NewDispatcher creates a Dispatcher whose inbox holds up to buffer events.
// If buffer <= 0, defaultBuffer is used.
func NewDispatcher(buffer int, applier EventApplier, log zerolog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Dispatcher{
		inbox:   make(chan ports.ChangeEvent, buffer),
		applier: applier,
		log:     log,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the worker. It stops when ctx is cancelled or Close is
// called; after Close it first drains what is already queued. Callers that
// want the drain must not cancel ctx before Close.
func (d *Dispatcher) Start(ctx context.Context) {
	go d.run(ctx)
}

// Enqueue hands ev to the worker. It blocks while the inbox is full and
// reports false once the dispatcher is closed.
func (d *Dispatcher) Enqueue(ev ports.ChangeEvent) bool {
	select {
	case <-d.quit:
		return false
	default:
	}
	select {
	case d.inbox <- ev:
		metrics.FeedQueueDepth.Set(float64(len(d.inbox)))
		return true
	case <-d.quit:
		return false
	}
}

// Close stops accepting events. Use Done to wait for the worker to exit.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.quit) })
}

// Shutdown closes the dispatcher and waits until the queued events are
// applied or ctx expires.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.Close()
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when the worker has exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.inbox:
			d.apply(ctx, ev)
		case <-d.quit:
			d.drain(ctx)
			return
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case ev := <-d.inbox:
			d.apply(ctx, ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) apply(ctx context.Context, ev ports.ChangeEvent) {
	metrics.FeedQueueDepth.Set(float64(len(d.inbox)))
	if err := d.applier.ApplyRemoteEvent(ctx, ev); err != nil {
		d.log.Error().Err(err).
			Str("event_type", string(ev.Type)).
			Str("shipment_id", ev.Record.ID).
			Msg("change event rejected")
	}
}
