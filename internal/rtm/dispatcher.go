package rtm

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vedran77/pulse-mirror/internal/repository"
)

type options struct {
	log     *zap.Logger
	metrics *Metrics
}

type Option func(*options)

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Dispatcher applies events to a store, one at a time, through the handler
// tables of every registry.
type Dispatcher struct {
	store    repository.Store
	identity Identity
	handlers [numEventTypes]Handler
	families [numEventTypes]Family
	log      *zap.Logger
	metrics  *Metrics
}

func NewDispatcher(store repository.Store, identity Identity, opts ...Option) *Dispatcher {
	o := buildOptions(opts)
	d := &Dispatcher{
		store:    store,
		identity: identity,
		log:      o.log,
		metrics:  o.metrics,
	}
	for _, r := range Registries() {
		for _, t := range r.Types() {
			d.handlers[t], _ = r.Lookup(t)
			d.families[t] = r.Family()
		}
	}
	return d
}

func (d *Dispatcher) Identity() Identity { return d.identity }

// Dispatch applies ev to the store. Unknown event types and events whose
// target is not in the store are accepted without change. Malformed
// payloads are returned as errors wrapping ErrMalformedEvent.
func (d *Dispatcher) Dispatch(ev *Event) error {
	start := time.Now()
	h := d.handlers[ev.Type]
	if ev.Type == EventUnknown || (h.plain == nil && h.scoped == nil) {
		d.log.Debug("ignoring unknown event", zap.String("type", ev.Tag), zap.String("subtype", ev.Subtype))
		d.metrics.observe(EventUnknown, outcomeUnknown, time.Since(start).Seconds())
		return nil
	}

	err := h.call(d.identity, d.store, ev)
	elapsed := time.Since(start).Seconds()

	switch {
	case err == nil:
		d.metrics.observe(ev.Type, outcomeHandled, elapsed)
		return nil
	case errors.Is(err, errTargetMissing):
		d.log.Debug("event target not found",
			zap.Stringer("type", ev.Type),
			zap.Stringer("family", d.families[ev.Type]),
			zap.Error(err),
		)
		d.metrics.observe(ev.Type, outcomeMissing, elapsed)
		return nil
	default:
		d.metrics.observe(ev.Type, outcomeError, elapsed)
		return fmt.Errorf("dispatching %s: %w", ev.Type, err)
	}
}

// DispatchRaw parses frame and dispatches it.
func (d *Dispatcher) DispatchRaw(frame []byte) error {
	ev, err := ParseEvent(frame)
	if err != nil {
		d.metrics.observe(EventUnknown, outcomeError, 0)
		return err
	}
	return d.Dispatch(ev)
}
