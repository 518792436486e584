package audit

import (
	"context"
	"time"

	"github.com/anomi-labs/clob/core/engine"
	"go.uber.org/zap"
)

// Sink implements engine.Publisher. It never blocks PlaceOrder/Cancel on
// any of its backends: Publish hands the event to a buffered channel and
// a single background goroutine drains it, logging and dropping on
// failure rather than propagating it back to the engine.
type Sink struct {
	mq     *RabbitMQ
	kv     *KvDB
	pg     *PgSink
	logger *zap.Logger

	events chan engine.AuditEvent
	done   chan struct{}
}

// SinkOption enables one backend; omit any to run without it.
type SinkOption func(*Sink)

func WithRabbitMQ(mq *RabbitMQ) SinkOption { return func(s *Sink) { s.mq = mq } }
func WithKvDB(kv *KvDB) SinkOption         { return func(s *Sink) { s.kv = kv } }
func WithPgSink(pg *PgSink) SinkOption     { return func(s *Sink) { s.pg = pg } }

const sinkQueueDepth = 1024

func NewSink(logger *zap.Logger, opts ...SinkOption) *Sink {
	s := &Sink{
		logger: logger,
		events: make(chan engine.AuditEvent, sinkQueueDepth),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// Publish never blocks the caller: a full queue drops the event, logged
// at Warn, rather than applying backpressure to the engine.
func (s *Sink) Publish(event interface{}) {
	ev, ok := event.(engine.AuditEvent)
	if !ok {
		return
	}
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("audit sink queue full, dropping event", zap.String("kind", string(ev.Kind)))
	}
}

func (s *Sink) run() {
	defer close(s.done)
	for ev := range s.events {
		s.deliver(ev)
	}
}

func (s *Sink) deliver(ev engine.AuditEvent) {
	rec := newRecord(ev)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.mq != nil {
		if err := s.mq.publish(ctx, rec); err != nil {
			s.logger.Warn("audit rabbitmq publish failed", zap.String("id", rec.ID), zap.Error(err))
		}
	}
	if s.kv != nil {
		if err := s.kv.PutRecord(rec); err != nil {
			s.logger.Warn("audit kvdb write failed", zap.String("id", rec.ID), zap.Error(err))
		}
	}
	if s.pg != nil {
		if err := s.pg.store(ctx, rec); err != nil {
			s.logger.Warn("audit postgres write failed", zap.String("id", rec.ID), zap.Error(err))
		}
	}
}

// Close stops accepting new events and waits for the queue to drain.
func (s *Sink) Close() {
	close(s.events)
	<-s.done
}
