package topic

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/casualjim/agentgraph/messages"
)

type delivery struct {
	agent string
	topic string
	msg   messages.Message
}

// journal collects deliveries from several recorders in global order.
type journal struct {
	mu         sync.Mutex
	deliveries []delivery
}

func (j *journal) add(d delivery) {
	j.mu.Lock()
	j.deliveries = append(j.deliveries, d)
	j.mu.Unlock()
}

func (j *journal) all() []delivery {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]delivery(nil), j.deliveries...)
}

type recorder struct {
	name     string
	journal  *journal
	onCall   func(ctx context.Context, topic string, msg messages.Message)
	mu       sync.Mutex
	received []messages.Message
	resets   int
	closes   int
	closeErr error
}

func newRecorder(name string, j *journal) *recorder {
	return &recorder{name: name, journal: j}
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Callback(ctx context.Context, topic string, msg messages.Message) {
	r.mu.Lock()
	r.received = append(r.received, msg)
	r.mu.Unlock()
	if r.journal != nil {
		r.journal.add(delivery{agent: r.name, topic: topic, msg: msg})
	}
	if r.onCall != nil {
		r.onCall(ctx, topic, msg)
	}
}

func (r *recorder) Reset() {
	r.mu.Lock()
	r.resets++
	r.received = nil
	r.mu.Unlock()
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closes++
	return r.closeErr
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.received)
}

// funcAgent and mapAgent are valid agents whose dynamic types are not
// comparable.
type funcAgent func(ctx context.Context, topic string, msg messages.Message)

func (f funcAgent) Name() string { return "func" }

func (f funcAgent) Callback(ctx context.Context, topic string, msg messages.Message) {
	f(ctx, topic, msg)
}

func (f funcAgent) Reset() {}

func (f funcAgent) Close() error { return nil }

type mapAgent struct {
	seen map[string]int
}

func (m mapAgent) Name() string { return "map" }

func (m mapAgent) Callback(_ context.Context, topic string, _ messages.Message) {
	m.seen[topic]++
}

func (m mapAgent) Reset() {}

func (m mapAgent) Close() error { return nil }

// countingHandler discards records and counts logger derivations.
type countingHandler struct {
	level     slog.Level
	withCalls atomic.Int64
}

func (h *countingHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *countingHandler) Handle(context.Context, slog.Record) error { return nil }

func (h *countingHandler) WithAttrs([]slog.Attr) slog.Handler {
	h.withCalls.Add(1)
	return h
}

func (h *countingHandler) WithGroup(string) slog.Handler { return h }
