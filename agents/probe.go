package agents

import (
	"context"
	"slices"
	"sync"

	"github.com/casualjim/agentgraph/api"
	"github.com/casualjim/agentgraph/messages"
	"github.com/casualjim/agentgraph/topic"
	"github.com/fogfish/opts"
)

var _ api.Agent = (*Probe)(nil)

// Delivery is one message observed by a Probe.
type Delivery struct {
	Topic   string
	Message messages.Message
}

// Probe records every delivery from the topics it watches, in arrival
// order. It is meant for tests and tracing.
type Probe struct {
	*node

	mu         sync.Mutex
	deliveries []Delivery
	onDelivery func(Delivery)
}

func NewProbe(reg *topic.Registry, options ...opts.Option[settings]) (*Probe, error) {
	s, err := applySettings(options)
	if err != nil {
		return nil, err
	}
	n, err := newNode(reg, s, arity{kind: "probe", minInputs: 1, maxInputs: -1})
	if err != nil {
		return nil, err
	}
	p := &Probe{node: n}
	if err := p.attach(p); err != nil {
		return nil, err
	}
	return p, nil
}

// OnDelivery registers fn to be called, on the publishing goroutine, after
// each recorded delivery.
func (p *Probe) OnDelivery(fn func(Delivery)) {
	p.mu.Lock()
	p.onDelivery = fn
	p.mu.Unlock()
}

func (p *Probe) Callback(_ context.Context, topic string, msg messages.Message) {
	if p.closed.Load() {
		return
	}
	d := Delivery{Topic: topic, Message: msg}
	p.mu.Lock()
	p.deliveries = append(p.deliveries, d)
	fn := p.onDelivery
	p.mu.Unlock()
	if fn != nil {
		fn(d)
	}
}

// Deliveries returns a copy of everything recorded so far.
func (p *Probe) Deliveries() []Delivery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.deliveries)
}

// Values returns the numeric view of every recorded message on topic.
func (p *Probe) Values(topic string) []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []float64
	for _, d := range p.deliveries {
		if d.Topic == topic {
			out = append(out, d.Message.Float())
		}
	}
	return out
}

func (p *Probe) Reset() {
	p.mu.Lock()
	p.deliveries = nil
	p.mu.Unlock()
}

func (p *Probe) Close() error {
	p.detach(p)
	return nil
}
