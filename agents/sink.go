package agents

import (
	"context"
	"maps"
	"sync"

	"github.com/casualjim/agentgraph/api"
	"github.com/casualjim/agentgraph/messages"
	"github.com/casualjim/agentgraph/topic"
	"github.com/fogfish/opts"
)

var _ api.Agent = (*Sink)(nil)

// Sink subscribes to one or more topics and keeps the latest message of each.
type Sink struct {
	*node

	mu   sync.Mutex
	last map[string]messages.Message
}

func NewSink(reg *topic.Registry, options ...opts.Option[settings]) (*Sink, error) {
	s, err := applySettings(options)
	if err != nil {
		return nil, err
	}
	n, err := newNode(reg, s, arity{kind: "sink", minInputs: 1, maxInputs: -1})
	if err != nil {
		return nil, err
	}
	sink := &Sink{node: n, last: make(map[string]messages.Message)}
	if err := sink.attach(sink); err != nil {
		return nil, err
	}
	return sink, nil
}

func (s *Sink) Callback(_ context.Context, topic string, msg messages.Message) {
	if s.closed.Load() {
		return
	}
	s.mu.Lock()
	s.last[topic] = msg
	s.mu.Unlock()
}

// Last returns the latest message received from topic.
func (s *Sink) Last(topic string) (messages.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.last[topic]
	return m, ok
}

// Values returns a copy of the latest message per topic.
func (s *Sink) Values() map[string]messages.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.last)
}

// Inputs returns the names of the subscribed topics.
func (s *Sink) Inputs() []string {
	return s.inputNames()
}

func (s *Sink) Reset() {
	s.mu.Lock()
	clear(s.last)
	s.mu.Unlock()
}

func (s *Sink) Close() error {
	s.detach(s)
	return nil
}
