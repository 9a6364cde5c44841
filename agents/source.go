package agents

import (
	"context"

	"github.com/casualjim/agentgraph/api"
	"github.com/casualjim/agentgraph/messages"
	"github.com/casualjim/agentgraph/topic"
	"github.com/fogfish/opts"
)

var _ api.Agent = (*Source)(nil)

// Source is a publish-only agent. It feeds external stimuli into a topic and
// shows up in the computation graph as the publisher of that topic.
type Source struct {
	*node
}

func NewSource(reg *topic.Registry, options ...opts.Option[settings]) (*Source, error) {
	s, err := applySettings(options)
	if err != nil {
		return nil, err
	}
	n, err := newNode(reg, s, arity{kind: "source", minInputs: 0, maxInputs: 0, output: true})
	if err != nil {
		return nil, err
	}
	src := &Source{node: n}
	if err := src.attach(src); err != nil {
		return nil, err
	}
	return src, nil
}

// Emit publishes msg to the output topic. It does nothing once the source
// is closed.
func (s *Source) Emit(ctx context.Context, msg messages.Message) {
	if s.closed.Load() {
		return
	}
	s.output.Publish(ctx, msg)
}

// Output returns the name of the output topic.
func (s *Source) Output() string {
	return s.output.Name()
}

func (s *Source) Callback(context.Context, string, messages.Message) {}

func (s *Source) Reset() {}

func (s *Source) Close() error {
	s.detach(s)
	return nil
}
