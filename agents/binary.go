package agents

import (
	"context"

	"github.com/casualjim/agentgraph/api"
	"github.com/casualjim/agentgraph/errs"
	"github.com/casualjim/agentgraph/messages"
	"github.com/casualjim/agentgraph/topic"
	"github.com/fogfish/opts"
)

var _ api.Agent = (*Binary)(nil)

// Binary applies a BinaryOperator to the latest values of two input topics
// and publishes the result to its output topic. Nothing is published until
// both inputs have delivered at least once; after that every arrival on
// either input republishes.
type Binary struct {
	cell
	op BinaryOperator
}

// NewBinary creates a binary operator agent, subscribes it to its two
// inputs and registers it as publisher of its output.
func NewBinary(reg *topic.Registry, op BinaryOperator, options ...opts.Option[settings]) (*Binary, error) {
	if op == nil {
		return nil, errs.Invalid("binary agent needs an operator")
	}
	s, err := applySettings(options)
	if err != nil {
		return nil, err
	}
	n, err := newNode(reg, s, arity{kind: "binary", minInputs: 2, maxInputs: 2, output: true})
	if err != nil {
		return nil, err
	}

	b := &Binary{op: op}
	b.bind(n)
	if err := b.attach(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Binary) Callback(ctx context.Context, topic string, msg messages.Message) {
	if b.closed.Load() {
		return
	}
	operands, ready := b.update(topic, msg.Float())
	if !ready {
		return
	}
	b.emit(ctx, b.op(operands[0], operands[1]))
}

// Reset forgets both operands.
func (b *Binary) Reset() {
	b.reset()
}

// Close detaches the agent from its topics. Later callbacks are ignored.
func (b *Binary) Close() error {
	b.detach(b)
	return nil
}
