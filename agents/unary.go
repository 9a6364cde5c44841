package agents

import (
	"context"

	"github.com/casualjim/agentgraph/api"
	"github.com/casualjim/agentgraph/errs"
	"github.com/casualjim/agentgraph/messages"
	"github.com/casualjim/agentgraph/topic"
	"github.com/fogfish/opts"
)

var _ api.Agent = (*Unary)(nil)

// Unary applies a UnaryOperator to every value arriving on its input topic
// and publishes the result to its output topic.
type Unary struct {
	cell
	op UnaryOperator
}

// NewUnary creates a unary operator agent, subscribes it to its input and
// registers it as publisher of its output.
func NewUnary(reg *topic.Registry, op UnaryOperator, options ...opts.Option[settings]) (*Unary, error) {
	if op == nil {
		return nil, errs.Invalid("unary agent needs an operator")
	}
	s, err := applySettings(options)
	if err != nil {
		return nil, err
	}
	n, err := newNode(reg, s, arity{kind: "unary", minInputs: 1, maxInputs: 1, output: true})
	if err != nil {
		return nil, err
	}

	u := &Unary{op: op}
	u.bind(n)
	if err := u.attach(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *Unary) Callback(ctx context.Context, topic string, msg messages.Message) {
	if u.closed.Load() {
		return
	}
	operands, ready := u.update(topic, msg.Float())
	if !ready {
		return
	}
	u.emit(ctx, u.op(operands[0]))
}

// Reset forgets the operand.
func (u *Unary) Reset() {
	u.reset()
}

// Close detaches the agent from its topics. Later callbacks are ignored.
func (u *Unary) Close() error {
	u.detach(u)
	return nil
}
