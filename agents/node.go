package agents

import (
	"log/slog"
	"sync/atomic"

	"github.com/casualjim/agentgraph/api"
	"github.com/casualjim/agentgraph/errs"
	"github.com/casualjim/agentgraph/pkg/slogx"
	"github.com/casualjim/agentgraph/pkg/uuidx"
	"github.com/casualjim/agentgraph/topic"
)

func logger() *slog.Logger {
	return slogx.Logger("agents")
}

// node is the topic wiring shared by the agents in this package.
type node struct {
	name   string
	inputs []*topic.Topic
	output *topic.Topic
	closed atomic.Bool
}

// arity describes how many inputs an agent kind takes and whether it
// publishes. minInputs == maxInputs for fixed arity, maxInputs < 0 means
// unbounded.
type arity struct {
	kind      string
	minInputs int
	maxInputs int
	output    bool
}

func (a arity) check(s settings) error {
	n := len(s.inputs)
	switch {
	case a.minInputs == a.maxInputs && n != a.minInputs:
		return errs.Invalid("%s agent needs %d input topics, got %d", a.kind, a.minInputs, n)
	case n < a.minInputs:
		return errs.Invalid("%s agent needs at least %d input topics, got %d", a.kind, a.minInputs, n)
	case a.maxInputs >= 0 && n > a.maxInputs:
		return errs.Invalid("%s agent takes at most %d input topics, got %d", a.kind, a.maxInputs, n)
	}
	for i, in := range s.inputs {
		if in == "" {
			return errs.Invalid("%s agent input %d is empty", a.kind, i)
		}
	}
	if a.output && s.output == "" {
		return errs.Invalid("%s agent needs an output topic", a.kind)
	}
	if !a.output && s.output != "" {
		return errs.Invalid("%s agent does not publish, got output %q", a.kind, s.output)
	}
	return nil
}

func newNode(reg *topic.Registry, s settings, a arity) (*node, error) {
	if reg == nil {
		return nil, errs.Invalid("%s agent needs a topic registry", a.kind)
	}
	if err := a.check(s); err != nil {
		return nil, err
	}

	n := &node{name: s.name}
	if n.name == "" {
		n.name = uuidx.Name(a.kind)
	}
	for _, name := range s.inputs {
		t, err := reg.GetOrCreate(name)
		if err != nil {
			return nil, err
		}
		n.inputs = append(n.inputs, t)
	}
	if s.output != "" {
		t, err := reg.GetOrCreate(s.output)
		if err != nil {
			return nil, err
		}
		n.output = t
	}
	return n, nil
}

func (n *node) Name() string {
	return n.name
}

// attach subscribes self to the inputs and registers it as publisher of the
// output. self is the outer agent embedding n.
func (n *node) attach(self api.Agent) error {
	for _, t := range n.inputs {
		if err := t.Subscribe(self); err != nil {
			n.detach(self)
			return err
		}
	}
	if n.output != nil {
		if err := n.output.AddPublisher(self); err != nil {
			n.detach(self)
			return err
		}
	}
	return nil
}

// detach undoes attach. It reports false when the node was already detached.
func (n *node) detach(self api.Agent) bool {
	if !n.closed.CompareAndSwap(false, true) {
		return false
	}
	for _, t := range n.inputs {
		t.Unsubscribe(self)
	}
	if n.output != nil {
		n.output.RemovePublisher(self)
	}
	logger().Debug("agent closed", slogx.Agent(n.name))
	return true
}

// slots returns the input positions fed by topic name. The same topic may
// feed several positions.
func (n *node) slots(name string) []int {
	var out []int
	for i, t := range n.inputs {
		if t.Name() == name {
			out = append(out, i)
		}
	}
	return out
}

func (n *node) inputNames() []string {
	names := make([]string, len(n.inputs))
	for i, t := range n.inputs {
		names[i] = t.Name()
	}
	return names
}
