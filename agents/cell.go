package agents

import (
	"context"
	"slices"
	"sync"

	"github.com/casualjim/agentgraph/messages"
)

// cell holds the last seen operand for every input of an operator agent.
type cell struct {
	*node

	mu     sync.Mutex
	values []float64
	set    []bool
}

// bind sets up one operand slot per input of n.
func (c *cell) bind(n *node) {
	c.node = n
	c.values = make([]float64, len(n.inputs))
	c.set = make([]bool, len(n.inputs))
}

// update stores v in every slot fed by topic and returns a copy of the
// operands once all slots have been set at least once.
func (c *cell) update(topic string, v float64) ([]float64, bool) {
	slots := c.slots(topic)
	if len(slots) == 0 {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, i := range slots {
		c.values[i] = v
		c.set[i] = true
	}
	if slices.Contains(c.set, false) {
		return nil, false
	}
	return slices.Clone(c.values), true
}

func (c *cell) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.values)
	clear(c.set)
}

// Operands returns the current operand values and which of them have been set.
func (c *cell) Operands() ([]float64, []bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.values), slices.Clone(c.set)
}

// Inputs returns the names of the input topics in operand order.
func (c *cell) Inputs() []string {
	return c.inputNames()
}

// Output returns the name of the output topic.
func (c *cell) Output() string {
	return c.output.Name()
}

func (c *cell) emit(ctx context.Context, v float64) {
	c.output.Publish(ctx, messages.FromFloat(v))
}
