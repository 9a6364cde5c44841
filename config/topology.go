package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/casualjim/agentgraph/agents"
	"github.com/casualjim/agentgraph/api"
	"github.com/casualjim/agentgraph/graph"
	"github.com/casualjim/agentgraph/messages"
	"github.com/casualjim/agentgraph/pkg/slogx"
	"github.com/casualjim/agentgraph/topic"
)

func logger() *slog.Logger {
	return slogx.Logger("config")
}

// Topology is the set of agents created from a document.
type Topology struct {
	reg    *topic.Registry
	agents []api.Agent
	seed   []Seed
}

// Build validates the document and creates its agents in order on reg.
// When an agent cannot be created the ones built before it are closed again.
func (c *Config) Build(ctx context.Context, reg *topic.Registry, catalog *agents.Catalog) (*Topology, error) {
	if err := c.Validate(catalog); err != nil {
		return nil, fmt.Errorf("invalid topology: %w", err)
	}

	t := &Topology{reg: reg, seed: c.Seed}
	for i, a := range c.Agents {
		agent, err := catalog.Build(reg, a.Type, a.Name, a.Subs, a.Pubs)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("agents[%d]: %w", i, err), t.Close())
		}
		t.agents = append(t.agents, agent)
		logger().DebugContext(ctx, "agent created", slogx.Agent(agent.Name()), slog.String("type", a.Type))
	}
	return t, nil
}

// Agents returns the agents in creation order.
func (t *Topology) Agents() []api.Agent {
	return append([]api.Agent(nil), t.agents...)
}

// Registry returns the registry the agents are wired on.
func (t *Topology) Registry() *topic.Registry {
	return t.reg
}

// Graph builds a fresh graph of the registry.
func (t *Topology) Graph() *graph.Graph {
	return graph.Build(t.reg)
}

// Seed publishes the seed messages of the document in order.
func (t *Topology) Seed(ctx context.Context) error {
	for i, s := range t.seed {
		if err := t.Publish(ctx, s.Topic, s.Value.Message()); err != nil {
			return fmt.Errorf("seed[%d]: %w", i, err)
		}
	}
	return nil
}

// Publish sends msg to the named topic, creating it when needed.
func (t *Topology) Publish(ctx context.Context, name string, msg messages.Message) error {
	top, err := t.reg.GetOrCreate(name)
	if err != nil {
		return err
	}
	top.Publish(ctx, msg)
	return nil
}

// Reset clears the state of every agent.
func (t *Topology) Reset() {
	for _, a := range t.agents {
		a.Reset()
	}
}

// Close closes every agent. Topics and their last messages stay in the
// registry.
func (t *Topology) Close() error {
	var err error
	for _, a := range t.agents {
		if cerr := a.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", a.Name(), cerr))
		}
	}
	return err
}
