package main

import (
	"context"
	"errors"
	"strings"

	"github.com/casualjim/agentgraph/agents"
	"github.com/casualjim/agentgraph/config"
	"github.com/casualjim/agentgraph/graph"
	"github.com/casualjim/agentgraph/topic"
	"github.com/urfave/cli/v3"
)

var errNoFile = errors.New("missing topology FILE argument")

func loadConfig(c *cli.Command) (*config.Config, error) {
	path := c.Args().First()
	if path == "" {
		return nil, errNoFile
	}
	return config.Load(path)
}

func buildTopology(ctx context.Context, cfg *config.Config, reg *topic.Registry) (*config.Topology, error) {
	return cfg.Build(ctx, reg, agents.DefaultCatalog())
}

// pathString renders a cycle as A -> [agent] -> B -> ... with agents in
// brackets.
func pathString(nodes []*graph.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		if n.Kind == graph.KindAgent {
			parts[i] = "[" + n.Name + "]"
			continue
		}
		parts[i] = n.Name
	}
	return strings.Join(parts, " -> ")
}

func countKinds(g *graph.Graph) (topics, agentCount int) {
	for _, n := range g.Nodes() {
		if n.Kind == graph.KindAgent {
			agentCount++
		} else {
			topics++
		}
	}
	return topics, agentCount
}
