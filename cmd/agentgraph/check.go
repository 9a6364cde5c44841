package main

import (
	"context"
	"fmt"

	"github.com/casualjim/agentgraph/graph"
	"github.com/casualjim/agentgraph/topic"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:        "check",
		Usage:       "Validate a topology and look for cycles",
		ArgsUsage:   "FILE",
		Description: "Builds every agent of the topology and fails when the graph of topics and agents has a cycle.",
		Action:      runCheck,
	}
}

func runCheck(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	top, err := buildTopology(ctx, cfg, topic.NewRegistry())
	if err != nil {
		return err
	}
	defer func() { _ = top.Close() }()

	out := c.Root().Writer
	g := top.Graph()
	topics, agentCount := countKinds(g)
	fmt.Fprintf(out, "%d topics, %d agents, %d edges\n", topics, agentCount, g.EdgeCount())

	if cycle := g.FindCycle(); cycle != nil {
		fmt.Fprintf(out, "%s %s\n", color.RedString("cycle:"), pathString(cycle))
		return fmt.Errorf("%s: %w", c.Args().First(), graph.ErrCycle)
	}

	fmt.Fprintln(out, color.GreenString("acyclic"))
	return nil
}
