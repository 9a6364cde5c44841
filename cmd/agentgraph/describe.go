package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/casualjim/agentgraph/api"
	"github.com/casualjim/agentgraph/config"
	"github.com/casualjim/agentgraph/graph"
	"github.com/casualjim/agentgraph/topic"
	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
)

func describeCommand() *cli.Command {
	return &cli.Command{
		Name:        "describe",
		Usage:       "Summarize the agents, topics and edges of a topology",
		ArgsUsage:   "FILE",
		Description: "Renders a Markdown summary of the topology in the terminal.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "print the Markdown source instead of rendering it",
			},
		},
		Action: runDescribe,
	}
}

func runDescribe(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	top, err := buildTopology(ctx, cfg, topic.NewRegistry())
	if err != nil {
		return err
	}
	defer func() { _ = top.Close() }()

	doc := describe(filepath.Base(c.Args().First()), cfg, top)
	if c.Bool("raw") {
		_, err = fmt.Fprint(c.Root().Writer, doc)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}
	rendered, err := renderer.Render(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(c.Root().Writer, rendered)
	return err
}

func describe(title string, cfg *config.Config, top *config.Topology) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	b.WriteString("## Agents\n\n| Agent | Type | Subscribes | Publishes |\n|---|---|---|---|\n")
	for i, a := range top.Agents() {
		def := cfg.Agents[i]
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", a.Name(), def.Type, topicList(def.Subs), topicList(def.Pubs))
	}

	b.WriteString("\n## Topics\n\n| Topic | Subscribers | Publishers |\n|---|---|---|\n")
	for _, t := range top.Registry().All() {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", t.Name(), agentList(t.Subscribers()), agentList(t.Publishers()))
	}

	g := top.Graph()
	b.WriteString("\n## Edges\n\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "- %s → %s\n", nodeLabel(e.From), nodeLabel(e.To))
	}

	b.WriteString("\n## Cycles\n\n")
	if cycle := g.FindCycle(); cycle != nil {
		fmt.Fprintf(&b, "Cycle found: `%s`\n", pathString(cycle))
	} else {
		b.WriteString("None.\n")
	}
	return b.String()
}

func nodeLabel(n *graph.Node) string {
	if n.Kind == graph.KindAgent {
		return "agent `" + n.Name + "`"
	}
	return "topic `" + n.Name + "`"
}

func topicList(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func agentList(list []api.Agent) string {
	names := make([]string, len(list))
	for i, a := range list {
		names[i] = a.Name()
	}
	return topicList(names)
}
