package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/casualjim/agentgraph/agents"
	"github.com/casualjim/agentgraph/config"
	"github.com/casualjim/agentgraph/errs"
	"github.com/casualjim/agentgraph/graph"
	"github.com/casualjim/agentgraph/messages"
	"github.com/casualjim/agentgraph/pkg/uuidx"
	"github.com/casualjim/agentgraph/topic"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v3"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Build a topology, publish its seeds and print every topic",
		ArgsUsage: "FILE",
		Description: `Publishes the seed messages of the document, then every --set value in
order, and prints the last message of each topic.

Cyclic topologies are refused unless --allow-cycles is given; a cycle that
keeps producing messages never terminates.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "publish `TOPIC=VALUE` after the seeds (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print results as JSON",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print every delivery as it happens",
			},
			&cli.BoolFlag{
				Name:  "allow-cycles",
				Usage: "run even when the graph has a cycle",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "dump the parsed document before running",
			},
		},
		Action: runRun,
	}
}

type topicResult struct {
	Topic   string            `json:"topic"`
	Message *messages.Message `json:"message"`
}

func runRun(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	sets, err := parseSets(c.StringSlice("set"))
	if err != nil {
		return err
	}
	if c.Bool("debug") {
		pp.Fprintln(out, cfg)
	}

	reg := topic.NewRegistry()
	if c.Bool("trace") {
		// subscribed before any agent, so deliveries print in publish order
		probe, err := newTracer(reg, append(cfg.Topics(), seedTopics(sets)...), out)
		if err != nil {
			return err
		}
		defer func() { _ = probe.Close() }()
	}

	top, err := buildTopology(ctx, cfg, reg)
	if err != nil {
		return err
	}
	defer func() { _ = top.Close() }()

	if !c.Bool("allow-cycles") {
		if cycle := top.Graph().FindCycle(); cycle != nil {
			return fmt.Errorf("%w: %s (use --allow-cycles to run anyway)", graph.ErrCycle, pathString(cycle))
		}
	}

	if err := top.Seed(ctx); err != nil {
		return err
	}
	for _, s := range sets {
		if err := top.Publish(ctx, s.Topic, s.Value.Message()); err != nil {
			return err
		}
	}

	results := collect(reg)
	if c.Bool("json") {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TOPIC\tVALUE")
	for _, r := range results {
		value := "-"
		if r.Message != nil {
			value = r.Message.Text()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", r.Topic, value)
	}
	return w.Flush()
}

// parseSets turns TOPIC=VALUE pairs into seeds. The value may be empty or
// contain further '=' characters.
func parseSets(values []string) ([]config.Seed, error) {
	seeds := make([]config.Seed, 0, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errs.Invalid("--set %q: expected TOPIC=VALUE", v)
		}
		seeds = append(seeds, config.Seed{Topic: name, Value: config.Value(value)})
	}
	return seeds, nil
}

func seedTopics(seeds []config.Seed) []string {
	names := make([]string, len(seeds))
	for i, s := range seeds {
		names[i] = s.Topic
	}
	return names
}

// newTracer subscribes a probe to topics that prints every delivery. The
// probe gets a generated name so it never collides with a document agent.
func newTracer(reg *topic.Registry, topics []string, out io.Writer) (*agents.Probe, error) {
	probe, err := agents.NewProbe(reg, agents.Name(uuidx.Name("trace")), agents.Inputs(uniq(topics)...))
	if err != nil {
		return nil, err
	}
	probe.OnDelivery(func(d agents.Delivery) {
		fmt.Fprintf(out, "%s %s = %s\n", color.CyanString("->"), d.Topic, d.Message.Text())
	})
	return probe, nil
}

func uniq(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0:0]
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func collect(reg *topic.Registry) []topicResult {
	all := reg.All()
	results := make([]topicResult, 0, len(all))
	for _, t := range all {
		r := topicResult{Topic: t.Name()}
		if msg, ok := t.LastMessage(); ok {
			r.Message = &msg
		}
		results = append(results, r)
	}
	return results
}
