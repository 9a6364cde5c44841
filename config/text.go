package config

import (
	"bufio"
	"io"
	"strings"

	"github.com/casualjim/agentgraph/errs"
)

// parseText reads the line based format: every agent is three lines holding
// its type, its inputs and its outputs. Blank lines and lines starting with #
// are skipped. Types may be written as qualified class names such as
// configs.PlusAgent, which resolve to the tag "plus".
func parseText(r io.Reader) ([]Agent, error) {
	var (
		agents  []Agent
		group   []string
		started int
		lineNo  int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(group) == 0 {
			started = lineNo
		}
		group = append(group, line)
		if len(group) < 3 {
			continue
		}

		agents = append(agents, Agent{
			Type: typeTag(group[0]),
			Subs: splitTopics(group[1]),
			Pubs: splitTopics(group[2]),
		})
		group = group[:0]
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(group) > 0 {
		return nil, errs.Invalid("line %d: agent needs type, inputs and outputs lines, got %d", started, len(group))
	}
	return agents, nil
}

func typeTag(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	if trimmed := strings.TrimSuffix(s, "Agent"); trimmed != "" {
		s = trimmed
	}
	return strings.ToLower(s)
}

// splitTopics splits a comma separated list. The single character "-" stands
// for an empty list so agents without inputs or outputs keep three lines.
func splitTopics(s string) []string {
	if s == "-" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}
