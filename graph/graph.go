// Package graph derives a directed graph from the topics in a registry and
// checks it for cycles.
//
// Topics and agents are both vertices. A subscription becomes an edge from
// the topic to the agent, a registered publisher an edge from the agent to
// the topic, so an agent with two inputs and one output sits between its
// topics the same way it does at runtime. A cycle in this graph means a
// message could keep triggering itself forever.
//
// The graph is a snapshot: Build reads the registry once and the result is
// never updated. Rebuild it after changing the topology.
package graph

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/casualjim/agentgraph/pkg/slogx"
	"github.com/casualjim/agentgraph/topic"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrCycle is returned when an operation requires an acyclic graph.
var ErrCycle = errors.New("graph has a cycle")

// Kind tells topic nodes and agent nodes apart.
type Kind int

const (
	KindTopic Kind = iota
	KindAgent
)

func (k Kind) String() string {
	switch k {
	case KindTopic:
		return "topic"
	case KindAgent:
		return "agent"
	default:
		return "unknown"
	}
}

// Node is a topic or an agent in the graph.
type Node struct {
	Name  string
	Kind  Kind
	Edges []*Node
}

// ID is the key of the node in its graph. Topics and agents live in separate
// namespaces, so a topic and an agent may share a name.
func (n *Node) ID() string {
	return nodeID(n.Kind, n.Name)
}

func (n *Node) String() string {
	return n.ID()
}

func nodeID(kind Kind, name string) string {
	if kind == KindAgent {
		return "A:" + name
	}
	return "T:" + name
}

// Edge is a directed connection between two nodes.
type Edge struct {
	From *Node
	To   *Node
}

// Graph is a directed graph of topic and agent nodes kept in insertion order.
type Graph struct {
	nodes *orderedmap.OrderedMap[string, *Node]
}

func New() *Graph {
	return &Graph{nodes: orderedmap.New[string, *Node]()}
}

// Build creates a graph from the current topics of reg: topics in creation
// order, then for each topic its subscribers and its publishers.
func Build(reg *topic.Registry) *Graph {
	g := New()
	for _, t := range reg.All() {
		tn := g.AddTopic(t.Name())
		for _, sub := range t.Subscribers() {
			g.AddEdge(tn, g.AddAgent(sub.Name()))
		}
		for _, pub := range t.Publishers() {
			g.AddEdge(g.AddAgent(pub.Name()), tn)
		}
	}
	slogx.Logger("graph").Debug("graph built", slog.Int("nodes", g.Len()), slog.Int("edges", g.EdgeCount()))
	return g
}

// AddTopic returns the topic node called name, adding it if needed.
func (g *Graph) AddTopic(name string) *Node {
	return g.add(KindTopic, name)
}

// AddAgent returns the agent node called name, adding it if needed.
func (g *Graph) AddAgent(name string) *Node {
	return g.add(KindAgent, name)
}

func (g *Graph) add(kind Kind, name string) *Node {
	id := nodeID(kind, name)
	if n, ok := g.nodes.Get(id); ok {
		return n
	}
	n := &Node{Name: name, Kind: kind}
	g.nodes.Set(id, n)
	return n
}

// AddEdge connects from to to. Nodes from another graph are matched by kind
// and name. Adding an existing edge does nothing.
func (g *Graph) AddEdge(from, to *Node) {
	from = g.add(from.Kind, from.Name)
	to = g.add(to.Kind, to.Name)
	if slices.Contains(from.Edges, to) {
		return
	}
	from.Edges = append(from.Edges, to)
}

// Node looks up a node by kind and name.
func (g *Graph) Node(kind Kind, name string) (*Node, bool) {
	return g.nodes.Get(nodeID(kind, name))
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, g.nodes.Len())
	for pair := g.nodes.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Edges returns every edge, grouped by source node in insertion order.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, n := range g.Nodes() {
		for _, to := range n.Edges {
			out = append(out, Edge{From: n, To: to})
		}
	}
	return out
}

func (g *Graph) Len() int {
	return g.nodes.Len()
}

func (g *Graph) EdgeCount() int {
	count := 0
	for _, n := range g.Nodes() {
		count += len(n.Edges)
	}
	return count
}
