package graph

import "slices"

type color uint8

const (
	white color = iota // not visited
	gray               // on the current DFS path
	black              // fully explored
)

// HasCycle reports whether any directed cycle exists, including self-loops.
func (g *Graph) HasCycle() bool {
	return g.FindCycle() != nil
}

// FindCycle returns the nodes of one cycle with the first node repeated at
// the end, e.g. [A B C A], or nil if the graph is acyclic. Every node is used
// as a DFS root so disconnected parts are covered.
func (g *Graph) FindCycle() []*Node {
	colors := make(map[*Node]color, g.Len())
	var path []*Node

	var visit func(n *Node) []*Node
	visit = func(n *Node) []*Node {
		colors[n] = gray
		path = append(path, n)
		for _, next := range n.Edges {
			switch colors[next] {
			case gray:
				start := slices.Index(path, next)
				return append(slices.Clone(path[start:]), next)
			case white:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		colors[n] = black
		return nil
	}

	for _, n := range g.Nodes() {
		if colors[n] != white {
			continue
		}
		if cycle := visit(n); cycle != nil {
			return cycle
		}
	}
	return nil
}

// TopologicalOrder returns the nodes so that every edge points forward.
// Ties are broken by insertion order. It fails with ErrCycle when the graph
// is cyclic.
func (g *Graph) TopologicalOrder() ([]*Node, error) {
	nodes := g.Nodes()
	indegree := make(map[*Node]int, len(nodes))
	for _, n := range nodes {
		for _, next := range n.Edges {
			indegree[next]++
		}
	}

	var queue []*Node
	for _, n := range nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]*Node, 0, len(nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, next := range n.Edges {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, ErrCycle
	}
	return order, nil
}
