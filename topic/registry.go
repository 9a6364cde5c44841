package topic

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/casualjim/agentgraph/api"
	"github.com/casualjim/agentgraph/errs"
	"github.com/casualjim/agentgraph/internal/registry"
	"github.com/casualjim/agentgraph/pkg/slogx"
)

// Registry hands out topics by name, creating them on first reference.
// It is the one piece of shared mutable state in a computation: create one,
// pass it to everything that needs topics, and Shutdown when done.
type Registry struct {
	topics registry.Registry[*Topic]
	seq    atomic.Uint64
}

func NewRegistry() *Registry {
	return &Registry{
		topics: registry.New[*Topic](),
	}
}

// GetOrCreate returns the topic with the given name, creating it if needed.
// Concurrent callers asking for the same new name all receive the same,
// single Topic instance.
func (r *Registry) GetOrCreate(name string) (*Topic, error) {
	if name == "" {
		return nil, errs.Invalid("topic name is empty")
	}
	t, loaded := r.topics.GetOrAdd(name, func() *Topic {
		t, _ := New(name)
		t.seq = r.seq.Add(1)
		return t
	})
	if !loaded {
		logger().Debug("topic created", slogx.Topic(name))
	}
	return t, nil
}

// Get returns the topic with the given name without creating it.
func (r *Registry) Get(name string) (*Topic, bool) {
	return r.topics.Get(name)
}

// All returns a snapshot of the current topics in creation order.
func (r *Registry) All() []*Topic {
	all := r.topics.Values()
	slices.SortFunc(all, func(a, b *Topic) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return all
}

func (r *Registry) Len() int {
	return r.topics.Len()
}

// Clear forgets every topic. Agents are not closed; topics already held by
// callers keep working but are no longer reachable through the registry.
func (r *Registry) Clear() {
	r.topics.Clear()
	logger().Debug("registry cleared")
}

// Shutdown closes every agent that subscribes to or publishes on any topic,
// each exactly once, and then clears the registry. Close errors are joined.
func (r *Registry) Shutdown() error {
	seen := make(map[api.Agent]struct{})
	var closeErrs []error
	for _, t := range r.All() {
		for _, agent := range slices.Concat(t.Subscribers(), t.Publishers()) {
			if _, ok := seen[agent]; ok {
				continue
			}
			seen[agent] = struct{}{}
			if err := agent.Close(); err != nil {
				logger().Error("failed to close agent", slogx.Agent(agent.Name()), slogx.Error(err))
				closeErrs = append(closeErrs, fmt.Errorf("close %s: %w", agent.Name(), err))
			}
		}
	}
	r.Clear()
	return errors.Join(closeErrs...)
}
