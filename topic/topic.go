package topic

import (
	"context"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/casualjim/agentgraph/api"
	"github.com/casualjim/agentgraph/errs"
	"github.com/casualjim/agentgraph/messages"
	"github.com/casualjim/agentgraph/pkg/slogx"
)

func logger() *slog.Logger {
	return slogx.Logger("topic")
}

// Topic is a named channel that fans messages out to its subscribers.
type Topic struct {
	name string
	seq  uint64

	mu          sync.Mutex // serializes writers of subscribers and publishers
	subscribers atomic.Pointer[[]api.Agent]
	publishers  atomic.Pointer[[]api.Agent]
	last        atomic.Pointer[messages.Message]
}

// New creates a standalone topic. Most callers should obtain topics through
// a Registry so that every holder of a name shares the same instance.
func New(name string) (*Topic, error) {
	if name == "" {
		return nil, errs.Invalid("topic name is empty")
	}
	t := &Topic{name: name}
	t.subscribers.Store(&[]api.Agent{})
	t.publishers.Store(&[]api.Agent{})
	return t, nil
}

func (t *Topic) Name() string {
	return t.name
}

// Subscribe adds agent to the subscribers. Subscribing an agent that is
// already subscribed does nothing. Agents are compared by identity, so an
// agent whose dynamic type is not comparable is rejected.
func (t *Topic) Subscribe(agent api.Agent) error {
	if agent == nil {
		return errs.Invalid("cannot subscribe a nil agent to topic %q", t.name)
	}
	if !reflect.ValueOf(agent).Comparable() {
		return errs.Invalid("agent %q of type %T cannot be subscribed to topic %q: not comparable", agent.Name(), agent, t.name)
	}
	if add(&t.mu, &t.subscribers, agent) {
		logger().Debug("subscribed", slogx.Topic(t.name), slogx.Agent(agent.Name()))
	}
	return nil
}

// Unsubscribe removes agent from the subscribers, if present.
func (t *Topic) Unsubscribe(agent api.Agent) {
	if agent == nil {
		return
	}
	if remove(&t.mu, &t.subscribers, agent) {
		logger().Debug("unsubscribed", slogx.Topic(t.name), slogx.Agent(agent.Name()))
	}
}

// AddPublisher records agent as a publisher of this topic. This is
// bookkeeping for the computation graph only: publishers never receive
// messages and any caller may publish whether or not it was registered.
func (t *Topic) AddPublisher(agent api.Agent) error {
	if agent == nil {
		return errs.Invalid("cannot add a nil publisher to topic %q", t.name)
	}
	if !reflect.ValueOf(agent).Comparable() {
		return errs.Invalid("agent %q of type %T cannot publish to topic %q: not comparable", agent.Name(), agent, t.name)
	}
	if add(&t.mu, &t.publishers, agent) {
		logger().Debug("publisher added", slogx.Topic(t.name), slogx.Agent(agent.Name()))
	}
	return nil
}

// RemovePublisher removes agent from the publishers, if present.
func (t *Topic) RemovePublisher(agent api.Agent) {
	if agent == nil {
		return
	}
	if remove(&t.mu, &t.publishers, agent) {
		logger().Debug("publisher removed", slogx.Topic(t.name), slogx.Agent(agent.Name()))
	}
}

// Publish records msg as the last message and delivers it to every
// subscriber, in subscription order, on the calling goroutine.
//
// Delivery iterates the subscriber list as it was when Publish was called:
// agents subscribed or unsubscribed by a callback take effect on the next
// publish. Callbacks may publish again, to this topic or any other.
func (t *Topic) Publish(ctx context.Context, msg messages.Message) {
	t.last.Store(&msg)

	subs := *t.subscribers.Load()
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		logger().DebugContext(ctx, "publish", slogx.Topic(t.name), "subscribers", len(subs))
	}
	for _, agent := range subs {
		agent.Callback(ctx, t.name, msg)
	}
}

// LastMessage returns the most recently published message. The boolean is
// false until the first publish.
func (t *Topic) LastMessage() (messages.Message, bool) {
	m := t.last.Load()
	if m == nil {
		return messages.Message{}, false
	}
	return *m, true
}

// Subscribers returns a snapshot of the subscribers in subscription order.
func (t *Topic) Subscribers() []api.Agent {
	return slices.Clone(*t.subscribers.Load())
}

// Publishers returns a snapshot of the registered publishers in insertion order.
func (t *Topic) Publishers() []api.Agent {
	return slices.Clone(*t.publishers.Load())
}

func (t *Topic) String() string {
	return t.name
}

// add and remove replace the list wholesale so readers holding the previous
// slice never observe a mutation.
func add(mu *sync.Mutex, list *atomic.Pointer[[]api.Agent], agent api.Agent) bool {
	mu.Lock()
	defer mu.Unlock()

	cur := *list.Load()
	if slices.Contains(cur, agent) {
		return false
	}
	next := make([]api.Agent, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, agent)
	list.Store(&next)
	return true
}

func remove(mu *sync.Mutex, list *atomic.Pointer[[]api.Agent], agent api.Agent) bool {
	mu.Lock()
	defer mu.Unlock()

	cur := *list.Load()
	idx := slices.Index(cur, agent)
	if idx < 0 {
		return false
	}
	next := slices.Delete(slices.Clone(cur), idx, idx+1)
	list.Store(&next)
	return true
}
