package api

import (
	"context"

	"github.com/casualjim/agentgraph/messages"
)

// Agent is a named unit of computation that reacts to messages published on
// the topics it subscribes to, and may publish new messages in turn.
//
// Design decisions:
//   - Synchronous delivery: Callback runs on the publisher's goroutine, so a
//     slow agent slows down whoever published
//   - Identity by value: topics compare agents with ==, so implementations
//     should be pointer types; topics reject agents whose dynamic type is
//     not comparable
//   - Owned state: any accumulated state belongs to the agent instance and is
//     guarded by the agent itself
//
// Example usage:
//
//	t, _ := reg.GetOrCreate("temperature")
//	if err := t.Subscribe(myAgent); err != nil {
//	    return err
//	}
//	t.Publish(ctx, messages.New("21.5"))
type Agent interface {
	// Name returns the agent's identifier. It is used as the agent node name
	// in the computation graph and in log records.
	Name() string

	// Callback is invoked for every message published on a subscribed topic.
	// Implementations may publish to other topics (or the same one) from
	// inside the callback.
	Callback(ctx context.Context, topic string, msg messages.Message)

	// Reset clears accumulated state back to the initial condition.
	Reset()

	// Close releases the agent's subscriptions and resources.
	// Calling Close more than once is a no-op.
	Close() error
}
