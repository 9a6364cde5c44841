package topic

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/casualjim/agentgraph/api"
	"github.com/casualjim/agentgraph/errs"
	"github.com/casualjim/agentgraph/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTopic(t *testing.T, name string) *Topic {
	t.Helper()
	top, err := New(name)
	require.NoError(t, err)
	return top
}

func TestNew(t *testing.T) {
	t.Run("valid name", func(t *testing.T) {
		top, err := New("A")
		require.NoError(t, err)
		assert.Equal(t, "A", top.Name())
		assert.Empty(t, top.Subscribers())
		assert.Empty(t, top.Publishers())
	})

	t.Run("empty name", func(t *testing.T) {
		top, err := New("")
		assert.Nil(t, top)
		assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	})
}

func TestTopic_Subscribe(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		top := mustTopic(t, "A")
		a := newRecorder("a", nil)

		require.NoError(t, top.Subscribe(a))
		require.NoError(t, top.Subscribe(a))
		assert.Equal(t, []api.Agent{a}, top.Subscribers())
	})

	t.Run("keeps subscription order", func(t *testing.T) {
		top := mustTopic(t, "A")
		a, b, c := newRecorder("a", nil), newRecorder("b", nil), newRecorder("c", nil)
		require.NoError(t, top.Subscribe(b))
		require.NoError(t, top.Subscribe(a))
		require.NoError(t, top.Subscribe(c))
		assert.Equal(t, []api.Agent{b, a, c}, top.Subscribers())
	})

	t.Run("distinguishes agents by identity", func(t *testing.T) {
		top := mustTopic(t, "A")
		require.NoError(t, top.Subscribe(newRecorder("same", nil)))
		require.NoError(t, top.Subscribe(newRecorder("same", nil)))
		assert.Len(t, top.Subscribers(), 2)
	})

	t.Run("rejects nil", func(t *testing.T) {
		top := mustTopic(t, "A")
		err := top.Subscribe(nil)
		assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	})

	t.Run("rejects agents that cannot be compared", func(t *testing.T) {
		top := mustTopic(t, "A")
		fn := funcAgent(func(context.Context, string, messages.Message) {})
		assert.True(t, errors.Is(top.Subscribe(fn), errs.ErrInvalidArgument))
		assert.True(t, errors.Is(top.Subscribe(mapAgent{seen: map[string]int{}}), errs.ErrInvalidArgument))
		assert.True(t, errors.Is(top.AddPublisher(fn), errs.ErrInvalidArgument))
		assert.Empty(t, top.Subscribers())
		assert.Empty(t, top.Publishers())
	})

	t.Run("unsubscribe of unknown agent is a no-op", func(t *testing.T) {
		top := mustTopic(t, "A")
		a, b := newRecorder("a", nil), newRecorder("b", nil)
		require.NoError(t, top.Subscribe(a))

		top.Unsubscribe(b)
		top.Unsubscribe(nil)
		assert.Equal(t, []api.Agent{a}, top.Subscribers())

		top.Unsubscribe(a)
		top.Unsubscribe(a)
		assert.Empty(t, top.Subscribers())
	})

	t.Run("snapshots are copies", func(t *testing.T) {
		top := mustTopic(t, "A")
		a := newRecorder("a", nil)
		require.NoError(t, top.Subscribe(a))

		subs := top.Subscribers()
		subs[0] = newRecorder("intruder", nil)
		assert.Equal(t, []api.Agent{a}, top.Subscribers())
	})
}

func TestTopic_Publishers(t *testing.T) {
	top := mustTopic(t, "A")
	p := newRecorder("p", nil)

	require.NoError(t, top.AddPublisher(p))
	require.NoError(t, top.AddPublisher(p))
	assert.Equal(t, []api.Agent{p}, top.Publishers())

	assert.True(t, errors.Is(top.AddPublisher(nil), errs.ErrInvalidArgument))

	top.Publish(context.Background(), messages.New("1"))
	assert.Equal(t, 0, p.count(), "publishers never receive deliveries")

	top.RemovePublisher(p)
	top.RemovePublisher(p)
	assert.Empty(t, top.Publishers())
}

func TestTopic_Publish(t *testing.T) {
	t.Run("delivers to every subscriber in order", func(t *testing.T) {
		j := &journal{}
		top := mustTopic(t, "A")
		a1, a2 := newRecorder("a1", j), newRecorder("a2", j)
		require.NoError(t, top.Subscribe(a1))
		require.NoError(t, top.Subscribe(a2))

		m := messages.New("5")
		top.Publish(context.Background(), m)

		assert.Equal(t, []delivery{
			{agent: "a1", topic: "A", msg: m},
			{agent: "a2", topic: "A", msg: m},
		}, j.all())

		last, ok := top.LastMessage()
		require.True(t, ok)
		assert.True(t, m.Equal(last))
	})

	t.Run("without subscribers updates the last message", func(t *testing.T) {
		top := mustTopic(t, "A")
		_, ok := top.LastMessage()
		assert.False(t, ok)

		top.Publish(context.Background(), messages.New("hello"))
		last, ok := top.LastMessage()
		require.True(t, ok)
		assert.Equal(t, "hello", last.Text())
	})

	t.Run("unsubscribed agents stop receiving", func(t *testing.T) {
		top := mustTopic(t, "A")
		a := newRecorder("a", nil)
		require.NoError(t, top.Subscribe(a))
		top.Publish(context.Background(), messages.New("1"))
		top.Unsubscribe(a)
		top.Publish(context.Background(), messages.New("2"))
		assert.Equal(t, 1, a.count())
	})

	t.Run("mutation during fan-out uses the call snapshot", func(t *testing.T) {
		top := mustTopic(t, "A")
		late := newRecorder("late", nil)
		second := newRecorder("second", nil)
		first := newRecorder("first", nil)
		first.onCall = func(context.Context, string, messages.Message) {
			_ = top.Subscribe(late)
			top.Unsubscribe(second)
		}
		require.NoError(t, top.Subscribe(first))
		require.NoError(t, top.Subscribe(second))

		top.Publish(context.Background(), messages.New("1"))
		assert.Equal(t, 1, second.count(), "removed mid fan-out but still in this call's snapshot")
		assert.Equal(t, 0, late.count(), "added mid fan-out, delivered from the next publish")

		top.Publish(context.Background(), messages.New("2"))
		assert.Equal(t, 1, second.count())
		assert.Equal(t, 1, late.count())
	})

	t.Run("re-entrant publish to another topic", func(t *testing.T) {
		in := mustTopic(t, "in")
		out := mustTopic(t, "out")
		sink := newRecorder("sink", nil)
		relay := newRecorder("relay", nil)
		relay.onCall = func(ctx context.Context, _ string, msg messages.Message) {
			out.Publish(ctx, messages.FromFloat(msg.Float()*2))
		}
		require.NoError(t, in.Subscribe(relay))
		require.NoError(t, out.Subscribe(sink))

		in.Publish(context.Background(), messages.New("21"))
		last, ok := out.LastMessage()
		require.True(t, ok)
		assert.Equal(t, 42.0, last.Float())
		assert.Equal(t, 1, sink.count())
	})

	t.Run("re-entrant publish to the same topic", func(t *testing.T) {
		top := mustTopic(t, "countdown")
		counter := newRecorder("counter", nil)
		counter.onCall = func(ctx context.Context, _ string, msg messages.Message) {
			if v := msg.Float(); v > 0 {
				top.Publish(ctx, messages.FromFloat(v-1))
			}
		}
		require.NoError(t, top.Subscribe(counter))

		top.Publish(context.Background(), messages.New("3"))
		assert.Equal(t, 4, counter.count())
		last, _ := top.LastMessage()
		assert.Equal(t, 0.0, last.Float())
	})
}

func TestTopic_PublishSkipsDisabledDebugLogging(t *testing.T) {
	h := &countingHandler{level: slog.LevelInfo}
	prev := slog.Default()
	slog.SetDefault(slog.New(h))
	t.Cleanup(func() { slog.SetDefault(prev) })

	top := mustTopic(t, "A")
	require.NoError(t, top.Subscribe(newRecorder("r", nil)))
	before := h.withCalls.Load()

	for i := 0; i < 10; i++ {
		top.Publish(context.Background(), messages.New("1"))
	}
	assert.Equal(t, before, h.withCalls.Load())
}

func TestTopic_ConcurrentMembership(t *testing.T) {
	top := mustTopic(t, "A")
	const workers = 32

	stable := make([]*recorder, workers)
	for i := range stable {
		stable[i] = newRecorder("stable", nil)
	}

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_ = top.Subscribe(stable[i])
		}()
		go func() {
			defer wg.Done()
			churn := newRecorder("churn", nil)
			_ = top.Subscribe(churn)
			top.Unsubscribe(churn)
		}()
		go func() {
			defer wg.Done()
			top.Publish(context.Background(), messages.New("x"))
		}()
	}
	wg.Wait()

	subs := top.Subscribers()
	assert.Len(t, subs, workers, "no subscribe was lost and every churn agent was removed")
	for _, r := range stable {
		assert.Contains(t, subs, api.Agent(r))
	}
}
