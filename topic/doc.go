// Package topic implements named channels and the registry that owns them.
//
// Design decisions:
//   - Synchronous fan-out: Publish calls every subscriber's Callback on the
//     publishing goroutine, there is no queue in between
//   - Copy-on-write membership: subscriber and publisher lists are replaced,
//     never mutated, so a publish iterates a stable snapshot without holding
//     a lock and callbacks may subscribe, unsubscribe or publish freely
//   - Provenance only publishers: AddPublisher feeds the computation graph
//     and never affects delivery
//   - Lazy topics: a Registry creates a topic the first time its name is
//     asked for, and never creates two topics for one name
//
// Example usage:
//
//	reg := topic.NewRegistry()
//	defer reg.Shutdown()
//
//	in, _ := reg.GetOrCreate("celsius")
//	if err := in.Subscribe(converter); err != nil {
//	    return err
//	}
//	in.Publish(ctx, messages.New("21.5"))
//
//	if last, ok := in.LastMessage(); ok {
//	    fmt.Println(last.Float())
//	}
package topic
