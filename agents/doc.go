// Package agents provides the concrete agents that run on top of topics:
// arithmetic operator cells, sources, sinks and a recording probe, plus the
// catalog that maps configuration type tags to constructors.
//
// An operator agent waits until every input has produced a value once, then
// recomputes and publishes on every new arrival using the latest value of
// the other inputs:
//
//	reg := topic.NewRegistry()
//	adder, err := agents.NewBinary(reg, agents.Add,
//	    agents.Name("adder"),
//	    agents.Inputs("A", "B"),
//	    agents.Output("C"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer adder.Close()
//
//	a, _ := reg.GetOrCreate("A")
//	b, _ := reg.GetOrCreate("B")
//	a.Publish(ctx, messages.New("7"))
//	b.Publish(ctx, messages.New("3")) // C receives 10
//	a.Publish(ctx, messages.New("5")) // C receives 8
package agents
