package agents

import (
	"slices"
	"strings"

	"github.com/casualjim/agentgraph/api"
	"github.com/casualjim/agentgraph/errs"
	"github.com/casualjim/agentgraph/internal/registry"
	"github.com/casualjim/agentgraph/topic"
	"github.com/fogfish/opts"
)

// Factory builds an agent of one kind, wired to the given topics.
type Factory func(reg *topic.Registry, name string, subs, pubs []string) (api.Agent, error)

// Kind describes an agent type that can be created from configuration.
type Kind struct {
	// Tag is the type name used in configuration files.
	Tag string
	// Aliases are alternative tags resolving to the same kind.
	Aliases []string
	// Description is a one line summary shown by tooling.
	Description string
	// Inputs is the exact number of subscribed topics; -1 means one or more.
	Inputs int
	// Outputs is the exact number of published topics.
	Outputs int
	Build   Factory
}

// CheckArity reports whether subs and pubs fit this kind.
func (k Kind) CheckArity(subs, pubs int) error {
	switch {
	case k.Inputs < 0 && subs < 1:
		return errs.Invalid("%s subscribes to one or more topics, got %d", k.Tag, subs)
	case k.Inputs >= 0 && subs != k.Inputs:
		return errs.Invalid("%s subscribes to %d topics, got %d", k.Tag, k.Inputs, subs)
	case pubs != k.Outputs:
		return errs.Invalid("%s publishes to %d topics, got %d", k.Tag, k.Outputs, pubs)
	}
	return nil
}

// Catalog maps type tags to agent kinds. Tags are case insensitive.
type Catalog struct {
	kinds registry.Registry[Kind]
}

func NewCatalog() *Catalog {
	return &Catalog{kinds: registry.New[Kind]()}
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Register adds k under its tag and aliases, replacing any previous kind
// with the same tag.
func (c *Catalog) Register(k Kind) error {
	if normalizeTag(k.Tag) == "" {
		return errs.Invalid("agent kind has no tag")
	}
	if k.Build == nil {
		return errs.Invalid("agent kind %q has no factory", k.Tag)
	}
	for _, tag := range append([]string{k.Tag}, k.Aliases...) {
		c.kinds.Add(normalizeTag(tag), k)
	}
	return nil
}

// Lookup returns the kind registered under tag.
func (c *Catalog) Lookup(tag string) (Kind, error) {
	k, ok := c.kinds.Get(normalizeTag(tag))
	if !ok {
		return Kind{}, errs.Unsupported("unknown agent type %q", tag)
	}
	return k, nil
}

// Kinds returns every registered kind once, sorted by tag.
func (c *Catalog) Kinds() []Kind {
	seen := make(map[string]struct{})
	var out []Kind
	for _, k := range c.kinds.Values() {
		if _, ok := seen[k.Tag]; ok {
			continue
		}
		seen[k.Tag] = struct{}{}
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b Kind) int { return strings.Compare(a.Tag, b.Tag) })
	return out
}

// Build validates the arity for tag and creates the agent.
func (c *Catalog) Build(reg *topic.Registry, tag, name string, subs, pubs []string) (api.Agent, error) {
	k, err := c.Lookup(tag)
	if err != nil {
		return nil, err
	}
	if err := k.CheckArity(len(subs), len(pubs)); err != nil {
		return nil, err
	}
	return k.Build(reg, name, subs, pubs)
}

func binaryKind(tag, description string, op BinaryOperator, aliases ...string) Kind {
	return Kind{
		Tag: tag, Aliases: aliases, Description: description, Inputs: 2, Outputs: 1,
		Build: func(reg *topic.Registry, name string, subs, pubs []string) (api.Agent, error) {
			return asAgent(NewBinary(reg, op, wiring(name, subs, pubs)...))
		},
	}
}

func unaryKind(tag, description string, op UnaryOperator, aliases ...string) Kind {
	return Kind{
		Tag: tag, Aliases: aliases, Description: description, Inputs: 1, Outputs: 1,
		Build: func(reg *topic.Registry, name string, subs, pubs []string) (api.Agent, error) {
			return asAgent(NewUnary(reg, op, wiring(name, subs, pubs)...))
		},
	}
}

// asAgent keeps a failed constructor from returning a typed nil agent.
func asAgent[A api.Agent](a A, err error) (api.Agent, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}

func wiring(name string, subs, pubs []string) []opts.Option[settings] {
	options := []opts.Option[settings]{Inputs(subs...)}
	if name != "" {
		options = append(options, Name(name))
	}
	if len(pubs) > 0 {
		options = append(options, Output(pubs[0]))
	}
	return options
}

// DefaultCatalog returns a catalog holding every agent kind in this package.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	kinds := []Kind{
		binaryKind("add", "publishes left + right", Add, "plus"),
		binaryKind("sub", "publishes left - right", Sub, "minus"),
		binaryKind("mul", "publishes left * right", Mul, "times"),
		binaryKind("div", "publishes left / right", Div),
		binaryKind("pow", "publishes left raised to right", Pow),
		binaryKind("max", "publishes the larger operand", Max),
		binaryKind("min", "publishes the smaller operand", Min),
		unaryKind("inc", "publishes the input + 1", Inc),
		unaryKind("dec", "publishes the input - 1", Dec),
		unaryKind("neg", "publishes the negated input", Neg),
		unaryKind("abs", "publishes the absolute value of the input", Abs),
		unaryKind("sqrt", "publishes the square root of the input", Sqrt),
		{
			Tag: "sink", Description: "keeps the latest message of each input", Inputs: -1, Outputs: 0,
			Build: func(reg *topic.Registry, name string, subs, pubs []string) (api.Agent, error) {
				return asAgent(NewSink(reg, wiring(name, subs, pubs)...))
			},
		},
		{
			Tag: "source", Description: "declares an external publisher of its output", Inputs: 0, Outputs: 1,
			Build: func(reg *topic.Registry, name string, subs, pubs []string) (api.Agent, error) {
				return asAgent(NewSource(reg, wiring(name, subs, pubs)...))
			},
		},
	}
	for _, k := range kinds {
		if err := c.Register(k); err != nil {
			panic(err)
		}
	}
	return c
}
