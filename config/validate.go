package config

import (
	"errors"
	"fmt"

	"github.com/casualjim/agentgraph/agents"
	"github.com/hay-kot/criterio"
)

// Validate checks the document against catalog: every agent has a known
// type, the number of topics it names fits that type, no topic name is empty
// and explicit agent names are unique. All problems are reported together as
// criterio.FieldErrors.
func (c *Config) Validate(catalog *agents.Catalog) error {
	if len(c.Agents) == 0 {
		return criterio.NewFieldErrors("agents", errors.New("at least one agent is required"))
	}

	var errs criterio.FieldErrorsBuilder
	names := make(map[string]int)

	for i, a := range c.Agents {
		field := fmt.Sprintf("agents[%d]", i)

		if a.Name != "" {
			if first, ok := names[a.Name]; ok {
				errs = errs.Append(field+".name", fmt.Errorf("duplicate name %q, first used by agents[%d]", a.Name, first))
			} else {
				names[a.Name] = i
			}
		}

		errs = appendTopicErrors(errs, field+".subs", a.Subs)
		errs = appendTopicErrors(errs, field+".pubs", a.Pubs)

		if a.Type == "" {
			errs = errs.Append(field+".type", errors.New("type is required"))
			continue
		}
		kind, err := catalog.Lookup(a.Type)
		if err != nil {
			errs = errs.Append(field+".type", err)
			continue
		}
		if err := kind.CheckArity(len(a.Subs), len(a.Pubs)); err != nil {
			errs = errs.Append(field+arityField(kind, len(a.Subs)), err)
		}
	}

	for i, s := range c.Seed {
		if s.Topic == "" {
			errs = errs.Append(fmt.Sprintf("seed[%d].topic", i), errors.New("topic is required"))
		}
	}

	return errs.ToError()
}

func appendTopicErrors(errs criterio.FieldErrorsBuilder, field string, topics []string) criterio.FieldErrorsBuilder {
	for j, name := range topics {
		if name == "" {
			errs = errs.Append(fmt.Sprintf("%s[%d]", field, j), errors.New("topic name is empty"))
		}
	}
	return errs
}

// arityField names the list that does not fit kind.
func arityField(kind agents.Kind, subs int) string {
	if kind.Inputs < 0 && subs < 1 || kind.Inputs >= 0 && subs != kind.Inputs {
		return ".subs"
	}
	return ".pubs"
}
