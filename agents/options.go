package agents

import (
	"github.com/fogfish/opts"
)

// settings collects the wiring shared by every agent in this package.
type settings struct {
	name   string
	inputs []string
	output string
}

var (
	// Name sets the agent name. Agents created without one get a generated,
	// unique name.
	Name = opts.ForName[settings, string]("name")

	// Output sets the topic the agent publishes to.
	Output = opts.ForName[settings, string]("output")
)

// Inputs appends topics the agent subscribes to, in operand order.
func Inputs(topics ...string) opts.Option[settings] {
	return opts.Type[settings](func(s *settings) error {
		s.inputs = append(s.inputs, topics...)
		return nil
	})
}

func applySettings(options []opts.Option[settings]) (settings, error) {
	var s settings
	if err := opts.Apply(&s, options); err != nil {
		return settings{}, err
	}
	return s, nil
}
