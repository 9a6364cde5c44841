// Package config loads topology documents describing which agents to create
// and how they are wired to topics.
//
// A document lists agents by catalog type tag, each with the topics it
// subscribes to and publishes on, plus optional seed messages to publish once
// everything is wired:
//
//	agents:
//	  - type: add
//	    name: adder
//	    subs: [A, B]
//	    pubs: [C]
//	seed:
//	  - topic: A
//	    value: "7"
//
// Documents are read from JSON, YAML, or the older line based text format in
// which every agent takes three lines: its type, its comma separated inputs
// and its comma separated outputs.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/casualjim/agentgraph/errs"
	"github.com/casualjim/agentgraph/messages"
	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a topology document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// FormatOf picks the format from the file extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".conf", ".txt":
		return FormatText, nil
	default:
		return "", errs.Unsupported("no topology format for %q", path)
	}
}

// Config is a topology document.
type Config struct {
	Agents []Agent `json:"agents" yaml:"agents" jsonschema:"required,minItems=1,description=Agents to create in order"`
	Seed   []Seed  `json:"seed,omitempty" yaml:"seed,omitempty" jsonschema:"description=Messages published once every agent is wired"`
}

// Agent declares one agent and its wiring.
type Agent struct {
	Type string   `json:"type" yaml:"type" jsonschema:"required,description=Catalog type tag such as add or inc"`
	Name string   `json:"name,omitempty" yaml:"name,omitempty" jsonschema:"description=Unique agent name; generated when empty"`
	Subs []string `json:"subs,omitempty" yaml:"subs,omitempty" jsonschema:"description=Topics the agent subscribes to"`
	Pubs []string `json:"pubs,omitempty" yaml:"pubs,omitempty" jsonschema:"description=Topics the agent publishes on"`
}

// Seed is a message published to a topic after the topology is built.
type Seed struct {
	Topic string `json:"topic" yaml:"topic" jsonschema:"required"`
	Value Value  `json:"value" yaml:"value" jsonschema:"required"`
}

// Value is the payload of a seed. JSON documents may give it as a string,
// a number or a message object with a text field.
type Value string

func (v *Value) UnmarshalJSON(data []byte) error {
	var msg messages.Message
	if err := msg.UnmarshalJSON(data); err != nil {
		return err
	}
	*v = Value(msg.Text())
	return nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errs.Invalid("line %d: seed value must be a scalar", node.Line)
	}
	*v = Value(node.Value)
	return nil
}

func (Value) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "number"},
		},
		Description: "Message text; numbers are used as their literal text",
	}
}

// Message returns the seed value as a message.
func (v Value) Message() messages.Message {
	return messages.New(string(v))
}

// Load reads and decodes the document at path, choosing the format from its
// extension. The result is not validated.
func Load(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology file: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Parse decodes a document in the given format. Unknown fields are rejected.
func Parse(r io.Reader, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatText:
		agents, err := parseText(r)
		if err != nil {
			return nil, err
		}
		cfg.Agents = agents
	default:
		return nil, errs.Unsupported("topology format %q", format)
	}
	return &cfg, nil
}

var reflector = jsonschema.Reflector{
	AllowAdditionalProperties: false,
	DoNotReference:            true,
}

// Schema returns the JSON schema of a topology document.
func Schema() *jsonschema.Schema {
	schema := reflector.Reflect(&Config{})
	schema.Title = "agentgraph topology"
	return schema
}

// Topics returns every topic named by the document in order of first
// appearance: agent inputs and outputs, then seed topics.
func (c *Config) Topics() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(names ...string) {
		for _, name := range names {
			if _, ok := seen[name]; ok || name == "" {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	for _, a := range c.Agents {
		add(a.Subs...)
		add(a.Pubs...)
	}
	for _, s := range c.Seed {
		add(s.Topic)
	}
	return out
}
