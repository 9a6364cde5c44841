package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/casualjim/agentgraph/errs"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"topology.json", FormatJSON},
		{"topology.yaml", FormatYAML},
		{"dir/topology.YML", FormatYAML},
		{"simple.conf", FormatText},
		{"simple.txt", FormatText},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatOf("topology.toml")
	assert.True(t, errors.Is(err, errs.ErrUnsupported))
}

func TestLoad(t *testing.T) {
	wantAgents := []Agent{
		{Type: "add", Name: "adder", Subs: []string{"A", "B"}, Pubs: []string{"C"}},
		{Type: "inc", Name: "inc", Subs: []string{"C"}, Pubs: []string{"D"}},
		{Type: "sink", Name: "out", Subs: []string{"D"}},
	}
	wantSeed := []Seed{{Topic: "A", Value: "7"}, {Topic: "B", Value: "3"}}

	for _, path := range []string{"testdata/calculator.yaml", "testdata/calculator.json"} {
		t.Run(path, func(t *testing.T) {
			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, wantAgents, cfg.Agents)
			assert.Equal(t, wantSeed, cfg.Seed)
		})
	}

	t.Run("text format", func(t *testing.T) {
		cfg, err := Load("testdata/calculator.conf")
		require.NoError(t, err)
		require.Len(t, cfg.Agents, 3)
		for i, a := range cfg.Agents {
			want := wantAgents[i]
			want.Name = ""
			assert.Equal(t, want, a)
		}
		assert.Empty(t, cfg.Seed)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("testdata/missing.yaml")
		assert.Error(t, err)
	})
}

func TestParse_TextMatchesYAML(t *testing.T) {
	text := `
# comment
configs.MinusAgent
X,Y
Z
inc
Z
W
`
	yml := `
agents:
  - type: minus
    subs: [X, Y]
    pubs: [Z]
  - type: inc
    subs: [Z]
    pubs: [W]
`
	fromText, err := Parse(strings.NewReader(text), FormatText)
	require.NoError(t, err)
	fromYAML, err := Parse(strings.NewReader(yml), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, fromYAML, fromText)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"unknown json field", `{"agents":[{"type":"add","color":"red"}]}`, FormatJSON},
		{"malformed json", `{"agents":`, FormatJSON},
		{"unknown yaml field", "agents:\n  - type: add\n    color: red\n", FormatYAML},
		{"yaml seed value is a list", "seed:\n  - topic: A\n    value: [1, 2]\n", FormatYAML},
		{"incomplete text group", "add\nA,B\nC\ninc\nC\n", FormatText},
		{"unknown format", "", Format("toml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestParse_EmptyYAML(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, cfg.Agents)
}

func TestTypeTag(t *testing.T) {
	assert.Equal(t, "plus", typeTag("configs.PlusAgent"))
	assert.Equal(t, "inc", typeTag("IncAgent"))
	assert.Equal(t, "sink", typeTag("sink"))
	assert.Equal(t, "agent", typeTag("Agent"))
}

func TestSchema(t *testing.T) {
	data, err := json.Marshal(Schema())
	require.NoError(t, err)

	doc := gjson.ParseBytes(data)
	assert.Equal(t, "agentgraph topology", doc.Get("title").String())
	assert.Equal(t, "array", doc.Get("properties.agents.type").String())
	assert.Equal(t, "string", doc.Get("properties.agents.items.properties.type.type").String())
	assert.Equal(t, int64(2), doc.Get("properties.seed.items.properties.value.oneOf.#").Int())
	assert.Contains(t, doc.Get("required").String(), "agents")
}

func TestConfig_Topics(t *testing.T) {
	cfg := &Config{
		Agents: []Agent{
			{Type: "add", Subs: []string{"A", "B"}, Pubs: []string{"C"}},
			{Type: "mul", Subs: []string{"C", "A"}, Pubs: []string{""}},
		},
		Seed: []Seed{{Topic: "Z"}, {Topic: "B"}},
	}
	assert.Equal(t, []string{"A", "B", "C", "Z"}, cfg.Topics())
}
