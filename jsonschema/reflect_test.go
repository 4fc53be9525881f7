package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	APIToken   string   `json:"api_token" validate:"required" description:"credential"`
	StartDate  string   `json:"start_date" validate:"required"`
	Metrics    []string `json:"metrics"`
	MaxThreads int      `json:"max_threads"`
	Debug      bool     `json:"debug"`

	internal string // unexported fields must not leak into the spec
}

func TestReflectConfigSchema(t *testing.T) {
	schema, err := Reflect(sampleConfig{})
	require.NoError(t, err)

	assert.Equal(t, "object", schema["type"])

	properties, ok := schema["properties"].(map[string]any)
	require.True(t, ok)

	token, ok := properties["api_token"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", token["type"])
	assert.Equal(t, "credential", token["description"])

	metrics, ok := properties["metrics"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", metrics["type"])

	threads, ok := properties["max_threads"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", threads["type"])

	debug, ok := properties["debug"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boolean", debug["type"])

	assert.NotContains(t, properties, "internal")

	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"api_token", "start_date"}, required)
}
