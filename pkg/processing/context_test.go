package processing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContextFile(t *testing.T, name, content string) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(f, []byte(content), 0600))
	return f
}

func TestLoadContextFile(t *testing.T) {
	f := writeContextFile(t, "context.yaml", "domain: example.com\nport: 8080\n")

	ctx, err := LoadContextFile(f)
	require.NoError(t, err)
	assert.Equal(t, "example.com", ctx["domain"])
	assert.Equal(t, 8080, ctx["port"])
}

func TestLoadContextFile_Empty(t *testing.T) {
	f := writeContextFile(t, "context.yaml", "")

	ctx, err := LoadContextFile(f)
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.Empty(t, ctx)
}

func TestLoadContextFile_NotFound(t *testing.T) {
	_, err := LoadContextFile("/nonexistent/context.yaml")
	assert.Error(t, err)
}

func TestLoadContextFile_InvalidYAML(t *testing.T) {
	f := writeContextFile(t, "context.yaml", "{{invalid")

	_, err := LoadContextFile(f)
	assert.Error(t, err)
}

func TestMergeContext(t *testing.T) {
	tests := []struct {
		name   string
		global map[string]any
		local  map[string]any
		want   map[string]any
	}{
		{
			name:   "local overrides global",
			global: map[string]any{"domain": "global.com", "port": 8080},
			local:  map[string]any{"domain": "local.com", "extra": "value"},
			want:   map[string]any{"domain": "local.com", "port": 8080, "extra": "value"},
		},
		{
			name:  "nil global",
			local: map[string]any{"key": "val"},
			want:  map[string]any{"key": "val"},
		},
		{
			name:   "nil local",
			global: map[string]any{"key": "val"},
			want:   map[string]any{"key": "val"},
		},
		{
			name: "both nil",
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeContext(tt.global, tt.local))
		})
	}
}

func TestLoadContextFile_TOML(t *testing.T) {
	content := "project_name = \"greeter\"\n\n[[contracts]]\nname = \"Greeter\"\nabi_file_path = \"abis/greeter-abi.json\"\n"
	f := writeContextFile(t, "context.toml", content)

	ctx, err := LoadContextFile(f)
	require.NoError(t, err)
	assert.Equal(t, "greeter", ctx["project_name"])

	contracts, ok := ctx["contracts"].([]any)
	require.True(t, ok, "contracts should be a list, got %#v", ctx["contracts"])
	require.Len(t, contracts, 1)
	contract, ok := contracts[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Greeter", contract["name"])
}

func TestLoadContextFile_InvalidTOML(t *testing.T) {
	f := writeContextFile(t, "context.toml", "name = ")

	_, err := LoadContextFile(f)
	assert.Error(t, err)
}

func TestLoadContextFile_JSON(t *testing.T) {
	f := writeContextFile(t, "context.json", `{"value": 5, "entities": []}`)

	ctx, err := LoadContextFile(f)
	require.NoError(t, err)
	assert.Equal(t, 5, ctx["value"])
	assert.IsType(t, []any{}, ctx["entities"])
}
