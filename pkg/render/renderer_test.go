package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	out, err := NewRenderer().Render("t", "host: {{domain}}", map[string]any{"domain": "example.com"})
	require.NoError(t, err)
	assert.Equal(t, "host: example.com", string(out))
}

func TestRenderer_Helpers(t *testing.T) {
	out, err := NewRenderer().Render("t", `v: {{upper "hello"}} {{title name}} {{snakecase "MyIndexer"}}`, map[string]any{"name": "greeter"})
	require.NoError(t, err)
	assert.Equal(t, "v: HELLO Greeter my_indexer", string(out))
}

func TestRenderer_NoEscaping(t *testing.T) {
	out, err := NewRenderer().Render("t", "{{html}} {{upper html}}", map[string]any{"html": `<a href="x">&</a>`})
	require.NoError(t, err)
	assert.Equal(t, `<a href="x">&</a> <A HREF="X">&</A>`, string(out))
}

func TestRenderer_StructContext(t *testing.T) {
	type project struct {
		Name     string
		Language string
		IsReady  bool
		internal string
	}

	out, err := NewRenderer().Render("t", "{{Name}}/{{Language}}{{#if IsReady}} ready{{/if}}", project{Name: "x", Language: "rescript", internal: "y"})
	require.NoError(t, err)
	assert.Equal(t, "x/rescript", string(out))
}

func TestRenderer_Blocks(t *testing.T) {
	data := map[string]any{
		"name": "greeter",
		"contracts": []any{
			map[string]any{"name": "Greeter", "events": []any{"NewGreeting", "ClearGreeting"}},
			map[string]any{"name": "Token", "events": []any{}},
		},
		"owner": map[string]any{"address": "0x1"},
	}
	text := "{{#each contracts}}{{name}}:{{#each events}}{{this}},{{else}}none{{/each}}/{{../name}};{{/each}}" +
		"{{#with owner}}{{address}}{{/with}}" +
		"{{#each contracts as |c i|}}{{i}}={{c.name}} {{/each}}"

	out, err := NewRenderer().Render("t", text, data)
	require.NoError(t, err)
	assert.Equal(t, "Greeter:NewGreeting,ClearGreeting,/greeter;Token:none/greeter;0x10=Greeter 1=Token ", string(out))
}

func TestRenderer_StrictMode(t *testing.T) {
	type project struct{ Name string }

	tests := []struct {
		name     string
		text     string
		data     any
		variable string
	}{
		{"missing map key", "{{value}}", map[string]any{}, "value"},
		{"nil data", "{{value}}", nil, "value"},
		{"missing struct field", "{{Language}}", project{Name: "x"}, "Language"},
		{"missing nested key", "{{owner.address}}", map[string]any{"owner": map[string]any{}}, "owner.address"},
		{"helper argument", "{{title missing}}", map[string]any{}, "missing"},
		{"inside each", "{{#each items}}{{id}}{{/each}}", map[string]any{"items": []any{map[string]any{"name": "a"}}}, "id"},
		{"parent beyond root", "{{../value}}", map[string]any{"value": 1}, "../value"},
		{"taken if branch", "{{#if on}}{{value}}{{/if}}", map[string]any{"on": true}, "value"},
		{"taken else branch", "{{#if on}}x{{else}}{{value}}{{/if}}", map[string]any{"on": false}, "value"},
		{"each argument", "{{#each items}}x{{/each}}", map[string]any{}, "items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRenderer().Render("Handler.res.hbs", tt.text, tt.data)

			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, tt.variable, renderErr.Variable)
			assert.Equal(t, "Handler.res.hbs", renderErr.Template)
			assert.ErrorIs(t, err, ErrMissingVariable)
		})
	}
}

func TestRenderer_StrictModeSkipsUnrenderedPaths(t *testing.T) {
	tests := []struct {
		name string
		text string
		data map[string]any
		want string
	}{
		{"false if branch", "{{#if on}}{{value}}{{/if}}done", map[string]any{"on": false}, "done"},
		{"absent condition", "{{#if on}}{{value}}{{else}}off{{/if}}", map[string]any{}, "off"},
		{"unless", "{{#unless on}}{{value}}{{/unless}}done", map[string]any{"on": true}, "done"},
		{"empty each", "{{#each items}}{{id}}{{/each}}done", map[string]any{"items": []any{}}, "done"},
		{"data variable", "{{#each items}}{{@index}}{{/each}}", map[string]any{"items": []any{"a", "b"}}, "01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewRenderer().Render("t", tt.text, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestRenderer_UnknownHelper(t *testing.T) {
	_, err := NewRenderer().Render("t", `{{shout "boom"}}`, nil)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Empty(t, renderErr.Variable, "an unknown helper is not a missing variable")
	assert.ErrorContains(t, err, `unknown helper "shout"`)
}

func TestRenderer_SyntaxError(t *testing.T) {
	_, err := NewRenderer().Render("t", "{{#if on}}never closed", map[string]any{"on": true})

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Empty(t, renderErr.Variable)
}
