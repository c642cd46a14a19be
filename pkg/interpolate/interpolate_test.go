package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderString_Substitution(t *testing.T) {
	vars := map[string]any{
		"title": "Bug Fix",
		"id":    float64(101),
	}

	assert.Equal(t, "New: Bug Fix", RenderString("New: {{title}}", vars))
	assert.Equal(t, "issue 101", RenderString("issue {{id}}", vars))
	assert.Equal(t, "Bug Fix/Bug Fix", RenderString("{{title}}/{{title}}", vars))
}

func TestRenderString_WhitespaceInsidePlaceholder(t *testing.T) {
	vars := map[string]any{"name": "World"}

	assert.Equal(t, "Hello World", RenderString("Hello {{ name }}", vars))
	assert.Equal(t, "Hello World", RenderString("Hello {{  name}}", vars))
}

func TestRenderString_MissingVariableLeftIntact(t *testing.T) {
	vars := map[string]any{"name": "World"}

	assert.Equal(t, "Hello {{missing}}", RenderString("Hello {{missing}}", vars))
}

func TestRenderString_CaseSensitive(t *testing.T) {
	vars := map[string]any{"Name": "World"}

	assert.Equal(t, "Hello {{name}}", RenderString("Hello {{name}}", vars))
	assert.Equal(t, "Hello World", RenderString("Hello {{Name}}", vars))
}

func TestRenderString_NoPlaceholders(t *testing.T) {
	assert.Equal(t, "plain text", RenderString("plain text", map[string]any{"a": "b"}))
	assert.Equal(t, "", RenderString("", nil))
}

func TestRender_Map(t *testing.T) {
	params := map[string]any{
		"subject": "New: {{title}}",
		"count":   float64(3),
	}

	result := Render(params, map[string]any{"title": "Bug Fix"})

	assert.Equal(t, map[string]any{
		"subject": "New: Bug Fix",
		"count":   float64(3),
	}, result)
}

func TestRender_NestedStructures(t *testing.T) {
	params := map[string]any{
		"embed": map[string]any{
			"title": "{{title}}",
			"tags":  []any{"{{label}}", "fixed", float64(7)},
		},
	}

	vars := map[string]any{
		"title": "Fix crash",
		"label": "bug",
	}

	result := Render(params, vars)

	assert.Equal(t, map[string]any{
		"embed": map[string]any{
			"title": "Fix crash",
			"tags":  []any{"bug", "fixed", float64(7)},
		},
	}, result)
}

func TestRender_NonStringValuesPassThrough(t *testing.T) {
	assert.Equal(t, 42, Render(42, map[string]any{"a": "b"}))
	assert.Equal(t, true, Render(true, nil))
	assert.Nil(t, Render(nil, nil))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "42", Stringify(float64(42)))
	assert.Equal(t, "4.5", Stringify(4.5))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "7", Stringify(7))
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "text", Stringify("text"))
}
