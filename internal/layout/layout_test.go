package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const sampleDoc = `
widget "Frame" "root" {
  color = "@color/background"

  widget "Text" "title" {
    text     = "@{data.title}"
    textSize = 14
  }

  widget "Box" {
    visible = false
  }
}
`

func TestParse(t *testing.T) {
	ctx := context.Background()
	root, err := Parse(ctx, []byte(sampleDoc), "sample.hcl")
	require.NoError(t, err)

	assert.Equal(t, "Frame", root.TypeName)
	assert.Equal(t, "root", root.StableID)
	raw, ok := root.Attr("color")
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("@color/background"), raw)

	require.Len(t, root.Children, 2)

	title := root.Children[0]
	assert.Equal(t, "Text", title.TypeName)
	assert.Equal(t, "title", title.StableID)
	require.Len(t, title.Attrs, 2)
	assert.Equal(t, "text", title.Attrs[0].Name, "attribute declaration order is preserved")
	assert.Equal(t, "textSize", title.Attrs[1].Name)

	anon := root.Children[1]
	assert.Equal(t, "Box", anon.TypeName)
	assert.Empty(t, anon.StableID)
	visible, ok := anon.Attr("visible")
	require.True(t, ok)
	assert.Equal(t, cty.False, visible)
}

func TestParseAttributeOrder(t *testing.T) {
	doc := `
widget "Box" {
  z = 1
  a = 2
  m = 3
}
`
	root, err := Parse(context.Background(), []byte(doc), "order.hcl")
	require.NoError(t, err)
	require.Len(t, root.Attrs, 3)
	assert.Equal(t, "z", root.Attrs[0].Name)
	assert.Equal(t, "a", root.Attrs[1].Name)
	assert.Equal(t, "m", root.Attrs[2].Name)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ``},
		{"two roots", `
widget "Box" {}
widget "Box" {}
`},
		{"unexpected block type", `
widget "Box" {
  layer "x" {}
}
`},
		{"top-level attribute", `color = "red"`},
		{"non-constant attribute", `
widget "Box" {
  width = some.variable
}
`},
		{"three labels", `widget "Box" "a" "b" {}`},
		{"syntax error", `widget "Box" {`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), []byte(tt.doc), "bad.hcl")
			assert.Error(t, err)
		})
	}
}
