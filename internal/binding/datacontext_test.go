package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestReplace(t *testing.T) {
	t.Run("same shape is a value refresh", func(t *testing.T) {
		d := New(cty.ObjectVal(map[string]cty.Value{"count": cty.NumberIntVal(5)}))
		changed := d.Replace(cty.ObjectVal(map[string]cty.Value{"count": cty.NumberIntVal(7)}))
		assert.False(t, changed)
		assert.Equal(t, cty.NumberIntVal(7), d.Data().GetAttr("count"))
	})

	t.Run("different shape is a replacement", func(t *testing.T) {
		d := New(cty.ObjectVal(map[string]cty.Value{"count": cty.NumberIntVal(5)}))
		changed := d.Replace(cty.ObjectVal(map[string]cty.Value{"title": cty.StringVal("x")}))
		assert.True(t, changed)
	})

	t.Run("holders share the snapshot", func(t *testing.T) {
		d := New(cty.EmptyObjectVal)
		alias := d
		alias.Replace(cty.ObjectVal(map[string]cty.Value{"v": cty.True}))
		assert.Equal(t, cty.True, d.Data().GetAttr("v"))
	})
}

func TestEvalContext(t *testing.T) {
	parent := New(cty.ObjectVal(map[string]cty.Value{"title": cty.StringVal("root")}))
	child := parent.Child(cty.ObjectVal(map[string]cty.Value{"title": cty.StringVal("row")}), 3)

	t.Run("root variables", func(t *testing.T) {
		ec := parent.EvalContext()
		assert.Equal(t, cty.StringVal("root"), ec.Variables["data"].GetAttr("title"))
		assert.Equal(t, cty.NumberIntVal(-1), ec.Variables["index"])
		_, hasParent := ec.Variables["parent"]
		assert.False(t, hasParent)
	})

	t.Run("derived context exposes index and parent", func(t *testing.T) {
		ec := child.EvalContext()
		assert.Equal(t, cty.StringVal("row"), ec.Variables["data"].GetAttr("title"))
		assert.Equal(t, cty.NumberIntVal(3), ec.Variables["index"])
		require.Contains(t, ec.Variables, "parent")
		assert.Equal(t, cty.StringVal("root"), ec.Variables["parent"].GetAttr("data").GetAttr("title"))
	})

	t.Run("nil snapshot stays usable", func(t *testing.T) {
		d := New(cty.NilVal)
		assert.Equal(t, cty.EmptyObjectVal, d.EvalContext().Variables["data"])
	})
}
