package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaveui/weave/internal/binding"
	"github.com/weaveui/weave/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// tableStub is a minimal provider backing all three collaborator interfaces.
type tableStub struct {
	resources map[string]cty.Value // keyed "kind/name"
	theme     map[string]cty.Value
	styles    map[string]map[string]cty.Value
}

func (s *tableStub) Resolve(kind, name string) (cty.Value, bool) {
	v, ok := s.resources[kind+"/"+name]
	return v, ok
}

func (s *tableStub) ResolveContextual(id string) (cty.Value, bool) {
	v, ok := s.theme[id]
	return v, ok
}

func (s *tableStub) ResolveStyle(name string) (map[string]cty.Value, bool) {
	v, ok := s.styles[name]
	return v, ok
}

func newStubEnv() *Env {
	stub := &tableStub{
		resources: map[string]cty.Value{
			"string/title":  cty.StringVal("Hello"),
			"color/primary": cty.StringVal("#FF0000"),
		},
		theme: map[string]cty.Value{
			"colorAccent": cty.StringVal("#00FF00"),
		},
		styles: map[string]map[string]cty.Value{
			"Big": {
				"textSize": cty.NumberIntVal(24),
				"color":    cty.StringVal("@color/primary"),
			},
			"Loop": {
				"color": cty.StringVal("@style/Loop"),
			},
		},
	}
	return NewEnv(stub, stub, stub)
}

func mustCompile(t *testing.T, attr, raw string) *value.Value {
	t.Helper()
	v, err := value.Compile(attr, cty.StringVal(raw))
	require.NoError(t, err)
	return v
}

func TestResolveLiteral(t *testing.T) {
	ctx := context.Background()
	v, err := value.Compile("width", cty.NumberIntVal(42))
	require.NoError(t, err)

	got, err := Resolve(ctx, v, newStubEnv())
	require.NoError(t, err)
	assert.Equal(t, cty.NumberIntVal(42), got)
}

func TestResolveResource(t *testing.T) {
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		got, err := Resolve(ctx, mustCompile(t, "text", "@string/title"), newStubEnv())
		require.NoError(t, err)
		assert.Equal(t, cty.StringVal("Hello"), got)
	})

	t.Run("miss is a Failure, not a crash", func(t *testing.T) {
		_, err := Resolve(ctx, mustCompile(t, "text", "@string/absent"), newStubEnv())
		var miss *Failure
		require.ErrorAs(t, err, &miss)
		assert.Equal(t, "resource", miss.Kind)
	})

	t.Run("hit is cached", func(t *testing.T) {
		env := newStubEnv()
		_, err := Resolve(ctx, mustCompile(t, "text", "@string/title"), env)
		require.NoError(t, err)

		// Remove the backing entry; the cached value must still resolve.
		env.Resources.(*tableStub).resources = nil
		got, err := Resolve(ctx, mustCompile(t, "text", "@string/title"), env)
		require.NoError(t, err)
		assert.Equal(t, cty.StringVal("Hello"), got)
	})
}

func TestResolveContextual(t *testing.T) {
	ctx := context.Background()

	got, err := Resolve(ctx, mustCompile(t, "color", "?colorAccent"), newStubEnv())
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("#00FF00"), got)

	_, err = Resolve(ctx, mustCompile(t, "color", "?absent"), newStubEnv())
	var miss *Failure
	assert.ErrorAs(t, err, &miss)
}

func TestResolveStyle(t *testing.T) {
	ctx := context.Background()

	t.Run("direct entry", func(t *testing.T) {
		got, err := Resolve(ctx, mustCompile(t, "textSize", "@style/Big"), newStubEnv())
		require.NoError(t, err)
		assert.Equal(t, cty.NumberIntVal(24), got)
	})

	t.Run("entry referencing a resource resolves recursively", func(t *testing.T) {
		got, err := Resolve(ctx, mustCompile(t, "color", "@style/Big"), newStubEnv())
		require.NoError(t, err)
		assert.Equal(t, cty.StringVal("#FF0000"), got)
	})

	t.Run("bundle without the attribute is a Failure", func(t *testing.T) {
		_, err := Resolve(ctx, mustCompile(t, "padding", "@style/Big"), newStubEnv())
		var miss *Failure
		require.ErrorAs(t, err, &miss)
		assert.Equal(t, "style", miss.Kind)
	})

	t.Run("cyclic style chain is cut off", func(t *testing.T) {
		_, err := Resolve(ctx, mustCompile(t, "color", "@style/Loop"), newStubEnv())
		require.Error(t, err)
		var miss *Failure
		assert.False(t, errors.As(err, &miss), "a cycle is malformed input, not a lookup miss")
	})
}

func TestResolveBinding(t *testing.T) {
	ctx := context.Background()

	data := cty.ObjectVal(map[string]cty.Value{
		"title": cty.StringVal("Weave"),
		"count": cty.NumberIntVal(5),
	})

	t.Run("field lookup", func(t *testing.T) {
		env := newStubEnv().WithData(binding.New(data))
		got, err := Resolve(ctx, mustCompile(t, "text", "@{data.title}"), env)
		require.NoError(t, err)
		assert.Equal(t, cty.StringVal("Weave"), got)
	})

	t.Run("expression arithmetic", func(t *testing.T) {
		env := newStubEnv().WithData(binding.New(data))
		got, err := Resolve(ctx, mustCompile(t, "width", "@{data.count * 2}"), env)
		require.NoError(t, err)
		assert.True(t, got.RawEquals(cty.NumberIntVal(10)), "got %#v", got)
	})

	t.Run("missing field is a Failure", func(t *testing.T) {
		env := newStubEnv().WithData(binding.New(data))
		_, err := Resolve(ctx, mustCompile(t, "text", "@{data.absent}"), env)
		var miss *Failure
		require.ErrorAs(t, err, &miss)
		assert.Equal(t, "binding", miss.Kind)
	})

	t.Run("no data context is a Failure", func(t *testing.T) {
		_, err := Resolve(ctx, mustCompile(t, "text", "@{data.title}"), newStubEnv())
		var miss *Failure
		assert.ErrorAs(t, err, &miss)
	})
}
