package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaveui/weave/internal/handler"
	"github.com/weaveui/weave/internal/object"
	"github.com/zclconf/go-cty/cty"
)

func stubHandler(prop string) handler.AttributeHandler {
	return handler.NewTyped(prop, cty.String, cty.NilVal)
}

func TestRegisterType(t *testing.T) {
	t.Run("root and child", func(t *testing.T) {
		r := New()
		require.NoError(t, r.RegisterType("Box", ""))
		require.NoError(t, r.RegisterType("RoundedBox", "Box"))
		assert.True(t, r.KnownType("Box"))
		assert.True(t, r.KnownType("RoundedBox"))
	})

	t.Run("duplicate type fails", func(t *testing.T) {
		r := New()
		require.NoError(t, r.RegisterType("Box", ""))
		err := r.RegisterType("Box", "")
		var dup *DuplicateTypeError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "Box", dup.TypeName)
	})

	t.Run("unknown parent fails", func(t *testing.T) {
		r := New()
		err := r.RegisterType("RoundedBox", "Box")
		var unknown *UnknownParentError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "Box", unknown.Parent)
	})

	t.Run("frozen registry rejects registration", func(t *testing.T) {
		r := New()
		r.Freeze()
		var frozen *FrozenError
		assert.ErrorAs(t, r.RegisterType("Box", ""), &frozen)
	})
}

func TestRegisterHandler(t *testing.T) {
	t.Run("duplicate on same type fails", func(t *testing.T) {
		r := New()
		require.NoError(t, r.RegisterType("Box", ""))
		require.NoError(t, r.RegisterHandler("Box", "color", stubHandler("color")))

		err := r.RegisterHandler("Box", "color", stubHandler("color"))
		var dup *DuplicateAttributeError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "color", dup.Attr)
	})

	t.Run("shadowing an ancestor is legal", func(t *testing.T) {
		r := New()
		require.NoError(t, r.RegisterType("Box", ""))
		require.NoError(t, r.RegisterType("RoundedBox", "Box"))
		require.NoError(t, r.RegisterHandler("Box", "color", stubHandler("color")))
		assert.NoError(t, r.RegisterHandler("RoundedBox", "color", stubHandler("color")))
	})

	t.Run("unknown type fails", func(t *testing.T) {
		r := New()
		var unknown *UnknownTypeError
		assert.ErrorAs(t, r.RegisterHandler("Ghost", "color", stubHandler("color")), &unknown)
	})
}

func TestResolveHandler(t *testing.T) {
	newChain := func(t *testing.T) (*Registry, handler.AttributeHandler, handler.AttributeHandler) {
		t.Helper()
		r := New()
		base := stubHandler("color")
		override := stubHandler("color")
		require.NoError(t, r.RegisterType("Box", ""))
		require.NoError(t, r.RegisterType("RoundedBox", "Box"))
		require.NoError(t, r.RegisterType("FancyBox", "RoundedBox"))
		require.NoError(t, r.RegisterHandler("Box", "color", base))
		require.NoError(t, r.RegisterHandler("FancyBox", "color", override))
		r.Freeze()
		return r, base, override
	}

	t.Run("own handler wins", func(t *testing.T) {
		r, _, override := newChain(t)
		h, err := r.ResolveHandler("FancyBox", "color")
		require.NoError(t, err)
		assert.Same(t, override, h)
	})

	t.Run("falls back through the chain", func(t *testing.T) {
		r, base, _ := newChain(t)
		h, err := r.ResolveHandler("RoundedBox", "color")
		require.NoError(t, err)
		assert.Same(t, base, h)
	})

	t.Run("miss is UnknownAttributeError and stays cached", func(t *testing.T) {
		r, _, _ := newChain(t)
		var unknown *UnknownAttributeError
		_, err := r.ResolveHandler("RoundedBox", "elevation")
		require.ErrorAs(t, err, &unknown)

		// Second lookup hits the cached sentinel and reports the same error.
		_, err = r.ResolveHandler("RoundedBox", "elevation")
		assert.ErrorAs(t, err, &unknown)
	})

	t.Run("unknown type", func(t *testing.T) {
		r, _, _ := newChain(t)
		var unknown *UnknownTypeError
		_, err := r.ResolveHandler("Ghost", "color")
		assert.ErrorAs(t, err, &unknown)
	})
}

func TestHandlersFor(t *testing.T) {
	r := New()
	base := stubHandler("color")
	override := stubHandler("color")
	text := stubHandler("text")
	require.NoError(t, r.RegisterType("Box", ""))
	require.NoError(t, r.RegisterType("Text", "Box"))
	require.NoError(t, r.RegisterHandler("Box", "color", base))
	require.NoError(t, r.RegisterHandler("Text", "color", override))
	require.NoError(t, r.RegisterHandler("Text", "text", text))
	r.Freeze()

	effective, err := r.HandlersFor("Text")
	require.NoError(t, err)
	require.Len(t, effective, 2)
	assert.Same(t, override, effective["color"], "most specific type must win")
	assert.Same(t, text, effective["text"])

	parentOnly, err := r.HandlersFor("Box")
	require.NoError(t, err)
	require.Len(t, parentOnly, 1)
	assert.Same(t, base, parentOnly["color"])
}

func TestConcurrentLookupsAfterFreeze(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterType("Box", ""))
	require.NoError(t, r.RegisterType("Text", "Box"))
	require.NoError(t, r.RegisterHandler("Box", "color", stubHandler("color")))
	r.Freeze()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				h, err := r.ResolveHandler("Text", "color")
				assert.NoError(t, err)
				assert.NotNil(t, h)
				_, err = r.ResolveHandler("Text", "absent")
				assert.Error(t, err)
			}
		}()
	}
	wg.Wait()
}

func TestFactory(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		r := New()
		require.NoError(t, r.RegisterType("Box", ""))
		require.NoError(t, r.RegisterFactory("Box", func(ctx context.Context) (*object.RuntimeObject, error) {
			return object.New("Box", ""), nil
		}))
		r.Freeze()

		obj, err := r.Create(ctx, "Box")
		require.NoError(t, err)
		assert.Equal(t, "Box", obj.TypeName)
	})

	t.Run("unknown type", func(t *testing.T) {
		r := New()
		r.Freeze()
		var unknown *UnknownTypeError
		_, err := r.Create(ctx, "Ghost")
		assert.ErrorAs(t, err, &unknown)
	})

	t.Run("factory requires registered type", func(t *testing.T) {
		r := New()
		var unknown *UnknownTypeError
		err := r.RegisterFactory("Ghost", func(ctx context.Context) (*object.RuntimeObject, error) {
			return object.New("Ghost", ""), nil
		})
		assert.ErrorAs(t, err, &unknown)
	})
}
