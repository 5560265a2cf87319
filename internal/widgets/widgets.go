// Package widgets registers the built-in widget vocabulary: the Box base
// type with its plain, relational and bias attributes, and the concrete
// types deriving from it. It is installed into a registry as a module;
// embedders can install additional modules alongside it for custom types.
package widgets

import (
	"context"

	"github.com/weaveui/weave/internal/handler"
	"github.com/weaveui/weave/internal/object"
	"github.com/weaveui/weave/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Type names registered by this module.
const (
	TypeBox        = "Box"
	TypeFrame      = "Frame"
	TypeText       = "Text"
	TypeImage      = "Image"
	TypeRoundedBox = "RoundedBox"
)

// Module installs the built-in widget types.
type Module struct{}

// builder accumulates the first registration error so the registration list
// below stays flat.
type builder struct {
	r   *registry.Registry
	err error
}

func (b *builder) typ(name, parent string) {
	if b.err == nil {
		b.err = b.r.RegisterType(name, parent)
	}
}

func (b *builder) attr(typeName, attr string, h handler.AttributeHandler) {
	if b.err == nil {
		b.err = b.r.RegisterHandler(typeName, attr, h)
	}
}

func (b *builder) factory(typeName string) {
	if b.err == nil {
		b.err = b.r.RegisterFactory(typeName, func(ctx context.Context) (*object.RuntimeObject, error) {
			return object.New(typeName, ""), nil
		})
	}
}

// Register implements registry.Module.
func (Module) Register(r *registry.Registry) error {
	b := &builder{r: r}

	// Box is the root of the type chain. Defaults listed per handler are
	// applied when a reference resolves to nothing.
	b.typ(TypeBox, "")
	b.attr(TypeBox, "color", handler.NewTyped("color", cty.String, cty.StringVal("#000000")))
	b.attr(TypeBox, "width", handler.NewTyped("width", cty.Number, cty.NilVal))
	b.attr(TypeBox, "height", handler.NewTyped("height", cty.Number, cty.NilVal))
	b.attr(TypeBox, "padding", handler.NewTyped("padding", cty.Number, cty.NumberIntVal(0)))
	b.attr(TypeBox, "visible", handler.NewTyped("visible", cty.Bool, cty.True))
	b.attr(TypeBox, "below", newRelation(axisVertical, "below"))
	b.attr(TypeBox, "above", newRelation(axisVertical, "above"))
	b.attr(TypeBox, "rightOf", newRelation(axisHorizontal, "rightOf"))
	b.attr(TypeBox, "leftOf", newRelation(axisHorizontal, "leftOf"))
	b.attr(TypeBox, "verticalBias", newBias(axisVertical, "verticalBias"))
	b.attr(TypeBox, "horizontalBias", newBias(axisHorizontal, "horizontalBias"))
	b.factory(TypeBox)

	// Frame is a plain container.
	b.typ(TypeFrame, TypeBox)
	b.attr(TypeFrame, "orientation", handler.NewTyped("orientation", cty.String, cty.StringVal("column")))
	b.factory(TypeFrame)

	b.typ(TypeText, TypeBox)
	b.attr(TypeText, "text", handler.NewTyped("text", cty.String, cty.StringVal("")))
	b.attr(TypeText, "textSize", handler.NewTyped("textSize", cty.Number, cty.NumberIntVal(14)))
	b.factory(TypeText)

	b.typ(TypeImage, TypeBox)
	b.attr(TypeImage, "src", handler.NewTyped("src", cty.String, cty.NilVal))
	b.factory(TypeImage)

	b.typ(TypeRoundedBox, TypeBox)
	b.attr(TypeRoundedBox, "cornerRadius", handler.NewTyped("cornerRadius", cty.Number, cty.NumberIntVal(0)))
	b.factory(TypeRoundedBox)

	return b.err
}
