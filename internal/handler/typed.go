package handler

import (
	"github.com/weaveui/weave/internal/object"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Typed is the workhorse handler: it converts the resolved value to a target
// cty type and stores it under a named object property. Conversion failure
// is a TypeMismatchError.
type Typed struct {
	Base
	Prop string
	Want cty.Type
}

// NewTyped builds a GroupA Typed handler. fallback is the documented default
// applied when resolution finds no value; cty.NilVal means the property is
// left untouched.
func NewTyped(prop string, want cty.Type, fallback cty.Value) *Typed {
	return &Typed{Base: Base{In: GroupA, Fallback: fallback}, Prop: prop, Want: want}
}

// Apply converts rv to the handler's target type and sets the property.
func (h *Typed) Apply(obj *object.RuntimeObject, rv cty.Value) error {
	conv, err := convert.Convert(rv, h.Want)
	if err != nil {
		return &TypeMismatchError{Prop: h.Prop, Want: h.Want, Got: rv.Type()}
	}
	obj.SetProp(h.Prop, conv)
	return nil
}

// Func adapts a plain apply function into an AttributeHandler. Used for
// handlers whose effect is not a simple property write, and by tests that
// need to observe apply order.
type Func struct {
	Base
	ApplyFn func(obj *object.RuntimeObject, rv cty.Value) error
}

// Apply invokes the wrapped function.
func (h *Func) Apply(obj *object.RuntimeObject, rv cty.Value) error {
	return h.ApplyFn(obj, rv)
}
