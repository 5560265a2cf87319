package widgets

import (
	"fmt"

	"github.com/weaveui/weave/internal/handler"
	"github.com/weaveui/weave/internal/object"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Axes for structural relations. A relation constrains an object against a
// sibling along exactly one axis; a bias refines the relation on its axis.
const (
	axisVertical   = "vertical"
	axisHorizontal = "horizontal"
)

// relationHandler establishes a structural relation against a sibling named
// by its stable id. It must run after plain attributes and after the sibling
// is attached, hence group B.
type relationHandler struct {
	handler.Base
	axis string
	kind string
}

func newRelation(axis, kind string) *relationHandler {
	return &relationHandler{
		Base: handler.Base{In: handler.GroupB, Fallback: cty.NilVal},
		axis: axis,
		kind: kind,
	}
}

// Apply looks the sibling up through the enclosing container and records the
// relation. A missing container or sibling fails only this attribute.
func (h *relationHandler) Apply(obj *object.RuntimeObject, rv cty.Value) error {
	conv, err := convert.Convert(rv, cty.String)
	if err != nil {
		return &handler.TypeMismatchError{Prop: h.kind, Want: cty.String, Got: rv.Type()}
	}
	id := conv.AsString()
	container := obj.Parent()
	if container == nil {
		return fmt.Errorf("relation %q references sibling %q but the object has no container", h.kind, id)
	}
	sibling := container.FindByID(id)
	if sibling == nil || sibling == obj {
		return fmt.Errorf("relation %q: no sibling %q in container", h.kind, id)
	}
	obj.SetRelation(h.axis, h.kind, sibling)
	return nil
}

// biasHandler refines an existing relation along its axis. When no relation
// exists on the axis the bias is a defined no-op rather than an error.
type biasHandler struct {
	handler.Base
	axis string
	prop string
}

func newBias(axis, prop string) *biasHandler {
	return &biasHandler{
		Base: handler.Base{In: handler.GroupC, Fallback: cty.NilVal},
		axis: axis,
		prop: prop,
	}
}

// Apply clamps the bias into [0, 1] and records it on the axis relation.
func (h *biasHandler) Apply(obj *object.RuntimeObject, rv cty.Value) error {
	conv, err := convert.Convert(rv, cty.Number)
	if err != nil {
		return &handler.TypeMismatchError{Prop: h.prop, Want: cty.Number, Got: rv.Type()}
	}
	f, _ := conv.AsBigFloat().Float64()
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	// No relation on the axis: nothing to refine, by contract a no-op.
	obj.SetBias(h.axis, f)
	return nil
}
