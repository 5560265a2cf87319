// Package handler defines the attribute handler contract: the
// compile/resolve/apply triple registered for one (type, attribute) pair,
// the three-group ordering classification, and reusable handler
// implementations for the common setter cases.
package handler

import (
	"context"
	"fmt"

	"github.com/weaveui/weave/internal/object"
	"github.com/weaveui/weave/internal/resolve"
	"github.com/weaveui/weave/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Group is the static ordering classification of an attribute. All of an
// object's GroupA attributes are applied before any GroupB attribute, and
// all GroupB before any GroupC.
type Group int

const (
	// GroupA attributes are plain: they reference no other node.
	GroupA Group = iota
	// GroupB attributes establish a structural relation to a sibling that
	// must already exist and be attached.
	GroupB
	// GroupC attributes refine a relation established by a GroupB
	// attribute, such as a bias along an already-constrained axis.
	GroupC
)

// String returns the group letter.
func (g Group) String() string {
	switch g {
	case GroupA:
		return "A"
	case GroupB:
		return "B"
	case GroupC:
		return "C"
	default:
		return fmt.Sprintf("group(%d)", int(g))
	}
}

// AttributeHandler is the per-(type, attribute) contract. Compile classifies
// the raw value once; Resolve produces a concrete value against the current
// environment; Apply performs the narrow attribute-specific mutation on the
// target object. Group is the handler's static ordering classification and
// Default the documented value applied when resolution finds no entry
// (cty.NilVal means "leave the object untouched").
type AttributeHandler interface {
	Compile(attrName string, raw cty.Value) (*value.Value, error)
	Resolve(ctx context.Context, v *value.Value, env *resolve.Env) (cty.Value, error)
	Apply(obj *object.RuntimeObject, rv cty.Value) error
	Group() Group
	Default() cty.Value
}

// TypeMismatchError reports that a resolved value could not be converted to
// the type a setter expects. It aborts only the offending attribute, never
// its siblings.
type TypeMismatchError struct {
	Prop string
	Want cty.Type
	Got  cty.Type
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("property %q expects %s, got %s", e.Prop, e.Want.FriendlyName(), e.Got.FriendlyName())
}

// Base supplies the compile, resolve, group and default legs shared by most
// handlers, so concrete handlers only implement Apply.
type Base struct {
	In       Group
	Fallback cty.Value
}

// Compile delegates to the shared value compiler.
func (b Base) Compile(attrName string, raw cty.Value) (*value.Value, error) {
	return value.Compile(attrName, raw)
}

// Resolve delegates to the shared resolution pipeline.
func (b Base) Resolve(ctx context.Context, v *value.Value, env *resolve.Env) (cty.Value, error) {
	return resolve.Resolve(ctx, v, env)
}

// Group returns the handler's ordering classification.
func (b Base) Group() Group { return b.In }

// Default returns the documented fallback applied on resolution failure.
func (b Base) Default() cty.Value { return b.Fallback }
