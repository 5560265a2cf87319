// Package object defines the live runtime side of the widget tree: mutable
// objects constructed from nodes, the parent/child ownership edges between
// them, and the per-object records that drive data-binding re-evaluation.
package object

import (
	"context"

	"github.com/weaveui/weave/internal/binding"
	"github.com/weaveui/weave/internal/resolve"
	"github.com/weaveui/weave/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// BoundHandler is the subset of an attribute handler needed to refresh a
// bound attribute on data change. Any registered attribute handler satisfies
// it.
type BoundHandler interface {
	Resolve(ctx context.Context, v *value.Value, env *resolve.Env) (cty.Value, error)
	Apply(obj *RuntimeObject, rv cty.Value) error
	Default() cty.Value
}

// BoundAttribute links one attribute of a runtime object to its compiled
// binding value, so the attribute can be re-resolved and re-applied whenever
// the data context changes. Only attributes compiled as bindings are
// recorded.
type BoundAttribute struct {
	Name    string
	Handler BoundHandler
	Value   *value.Value
}

// Relation is a structural constraint established against a sibling object,
// such as "positioned below X". Bias is a secondary refinement along the
// relation's axis; it is meaningful only once the relation exists.
type Relation struct {
	Kind    string
	Target  *RuntimeObject
	Bias    float64
	HasBias bool
}

// RuntimeObject is a live widget instance. Exactly one RuntimeObject
// corresponds to one node for the lifetime of an inflation pass. It is owned
// by its parent once attached; the parent pointer itself is a non-owning
// back-reference used only for sibling lookups. A RuntimeObject is not safe
// for unsynchronized concurrent mutation.
type RuntimeObject struct {
	TypeName string
	StableID string

	props     map[string]cty.Value
	relations map[string]*Relation
	parent    *RuntimeObject
	children  []*RuntimeObject
	bound     []BoundAttribute
	dataCtx   *binding.DataContext
}

// New constructs an empty runtime object of the given type.
func New(typeName, stableID string) *RuntimeObject {
	return &RuntimeObject{
		TypeName:  typeName,
		StableID:  stableID,
		props:     make(map[string]cty.Value),
		relations: make(map[string]*Relation),
	}
}

// SetProp sets a named property. Later writes win.
func (o *RuntimeObject) SetProp(name string, v cty.Value) {
	o.props[name] = v
}

// Prop returns a property value and whether it has been set.
func (o *RuntimeObject) Prop(name string) (cty.Value, bool) {
	v, ok := o.props[name]
	return v, ok
}

// PropCount returns the number of set properties.
func (o *RuntimeObject) PropCount() int { return len(o.props) }

// PropNames returns the names of all set properties, in unspecified order.
func (o *RuntimeObject) PropNames() []string {
	names := make([]string, 0, len(o.props))
	for name := range o.props {
		names = append(names, name)
	}
	return names
}

// SetParentRef records the enclosing container before attachment, so
// relational attributes can locate siblings while the object's own
// attributes are still being applied. It does not transfer ownership.
func (o *RuntimeObject) SetParentRef(parent *RuntimeObject) {
	o.parent = parent
}

// Parent returns the enclosing container, or nil at the root.
func (o *RuntimeObject) Parent() *RuntimeObject { return o.parent }

// AttachChild appends child to this container and records the
// back-reference. Ownership flows strictly parent to child.
func (o *RuntimeObject) AttachChild(child *RuntimeObject) {
	child.parent = o
	o.children = append(o.children, child)
}

// Children returns the attached children in attachment order.
func (o *RuntimeObject) Children() []*RuntimeObject { return o.children }

// FindByID searches this object's attached subtree for a stable id. The
// receiver itself is considered.
func (o *RuntimeObject) FindByID(id string) *RuntimeObject {
	if id == "" {
		return nil
	}
	if o.StableID == id {
		return o
	}
	for _, c := range o.children {
		if found := c.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits the object and every attached descendant, parents first.
func (o *RuntimeObject) Walk(fn func(*RuntimeObject)) {
	fn(o)
	for _, c := range o.children {
		c.Walk(fn)
	}
}

// RecordBound remembers that an attribute was compiled as a binding, so a
// later data update can re-resolve exactly this attribute.
func (o *RuntimeObject) RecordBound(name string, h BoundHandler, v *value.Value) {
	o.bound = append(o.bound, BoundAttribute{Name: name, Handler: h, Value: v})
}

// Bound returns the recorded binding attributes.
func (o *RuntimeObject) Bound() []BoundAttribute { return o.bound }

// SetDataContext records the data context this object's bindings are
// evaluated against. Contexts are shared by reference across a subtree.
func (o *RuntimeObject) SetDataContext(d *binding.DataContext) {
	o.dataCtx = d
}

// DataContext returns the recorded data context, or nil if the object was
// inflated without one.
func (o *RuntimeObject) DataContext() *binding.DataContext { return o.dataCtx }

// SetRelation establishes a structural relation along an axis, replacing any
// earlier relation on the same axis. An already-recorded bias survives the
// replacement only if set afterwards; relations are expected to be applied
// before biases.
func (o *RuntimeObject) SetRelation(axis, kind string, target *RuntimeObject) {
	o.relations[axis] = &Relation{Kind: kind, Target: target, Bias: 0.5}
}

// Relation returns the relation on the given axis, or nil.
func (o *RuntimeObject) Relation(axis string) *Relation {
	return o.relations[axis]
}

// SetBias refines the relation on the given axis. It reports false, without
// modifying anything, when no relation exists on that axis.
func (o *RuntimeObject) SetBias(axis string, bias float64) bool {
	rel, ok := o.relations[axis]
	if !ok {
		return false
	}
	rel.Bias = bias
	rel.HasBias = true
	return true
}
