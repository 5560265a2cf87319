// Package inflate is the orchestrator of the engine: it walks a declarative
// node tree, constructs a runtime object per node, applies each attribute
// through its handler in the order the three-group policy mandates, attaches
// the object to its parent, and recurses. It also drives the data-binding
// refresh loop that re-resolves bound attributes when a subtree's data
// changes.
package inflate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/weaveui/weave/internal/binding"
	"github.com/weaveui/weave/internal/ctxlog"
	"github.com/weaveui/weave/internal/handler"
	"github.com/weaveui/weave/internal/node"
	"github.com/weaveui/weave/internal/object"
	"github.com/weaveui/weave/internal/registry"
	"github.com/weaveui/weave/internal/resolve"
	"github.com/weaveui/weave/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Option configures an Inflater.
type Option func(*Inflater)

// WithStrict makes the first inflation-time failure abort the whole pass.
// The default is best-effort: offending nodes and attributes are logged and
// skipped, and the rest of the tree is still built.
func WithStrict() Option {
	return func(inf *Inflater) { inf.strict = true }
}

// Inflater materializes node trees against one registry and one provider
// environment. It is safe for concurrent use once the registry is frozen;
// each Inflate call runs on the caller's goroutine.
type Inflater struct {
	reg    *registry.Registry
	env    *resolve.Env
	strict bool

	// updateLocks serializes UpdateData per subtree root.
	updateLocks sync.Map
}

// New creates an Inflater over a frozen registry and a provider environment.
func New(reg *registry.Registry, env *resolve.Env, opts ...Option) *Inflater {
	inf := &Inflater{reg: reg, env: env}
	for _, opt := range opts {
		opt(inf)
	}
	return inf
}

// groupedAttr pairs one node attribute with its resolved handler.
type groupedAttr struct {
	attr node.Attr
	h    handler.AttributeHandler
}

// Inflate materializes n and its descendants. parent is the container the
// new object is attached to (nil for a root), d the data context bindings
// are evaluated against (nil when the subtree has no data). The node tree is
// never modified.
//
// In default mode a failed child does not unwind already-attached siblings;
// in strict mode the first failure aborts and the caller discards the
// partial tree.
func (inf *Inflater) Inflate(ctx context.Context, n *node.Node, parent *object.RuntimeObject, d *binding.DataContext) (*object.RuntimeObject, error) {
	logger := ctxlog.FromContext(ctx).With("node", n.String())

	// Validate the type before constructing anything.
	if !inf.reg.KnownType(n.TypeName) {
		return nil, &registry.UnknownTypeError{TypeName: n.TypeName}
	}

	obj, err := inf.reg.Create(ctx, n.TypeName)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", n.String(), err)
	}
	if n.StableID != "" {
		obj.StableID = n.StableID
	}
	// Back-reference before attachment, so relational attributes can locate
	// already-attached siblings through the container.
	obj.SetParentRef(parent)
	obj.SetDataContext(d)

	env := inf.env.WithData(d)

	// Partition into the fixed A, B, C sequence. Within a group the node's
	// declared attribute order is kept, which doubles as the last-wins
	// tie-break when two attributes target the same property.
	var groups [3][]groupedAttr
	for _, attr := range n.Attrs {
		h, err := inf.reg.ResolveHandler(n.TypeName, attr.Name)
		if err != nil {
			if inf.strict {
				return nil, fmt.Errorf("%s: %w", n.String(), err)
			}
			logger.Warn("Skipping attribute with no handler.", "attr", attr.Name, "error", err)
			continue
		}
		groups[h.Group()] = append(groups[h.Group()], groupedAttr{attr: attr, h: h})
	}

	for _, group := range groups {
		for _, ga := range group {
			if err := inf.applyAttr(ctx, obj, ga, env); err != nil {
				if inf.strict {
					return nil, fmt.Errorf("%s: attribute %q: %w", n.String(), ga.attr.Name, err)
				}
				logger.Warn("Skipping attribute.", "attr", ga.attr.Name, "error", err)
			}
		}
	}

	if parent != nil {
		parent.AttachChild(obj)
	}

	for _, child := range n.Children {
		if _, err := inf.Inflate(ctx, child, obj, d); err != nil {
			if inf.strict {
				return nil, err
			}
			logger.Warn("Skipping child subtree.", "child", child.String(), "error", err)
		}
	}

	logger.Debug("Node inflated.", "children", len(obj.Children()), "bound_attrs", len(obj.Bound()))
	return obj, nil
}

// applyAttr runs the compile/resolve/apply pipeline for one attribute. A
// resolution miss applies the handler's documented default; a nil default
// leaves the object untouched.
func (inf *Inflater) applyAttr(ctx context.Context, obj *object.RuntimeObject, ga groupedAttr, env *resolve.Env) error {
	v, err := ga.h.Compile(ga.attr.Name, ga.attr.Raw)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	if v.Kind == value.Binding {
		obj.RecordBound(ga.attr.Name, ga.h, v)
	}

	rv, err := ga.h.Resolve(ctx, v, env)
	if err != nil {
		var miss *resolve.Failure
		if !errors.As(err, &miss) {
			return fmt.Errorf("resolve: %w", err)
		}
		if inf.strict {
			return fmt.Errorf("resolve: %w", err)
		}
		def := ga.h.Default()
		if def == cty.NilVal {
			ctxlog.FromContext(ctx).Debug("Resolution found no value and handler has no default; leaving property untouched.",
				"attr", ga.attr.Name, "error", err)
			return nil
		}
		ctxlog.FromContext(ctx).Debug("Resolution found no value; applying handler default.", "attr", ga.attr.Name)
		rv = def
	}

	if err := ga.h.Apply(obj, rv); err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	return nil
}
