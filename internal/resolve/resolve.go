// Package resolve turns compiled values into concrete cty values. Literals
// pass through; resource, contextual and style references are resolved
// through external provider collaborators; binding expressions are evaluated
// against the current data context. A style entry is itself a raw value and
// may reference a resource in turn, so style resolution recurses through the
// compile step.
package resolve

import (
	"context"
	"fmt"
	"sync"

	"github.com/weaveui/weave/internal/binding"
	"github.com/weaveui/weave/internal/ctxlog"
	"github.com/weaveui/weave/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// ResourceProvider resolves a named resource table entry.
type ResourceProvider interface {
	Resolve(kind, name string) (cty.Value, bool)
}

// ContextualProvider resolves a themed contextual attribute.
type ContextualProvider interface {
	ResolveContextual(id string) (cty.Value, bool)
}

// StyleProvider resolves a named style bundle to its raw entries, keyed by
// attribute id.
type StyleProvider interface {
	ResolveStyle(name string) (map[string]cty.Value, bool)
}

// Failure reports that a lookup found no value. It is non-fatal: the caller
// applies the handler's documented default instead.
type Failure struct {
	Kind string // "resource", "contextual", "style" or "binding"
	Ref  string
	Why  string
}

// Error implements the error interface.
func (e *Failure) Error() string {
	if e.Why != "" {
		return fmt.Sprintf("no value for %s %q: %s", e.Kind, e.Ref, e.Why)
	}
	return fmt.Sprintf("no value for %s %q", e.Kind, e.Ref)
}

// Env bundles the provider collaborators and the data context for one
// resolution pass. The resource cache is shared and append-mostly; a racing
// duplicate lookup is acceptable because providers are pure.
type Env struct {
	Resources  ResourceProvider
	Contextual ContextualProvider
	Styles     StyleProvider
	Data       *binding.DataContext

	resourceCache *sync.Map
}

// NewEnv creates an Env with its own resource cache. Any provider may be
// nil, in which case the corresponding references fail to resolve.
func NewEnv(res ResourceProvider, ctxp ContextualProvider, styles StyleProvider) *Env {
	return &Env{
		Resources:     res,
		Contextual:    ctxp,
		Styles:        styles,
		resourceCache: &sync.Map{},
	}
}

// WithData returns a shallow copy of the Env bound to the given data
// context. The copy shares the provider set and the resource cache.
func (e *Env) WithData(d *binding.DataContext) *Env {
	clone := *e
	clone.Data = d
	return &clone
}

// maxStyleDepth bounds recursion through style entries that reference other
// styles, so a cyclic style table cannot hang resolution.
const maxStyleDepth = 8

// Resolve produces the concrete value for v. A Failure return means the
// lookup had no entry; any other error is malformed input.
func Resolve(ctx context.Context, v *value.Value, env *Env) (cty.Value, error) {
	return resolveDepth(ctx, v, env, 0)
}

func resolveDepth(ctx context.Context, v *value.Value, env *Env, depth int) (cty.Value, error) {
	switch v.Kind {
	case value.Literal:
		return v.Lit, nil

	case value.Resource:
		return resolveResource(ctx, v, env)

	case value.Contextual:
		if env.Contextual == nil {
			return cty.NilVal, &Failure{Kind: "contextual", Ref: v.AttrID, Why: "no theme provider"}
		}
		res, ok := env.Contextual.ResolveContextual(v.AttrID)
		if !ok {
			return cty.NilVal, &Failure{Kind: "contextual", Ref: v.AttrID}
		}
		return res, nil

	case value.Style:
		return resolveStyle(ctx, v, env, depth)

	case value.Binding:
		return resolveBinding(ctx, v, env)

	default:
		return cty.NilVal, fmt.Errorf("unresolvable value kind %s", v.Kind)
	}
}

func resolveResource(ctx context.Context, v *value.Value, env *Env) (cty.Value, error) {
	key := v.ResKind + "\x00" + v.ResName
	if cached, ok := env.resourceCache.Load(key); ok {
		return cached.(cty.Value), nil
	}
	if env.Resources == nil {
		return cty.NilVal, &Failure{Kind: "resource", Ref: v.ResKind + "/" + v.ResName, Why: "no resource provider"}
	}
	res, ok := env.Resources.Resolve(v.ResKind, v.ResName)
	if !ok {
		return cty.NilVal, &Failure{Kind: "resource", Ref: v.ResKind + "/" + v.ResName}
	}
	env.resourceCache.Store(key, res)
	return res, nil
}

// resolveStyle selects the bundle entry for the value's attribute id and
// resolves it recursively, since style entries are raw values that may
// themselves reference resources or other styles.
func resolveStyle(ctx context.Context, v *value.Value, env *Env, depth int) (cty.Value, error) {
	ref := v.StyleName + "." + v.AttrID
	if depth >= maxStyleDepth {
		return cty.NilVal, fmt.Errorf("style %q: reference chain deeper than %d, assuming a cycle", ref, maxStyleDepth)
	}
	if env.Styles == nil {
		return cty.NilVal, &Failure{Kind: "style", Ref: ref, Why: "no style provider"}
	}
	entries, ok := env.Styles.ResolveStyle(v.StyleName)
	if !ok {
		return cty.NilVal, &Failure{Kind: "style", Ref: ref}
	}
	raw, ok := entries[v.AttrID]
	if !ok {
		return cty.NilVal, &Failure{Kind: "style", Ref: ref, Why: "bundle has no entry for attribute"}
	}
	nested, err := value.Compile(v.AttrID, raw)
	if err != nil {
		return cty.NilVal, fmt.Errorf("style %q: %w", ref, err)
	}
	ctxlog.FromContext(ctx).Debug("Resolving nested style entry.", "style", v.StyleName, "attr", v.AttrID, "kind", nested.Kind.String())
	return resolveDepth(ctx, nested, env, depth+1)
}

func resolveBinding(ctx context.Context, v *value.Value, env *Env) (cty.Value, error) {
	if env.Data == nil {
		return cty.NilVal, &Failure{Kind: "binding", Ref: v.Src, Why: "no data context"}
	}
	res, diags := v.Expr.Value(env.Data.EvalContext())
	if diags.HasErrors() {
		// A field missing from the snapshot is the binding analogue of a
		// resource with no entry.
		return cty.NilVal, &Failure{Kind: "binding", Ref: v.Src, Why: diags.Error()}
	}
	if res.IsNull() || !res.IsKnown() {
		return cty.NilVal, &Failure{Kind: "binding", Ref: v.Src, Why: "expression yielded no value"}
	}
	return res, nil
}
