// Package registry is the type-indexed capability store of the engine: for
// every registered type name it holds the parent-type link, the attribute
// handlers declared directly on that type, and the factory that constructs
// instances. Lookup of an attribute handler walks the parent chain, with the
// most specific type winning.
//
// The registry has a two-phase lifecycle: a single-threaded build phase in
// which types, handlers and factories are registered, and, after Freeze, a
// read-only query phase that is safe for concurrent use by any number of
// inflation passes.
package registry

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/weaveui/weave/internal/ctxlog"
	"github.com/weaveui/weave/internal/handler"
	"github.com/weaveui/weave/internal/object"
)

// Factory constructs a fresh runtime object for one type name.
type Factory func(ctx context.Context) (*object.RuntimeObject, error)

// Module is a capability bundle: a set of type, handler and factory
// registrations installed together.
type Module interface {
	Register(r *Registry) error
}

// typeEntry is the per-type record: its parent link and the handlers
// declared directly on it.
type typeEntry struct {
	name     string
	parent   string
	handlers map[string]handler.AttributeHandler
}

// Registry holds all registered types, handlers and factories for one engine
// instance. It is constructed explicitly and passed by reference; there is
// no process-global instance.
type Registry struct {
	types     map[string]*typeEntry
	factories map[string]Factory
	frozen    atomic.Bool

	// resolveCache memoizes parent-chain walks per (type, attribute) once
	// the registry is frozen. The chain is static at that point, so entries
	// never need invalidation.
	resolveCache sync.Map
}

// New creates an empty, unfrozen registry.
func New() *Registry {
	return &Registry{
		types:     make(map[string]*typeEntry),
		factories: make(map[string]Factory),
	}
}

// Install runs each module's registrations against the registry. The first
// failure stops installation: a partially misconfigured registry must never
// be used.
func (r *Registry) Install(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(r); err != nil {
			return err
		}
	}
	ctxlog.FromContext(ctx).Debug("Modules installed.", "count", len(modules))
	return nil
}

// Freeze ends the build phase. After Freeze every Register call fails and
// reads are safe without external locking.
func (r *Registry) Freeze() {
	r.frozen.Store(true)
}

// Frozen reports whether the build phase has ended.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}

// RegisterType declares a type name with an optional parent. The parent, if
// non-empty, must already be registered so parent chains are acyclic by
// construction.
func (r *Registry) RegisterType(name, parent string) error {
	if r.frozen.Load() {
		return &FrozenError{Op: "RegisterType"}
	}
	if _, exists := r.types[name]; exists {
		return &DuplicateTypeError{TypeName: name}
	}
	if parent != "" {
		if _, ok := r.types[parent]; !ok {
			return &UnknownParentError{TypeName: name, Parent: parent}
		}
	}
	r.types[name] = &typeEntry{
		name:     name,
		parent:   parent,
		handlers: make(map[string]handler.AttributeHandler),
	}
	return nil
}

// KnownType reports whether a type name has been registered.
func (r *Registry) KnownType(name string) bool {
	_, ok := r.types[name]
	return ok
}

// MustRegisterType is RegisterType for static initialization paths where a
// failure is a programming error.
func (r *Registry) MustRegisterType(name, parent string) {
	if err := r.RegisterType(name, parent); err != nil {
		panic(err)
	}
}
