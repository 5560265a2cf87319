package registry

import (
	"context"

	"github.com/weaveui/weave/internal/ctxlog"
	"github.com/weaveui/weave/internal/object"
)

// RegisterFactory declares the constructor for a registered type name.
func (r *Registry) RegisterFactory(typeName string, fn Factory) error {
	if r.frozen.Load() {
		return &FrozenError{Op: "RegisterFactory"}
	}
	if _, ok := r.types[typeName]; !ok {
		return &UnknownTypeError{TypeName: typeName}
	}
	if _, exists := r.factories[typeName]; exists {
		return &DuplicateTypeError{TypeName: typeName}
	}
	r.factories[typeName] = fn
	return nil
}

// MustRegisterFactory is RegisterFactory for static initialization paths.
func (r *Registry) MustRegisterFactory(typeName string, fn Factory) {
	if err := r.RegisterFactory(typeName, fn); err != nil {
		panic(err)
	}
}

// Create constructs a fresh runtime object for typeName. Whether an unknown
// type is fatal for the whole tree or only for the affected node is the
// caller's policy, not decided here.
func (r *Registry) Create(ctx context.Context, typeName string) (*object.RuntimeObject, error) {
	fn, ok := r.factories[typeName]
	if !ok {
		return nil, &UnknownTypeError{TypeName: typeName}
	}
	obj, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Runtime object created.", "type", typeName)
	return obj, nil
}
