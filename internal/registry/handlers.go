package registry

import (
	"github.com/weaveui/weave/internal/handler"
)

// notFound is the cached sentinel for (type, attribute) pairs with no
// handler anywhere in the chain, so repeated misses stay O(1) too.
type notFound struct{}

// RegisterHandler declares a handler for attr directly on typeName. The type
// must already be registered. Registering the same attribute twice on the
// same type is an error; re-registering it on a descendant type shadows the
// ancestor's handler instead.
func (r *Registry) RegisterHandler(typeName, attr string, h handler.AttributeHandler) error {
	if r.frozen.Load() {
		return &FrozenError{Op: "RegisterHandler"}
	}
	entry, ok := r.types[typeName]
	if !ok {
		return &UnknownTypeError{TypeName: typeName}
	}
	if _, exists := entry.handlers[attr]; exists {
		return &DuplicateAttributeError{TypeName: typeName, Attr: attr}
	}
	entry.handlers[attr] = h
	return nil
}

// MustRegisterHandler is RegisterHandler for static initialization paths.
func (r *Registry) MustRegisterHandler(typeName, attr string, h handler.AttributeHandler) {
	if err := r.RegisterHandler(typeName, attr, h); err != nil {
		panic(err)
	}
}

// ResolveHandler finds the effective handler for (typeName, attr): the
// type's own handler if declared, otherwise the nearest ancestor's. The walk
// result is cached per pair, so amortized lookup cost is one map access.
func (r *Registry) ResolveHandler(typeName, attr string) (handler.AttributeHandler, error) {
	key := typeName + "\x00" + attr
	if cached, ok := r.resolveCache.Load(key); ok {
		if _, miss := cached.(notFound); miss {
			return nil, &UnknownAttributeError{TypeName: typeName, Attr: attr}
		}
		return cached.(handler.AttributeHandler), nil
	}

	entry, ok := r.types[typeName]
	if !ok {
		return nil, &UnknownTypeError{TypeName: typeName}
	}
	for entry != nil {
		if h, ok := entry.handlers[attr]; ok {
			r.resolveCache.Store(key, h)
			return h, nil
		}
		if entry.parent == "" {
			break
		}
		entry = r.types[entry.parent]
	}
	r.resolveCache.Store(key, notFound{})
	return nil, &UnknownAttributeError{TypeName: typeName, Attr: attr}
}

// HandlersFor returns the type's effective handler set: its own handlers
// unioned with every ancestor's, most specific type winning on collisions.
func (r *Registry) HandlersFor(typeName string) (map[string]handler.AttributeHandler, error) {
	entry, ok := r.types[typeName]
	if !ok {
		return nil, &UnknownTypeError{TypeName: typeName}
	}
	// Walk root-first so nearer types overwrite.
	var chain []*typeEntry
	for e := entry; e != nil; {
		chain = append(chain, e)
		if e.parent == "" {
			break
		}
		e = r.types[e.parent]
	}
	effective := make(map[string]handler.AttributeHandler)
	for i := len(chain) - 1; i >= 0; i-- {
		for name, h := range chain[i].handlers {
			effective[name] = h
		}
	}
	return effective, nil
}
