package registry

import "fmt"

// DuplicateTypeError reports a second registration of the same type name.
type DuplicateTypeError struct {
	TypeName string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("type %q already registered", e.TypeName)
}

// UnknownParentError reports a type registration naming a parent that has
// not been registered yet. Parents must be registered before their children.
type UnknownParentError struct {
	TypeName string
	Parent   string
}

func (e *UnknownParentError) Error() string {
	return fmt.Sprintf("type %q declares unknown parent %q", e.TypeName, e.Parent)
}

// DuplicateAttributeError reports a second handler registration for the same
// attribute name directly on the same type. Registering the name on a
// different ancestor type is legal shadowing, not a duplicate.
type DuplicateAttributeError struct {
	TypeName string
	Attr     string
}

func (e *DuplicateAttributeError) Error() string {
	return fmt.Sprintf("attribute %q already registered on type %q", e.Attr, e.TypeName)
}

// UnknownTypeError reports a reference to a type name that was never
// registered, either at handler registration or at object creation.
type UnknownTypeError struct {
	TypeName string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %q", e.TypeName)
}

// UnknownAttributeError reports an attribute with no resolvable handler
// anywhere in the type's parent chain.
type UnknownAttributeError struct {
	TypeName string
	Attr     string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("no handler for attribute %q on type %q or its ancestors", e.Attr, e.TypeName)
}

// FrozenError reports a registration attempted after Freeze.
type FrozenError struct {
	Op string
}

func (e *FrozenError) Error() string {
	return fmt.Sprintf("%s: registry is frozen", e.Op)
}
