// Package node defines the declarative widget-tree model consumed by the
// inflation engine. A Node describes one widget instance: its type name, an
// ordered set of named raw attribute values, and its children. Nodes are
// produced by an external parser and are read-only once handed to the engine.
package node

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Attr is a single named raw attribute value. Raw values are cty values as
// they appeared in the source document; classification into literal, binding,
// resource, contextual or style references happens later, at compile time.
type Attr struct {
	Name string
	Raw  cty.Value
}

// Node is one vertex of a declarative widget tree. Children order is
// significant and preserved. StableID is optional; when present it must be
// unique within its enclosing container so relational attributes can refer
// to the node by name.
type Node struct {
	TypeName string
	Attrs    []Attr
	Children []*Node
	StableID string
}

// New constructs a Node with the given type name and optional stable ID.
func New(typeName, stableID string) *Node {
	return &Node{TypeName: typeName, StableID: stableID}
}

// SetAttr appends an attribute, preserving declaration order. Setting a name
// that is already present overwrites the earlier value in place so that the
// original position in the ordering is kept.
func (n *Node) SetAttr(name string, raw cty.Value) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Raw = raw
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Raw: raw})
	return n
}

// Attr returns the raw value for name and whether it is present.
func (n *Node) Attr(name string) (cty.Value, bool) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			return n.Attrs[i].Raw, true
		}
	}
	return cty.NilVal, false
}

// AddChild appends a child node, preserving order.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return n
}

// String returns a compact human-readable identifier for error messages.
func (n *Node) String() string {
	if n.StableID != "" {
		return fmt.Sprintf("%s(%s)", n.TypeName, n.StableID)
	}
	return n.TypeName
}
