// Package binding holds the data context that binding expressions are
// evaluated against. A DataContext is shared by reference across a subtree:
// replacing its snapshot makes every bound attribute in that subtree observe
// the new data on the next re-resolution pass.
package binding

import (
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// DataContext is the data snapshot available to a subtree's binding
// expressions. It is not owned by any single runtime object; derived child
// contexts keep a non-owning reference to their parent for scoped lookups.
type DataContext struct {
	mu     sync.RWMutex
	data   cty.Value
	index  int
	parent *DataContext
}

// New creates a root DataContext over the given snapshot.
func New(data cty.Value) *DataContext {
	return &DataContext{data: normalize(data), index: -1}
}

// Child derives a context for a repeated subtree: data is the element
// snapshot and index its position. The receiver stays reachable through the
// parent reference.
func (d *DataContext) Child(data cty.Value, index int) *DataContext {
	return &DataContext{data: normalize(data), index: index, parent: d}
}

// Data returns the current snapshot.
func (d *DataContext) Data() cty.Value {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.data
}

// Index returns the element index for derived contexts, or -1 at the root.
func (d *DataContext) Index() int { return d.index }

// Parent returns the enclosing context, or nil at the root.
func (d *DataContext) Parent() *DataContext { return d.parent }

// Replace installs a new snapshot in place, so every holder of this context
// observes it. It reports whether the snapshot's shape (cty type) changed;
// same-shape updates are value refreshes, different shapes are replacements.
func (d *DataContext) Replace(data cty.Value) bool {
	data = normalize(data)
	d.mu.Lock()
	defer d.mu.Unlock()
	changed := !d.data.Type().Equals(data.Type())
	d.data = data
	return changed
}

// EvalContext builds the HCL evaluation context for binding expressions.
// Variables: "data" is the snapshot, "index" the element index, and, on
// derived contexts, "parent" exposes the enclosing snapshot one level up.
func (d *DataContext) EvalContext() *hcl.EvalContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	vars := map[string]cty.Value{
		"data":  d.data,
		"index": cty.NumberIntVal(int64(d.index)),
	}
	if d.parent != nil {
		vars["parent"] = cty.ObjectVal(map[string]cty.Value{
			"data":  d.parent.Data(),
			"index": cty.NumberIntVal(int64(d.parent.index)),
		})
	}
	return &hcl.EvalContext{Variables: vars}
}

// normalize keeps the snapshot usable in an EvalContext even when callers
// hand in the zero value.
func normalize(data cty.Value) cty.Value {
	if data == cty.NilVal {
		return cty.EmptyObjectVal
	}
	return data
}
