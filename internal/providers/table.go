// Package providers supplies concrete in-memory implementations of the
// engine's resource, theme and style collaborator interfaces, plus a YAML
// loader for table files. The engine itself depends only on the interfaces
// in the resolve package.
package providers

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Table is an in-memory resource/theme/style table implementing all three
// provider interfaces. Built once before inflation; read-only afterwards,
// so concurrent lookups need no locking.
type Table struct {
	resources map[string]map[string]cty.Value
	theme     map[string]cty.Value
	styles    map[string]map[string]cty.Value
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		resources: make(map[string]map[string]cty.Value),
		theme:     make(map[string]cty.Value),
		styles:    make(map[string]map[string]cty.Value),
	}
}

// AddResource registers a resource entry under (kind, name).
func (t *Table) AddResource(kind, name string, v cty.Value) *Table {
	byName, ok := t.resources[kind]
	if !ok {
		byName = make(map[string]cty.Value)
		t.resources[kind] = byName
	}
	byName[name] = v
	return t
}

// SetContextual registers a themed value under id.
func (t *Table) SetContextual(id string, v cty.Value) *Table {
	t.theme[id] = v
	return t
}

// AddStyle registers a named bundle of raw values keyed by attribute id.
func (t *Table) AddStyle(name string, entries map[string]cty.Value) *Table {
	t.styles[name] = entries
	return t
}

// Resolve implements resolve.ResourceProvider.
func (t *Table) Resolve(kind, name string) (cty.Value, bool) {
	byName, ok := t.resources[kind]
	if !ok {
		return cty.NilVal, false
	}
	v, ok := byName[name]
	return v, ok
}

// ResolveContextual implements resolve.ContextualProvider.
func (t *Table) ResolveContextual(id string) (cty.Value, bool) {
	v, ok := t.theme[id]
	return v, ok
}

// ResolveStyle implements resolve.StyleProvider.
func (t *Table) ResolveStyle(name string) (map[string]cty.Value, bool) {
	entries, ok := t.styles[name]
	return entries, ok
}

// FromGo converts a plain Go value, as produced by YAML decoding, into a
// cty value. Maps become objects and slices become tuples.
func FromGo(v any) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(t), nil
	case bool:
		return cty.BoolVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case int64:
		return cty.NumberIntVal(t), nil
	case float64:
		return cty.NumberFloatVal(t), nil
	case map[string]any:
		attrs := make(map[string]cty.Value, len(t))
		for k, raw := range t {
			cv, err := FromGo(raw)
			if err != nil {
				return cty.NilVal, fmt.Errorf("key %q: %w", k, err)
			}
			attrs[k] = cv
		}
		if len(attrs) == 0 {
			return cty.EmptyObjectVal, nil
		}
		return cty.ObjectVal(attrs), nil
	case []any:
		elems := make([]cty.Value, len(t))
		for i, raw := range t {
			cv, err := FromGo(raw)
			if err != nil {
				return cty.NilVal, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = cv
		}
		if len(elems) == 0 {
			return cty.EmptyTupleVal, nil
		}
		return cty.TupleVal(elems), nil
	default:
		ty, err := gocty.ImpliedType(v)
		if err != nil {
			return cty.NilVal, fmt.Errorf("unsupported value %T: %w", v, err)
		}
		return gocty.ToCtyValue(v, ty)
	}
}
