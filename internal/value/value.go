// Package value implements the compiled value model. A raw attribute value
// from a layout document is classified exactly once into one of five
// variants: a literal, a data-binding expression, a resource reference, a
// contextual (themed) reference, or a style-bundle reference. Classification
// is purely syntactic, has no side effects, and is memoized.
package value

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Kind identifies the active variant of a compiled Value.
type Kind int

const (
	// Literal is a plain value used as-is.
	Literal Kind = iota
	// Binding is an expression evaluated against the current data context,
	// written as "@{expr}". Binding values are the only ones re-resolved
	// when the data changes.
	Binding
	// Resource is a named lookup in an external resource table, written as
	// "@kind/name" (for example "@string/title").
	Resource
	// Contextual is a themed lookup resolved through the active theme,
	// written as "?id" (for example "?colorAccent").
	Contextual
	// Style references one entry of a reusable named attribute bundle,
	// written as "@style/name". The referenced entry is itself a raw value
	// and is compiled and resolved recursively.
	Style
)

// String returns the variant name, for logs and error messages.
func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Binding:
		return "binding"
	case Resource:
		return "resource"
	case Contextual:
		return "contextual"
	case Style:
		return "style"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is the compiled form of one raw attribute value. Exactly one variant
// is active, indicated by Kind; the other fields are zero. Values are
// immutable once compiled and safe to share across goroutines.
type Value struct {
	Kind Kind

	// Lit holds the literal value when Kind is Literal.
	Lit cty.Value

	// Src and Expr hold the binding source text and its parsed expression
	// when Kind is Binding.
	Src  string
	Expr hcl.Expression

	// ResKind and ResName identify the table entry when Kind is Resource.
	ResKind string
	ResName string

	// AttrID is the contextual attribute id when Kind is Contextual, and
	// the attribute whose entry to select from the bundle when Kind is
	// Style.
	AttrID string

	// StyleName names the bundle when Kind is Style.
	StyleName string
}

// compileCache memoizes Compile results for string raws. Entries are
// immutable once written; a racing duplicate computation is harmless.
var compileCache sync.Map

const styleKind = "style"

// Compile classifies raw into a Value. attrName is the attribute the raw
// value was declared under; it is recorded on Style values so resolution can
// select the right bundle entry. Compile is pure: the same inputs always
// yield an equivalent Value, so results are cached by (attrName, raw).
func Compile(attrName string, raw cty.Value) (*Value, error) {
	if raw.IsNull() || raw.Type() != cty.String {
		return &Value{Kind: Literal, Lit: raw}, nil
	}
	s := raw.AsString()

	key := attrName + "\x00" + s
	if cached, ok := compileCache.Load(key); ok {
		return cached.(*Value), nil
	}

	v, err := classify(attrName, s)
	if err != nil {
		return nil, err
	}
	compileCache.Store(key, v)
	return v, nil
}

// classify performs the actual syntactic dispatch for string raws.
func classify(attrName, s string) (*Value, error) {
	switch {
	case strings.HasPrefix(s, `\@`) || strings.HasPrefix(s, `\?`):
		// Escaped leading sigil: a literal that happens to start with one.
		return &Value{Kind: Literal, Lit: cty.StringVal(s[1:])}, nil

	case strings.HasPrefix(s, "@{"):
		if !strings.HasSuffix(s, "}") || len(s) < 4 {
			return nil, fmt.Errorf("malformed binding %q: expected \"@{expr}\"", s)
		}
		src := s[2 : len(s)-1]
		expr, diags := hclsyntax.ParseExpression([]byte(src), attrName, hcl.Pos{Line: 1, Column: 1})
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid binding expression %q: %s", src, diags.Error())
		}
		return &Value{Kind: Binding, Src: src, Expr: expr}, nil

	case strings.HasPrefix(s, "@"):
		kind, name, ok := strings.Cut(s[1:], "/")
		if !ok || kind == "" || name == "" {
			return nil, fmt.Errorf("malformed reference %q: expected \"@kind/name\"", s)
		}
		if kind == styleKind {
			return &Value{Kind: Style, StyleName: name, AttrID: attrName}, nil
		}
		return &Value{Kind: Resource, ResKind: kind, ResName: name}, nil

	case strings.HasPrefix(s, "?"):
		id := s[1:]
		if id == "" {
			return nil, fmt.Errorf("malformed contextual reference %q: expected \"?id\"", s)
		}
		return &Value{Kind: Contextual, AttrID: id}, nil

	default:
		return &Value{Kind: Literal, Lit: cty.StringVal(s)}, nil
	}
}
