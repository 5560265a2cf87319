package app

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/weaveui/weave/internal/object"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Dump writes a human-readable rendering of a live tree, one object per
// line, properties sorted by name.
func Dump(w io.Writer, root *object.RuntimeObject) {
	dump(w, root, 0)
}

func dump(w io.Writer, obj *object.RuntimeObject, depth int) {
	indent := strings.Repeat("  ", depth)
	id := ""
	if obj.StableID != "" {
		id = " #" + obj.StableID
	}
	fmt.Fprintf(w, "%s%s%s%s\n", indent, obj.TypeName, id, formatProps(obj))
	for _, child := range obj.Children() {
		dump(w, child, depth+1)
	}
}

func formatProps(obj *object.RuntimeObject) string {
	names := obj.PropNames()
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		v, _ := obj.Prop(name)
		parts = append(parts, fmt.Sprintf("%s=%s", name, formatValue(v)))
	}
	return " {" + strings.Join(parts, ", ") + "}"
}

func formatValue(v cty.Value) string {
	if v == cty.NilVal || v.IsNull() {
		return "null"
	}
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return v.GoString()
	}
	return string(raw)
}
