// Package layout parses HCL layout documents into declarative node trees.
// It is a collaborator of the engine, not part of it: the engine consumes
// node trees from any producer, and only the CLI and tests go through this
// package.
//
// A document contains one root widget block; widget blocks nest to form the
// tree and carry attributes as literal values:
//
//	widget "Frame" "root" {
//	  color = "@color/background"
//
//	  widget "Text" "title" {
//	    text     = "@{data.title}"
//	    textSize = 14
//	  }
//	}
//
// Binding expressions stay inside "@{...}" strings; the document itself has
// no variables, so every attribute must be a constant expression.
package layout

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/weaveui/weave/internal/ctxlog"
	"github.com/weaveui/weave/internal/node"
)

const blockType = "widget"

// LoadFile parses the document at path into a node tree.
func LoadFile(ctx context.Context, path string) (*node.Node, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing layout %s: %s", path, diags.Error())
	}
	return fromFile(ctx, file.Body, path)
}

// Parse parses an in-memory document into a node tree. filename is used in
// diagnostics only.
func Parse(ctx context.Context, src []byte, filename string) (*node.Node, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing layout %s: %s", filename, diags.Error())
	}
	return fromFile(ctx, file.Body, filename)
}

func fromFile(ctx context.Context, rawBody hcl.Body, filename string) (*node.Node, error) {
	body, ok := rawBody.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("layout %s: unsupported document body", filename)
	}
	if len(body.Attributes) > 0 {
		return nil, fmt.Errorf("layout %s: top-level attributes are not allowed", filename)
	}
	var root *hclsyntax.Block
	for _, block := range body.Blocks {
		if block.Type != blockType {
			return nil, fmt.Errorf("layout %s: unexpected block %q", filename, block.Type)
		}
		if root != nil {
			return nil, fmt.Errorf("layout %s: more than one root widget", filename)
		}
		root = block
	}
	if root == nil {
		return nil, fmt.Errorf("layout %s: no root widget", filename)
	}
	n, err := buildNode(root)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", filename, err)
	}
	ctxlog.FromContext(ctx).Debug("Layout document parsed.", "file", filename, "root", n.String())
	return n, nil
}

// buildNode converts one widget block, preserving attribute declaration
// order and child order.
func buildNode(block *hclsyntax.Block) (*node.Node, error) {
	if len(block.Labels) == 0 || block.Labels[0] == "" {
		return nil, fmt.Errorf("widget block at %s has no type label", block.TypeRange.String())
	}
	typeName := block.Labels[0]
	stableID := ""
	if len(block.Labels) > 1 {
		stableID = block.Labels[1]
	}
	if len(block.Labels) > 2 {
		return nil, fmt.Errorf("widget %q: expected at most two labels (type, id)", typeName)
	}
	n := node.New(typeName, stableID)

	// hclsyntax exposes attributes as a map; restore source order so the
	// node keeps the document's declaration order.
	attrs := make([]*hclsyntax.Attribute, 0, len(block.Body.Attributes))
	for _, attr := range block.Body.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	for _, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("widget %q: attribute %q must be a constant value: %s", typeName, attr.Name, diags.Error())
		}
		n.SetAttr(attr.Name, val)
	}

	for _, child := range block.Body.Blocks {
		if child.Type != blockType {
			return nil, fmt.Errorf("widget %q: unexpected block %q", typeName, child.Type)
		}
		childNode, err := buildNode(child)
		if err != nil {
			return nil, err
		}
		n.AddChild(childNode)
	}
	return n, nil
}
