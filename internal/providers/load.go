package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/weaveui/weave/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// tableFile is the YAML shape of a table document:
//
//	resources:
//	  string: {title: "Hello"}
//	  color:  {primary: "#FF0000"}
//	theme:
//	  colorAccent: "#00FF00"
//	styles:
//	  Big: {textSize: 24, color: "@color/primary"}
type tableFile struct {
	Resources map[string]map[string]any `yaml:"resources"`
	Theme     map[string]any            `yaml:"theme"`
	Styles    map[string]map[string]any `yaml:"styles"`
}

// LoadFile reads a YAML table file into a Table.
func LoadFile(ctx context.Context, path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading table file: %w", err)
	}
	t, err := Load(raw)
	if err != nil {
		return nil, fmt.Errorf("table file %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Provider tables loaded.", "path", path)
	return t, nil
}

// Load parses YAML table content into a Table.
func Load(raw []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}

	t := NewTable()
	for kind, byName := range file.Resources {
		for name, v := range byName {
			cv, err := FromGo(v)
			if err != nil {
				return nil, fmt.Errorf("resource %s/%s: %w", kind, name, err)
			}
			t.AddResource(kind, name, cv)
		}
	}
	for id, v := range file.Theme {
		cv, err := FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", id, err)
		}
		t.SetContextual(id, cv)
	}
	for name, entries := range file.Styles {
		converted := make(map[string]cty.Value, len(entries))
		for attr, v := range entries {
			cv, err := FromGo(v)
			if err != nil {
				return nil, fmt.Errorf("style %s.%s: %w", name, attr, err)
			}
			converted[attr] = cv
		}
		t.AddStyle(name, converted)
	}
	return t, nil
}
