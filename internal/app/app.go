// Package app is the composition root: it wires logger, registry, provider
// tables and the inflater into one App instance. A process may keep one
// canonical App, but nothing here is global state; every collaborator is
// constructed explicitly and passed by reference.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/weaveui/weave/internal/binding"
	"github.com/weaveui/weave/internal/ctxlog"
	"github.com/weaveui/weave/internal/inflate"
	"github.com/weaveui/weave/internal/layout"
	"github.com/weaveui/weave/internal/object"
	"github.com/weaveui/weave/internal/providers"
	"github.com/weaveui/weave/internal/registry"
	"github.com/weaveui/weave/internal/resolve"
	"github.com/weaveui/weave/internal/widgets"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Config holds everything an App needs to run.
type Config struct {
	LayoutPath string
	TablesPath string
	DataPath   string
	LogLevel   string
	LogFormat  string
	Strict     bool
}

// Validate rejects option values the rest of the stack would misinterpret.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", c.LogFormat)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn' or 'error'", c.LogLevel)
	}
	return nil
}

// App bundles one fully wired engine instance.
type App struct {
	cfg      *Config
	logger   *slog.Logger
	registry *registry.Registry
	inflater *inflate.Inflater
}

// New wires an App. Registration failures are returned immediately: a
// misconfigured registry must never be used. extra modules are installed
// after the built-in widget module, letting embedders add custom types.
func New(outW io.Writer, cfg *Config, extra ...registry.Module) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	reg := registry.New()
	modules := append([]registry.Module{widgets.Module{}}, extra...)
	if err := reg.Install(ctx, modules...); err != nil {
		return nil, fmt.Errorf("registry setup: %w", err)
	}
	reg.Freeze()

	table := providers.NewTable()
	if cfg.TablesPath != "" {
		var err error
		table, err = providers.LoadFile(ctx, cfg.TablesPath)
		if err != nil {
			return nil, err
		}
	}
	env := resolve.NewEnv(table, table, table)

	var opts []inflate.Option
	if cfg.Strict {
		opts = append(opts, inflate.WithStrict())
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		inflater: inflate.New(reg, env, opts...),
	}, nil
}

// Logger returns the app's logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Registry returns the frozen registry.
func (a *App) Registry() *registry.Registry { return a.registry }

// Inflater returns the wired inflater.
func (a *App) Inflater() *inflate.Inflater { return a.inflater }

// Render loads the configured layout document and inflates it into a live
// tree, seeding the data context from the configured data file when one is
// set.
func (a *App) Render(ctx context.Context) (*object.RuntimeObject, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	n, err := layout.LoadFile(ctx, a.cfg.LayoutPath)
	if err != nil {
		return nil, err
	}

	data := cty.EmptyObjectVal
	if a.cfg.DataPath != "" {
		raw, err := os.ReadFile(a.cfg.DataPath)
		if err != nil {
			return nil, fmt.Errorf("reading data file: %w", err)
		}
		ty, err := ctyjson.ImpliedType(raw)
		if err != nil {
			return nil, fmt.Errorf("data file %s: %w", a.cfg.DataPath, err)
		}
		data, err = ctyjson.Unmarshal(raw, ty)
		if err != nil {
			return nil, fmt.Errorf("data file %s: %w", a.cfg.DataPath, err)
		}
	}

	root, err := a.inflater.Inflate(ctx, n, nil, binding.New(data))
	if err != nil {
		return nil, fmt.Errorf("inflating %s: %w", n.String(), err)
	}
	return root, nil
}
