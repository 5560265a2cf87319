// Package cli defines the weave command surface.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/weaveui/weave/internal/app"
)

// NewRootCmd builds the root command. Rendered trees go to outW, logs to
// errW.
func NewRootCmd(outW, errW io.Writer) *cobra.Command {
	cfg := &app.Config{}

	root := &cobra.Command{
		Use:           "weave",
		Short:         "Inflate declarative widget layouts into live object trees",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.TablesPath, "tables", "", "YAML file with resource, theme and style tables")
	root.PersistentFlags().StringVar(&cfg.DataPath, "data", "", "JSON file seeding the data context")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", "text", "log format: text or json")

	render := &cobra.Command{
		Use:   "render LAYOUT",
		Short: "Inflate a layout document and print the resulting tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.LayoutPath = args[0]
			a, err := app.New(errW, cfg)
			if err != nil {
				return err
			}
			tree, err := a.Render(cmd.Context())
			if err != nil {
				return err
			}
			app.Dump(outW, tree)
			return nil
		},
	}
	render.Flags().BoolVar(&cfg.Strict, "strict", false, "abort on the first inflation error instead of skipping")

	validate := &cobra.Command{
		Use:   "validate LAYOUT",
		Short: "Inflate a layout document strictly and report the first error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.LayoutPath = args[0]
			cfg.Strict = true
			a, err := app.New(errW, cfg)
			if err != nil {
				return err
			}
			if _, err := a.Render(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(outW, "OK")
			return nil
		},
	}

	root.AddCommand(render, validate)
	return root
}
