package cli

import (
	"github.com/spf13/cobra"
)

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the fields and context keys of the configured source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)

			a, closeSource, err := OpenSource(ctx, cfg.Source, GetLogger(ctx))
			if err != nil {
				return err
			}
			defer func() { _ = closeSource() }()

			var rows []map[string]any
			for _, c := range a.Columns() {
				rows = append(rows, map[string]any{"name": c, "kind": "field"})
			}
			for _, k := range a.ContextKeys() {
				rows = append(rows, map[string]any{"name": k, "kind": "context"})
			}
			return renderRows(cmd.OutOrStdout(), cfg.Format, []string{"name", "kind"}, rows)
		},
	}
}
