// Package cli provides the command-line interface for synthscope.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set at build time).
var Version = "0.1.0"

type configKey struct{}

type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "synthscope",
		Short: "Query synthetic record sources",
		Long: `synthscope queries records that do not live in a single table, such as
record files or remote SQL tables, through filtered, ordered scopes.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			level, _ := cfg.Level()
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, log)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./"+DefaultConfigFile+")")
	pf.String("source", DefaultSourceType, "Source type (file|sql)")
	pf.String("name", DefaultSourceName, "Record type name")
	pf.StringSlice("columns", nil, "Declared record fields")
	pf.String("path", "", "Record file (.json, .jsonl, .yaml)")
	pf.String("driver", DefaultDriver, "SQL driver (sqlite|pgx|mysql)")
	pf.String("dsn", "", "SQL data source name")
	pf.String("table", "", "SQL table")
	pf.String("log-level", DefaultLogLevel, "Log level (debug|info|warn|error)")
	pf.StringP("format", "f", DefaultFormat, "Output format (table|json|yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatTable, FormatJSON, FormatYAML}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewQueryCommand())
	rootCmd.AddCommand(NewColumnsCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return &Config{
		Source:   SourceConfig{Type: DefaultSourceType, Name: DefaultSourceName, Driver: DefaultDriver},
		LogLevel: DefaultLogLevel,
		Format:   DefaultFormat,
	}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
