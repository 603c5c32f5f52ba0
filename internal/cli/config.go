package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Default configuration values.
const (
	DefaultConfigFile = "synthscope.yaml"
	DefaultSourceType = "file"
	DefaultSourceName = "Record"
	DefaultDriver     = "sqlite"
	DefaultLogLevel   = "warn"
	DefaultFormat     = "table"
	EnvPrefix         = "SYNTHSCOPE_"
)

// Source types.
const (
	SourceFile = "file"
	SourceSQL  = "sql"
)

// Config holds all CLI configuration options.
type Config struct {
	Source   SourceConfig `koanf:"source"`
	LogLevel string       `koanf:"log_level"`
	Format   string       `koanf:"format"`
}

// SourceConfig describes where records are read from.
type SourceConfig struct {
	Type    string   `koanf:"type"`
	Name    string   `koanf:"name"`
	Columns []string `koanf:"columns"`
	// ContextColumns maps context keys to the field restricting visible
	// records.
	ContextColumns map[string]string `koanf:"context_columns"`

	Path string `koanf:"path"`

	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
	Table  string `koanf:"table"`
}

// flagKeys maps flag names to config keys. Flags not listed are not
// configuration.
var flagKeys = map[string]string{
	"source":    "source.type",
	"name":      "source.name",
	"columns":   "source.columns",
	"path":      "source.path",
	"driver":    "source.driver",
	"dsn":       "source.dsn",
	"table":     "source.table",
	"log-level": "log_level",
	"format":    "format",
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"source.type":   DefaultSourceType,
		"source.name":   DefaultSourceName,
		"source.driver": DefaultDriver,
		"log_level":     DefaultLogLevel,
		"format":        DefaultFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file, only required when named explicitly
	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment: SYNTHSCOPE_SOURCE__DSN -> source.dsn
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Source.Type {
	case SourceFile:
		if c.Source.Path == "" {
			return errors.New("file source requires a path")
		}
	case SourceSQL:
		if c.Source.DSN == "" {
			return errors.New("sql source requires a dsn")
		}
		if c.Source.Table == "" {
			return errors.New("sql source requires a table")
		}
		if len(c.Source.Columns) == 0 {
			return errors.New("sql source requires columns")
		}
	default:
		return fmt.Errorf("unknown source type %q", c.Source.Type)
	}
	switch c.Format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q", c.Format)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
