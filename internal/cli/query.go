package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
	"github.com/vinicius-lino-figueiredo/synthscope/scope"
	"gopkg.in/yaml.v3"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Where   []string
	Order   []string
	Context []string
	Pluck   []string
	Find    string
	IDs     bool
	Empty   bool
	Count   bool
	Limit   int64
	Offset  int64
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Resolve a scope over the configured source",
		Long: `Build a scope over the configured source and resolve it.

Without a terminal flag every matching record is printed. Values given to
--where, --find and --context are read as YAML scalars, so 1 is a number,
true a boolean and "1" a string.`,
		Example: `  # Every record
  synthscope query --path colors.jsonl

  # Filter, order and page
  synthscope query --path colors.jsonl --where warm=true --order name:desc --limit 2

  # Values of some fields
  synthscope query --path colors.jsonl --where name=red,blue --pluck id,hex

  # A single record from a SQL table
  synthscope query --source sql --dsn app.db --table colors --columns name,hex --find 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, "Filter as field=value[,value...] (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.Order, "order", "o", nil, "Order as field[:asc|desc] (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.Context, "context", "c", nil, "Context value as key=value (repeatable)")
	cmd.Flags().StringSliceVarP(&opts.Pluck, "pluck", "p", nil, "Print only these fields")
	cmd.Flags().StringVar(&opts.Find, "find", "", "Print the record with this id")
	cmd.Flags().BoolVar(&opts.IDs, "ids", false, "Print the available ids")
	cmd.Flags().BoolVar(&opts.Empty, "empty", false, "Print whether nothing matches")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "Print the number of matching records")
	cmd.Flags().Int64Var(&opts.Limit, "limit", 0, "Maximum number of records")
	cmd.Flags().Int64Var(&opts.Offset, "offset", 0, "Number of records to skip")
	cmd.MarkFlagsMutuallyExclusive("pluck", "find", "ids", "empty", "count")

	return cmd
}

func runQuery(cmd *cobra.Command, opts *QueryOptions) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	log := GetLogger(ctx)

	a, closeSource, err := OpenSource(ctx, cfg.Source, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeSource() }()

	s, err := opts.Scope(a, scope.WithLogger(log))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch {
	case opts.Find != "":
		r, err := s.Find(ctx, parseValue(opts.Find))
		if err != nil {
			return err
		}
		return renderRows(w, cfg.Format, a.Columns(), recordRows([]domain.Record{r}))
	case opts.IDs:
		ids, err := s.IDs(ctx)
		if err != nil {
			return err
		}
		rows := make([]map[string]any, len(ids))
		for n, id := range ids {
			rows[n] = map[string]any{domain.IDField: id}
		}
		return renderRows(w, cfg.Format, []string{domain.IDField}, rows)
	case opts.Empty:
		empty, err := s.Empty(ctx)
		if err != nil {
			return err
		}
		return renderValue(w, cfg.Format, empty)
	case opts.Count:
		n, err := s.Count(ctx)
		if err != nil {
			return err
		}
		return renderValue(w, cfg.Format, n)
	case len(opts.Pluck) > 0:
		rows, err := s.PluckRows(ctx, opts.Pluck...)
		if err != nil {
			return err
		}
		res := make([]map[string]any, len(rows))
		for n, r := range rows {
			res[n] = r
		}
		return renderRows(w, cfg.Format, opts.Pluck, res)
	}

	records, err := s.All(ctx)
	if err != nil {
		return err
	}
	return renderRows(w, cfg.Format, a.Columns(), recordRows(records))
}

// Scope builds the scope described by o over a.
func (o *QueryOptions) Scope(a domain.Adapter, opts ...scope.Option) (*scope.Scope, error) {
	values := make(map[string]any, len(o.Context))
	for _, kv := range o.Context {
		k, v, err := splitAssignment(kv)
		if err != nil {
			return nil, err
		}
		values[k] = parseValue(v)
	}

	s, err := scope.New(a, append(opts, scope.WithContext(values))...)
	if err != nil {
		return nil, err
	}

	for _, where := range o.Where {
		field, raw, err := splitAssignment(where)
		if err != nil {
			return nil, err
		}
		s = s.WhereField(field, parsePredicate(raw))
	}
	for _, order := range o.Order {
		field, dir, ok := strings.Cut(order, ":")
		if ok {
			s = s.Order([2]string{field, dir})
		} else {
			s = s.Order(field)
		}
	}
	if o.Limit > 0 {
		s = s.Limit(o.Limit)
	}
	if o.Offset > 0 {
		s = s.Offset(o.Offset)
	}
	return s, s.Err()
}

func splitAssignment(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	return k, v, nil
}

func parsePredicate(raw string) domain.Predicate {
	parts := strings.Split(raw, ",")
	if len(parts) == 1 {
		return domain.Equals(parseValue(parts[0]))
	}
	values := make([]any, len(parts))
	for n, p := range parts {
		values[n] = parseValue(p)
	}
	return domain.OneOf(values...)
}

// parseValue reads s as a YAML scalar. Anything that is not a scalar is kept
// as a string.
func parseValue(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	switch v.(type) {
	case map[string]any, []any:
		return s
	case nil:
		if s != "null" && s != "~" {
			return s
		}
	}
	return v
}
