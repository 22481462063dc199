package flow

import (
	"context"
	"fmt"
	"strings"
	"supadmin/internal/admin"
	"supadmin/internal/types"

	"github.com/goccy/go-json"
	"github.com/supabase-community/postgrest-go"
)

// QueryOptions describes a read-only PostgREST select.
// Filters are equality filters, column -> value. Limit 0 means no limit.
type QueryOptions struct {
	Table   string
	Columns []string
	Filters map[string]string
	OrderBy string
	Desc    bool
	Limit   int
}

func (o QueryOptions) Validate() error {
	if strings.TrimSpace(o.Table) == "" {
		return types.NewConfigurationError("table", "table is required")
	}
	if o.Limit < 0 {
		return types.NewConfigurationError("limit", "limit must be non-negative, 0 for no limit")
	}
	return nil
}

func (o QueryOptions) columns() string {
	if len(o.Columns) == 0 {
		return "*"
	}
	return strings.Join(o.Columns, ",")
}

// Query runs a select through the admin handle and returns the decoded rows.
// The SDK call itself is not cancellable; ctx is checked before the request is sent.
func Query(ctx context.Context, cli *admin.Client, opts QueryOptions) ([]any, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fb := cli.From(opts.Table).Select(opts.columns(), "", false)
	for col, val := range opts.Filters {
		fb = fb.Eq(col, val)
	}
	if opts.OrderBy != "" {
		fb = fb.Order(opts.OrderBy, &postgrest.OrderOpts{Ascending: !opts.Desc})
	}
	if opts.Limit > 0 {
		fb = fb.Limit(opts.Limit, "")
	}

	body, _, err := fb.Execute()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", opts.Table, err)
	}
	var rows []any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", opts.Table, err)
	}
	return rows, nil
}
