package cmds

import (
	"context"
	"fmt"
	"strings"
	"supadmin/internal/admin"
	"supadmin/internal/flow"

	log "github.com/sirupsen/logrus"
)

// ParseFilters turns ["col=val", ...] into an equality filter map.
func ParseFilters(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		col, val, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(col) == "" {
			return nil, fmt.Errorf("invalid filter %q, expected column=value", p)
		}
		out[strings.TrimSpace(col)] = val
	}
	return out, nil
}

// RunQuery runs a select through cli, applies the optional JMESPath selection and prints the result as JSON.
func RunQuery(ctx context.Context, cli *admin.Client, opts flow.QueryOptions, selectExpr string) error {
	if err := flow.CompileSelect(selectExpr); err != nil {
		return err
	}
	rows, err := flow.Query(ctx, cli, opts)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"table": opts.Table,
		"rows":  len(rows),
	}).Debug("query done")
	out, err := flow.Select(selectExpr, rows)
	if err != nil {
		return err
	}
	return printJSON(out)
}
