package flow

import (
	"fmt"

	"github.com/jmespath/go-jmespath"
)

// Select applies a JMESPath expression to decoded rows (the array is the expression root).
// An empty expression returns rows unchanged. A non-matching expression yields nil and no error.
func Select(expression string, rows []any) (any, error) {
	if expression == "" {
		return rows, nil
	}
	v, err := jmespath.Search(expression, rows)
	if err != nil {
		return nil, fmt.Errorf("jmespath: %w", err)
	}
	return v, nil
}

// CompileSelect validates an expression up front, so bad input fails before any query runs.
func CompileSelect(expression string) error {
	if expression == "" {
		return nil
	}
	if _, err := jmespath.Compile(expression); err != nil {
		return fmt.Errorf("jmespath: %w", err)
	}
	return nil
}
