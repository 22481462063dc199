package admin

import (
	"os"
	"strings"

	"supadmin/internal/types"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ConfigFromEnv reads an AdminConfig through lookup. For each value the accepted variable names are
// tried in order and the first non-empty one wins. No validation happens here.
func ConfigFromEnv(lookup LookupFunc) types.AdminConfig {
	return types.AdminConfig{
		ServiceURL:     firstEnv(lookup, types.ServiceURLEnvKeys...),
		ServiceRoleKey: firstEnv(lookup, types.ServiceRoleKeyEnvKeys...),
		Schema:         firstEnv(lookup, types.EnvSchema),
	}
}

// NewClientFromEnv builds an admin handle from the process environment.
func NewClientFromEnv() (*Client, error) {
	return NewClientFromLookup(os.LookupEnv)
}

// NewClientFromLookup is NewClientFromEnv with an injected environment.
func NewClientFromLookup(lookup LookupFunc) (*Client, error) {
	return NewClient(ConfigFromEnv(lookup))
}

// MapLookup adapts a map to a LookupFunc.
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func firstEnv(lookup LookupFunc, keys ...string) string {
	for _, k := range keys {
		if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
