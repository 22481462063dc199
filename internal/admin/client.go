// Package admin builds privileged Supabase clients authenticated with a project's service_role key.
// Such clients bypass row-level security. They never hold a user session and never refresh tokens,
// which makes them suitable for one-off server-side operations.
package admin

import (
	"supadmin/internal/types"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

const clientInfoHeader = "X-Client-Info"

// ClientInfo is sent with every request so admin traffic is identifiable in the project logs.
var ClientInfo = "supadmin-go"

// Client is an admin handle. Every call to NewClient returns a fresh, independent Client.
// The underlying SDK client stays private: its session methods would attach a user token to the handle.
type Client struct {
	sb      *supa.Client
	url     string
	options types.ClientOptions
}

// NewClient validates cfg and constructs an admin handle. A *types.ConfigurationError is returned,
// without touching the SDK, when the URL or the service role key is missing.
// No network call is made here; the SDK connects lazily on first use.
func NewClient(cfg types.AdminConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Normalized()

	sb, err := supa.NewClient(cfg.ServiceURL, cfg.ServiceRoleKey, &supa.ClientOptions{
		Schema: cfg.Schema,
		Headers: map[string]string{
			clientInfoHeader: ClientInfo,
		},
	})
	if err != nil {
		return nil, types.Err(types.ErrConfiguration, err, "create supabase client")
	}
	// Session handling is opt-in in supabase-go (EnableTokenAutoRefresh/UpdateAuthSession).
	// Neither is ever called on an admin handle.
	return &Client{
		sb:  sb,
		url: cfg.ServiceURL,
		options: types.ClientOptions{
			PersistSession:   false,
			AutoRefreshToken: false,
			Schema:           cfg.Schema,
		},
	}, nil
}

// Options reports the session behavior the handle was built with.
func (c *Client) Options() types.ClientOptions { return c.options }

// URL is the normalized project base URL.
func (c *Client) URL() string { return c.url }

// From starts a PostgREST query on table.
func (c *Client) From(table string) *postgrest.QueryBuilder {
	return c.sb.From(table)
}

// Rpc calls a Postgres function and returns the raw response body.
func (c *Client) Rpc(name, count string, body any) string {
	return c.sb.Rpc(name, count, body)
}
