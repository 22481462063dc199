package types

import (
	"net/url"
	"strings"
)

// AdminConfig holds what is needed to build a privileged (service-role) client for one Supabase project.
// ServiceURL is the project base URL, e.g. https://<ref>.supabase.co. ServiceRoleKey is the service_role
// secret; it bypasses row-level security, so it never leaves the process and is never logged.
// ProjectID is only used as the key in a ProjectStore; configs read from the environment may leave it empty.
// Schema defaults to DefaultSchema when empty.
type AdminConfig struct {
	ProjectID      string `json:"project_id" yaml:"project_id" dynamodbav:"project_id"`
	ServiceURL     string `json:"service_url" yaml:"service_url" dynamodbav:"service_url"`
	ServiceRoleKey string `json:"service_role_key" yaml:"service_role_key" dynamodbav:"service_role_key"`
	Schema         string `json:"schema,omitempty" yaml:"schema,omitempty" dynamodbav:"schema,omitempty"`
}

// ClientOptions is the session behavior baked into every admin handle.
// Both flags are always false: admin handles are stateless and never keep or refresh a user session.
type ClientOptions struct {
	PersistSession   bool   `json:"persist_session"`
	AutoRefreshToken bool   `json:"auto_refresh_token"`
	Schema           string `json:"schema"`
}

const (
	DefaultSchema = "public"

	ProjectIDMinLength = 2

	// Environment variables read by the factory. Several names are accepted per value, first non-empty wins.
	EnvServiceURL        = "NEXT_PUBLIC_SUPABASE_URL"
	EnvServiceURLAlt     = "SUPABASE_URL"
	EnvServiceRoleKey    = "SUPABASE_SERVICE_ROLE_KEY"
	EnvServiceRoleKeyAlt = "SUPABASE_SERVICE_KEY"
	EnvSchema            = "SUPABASE_SCHEMA"

	redactedKeyVisibleChars = 4
)

// ServiceURLEnvKeys and ServiceRoleKeyEnvKeys list the accepted variable names in lookup order.
var (
	ServiceURLEnvKeys     = []string{EnvServiceURL, EnvServiceURLAlt}
	ServiceRoleKeyEnvKeys = []string{EnvServiceRoleKey, EnvServiceRoleKeyAlt}
)

// Validate checks the two required values. It returns a *ConfigurationError naming the first offending key.
func (c AdminConfig) Validate() error {
	if strings.TrimSpace(c.ServiceURL) == "" {
		return NewConfigurationError(EnvServiceURL, "service URL is required")
	}
	if strings.TrimSpace(c.ServiceRoleKey) == "" {
		return NewConfigurationError(EnvServiceRoleKey, "service role key is required")
	}
	u, err := url.Parse(strings.TrimSpace(c.ServiceURL))
	if err != nil {
		return NewConfigurationError(EnvServiceURL, "service URL is not a valid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewConfigurationError(EnvServiceURL, "service URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return NewConfigurationError(EnvServiceURL, "service URL has no host")
	}
	return nil
}

// ValidateStored is Validate plus the checks needed before a config can be kept in a ProjectStore.
func (c AdminConfig) ValidateStored() error {
	if len(c.ProjectID) < ProjectIDMinLength {
		return NewConfigurationError("project_id", "project_id must be at least %d characters", ProjectIDMinLength)
	}
	if strings.ContainsAny(c.ProjectID, "#*/ ") {
		return NewConfigurationError("project_id", "project_id must not contain '#', '*', '/' or spaces")
	}
	return c.Validate()
}

// Normalized returns a copy with whitespace trimmed, the trailing slash removed from the URL and the default schema set.
func (c AdminConfig) Normalized() AdminConfig {
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.ServiceURL = strings.TrimRight(strings.TrimSpace(c.ServiceURL), "/")
	c.ServiceRoleKey = strings.TrimSpace(c.ServiceRoleKey)
	c.Schema = strings.TrimSpace(c.Schema)
	if c.Schema == "" {
		c.Schema = DefaultSchema
	}
	return c
}

// Redacted returns a copy safe to print or log.
func (c AdminConfig) Redacted() AdminConfig {
	c.ServiceRoleKey = RedactKey(c.ServiceRoleKey)
	return c
}

// RedactKey keeps the last few characters of a secret so operators can tell keys apart.
func RedactKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= redactedKeyVisibleChars*2 {
		return "****"
	}
	return "****" + key[len(key)-redactedKeyVisibleChars:]
}
