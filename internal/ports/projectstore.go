package ports

import (
	"context"
	"supadmin/internal/types"
)

// ProjectStore keeps admin credentials per Supabase project.
// Implementations SHOULD cache upstream reads where possible; callers MAY add an
// in-process TTL cache to avoid hot-path lookups.
type ProjectStore interface {
	// GetProjectConfig returns the configuration for a projectID.
	// MUST return types.ErrNotFound if the project does not exist.
	GetProjectConfig(ctx context.Context, projectID string) (types.AdminConfig, error)

	ListProjects(ctx context.Context) ([]string, error)

	// PutProjectConfig MUST reject configs failing AdminConfig.ValidateStored.
	PutProjectConfig(ctx context.Context, projectID string, config types.AdminConfig) error

	DeleteProjectConfig(ctx context.Context, projectID string) error

	// ClearAll purges all project configurations. Used in tests only.
	ClearAll(ctx context.Context) error
}
