package flow

import (
	"context"
	"errors"
	"supadmin/internal/admin"
	"supadmin/internal/ports"
	"supadmin/internal/types"

	log "github.com/sirupsen/logrus"
)

// LoadCachedProjectConfig returns the stored config for projectID, served from the TTL cache when fresh.
func LoadCachedProjectConfig(ctx context.Context, store ports.ProjectStore, projectID string) (types.AdminConfig, error) {
	if projectID == "" {
		return types.AdminConfig{}, types.NewConfigurationError("project_id", "project id is required")
	}
	if cfg, ok := cfgCache.Get(projectID); ok {
		return cfg, nil
	}
	cfg, err := store.GetProjectConfig(ctx, projectID)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			log.WithError(err).WithField("projectID", projectID).Error("failed to load project config")
		}
		return types.AdminConfig{}, err
	}
	cfgCache.Set(projectID, cfg, ConfigCacheTTL)
	return cfg, nil
}

// ForgetProject drops projectID from the config cache, e.g. after its key was rotated or deleted.
func ForgetProject(projectID string) {
	cfgCache.Delete(projectID)
}

// OpenProject builds a fresh admin handle for a stored project.
func OpenProject(ctx context.Context, store ports.ProjectStore, projectID string) (*admin.Client, error) {
	cfg, err := LoadCachedProjectConfig(ctx, store, projectID)
	if err != nil {
		return nil, err
	}
	cli, err := admin.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"projectID": projectID,
		"url":       cli.URL(),
	}).Debug("admin client created")
	return cli, nil
}
