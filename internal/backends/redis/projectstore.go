package redis

import (
	"context"
	"errors"
	"fmt"

	"supadmin/internal/types"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	projectKeyNameTemplate = "_supadmin_project_%s"
)

type ProjectStore struct {
	cli *redis.Client
}

func NewProjectStore(cli *redis.Client) *ProjectStore {
	return &ProjectStore{cli: cli}
}

func (s *ProjectStore) GetProjectConfig(ctx context.Context, projectID string) (types.AdminConfig, error) {
	out := s.cli.Get(ctx, getProjectKey(projectID))
	if err := out.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return types.AdminConfig{}, types.ErrNotFound
		}
		return types.AdminConfig{}, types.Err(types.ErrDataStoreAccess, err, "get project %s", projectID)
	}
	return decodeProjectConfig(projectID, out.Val())
}

// decodeProjectConfig treats a value that is not a stored config as a store failure, not a missing project.
func decodeProjectConfig(projectID, raw string) (types.AdminConfig, error) {
	var cfg types.AdminConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return types.AdminConfig{}, types.Err(types.ErrDataStoreAccess, err, "decode project %s", projectID)
	}
	return cfg, nil
}

func (s *ProjectStore) ListProjects(ctx context.Context) ([]string, error) {
	prefixLen := len(getProjectKey(""))
	projects := make([]string, 0)
	iter := s.cli.Scan(ctx, 0, getProjectKey("*"), 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if len(k) > prefixLen {
			projects = append(projects, k[prefixLen:])
		}
	}
	if err := iter.Err(); err != nil {
		return nil, types.Err(types.ErrDataStoreAccess, err, "list projects")
	}
	return projects, nil
}

func (s *ProjectStore) PutProjectConfig(ctx context.Context, projectID string, config types.AdminConfig) error {
	config.ProjectID = projectID
	if err := config.ValidateStored(); err != nil {
		return err
	}

	out, err := json.Marshal(config.Normalized())
	if err != nil {
		return err
	}

	if err := s.cli.Set(ctx, getProjectKey(projectID), string(out), 0).Err(); err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "put project %s", projectID)
	}
	return nil
}

func (s *ProjectStore) DeleteProjectConfig(ctx context.Context, projectID string) error {
	if err := s.cli.Del(ctx, getProjectKey(projectID)).Err(); err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "delete project %s", projectID)
	}
	return nil
}

func (s *ProjectStore) ClearAll(ctx context.Context) error {
	out := s.cli.Keys(ctx, getProjectKey("*"))
	if err := out.Err(); err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "list project keys")
	}
	keys := out.Val()
	if len(keys) == 0 {
		return nil
	}
	if err := s.cli.Del(ctx, keys...).Err(); err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "delete project keys")
	}
	return nil
}

func getProjectKey(id string) string {
	return fmt.Sprintf(projectKeyNameTemplate, id)
}
