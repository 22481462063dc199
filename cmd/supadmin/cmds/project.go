package cmds

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"supadmin/internal/flow"
	"supadmin/internal/ports"
	"supadmin/internal/pub"
	"supadmin/internal/types"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	log "github.com/sirupsen/logrus"
)

// Out receives command output. Tests swap it.
var Out io.Writer = os.Stdout

// Notifier announces project changes. Nil disables events.
var Notifier *pub.Notifier

// LoadConfigFile reads a YAML (or JSON, which is valid YAML) project file.
func LoadConfigFile(path string) (types.AdminConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.AdminConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	var cfg types.AdminConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return types.AdminConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// PutConfig stores the project described by the file at path.
func PutConfig(ctx context.Context, store ports.ProjectStore, path string) error {
	cfg, err := LoadConfigFile(path)
	if err != nil {
		return err
	}
	if err := store.PutProjectConfig(ctx, cfg.ProjectID, cfg); err != nil {
		return err
	}
	flow.ForgetProject(cfg.ProjectID)
	log.WithField("projectID", cfg.ProjectID).Info("project config stored")

	cfg = cfg.Normalized()
	if err := Notifier.Notify(ctx, pub.ProjectEvent{Event: pub.EventProjectPut, ProjectID: cfg.ProjectID, URL: cfg.ServiceURL}); err != nil {
		log.WithError(err).Warn("failed to publish project event")
	}
	return nil
}

// GetConfig prints the stored project with its key redacted.
func GetConfig(ctx context.Context, store ports.ProjectStore, projectID string) error {
	cfg, err := store.GetProjectConfig(ctx, projectID)
	if err != nil {
		return fmt.Errorf("project %s: %w", projectID, err)
	}
	b, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return err
	}
	_, err = Out.Write(b)
	return err
}

func ListProjects(ctx context.Context, store ports.ProjectStore) error {
	ids, err := store.ListProjects(ctx)
	if err != nil {
		return err
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := fmt.Fprintln(Out, id); err != nil {
			return err
		}
	}
	return nil
}

func DeleteConfig(ctx context.Context, store ports.ProjectStore, projectID string) error {
	if _, err := store.GetProjectConfig(ctx, projectID); err != nil {
		return fmt.Errorf("project %s: %w", projectID, err)
	}
	if err := store.DeleteProjectConfig(ctx, projectID); err != nil {
		return err
	}
	flow.ForgetProject(projectID)
	log.WithField("projectID", projectID).Info("project config deleted")
	if err := Notifier.Notify(ctx, pub.ProjectEvent{Event: pub.EventProjectDeleted, ProjectID: projectID}); err != nil {
		log.WithError(err).Warn("failed to publish project event")
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
