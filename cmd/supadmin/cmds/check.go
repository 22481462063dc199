package cmds

import (
	"context"
	"supadmin/internal/admin"
	"supadmin/internal/flow"
	"supadmin/internal/ports"
	"supadmin/internal/types"
)

type checkReport struct {
	ProjectID string              `json:"project_id,omitempty"`
	Config    types.AdminConfig   `json:"config"`
	Options   types.ClientOptions `json:"options"`
}

// Check builds an admin handle from the environment (through lookup) and prints the redacted config and options.
// Nothing is sent over the network.
func Check(lookup admin.LookupFunc) error {
	cfg := admin.ConfigFromEnv(lookup)
	cli, err := admin.NewClient(cfg)
	if err != nil {
		return err
	}
	cfg = cfg.Normalized()
	return printJSON(checkReport{Config: cfg.Redacted(), Options: cli.Options()})
}

// CheckProject is Check for a stored project.
func CheckProject(ctx context.Context, store ports.ProjectStore, projectID string) error {
	cfg, err := flow.LoadCachedProjectConfig(ctx, store, projectID)
	if err != nil {
		return err
	}
	cli, err := admin.NewClient(cfg)
	if err != nil {
		return err
	}
	return printJSON(checkReport{ProjectID: projectID, Config: cfg.Normalized().Redacted(), Options: cli.Options()})
}
