// supadmin builds service-role Supabase clients from the environment or from a project store,
// and offers a few read-only operations on top of them.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"supadmin/cmd/supadmin/cmds"
	"supadmin/internal/admin"
	"supadmin/internal/api"
	"supadmin/internal/backends"
	"supadmin/internal/flow"
	"supadmin/internal/ports"
	"supadmin/internal/pub"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	EnvFileKey     = "ENV_FILE"
	LogLevelKey    = "LOG_LEVEL"
	EventsTopicKey = "EVENTS_SNS_ARN"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "supadmin",
		Short:         "Build and use service-role Supabase clients",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loadEnv()
			setupLogging()
			return nil
		},
	}
	root.AddCommand(newCheckCmd(), newQueryCmd(), newProjectCmd(), newServeCmd())
	return root
}

// loadEnv loads ENV_FILE (default .env). Variables already set in the process win.
func loadEnv() {
	envFile := os.Getenv(EnvFileKey)
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.WithField("file", envFile).Debug("env file not loaded")
	}
}

func setupLogging() {
	log.SetOutput(os.Stderr)
	level, err := log.ParseLevel(strings.ToLower(os.Getenv(LogLevelKey)))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// run wraps a command body so failures are logged once, the way the rest of the tool logs.
func run(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			log.WithError(err).Errorf("%s failed", cmd.CommandPath())
			return err
		}
		return nil
	}
}

func newCheckCmd() *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Build an admin client and print its (redacted) configuration",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string) error {
			if projectID == "" {
				return cmds.Check(os.LookupEnv)
			}
			store, err := backends.ProjectBackendFromEnv(cmd.Context())
			if err != nil {
				return err
			}
			return cmds.CheckProject(cmd.Context(), store, projectID)
		}),
	}
	cmd.Flags().StringVarP(&projectID, "project", "p", "", "stored project id (default: use the environment)")
	return cmd
}

func newQueryCmd() *cobra.Command {
	var (
		projectID string
		opts      flow.QueryOptions
		filters   []string
		selectExp string
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Select rows from a table with the service role (bypasses RLS)",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string) error {
			var err error
			opts.Filters, err = cmds.ParseFilters(filters)
			if err != nil {
				return err
			}
			var cli *admin.Client
			if projectID == "" {
				cli, err = admin.NewClientFromEnv()
			} else {
				cli, err = openStoredProject(cmd.Context(), projectID)
			}
			if err != nil {
				return err
			}
			return cmds.RunQuery(cmd.Context(), cli, opts, selectExp)
		}),
	}
	f := cmd.Flags()
	f.StringVarP(&projectID, "project", "p", "", "stored project id (default: use the environment)")
	f.StringVarP(&opts.Table, "table", "t", "", "table to read")
	f.StringSliceVarP(&opts.Columns, "columns", "c", nil, "columns to select (default *)")
	f.StringArrayVar(&filters, "eq", nil, "equality filter column=value, repeatable")
	f.StringVar(&opts.OrderBy, "order", "", "order by column")
	f.BoolVar(&opts.Desc, "desc", false, "descending order")
	f.IntVarP(&opts.Limit, "limit", "n", 100, "max rows, 0 for no limit")
	f.StringVarP(&selectExp, "select", "s", "", "JMESPath expression applied to the rows")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func openStoredProject(ctx context.Context, projectID string) (*admin.Client, error) {
	store, err := backends.ProjectBackendFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	return flow.OpenProject(ctx, store, projectID)
}

func withStore(ctx context.Context, fn func(ctx context.Context, s ports.ProjectStore) error) error {
	store, err := backends.ProjectBackendFromEnv(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, store)
}

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage stored project credentials",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loadEnv()
			setupLogging()
			return setupNotifier(cmd.Context())
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "put <file.yml>",
			Short: "Store a project from a YAML file",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, args []string) error {
				return withStore(cmd.Context(), func(ctx context.Context, s ports.ProjectStore) error {
					return cmds.PutConfig(ctx, s, args[0])
				})
			}),
		},
		&cobra.Command{
			Use:   "get <project-id>",
			Short: "Print a stored project, key redacted",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, args []string) error {
				return withStore(cmd.Context(), func(ctx context.Context, s ports.ProjectStore) error {
					return cmds.GetConfig(ctx, s, args[0])
				})
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored project ids",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, args []string) error {
				return withStore(cmd.Context(), cmds.ListProjects)
			}),
		},
		&cobra.Command{
			Use:   "delete <project-id>",
			Short: "Delete a stored project",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, args []string) error {
				return withStore(cmd.Context(), func(ctx context.Context, s ports.ProjectStore) error {
					return cmds.DeleteConfig(ctx, s, args[0])
				})
			}),
		},
	)
	return cmd
}

// setupNotifier enables project change events when EVENTS_SNS_ARN is set.
func setupNotifier(ctx context.Context) error {
	topic := os.Getenv(EventsTopicKey)
	if topic == "" {
		return nil
	}
	snsClient, err := backends.SNSClientFromEnv(ctx)
	if err != nil {
		return err
	}
	cmds.Notifier = &pub.Notifier{Pub: pub.NewSNS(snsClient), Topic: topic}
	return nil
}

func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the project check API",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string) error {
			store, err := backends.ProjectBackendFromEnv(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			stop, done := api.RunServerInterruptible(port, store)
			select {
			case <-ctx.Done():
				log.Info("shutting down")
				stop <- struct{}{}
				return <-done
			case err := <-done:
				return err
			}
		}),
	}
	cmd.Flags().IntVar(&port, "port", 8080, "listen port")
	return cmd
}
