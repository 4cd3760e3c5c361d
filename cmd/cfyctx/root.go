package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/cloudify-context/internal/adapters/clients/acl"
	"github.com/jsamuelsen/cloudify-context/internal/app"
	appctx "github.com/jsamuelsen/cloudify-context/internal/app/context"
	"github.com/jsamuelsen/cloudify-context/internal/domain"
	"github.com/jsamuelsen/cloudify-context/internal/platform/config"
	"github.com/jsamuelsen/cloudify-context/internal/platform/logging"
	"github.com/jsamuelsen/cloudify-context/internal/platform/telemetry"
	"github.com/jsamuelsen/cloudify-context/internal/ports"
)

// Exit codes.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1

	// ExitCodeNoContext means the descriptor environment variable is unset.
	ExitCodeNoContext = 2
)

// cli holds state shared by every subcommand. It is filled in by the root
// command's PersistentPreRunE.
type cli struct {
	profile        string
	logLevel       string
	correlationID  string
	descriptorPath string

	stderr    io.Writer
	logger    *slog.Logger
	telemetry *telemetry.Provider
	endSpan   func(error)
	service   *app.Service
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd, c := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	c.teardown(ctx, err)

	if err == nil {
		return ExitCodeSuccess
	}

	fmt.Fprintf(stderr, "error: %v\n", err)

	if domain.IsNoContextSet(err) {
		return ExitCodeNoContext
	}

	return ExitCodeError
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	cmd := &cobra.Command{
		Use:   "cfyctx",
		Short: "Inspect the current orchestration context",
		Long: `cfyctx reads the context descriptor named by an environment variable
and shows the blueprint, deployment, node and node instance records it
points at. It also fetches resources from the manager file server.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	cmd.SetVersionTemplate(`{{printf "cfyctx version %s (" .Version}}` + Commit + ")\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.profile, "profile", os.Getenv("APP_ENVIRONMENT"), "configuration profile (configs/{profile}.yaml)")
	flags.StringVar(&c.logLevel, "log-level", "", "override the configured log level")
	flags.StringVar(&c.correlationID, "correlation-id", "", "correlation ID sent to the manager (default: random)")
	flags.StringVar(&c.descriptorPath, "descriptor", "", "descriptor file, overriding the environment variable")

	cmd.AddCommand(
		newShowCmd(c),
		newGetResourceCmd(c),
		newDownloadResourceCmd(c),
		newCheckCmd(c),
	)

	return cmd, c
}

// setup loads configuration and builds the logger, telemetry and service.
func (c *cli) setup(cmd *cobra.Command) error {
	c.stderr = cmd.ErrOrStderr()

	cfg, err := config.Load(config.Options{Profile: c.profile})
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	c.logger = logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, c.stderr)
	logging.SetDefault(c.logger)

	ctx := cmd.Context()

	c.telemetry, err = telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	if c.correlationID == "" {
		c.correlationID = uuid.NewString()
	}
	ctx = logging.WithContext(ctx, c.logger)
	ctx = logging.WithCorrelationID(ctx, c.correlationID)
	ctx, c.endSpan = telemetry.StartCommand(ctx, cmd.CommandPath())
	cmd.SetContext(ctx)

	health := ports.NewHealthRegistry()
	newManager := acl.DescriptorFactory(cfg.Client, c.logger)

	lookupEnv := os.LookupEnv
	if c.descriptorPath != "" {
		path := c.descriptorPath
		lookupEnv = func(string) (string, bool) { return path, true }
	}

	resolver := appctx.NewResolver(appctx.ResolverConfig{
		EnvVar:    cfg.Context.EnvVar,
		LookupEnv: lookupEnv,
		NewManager: func(d *config.Descriptor) (ports.ManagerClient, error) {
			manager, err := newManager(d)
			if err != nil {
				return nil, err
			}
			if checker, ok := manager.(ports.HealthChecker); ok {
				if err := health.Register(checker); err != nil {
					return nil, err
				}
			}
			return manager, nil
		},
		Logger: c.logger,
	})

	c.service = app.NewService(app.ServiceConfig{
		Resolver: resolver,
		Health:   health,
		Logger:   c.logger,
	})

	c.logger.DebugContext(ctx, "cfyctx ready",
		slog.String("command", cmd.CommandPath()),
		slog.String("commit", Commit),
		slog.String("context_env_var", cfg.Context.EnvVar),
	)

	return nil
}

// teardown ends the command span and flushes telemetry. It runs whether or
// not the command failed.
func (c *cli) teardown(ctx context.Context, cmdErr error) {
	if c.endSpan != nil {
		c.endSpan(cmdErr)
	}

	if c.telemetry == nil {
		return
	}

	if err := c.telemetry.Shutdown(ctx); err != nil {
		c.logger.WarnContext(ctx, "telemetry shutdown error", slog.Any("error", err))
	}
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	return nil
}

// errUnhealthy is returned by check when any health check fails.
var errUnhealthy = errors.New("unhealthy")
