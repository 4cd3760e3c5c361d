package context

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/jsamuelsen/cloudify-context/internal/domain"
	"github.com/jsamuelsen/cloudify-context/internal/platform/config"
	"github.com/jsamuelsen/cloudify-context/internal/platform/logging"
	"github.com/jsamuelsen/cloudify-context/internal/ports"
)

// ManagerFactory builds the manager client a descriptor points at.
type ManagerFactory func(d *config.Descriptor) (ports.ManagerClient, error)

// ResolverConfig holds configuration for a Resolver.
type ResolverConfig struct {
	// EnvVar names the variable holding the descriptor path.
	// Defaults to config.DefaultContextEnvVar.
	EnvVar string

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	// LoadDescriptor defaults to config.LoadDescriptor.
	LoadDescriptor func(path string) (*config.Descriptor, error)

	NewManager ManagerFactory
	Logger     *slog.Logger
}

// Resolver resolves the current context once per process and caches it.
// A failed resolution is not cached.
type Resolver struct {
	cfg ResolverConfig

	mu      sync.Mutex
	current Context
}

// NewResolver creates a Resolver.
// Panics if cfg.NewManager is nil.
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.NewManager == nil {
		panic("context: ResolverConfig.NewManager is required")
	}
	if cfg.EnvVar == "" {
		cfg.EnvVar = config.DefaultContextEnvVar
	}
	if cfg.LookupEnv == nil {
		cfg.LookupEnv = os.LookupEnv
	}
	if cfg.LoadDescriptor == nil {
		cfg.LoadDescriptor = config.LoadDescriptor
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.FromContext(context.Background())
	}

	return &Resolver{cfg: cfg}
}

// Current returns the resolved context, resolving it on first call.
// Returns domain.ErrNoContextSet without touching the filesystem when the
// environment variable is unset.
func (r *Resolver) Current(ctx context.Context) (Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		return r.current, nil
	}

	path, ok := r.cfg.LookupEnv(r.cfg.EnvVar)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not set", domain.ErrNoContextSet, r.cfg.EnvVar)
	}

	d, err := r.cfg.LoadDescriptor(path)
	if err != nil {
		return nil, err
	}

	manager, err := r.cfg.NewManager(d)
	if err != nil {
		return nil, err
	}

	r.current = FromDescriptor(d, manager)

	r.cfg.Logger.DebugContext(ctx, "context resolved",
		slog.String("context_kind", r.current.Kind().String()),
		slog.String("deployment_id", d.DeploymentID),
		slog.String("descriptor", path),
	)

	return r.current, nil
}
