// Package app contains application services that orchestrate use cases.
// It resolves the current orchestration context and reads records and
// resources through it; adapters and the CLI sit on either side.
package app

import (
	"context"
	"fmt"
	"log/slog"

	appctx "github.com/jsamuelsen/cloudify-context/internal/app/context"
	"github.com/jsamuelsen/cloudify-context/internal/domain"
	"github.com/jsamuelsen/cloudify-context/internal/platform/logging"
	"github.com/jsamuelsen/cloudify-context/internal/ports"
)

// Record names accepted by Service.Show.
const (
	RecordBlueprint  = "blueprint"
	RecordDeployment = "deployment"
	RecordInstance   = "instance"
	RecordNode       = "node"
	RecordAll        = "all"
)

// Records lists every name Service.Show accepts.
var Records = []string{RecordBlueprint, RecordDeployment, RecordInstance, RecordNode, RecordAll}

// ContextResolver returns the current orchestration context.
// *appctx.Resolver satisfies it.
type ContextResolver interface {
	Current(ctx context.Context) (appctx.Context, error)
}

// Endpoint is one side of a relationship.
type Endpoint struct {
	Instance *domain.NodeInstance `json:"instance"`
	Node     *domain.Node         `json:"node"`
}

// Summary is every record reachable from the current context.
type Summary struct {
	Kind       string             `json:"kind"`
	WorkflowID string             `json:"workflow_id,omitempty"`
	Blueprint  *domain.Blueprint  `json:"blueprint"`
	Deployment *domain.Deployment `json:"deployment"`

	// Operation contexts only.
	Instance *domain.NodeInstance `json:"instance,omitempty"`
	Node     *domain.Node         `json:"node,omitempty"`

	// Relationship contexts only.
	Source *Endpoint `json:"source,omitempty"`
	Target *Endpoint `json:"target,omitempty"`
}

// Service reads from the current orchestration context.
// It depends on port interfaces, not concrete implementations.
type Service struct {
	resolver ContextResolver
	health   ports.HealthRegistry
	logger   *slog.Logger
}

// ServiceConfig holds the service dependencies. Health is optional.
type ServiceConfig struct {
	Resolver ContextResolver
	Health   ports.HealthRegistry
	Logger   *slog.Logger
}

// NewService creates a new application service.
// Panics if Resolver is nil.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Resolver == nil {
		panic("app: ServiceConfig.Resolver is required")
	}

	logger := slog.Default()
	if cfg.Logger != nil {
		logger = cfg.Logger
	}

	return &Service{
		resolver: cfg.Resolver,
		health:   cfg.Health,
		logger:   logger.With(slog.String("component", "app.Service")),
	}
}

// current resolves the context and returns a ctx carrying it and a scoped
// logger.
func (s *Service) current(ctx context.Context) (appctx.Context, context.Context, error) {
	c, err := s.resolver.Current(ctx)
	if err != nil {
		s.logger.DebugContext(ctx, "context resolution failed", slog.Any("error", err))
		return nil, ctx, fmt.Errorf("resolving context: %w", err)
	}

	ctx = logging.WithScope(ctx, c.Kind().String(), c.DeploymentID())

	return c, appctx.WithContext(ctx, c), nil
}

// Show returns one record of the current context by name. Instance and node
// records are maps keyed by SideSource and SideTarget for relationship
// contexts and unavailable for workflows.
func (s *Service) Show(ctx context.Context, record string) (any, error) {
	if record == RecordAll {
		return s.Summary(ctx)
	}

	c, ctx, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).DebugContext(ctx, "showing record", slog.String("record", record))

	switch record {
	case RecordBlueprint:
		return asAny(c.Blueprint(ctx))
	case RecordDeployment:
		return asAny(c.Deployment(ctx))
	case RecordInstance, RecordNode:
		return showNodeScope(ctx, c, record)
	default:
		return nil, domain.NewValidationError("record", fmt.Sprintf("unknown record %q", record))
	}
}

func showNodeScope(ctx context.Context, c appctx.Context, record string) (any, error) {
	switch v := c.(type) {
	case *appctx.Operation:
		if record == RecordInstance {
			return asAny(v.Instance(ctx))
		}
		return asAny(v.Node(ctx))
	case *appctx.Relationship:
		if record == RecordInstance {
			return asAny(bySide(ctx, v.SourceInstance, v.TargetInstance))
		}
		return asAny(bySide(ctx, v.SourceNode, v.TargetNode))
	default:
		return nil, domain.NewValidationError("record",
			fmt.Sprintf("%s is not available in a %s context", record, c.Kind()))
	}
}

// Summary fetches every record of the current context concurrently.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	c, ctx, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Kind: c.Kind().String()}

	summary.Blueprint, summary.Deployment, err = both(ctx, c.Blueprint, c.Deployment)
	if err != nil {
		return nil, err
	}

	switch v := c.(type) {
	case *appctx.Operation:
		// Node depends on the instance, so they are fetched in order.
		if summary.Instance, err = v.Instance(ctx); err != nil {
			return nil, err
		}
		if summary.Node, err = v.Node(ctx); err != nil {
			return nil, err
		}
	case *appctx.Relationship:
		sides, err := bySide(ctx,
			endpoint(v.SourceInstance, v.SourceNode),
			endpoint(v.TargetInstance, v.TargetNode),
		)
		if err != nil {
			return nil, err
		}
		summary.Source, summary.Target = sides[SideSource], sides[SideTarget]
	case *appctx.Workflow:
		summary.WorkflowID = v.WorkflowID()
	}

	logging.FromContext(ctx).InfoContext(ctx, "context summary fetched")

	return summary, nil
}

func endpoint(instance fetcher[*domain.NodeInstance], node fetcher[*domain.Node]) fetcher[*Endpoint] {
	return func(ctx context.Context) (*Endpoint, error) {
		inst, err := instance(ctx)
		if err != nil {
			return nil, err
		}

		n, err := node(ctx)
		if err != nil {
			return nil, err
		}

		return &Endpoint{Instance: inst, Node: n}, nil
	}
}

// GetResource reads a resource. With fromManager the path is relative to
// the file server root; otherwise it is resolved in the deployment folder
// with the blueprint folder as fallback.
func (s *Service) GetResource(ctx context.Context, resourcePath string, fromManager bool) ([]byte, error) {
	if resourcePath == "" {
		return nil, domain.NewValidationError("path", "cannot be empty")
	}

	c, ctx, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	var data []byte
	if fromManager {
		data, err = c.GetResourceFromManager(ctx, resourcePath)
	} else {
		data, err = c.GetResource(ctx, resourcePath)
	}
	if err != nil {
		return nil, fmt.Errorf("getting resource %s: %w", resourcePath, err)
	}

	logging.FromContext(ctx).DebugContext(ctx, "resource fetched",
		slog.String("path", resourcePath),
		slog.Int("bytes", len(data)),
	)

	return data, nil
}

// DownloadResource saves a resource to targetPath, or to a temp file when
// targetPath is empty, and returns the path written.
func (s *Service) DownloadResource(ctx context.Context, resourcePath, targetPath string, fromManager bool) (string, error) {
	if resourcePath == "" {
		return "", domain.NewValidationError("path", "cannot be empty")
	}

	c, ctx, err := s.current(ctx)
	if err != nil {
		return "", err
	}

	var path string
	if fromManager {
		path, err = c.DownloadResourceFromManager(ctx, resourcePath, targetPath)
	} else {
		path, err = c.DownloadResource(ctx, resourcePath, targetPath)
	}
	if err != nil {
		return "", fmt.Errorf("downloading resource %s: %w", resourcePath, err)
	}

	logging.FromContext(ctx).InfoContext(ctx, "resource downloaded",
		slog.String("path", resourcePath),
		slog.String("target", path),
	)

	return path, nil
}

// Check resolves the context, which builds the manager client, then runs
// the registered health checks.
func (s *Service) Check(ctx context.Context) (*ports.HealthResult, error) {
	if s.health == nil {
		return nil, domain.NewValidationError("health", "no health registry configured")
	}

	if _, _, err := s.current(ctx); err != nil {
		return nil, err
	}

	return s.health.CheckAll(ctx), nil
}

func asAny[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
