package context

import (
	"context"

	"github.com/jsamuelsen/cloudify-context/internal/domain"
)

// Context is the capability set shared by every variant. Variant-specific
// accessors are reached with a type switch on *Operation, *Relationship or
// *Workflow.
type Context interface {
	Kind() domain.ContextKind

	BlueprintID() string
	DeploymentID() string
	Tenant() string

	// Blueprint and Deployment fetch on first call and are memoized.
	Blueprint(ctx context.Context) (*domain.Blueprint, error)
	Deployment(ctx context.Context) (*domain.Deployment, error)

	ManagerFileServerURL() string
	GetResourceFromManager(ctx context.Context, resourcePath string) ([]byte, error)
	DownloadResourceFromManager(ctx context.Context, resourcePath, targetPath string) (string, error)
	GetResource(ctx context.Context, resourcePath string) ([]byte, error)
	DownloadResource(ctx context.Context, resourcePath, targetPath string) (string, error)
}

type ctxKey struct{}

// FromContext extracts the orchestration context, returns nil if not present.
func FromContext(ctx context.Context) Context {
	if ctx == nil {
		return nil
	}
	if c, ok := ctx.Value(ctxKey{}).(Context); ok {
		return c
	}
	return nil
}

// WithContext stores the orchestration context in ctx.
func WithContext(ctx context.Context, c Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}
