// Package ports defines the interfaces the application layer depends on.
// Adapters implement them; methods take a context first and return domain
// types and domain errors.
package ports

import (
	"context"

	"github.com/jsamuelsen/cloudify-context/internal/domain"
)

// ManagerClient reads orchestration records and resources from a manager.
type ManagerClient interface {
	// GetBlueprint returns *domain.HTTPError on any non-2xx response.
	GetBlueprint(ctx context.Context, id string) (*domain.Blueprint, error)

	GetDeployment(ctx context.Context, id string) (*domain.Deployment, error)

	// GetNode looks a node up by deployment and node id. Returns
	// domain.ErrNotFound when the deployment has no such node.
	GetNode(ctx context.Context, deploymentID, nodeID string) (*domain.Node, error)

	// GetNodeInstance fetches a node instance, optionally asking the manager
	// to evaluate intrinsic functions in its runtime properties.
	GetNodeInstance(ctx context.Context, id string, evaluateFunctions bool) (*domain.NodeInstance, error)

	// FetchURL downloads an absolute URL with the manager credentials.
	FetchURL(ctx context.Context, rawURL string) ([]byte, error)
}
