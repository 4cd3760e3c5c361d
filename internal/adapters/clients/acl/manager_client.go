package acl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/jsamuelsen/cloudify-context/internal/adapters/clients"
	"github.com/jsamuelsen/cloudify-context/internal/domain"
	"github.com/jsamuelsen/cloudify-context/internal/platform/logging"
)

// ManagerClientConfig contains configuration for the manager client.
type ManagerClientConfig struct {
	// Client is the HTTP client, usually built by NewRestClient. Its
	// BaseURL must point at the REST API root.
	Client *clients.Client

	Logger *slog.Logger
}

// ManagerClient implements ports.ManagerClient against the manager REST API
// and file server.
type ManagerClient struct {
	transport transport
	logger *slog.Logger
}

// NewManagerClient creates a manager adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewManagerClient(cfg ManagerClientConfig) *ManagerClient {
	if cfg.Client == nil {
		panic("ManagerClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ManagerClient{
		transport: transport{client: cfg.Client, peer: managerServiceName},
		logger:    logger,
	}
}

// GetBlueprint fetches a blueprint by id.
func (c *ManagerClient) GetBlueprint(ctx context.Context, id string) (*domain.Blueprint, error) {
	ext, err := fetch[blueprintResponse](ctx, c, "/blueprints/"+url.PathEscape(id), "get blueprint")
	if err != nil {
		return nil, err
	}

	return translateBlueprint(ext)
}

// GetDeployment fetches a deployment by id.
func (c *ManagerClient) GetDeployment(ctx context.Context, id string) (*domain.Deployment, error) {
	ext, err := fetch[deploymentResponse](ctx, c, "/deployments/"+url.PathEscape(id), "get deployment")
	if err != nil {
		return nil, err
	}

	return translateDeployment(ext)
}

// GetNode fetches the node nodeID of a deployment. Node ids are only
// unique within a deployment, so the lookup is a filtered list.
func (c *ManagerClient) GetNode(ctx context.Context, deploymentID, nodeID string) (*domain.Node, error) {
	query := url.Values{}
	query.Set("deployment_id", deploymentID)
	query.Set("id", nodeID)

	list, err := fetch[nodeListResponse](ctx, c, "/nodes?"+query.Encode(), "get node")
	if err != nil {
		return nil, err
	}

	if len(list.Items) == 0 {
		return nil, domain.NewNotFoundError("node", deploymentID+"/"+nodeID)
	}

	return translateNode(&list.Items[0])
}

// GetNodeInstance fetches a node instance. With evaluateFunctions the
// manager resolves intrinsic functions in runtime properties.
func (c *ManagerClient) GetNodeInstance(ctx context.Context, id string, evaluateFunctions bool) (*domain.NodeInstance, error) {
	path := "/node-instances/" + url.PathEscape(id)
	if evaluateFunctions {
		path += "?_evaluate_functions=true"
	}

	ext, err := fetch[nodeInstanceResponse](ctx, c, path, "get node instance")
	if err != nil {
		return nil, err
	}

	return translateNodeInstance(ext)
}

// FetchURL downloads an absolute URL, typically a file server resource,
// with the manager credentials. Non-2xx responses return *domain.HTTPError.
func (c *ManagerClient) FetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	c.logger.Log(ctx, logging.LevelTrace, "fetching resource", slog.String("url", rawURL))

	body, err := c.transport.getURL(ctx, rawURL, "fetch resource")
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, domain.NewUnavailableError(managerServiceName, fmt.Sprintf("reading %s: %v", rawURL, err))
	}

	return data, nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *ManagerClient) Name() string {
	return managerServiceName
}

// Check verifies the manager is reachable and accepts the credentials.
// Implements ports.HealthChecker.
func (c *ManagerClient) Check(ctx context.Context) error {
	body, err := c.transport.get(ctx, "/status", "check status")
	if err != nil {
		return err
	}

	return body.Close()
}

// fetch GETs path and decodes the JSON body into T.
func fetch[T any](ctx context.Context, c *ManagerClient, path, operation string) (*T, error) {
	c.logger.Log(ctx, logging.LevelTrace, "manager request", slog.String("path", path))

	body, err := c.transport.get(ctx, path, operation)
	if err != nil {
		return nil, err
	}

	ext, err := DecodeResponse[T](body)
	if err != nil {
		return nil, domain.NewUnavailableError(managerServiceName, fmt.Sprintf("%s: %v", operation, err))
	}

	return ext, nil
}
