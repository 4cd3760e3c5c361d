package context

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jsamuelsen/cloudify-context/internal/domain"
	"github.com/jsamuelsen/cloudify-context/internal/platform/fsutil"
	"github.com/jsamuelsen/cloudify-context/internal/platform/logging"
	"github.com/jsamuelsen/cloudify-context/internal/ports"
)

// File server folders.
const (
	resourcesFolder   = "resources"
	deploymentsFolder = "deployments"
	blueprintsFolder  = "blueprints"
)

// Memo keys.
const (
	keyBlueprint      = "blueprint"
	keyDeployment     = "deployment"
	keyInstance       = "instance"
	keyNode           = "node"
	keySourceInstance = "source_instance"
	keySourceNode     = "source_node"
	keyTargetInstance = "target_instance"
	keyTargetNode     = "target_node"
)

// CommonConfig holds what every variant is built from.
type CommonConfig struct {
	RestHost     string
	RestPort     int
	RestProtocol string
	Tenant       string
	BlueprintID  string
	DeploymentID string

	Manager ports.ManagerClient
}

// Common holds connection details, scope identifiers and the memoized
// blueprint and deployment. Variants embed it.
type Common struct {
	cfg     CommonConfig
	manager ports.ManagerClient
	memo    Memo
}

// NewCommon creates the shared core of a context.
// Panics if cfg.Manager is nil.
func NewCommon(cfg CommonConfig) *Common {
	if cfg.Manager == nil {
		panic("context: CommonConfig.Manager is required")
	}

	return &Common{cfg: cfg, manager: cfg.Manager}
}

// BlueprintID returns the blueprint identifier.
func (c *Common) BlueprintID() string { return c.cfg.BlueprintID }

// DeploymentID returns the deployment identifier.
func (c *Common) DeploymentID() string { return c.cfg.DeploymentID }

// Tenant returns the tenant, possibly empty.
func (c *Common) Tenant() string { return c.cfg.Tenant }

// Blueprint returns the blueprint record.
func (c *Common) Blueprint(ctx context.Context) (*domain.Blueprint, error) {
	return getOrFetch(ctx, &c.memo, keyBlueprint, func(ctx context.Context) (*domain.Blueprint, error) {
		return c.manager.GetBlueprint(ctx, c.cfg.BlueprintID)
	})
}

// Deployment returns the deployment record.
func (c *Common) Deployment(ctx context.Context) (*domain.Deployment, error) {
	return getOrFetch(ctx, &c.memo, keyDeployment, func(ctx context.Context) (*domain.Deployment, error) {
		return c.manager.GetDeployment(ctx, c.cfg.DeploymentID)
	})
}

// ManagerFileServerURL returns "{protocol}://{host}:{port}/resources/".
func (c *Common) ManagerFileServerURL() string {
	return fmt.Sprintf("%s://%s:%d/%s/", c.cfg.RestProtocol, c.cfg.RestHost, c.cfg.RestPort, resourcesFolder)
}

// GetResourceFromManager downloads a path relative to the file server root.
func (c *Common) GetResourceFromManager(ctx context.Context, resourcePath string) ([]byte, error) {
	return c.manager.FetchURL(ctx, joinURL(c.ManagerFileServerURL(), resourcePath))
}

// DownloadResourceFromManager saves a file server resource to targetPath,
// or to a new temp file when targetPath is empty.
func (c *Common) DownloadResourceFromManager(ctx context.Context, resourcePath, targetPath string) (string, error) {
	data, err := c.GetResourceFromManager(ctx, resourcePath)
	if err != nil {
		return "", err
	}

	return fsutil.Save(data, targetPath)
}

// GetResource downloads a deployment resource, falling back to the
// blueprint's copy only when the deployment folder answers 404. Errors from
// the blueprint folder are returned as is.
func (c *Common) GetResource(ctx context.Context, resourcePath string) ([]byte, error) {
	base := c.ManagerFileServerURL()

	data, err := c.manager.FetchURL(ctx,
		joinURL(base, deploymentsFolder, c.cfg.Tenant, c.cfg.DeploymentID, resourcePath))
	if err == nil || !domain.IsHTTPStatus(err, http.StatusNotFound) {
		return data, err
	}

	logging.FromContext(ctx).DebugContext(ctx, "resource not in deployment folder, trying blueprint",
		slog.String("path", resourcePath),
		slog.String("blueprint_id", c.cfg.BlueprintID),
	)

	return c.manager.FetchURL(ctx,
		joinURL(base, blueprintsFolder, c.cfg.Tenant, c.cfg.BlueprintID, resourcePath))
}

// DownloadResource resolves a resource like GetResource and saves it.
func (c *Common) DownloadResource(ctx context.Context, resourcePath, targetPath string) (string, error) {
	data, err := c.GetResource(ctx, resourcePath)
	if err != nil {
		return "", err
	}

	return fsutil.Save(data, targetPath)
}

// instance fetches a node instance with intrinsic functions evaluated and
// memoizes it under key.
func (c *Common) instance(ctx context.Context, key, instanceID string) (*domain.NodeInstance, error) {
	return getOrFetch(ctx, &c.memo, key, func(ctx context.Context) (*domain.NodeInstance, error) {
		return c.manager.GetNodeInstance(ctx, instanceID, true)
	})
}

// nodeOf fetches the node owning the instance memoized under instanceKey.
func (c *Common) nodeOf(ctx context.Context, key, instanceKey, instanceID string) (*domain.Node, error) {
	return getOrFetch(ctx, &c.memo, key, func(ctx context.Context) (*domain.Node, error) {
		inst, err := c.instance(ctx, instanceKey, instanceID)
		if err != nil {
			return nil, err
		}

		return c.manager.GetNode(ctx, c.cfg.DeploymentID, inst.NodeID)
	})
}

// joinURL appends path segments to base with single slashes. Empty
// segments are skipped, so an unset tenant leaves no empty folder.
func joinURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))

	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(s)
	}

	return b.String()
}
