package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/cloudify-context/internal/platform/config"
	"github.com/jsamuelsen/cloudify-context/internal/testutil/fakemanager"
)

// setupManager starts a fake manager holding one operation's records and
// points the context environment variable at a descriptor for it.
func setupManager(t *testing.T) *fakemanager.Server {
	t.Helper()

	mgr := fakemanager.New("admin", "secret", "default_tenant")
	t.Cleanup(mgr.Close)

	mgr.AddBlueprint("b1")
	mgr.AddDeployment("d1", "b1")
	mgr.AddNode("d1", "vm", "cloudify.nodes.Compute")
	mgr.AddInstance("vm_1", "vm", "d1", map[string]any{"ip": "10.0.0.7"})

	body := fmt.Sprintf(`{
		"is_operation": true,
		"instance_id": "vm_1",
		"deployment_id": "d1",
		"blueprint_id": "b1",
		"rest_host": %q,
		"rest_port": %d,
		"username": "admin",
		"password": "secret",
		"tenant": "default_tenant"
	}`, mgr.Host(), mgr.Port())

	path := filepath.Join(t.TempDir(), "context.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv(config.DefaultContextEnvVar, path)
	t.Setenv("CFYCTX_LOG_LEVEL", "error")

	return mgr
}

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	code = execute(context.Background(), args, &out, &errOut)

	return code, out.String(), errOut.String()
}

func TestShow_Node(t *testing.T) {
	mgr := setupManager(t)

	code, stdout, stderr := run(t, "show", "node")
	require.Equal(t, ExitCodeSuccess, code, stderr)

	var node map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &node))
	assert.Equal(t, "vm", node["id"])
	assert.Equal(t, "cloudify.nodes.Compute", node["type"])

	assert.Equal(t, 1, mgr.Requests("/api/v3.1/node-instances/vm_1"))
	assert.Equal(t, 1, mgr.Requests("/api/v3.1/nodes"))
}

func TestShow_All(t *testing.T) {
	setupManager(t)

	code, stdout, stderr := run(t, "show", "all")
	require.Equal(t, ExitCodeSuccess, code, stderr)

	var summary struct {
		Kind     string `json:"kind"`
		Instance struct {
			RuntimeProperties map[string]any `json:"runtime_properties"`
		} `json:"instance"`
		Deployment struct {
			BlueprintID string `json:"blueprint_id"`
		} `json:"deployment"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.Equal(t, "operation", summary.Kind)
	assert.Equal(t, "10.0.0.7", summary.Instance.RuntimeProperties["ip"])
	assert.Equal(t, "b1", summary.Deployment.BlueprintID)
}

func TestShow_InvalidRecord(t *testing.T) {
	setupManager(t)

	code, _, stderr := run(t, "show", "plan")

	assert.Equal(t, ExitCodeError, code)
	assert.Contains(t, stderr, "invalid argument")
}

func TestShow_NoContext(t *testing.T) {
	t.Setenv(config.DefaultContextEnvVar, "")
	require.NoError(t, os.Unsetenv(config.DefaultContextEnvVar))

	code, _, stderr := run(t, "show", "blueprint")

	assert.Equal(t, ExitCodeNoContext, code)
	assert.Contains(t, stderr, "no context set")
}

func TestDescriptorFlagOverridesEnv(t *testing.T) {
	setupManager(t)
	path := os.Getenv(config.DefaultContextEnvVar)
	require.NoError(t, os.Unsetenv(config.DefaultContextEnvVar))

	code, stdout, stderr := run(t, "--descriptor", path, "show", "blueprint")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, `"id": "b1"`)
}

func TestGetResource_Fallback(t *testing.T) {
	mgr := setupManager(t)
	mgr.AddFile("blueprints/default_tenant/b1/scripts/install.sh", []byte("echo install"))

	code, stdout, stderr := run(t, "get-resource", "scripts/install.sh")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "echo install", stdout)

	assert.Equal(t, 1, mgr.Requests("/resources/deployments/default_tenant/d1/scripts/install.sh"))
	assert.Equal(t, 1, mgr.Requests("/resources/blueprints/default_tenant/b1/scripts/install.sh"))
}

func TestGetResource_FromManager(t *testing.T) {
	mgr := setupManager(t)
	mgr.AddFile("plugins/x.zip", []byte("zip"))

	code, stdout, stderr := run(t, "get-resource", "--manager", "plugins/x.zip")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "zip", stdout)
}

func TestGetResource_ServerErrorNoFallback(t *testing.T) {
	mgr := setupManager(t)
	mgr.FailWith("/resources/deployments/default_tenant/d1/a.txt", http.StatusInternalServerError)

	code, _, stderr := run(t, "get-resource", "a.txt")

	assert.Equal(t, ExitCodeError, code)
	assert.Contains(t, stderr, "500")
	assert.Zero(t, mgr.Requests("/resources/blueprints/"))
}

func TestDownloadResource(t *testing.T) {
	mgr := setupManager(t)
	mgr.AddFile("deployments/default_tenant/d1/config.ini", []byte("[main]"))
	target := filepath.Join(t.TempDir(), "config.ini")

	code, stdout, stderr := run(t, "download-resource", "config.ini", target)
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, target+"\n", stdout)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "[main]", string(content))
}

func TestCheck(t *testing.T) {
	setupManager(t)

	code, stdout, stderr := run(t, "check")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, `"status": "healthy"`)
}

func TestCheck_BadCredentials(t *testing.T) {
	mgr := setupManager(t)
	mgr.SetPassword("rotated")

	code, stdout, stderr := run(t, "check")

	assert.Equal(t, ExitCodeError, code)
	assert.Contains(t, stdout, `"status": "unhealthy"`)
	assert.Contains(t, stderr, "unhealthy: manager")
}

func TestVersion(t *testing.T) {
	code, stdout, _ := run(t, "--version")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "cfyctx version dev")
}
