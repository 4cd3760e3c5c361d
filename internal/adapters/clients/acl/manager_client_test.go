package acl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/cloudify-context/internal/domain"
	"github.com/jsamuelsen/cloudify-context/internal/platform/config"
)

func testClientConfig() config.ClientConfig {
	return config.ClientConfig{
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   10,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 3,
		},
		Transport: config.TransportConfig{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}

// setupManagerClient points a ManagerClient at a test server and returns it
// together with the server address.
func setupManagerClient(t *testing.T, handler http.Handler) (*ManagerClient, string) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	client, err := NewRestClient(
		Connection{Host: u.Hostname(), Port: port, Protocol: "http"},
		Credentials{Username: "admin", Password: "secret", Tenant: "t1"},
		testClientConfig(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)

	return NewManagerClient(ManagerClientConfig{
		Client: client,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}), server.URL
}

func TestNewManagerClient_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewManagerClient(ManagerClientConfig{})
	})
}

func TestNewRestClient_BadCABundle(t *testing.T) {
	_, err := NewRestClient(
		Connection{Host: "mgr", Port: 443, Protocol: "https", CACertPath: "/nonexistent/ca.pem"},
		Credentials{Username: "u", Password: "p"},
		testClientConfig(),
		nil,
	)
	assert.ErrorContains(t, err, "creating manager client")
}

func TestDescriptorFactory(t *testing.T) {
	var gotAuth, gotTenant string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTenant = r.Header.Get(HeaderTenant)
		assert.Equal(t, APIPath+"/deployments/d1", r.URL.Path)
		_, _ = io.WriteString(w, `{"id": "d1", "blueprint_id": "b1"}`)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	factory := DescriptorFactory(testClientConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	manager, err := factory(&config.Descriptor{
		RestHost:     u.Hostname(),
		RestPort:     port,
		RestProtocol: "http",
		Username:     "admin",
		Password:     "secret",
		Tenant:       "t1",
	})
	require.NoError(t, err)

	dep, err := manager.GetDeployment(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "b1", dep.BlueprintID)
	assert.Equal(t, AuthHeaders("admin", "secret", "t1").Get("Authorization"), gotAuth)
	assert.Equal(t, "t1", gotTenant)
}

func TestDescriptorFactory_BadCABundle(t *testing.T) {
	factory := DescriptorFactory(testClientConfig(), nil)

	_, err := factory(&config.Descriptor{
		RestHost: "mgr", RestPort: 443, RestProtocol: "https",
		SSLCert: "/nonexistent/ca.pem", Username: "u", Password: "p",
	})
	assert.ErrorContains(t, err, "creating manager client")
}

func TestDescriptorFactory_DefaultConfigPassesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	cfg, err := config.Load(config.Options{Dir: t.TempDir()})
	require.NoError(t, err)

	factory := DescriptorFactory(cfg.Client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	manager, err := factory(&config.Descriptor{
		RestHost: u.Hostname(), RestPort: port, RestProtocol: "http",
		Username: "admin", Password: "secret", Tenant: "t1",
	})
	require.NoError(t, err)

	const requests = 8
	for i := range requests {
		_, err := manager.FetchURL(context.Background(), server.URL+"/resources/blueprints/b1/script.sh")

		var httpErr *domain.HTTPError
		require.ErrorAs(t, err, &httpErr, "request %d", i+1)
		assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	}

	assert.Equal(t, int32(requests), calls.Load())
}

func TestManagerClient_GetBlueprint(t *testing.T) {
	var gotAuth, gotTenant, gotPath string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v3.1/blueprints/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTenant = r.Header.Get(HeaderTenant)
		gotPath = r.PathValue("id")
		_, _ = io.WriteString(w, `{
			"id": "b1",
			"tenant_name": "t1",
			"main_file_name": "blueprint.yaml",
			"state": "uploaded",
			"plan": {"nodes": []},
			"created_at": "2024-03-01T10:20:30.000Z"
		}`)
	})

	client, _ := setupManagerClient(t, mux)

	bp, err := client.GetBlueprint(context.Background(), "b1")
	require.NoError(t, err)

	assert.Equal(t, "b1", gotPath)
	assert.Equal(t, AuthHeaders("admin", "secret", "").Get("Authorization"), gotAuth)
	assert.Equal(t, "t1", gotTenant)
	assert.Equal(t, "b1", bp.ID)
	assert.Equal(t, "t1", bp.Tenant)
	assert.Equal(t, "blueprint.yaml", bp.MainFileName)
	assert.Contains(t, bp.Plan, "nodes")
	assert.Equal(t, 2024, bp.CreatedAt.Year())
}

func TestManagerClient_GetBlueprint_NotFound(t *testing.T) {
	client, _ := setupManagerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message": "blueprint b1 not found", "error_code": "not_found_error"}`)
	}))

	_, err := client.GetBlueprint(context.Background(), "b1")

	require.Error(t, err)
	assert.True(t, domain.IsHTTPStatus(err, http.StatusNotFound))
	assert.Contains(t, err.Error(), "blueprint b1 not found")

	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Not Found", httpErr.Reason)
	assert.Equal(t, "blueprint b1 not found", httpErr.Message)
}

func TestManagerClient_GetDeployment(t *testing.T) {
	client, _ := setupManagerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3.1/deployments/d1", r.URL.Path)
		_, _ = io.WriteString(w, `{
			"id": "d1",
			"blueprint_id": "b1",
			"inputs": {"port": 8080},
			"outputs": {},
			"workflows": [{"name": "install", "plugin": "default_workflows", "operation": "cloudify.plugins.workflows.install"}]
		}`)
	}))

	dep, err := client.GetDeployment(context.Background(), "d1")
	require.NoError(t, err)

	assert.Equal(t, "d1", dep.ID)
	assert.Equal(t, "b1", dep.BlueprintID)
	assert.InDelta(t, 8080, dep.Inputs["port"], 0)
	require.Len(t, dep.Workflows, 1)
	assert.Equal(t, "install", dep.Workflows[0].Name)
}

func TestManagerClient_GetNode(t *testing.T) {
	client, _ := setupManagerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3.1/nodes", r.URL.Path)
		assert.Equal(t, "d1", r.URL.Query().Get("deployment_id"))
		assert.Equal(t, "vm", r.URL.Query().Get("id"))
		_, _ = io.WriteString(w, `{
			"items": [{
				"id": "vm",
				"deployment_id": "d1",
				"type": "cloudify.nodes.Compute",
				"type_hierarchy": ["cloudify.nodes.Root", "cloudify.nodes.Compute"],
				"number_of_instances": 2,
				"properties": {"ip": "10.0.0.1"},
				"relationships": [{"type": "cloudify.relationships.contained_in", "target_id": "net"}]
			}],
			"metadata": {"pagination": {"total": 1}}
		}`)
	}))

	node, err := client.GetNode(context.Background(), "d1", "vm")
	require.NoError(t, err)

	assert.Equal(t, "vm", node.ID)
	assert.Equal(t, 2, node.NumberOfInstances)
	assert.Equal(t, []string{"cloudify.nodes.Root", "cloudify.nodes.Compute"}, node.TypeHierarchy)
	require.Len(t, node.Relationships, 1)
	assert.Equal(t, "net", node.Relationships[0].TargetID)
}

func TestManagerClient_GetNode_EmptyList(t *testing.T) {
	client, _ := setupManagerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items": []}`)
	}))

	_, err := client.GetNode(context.Background(), "d1", "ghost")

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Contains(t, err.Error(), "d1/ghost")
}

func TestManagerClient_GetNodeInstance(t *testing.T) {
	var gotQuery url.Values

	client, _ := setupManagerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3.1/node-instances/vm_abc123", r.URL.Path)
		gotQuery = r.URL.Query()
		_, _ = io.WriteString(w, `{
			"id": "vm_abc123",
			"node_id": "vm",
			"deployment_id": "d1",
			"state": "started",
			"version": 3,
			"runtime_properties": {"ip": "10.0.0.7"}
		}`)
	}))

	inst, err := client.GetNodeInstance(context.Background(), "vm_abc123", true)
	require.NoError(t, err)

	assert.Equal(t, "true", gotQuery.Get("_evaluate_functions"))
	assert.Equal(t, "vm", inst.NodeID)
	assert.Equal(t, 3, inst.Version)
	assert.Equal(t, "10.0.0.7", inst.RuntimeProperties["ip"])

	_, err = client.GetNodeInstance(context.Background(), "vm_abc123", false)
	require.NoError(t, err)
	assert.False(t, gotQuery.Has("_evaluate_functions"))
}

func TestManagerClient_MalformedBody(t *testing.T) {
	client, _ := setupManagerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id": `)
	}))

	_, err := client.GetDeployment(context.Background(), "d1")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestManagerClient_FetchURL(t *testing.T) {
	var gotAuth string

	client, base := setupManagerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/resources/plugins/x.zip" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte{0x50, 0x4b, 0x03, 0x04})
	}))

	data, err := client.FetchURL(context.Background(), base+"/resources/plugins/x.zip")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x50, 0x4b, 0x03, 0x04}, data)
	assert.NotEmpty(t, gotAuth)

	_, err = client.FetchURL(context.Background(), base+"/resources/missing")

	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, base+"/resources/missing", httpErr.URL)
}

func TestManagerClient_FetchURL_ServerError(t *testing.T) {
	client, base := setupManagerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.FetchURL(context.Background(), base+"/resources/x")

	assert.True(t, domain.IsHTTPStatus(err, http.StatusInternalServerError))
	assert.True(t, domain.IsUnavailable(err))
}

func TestManagerClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	u, _ := url.Parse(server.URL)
	port, _ := strconv.Atoi(u.Port())
	server.Close()

	rest, err := NewRestClient(
		Connection{Host: u.Hostname(), Port: port, Protocol: "http"},
		Credentials{Username: "u", Password: "p"},
		testClientConfig(),
		nil,
	)
	require.NoError(t, err)

	_, err = NewManagerClient(ManagerClientConfig{Client: rest}).GetBlueprint(context.Background(), "b1")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestManagerClient_Check(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)

	client, _ := setupManagerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3.1/status", r.URL.Path)
		if !healthy.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"status": "running"}`)
	}))

	assert.Equal(t, "manager", client.Name())
	require.NoError(t, client.Check(context.Background()))

	healthy.Store(false)
	err := client.Check(context.Background())
	assert.True(t, domain.IsForbidden(err))
}
