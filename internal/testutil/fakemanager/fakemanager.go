// Package fakemanager runs an in-process orchestration manager for tests.
// It serves the REST endpoints the manager adapter calls and a file server
// under /resources/, checks credentials, and counts requests.
package fakemanager

import (
	"encoding/base64"
	"encoding/json"
	"maps"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// apiPrefix is the REST API root the adapter targets.
const apiPrefix = "/api/v3.1"

// Server is a fake manager backed by httptest.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	username    string
	password    string
	tenant      string
	blueprints  map[string]map[string]any
	deployments map[string]map[string]any
	nodes       map[string]map[string]any // keyed "deployment/node"
	instances   map[string]map[string]any
	files       map[string][]byte
	failures    map[string]int
	requests    []string
}

// New starts a fake manager accepting the given credentials. An empty
// tenant means the Tenant header must be absent.
func New(username, password, tenant string) *Server {
	s := &Server{
		username:    username,
		password:    password,
		tenant:      tenant,
		blueprints:  make(map[string]map[string]any),
		deployments: make(map[string]map[string]any),
		nodes:       make(map[string]map[string]any),
		instances:   make(map[string]map[string]any),
		files:       make(map[string][]byte),
		failures:    make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+apiPrefix+"/status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "running"})
	})
	mux.HandleFunc("GET "+apiPrefix+"/blueprints/{id}", s.record(s.blueprints, "blueprint"))
	mux.HandleFunc("GET "+apiPrefix+"/deployments/{id}", s.record(s.deployments, "deployment"))
	mux.HandleFunc("GET "+apiPrefix+"/nodes", s.handleNodes)
	mux.HandleFunc("GET "+apiPrefix+"/node-instances/{id}", s.handleInstance)
	mux.HandleFunc("GET /resources/", s.handleFile)

	s.Server = httptest.NewServer(s.middleware(mux))

	return s
}

// Host returns the listener host.
func (s *Server) Host() string {
	u, _ := url.Parse(s.URL)
	return u.Hostname()
}

// Port returns the listener port.
func (s *Server) Port() int {
	u, _ := url.Parse(s.URL)
	port, _ := strconv.Atoi(u.Port())
	return port
}

// SetPassword changes the password the server accepts.
func (s *Server) SetPassword(password string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.password = password
}

// AddBlueprint registers a blueprint.
func (s *Server) AddBlueprint(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blueprints[id] = map[string]any{
		"id":             id,
		"tenant_name":    s.tenant,
		"main_file_name": "blueprint.yaml",
		"state":          "uploaded",
		"created_at":     "2024-06-15T14:30:00.000Z",
	}
}

// AddDeployment registers a deployment of blueprintID.
func (s *Server) AddDeployment(id, blueprintID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deployments[id] = map[string]any{
		"id":           id,
		"blueprint_id": blueprintID,
		"tenant_name":  s.tenant,
		"created_at":   "2024-06-15 14:31:00.000000",
		"workflows":    []map[string]any{{"name": "install", "plugin": "default_workflows"}},
	}
}

// AddNode registers a node of a deployment.
func (s *Server) AddNode(deploymentID, nodeID, nodeType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes[deploymentID+"/"+nodeID] = map[string]any{
		"id":                  nodeID,
		"deployment_id":       deploymentID,
		"type":                nodeType,
		"number_of_instances": 1,
	}
}

// AddInstance registers a node instance. runtime holds the evaluated
// runtime properties; without function evaluation every value is returned
// as an unevaluated get_attribute call.
func (s *Server) AddInstance(id, nodeID, deploymentID string, runtime map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.instances[id] = map[string]any{
		"id":                 id,
		"node_id":            nodeID,
		"deployment_id":      deploymentID,
		"state":              "started",
		"runtime_properties": runtime,
	}
}

// AddFile serves content at /resources/{path}.
func (s *Server) AddFile(path string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files["/resources/"+strings.TrimPrefix(path, "/")] = content
}

// FailWith answers every request to path (as seen by the server, without
// query) with status.
func (s *Server) FailWith(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[path] = status
}

// Requests returns how many requests had a path starting with prefix.
func (s *Server) Requests(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}

	return n
}

// RequestLog returns every request as "path?query", in arrival order.
func (s *Server) RequestLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.requests...)
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		entry := r.URL.Path
		if r.URL.RawQuery != "" {
			entry += "?" + r.URL.RawQuery
		}
		s.requests = append(s.requests, entry)
		status, failing := s.failures[r.URL.Path]
		username, password, wantTenant := s.username, s.password, s.tenant
		s.mu.Unlock()

		want := "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
		if r.Header.Get("Authorization") != want {
			writeError(w, http.StatusUnauthorized, "unauthorized_error", "bad credentials")
			return
		}

		tenant, sent := r.Header["Tenant"]
		if wantTenant == "" && sent || wantTenant != "" && (len(tenant) == 0 || tenant[0] != wantTenant) {
			writeError(w, http.StatusForbidden, "forbidden_error", "tenant mismatch")
			return
		}

		if failing {
			writeError(w, status, "injected_error", http.StatusText(status))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) record(store map[string]map[string]any, entity string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		rec, ok := store[r.PathValue("id")]
		s.mu.Unlock()

		if !ok {
			writeError(w, http.StatusNotFound, "not_found_error", entity+" not found")
			return
		}

		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	node, ok := s.nodes[q.Get("deployment_id")+"/"+q.Get("id")]
	s.mu.Unlock()

	items := []map[string]any{}
	if ok {
		items = append(items, node)
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleInstance(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	inst, ok := s.instances[r.PathValue("id")]
	if ok {
		inst = maps.Clone(inst)
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "not_found_error", "node instance not found")
		return
	}

	if r.URL.Query().Get("_evaluate_functions") != "true" {
		raw := make(map[string]any)
		if runtime, _ := inst["runtime_properties"].(map[string]any); runtime != nil {
			for k := range runtime {
				raw[k] = map[string]any{"get_attribute": []string{"SELF", k}}
			}
		}
		inst["runtime_properties"] = raw
	}

	writeJSON(w, http.StatusOK, inst)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	content, ok := s.files[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(content)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"message": message, "error_code": code})
}
