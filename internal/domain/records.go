package domain

import "time"

// Blueprint is a reusable service template uploaded to the manager.
type Blueprint struct {
	ID           string         `json:"id"`
	Tenant       string         `json:"tenant"`
	Description  string         `json:"description"`
	MainFileName string         `json:"main_file_name"`
	State        string         `json:"state"`
	Plan         map[string]any `json:"plan,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Deployment is a running instantiation of a blueprint.
type Deployment struct {
	ID          string         `json:"id"`
	BlueprintID string         `json:"blueprint_id"`
	Tenant      string         `json:"tenant"`
	Description string         `json:"description"`
	Inputs      map[string]any `json:"inputs,omitempty"`
	Outputs     map[string]any `json:"outputs,omitempty"`
	Workflows   []Workflow     `json:"workflows,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Workflow is a workflow declared on a deployment.
type Workflow struct {
	Name       string         `json:"name"`
	Plugin     string         `json:"plugin"`
	Operation  string         `json:"operation"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Relationship links a node (or node instance) to a target in the topology.
type Relationship struct {
	Type       string         `json:"type"`
	TargetID   string         `json:"target_id"`
	TargetName string         `json:"target_name"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Node is a deployment's topology entry.
type Node struct {
	ID                string         `json:"id"`
	DeploymentID      string         `json:"deployment_id"`
	BlueprintID       string         `json:"blueprint_id"`
	Type              string         `json:"type"`
	TypeHierarchy     []string       `json:"type_hierarchy,omitempty"`
	HostID            string         `json:"host_id"`
	NumberOfInstances int            `json:"number_of_instances"`
	Properties        map[string]any `json:"properties,omitempty"`
	Operations        map[string]any `json:"operations,omitempty"`
	Relationships     []Relationship `json:"relationships,omitempty"`
}

// NodeInstance is the live instantiation of a node. Runtime properties are
// returned with intrinsic functions already evaluated by the manager.
type NodeInstance struct {
	ID                string         `json:"id"`
	NodeID            string         `json:"node_id"`
	DeploymentID      string         `json:"deployment_id"`
	HostID            string         `json:"host_id"`
	State             string         `json:"state"`
	Version           int            `json:"version"`
	RuntimeProperties map[string]any `json:"runtime_properties,omitempty"`
	Relationships     []Relationship `json:"relationships,omitempty"`
}
