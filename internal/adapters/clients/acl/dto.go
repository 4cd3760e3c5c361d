package acl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jsamuelsen/cloudify-context/internal/domain"
)

// managerTimeLayouts are the timestamp formats emitted by manager versions.
var managerTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

// managerTime decodes manager timestamps; null and "" decode to zero.
type managerTime struct {
	time.Time
}

func (t *managerTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}

	if raw == "" {
		return nil
	}

	for _, layout := range managerTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}

	return fmt.Errorf("unrecognized timestamp %q", raw)
}

type blueprintResponse struct {
	ID           string         `json:"id"`
	TenantName   string         `json:"tenant_name"`
	Description  string         `json:"description"`
	MainFileName string         `json:"main_file_name"`
	State        string         `json:"state"`
	Plan         map[string]any `json:"plan"`
	CreatedAt    managerTime    `json:"created_at"`
	UpdatedAt    managerTime    `json:"updated_at"`
}

type workflowResponse struct {
	Name       string         `json:"name"`
	Plugin     string         `json:"plugin"`
	Operation  string         `json:"operation"`
	Parameters map[string]any `json:"parameters"`
}

type deploymentResponse struct {
	ID          string             `json:"id"`
	BlueprintID string             `json:"blueprint_id"`
	TenantName  string             `json:"tenant_name"`
	Description string             `json:"description"`
	Inputs      map[string]any     `json:"inputs"`
	Outputs     map[string]any     `json:"outputs"`
	Workflows   []workflowResponse `json:"workflows"`
	CreatedAt   managerTime        `json:"created_at"`
	UpdatedAt   managerTime        `json:"updated_at"`
}

type relationshipResponse struct {
	Type       string         `json:"type"`
	TargetID   string         `json:"target_id"`
	TargetName string         `json:"target_name"`
	Properties map[string]any `json:"properties"`
}

type nodeResponse struct {
	ID                string                 `json:"id"`
	DeploymentID      string                 `json:"deployment_id"`
	BlueprintID       string                 `json:"blueprint_id"`
	Type              string                 `json:"type"`
	TypeHierarchy     []string               `json:"type_hierarchy"`
	HostID            string                 `json:"host_id"`
	NumberOfInstances int                    `json:"number_of_instances"`
	Properties        map[string]any         `json:"properties"`
	Operations        map[string]any         `json:"operations"`
	Relationships     []relationshipResponse `json:"relationships"`
}

type nodeListResponse struct {
	Items []nodeResponse `json:"items"`
}

type nodeInstanceResponse struct {
	ID                string                 `json:"id"`
	NodeID            string                 `json:"node_id"`
	DeploymentID      string                 `json:"deployment_id"`
	HostID            string                 `json:"host_id"`
	State             string                 `json:"state"`
	Version           int                    `json:"version"`
	RuntimeProperties map[string]any         `json:"runtime_properties"`
	Relationships     []relationshipResponse `json:"relationships"`
}

func translateBlueprint(ext *blueprintResponse) (*domain.Blueprint, error) {
	if err := requireField(ext.ID, "blueprint.id"); err != nil {
		return nil, err
	}

	return &domain.Blueprint{
		ID:           ext.ID,
		Tenant:       ext.TenantName,
		Description:  ext.Description,
		MainFileName: ext.MainFileName,
		State:        ext.State,
		Plan:         ext.Plan,
		CreatedAt:    ext.CreatedAt.Time,
		UpdatedAt:    ext.UpdatedAt.Time,
	}, nil
}

func translateWorkflow(ext *workflowResponse) (domain.Workflow, error) {
	if err := requireField(ext.Name, "workflow.name"); err != nil {
		return domain.Workflow{}, err
	}

	return domain.Workflow{
		Name:       ext.Name,
		Plugin:     ext.Plugin,
		Operation:  ext.Operation,
		Parameters: ext.Parameters,
	}, nil
}

func translateDeployment(ext *deploymentResponse) (*domain.Deployment, error) {
	if err := requireField(ext.ID, "deployment.id"); err != nil {
		return nil, err
	}

	workflows, err := TranslateSlice(ext.Workflows, translateWorkflow)
	if err != nil {
		return nil, err
	}

	return &domain.Deployment{
		ID:          ext.ID,
		BlueprintID: ext.BlueprintID,
		Tenant:      ext.TenantName,
		Description: ext.Description,
		Inputs:      ext.Inputs,
		Outputs:     ext.Outputs,
		Workflows:   workflows,
		CreatedAt:   ext.CreatedAt.Time,
		UpdatedAt:   ext.UpdatedAt.Time,
	}, nil
}

func translateRelationship(ext *relationshipResponse) (domain.Relationship, error) {
	return domain.Relationship{
		Type:       ext.Type,
		TargetID:   ext.TargetID,
		TargetName: ext.TargetName,
		Properties: ext.Properties,
	}, nil
}

func translateNode(ext *nodeResponse) (*domain.Node, error) {
	if err := requireField(ext.ID, "node.id"); err != nil {
		return nil, err
	}

	relationships, err := TranslateSlice(ext.Relationships, translateRelationship)
	if err != nil {
		return nil, err
	}

	return &domain.Node{
		ID:                ext.ID,
		DeploymentID:      ext.DeploymentID,
		BlueprintID:       ext.BlueprintID,
		Type:              ext.Type,
		TypeHierarchy:     ext.TypeHierarchy,
		HostID:            ext.HostID,
		NumberOfInstances: ext.NumberOfInstances,
		Properties:        ext.Properties,
		Operations:        ext.Operations,
		Relationships:     relationships,
	}, nil
}

func translateNodeInstance(ext *nodeInstanceResponse) (*domain.NodeInstance, error) {
	if err := requireField(ext.ID, "node_instance.id"); err != nil {
		return nil, err
	}

	if err := requireField(ext.NodeID, "node_instance.node_id"); err != nil {
		return nil, err
	}

	relationships, err := TranslateSlice(ext.Relationships, translateRelationship)
	if err != nil {
		return nil, err
	}

	return &domain.NodeInstance{
		ID:                ext.ID,
		NodeID:            ext.NodeID,
		DeploymentID:      ext.DeploymentID,
		HostID:            ext.HostID,
		State:             ext.State,
		Version:           ext.Version,
		RuntimeProperties: ext.RuntimeProperties,
		Relationships:     relationships,
	}, nil
}
