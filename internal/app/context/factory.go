package context

import (
	"github.com/jsamuelsen/cloudify-context/internal/domain"
	"github.com/jsamuelsen/cloudify-context/internal/platform/config"
	"github.com/jsamuelsen/cloudify-context/internal/ports"
)

// Compile-time interface checks
var (
	_ Context = (*Operation)(nil)
	_ Context = (*Relationship)(nil)
	_ Context = (*Workflow)(nil)
)

// FromDescriptor builds the variant the descriptor selects.
func FromDescriptor(d *config.Descriptor, manager ports.ManagerClient) Context {
	common := NewCommon(CommonConfig{
		RestHost:     d.RestHost,
		RestPort:     d.RestPort,
		RestProtocol: d.RestProtocol,
		Tenant:       d.Tenant,
		BlueprintID:  d.BlueprintID,
		DeploymentID: d.DeploymentID,
		Manager:      manager,
	})

	switch d.Kind() {
	case domain.KindOperation:
		return NewOperation(common, d.InstanceID)
	case domain.KindRelationship:
		return NewRelationship(common, d.SourceInstanceID, d.TargetInstanceID)
	default:
		return NewWorkflow(common, d.WorkflowID)
	}
}
