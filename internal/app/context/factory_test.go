package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/cloudify-context/internal/domain"
	"github.com/jsamuelsen/cloudify-context/internal/mocks"
	"github.com/jsamuelsen/cloudify-context/internal/platform/config"
)

func baseDescriptor() config.Descriptor {
	return config.Descriptor{
		RestHost:     "mgr",
		RestPort:     80,
		RestProtocol: "http",
		Username:     "u",
		Password:     "p",
		Tenant:       "t1",
		BlueprintID:  "b1",
		DeploymentID: "d1",
	}
}

func TestFromDescriptor_Operation(t *testing.T) {
	d := baseDescriptor()
	d.IsOperation = true
	d.InstanceID = "i1"

	c := FromDescriptor(&d, mocks.NewMockManagerClient(t))

	op, ok := c.(*Operation)
	require.True(t, ok)
	assert.Equal(t, domain.KindOperation, op.Kind())
	assert.Equal(t, "i1", op.InstanceID())
	assert.Equal(t, "d1", op.DeploymentID())
	assert.Equal(t, "b1", op.BlueprintID())
	assert.Equal(t, "t1", op.Tenant())
	assert.Equal(t, "http://mgr:80/resources/", op.ManagerFileServerURL())
}

func TestFromDescriptor_Relationship(t *testing.T) {
	d := baseDescriptor()
	d.IsRelationshipOperation = true
	d.SourceInstanceID = "src"
	d.TargetInstanceID = "tgt"

	rel, ok := FromDescriptor(&d, mocks.NewMockManagerClient(t)).(*Relationship)
	require.True(t, ok)
	assert.Equal(t, "src", rel.SourceInstanceID())
	assert.Equal(t, "tgt", rel.TargetInstanceID())
}

func TestFromDescriptor_OperationFlagWins(t *testing.T) {
	d := baseDescriptor()
	d.IsOperation = true
	d.IsRelationshipOperation = true
	d.InstanceID = "i1"

	_, ok := FromDescriptor(&d, mocks.NewMockManagerClient(t)).(*Operation)
	assert.True(t, ok)
}

func TestFromDescriptor_WorkflowByDefault(t *testing.T) {
	d := baseDescriptor()
	d.WorkflowID = "install"

	wf, ok := FromDescriptor(&d, mocks.NewMockManagerClient(t)).(*Workflow)
	require.True(t, ok)
	assert.Equal(t, "install", wf.WorkflowID())
}
