package context

import (
	"context"

	"github.com/jsamuelsen/cloudify-context/internal/domain"
)

// Operation is the context of a lifecycle operation on one node instance.
type Operation struct {
	*Common
	instanceID string
}

// NewOperation creates an operation context for instanceID.
func NewOperation(common *Common, instanceID string) *Operation {
	return &Operation{Common: common, instanceID: instanceID}
}

// Kind returns domain.KindOperation.
func (o *Operation) Kind() domain.ContextKind { return domain.KindOperation }

// InstanceID returns the node instance identifier.
func (o *Operation) InstanceID() string { return o.instanceID }

// Instance returns the node instance with intrinsic functions evaluated.
func (o *Operation) Instance(ctx context.Context) (*domain.NodeInstance, error) {
	return o.instance(ctx, keyInstance, o.instanceID)
}

// Node returns the node owning the instance, fetching the instance first
// if needed.
func (o *Operation) Node(ctx context.Context) (*domain.Node, error) {
	return o.nodeOf(ctx, keyNode, keyInstance, o.instanceID)
}
