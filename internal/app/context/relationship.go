package context

import (
	"context"

	"github.com/jsamuelsen/cloudify-context/internal/domain"
)

// Relationship is the context of a relationship operation between a source
// and a target node instance. The two sides are fetched independently.
type Relationship struct {
	*Common
	sourceInstanceID string
	targetInstanceID string
}

// NewRelationship creates a relationship context.
func NewRelationship(common *Common, sourceInstanceID, targetInstanceID string) *Relationship {
	return &Relationship{
		Common:           common,
		sourceInstanceID: sourceInstanceID,
		targetInstanceID: targetInstanceID,
	}
}

// Kind returns domain.KindRelationship.
func (r *Relationship) Kind() domain.ContextKind { return domain.KindRelationship }

// SourceInstanceID returns the source node instance identifier.
func (r *Relationship) SourceInstanceID() string { return r.sourceInstanceID }

// TargetInstanceID returns the target node instance identifier.
func (r *Relationship) TargetInstanceID() string { return r.targetInstanceID }

// SourceInstance returns the source node instance with intrinsic functions
// evaluated.
func (r *Relationship) SourceInstance(ctx context.Context) (*domain.NodeInstance, error) {
	return r.instance(ctx, keySourceInstance, r.sourceInstanceID)
}

// SourceNode returns the node owning the source instance.
func (r *Relationship) SourceNode(ctx context.Context) (*domain.Node, error) {
	return r.nodeOf(ctx, keySourceNode, keySourceInstance, r.sourceInstanceID)
}

// TargetInstance returns the target node instance with intrinsic functions
// evaluated.
func (r *Relationship) TargetInstance(ctx context.Context) (*domain.NodeInstance, error) {
	return r.instance(ctx, keyTargetInstance, r.targetInstanceID)
}

// TargetNode returns the node owning the target instance.
func (r *Relationship) TargetNode(ctx context.Context) (*domain.Node, error) {
	return r.nodeOf(ctx, keyTargetNode, keyTargetInstance, r.targetInstanceID)
}
