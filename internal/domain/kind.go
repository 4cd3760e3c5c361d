package domain

// ContextKind identifies which variant of execution context is in effect.
type ContextKind int

const (
	// KindWorkflow is a workflow-scoped context with no node instance.
	KindWorkflow ContextKind = iota

	// KindOperation is a lifecycle operation running against one node instance.
	KindOperation

	// KindRelationship is a relationship operation with a source and target instance.
	KindRelationship
)

// String returns the descriptor-style name of the kind.
func (k ContextKind) String() string {
	switch k {
	case KindWorkflow:
		return "workflow"
	case KindOperation:
		return "operation"
	case KindRelationship:
		return "relationship"
	default:
		return "unknown"
	}
}
