package context

import "github.com/jsamuelsen/cloudify-context/internal/domain"

// Workflow is the context of a workflow run. It has no node scope.
type Workflow struct {
	*Common
	workflowID string
}

// NewWorkflow creates a workflow context.
func NewWorkflow(common *Common, workflowID string) *Workflow {
	return &Workflow{Common: common, workflowID: workflowID}
}

// Kind returns domain.KindWorkflow.
func (w *Workflow) Kind() domain.ContextKind { return domain.KindWorkflow }

// WorkflowID returns the workflow name.
func (w *Workflow) WorkflowID() string { return w.workflowID }
