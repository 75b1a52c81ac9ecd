package temporal

import (
	"context"
	"errors"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"golang.org/x/time/rate"

	"github.com/trac-dap/flowcore/errs"
	"github.com/trac-dap/flowcore/graph"
	"github.com/trac-dap/flowcore/graph/export"
)

// Options configures the Temporal executor adapter.
type Options struct {
	// Client is a pre-configured Temporal client. Required.
	Client client.Client
	// TaskQueue names the default queue workflow executions are started
	// on. Required.
	TaskQueue string
	// WorkflowType names the registered Temporal workflow that accepts an
	// exported graph.FlowDefinition and runs the flow. Required.
	WorkflowType string
	// StartRateLimiter bounds how often Execute may start a new workflow,
	// protecting the Temporal frontend from a burst of job submissions.
	// Nil disables rate limiting.
	StartRateLimiter *rate.Limiter
}

// Executor starts an external Temporal workflow for an already-built
// GraphSection. It holds no evaluation logic of its own: the workflow
// implementation (registered out-of-process) owns model execution.
type Executor struct {
	client       client.Client
	taskQueue    string
	workflowType string
	limiter      *rate.Limiter
}

// New returns an Executor over opts.
func New(opts Options) (*Executor, error) {
	if opts.Client == nil {
		return nil, errors.New("temporal client is required")
	}
	if opts.TaskQueue == "" {
		return nil, errors.New("task queue is required")
	}
	if opts.WorkflowType == "" {
		return nil, errors.New("workflow type is required")
	}
	return &Executor{
		client:       opts.Client,
		taskQueue:    opts.TaskQueue,
		workflowType: opts.WorkflowType,
		limiter:      opts.StartRateLimiter,
	}, nil
}

// NewWorkflowID returns a fresh random workflow id for callers that have no
// natural idempotency key (e.g. a job's own run id) to derive one from.
func NewWorkflowID() string {
	return uuid.NewString()
}

// Execute exports section to a round-trippable FlowDefinition and starts
// a workflow execution over it, returning the run handle. workflowID
// should be derived by the caller from the owning job (e.g. the job's
// run id) so repeated submissions are idempotent at the Temporal level;
// use NewWorkflowID when no such key exists.
func (e *Executor) Execute(ctx context.Context, workflowID string, section *graph.GraphSection[graph.NodeMetadata]) (client.WorkflowRun, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, errs.NewInternalError("executor.temporal", "rate limiter wait failed", err)
		}
	}

	flow := export.Export(section)
	opts := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: e.taskQueue,
	}
	run, err := e.client.ExecuteWorkflow(ctx, opts, e.workflowType, flow)
	if err != nil {
		return nil, errs.NewInternalError("executor.temporal", "could not start workflow", err)
	}
	return run, nil
}

// Status reports the execution status of a previously-started workflow.
// runID may be empty to query the workflow's current (latest) run.
func (e *Executor) Status(ctx context.Context, workflowID, runID string) (enumspb.WorkflowExecutionStatus, error) {
	resp, err := e.client.DescribeWorkflowExecution(ctx, workflowID, runID)
	if err != nil {
		return enumspb.WORKFLOW_EXECUTION_STATUS_UNSPECIFIED, errs.NewInternalError("executor.temporal", "could not describe workflow", err)
	}
	return resp.GetWorkflowExecutionInfo().GetStatus(), nil
}
