package worker

import (
	"github.com/hearthkit/hearth/internal/history"
	"github.com/hearthkit/hearth/pkg/models"
)

// TurnContext carries all mutable orchestration state for one user
// turn. It is passed explicitly to every activation instead of living
// in ambient globals, so each component owns it exclusively while
// live and concurrent extensions can swap the single collaboration
// slot for per-exchange tokens.
type TurnContext struct {
	// Queue is the ordered task queue for this turn. The head is
	// popped only when its task completes.
	Queue *models.TaskQueue

	// Collaboration is the single system-wide collaboration slot.
	// At most one request may be outstanding at any instant.
	Collaboration models.CollaborationRequest

	// Pending marks the one suspended task awaiting a collaborator's
	// answer. With a single collaboration slot there is never more
	// than one.
	Pending models.PendingTask

	// Responses holds collaboration answers addressed to a specific
	// requester, keyed by the answering worker. Write-once, consumed
	// and cleared by the requester when it resumes.
	Responses map[models.DeviceID]string

	// Results holds finalized task outcomes visible to the session
	// driver, keyed by worker.
	Results map[models.DeviceID]string

	// History is the session-scoped append-only event record shared
	// by every worker's oracle calls.
	History *history.Log
}

// NewTurnContext creates the context for one turn over the given
// queue and session history.
func NewTurnContext(queue *models.TaskQueue, log *history.Log) *TurnContext {
	return &TurnContext{
		Queue:     queue,
		Responses: make(map[models.DeviceID]string),
		Results:   make(map[models.DeviceID]string),
		History:   log,
	}
}

// StepKind discriminates the control transfer a worker activation
// returns.
type StepKind int

const (
	// StepDispatchWorker transfers control directly to another worker.
	StepDispatchWorker StepKind = iota
	// StepReturnToPlanner hands control back to the task planner.
	StepReturnToPlanner
)

// NextStep is the explicit control-transfer value returned by an
// activation and interpreted by the orchestrator's dispatch loop.
type NextStep struct {
	Kind StepKind
	// Target is the worker to dispatch when Kind is StepDispatchWorker.
	Target models.DeviceID
}

// DispatchWorker returns a step transferring control to the given worker.
func DispatchWorker(target models.DeviceID) NextStep {
	return NextStep{Kind: StepDispatchWorker, Target: target}
}

// ReturnToPlanner returns a step handing control back to the planner.
func ReturnToPlanner() NextStep {
	return NextStep{Kind: StepReturnToPlanner}
}
