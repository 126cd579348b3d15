// Package worker implements the generic device worker state machine.
// Every device runs the same three-branch protocol; device-specific
// behavior is pure configuration data carried by the oracle's catalog.
package worker

import (
	"context"
	"fmt"

	"github.com/hearthkit/hearth/internal/oracle"
	"github.com/hearthkit/hearth/pkg/models"
)

// Worker is one device-identified participant. An activation
// evaluates three mutually exclusive branches in fixed priority
// order:
//
//  1. Inbound collaboration: this worker is the target of the
//     outstanding request. It answers directly and hands control
//     back to the requester. Answering may never itself delegate;
//     that is the depth-limit invariant.
//  2. Resume: this worker has a pending task and the collaborator's
//     answer is waiting in its response slot. The task always
//     completes here.
//  3. New task: this worker owns the queue head. The oracle either
//     completes it directly or names exactly one collaborator.
//
// The branch order makes the checks unambiguous: the shared
// collaboration and pending slots are cleared before any transition
// that could re-trigger an earlier branch. A worker reached with no
// matching branch is a protocol violation, not a recoverable state.
type Worker struct {
	id     models.DeviceID
	oracle oracle.Oracle
}

// New creates a worker for the given device identity.
func New(id models.DeviceID, o oracle.Oracle) *Worker {
	return &Worker{id: id, oracle: o}
}

// ID returns the worker's device identity.
func (w *Worker) ID() models.DeviceID {
	return w.id
}

// Activate runs one activation against the turn context and returns
// the explicit control transfer for the dispatch loop.
func (w *Worker) Activate(ctx context.Context, turn *TurnContext) (NextStep, error) {
	switch {
	case !turn.Collaboration.Zero() && turn.Collaboration.Target == w.id:
		return w.answerCollaboration(ctx, turn)
	case !turn.Pending.Zero() && turn.Pending.Device == w.id:
		return w.resumePending(ctx, turn)
	default:
		if head, ok := turn.Queue.Head(); ok && head.Device == w.id {
			return w.startTask(ctx, turn, head)
		}
	}
	return NextStep{}, violation(w.id, "activated with no matching branch (collaboration target=%s, pending device=%s, queue len=%d)",
		turn.Collaboration.Target, turn.Pending.Device, turn.Queue.Len())
}

// answerCollaboration handles branch 1: resolve the inbound request
// directly and transfer control back to the requester.
func (w *Worker) answerCollaboration(ctx context.Context, turn *TurnContext) (NextStep, error) {
	req := turn.Collaboration
	if req.Requester == w.id {
		return NextStep{}, violation(w.id, "collaboration request from itself")
	}

	answer, err := w.oracle.AnswerCollaboration(ctx, w.id, req.Requester, req.Request)
	if err != nil {
		return NextStep{}, fmt.Errorf("worker %s: %w", w.id, err)
	}

	turn.Responses[w.id] = answer
	turn.History.Append(models.HistoryEntry{
		Device:      w.id,
		Type:        models.HistoryCollaborationResponse,
		ActionTaken: req.Request,
		Result:      answer,
	})
	// Cleared before transferring control so the requester's resume
	// branch, not this branch, fires next.
	turn.Collaboration = models.CollaborationRequest{}

	return DispatchWorker(req.Requester), nil
}

// resumePending handles branch 2: consume the collaborator's answer
// and finalize the suspended task. A resumed task always completes.
func (w *Worker) resumePending(ctx context.Context, turn *TurnContext) (NextStep, error) {
	collaborator := turn.Pending.WaitingFor
	answer, ok := turn.Responses[collaborator]
	if !ok {
		return NextStep{}, violation(w.id, "resumed with no answer from %s", collaborator)
	}

	head, ok := turn.Queue.Head()
	if !ok || head.Device != w.id {
		return NextStep{}, violation(w.id, "pending task does not match queue head")
	}

	result, err := w.oracle.Resume(ctx, w.id, turn.Pending.Action, turn.History.Render(), collaborator, answer)
	if err != nil {
		return NextStep{}, fmt.Errorf("worker %s: %w", w.id, err)
	}

	action := turn.Pending.Action
	turn.Queue.Pop()
	turn.Results[w.id] = result
	turn.Pending = models.PendingTask{}
	turn.Collaboration = models.CollaborationRequest{}
	delete(turn.Responses, collaborator)
	turn.History.Append(models.HistoryEntry{
		Device:      w.id,
		Type:        models.HistoryTaskCompletion,
		ActionTaken: action,
		Result:      result,
	})

	return ReturnToPlanner(), nil
}

// startTask handles branch 3: evaluate the fresh queue-head task.
func (w *Worker) startTask(ctx context.Context, turn *TurnContext, task models.Task) (NextStep, error) {
	decision, err := w.oracle.Decide(ctx, w.id, task.Action, turn.History.Render())
	if err != nil {
		return NextStep{}, fmt.Errorf("worker %s: %w", w.id, err)
	}

	if decision.NeedsCollaboration() {
		if !turn.Collaboration.Zero() {
			return NextStep{}, violation(w.id, "collaboration request while one is already outstanding (target=%s)",
				turn.Collaboration.Target)
		}
		if !turn.Pending.Zero() {
			return NextStep{}, violation(w.id, "new collaboration while %s is still suspended", turn.Pending.Device)
		}

		turn.Collaboration = models.CollaborationRequest{
			Requester: w.id,
			Target:    decision.Target,
			Request:   decision.Request,
		}
		turn.Pending = models.PendingTask{
			Device:     w.id,
			Action:     task.Action,
			WaitingFor: decision.Target,
		}
		// The queue head stays in place until the task resumes and
		// completes.
		turn.History.Append(models.HistoryEntry{
			Device:      w.id,
			Type:        models.HistoryCollaborationRequest,
			ActionTaken: task.Action,
			Result:      fmt.Sprintf("asked %s: %s", decision.Target, decision.Request),
		})

		return DispatchWorker(decision.Target), nil
	}

	turn.Queue.Pop()
	turn.Results[w.id] = decision.Result
	turn.History.Append(models.HistoryEntry{
		Device:      w.id,
		Type:        models.HistoryTaskCompletion,
		ActionTaken: task.Action,
		Result:      decision.Result,
	})

	return ReturnToPlanner(), nil
}
