package orchestrator

import (
	"time"

	"github.com/hearthkit/hearth/pkg/models"
)

// EventType represents the type of orchestrator event.
type EventType string

const (
	// EventTurnStarted indicates a user turn has begun.
	EventTurnStarted EventType = "turn_started"
	// EventPlanCreated indicates the planner produced a task queue.
	EventPlanCreated EventType = "plan_created"
	// EventActivation indicates a worker received control.
	EventActivation EventType = "activation"
	// EventCollaborationRequested indicates a worker suspended on a sub-question.
	EventCollaborationRequested EventType = "collaboration_requested"
	// EventCollaborationAnswered indicates the target resolved a request.
	EventCollaborationAnswered EventType = "collaboration_answered"
	// EventTaskCompleted indicates a task finished and left the queue.
	EventTaskCompleted EventType = "task_completed"
	// EventTurnDone indicates the queue is exhausted for this turn.
	EventTurnDone EventType = "turn_done"
	// EventTurnFailed indicates the turn aborted with an error.
	EventTurnFailed EventType = "turn_failed"
)

// Event is emitted by the orchestrator for the session driver's
// live view. Emission is best-effort; a slow consumer never blocks
// the dispatch loop.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// Device is the worker the event concerns, if any.
	Device models.DeviceID
	// Message provides additional context about the event.
	Message string
	// QueueLen is the task queue length after the event.
	QueueLen int
	// Error contains error details for failure events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// emit sends an event without blocking the dispatch loop.
func (o *Orchestrator) emit(e Event) {
	if o.events == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case o.events <- e:
	default:
	}
}

// Events returns the event stream for UI consumption.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}
