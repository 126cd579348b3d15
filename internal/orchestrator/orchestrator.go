// Package orchestrator coordinates the device workers for one
// interaction session: it plans the task queue for each user turn,
// dispatches activations, and enforces the turn-level protocol
// invariants.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hearthkit/hearth/internal/config"
	"github.com/hearthkit/hearth/internal/history"
	"github.com/hearthkit/hearth/internal/oracle"
	"github.com/hearthkit/hearth/internal/worker"
	"github.com/hearthkit/hearth/pkg/models"
)

// Config contains configuration options for the Orchestrator.
type Config struct {
	// Oracle produces planning and per-task decisions.
	Oracle oracle.Oracle
	// Catalog holds the device profiles. Planning and dispatch use
	// the same catalog, so every planned task resolves to a worker.
	Catalog *config.Catalog
	// EventBuffer sizes the event channel. If 0, events are disabled.
	EventBuffer int
}

// Orchestrator owns the session history and runs one turn at a time.
// Scheduling is cooperative: exactly one worker or the planner is
// live at any instant, so the turn state needs no locking.
type Orchestrator struct {
	oracle    oracle.Oracle
	workers   map[models.DeviceID]*worker.Worker
	history   *history.Log
	events    chan Event
	sessionID string
}

// New creates an orchestrator with one worker per catalog device.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Oracle == nil {
		return nil, fmt.Errorf("orchestrator requires an oracle")
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = config.DefaultCatalog()
	}

	workers := make(map[models.DeviceID]*worker.Worker, len(models.Catalog()))
	for _, d := range catalog.Devices() {
		workers[d] = worker.New(d, cfg.Oracle)
	}

	var events chan Event
	if cfg.EventBuffer > 0 {
		events = make(chan Event, cfg.EventBuffer)
	}

	return &Orchestrator{
		oracle:    cfg.Oracle,
		workers:   workers,
		history:   history.New(),
		events:    events,
		sessionID: uuid.New().String()[:8],
	}, nil
}

// SessionID returns the short identifier for this session.
func (o *Orchestrator) SessionID() string {
	return o.sessionID
}

// History returns the session history entries in append order.
func (o *Orchestrator) History() []models.HistoryEntry {
	return o.history.Entries()
}

// IsQuitCommand reports whether the utterance is a session
// termination request.
func IsQuitCommand(utterance string) bool {
	switch strings.ToLower(strings.TrimSpace(utterance)) {
	case "q", "quit", "exit":
		return true
	default:
		return false
	}
}

// ActivationRecord is the per-activation transcript record: the node
// that ran, the queue after it ran, and any collaboration exchange
// still outstanding.
type ActivationRecord struct {
	// Node is the worker that was activated.
	Node models.DeviceID `json:"node"`
	// Queue is the task queue snapshot after the activation.
	Queue []models.Task `json:"queue"`
	// Collaboration is the outstanding request after the activation,
	// zero if none.
	Collaboration models.CollaborationRequest `json:"collaboration,omitempty"`
	// Pending is the suspended task after the activation, zero if none.
	Pending models.PendingTask `json:"pending,omitempty"`
	// Entries are the history entries this activation appended.
	Entries []models.HistoryEntry `json:"entries"`
}

// TurnResult is what one completed turn hands back to the session
// driver.
type TurnResult struct {
	// TurnID identifies the turn within the session.
	TurnID string
	// Utterance is the user input that started the turn.
	Utterance string
	// Intent is the pre-planning analysis.
	Intent oracle.IntentAnalysis
	// Plan is the task queue the planner produced.
	Plan []models.Task
	// Records holds one entry per worker activation, in order.
	Records []ActivationRecord
	// Results maps each device to its finalized task outcome.
	Results map[models.DeviceID]string
	// Elapsed is the wall time the turn took.
	Elapsed time.Duration
}

// RunTurn executes one full cycle from utterance to queue
// exhaustion. Errors are not retried internally; they propagate to
// the caller, which decides whether to abort the session or continue
// with the next turn.
func (o *Orchestrator) RunTurn(ctx context.Context, utterance string) (*TurnResult, error) {
	start := time.Now()
	turnID := uuid.New().String()[:8]
	o.emit(Event{Type: EventTurnStarted, Message: utterance})

	intent, err := o.oracle.AnalyzeIntent(ctx, utterance)
	if err != nil {
		return nil, o.failTurn(err)
	}

	tasks, err := o.oracle.PlanTasks(ctx, utterance, intent)
	if err != nil {
		return nil, o.failTurn(err)
	}
	if len(tasks) == 0 {
		return nil, o.failTurn(&oracle.MalformedOutputError{Stage: "plan", Detail: "empty task queue"})
	}
	for i, t := range tasks {
		if _, ok := o.workers[t.Device]; !ok {
			return nil, o.failTurn(&oracle.MalformedOutputError{
				Stage:  "plan",
				Detail: fmt.Sprintf("task %d assigned to device %q with no worker", i, t.Device),
			})
		}
	}
	log.Printf("[orchestrator] turn %s: planned %d tasks", turnID, len(tasks))
	o.emit(Event{Type: EventPlanCreated, QueueLen: len(tasks), Message: describePlan(tasks)})

	turn := worker.NewTurnContext(models.NewTaskQueue(tasks), o.history)
	result := &TurnResult{
		TurnID:    turnID,
		Utterance: utterance,
		Intent:    intent,
		Plan:      tasks,
	}

	// Any task needs at most two extra activations beyond its own:
	// one for the collaboration target, one for the resume. More
	// means the protocol is broken.
	maxActivations := 3 * len(tasks)

	head, _ := turn.Queue.Head()
	current := head.Device
	for activations := 0; ; activations++ {
		if activations >= maxActivations {
			return nil, o.failTurn(&worker.ProtocolViolationError{
				Detail: fmt.Sprintf("turn exceeded %d activations without draining the queue", maxActivations),
			})
		}

		w, ok := o.workers[current]
		if !ok {
			return nil, o.failTurn(&worker.ProtocolViolationError{
				Detail: fmt.Sprintf("dispatch to unknown worker %q", current),
			})
		}

		o.emit(Event{Type: EventActivation, Device: current, QueueLen: turn.Queue.Len()})
		before := o.history.Len()

		step, err := w.Activate(ctx, turn)
		if err != nil {
			return nil, o.failTurn(err)
		}

		appended := o.history.Entries()[before:]
		result.Records = append(result.Records, ActivationRecord{
			Node:          current,
			Queue:         turn.Queue.Snapshot(),
			Collaboration: turn.Collaboration,
			Pending:       turn.Pending,
			Entries:       appended,
		})
		o.emitEntries(current, appended, turn.Queue.Len())

		if step.Kind == worker.StepDispatchWorker {
			current = step.Target
			continue
		}

		next, ok := turn.Queue.Head()
		if !ok {
			break
		}
		current = next.Device
	}

	result.Results = make(map[models.DeviceID]string, len(turn.Results))
	for d, r := range turn.Results {
		result.Results[d] = r
	}
	result.Elapsed = time.Since(start)

	log.Printf("[orchestrator] turn %s: completed in %s", turnID, result.Elapsed.Round(time.Millisecond))
	o.emit(Event{Type: EventTurnDone, Message: fmt.Sprintf("turn %s complete", turnID)})
	return result, nil
}

// failTurn reports a turn-level failure and returns the error for
// propagation to the session driver.
func (o *Orchestrator) failTurn(err error) error {
	log.Printf("[orchestrator] turn failed: %v", err)
	o.emit(Event{Type: EventTurnFailed, Error: err, Message: err.Error()})
	return err
}

// emitEntries translates freshly appended history entries into events.
func (o *Orchestrator) emitEntries(device models.DeviceID, entries []models.HistoryEntry, queueLen int) {
	for _, e := range entries {
		switch e.Type {
		case models.HistoryCollaborationRequest:
			o.emit(Event{Type: EventCollaborationRequested, Device: device, Message: e.Result, QueueLen: queueLen})
		case models.HistoryCollaborationResponse:
			o.emit(Event{Type: EventCollaborationAnswered, Device: device, Message: e.Result, QueueLen: queueLen})
		case models.HistoryTaskCompletion:
			o.emit(Event{Type: EventTaskCompleted, Device: device, Message: e.Result, QueueLen: queueLen})
		}
	}
}

func describePlan(tasks []models.Task) string {
	parts := make([]string, len(tasks))
	for i, t := range tasks {
		parts[i] = fmt.Sprintf("%s: %s", t.Device, t.Action)
	}
	return strings.Join(parts, "; ")
}
