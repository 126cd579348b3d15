// Package oracle defines the decision boundary between the
// orchestration core and the language model that does the actual
// reasoning. The core never interprets natural language itself; it
// hands every planning and per-task decision to an Oracle and
// validates the shape of what comes back.
package oracle

import (
	"context"

	"github.com/hearthkit/hearth/pkg/models"
)

// IntentAnalysis is the result of the pre-planning intent pass.
type IntentAnalysis struct {
	// Infos are the separate information units in the utterance,
	// one intent, feeling, or fact each.
	Infos []string `json:"infos"`
	// KeyModifiers are the easy-to-miss qualifiers: how, when,
	// where, how much.
	KeyModifiers []string `json:"key_modifiers"`
}

// Complexity is the number of information units found.
func (a IntentAnalysis) Complexity() int {
	return len(a.Infos)
}

// Decision is the outcome of a worker's new-task oracle call: either
// a direct result or a single collaboration request, never both.
type Decision struct {
	// Result is the finalized task outcome when the worker can
	// complete the task on its own.
	Result string
	// Target names the collaborator when help is needed.
	Target models.DeviceID
	// Request is the sub-question for the collaborator.
	Request string
}

// NeedsCollaboration returns true when the decision delegates to
// another worker.
func (d Decision) NeedsCollaboration() bool {
	return d.Target != ""
}

// Oracle produces planning and per-task decisions. Implementations
// must return exactly one of the permitted shapes per call; the core
// treats anything else as malformed output and fails the turn.
type Oracle interface {
	// AnalyzeIntent splits an utterance into information units and
	// key modifiers before planning.
	AnalyzeIntent(ctx context.Context, utterance string) (IntentAnalysis, error)

	// PlanTasks turns an utterance plus pre-extracted hints into an
	// ordered task list. Every task device must belong to the catalog.
	PlanTasks(ctx context.Context, utterance string, hints IntentAnalysis) ([]models.Task, error)

	// Decide evaluates a fresh task for its owning worker. It returns
	// either a direct result or a request naming one collaborator.
	Decide(ctx context.Context, worker models.DeviceID, action, historyJSON string) (Decision, error)

	// AnswerCollaboration resolves an inbound collaboration request.
	// The answer is always direct; requesting further collaboration
	// is not permitted from this call site.
	AnswerCollaboration(ctx context.Context, worker, requester models.DeviceID, request string) (string, error)

	// Resume finalizes a suspended task using the collaborator's
	// answer. A resumed task always completes.
	Resume(ctx context.Context, worker models.DeviceID, originalAction, historyJSON string, collaborator models.DeviceID, answer string) (string, error)
}
