package models

// HistoryType classifies a history entry.
type HistoryType string

const (
	// HistoryCollaborationRequest records a worker asking another worker for help.
	HistoryCollaborationRequest HistoryType = "collaboration_request"
	// HistoryCollaborationResponse records the target worker's answer.
	HistoryCollaborationResponse HistoryType = "collaboration_response"
	// HistoryTaskCompletion records a finished task.
	HistoryTaskCompletion HistoryType = "task_completion"
)

// Valid returns true if the type is a known value.
func (t HistoryType) Valid() bool {
	switch t {
	case HistoryCollaborationRequest, HistoryCollaborationResponse, HistoryTaskCompletion:
		return true
	default:
		return false
	}
}

// HistoryEntry is one record in the append-only turn history.
// Entries are never mutated or removed; every oracle call sees them
// in the order they were appended.
type HistoryEntry struct {
	// Device is the worker the entry belongs to.
	Device DeviceID `json:"device"`
	// Type classifies the entry.
	Type HistoryType `json:"type"`
	// ActionTaken is the task action or collaboration request text.
	ActionTaken string `json:"action_taken"`
	// Result is the outcome: a completion message, a collaboration
	// answer, or a "target: request" summary for request entries.
	Result string `json:"result"`
}

// CollaborationRequest is the single system-wide collaboration slot.
// At most one request may be outstanding at any instant; the target
// clears it immediately upon producing its response.
type CollaborationRequest struct {
	// Requester is the worker that asked for help.
	Requester DeviceID `json:"requester"`
	// Target is the worker that must answer.
	Target DeviceID `json:"target"`
	// Request is the sub-question being delegated.
	Request string `json:"request"`
}

// Zero returns true when no request is present.
func (c CollaborationRequest) Zero() bool {
	return c.Requester == "" && c.Target == "" && c.Request == ""
}

// PendingTask marks a suspended task whose owner is waiting on a
// collaborator's answer. Cleared when the owner resumes and finalizes.
type PendingTask struct {
	// Device is the suspended worker.
	Device DeviceID `json:"device"`
	// Action is the original task action being resumed later.
	Action string `json:"action"`
	// WaitingFor is the collaborator whose answer is awaited.
	WaitingFor DeviceID `json:"waiting_for"`
}

// Zero returns true when no task is pending.
func (p PendingTask) Zero() bool {
	return p.Device == "" && p.Action == "" && p.WaitingFor == ""
}
