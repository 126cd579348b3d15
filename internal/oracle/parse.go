package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hearthkit/hearth/pkg/models"
)

// MalformedOutputError reports oracle output that is neither a valid
// direct result nor a valid single collaboration request, or that
// names a device outside the catalog. The core never retries or
// fabricates a result; the error propagates to the turn boundary.
type MalformedOutputError struct {
	// Stage is the oracle call that produced the output
	// (intent, plan, decide, answer, resume).
	Stage string
	// Detail describes what was wrong.
	Detail string
	// Raw is a preview of the offending output.
	Raw string
}

func (e *MalformedOutputError) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("malformed oracle output in %s: %s", e.Stage, e.Detail)
	}
	return fmt.Sprintf("malformed oracle output in %s: %s: %q", e.Stage, e.Detail, e.Raw)
}

// rawPreview truncates model output for error messages.
func rawPreview(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 300 {
		return s[:300] + "... (truncated)"
	}
	return s
}

// extractObject locates the outermost JSON object in a model response,
// tolerating prose or markdown fences around it.
func extractObject(stage, response string) (string, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return "", &MalformedOutputError{
			Stage:  stage,
			Detail: fmt.Sprintf("no JSON object found in response (%d chars)", len(response)),
			Raw:    rawPreview(response),
		}
	}
	return response[start : end+1], nil
}

// intentPayload is the JSON shape of the intent analysis response.
type intentPayload struct {
	Infos        []string `json:"infos"`
	KeyModifiers []string `json:"key_modifiers"`
}

// ParseIntent parses the intent analysis response.
func ParseIntent(response string) (IntentAnalysis, error) {
	jsonStr, err := extractObject("intent", response)
	if err != nil {
		return IntentAnalysis{}, err
	}

	var payload intentPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return IntentAnalysis{}, &MalformedOutputError{Stage: "intent", Detail: err.Error(), Raw: rawPreview(jsonStr)}
	}
	if len(payload.Infos) == 0 {
		return IntentAnalysis{}, &MalformedOutputError{Stage: "intent", Detail: "empty infos list", Raw: rawPreview(jsonStr)}
	}
	return IntentAnalysis{Infos: payload.Infos, KeyModifiers: payload.KeyModifiers}, nil
}

// planPayload is the JSON shape of the planner response.
type planPayload struct {
	TaskQueue []struct {
		Device string `json:"device"`
		Action string `json:"action"`
	} `json:"task_queue"`
}

// ParsePlan parses the planner response and validates every task
// against the device catalog.
func ParsePlan(response string) ([]models.Task, error) {
	jsonStr, err := extractObject("plan", response)
	if err != nil {
		return nil, err
	}

	var payload planPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, &MalformedOutputError{Stage: "plan", Detail: err.Error(), Raw: rawPreview(jsonStr)}
	}
	if len(payload.TaskQueue) == 0 {
		return nil, &MalformedOutputError{Stage: "plan", Detail: "empty task queue", Raw: rawPreview(jsonStr)}
	}

	tasks := make([]models.Task, len(payload.TaskQueue))
	for i, pt := range payload.TaskQueue {
		device := models.DeviceID(strings.TrimSpace(pt.Device))
		if !device.Valid() {
			return nil, &MalformedOutputError{
				Stage:  "plan",
				Detail: fmt.Sprintf("task %d assigned to unknown device %q", i, pt.Device),
				Raw:    rawPreview(jsonStr),
			}
		}
		if strings.TrimSpace(pt.Action) == "" {
			return nil, &MalformedOutputError{
				Stage:  "plan",
				Detail: fmt.Sprintf("task %d for %s has no action", i, device),
				Raw:    rawPreview(jsonStr),
			}
		}
		tasks[i] = models.Task{Device: device, Action: pt.Action}
	}
	return tasks, nil
}

// decidePayload is the JSON shape of the per-task decision response.
type decidePayload struct {
	Response             string `json:"response"`
	CollaborationRequest struct {
		Target  string `json:"target"`
		Request string `json:"request"`
	} `json:"collaboration_request"`
}

// ParseDecision parses a new-task decision for the given worker.
// Exactly one of {direct result, collaboration request} must be
// present; the target must be a catalog device other than the worker.
func ParseDecision(worker models.DeviceID, response string) (Decision, error) {
	jsonStr, err := extractObject("decide", response)
	if err != nil {
		return Decision{}, err
	}

	var payload decidePayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return Decision{}, &MalformedOutputError{Stage: "decide", Detail: err.Error(), Raw: rawPreview(jsonStr)}
	}

	target := models.DeviceID(strings.TrimSpace(payload.CollaborationRequest.Target))
	request := strings.TrimSpace(payload.CollaborationRequest.Request)
	result := strings.TrimSpace(payload.Response)

	if target == "" && request == "" {
		if result == "" {
			return Decision{}, &MalformedOutputError{Stage: "decide", Detail: "neither result nor collaboration request present", Raw: rawPreview(jsonStr)}
		}
		return Decision{Result: result}, nil
	}

	if !target.Valid() {
		return Decision{}, &MalformedOutputError{
			Stage:  "decide",
			Detail: fmt.Sprintf("collaboration target %q is not a known device", payload.CollaborationRequest.Target),
			Raw:    rawPreview(jsonStr),
		}
	}
	if target == worker {
		return Decision{}, &MalformedOutputError{
			Stage:  "decide",
			Detail: fmt.Sprintf("worker %s cannot request collaboration from itself", worker),
			Raw:    rawPreview(jsonStr),
		}
	}
	if request == "" {
		return Decision{}, &MalformedOutputError{
			Stage:  "decide",
			Detail: fmt.Sprintf("collaboration with %s has no request text", target),
			Raw:    rawPreview(jsonStr),
		}
	}
	return Decision{Target: target, Request: request}, nil
}

// responsePayload is the JSON shape of answer and resume responses.
type responsePayload struct {
	Response             string          `json:"response"`
	CollaborationRequest json.RawMessage `json:"collaboration_request"`
}

// ParseDirectResponse parses a response that must be a direct answer.
// Used for the collaboration-answer and resume call sites, where a
// further collaboration request is a protocol breach by the oracle.
func ParseDirectResponse(stage, response string) (string, error) {
	jsonStr, err := extractObject(stage, response)
	if err != nil {
		return "", err
	}

	var payload responsePayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return "", &MalformedOutputError{Stage: stage, Detail: err.Error(), Raw: rawPreview(jsonStr)}
	}

	if len(payload.CollaborationRequest) > 0 {
		var nested struct {
			Target string `json:"target"`
		}
		if json.Unmarshal(payload.CollaborationRequest, &nested) == nil && nested.Target != "" {
			return "", &MalformedOutputError{
				Stage:  stage,
				Detail: fmt.Sprintf("collaboration request to %q is not permitted here", nested.Target),
				Raw:    rawPreview(jsonStr),
			}
		}
	}

	result := strings.TrimSpace(payload.Response)
	if result == "" {
		return "", &MalformedOutputError{Stage: stage, Detail: "empty response", Raw: rawPreview(jsonStr)}
	}
	return result, nil
}
