package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hearthkit/hearth/internal/config"
	"github.com/hearthkit/hearth/pkg/models"
)

const systemPrompt = "You are part of a smart home assistant. " +
	"Follow the instructions exactly and output only the requested JSON."

// ClaudeOracle implements Oracle against the Anthropic API. Every
// call is a single tool-free message exchange with a JSON-only
// output contract, bounded by a per-call timeout.
type ClaudeOracle struct {
	client  *Client
	catalog *config.Catalog
	timeout time.Duration
}

// NewClaudeOracle creates an oracle backed by the given client and
// device catalog. A zero timeout disables the per-call bound.
func NewClaudeOracle(client *Client, catalog *config.Catalog, timeout time.Duration) *ClaudeOracle {
	return &ClaudeOracle{client: client, catalog: catalog, timeout: timeout}
}

// Verify ClaudeOracle implements Oracle at compile time.
var _ Oracle = (*ClaudeOracle)(nil)

func (o *ClaudeOracle) call(ctx context.Context, prompt string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	return o.client.complete(ctx, systemPrompt, prompt)
}

// displayName renders a device identity for prompt text
// ("search_engine" -> "Search Engine").
func displayName(d models.DeviceID) string {
	parts := strings.Split(string(d), "_")
	for i, p := range parts {
		if p == "tv" {
			parts[i] = "TV"
			continue
		}
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

func (o *ClaudeOracle) profile(worker models.DeviceID) (config.DeviceProfile, error) {
	p, ok := o.catalog.Profile(worker)
	if !ok {
		return config.DeviceProfile{}, fmt.Errorf("no profile for device %q", worker)
	}
	return p, nil
}

// AnalyzeIntent splits an utterance into information units and key modifiers.
func (o *ClaudeOracle) AnalyzeIntent(ctx context.Context, utterance string) (IntentAnalysis, error) {
	response, err := o.call(ctx, fmt.Sprintf(intentPrompt, utterance))
	if err != nil {
		return IntentAnalysis{}, fmt.Errorf("intent analysis: %w", err)
	}
	return ParseIntent(response)
}

// PlanTasks turns an utterance plus hints into an ordered task list.
func (o *ClaudeOracle) PlanTasks(ctx context.Context, utterance string, hints IntentAnalysis) ([]models.Task, error) {
	infos, _ := json.Marshal(hints.Infos)
	modifiers, _ := json.Marshal(hints.KeyModifiers)

	prompt := fmt.Sprintf(planPrompt, utterance, string(infos), string(modifiers), o.catalog.PlannerSummary())
	response, err := o.call(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("plan tasks: %w", err)
	}
	return ParsePlan(response)
}

// Decide evaluates a fresh task for its owning worker.
func (o *ClaudeOracle) Decide(ctx context.Context, worker models.DeviceID, action, historyJSON string) (Decision, error) {
	p, err := o.profile(worker)
	if err != nil {
		return Decision{}, err
	}

	examples := ""
	if p.Examples != "" {
		examples = "Examples:\n\n" + p.Examples
	}

	prompt := fmt.Sprintf(decidePrompt,
		displayName(worker), p.Capabilities, action, historyJSON,
		o.catalog.CollaboratorSummary(worker), examples)
	response, err := o.call(ctx, prompt)
	if err != nil {
		return Decision{}, fmt.Errorf("decide for %s: %w", worker, err)
	}
	return ParseDecision(worker, response)
}

// AnswerCollaboration resolves an inbound collaboration request with
// a direct answer.
func (o *ClaudeOracle) AnswerCollaboration(ctx context.Context, worker, requester models.DeviceID, request string) (string, error) {
	p, err := o.profile(worker)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(answerPrompt, displayName(worker), p.Capabilities, requester, request)
	response, err := o.call(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("answer collaboration for %s: %w", worker, err)
	}
	return ParseDirectResponse("answer", response)
}

// Resume finalizes a suspended task using the collaborator's answer.
func (o *ClaudeOracle) Resume(ctx context.Context, worker models.DeviceID, originalAction, historyJSON string, collaborator models.DeviceID, answer string) (string, error) {
	p, err := o.profile(worker)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(resumePrompt,
		displayName(worker), p.Capabilities, originalAction, historyJSON, collaborator, answer)
	response, err := o.call(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("resume for %s: %w", worker, err)
	}
	return ParseDirectResponse("resume", response)
}
