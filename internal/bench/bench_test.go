package bench

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hearthkit/hearth/internal/oracle"
	"github.com/hearthkit/hearth/pkg/models"
)

const suiteYAML = `name: smoke
test_cases:
  - id: simple_001
    category: simple
    user_input: what time is it
  - id: simple_002
    category: simple
    user_input: dim the lights
  - id: collab_001
    category: collaboration
    user_input: suggest a recipe with what is in the fridge
`

func writeSuite(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write suite file: %v", err)
	}
	return path
}

func TestLoadSuite_YAML(t *testing.T) {
	suite, err := LoadSuite(writeSuite(t, "smoke.yaml", suiteYAML))
	if err != nil {
		t.Fatalf("LoadSuite() error = %v", err)
	}
	if suite.Name != "smoke" {
		t.Errorf("Name = %q, want %q", suite.Name, "smoke")
	}
	if len(suite.Cases) != 3 {
		t.Errorf("len(Cases) = %d, want 3", len(suite.Cases))
	}
}

func TestLoadSuite_JSON(t *testing.T) {
	content := `{"test_cases": [{"id": "a", "category": "simple", "user_input": "hello"}]}`
	suite, err := LoadSuite(writeSuite(t, "cases.json", content))
	if err != nil {
		t.Fatalf("LoadSuite() error = %v", err)
	}
	if suite.Name != "cases" {
		t.Errorf("Name = %q, want filename stem %q", suite.Name, "cases")
	}
	if len(suite.Cases) != 1 || suite.Cases[0].ID != "a" {
		t.Errorf("Cases = %+v, want one case with id a", suite.Cases)
	}
}

func TestLoadSuite_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"empty suite", "empty.yaml", "test_cases: []"},
		{"missing id", "noid.yaml", "test_cases:\n  - user_input: hi"},
		{"duplicate id", "dup.yaml", "test_cases:\n  - id: x\n    user_input: a\n  - id: x\n    user_input: b"},
		{"blank input", "blank.yaml", "test_cases:\n  - id: x\n    user_input: \"  \""},
		{"bad extension", "cases.txt", "whatever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSuite(writeSuite(t, tt.file, tt.content)); err == nil {
				t.Error("LoadSuite() error = nil, want error")
			}
		})
	}
}

func TestSuite_Filter(t *testing.T) {
	suite, err := LoadSuite(writeSuite(t, "smoke.yaml", suiteYAML))
	if err != nil {
		t.Fatalf("LoadSuite() error = %v", err)
	}

	if got := suite.Filter("all"); len(got) != 3 {
		t.Errorf("Filter(all) = %d cases, want 3", len(got))
	}
	if got := suite.Filter("simple"); len(got) != 2 {
		t.Errorf("Filter(simple) = %d cases, want 2", len(got))
	}
	if got := suite.Filter("collaboration"); len(got) != 1 || got[0].ID != "collab_001" {
		t.Errorf("Filter(collaboration) = %+v, want collab_001", got)
	}
	if got := suite.Filter("missing"); len(got) != 0 {
		t.Errorf("Filter(missing) = %d cases, want 0", len(got))
	}

	cats := suite.Categories()
	if len(cats) != 2 || cats[0] != "simple" || cats[1] != "collaboration" {
		t.Errorf("Categories() = %v, want [simple collaboration]", cats)
	}
}

// benchOracle completes every planned task directly.
type benchOracle struct {
	failOn string
}

func (o *benchOracle) AnalyzeIntent(ctx context.Context, utterance string) (oracle.IntentAnalysis, error) {
	return oracle.IntentAnalysis{Infos: []string{utterance}}, nil
}

func (o *benchOracle) PlanTasks(ctx context.Context, utterance string, hints oracle.IntentAnalysis) ([]models.Task, error) {
	if o.failOn != "" && strings.Contains(utterance, o.failOn) {
		return nil, fmt.Errorf("planner unavailable")
	}
	return []models.Task{{Device: models.DeviceClock, Action: utterance}}, nil
}

func (o *benchOracle) Decide(ctx context.Context, worker models.DeviceID, action, historyJSON string) (oracle.Decision, error) {
	return oracle.Decision{Result: "done: " + action}, nil
}

func (o *benchOracle) AnswerCollaboration(ctx context.Context, worker, requester models.DeviceID, request string) (string, error) {
	return "answer", nil
}

func (o *benchOracle) Resume(ctx context.Context, worker models.DeviceID, originalAction, historyJSON string, collaborator models.DeviceID, answer string) (string, error) {
	return "resumed", nil
}

func TestRunner_Run(t *testing.T) {
	suite, err := LoadSuite(writeSuite(t, "smoke.yaml", suiteYAML))
	if err != nil {
		t.Fatalf("LoadSuite() error = %v", err)
	}

	logDir := t.TempDir()
	store, err := NewResultStore(filepath.Join(t.TempDir(), "bench.db"))
	if err != nil {
		t.Fatalf("NewResultStore() error = %v", err)
	}
	defer store.Close()

	var out bytes.Buffer
	runner, err := NewRunner(RunnerConfig{
		Oracle: &benchOracle{},
		LogDir: logDir,
		Store:  store,
		Out:    &out,
	})
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	summary, err := runner.Run(context.Background(), suite, "all")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Passed != 3 || summary.Failed != 0 {
		t.Errorf("summary = %d passed / %d failed, want 3/0", summary.Passed, summary.Failed)
	}

	for _, id := range []string{"simple_001", "simple_002", "collab_001"} {
		logPath := filepath.Join(logDir, id+".txt")
		data, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("read log %s: %v", id, err)
		}
		if !strings.Contains(string(data), "Test Case ID: "+id) {
			t.Errorf("log %s missing case header", id)
		}
		if !strings.Contains(string(data), "Execution Time:") {
			t.Errorf("log %s missing execution time", id)
		}
	}

	results, err := store.ListRun(summary.RunID)
	if err != nil {
		t.Fatalf("ListRun() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("stored results = %d, want 3", len(results))
	}
	for _, r := range results {
		if r.Status != "completed" {
			t.Errorf("result %s status = %q, want completed", r.CaseID, r.Status)
		}
	}
}

func TestRunner_FailedCaseRecorded(t *testing.T) {
	suite, err := LoadSuite(writeSuite(t, "smoke.yaml", suiteYAML))
	if err != nil {
		t.Fatalf("LoadSuite() error = %v", err)
	}

	var out bytes.Buffer
	runner, err := NewRunner(RunnerConfig{
		Oracle: &benchOracle{failOn: "lights"},
		Out:    &out,
	})
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	summary, err := runner.Run(context.Background(), suite, "simple")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Passed != 1 || summary.Failed != 1 {
		t.Errorf("summary = %d passed / %d failed, want 1/1", summary.Passed, summary.Failed)
	}
	if !strings.Contains(out.String(), "FAILED") {
		t.Error("output missing FAILED marker for failed case")
	}
}

func TestRunner_NoMatchingCases(t *testing.T) {
	suite, err := LoadSuite(writeSuite(t, "smoke.yaml", suiteYAML))
	if err != nil {
		t.Fatalf("LoadSuite() error = %v", err)
	}

	runner, err := NewRunner(RunnerConfig{Oracle: &benchOracle{}, Out: new(bytes.Buffer)})
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	if _, err := runner.Run(context.Background(), suite, "nonexistent"); err == nil {
		t.Error("Run() error = nil, want error for unmatched category")
	}
}
