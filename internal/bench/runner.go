package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hearthkit/hearth/internal/config"
	"github.com/hearthkit/hearth/internal/oracle"
	"github.com/hearthkit/hearth/internal/orchestrator"
	"github.com/hearthkit/hearth/pkg/models"
)

const logDivider = "======================================================================"

// RunnerConfig configures a benchmark run.
type RunnerConfig struct {
	// Oracle drives planning and decisions for every case.
	Oracle oracle.Oracle
	// Catalog holds the device profiles. Defaults apply when nil.
	Catalog *config.Catalog
	// LogDir receives one log file per case. Empty disables logs.
	LogDir string
	// Store receives per-case results. Nil disables persistence.
	Store *ResultStore
	// Out receives progress output. Defaults to os.Stdout.
	Out io.Writer
}

// CaseOutcome is the in-memory result of one benchmark case.
type CaseOutcome struct {
	Case    Case
	Turn    *orchestrator.TurnResult
	Err     error
	Elapsed time.Duration
	LogPath string
}

// RunSummary aggregates one benchmark run.
type RunSummary struct {
	RunID    string
	Suite    string
	Outcomes []CaseOutcome
	Passed   int
	Failed   int
	Elapsed  time.Duration
}

// Runner executes benchmark cases, each in a fresh session so
// history never leaks between cases.
type Runner struct {
	cfg RunnerConfig
	out io.Writer
}

// NewRunner creates a benchmark runner.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Oracle == nil {
		return nil, fmt.Errorf("benchmark runner requires an oracle")
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	return &Runner{cfg: cfg, out: out}, nil
}

// Run executes the filtered cases of a suite and returns the summary.
func (r *Runner) Run(ctx context.Context, suite *Suite, category string) (*RunSummary, error) {
	cases := suite.Filter(category)
	if len(cases) == 0 {
		return nil, fmt.Errorf("no cases match category %q in suite %s", category, suite.Name)
	}

	summary := &RunSummary{
		RunID: uuid.New().String()[:8],
		Suite: suite.Name,
	}
	runStart := time.Now()

	fmt.Fprintf(r.out, "\nRunning %d case(s) from %s\n%s\n", len(cases), suite.Name, logDivider)

	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fmt.Fprintf(r.out, "\nCase %d/%d: [%s] %s\n", i+1, len(cases), c.ID, c.UserInput)

		outcome := r.runCase(ctx, c)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Err != nil {
			summary.Failed++
			fmt.Fprintf(r.out, "FAILED: %v\n", outcome.Err)
		} else {
			summary.Passed++
		}
		fmt.Fprintf(r.out, "Time: %.2fs\n", outcome.Elapsed.Seconds())
		if outcome.LogPath != "" {
			fmt.Fprintf(r.out, "Log saved to: %s\n", outcome.LogPath)
		}

		if r.cfg.Store != nil {
			status := "completed"
			errMsg := ""
			if outcome.Err != nil {
				status = "failed"
				errMsg = outcome.Err.Error()
			}
			saveErr := r.cfg.Store.SaveResult(&Result{
				RunID:     summary.RunID,
				Suite:     suite.Name,
				CaseID:    c.ID,
				Category:  c.Category,
				UserInput: c.UserInput,
				Status:    status,
				Error:     errMsg,
				ElapsedMS: outcome.Elapsed.Milliseconds(),
				RanAt:     time.Now(),
			})
			if saveErr != nil {
				return summary, fmt.Errorf("save result for %s: %w", c.ID, saveErr)
			}
		}
	}

	summary.Elapsed = time.Since(runStart)
	fmt.Fprintf(r.out, "\n%s\nCompleted: %d passed, %d failed in %.2fs\n%s\n",
		logDivider, summary.Passed, summary.Failed, summary.Elapsed.Seconds(), logDivider)
	return summary, nil
}

func (r *Runner) runCase(ctx context.Context, c Case) CaseOutcome {
	outcome := CaseOutcome{Case: c}
	start := time.Now()

	orch, err := orchestrator.New(orchestrator.Config{
		Oracle:  r.cfg.Oracle,
		Catalog: r.cfg.Catalog,
	})
	if err != nil {
		outcome.Err = err
		outcome.Elapsed = time.Since(start)
		return outcome
	}

	turn, err := orch.RunTurn(ctx, c.UserInput)
	outcome.Turn = turn
	outcome.Err = err
	outcome.Elapsed = time.Since(start)

	if r.cfg.LogDir != "" {
		path := filepath.Join(r.cfg.LogDir, c.ID+".txt")
		if writeErr := os.WriteFile(path, []byte(renderCaseLog(c, outcome)), 0o644); writeErr != nil {
			if outcome.Err == nil {
				outcome.Err = fmt.Errorf("write case log: %w", writeErr)
			}
		} else {
			outcome.LogPath = path
		}
	}
	return outcome
}

// renderCaseLog formats one case transcript the way session logs
// read: per-activation state, then results and timing.
func renderCaseLog(c Case, outcome CaseOutcome) string {
	var b strings.Builder
	b.WriteString(logDivider + "\n")
	fmt.Fprintf(&b, "Test Case ID: %s\n", c.ID)
	fmt.Fprintf(&b, "Category: %s\n", c.Category)
	fmt.Fprintf(&b, "User Input: %s\n", c.UserInput)
	b.WriteString(logDivider + "\n\n")

	if outcome.Turn != nil {
		if len(outcome.Turn.Plan) > 0 {
			plan, _ := json.MarshalIndent(outcome.Turn.Plan, "", "  ")
			fmt.Fprintf(&b, "Task Queue: %s\n\n", plan)
		}
		for _, rec := range outcome.Turn.Records {
			fmt.Fprintf(&b, "Node: %s\n", rec.Node)
			b.WriteString(strings.Repeat("-", 70) + "\n")
			if !rec.Collaboration.Zero() {
				b.WriteString("COLLABORATION REQUEST:\n")
				fmt.Fprintf(&b, "   From: %s\n", rec.Collaboration.Requester)
				fmt.Fprintf(&b, "   To: %s\n", rec.Collaboration.Target)
				fmt.Fprintf(&b, "   Request: %s\n\n", rec.Collaboration.Request)
			}
			if !rec.Pending.Zero() {
				b.WriteString("PENDING TASK:\n")
				fmt.Fprintf(&b, "   Device: %s\n", rec.Pending.Device)
				fmt.Fprintf(&b, "   Action: %s\n", rec.Pending.Action)
				fmt.Fprintf(&b, "   Waiting for: %s\n\n", rec.Pending.WaitingFor)
			}
			for _, e := range rec.Entries {
				switch e.Type {
				case models.HistoryCollaborationResponse:
					fmt.Fprintf(&b, "COLLABORATION RESPONSE from %s:\n   %s\n\n", e.Device, e.Result)
				case models.HistoryTaskCompletion:
					fmt.Fprintf(&b, "%s RESULT: %s\n\n", strings.ToUpper(string(e.Device)), e.Result)
				}
			}
			b.WriteString("\n")
		}

		if len(outcome.Turn.Results) > 0 {
			devices := make([]string, 0, len(outcome.Turn.Results))
			for d := range outcome.Turn.Results {
				devices = append(devices, string(d))
			}
			sort.Strings(devices)
			b.WriteString("FINAL RESULTS:\n")
			for _, d := range devices {
				fmt.Fprintf(&b, "   %s: %s\n", d, outcome.Turn.Results[models.DeviceID(d)])
			}
			b.WriteString("\n")
		}
	}

	if outcome.Err != nil {
		fmt.Fprintf(&b, "ERROR: %v\n\n", outcome.Err)
	}

	b.WriteString(logDivider + "\n")
	fmt.Fprintf(&b, "Execution Time: %.2fs\n", outcome.Elapsed.Seconds())
	b.WriteString(logDivider + "\n")
	return b.String()
}
