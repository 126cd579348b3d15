// Package trace renders turn progress to a console: the plan, each
// worker activation, collaboration exchanges, and final results.
package trace

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/hearthkit/hearth/internal/orchestrator"
	"github.com/hearthkit/hearth/pkg/models"
)

// Printer writes a running trace of a turn to an output stream.
type Printer struct {
	out     io.Writer
	verbose bool

	node    *color.Color
	request *color.Color
	answer  *color.Color
	result  *color.Color
	fail    *color.Color
	dim     *color.Color
}

// Option configures a Printer.
type Option func(*Printer)

// WithOutput directs trace output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Printer) { p.out = w }
}

// WithVerbose includes queue snapshots and intent details.
func WithVerbose(verbose bool) Option {
	return func(p *Printer) { p.verbose = verbose }
}

// WithColor forces colored output on or off.
func WithColor(enabled bool) Option {
	return func(p *Printer) {
		for _, c := range []*color.Color{p.node, p.request, p.answer, p.result, p.fail, p.dim} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// NewPrinter creates a trace printer writing to stdout.
func NewPrinter(opts ...Option) *Printer {
	p := &Printer{
		out:     os.Stdout,
		node:    color.New(color.FgCyan, color.Bold),
		request: color.New(color.FgYellow),
		answer:  color.New(color.FgGreen),
		result:  color.New(color.FgGreen, color.Bold),
		fail:    color.New(color.FgRed),
		dim:     color.New(color.Faint),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Consume drains an orchestrator event channel until it is closed or
// the orchestrator stops emitting for the turn. Intended to run in
// its own goroutine.
func (p *Printer) Consume(events <-chan orchestrator.Event) {
	for ev := range events {
		p.Event(ev)
	}
}

// Event renders a single orchestrator event.
func (p *Printer) Event(ev orchestrator.Event) {
	switch ev.Type {
	case orchestrator.EventTurnStarted:
		fmt.Fprintf(p.out, "%s %s\n", p.dim.Sprint("turn"), ev.Message)
	case orchestrator.EventPlanCreated:
		fmt.Fprintf(p.out, "%s %s\n", p.node.Sprint("plan"), ev.Message)
	case orchestrator.EventActivation:
		if p.verbose {
			fmt.Fprintf(p.out, "%s %s\n", p.node.Sprintf("[%s]", ev.Device), p.dim.Sprint(ev.Message))
		}
	case orchestrator.EventCollaborationRequested:
		fmt.Fprintf(p.out, "%s %s\n", p.request.Sprint("ask"), ev.Message)
	case orchestrator.EventCollaborationAnswered:
		fmt.Fprintf(p.out, "%s %s\n", p.answer.Sprint("answer"), ev.Message)
	case orchestrator.EventTaskCompleted:
		fmt.Fprintf(p.out, "%s %s\n", p.result.Sprint("done"), ev.Message)
	case orchestrator.EventTurnDone:
		fmt.Fprintf(p.out, "%s %s\n", p.dim.Sprint("turn complete"), ev.Message)
	case orchestrator.EventTurnFailed:
		fmt.Fprintf(p.out, "%s %s\n", p.fail.Sprint("turn failed"), ev.Message)
	}
}

// Turn renders a completed turn in full: the order the workers ran,
// what each did, and the final per-device results.
func (p *Printer) Turn(result *orchestrator.TurnResult) {
	if p.verbose && (len(result.Intent.Infos) > 0 || len(result.Intent.KeyModifiers) > 0) {
		fmt.Fprintf(p.out, "%s infos=%v modifiers=%v\n",
			p.dim.Sprint("intent"), result.Intent.Infos, result.Intent.KeyModifiers)
	}

	for _, rec := range result.Records {
		fmt.Fprintf(p.out, "%s\n", p.node.Sprintf("[%s]", rec.Node))
		if p.verbose {
			fmt.Fprintf(p.out, "  %s %s\n", p.dim.Sprint("queue:"), describeQueue(rec.Queue))
		}
		if !rec.Collaboration.Zero() {
			fmt.Fprintf(p.out, "  %s %s -> %s: %s\n",
				p.request.Sprint("asking"), rec.Collaboration.Requester,
				rec.Collaboration.Target, rec.Collaboration.Request)
		}
		for _, e := range rec.Entries {
			switch e.Type {
			case models.HistoryCollaborationResponse:
				fmt.Fprintf(p.out, "  %s %s\n", p.answer.Sprint("answered:"), e.Result)
			case models.HistoryTaskCompletion:
				fmt.Fprintf(p.out, "  %s %s\n", p.result.Sprint("completed:"), e.Result)
			}
		}
	}

	if len(result.Results) > 0 {
		devices := make([]string, 0, len(result.Results))
		for d := range result.Results {
			devices = append(devices, string(d))
		}
		sort.Strings(devices)
		fmt.Fprintf(p.out, "%s\n", p.result.Sprint("results"))
		for _, d := range devices {
			fmt.Fprintf(p.out, "  %s: %s\n", d, result.Results[models.DeviceID(d)])
		}
	}
	fmt.Fprintf(p.out, "%s\n", p.dim.Sprintf("elapsed %s", formatElapsed(result.Elapsed)))
}

// Error renders a failed turn.
func (p *Printer) Error(err error) {
	fmt.Fprintf(p.out, "%s %v\n", p.fail.Sprint("error:"), err)
}

func describeQueue(tasks []models.Task) string {
	if len(tasks) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(tasks))
	for i, t := range tasks {
		parts[i] = fmt.Sprintf("%s:%s", t.Device, t.Action)
	}
	return strings.Join(parts, ", ")
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
