package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hearthkit/hearth/internal/config"
	"github.com/hearthkit/hearth/internal/oracle"
	"github.com/hearthkit/hearth/internal/orchestrator"
	"github.com/hearthkit/hearth/internal/state"
	"github.com/hearthkit/hearth/internal/trace"
)

var (
	runVerbose bool
	runNoSave  bool
)

var runCmd = &cobra.Command{
	Use:   "run <request>",
	Short: "Run a single request and print the results",
	Long: `Run one natural language request through the device agents and
print what each device did.

The request is planned into a task queue, each device agent executes
its tasks in order, and a device may consult one other device before
finishing. The transcript is saved unless --no-save is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOnce,
}

func init() {
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "Include queue snapshots and intent detail in the trace")
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "Skip saving the transcript")
}

func runOnce(cmd *cobra.Command, args []string) error {
	utterance := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	oracleImpl, client, err := buildOracle(cfg)
	if err != nil {
		return err
	}

	orch, err := orchestrator.New(orchestrator.Config{
		Oracle:  oracleImpl,
		Catalog: loadCatalog(),
	})
	if err != nil {
		return err
	}

	printer := trace.NewPrinter(
		trace.WithVerbose(runVerbose || cfg.Trace.Verbose),
		trace.WithColor(cfg.Trace.Color),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var db *state.DB
	if !runNoSave {
		db, err = openTranscriptDB(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: transcript store unavailable: %v\n", err)
		} else {
			defer db.Close()
		}
	}

	session := &state.Session{
		ID:        orch.SessionID(),
		StartedAt: time.Now(),
		Status:    state.SessionActive,
	}
	if db != nil {
		if err := db.CreateSession(session); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: record session: %v\n", err)
			db = nil
		}
	}

	result, err := orch.RunTurn(ctx, utterance)
	if err != nil {
		printer.Error(err)
		if db != nil {
			db.SaveFailedTurn(session.ID, uuid.New().String()[:8], utterance, err)
			in, out := tokenTotals(client)
			db.FinishSession(session.ID, state.SessionFailed, in, out)
		}
		return err
	}

	printer.Turn(result)

	if db != nil {
		if err := db.SaveTurn(session.ID, result); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: save transcript: %v\n", err)
		}
		in, out := tokenTotals(client)
		db.FinishSession(session.ID, state.SessionCompleted, in, out)
	}
	return nil
}

// openTranscriptDB opens and migrates the transcript store.
func openTranscriptDB(cfg *config.Config) (*state.DB, error) {
	path := cfg.State.DBPath
	if path == "" {
		path = state.DefaultDBPath()
	}
	db, err := state.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func tokenTotals(client *oracle.Client) (int64, int64) {
	if client == nil {
		return 0, 0
	}
	return client.Tracker().Total()
}
