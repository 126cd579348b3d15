package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hearthkit/hearth/internal/config"
	"github.com/hearthkit/hearth/internal/orchestrator"
	"github.com/hearthkit/hearth/internal/signals"
	"github.com/hearthkit/hearth/internal/state"
	"github.com/hearthkit/hearth/internal/tui"
)

func runInteractive() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	oracleImpl, client, err := buildOracle(cfg)
	if err != nil {
		return err
	}

	orch, err := orchestrator.New(orchestrator.Config{
		Oracle:      oracleImpl,
		Catalog:     loadCatalog(),
		EventBuffer: 64,
	})
	if err != nil {
		return err
	}

	db, err := openTranscriptDB(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: transcript store unavailable: %v\n", err)
		db = nil
	} else {
		defer db.Close()
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

	sigs, err := signals.NewManager(stateDir(cfg))
	if err != nil {
		sigs = nil // Signals are optional
	}
	if sigs != nil {
		defer sigs.Close()
	}

	p, app := tui.NewProgram()

	// Forward orchestrator events into the TUI while turns run.
	go func() {
		for ev := range orch.Events() {
			p.Send(tui.ProgressMsg{Event: ev})
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app.SetSubmitHandler(func(utterance string) {
		go func() {
			if sigs != nil && sigs.ShouldStop() {
				p.Send(tui.TurnFailedMsg{Err: fmt.Errorf("session stopped by signal")})
				p.Quit()
				return
			}

			result, err := orch.RunTurn(ctx, utterance)
			if err != nil {
				if db != nil {
					db.SaveFailedTurn(session.ID, uuid.New().String()[:8], utterance, err)
				}
				p.Send(tui.TurnFailedMsg{Err: err})
				return
			}
			if db != nil {
				if err := db.SaveTurn(session.ID, result); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: save transcript: %v\n", err)
				}
			}
			p.Send(tui.TurnDoneMsg{Result: result})
		}()
	})

	_, runErr := p.Run()

	if db != nil {
		in, out := tokenTotals(client)
		status := state.SessionCompleted
		if runErr != nil {
			status = state.SessionFailed
		}
		db.FinishSession(session.ID, status, in, out)
	}
	return runErr
}

// stateDir returns the directory holding the transcript database,
// which also hosts the signals subdirectory.
func stateDir(cfg *config.Config) string {
	path := cfg.State.DBPath
	if path == "" {
		path = state.DefaultDBPath()
	}
	return filepath.Dir(path)
}
