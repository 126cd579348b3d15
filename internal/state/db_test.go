package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/hearthkit/hearth/internal/orchestrator"
	"github.com/hearthkit/hearth/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Errorf("second Migrate() error = %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)

	s := &Session{
		ID:        "sess-1",
		StartedAt: time.Now(),
		Status:    SessionActive,
	}
	if err := db.CreateSession(s); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	got, err := db.GetSession("sess-1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.Status != SessionActive {
		t.Errorf("Status = %v, want %v", got.Status, SessionActive)
	}
	if got.EndedAt != nil {
		t.Errorf("EndedAt = %v, want nil for active session", got.EndedAt)
	}

	if err := db.FinishSession("sess-1", SessionCompleted, 1200, 340); err != nil {
		t.Fatalf("FinishSession() error = %v", err)
	}

	got, err = db.GetSession("sess-1")
	if err != nil {
		t.Fatalf("GetSession() after finish error = %v", err)
	}
	if got.Status != SessionCompleted {
		t.Errorf("Status = %v, want %v", got.Status, SessionCompleted)
	}
	if got.EndedAt == nil {
		t.Error("EndedAt = nil, want set after FinishSession")
	}
	if got.TokensIn != 1200 || got.TokensOut != 340 {
		t.Errorf("tokens = %d/%d, want 1200/340", got.TokensIn, got.TokensOut)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.GetSession("missing"); err == nil {
		t.Error("GetSession(missing) error = nil, want error")
	}
}

func TestSaveTurn_RoundTrip(t *testing.T) {
	db := openTestDB(t)

	sess := &Session{ID: "sess-1", StartedAt: time.Now(), Status: SessionActive}
	if err := db.CreateSession(sess); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	result := &orchestrator.TurnResult{
		TurnID:    "turn-1",
		Utterance: "dim the lights and play jazz",
		Plan: []models.Task{
			{Device: models.DeviceLighting, Action: "dim the living room lights"},
			{Device: models.DeviceAudioSystem, Action: "play jazz"},
		},
		Records: []orchestrator.ActivationRecord{
			{
				Node:  models.DeviceLighting,
				Queue: []models.Task{{Device: models.DeviceAudioSystem, Action: "play jazz"}},
				Entries: []models.HistoryEntry{
					{Device: models.DeviceLighting, Type: models.HistoryTaskCompletion, ActionTaken: "dim the living room lights", Result: "lights at 30%"},
				},
			},
			{
				Node:  models.DeviceAudioSystem,
				Queue: []models.Task{},
				Entries: []models.HistoryEntry{
					{Device: models.DeviceAudioSystem, Type: models.HistoryTaskCompletion, ActionTaken: "play jazz", Result: "playing jazz"},
				},
			},
		},
		Results: map[models.DeviceID]string{
			models.DeviceLighting:    "lights at 30%",
			models.DeviceAudioSystem: "playing jazz",
		},
		Elapsed: 4200 * time.Millisecond,
	}

	if err := db.SaveTurn("sess-1", result); err != nil {
		t.Fatalf("SaveTurn() error = %v", err)
	}

	turns, err := db.ListTurns("sess-1")
	if err != nil {
		t.Fatalf("ListTurns() error = %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("len(turns) = %d, want 1", len(turns))
	}
	turn := turns[0]
	if turn.Utterance != result.Utterance {
		t.Errorf("Utterance = %q, want %q", turn.Utterance, result.Utterance)
	}
	if len(turn.Plan) != 2 {
		t.Errorf("len(Plan) = %d, want 2", len(turn.Plan))
	}
	if turn.Results[models.DeviceLighting] != "lights at 30%" {
		t.Errorf("Results[lighting] = %q, want %q", turn.Results[models.DeviceLighting], "lights at 30%")
	}
	if turn.Elapsed != 4200*time.Millisecond {
		t.Errorf("Elapsed = %v, want %v", turn.Elapsed, 4200*time.Millisecond)
	}
	if turn.Status != "completed" {
		t.Errorf("Status = %q, want %q", turn.Status, "completed")
	}

	records, err := db.ListActivations("turn-1")
	if err != nil {
		t.Fatalf("ListActivations() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Node != models.DeviceLighting {
		t.Errorf("records[0].Node = %v, want %v", records[0].Node, models.DeviceLighting)
	}
	if records[1].Node != models.DeviceAudioSystem {
		t.Errorf("records[1].Node = %v, want %v", records[1].Node, models.DeviceAudioSystem)
	}
	if len(records[0].Queue) != 1 || records[0].Queue[0].Device != models.DeviceAudioSystem {
		t.Errorf("records[0].Queue = %v, want one remaining audio task", records[0].Queue)
	}
	if len(records[1].Entries) != 1 || records[1].Entries[0].Type != models.HistoryTaskCompletion {
		t.Errorf("records[1].Entries = %v, want one task_completion entry", records[1].Entries)
	}
}

func TestSaveFailedTurn(t *testing.T) {
	db := openTestDB(t)

	sess := &Session{ID: "sess-1", StartedAt: time.Now(), Status: SessionActive}
	if err := db.CreateSession(sess); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	turnErr := &fakeErr{"planner returned no tasks"}
	if err := db.SaveFailedTurn("sess-1", "turn-1", "do the thing", turnErr); err != nil {
		t.Fatalf("SaveFailedTurn() error = %v", err)
	}

	turns, err := db.ListTurns("sess-1")
	if err != nil {
		t.Fatalf("ListTurns() error = %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("len(turns) = %d, want 1", len(turns))
	}
	if turns[0].Status != "failed" {
		t.Errorf("Status = %q, want %q", turns[0].Status, "failed")
	}
	if turns[0].Error != "planner returned no tasks" {
		t.Errorf("Error = %q, want %q", turns[0].Error, "planner returned no tasks")
	}
}

type fakeErr struct{ msg string }

func (e *fakeErr) Error() string { return e.msg }
