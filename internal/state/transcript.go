package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hearthkit/hearth/internal/orchestrator"
	"github.com/hearthkit/hearth/pkg/models"
)

// SessionStatus represents the status of a session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// Session represents one interaction session.
type Session struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   *time.Time    `json:"ended_at"`
	TokensIn  int64         `json:"tokens_in"`
	TokensOut int64         `json:"tokens_out"`
	Status    SessionStatus `json:"status"`
}

// TurnRecord is one persisted turn with its plan and results.
type TurnRecord struct {
	ID        string                       `json:"id"`
	SessionID string                       `json:"session_id"`
	Utterance string                       `json:"utterance"`
	Plan      []models.Task                `json:"plan"`
	Results   map[models.DeviceID]string   `json:"results"`
	Elapsed   time.Duration                `json:"elapsed"`
	Status    string                       `json:"status"`
	Error     string                       `json:"error,omitempty"`
	CreatedAt time.Time                    `json:"created_at"`
}

// CreateSession creates a new session row.
func (db *DB) CreateSession(s *Session) error {
	_, err := db.Exec(`
		INSERT INTO sessions (id, started_at, tokens_in, tokens_out, status)
		VALUES (?, ?, ?, ?, ?)
	`, s.ID, formatTime(s.StartedAt), s.TokensIn, s.TokensOut, string(s.Status))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FinishSession marks a session finished and records token totals.
func (db *DB) FinishSession(id string, status SessionStatus, tokensIn, tokensOut int64) error {
	_, err := db.Exec(`
		UPDATE sessions SET ended_at = ?, status = ?, tokens_in = ?, tokens_out = ?
		WHERE id = ?
	`, formatTime(time.Now()), string(status), tokensIn, tokensOut, id)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// GetSession loads a session by ID.
func (db *DB) GetSession(id string) (*Session, error) {
	row := db.QueryRow(`
		SELECT id, started_at, ended_at, tokens_in, tokens_out, status
		FROM sessions WHERE id = ?
	`, id)

	var s Session
	var startedAt string
	var endedAt sql.NullString
	var status string
	if err := row.Scan(&s.ID, &startedAt, &endedAt, &s.TokensIn, &s.TokensOut, &status); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s not found", id)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	t, err := parseTime(startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	s.StartedAt = t
	if endedAt.Valid {
		if t, err := parseTime(endedAt.String); err == nil {
			s.EndedAt = &t
		}
	}
	s.Status = SessionStatus(status)
	return &s, nil
}

// SaveTurn persists a completed turn and its activation records in
// one transaction.
func (db *DB) SaveTurn(sessionID string, result *orchestrator.TurnResult) error {
	planJSON, err := json.Marshal(result.Plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	resultsJSON, err := json.Marshal(result.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO turns (id, session_id, utterance, plan, results, elapsed_ms, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 'completed', ?)
	`, result.TurnID, sessionID, result.Utterance, string(planJSON), string(resultsJSON),
		result.Elapsed.Milliseconds(), formatTime(time.Now()))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert turn: %w", err)
	}

	for seq, rec := range result.Records {
		queueJSON, _ := json.Marshal(rec.Queue)
		collabJSON, _ := json.Marshal(rec.Collaboration)
		pendingJSON, _ := json.Marshal(rec.Pending)
		entriesJSON, _ := json.Marshal(rec.Entries)

		_, err = tx.Exec(`
			INSERT INTO activations (turn_id, seq, node, queue, collaboration, pending, entries)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, result.TurnID, seq, string(rec.Node), string(queueJSON),
			string(collabJSON), string(pendingJSON), string(entriesJSON))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert activation %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit turn: %w", err)
	}
	return nil
}

// SaveFailedTurn records a turn that aborted with an error.
func (db *DB) SaveFailedTurn(sessionID, turnID, utterance string, turnErr error) error {
	_, err := db.Exec(`
		INSERT INTO turns (id, session_id, utterance, elapsed_ms, status, error, created_at)
		VALUES (?, ?, ?, 0, 'failed', ?, ?)
	`, turnID, sessionID, utterance, turnErr.Error(), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("insert failed turn: %w", err)
	}
	return nil
}

// ListTurns returns all turns for a session in creation order.
func (db *DB) ListTurns(sessionID string) ([]*TurnRecord, error) {
	rows, err := db.Query(`
		SELECT id, session_id, utterance, plan, results, elapsed_ms, status, error, created_at
		FROM turns WHERE session_id = ? ORDER BY created_at, id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []*TurnRecord
	for rows.Next() {
		var t TurnRecord
		var plan, results, errMsg sql.NullString
		var elapsedMS int64
		var createdAt string
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Utterance, &plan, &results,
			&elapsedMS, &t.Status, &errMsg, &createdAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}

		if plan.Valid && plan.String != "" {
			if err := json.Unmarshal([]byte(plan.String), &t.Plan); err != nil {
				return nil, fmt.Errorf("unmarshal plan: %w", err)
			}
		}
		if results.Valid && results.String != "" {
			if err := json.Unmarshal([]byte(results.String), &t.Results); err != nil {
				return nil, fmt.Errorf("unmarshal results: %w", err)
			}
		}
		if errMsg.Valid {
			t.Error = errMsg.String
		}
		t.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if created, err := parseTime(createdAt); err == nil {
			t.CreatedAt = created
		}
		turns = append(turns, &t)
	}
	return turns, rows.Err()
}

// ListActivations returns the activation records for a turn in
// sequence order.
func (db *DB) ListActivations(turnID string) ([]orchestrator.ActivationRecord, error) {
	rows, err := db.Query(`
		SELECT node, queue, collaboration, pending, entries
		FROM activations WHERE turn_id = ? ORDER BY seq
	`, turnID)
	if err != nil {
		return nil, fmt.Errorf("list activations: %w", err)
	}
	defer rows.Close()

	var records []orchestrator.ActivationRecord
	for rows.Next() {
		var rec orchestrator.ActivationRecord
		var node string
		var queue, collab, pending, entries sql.NullString
		if err := rows.Scan(&node, &queue, &collab, &pending, &entries); err != nil {
			return nil, fmt.Errorf("scan activation: %w", err)
		}
		rec.Node = models.DeviceID(node)
		if queue.Valid && queue.String != "" {
			json.Unmarshal([]byte(queue.String), &rec.Queue)
		}
		if collab.Valid && collab.String != "" {
			json.Unmarshal([]byte(collab.String), &rec.Collaboration)
		}
		if pending.Valid && pending.String != "" {
			json.Unmarshal([]byte(pending.String), &rec.Pending)
		}
		if entries.Valid && entries.String != "" {
			json.Unmarshal([]byte(entries.String), &rec.Entries)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
