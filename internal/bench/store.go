package bench

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Result is one stored benchmark case outcome.
type Result struct {
	RunID     string
	Suite     string
	CaseID    string
	Category  string
	UserInput string
	Status    string
	Error     string
	ElapsedMS int64
	RanAt     time.Time
}

// ResultStore persists benchmark outcomes so runs can be compared
// over time.
type ResultStore struct {
	db *sql.DB
}

// NewResultStore opens the store at the given database path.
func NewResultStore(dbPath string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS bench_results (
			run_id TEXT,
			suite TEXT,
			case_id TEXT,
			category TEXT,
			user_input TEXT,
			status TEXT,
			error TEXT,
			elapsed_ms INT,
			ran_at DATETIME,
			PRIMARY KEY (run_id, case_id)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &ResultStore{db: db}, nil
}

// SaveResult records one case outcome.
func (s *ResultStore) SaveResult(r *Result) error {
	_, err := s.db.Exec(`
		INSERT INTO bench_results (run_id, suite, case_id, category, user_input, status, error, elapsed_ms, ran_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.RunID, r.Suite, r.CaseID, r.Category, r.UserInput, r.Status, r.Error, r.ElapsedMS, r.RanAt)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// ListRun returns all results for a run in case order.
func (s *ResultStore) ListRun(runID string) ([]*Result, error) {
	rows, err := s.db.Query(`
		SELECT run_id, suite, case_id, category, user_input, status, error, elapsed_ms, ran_at
		FROM bench_results
		WHERE run_id = ?
		ORDER BY ran_at, case_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run: %w", err)
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		var r Result
		var errMsg sql.NullString
		if err := rows.Scan(&r.RunID, &r.Suite, &r.CaseID, &r.Category, &r.UserInput,
			&r.Status, &errMsg, &r.ElapsedMS, &r.RanAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if errMsg.Valid {
			r.Error = errMsg.String
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

// Close closes the database connection.
func (s *ResultStore) Close() error {
	return s.db.Close()
}
