// Package journal stores script runs in a SQLite database under the data
// directory.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/stackmap/internal/script"
)

// FileName is the database file created in the data directory.
const FileName = "journal.db"

// timeFormat is fixed width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Journal errors.
var (
	ErrClosed      = errors.New("journal is closed")
	ErrRunNotFound = errors.New("run not found")
)

// Journal records script runs. It is safe for concurrent use.
type Journal struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// Run summarizes one recorded run.
type Run struct {
	ID         string    `json:"run_id"`
	Script     string    `json:"script"`
	Branch     string    `json:"branch"`
	FinalLen   int       `json:"final_len"`
	StepCount  int       `json:"step_count"`
	Frames     []string  `json:"frames"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Open opens (creating if needed) the journal in dataDir.
func Open(dataDir string) (*Journal, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(dataDir, FileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One connection keeps writes serialized and the pragma in effect.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	return &Journal{db: db, path: path}, nil
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}

// Close releases the database. Idempotent.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// Record stores tr and its steps in one transaction and returns the new run
// ID, a UUID v7.
func (j *Journal) Record(ctx context.Context, tr *script.Trace) (string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.db == nil {
		return "", ErrClosed
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	runID := id.String()

	frames, err := json.Marshal(tr.Frames)
	if err != nil {
		return "", fmt.Errorf("marshal frames: %w", err)
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, script, branch, final_len, step_count, frames, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, tr.Script, tr.Branch, tr.FinalLen, len(tr.Steps), string(frames),
		tr.Started.UTC().Format(timeFormat), tr.Finished.UTC().Format(timeFormat),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for _, st := range tr.Steps {
		var tags sql.NullString
		if st.Tags != nil {
			b, err := json.Marshal(st.Tags)
			if err != nil {
				return "", fmt.Errorf("marshal tags: %w", err)
			}
			tags = sql.NullString{String: string(b), Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO steps (run_id, step_index, op, kind, branch, outcome, value, len, tags)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, st.Index, st.Op, st.Kind, st.Branch, st.Outcome, st.Value, st.Len, tags,
		)
		if err != nil {
			return "", fmt.Errorf("inserting step %d: %w", st.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs returns up to limit runs, newest first. A limit <= 0 returns all.
func (j *Journal) Runs(ctx context.Context, limit int) ([]Run, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.db == nil {
		return nil, ErrClosed
	}

	query := `SELECT run_id, script, branch, final_len, step_count, frames, started_at, finished_at
		FROM runs ORDER BY started_at DESC, run_id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := hydrateRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Run returns the run with the given ID.
func (j *Journal) Run(ctx context.Context, runID string) (*Run, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.db == nil {
		return nil, ErrClosed
	}

	row := j.db.QueryRowContext(ctx,
		`SELECT run_id, script, branch, final_len, step_count, frames, started_at, finished_at
		 FROM runs WHERE run_id = ?`, runID)
	r, err := hydrateRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	return r, nil
}

// Steps returns the steps of a run in order.
func (j *Journal) Steps(ctx context.Context, runID string) ([]script.StepResult, error) {
	if _, err := j.Run(ctx, runID); err != nil {
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.db == nil {
		return nil, ErrClosed
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT step_index, op, kind, branch, outcome, value, len, tags
		 FROM steps WHERE run_id = ? ORDER BY step_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying steps: %w", err)
	}
	defer rows.Close()

	var steps []script.StepResult
	for rows.Next() {
		var (
			st          script.StepResult
			kind, value sql.NullString
			tags        sql.NullString
		)
		if err := rows.Scan(&st.Index, &st.Op, &kind, &st.Branch, &st.Outcome, &value, &st.Len, &tags); err != nil {
			return nil, fmt.Errorf("scanning step: %w", err)
		}
		st.Kind = kind.String
		st.Value = value.String
		if tags.Valid {
			if err := json.Unmarshal([]byte(tags.String), &st.Tags); err != nil {
				return nil, fmt.Errorf("decoding tags: %w", err)
			}
		}
		steps = append(steps, st)
	}
	return steps, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func hydrateRun(s scanner) (*Run, error) {
	var (
		r                 Run
		frames            string
		started, finished string
	)
	if err := s.Scan(&r.ID, &r.Script, &r.Branch, &r.FinalLen, &r.StepCount, &frames, &started, &finished); err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	if err := json.Unmarshal([]byte(frames), &r.Frames); err != nil {
		return nil, fmt.Errorf("decoding frames: %w", err)
	}

	var err error
	if r.StartedAt, err = time.Parse(timeFormat, started); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if r.FinishedAt, err = time.Parse(timeFormat, finished); err != nil {
		return nil, fmt.Errorf("parsing finished_at: %w", err)
	}
	return &r, nil
}
