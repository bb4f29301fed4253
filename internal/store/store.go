package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	run_id         TEXT PRIMARY KEY,
	model_path     TEXT NOT NULL,
	property       TEXT NOT NULL,
	kind           TEXT NOT NULL,
	precision      REAL NOT NULL,
	trajectories   INTEGER NOT NULL,
	explored       INTEGER NOT NULL,
	collapsed      INTEGER NOT NULL,
	duration_ms    INTEGER NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_states (
	run_id      TEXT NOT NULL,
	state_id    INTEGER NOT NULL,
	is_initial  INTEGER NOT NULL,
	is_target   INTEGER NOT NULL,
	is_explored INTEGER NOT NULL,
	lower       REAL NOT NULL,
	upper       REAL NOT NULL,
	PRIMARY KEY (run_id, state_id),
	FOREIGN KEY (run_id) REFERENCES analysis_runs(run_id)
);

CREATE TABLE IF NOT EXISTS snapshot_transitions (
	run_id       TEXT NOT NULL,
	state_id     INTEGER NOT NULL,
	choice_idx   INTEGER NOT NULL,
	label        TEXT NOT NULL,
	successor_id INTEGER NOT NULL,
	probability  REAL NOT NULL,
	FOREIGN KEY (run_id) REFERENCES analysis_runs(run_id)
);
CREATE INDEX IF NOT EXISTS idx_transitions_run_state ON snapshot_transitions(run_id, state_id);
`

// #endregion schema

// #region store-struct

// Store persists analysis runs and explored-model snapshots in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages.
func (s *Store) DB() *sql.DB {
	return s.db
}

// NewRunID mints a fresh analysis run id.
func NewRunID() string {
	return uuid.New().String()
}

// #endregion constructor

// #region save-run

// SaveRun writes a run record and its snapshot atomically.
func (s *Store) SaveRun(run RunRecord, snap Snapshot) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO analysis_runs (run_id, model_path, property, kind, precision, trajectories, explored, collapsed, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.ModelPath, run.Property, run.Kind, run.Precision,
		run.Trajectories, run.ExploredStates, run.CollapsedComponents,
		run.DurationMS, run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, st := range snap.States {
		_, err = tx.Exec(
			`INSERT INTO snapshot_states (run_id, state_id, is_initial, is_target, is_explored, lower, upper)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, st.StateID, boolToInt(st.IsInitial), boolToInt(st.IsTarget),
			boolToInt(st.IsExplored), st.Lower, st.Upper,
		)
		if err != nil {
			return fmt.Errorf("insert state %d: %w", st.StateID, err)
		}
	}

	for _, tr := range snap.Transitions {
		_, err = tx.Exec(
			`INSERT INTO snapshot_transitions (run_id, state_id, choice_idx, label, successor_id, probability)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			run.RunID, tr.StateID, tr.ChoiceIdx, tr.Label, tr.SuccessorID, tr.Probability,
		)
		if err != nil {
			return fmt.Errorf("insert transition %d/%d: %w", tr.StateID, tr.ChoiceIdx, err)
		}
	}

	return tx.Commit()
}

// #endregion save-run

// #region list-runs

// ListRuns returns the most recent run records.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, model_path, property, kind, precision, trajectories, explored, collapsed, duration_ms, created_at
		 FROM analysis_runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRun retrieves one run record.
func (s *Store) GetRun(runID string) (RunRecord, error) {
	row := s.db.QueryRow(
		`SELECT run_id, model_path, property, kind, precision, trajectories, explored, collapsed, duration_ms, created_at
		 FROM analysis_runs WHERE run_id = ?`, runID,
	)
	rec, err := scanRun(row)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var rec RunRecord
	var createdStr string
	err := row.Scan(&rec.RunID, &rec.ModelPath, &rec.Property, &rec.Kind, &rec.Precision,
		&rec.Trajectories, &rec.ExploredStates, &rec.CollapsedComponents, &rec.DurationMS, &createdStr)
	if err != nil {
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

// #endregion list-runs

// #region load-snapshot

// LoadSnapshot reads back the explored model of a run.
func (s *Store) LoadSnapshot(runID string) (Snapshot, error) {
	var snap Snapshot

	rows, err := s.db.Query(
		`SELECT state_id, is_initial, is_target, is_explored, lower, upper
		 FROM snapshot_states WHERE run_id = ? ORDER BY state_id`, runID,
	)
	if err != nil {
		return snap, fmt.Errorf("load states: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var st StateRow
		var isInitial, isTarget, isExplored int
		if err := rows.Scan(&st.StateID, &isInitial, &isTarget, &isExplored, &st.Lower, &st.Upper); err != nil {
			return snap, fmt.Errorf("scan state: %w", err)
		}
		st.IsInitial = isInitial != 0
		st.IsTarget = isTarget != 0
		st.IsExplored = isExplored != 0
		snap.States = append(snap.States, st)
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}

	trows, err := s.db.Query(
		`SELECT state_id, choice_idx, label, successor_id, probability
		 FROM snapshot_transitions WHERE run_id = ? ORDER BY state_id, choice_idx`, runID,
	)
	if err != nil {
		return snap, fmt.Errorf("load transitions: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var tr TransitionRow
		if err := trows.Scan(&tr.StateID, &tr.ChoiceIdx, &tr.Label, &tr.SuccessorID, &tr.Probability); err != nil {
			return snap, fmt.Errorf("scan transition: %w", err)
		}
		snap.Transitions = append(snap.Transitions, tr)
	}
	return snap, trows.Err()
}

// #endregion load-snapshot

// #region helpers
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
