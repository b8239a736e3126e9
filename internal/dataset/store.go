// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/duraxell/biomarker-engine/pkg/types"
)

// Store keeps a history of extraction runs in a SQLite database so that
// cohort completeness can be compared across runs.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the run store at dbPath. It creates the
// schema if it does not exist (R3.1, R3.2).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			cancer_type TEXT NOT NULL,
			started_at TEXT NOT NULL,
			patients INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS biomarkers (
			run_id TEXT NOT NULL REFERENCES runs(id),
			patient_id TEXT NOT NULL,
			field TEXT NOT NULL,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_biomarkers_run_id ON biomarkers(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_biomarkers_field ON biomarkers(field)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is one recorded extraction run.
type Run struct {
	ID         string           `json:"id" yaml:"id"`
	CancerType types.CancerType `json:"cancer_type" yaml:"cancer_type"`
	StartedAt  time.Time        `json:"started_at" yaml:"started_at"`
	Patients   int              `json:"patients" yaml:"patients"`
	Failed     int              `json:"failed" yaml:"failed"`
}

// NewRun stamps a fresh run identity for one extraction batch.
func NewRun(ct types.CancerType, startedAt time.Time, patients, failed int) Run {
	return Run{
		ID:         uuid.NewString(),
		CancerType: ct,
		StartedAt:  startedAt,
		Patients:   patients,
		Failed:     failed,
	}
}

// SaveRun records one extraction run and its flattened records in a
// single transaction (R3.3). Each present field becomes one biomarkers
// row; absent fields are not stored. Saving the same run ID again
// replaces the earlier rows.
func (s *Store) SaveRun(ctx context.Context, run Run, records []types.PatientRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM biomarkers WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("clearing previous rows: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, cancer_type, started_at, patients, failed)
		 VALUES (?, ?, ?, ?, ?)`,
		run.ID, string(run.CancerType), run.StartedAt.UTC().Format(time.RFC3339),
		run.Patients, run.Failed,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO biomarkers (run_id, patient_id, field, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		for _, field := range sortedFields(rec.Record) {
			_, err := stmt.ExecContext(ctx, run.ID, rec.Patient, field, rec.Record.Text(field))
			if err != nil {
				return fmt.Errorf("inserting biomarker %s/%s: %w", rec.Patient, field, err)
			}
		}
	}

	return tx.Commit()
}

func sortedFields(rec types.Record) []string {
	fields := make([]string, 0, len(rec))
	for field := range rec {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Runs returns every recorded run, newest first (R4.1).
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, cancer_type, started_at, patients, failed
		 FROM runs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			ct        string
			startedAt string
		)
		if err := rows.Scan(&run.ID, &ct, &startedAt, &run.Patients, &run.Failed); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		run.CancerType = types.CancerType(ct)
		if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
			run.StartedAt = t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recent run (R4.2).
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	var (
		run       Run
		ct        string
		startedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, cancer_type, started_at, patients, failed
		 FROM runs ORDER BY started_at DESC, id LIMIT 1`,
	).Scan(&run.ID, &ct, &startedAt, &run.Patients, &run.Failed)

	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, fmt.Errorf("no runs recorded")
		}
		return Run{}, fmt.Errorf("looking up latest run: %w", err)
	}

	run.CancerType = types.CancerType(ct)
	if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
		run.StartedAt = t
	}
	return run, nil
}

// FieldCount is one field's fill count within a run.
type FieldCount struct {
	Field string `json:"field" yaml:"field"`
	Count int    `json:"count" yaml:"count"`
}

// FieldCounts reports how many patients in a run have each field, sorted
// by count descending then field name (R4.3).
func (s *Store) FieldCounts(ctx context.Context, runID string) ([]FieldCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT field, count(*) FROM biomarkers WHERE run_id = ?
		 GROUP BY field ORDER BY count(*) DESC, field`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying field counts: %w", err)
	}
	defer rows.Close()

	var counts []FieldCount
	for rows.Next() {
		var fc FieldCount
		if err := rows.Scan(&fc.Field, &fc.Count); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		counts = append(counts, fc)
	}
	return counts, rows.Err()
}
