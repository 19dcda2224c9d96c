package results

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/progressive-sampling/internal/driver"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	variant     TEXT NOT NULL,
	seed        INTEGER NOT NULL,
	sizes_json  TEXT NOT NULL,
	repeats     INTEGER NOT NULL,
	notes       TEXT,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	sample_size   INTEGER NOT NULL,
	repeat        INTEGER NOT NULL,
	mean_accuracy REAL NOT NULL,
	UNIQUE (run_id, sample_size, repeat),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS run_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT,
	mode        TEXT NOT NULL,
	detail      TEXT,
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// ErrNoRun is returned by the load operations when nothing is stored.
var ErrNoRun = errors.New("no stored run")

// #region store-struct
// Store persists experiment runs and their result tables in SQLite.
// It is a manual cache: nothing here checks staleness, the caller
// chooses Recompute or LoadCached explicitly.
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

// #endregion constructor

// #region run-meta
// RunMeta describes one persisted run.
type RunMeta struct {
	RunID     string
	Variant   string // "simulated" | "winequality"
	Seed      int64
	Sizes     []int
	Repeats   int
	Notes     string
	CreatedAt time.Time
}

// #endregion run-meta

// #region save

// SaveRun writes the run row and its result table in one transaction
// and returns the meta with RunID and CreatedAt filled in.
func (s *Store) SaveRun(meta RunMeta, rows []driver.ResultRow) (RunMeta, error) {
	if len(rows) == 0 {
		return RunMeta{}, fmt.Errorf("refusing to save empty result table")
	}
	meta.RunID = uuid.New().String()
	meta.CreatedAt = time.Now().UTC()

	sizesJSON, err := json.Marshal(meta.Sizes)
	if err != nil {
		return RunMeta{}, fmt.Errorf("marshal sizes: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return RunMeta{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, variant, seed, sizes_json, repeats, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		meta.RunID, meta.Variant, meta.Seed, string(sizesJSON), meta.Repeats,
		nullIfEmpty(meta.Notes), meta.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return RunMeta{}, fmt.Errorf("insert run: %w", err)
	}

	for _, r := range rows {
		_, err = tx.Exec(
			`INSERT INTO results (run_id, sample_size, repeat, mean_accuracy)
			 VALUES (?, ?, ?, ?)`,
			meta.RunID, r.SampleSize, r.Repeat, r.MeanAccuracy,
		)
		if err != nil {
			return RunMeta{}, fmt.Errorf("insert result (%d,%d): %w", r.SampleSize, r.Repeat, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return RunMeta{}, fmt.Errorf("commit: %w", err)
	}
	return meta, nil
}

// #endregion save

// #region load

// LoadRun returns the stored result table for a run, in insertion
// order, exactly as persisted.
func (s *Store) LoadRun(runID string) ([]driver.ResultRow, error) {
	rows, err := s.db.Query(
		`SELECT sample_size, repeat, mean_accuracy FROM results
		 WHERE run_id = ? ORDER BY id ASC`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []driver.ResultRow
	for rows.Next() {
		var r driver.ResultRow
		if err := rows.Scan(&r.SampleSize, &r.Repeat, &r.MeanAccuracy); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNoRun)
	}
	return out, nil
}

// LoadLatest returns the most recent run of the given variant with
// its table. ErrNoRun when nothing matches.
func (s *Store) LoadLatest(variant string) (RunMeta, []driver.ResultRow, error) {
	meta, err := s.scanRun(s.db.QueryRow(
		`SELECT run_id, variant, seed, sizes_json, repeats, notes, created_at
		 FROM runs WHERE variant = ? ORDER BY created_at DESC LIMIT 1`, variant,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return RunMeta{}, nil, fmt.Errorf("variant %s: %w", variant, ErrNoRun)
	}
	if err != nil {
		return RunMeta{}, nil, err
	}
	rows, err := s.LoadRun(meta.RunID)
	if err != nil {
		return RunMeta{}, nil, err
	}
	return meta, rows, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunMeta, error) {
	rows, err := s.db.Query(
		`SELECT run_id, variant, seed, sizes_json, repeats, notes, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunMeta
	for rows.Next() {
		meta, err := s.scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *Store) scanRun(row rowScanner) (RunMeta, error) {
	var meta RunMeta
	var sizesJSON, createdStr string
	var notes sql.NullString
	if err := row.Scan(&meta.RunID, &meta.Variant, &meta.Seed, &sizesJSON,
		&meta.Repeats, &notes, &createdStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunMeta{}, err
		}
		return RunMeta{}, fmt.Errorf("scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(sizesJSON), &meta.Sizes); err != nil {
		return RunMeta{}, fmt.Errorf("unmarshal sizes: %w", err)
	}
	if notes.Valid {
		meta.Notes = notes.String
	}
	meta.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return meta, nil
}

// #endregion load

// #region run-log

// LogAccess appends a run_log row recording how a result table was
// obtained (computed fresh or served from the cache).
func (s *Store) LogAccess(runID, mode, detail string) error {
	_, err := s.db.Exec(
		`INSERT INTO run_log (run_id, mode, detail, created_at) VALUES (?, ?, ?, ?)`,
		nullIfEmpty(runID), mode, nullIfEmpty(detail),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log access: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion run-log
