package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/sideeye/internal/model"
)

// timeFormat is a fixed-width RFC 3339 layout, so stored times sort as
// text.
const timeFormat = "2006-01-02T15:04:05.000000Z07:00"

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		created_at  TEXT NOT NULL,
		region_file TEXT NOT NULL,
		files       TEXT NOT NULL,
		measures    TEXT NOT NULL,
		experiments INTEGER NOT NULL DEFAULT 0,
		trials      INTEGER NOT NULL DEFAULT 0,
		results     INTEGER NOT NULL DEFAULT 0,
		config      TEXT,
		deleted_at  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_deleted ON runs(deleted_at);

	CREATE TABLE IF NOT EXISTS results (
		run_id         TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq            INTEGER NOT NULL,
		experiment     TEXT NOT NULL,
		trial_index    INTEGER NOT NULL,
		item_number    TEXT NOT NULL,
		item_condition TEXT NOT NULL,
		region_number  INTEGER,
		region_label   TEXT,
		measure        TEXT NOT NULL,
		value          TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_results_measure ON results(run_id, measure);
	CREATE INDEX IF NOT EXISTS idx_results_experiment ON results(run_id, experiment);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) SaveRun(ctx context.Context, p SaveRunParams) (*model.Run, error) {
	now := time.Now().UTC()
	id := s.newID()

	files, err := json.Marshal(nonNil(p.Files))
	if err != nil {
		return nil, fmt.Errorf("encode files: %w", err)
	}
	measures, err := json.Marshal(nonNil(p.Measures))
	if err != nil {
		return nil, fmt.Errorf("encode measures: %w", err)
	}
	var config *string
	if p.Config != "" {
		config = &p.Config
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, region_file, files, measures, experiments, trials, results, config)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, now.Format(timeFormat), p.RegionFile, string(files), string(measures),
		p.Experiments, p.Trials, len(p.Results), config)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, seq, experiment, trial_index, item_number, item_condition,
		                      region_number, region_label, measure, value)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare results: %w", err)
	}
	defer stmt.Close()

	for i, r := range p.Results {
		value, err := encodeValue(r.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %s value: %w", r.Measure, err)
		}
		var label *string
		if r.RegionNumber != nil {
			label = &r.RegionLabel
		}
		_, err = stmt.ExecContext(ctx, id, i, r.Experiment, r.TrialIndex, r.ItemNumber, r.ItemCondition,
			r.RegionNumber, label, r.Measure, value)
		if err != nil {
			return nil, fmt.Errorf("insert result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &model.Run{
		ID:          id,
		CreatedAt:   now.Truncate(time.Microsecond),
		RegionFile:  p.RegionFile,
		Files:       nonNil(p.Files),
		Measures:    nonNil(p.Measures),
		Experiments: p.Experiments,
		Trials:      p.Trials,
		Results:     len(p.Results),
		Config:      p.Config,
	}, nil
}

const runColumns = `id, created_at, region_file, files, measures, experiments, trials, results, config`

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE deleted_at IS NULL
		 ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	full, err := s.resolveRunID(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, full))
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// resolveRunID expands an id prefix to the id of a live run.
func (s *SQLiteStore) resolveRunID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM runs WHERE id LIKE ? AND deleted_at IS NULL LIMIT 2`, prefix+"%")
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return ids[0], nil
	}
	return "", fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
}

func (s *SQLiteStore) Results(ctx context.Context, p ResultParams) ([]model.Result, error) {
	id, err := s.resolveRunID(ctx, p.RunID)
	if err != nil {
		return nil, err
	}

	where := []string{"run_id = ?"}
	args := []interface{}{id}
	if p.Experiment != "" {
		where = append(where, "experiment = ?")
		args = append(args, p.Experiment)
	}
	if p.Measure != "" {
		where = append(where, "measure = ?")
		args = append(args, p.Measure)
	}
	query := `SELECT run_id, experiment, trial_index, item_number, item_condition,
	                 region_number, region_label, measure, value
	          FROM results WHERE ` + strings.Join(where, " AND ") + ` ORDER BY seq`
	if p.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, p.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) RmRun(ctx context.Context, p RmParams) error {
	id, err := s.resolveRunID(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.Hard {
		_, err = s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
		return err
	}
	now := time.Now().UTC().Format(timeFormat)
	_, err = s.db.ExecContext(ctx, `UPDATE runs SET deleted_at = ? WHERE id = ?`, now, id)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (model.Run, error) {
	var r model.Run
	var createdAt, files, measures string
	var config sql.NullString

	err := row.Scan(&r.ID, &createdAt, &r.RegionFile, &files, &measures,
		&r.Experiments, &r.Trials, &r.Results, &config)
	if err == sql.ErrNoRows {
		return r, ErrNotFound
	}
	if err != nil {
		return r, err
	}

	r.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	json.Unmarshal([]byte(files), &r.Files)
	json.Unmarshal([]byte(measures), &r.Measures)
	if config.Valid {
		r.Config = config.String
	}
	return r, nil
}

func scanResult(row scanner) (model.Result, error) {
	var r model.Result
	var region sql.NullInt64
	var label sql.NullString
	var value string

	err := row.Scan(&r.RunID, &r.Experiment, &r.TrialIndex, &r.ItemNumber, &r.ItemCondition,
		&region, &label, &r.Measure, &value)
	if err != nil {
		return r, err
	}
	if region.Valid {
		r.RegionNumber = model.IntPtr(int(region.Int64))
	}
	if label.Valid {
		r.RegionLabel = label.String
	}
	r.Value, err = decodeValue(value)
	if err != nil {
		return r, fmt.Errorf("decode %s value: %w", r.Measure, err)
	}
	return r, nil
}

// encodeValue renders a measure value as JSON. Whole floats keep a
// decimal point so they decode back to float64.
func encodeValue(v any) (string, error) {
	if f, ok := v.(float64); ok {
		switch {
		case math.IsNaN(f) || math.IsInf(f, 0):
			return "null", nil
		case f == math.Trunc(f) && math.Abs(f) < 1e15:
			return strconv.FormatFloat(f, 'f', 1, 64), nil
		}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

// decodeValue restores a JSON measure value, keeping whole numbers as int.
func decodeValue(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return numberValue(v)
}

// numberValue converts a json.Number to int or float64, leaving other
// values alone.
func numberValue(v any) (any, error) {
	n, ok := v.(json.Number)
	if !ok {
		return v, nil
	}
	if strings.ContainsAny(n.String(), ".eE") {
		return n.Float64()
	}
	if i, err := n.Int64(); err == nil {
		return int(i), nil
	}
	return n.Float64()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
