package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string         `json:"db_path"`
	DBSizeBytes  int64          `json:"db_size_bytes"`
	TotalRuns    int            `json:"total_runs"`
	ActiveRuns   int            `json:"active_runs"`
	TotalResults int            `json:"total_results"`
	Measures     []MeasureStats `json:"measures"`
}

// MeasureStats holds per-measure counts over live runs.
type MeasureStats struct {
	Measure string `json:"measure"`
	Count   int    `json:"count"`
	Runs    int    `json:"runs"`
	Missing int    `json:"missing"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&st.TotalRuns)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE deleted_at IS NULL`).Scan(&st.ActiveRuns)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&st.TotalResults)

	// Measures that were undefined for a region or trial are stored as null.
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.measure, COUNT(*) AS cnt, COUNT(DISTINCT r.run_id) AS runs,
		       SUM(CASE WHEN r.value = 'null' THEN 1 ELSE 0 END) AS missing
		FROM results r JOIN runs ON runs.id = r.run_id
		WHERE runs.deleted_at IS NULL
		GROUP BY r.measure ORDER BY cnt DESC, r.measure`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var m MeasureStats
		if err := rows.Scan(&m.Measure, &m.Count, &m.Runs, &m.Missing); err != nil {
			return st, err
		}
		st.Measures = append(st.Measures, m)
	}

	return st, rows.Err()
}
