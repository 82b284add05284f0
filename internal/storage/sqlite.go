// Package storage provides SQLite-based persistence for Labyrinth run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// timeLayout is how run timestamps are stored; it sorts lexically.
const timeLayout = "2006-01-02 15:04:05.000"

// Outcome describes how a run ended.
type Outcome string

const (
	OutcomeWon       Outcome = "won"
	OutcomeLost      Outcome = "lost"
	OutcomeAbandoned Outcome = "abandoned" // left for the menu or quit mid-level
)

// Store manages the SQLite database connection for run history.
// It is safe for concurrent use; SSH sessions share one Store.
type Store struct {
	db *sql.DB
}

// RunResult is one finished (or abandoned) attempt at a level.
type RunResult struct {
	ID         string // uuid, assigned by SaveRun when empty
	LevelID    string
	Player     string
	Outcome    Outcome
	Ticks      int
	Kills      int
	Lights     int
	HealthLeft int
	Difficulty string
	CreatedAt  time.Time
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	LevelID    string
	Runs       int
	Wins       int
	Losses     int
	BestTicks  int // fewest ticks to win, 0 if never won
	TotalKills int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
// The special path ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if strings.HasPrefix(dbPath, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
			}
			dbPath = filepath.Join(home, dbPath[1:])
		}

		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			level_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			kills INTEGER NOT NULL DEFAULT 0,
			lights INTEGER NOT NULL DEFAULT 0,
			health_left INTEGER NOT NULL DEFAULT 0,
			difficulty TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level_id);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(level_id, outcome, ticks);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run and returns its ID.
// A missing ID or timestamp is filled in.
func (s *Store) SaveRun(r RunResult) (string, error) {
	if r.LevelID == "" {
		return "", errors.New("storage: run has no level id")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, level_id, player, outcome, ticks, kills, lights, health_left, difficulty, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.LevelID, r.Player, string(r.Outcome), r.Ticks, r.Kills, r.Lights, r.HealthLeft,
		r.Difficulty, r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return r.ID, nil
}

const runColumns = `id, level_id, player, outcome, ticks, kills, lights, health_left, difficulty, created_at`

// RecentRuns retrieves the most recent runs across all levels.
func (s *Store) RecentRuns(limit int) ([]RunResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
}

// LevelRuns retrieves the most recent runs of one level.
func (s *Store) LevelRuns(levelID string, limit int) ([]RunResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs WHERE level_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		levelID, limit,
	)
}

// BestRuns retrieves the fastest wins for a level.
// Results are ordered by ticks ascending, earlier runs first on ties.
func (s *Store) BestRuns(levelID string, limit int) ([]RunResult, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs
		 WHERE level_id = ? AND outcome = ?
		 ORDER BY ticks ASC, created_at ASC
		 LIMIT ?`,
		levelID, string(OutcomeWon), limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunResult
	for rows.Next() {
		var r RunResult
		var outcome, createdAt string
		if err := rows.Scan(&r.ID, &r.LevelID, &r.Player, &outcome, &r.Ticks, &r.Kills,
			&r.Lights, &r.HealthLeft, &r.Difficulty, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Outcome = Outcome(outcome)
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// LevelStats retrieves aggregated statistics for one level.
func (s *Store) LevelStats(levelID string) (*LevelStats, error) {
	all, err := s.statsWhere(`WHERE level_id = ?`, levelID)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return &LevelStats{LevelID: levelID}, nil
	}
	return &all[0], nil
}

// AllLevelStats retrieves statistics for every level that has been played,
// ordered by level ID.
func (s *Store) AllLevelStats() ([]LevelStats, error) {
	return s.statsWhere("")
}

func (s *Store) statsWhere(where string, args ...any) ([]LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id,
		        COUNT(*),
		        COALESCE(SUM(outcome = 'won'), 0),
		        COALESCE(SUM(outcome = 'lost'), 0),
		        COALESCE(MIN(CASE WHEN outcome = 'won' THEN ticks END), 0),
		        COALESCE(SUM(kills), 0),
		        MAX(created_at)
		 FROM runs `+where+`
		 GROUP BY level_id
		 ORDER BY level_id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	defer rows.Close()

	var stats []LevelStats
	for rows.Next() {
		var st LevelStats
		var lastPlayed string
		if err := rows.Scan(&st.LevelID, &st.Runs, &st.Wins, &st.Losses, &st.BestTicks,
			&st.TotalKills, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearRuns deletes the history of one level, or of every level when
// levelID is empty. Returns the number of runs removed.
func (s *Store) ClearRuns(levelID string) (int64, error) {
	var res sql.Result
	var err error
	if levelID == "" {
		res, err = s.db.Exec("DELETE FROM runs")
	} else {
		res, err = s.db.Exec("DELETE FROM runs WHERE level_id = ?", levelID)
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count cleared runs: %w", err)
	}
	return n, nil
}

// parseTime reads a stored timestamp; unparseable values become zero.
func parseTime(v string) time.Time {
	for _, layout := range []string{timeLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}
