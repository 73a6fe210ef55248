// Package storage provides SQLite-based persistence for race results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tilt-platformer/internal/game"
)

// LocalPlayer is recorded for races played outside the SSH server.
const LocalPlayer = "local"

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run represents a single finished race.
type Run struct {
	ID           int64
	RunID        string
	Player       string
	WorldID      int
	Score        int
	PartnerScore int
	Outcome      game.Outcome
	Multiplayer  bool
	Completed    bool
	CreatedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
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
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			player TEXT NOT NULL,
			world_id INTEGER NOT NULL,
			score INTEGER NOT NULL,
			partner_score INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			multiplayer INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_world_id ON runs(world_id);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(world_id, completed, score DESC);
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

// SaveRun records a finished race. An empty RunID gets a fresh UUID.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	if r.Player == "" {
		r.Player = LocalPlayer
	}

	res, err := s.db.Exec(
		`INSERT INTO runs
		 (run_id, player, world_id, score, partner_score, outcome, multiplayer, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Player, r.WorldID, r.Score, r.PartnerScore,
		r.Outcome.String(), r.Multiplayer, r.Completed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// Sink returns a result sink that records races for the named player.
func (s *Store) Sink(player string) game.ResultSink {
	return &playerSink{store: s, player: player}
}

type playerSink struct {
	store  *Store
	player string
}

func (p *playerSink) RecordResult(r game.Result) error {
	_, err := p.store.SaveRun(Run{
		Player:       p.player,
		WorldID:      r.WorldID,
		Score:        r.Score,
		PartnerScore: r.PartnerScore,
		Outcome:      r.Outcome,
		Multiplayer:  r.Multiplayer,
		Completed:    r.Completed,
	})
	return err
}

// RecordResult implements game.ResultSink for the local player.
func (s *Store) RecordResult(r game.Result) error {
	return s.Sink(LocalPlayer).RecordResult(r)
}

var _ game.ResultSink = (*Store)(nil)

const runColumns = `id, run_id, player, world_id, score, partner_score, outcome, multiplayer, completed, created_at`

// TopScores retrieves the best completed runs on a world.
// Results are ordered by score descending, earliest first on ties.
func (s *Store) TopScores(worldID, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE world_id = ? AND completed = 1
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		worldID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanRuns(rows)
}

// RecentRuns retrieves the most recent runs on any world.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// HighScore returns the best completed score on a world, or 0.
func (s *Store) HighScore(worldID int) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE world_id = ? AND completed = 1",
		worldID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearRuns deletes all runs on a world.
func (s *Store) ClearRuns(worldID int) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE world_id = ?", worldID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// WorldStats contains aggregated statistics for a world.
type WorldStats struct {
	WorldID    int
	Runs       int
	Completed  int
	Wins       int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

const statsColumns = `world_id, COUNT(*),
	COALESCE(SUM(completed), 0),
	COALESCE(SUM(CASE WHEN outcome = 'win' THEN 1 ELSE 0 END), 0),
	COALESCE(MAX(CASE WHEN completed = 1 THEN score END), 0),
	COALESCE(AVG(CASE WHEN completed = 1 THEN score END), 0),
	MAX(created_at)`

// WorldStats retrieves aggregated statistics for one world.
// A world without runs reports zero values.
func (s *Store) WorldStats(worldID int) (*WorldStats, error) {
	row := s.db.QueryRow(
		`SELECT `+statsColumns+` FROM runs WHERE world_id = ? GROUP BY world_id`,
		worldID,
	)
	stats, err := scanStats(row)
	if errors.Is(err, sql.ErrNoRows) {
		return &WorldStats{WorldID: worldID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get world stats: %w", err)
	}
	return stats, nil
}

// AllWorldStats retrieves statistics for every world that has been played.
func (s *Store) AllWorldStats() (map[int]*WorldStats, error) {
	rows, err := s.db.Query(`SELECT ` + statsColumns + ` FROM runs GROUP BY world_id`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all world stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[int]*WorldStats)
	for rows.Next() {
		st, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats[st.WorldID] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStats(row scanner) (*WorldStats, error) {
	var st WorldStats
	var lastPlayed any
	if err := row.Scan(&st.WorldID, &st.Runs, &st.Completed, &st.Wins, &st.HighScore, &st.AvgScore, &lastPlayed); err != nil {
		return nil, err
	}
	st.LastPlayed = parseTime(lastPlayed)
	return &st, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var outcome string
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.Player, &r.WorldID, &r.Score, &r.PartnerScore,
			&outcome, &r.Multiplayer, &r.Completed, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		o, err := game.ParseOutcome(outcome)
		if err != nil {
			return nil, fmt.Errorf("storage: run %s: %w", r.RunID, err)
		}
		r.Outcome = o
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
