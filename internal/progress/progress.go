// internal/progress/progress.go
//
// Durable player progress, keyed by owner (user id or anonymous id).
// Responsibilities:
//   - Campaign: per-level best time, best stars and completion count; level
//     N+1 unlocks once level N is completed.
//   - Quick play: games, wins and best winning time per difficulty.
//   - Moving an anonymous player's progress onto an account after login.

package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidLevel = errors.New("invalid campaign level")

// LevelRecord is the saved result for one campaign level.
type LevelRecord struct {
	Level       int `json:"levelNumber"`
	BestSeconds int `json:"bestTime"`
	Stars       int `json:"stars"`
	Completions int `json:"completions"`
}

// Campaign summarizes an owner's campaign.
type Campaign struct {
	CurrentLevel    int           `json:"currentLevel"` // highest unlocked level
	CompletedLevels int           `json:"completedLevels"`
	TotalStars      int           `json:"totalStars"`
	Levels          []LevelRecord `json:"levels"`
}

// QuickPlayStat holds quick-play totals for one difficulty.
// BestSeconds is 0 until the first win.
type QuickPlayStat struct {
	Difficulty  string `json:"difficulty"`
	Games       int    `json:"games"`
	Wins        int    `json:"wins"`
	BestSeconds int    `json:"bestTime"`
}

// Store reads and writes progress tables.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func stamp() string { return time.Now().UTC().Format(time.RFC3339) }

// CompleteLevel records a completion, keeping the best time and the best stars.
func (s *Store) CompleteLevel(ctx context.Context, owner string, level, seconds, stars int) (LevelRecord, error) {
	if level < 1 {
		return LevelRecord{}, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO campaign_progress (owner_id, level, best_seconds, stars, completions, updated_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(owner_id, level) DO UPDATE SET
			best_seconds = MIN(best_seconds, excluded.best_seconds),
			stars        = MAX(stars, excluded.stars),
			completions  = completions + 1,
			updated_at   = excluded.updated_at`,
		owner, level, max(0, seconds), stars, stamp())
	if err != nil {
		return LevelRecord{}, fmt.Errorf("complete level %d: %w", level, err)
	}
	var r LevelRecord
	err = s.db.QueryRowContext(ctx,
		`SELECT level, best_seconds, stars, completions FROM campaign_progress WHERE owner_id=? AND level=?`,
		owner, level).Scan(&r.Level, &r.BestSeconds, &r.Stars, &r.Completions)
	return r, err
}

// Unlocked reports whether owner may play level: level 1 always, otherwise
// once the previous level is completed.
func (s *Store) Unlocked(ctx context.Context, owner string, level int) (bool, error) {
	if level < 1 {
		return false, nil
	}
	if level == 1 {
		return true, nil
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM campaign_progress WHERE owner_id=? AND level=?`, owner, level-1).Scan(&n)
	return n > 0, err
}

// Campaign returns owner's campaign summary, levels in ascending order.
func (s *Store) Campaign(ctx context.Context, owner string) (Campaign, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level, best_seconds, stars, completions FROM campaign_progress
		 WHERE owner_id=? ORDER BY level ASC`, owner)
	if err != nil {
		return Campaign{}, err
	}
	defer rows.Close()

	c := Campaign{CurrentLevel: 1, Levels: []LevelRecord{}}
	for rows.Next() {
		var r LevelRecord
		if err := rows.Scan(&r.Level, &r.BestSeconds, &r.Stars, &r.Completions); err != nil {
			return Campaign{}, err
		}
		c.Levels = append(c.Levels, r)
		c.CompletedLevels++
		c.TotalStars += r.Stars
		c.CurrentLevel = max(c.CurrentLevel, r.Level+1)
	}
	return c, rows.Err()
}

// RecordQuickPlay counts one quick-play game; wins also update the best time.
func (s *Store) RecordQuickPlay(ctx context.Context, owner, difficulty string, seconds int, won bool) error {
	wins, best := 0, 0
	if won {
		wins, best = 1, max(1, seconds)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quickplay_stats (owner_id, difficulty, games, wins, best_seconds, updated_at)
		VALUES (?, ?, 1, ?, ?, ?)
		ON CONFLICT(owner_id, difficulty) DO UPDATE SET
			games        = games + 1,
			wins         = wins + excluded.wins,
			best_seconds = CASE
				WHEN excluded.best_seconds = 0 THEN best_seconds
				WHEN best_seconds = 0 THEN excluded.best_seconds
				ELSE MIN(best_seconds, excluded.best_seconds) END,
			updated_at   = excluded.updated_at`,
		owner, difficulty, wins, best, stamp())
	if err != nil {
		return fmt.Errorf("record quick play: %w", err)
	}
	return nil
}

// QuickPlayStats returns owner's stats ordered easy, medium, hard, then anything else.
func (s *Store) QuickPlayStats(ctx context.Context, owner string) ([]QuickPlayStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT difficulty, games, wins, best_seconds FROM quickplay_stats
		WHERE owner_id=?
		ORDER BY CASE difficulty WHEN 'easy' THEN 0 WHEN 'medium' THEN 1 WHEN 'hard' THEN 2 ELSE 3 END, difficulty`,
		owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []QuickPlayStat{}
	for rows.Next() {
		var q QuickPlayStat
		if err := rows.Scan(&q.Difficulty, &q.Games, &q.Wins, &q.BestSeconds); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// ClaimAnonymous merges anonID's progress into userID and removes the anonymous rows.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" || anonID == userID {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{
		`INSERT INTO campaign_progress (owner_id, level, best_seconds, stars, completions, updated_at)
		 SELECT ?, level, best_seconds, stars, completions, updated_at FROM campaign_progress WHERE owner_id=?
		 ON CONFLICT(owner_id, level) DO UPDATE SET
			best_seconds = MIN(best_seconds, excluded.best_seconds),
			stars        = MAX(stars, excluded.stars),
			completions  = completions + excluded.completions`,
		`INSERT INTO quickplay_stats (owner_id, difficulty, games, wins, best_seconds, updated_at)
		 SELECT ?, difficulty, games, wins, best_seconds, updated_at FROM quickplay_stats WHERE owner_id=?
		 ON CONFLICT(owner_id, difficulty) DO UPDATE SET
			games        = games + excluded.games,
			wins         = wins + excluded.wins,
			best_seconds = CASE
				WHEN excluded.best_seconds = 0 THEN best_seconds
				WHEN best_seconds = 0 THEN excluded.best_seconds
				ELSE MIN(best_seconds, excluded.best_seconds) END`,
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q, userID, anonID); err != nil {
			return fmt.Errorf("claim progress: %w", err)
		}
	}
	for _, table := range []string{"campaign_progress", "quickplay_stats"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE owner_id=?`, anonID); err != nil {
			return fmt.Errorf("claim progress: %w", err)
		}
	}
	return tx.Commit()
}
