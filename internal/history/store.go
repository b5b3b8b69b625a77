package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/robalobadob/wordle/apps/tile-board/internal/game"
)

// Record is one game as seen by the history table.
type Record struct {
	GameID     string      `json:"gameId"`
	Status     game.Status `json:"status"`
	Rows       int         `json:"rows"`
	Cols       int         `json:"cols"`
	Attempts   int         `json:"attempts"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt *time.Time  `json:"finishedAt,omitempty"`
}

// Store records game starts and outcomes. The secret word is never stored.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Started inserts a row for a new game. Re-inserting the same id is a no-op.
func (s *Store) Started(ctx context.Context, b *game.Board, at time.Time) error {
	cfg := b.Config()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO games (id, status, row_count, col_count, attempts, started_at)
		 VALUES (?,?,?,?,0,?)`,
		b.ID(), string(game.StatusPlaying), cfg.Rows, cfg.Cols, at.UTC().Format(time.RFC3339),
	)
	return err
}

// Finished stores the outcome of a terminal board. Boards still in play are ignored.
func (s *Store) Finished(ctx context.Context, b *game.Board, at time.Time) error {
	if !b.Status().Terminal() {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE games SET status=?, attempts=?, finished_at=? WHERE id=?`,
		string(b.Status()), b.Attempts(), at.UTC().Format(time.RFC3339), b.ID(),
	)
	return err
}

// Recent returns the latest games, newest first. Default limit is 50.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, status, row_count, col_count, attempts, started_at, COALESCE(finished_at,'')
        FROM games
        ORDER BY started_at DESC, id ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var (
			r                 Record
			status            string
			started, finished string
		)
		if err := rows.Scan(&r.GameID, &status, &r.Rows, &r.Cols, &r.Attempts, &started, &finished); err != nil {
			return nil, err
		}
		r.Status = game.Status(status)
		r.StartedAt = mustParse(started)
		if finished != "" {
			t := mustParse(finished)
			r.FinishedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
