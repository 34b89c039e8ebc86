package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gatekeeper/internal/photo/models"
	"gatekeeper/pkg/domain"
	txcontext "gatekeeper/pkg/platform/tx"
)

// Postgres is the durable submission store. The room+created_at index serves
// the dashboard query.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed submission store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, submission *models.Submission) error {
	err := s.querier(ctx).QueryRowContext(ctx, `
		INSERT INTO photo_submissions (visitor_id, room_id, image_url, score, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, submission.VisitorID.Int64(), submission.RoomID.Int64(),
		submission.ImageURL, submission.Score, submission.CreatedAt,
	).Scan(&submission.ID)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *Postgres) TopByRoomSince(ctx context.Context, roomID domain.RoomID, since time.Time, limit int) ([]*models.Submission, error) {
	rows, err := s.querier(ctx).QueryContext(ctx, `
		SELECT id, visitor_id, room_id, image_url, score, is_hourly_winner, created_at
		FROM photo_submissions
		WHERE room_id = $1 AND created_at >= $2
		ORDER BY score DESC
		LIMIT $3
	`, roomID.Int64(), since, limit)
	if err != nil {
		return nil, fmt.Errorf("query dashboard: %w", err)
	}
	defer rows.Close()

	var out []*models.Submission
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.VisitorID, &sub.RoomID,
			&sub.ImageURL, &sub.Score, &sub.IsWinner, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, &sub)
	}
	return out, rows.Err()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// querier lets submission writes join a caller-scoped transaction.
func (s *Postgres) querier(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}
