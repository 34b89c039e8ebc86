package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gatekeeper/internal/room/models"
	"gatekeeper/pkg/domain"
	txcontext "gatekeeper/pkg/platform/tx"
)

// Postgres is the durable room store.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed room store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, room *models.Room) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO rooms (name, description)
		VALUES ($1, $2)
		RETURNING id
	`, room.Name, room.Description).Scan(&room.ID)
	if err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.RoomID) (*models.Room, error) {
	var room models.Room
	err := s.querier(ctx).QueryRowContext(ctx,
		`SELECT id, name, description FROM rooms WHERE id = $1`, id.Int64(),
	).Scan(&room.ID, &room.Name, &room.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find room: %w", err)
	}
	return &room, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description FROM rooms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var out []*models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Description); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		out = append(out, &room)
	}
	return out, rows.Err()
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.querier(ctx).QueryRowContext(ctx, `SELECT count(*) FROM rooms`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rooms: %w", err)
	}
	return count, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// querier lets room reads participate in a caller-scoped transaction.
func (s *Postgres) querier(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}
