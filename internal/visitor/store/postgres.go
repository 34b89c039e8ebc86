package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"gatekeeper/internal/visitor/models"
	"gatekeeper/pkg/domain"
	txcontext "gatekeeper/pkg/platform/tx"
)

// Unique violation is the one storage error with domain meaning: it is how
// PostgreSQL reports that somebody else won a race on email or token.
const uniqueViolation = "23505"

// Constraint names from the schema, used to map 23505 onto the right
// structured error.
const (
	emailConstraint = "visitors_email_key"
	tokenConstraint = "visitor_tokens_pkey"
)

// Postgres is the durable identity store. The visitor_tokens table is the
// authoritative token namespace: its primary key is the token value itself,
// which is what guarantees that one value can never serve two accounts or
// two columns at once. The token columns on visitors are kept in sync
// transactionally for cheap reads.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed identity store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const visitorColumns = "id, email, name, gender, joined_at, device_token, card_token"

func (s *Postgres) Create(ctx context.Context, visitor *models.Visitor) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO visitors (email, name, gender, joined_at, device_token, card_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, visitor.Email, visitor.Name, visitor.Gender, visitor.JoinedAt,
		visitor.DeviceToken, visitor.CardToken,
	).Scan(&visitor.ID)
	if err != nil {
		return mapUniqueViolation(err, "insert visitor")
	}

	for _, kind := range []models.TokenKind{models.TokenKindDevice, models.TokenKindCard} {
		token := visitor.Token(kind)
		if token == "" {
			continue
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO visitor_tokens (token, visitor_id, kind)
			VALUES ($1, $2, $3)
		`, token, visitor.ID.Int64(), kind.String())
		if err != nil {
			// Rolls back the visitor row too: creation plus token
			// bind is all-or-nothing.
			return mapUniqueViolation(err, "claim token")
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.VisitorID) (*models.Visitor, error) {
	row := s.querier(ctx).QueryRowContext(ctx,
		`SELECT `+visitorColumns+` FROM visitors WHERE id = $1`, id.Int64())
	return scanVisitor(row)
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.Visitor, error) {
	row := s.querier(ctx).QueryRowContext(ctx,
		`SELECT `+visitorColumns+` FROM visitors WHERE email = lower($1)`, email)
	return scanVisitor(row)
}

func (s *Postgres) FindByToken(ctx context.Context, token string) (*models.Visitor, models.TokenKind, error) {
	row := s.querier(ctx).QueryRowContext(ctx, `
		SELECT v.id, v.email, v.name, v.gender, v.joined_at, v.device_token, v.card_token, t.kind
		FROM visitor_tokens t
		JOIN visitors v ON v.id = t.visitor_id
		WHERE t.token = $1
	`, token)

	var v models.Visitor
	var kind string
	err := row.Scan(&v.ID, &v.Email, &v.Name, &v.Gender, &v.JoinedAt,
		&v.DeviceToken, &v.CardToken, &kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("find by token: %w", err)
	}
	return &v, models.TokenKind(kind), nil
}

func (s *Postgres) BindToken(ctx context.Context, id domain.VisitorID, kind models.TokenKind, token string) (*models.Visitor, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin bind: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Row lock serializes concurrent binds against the same account.
	row := tx.QueryRowContext(ctx,
		`SELECT `+visitorColumns+` FROM visitors WHERE id = $1 FOR UPDATE`, id.Int64())
	record, err := scanVisitor(row)
	if err != nil {
		return nil, err
	}

	switch record.CheckBind(kind, token) {
	case models.BindNoop:
		return record, tx.Commit()
	case models.BindConflict:
		return nil, ErrTokenConflict
	}

	// DO NOTHING instead of surfacing 23505: a conflict here means a
	// different binding owns the value, because our own column was empty.
	res, err := tx.ExecContext(ctx, `
		INSERT INTO visitor_tokens (token, visitor_id, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO NOTHING
	`, token, id.Int64(), kind.String())
	if err != nil {
		return nil, fmt.Errorf("claim token: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("claim token: %w", err)
	} else if n == 0 {
		return nil, ErrTokenAlreadyBound
	}

	column := "device_token"
	if kind == models.TokenKindCard {
		column = "card_token"
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE visitors SET `+column+` = $1 WHERE id = $2`, token, id.Int64())
	if err != nil {
		return nil, fmt.Errorf("record binding: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bind: %w", err)
	}
	record.SetToken(kind, token)
	return record, nil
}

func (s *Postgres) UpdateProfile(ctx context.Context, id domain.VisitorID, name, gender string) (*models.Visitor, error) {
	row := s.querier(ctx).QueryRowContext(ctx, `
		UPDATE visitors SET name = $1, gender = $2
		WHERE id = $3
		RETURNING `+visitorColumns,
		name, gender, id.Int64())
	return scanVisitor(row)
}

func (s *Postgres) List(ctx context.Context) ([]*models.Visitor, error) {
	rows, err := s.querier(ctx).QueryContext(ctx,
		`SELECT `+visitorColumns+` FROM visitors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	defer rows.Close()

	var out []*models.Visitor
	for rows.Next() {
		var v models.Visitor
		if err := rows.Scan(&v.ID, &v.Email, &v.Name, &v.Gender, &v.JoinedAt,
			&v.DeviceToken, &v.CardToken); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// querier lets read paths participate in a caller-scoped transaction.
func (s *Postgres) querier(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func scanVisitor(row *sql.Row) (*models.Visitor, error) {
	var v models.Visitor
	err := row.Scan(&v.ID, &v.Email, &v.Name, &v.Gender, &v.JoinedAt,
		&v.DeviceToken, &v.CardToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan visitor: %w", err)
	}
	return &v, nil
}

// mapUniqueViolation translates 23505 into the structured error for the
// violated constraint; anything else is wrapped as infrastructure failure.
func mapUniqueViolation(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		switch pqErr.Constraint {
		case emailConstraint:
			return ErrDuplicateEmail
		case tokenConstraint:
			return ErrTokenAlreadyBound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
