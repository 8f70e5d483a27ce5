// Package postgres implements objectboard.Repository on PostgreSQL via pgx.
//
// Expected schema:
//
//	CREATE TABLE object_record (
//	    id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//	    title       TEXT NOT NULL,
//	    description TEXT NOT NULL,
//	    image_url   TEXT NOT NULL,
//	    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//	CREATE INDEX object_record_created_at_idx ON object_record (created_at DESC);
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heyama/objectboard/pkg/objectboard"
)

// DBTX is the subset of pgx used by the repository, satisfied by both a
// connection pool and a transaction.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements objectboard.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// handlePostgresError maps driver errors onto readable failures.
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("object record already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreateObject(ctx context.Context, record *objectboard.ObjectRecord) error {
	query := `
		INSERT INTO object_record (title, description, image_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		record.Title, record.Description, record.ImageURL,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		return r.handlePostgresError("create object", err)
	}

	return nil
}

func (r *Repository) GetObject(ctx context.Context, id uuid.UUID) (*objectboard.ObjectRecord, error) {
	query := `
		SELECT id, title, description, image_url, created_at
		FROM object_record
		WHERE id = $1`

	var record objectboard.ObjectRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.Title, &record.Description,
		&record.ImageURL, &record.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, objectboard.ErrObjectNotFound
	}
	if err != nil {
		return nil, r.handlePostgresError("get object", err)
	}

	return &record, nil
}

func (r *Repository) ListObjects(ctx context.Context) ([]*objectboard.ObjectRecord, error) {
	query := `
		SELECT id, title, description, image_url, created_at
		FROM object_record
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list objects", err)
	}
	defer rows.Close()

	var result []*objectboard.ObjectRecord
	for rows.Next() {
		var record objectboard.ObjectRecord
		if err := rows.Scan(
			&record.ID, &record.Title, &record.Description,
			&record.ImageURL, &record.CreatedAt); err != nil {
			return nil, r.handlePostgresError("list objects", err)
		}
		result = append(result, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list objects", err)
	}

	return result, nil
}

func (r *Repository) DeleteObject(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM object_record WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete object", err)
	}
	if tag.RowsAffected() == 0 {
		return objectboard.ErrObjectNotFound
	}

	return nil
}
