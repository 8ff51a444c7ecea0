package feedback

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of *pgxpool.Pool the Postgres store needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS symptom_feedback (
	id              TEXT PRIMARY KEY,
	created_at      TIMESTAMPTZ NOT NULL,
	symptoms        TEXT NOT NULL,
	age             INTEGER,
	weight_kg       DOUBLE PRECISION,
	allergies       TEXT NOT NULL DEFAULT '',
	top_predictions TEXT NOT NULL DEFAULT '',
	feedback        TEXT NOT NULL
)`

const insertSQL = `INSERT INTO symptom_feedback
	(id, created_at, symptoms, age, weight_kg, allergies, top_predictions, feedback)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// PostgresStore writes records to the symptom_feedback table.
type PostgresStore struct {
	db Execer
}

func NewPostgresStore(db Execer) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the feedback table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create feedback table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, r Record) error {
	tag, err := s.db.Exec(ctx, insertSQL,
		r.ID, r.Timestamp, r.Symptoms, r.Age, r.Weight, r.Allergies, r.TopPredictions, r.Feedback,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("insert feedback: %d rows affected", tag.RowsAffected())
	}
	return nil
}
