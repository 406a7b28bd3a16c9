package override

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

const overrideSchema = `
CREATE TABLE IF NOT EXISTS override_audit (
	id             TEXT PRIMARY KEY,
	ts             TIMESTAMPTZ NOT NULL,
	verdict_type   TEXT NOT NULL,
	authorizer     TEXT NOT NULL,
	justification  TEXT NOT NULL,
	approval_level TEXT NOT NULL DEFAULT '',
	expires_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS override_audit_authorizer_idx ON override_audit (authorizer);
`

// PostgresStore keeps the override audit trail in Postgres. Inserts only;
// there is intentionally no UPDATE or DELETE path.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects with the given DSN and ensures the audit table
// exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to override audit database: %w", err)
	}
	if _, err := db.ExecContext(ctx, overrideSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring override audit schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Append(ctx context.Context, rec domain.OverrideRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO override_audit (id, ts, verdict_type, authorizer, justification, approval_level, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Timestamp, string(rec.VerdictType), rec.Authorizer,
		rec.Justification, rec.ApprovalLevel, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("inserting override record: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, authorizer string) ([]domain.OverrideRecord, error) {
	query := `SELECT id, ts, verdict_type, authorizer, justification, approval_level, expires_at
		  FROM override_audit`
	args := []any{}
	if authorizer != "" {
		query += ` WHERE authorizer = $1`
		args = append(args, authorizer)
	}
	query += ` ORDER BY ts ASC`

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying override records: %w", err)
	}
	defer rows.Close()

	var records []domain.OverrideRecord
	for rows.Next() {
		var rec domain.OverrideRecord
		var verdictType string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &verdictType, &rec.Authorizer,
			&rec.Justification, &rec.ApprovalLevel, &rec.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scanning override record: %w", err)
		}
		rec.VerdictType = domain.VerdictType(verdictType)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating override records: %w", err)
	}
	return records, nil
}
