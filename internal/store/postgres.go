package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/clash-creation/qualify-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies
// it for tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	stage       TEXT NOT NULL,
	state       JSONB NOT NULL,
	last_active TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL,
	tier       TEXT NOT NULL,
	score      INTEGER NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_last_active ON sessions(last_active);
CREATE INDEX IF NOT EXISTS idx_leads_tier ON leads(tier);
CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveSession(ctx context.Context, sess *model.Session) error {
	stateJSON, err := json.Marshal(sess)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal session")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (id, stage, state, last_active, created_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET stage = EXCLUDED.stage, state = EXCLUDED.state, last_active = EXCLUDED.last_active`,
		sess.ID, string(sess.Stage), stateJSON, sess.LastActive.UTC(), sess.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: save session %s", sess.ID)
}

// GetSession returns nil without error when no record exists; malformed
// records are deleted and treated as absent.
func (s *PostgresStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	row := s.pool.QueryRow(ctx, `SELECT state FROM sessions WHERE id = $1`, id)

	var stateJSON []byte
	err := row.Scan(&stateJSON)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get session %s", id)
	}

	var sess model.Session
	if err := json.Unmarshal(stateJSON, &sess); err != nil {
		zap.L().Warn("postgres: discarding malformed session record",
			zap.String("session_id", id), zap.Error(err))
		_ = s.DeleteSession(ctx, id)
		return nil, nil
	}
	return &sess, nil
}

func (s *PostgresStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return eris.Wrapf(err, "postgres: delete session %s", id)
}

func (s *PostgresStore) DeleteStaleSessions(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE last_active <= $1`, cutoff)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete stale sessions")
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, lead *model.LeadRecord) error {
	payload, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal lead")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO leads (id, email, tier, score, payload, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		lead.ID, lead.Contact.Email, string(lead.Qualification.RecommendedApproach),
		lead.Qualification.Score, payload, lead.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: insert lead %s", lead.ID)
}

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*model.LeadRecord, error) {
	row := s.pool.QueryRow(ctx, `SELECT payload FROM leads WHERE id = $1`, id)

	var payload []byte
	err := row.Scan(&payload)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("lead not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead %s", id)
	}

	var lead model.LeadRecord
	if err := json.Unmarshal(payload, &lead); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal lead")
	}
	return &lead, nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.LeadRecord, error) {
	query := `SELECT payload FROM leads WHERE 1=1`
	var args []any
	argNum := 1

	if filter.Tier != "" {
		query += fmt.Sprintf(` AND tier = $%d`, argNum)
		args = append(args, string(filter.Tier))
		argNum++
	}
	if !filter.Since.IsZero() {
		query += fmt.Sprintf(` AND created_at >= $%d`, argNum)
		args = append(args, filter.Since.UTC())
		argNum++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argNum)
	args = append(args, limit)
	argNum++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argNum)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.LeadRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		var lead model.LeadRecord
		if err := json.Unmarshal(payload, &lead); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal lead")
		}
		leads = append(leads, lead)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}
