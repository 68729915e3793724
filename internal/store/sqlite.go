package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/clash-creation/qualify-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	stage       TEXT NOT NULL,
	state       TEXT NOT NULL,
	last_active DATETIME NOT NULL,
	created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL,
	tier       TEXT NOT NULL,
	score      INTEGER NOT NULL,
	payload    TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_last_active ON sessions(last_active);
CREATE INDEX IF NOT EXISTS idx_leads_tier ON leads(tier);
CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSession(ctx context.Context, sess *model.Session) error {
	stateJSON, err := json.Marshal(sess)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal session")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, stage, state, last_active, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET stage = excluded.stage, state = excluded.state, last_active = excluded.last_active`,
		sess.ID, string(sess.Stage), string(stateJSON), sess.LastActive.UTC(), sess.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: save session %s", sess.ID)
}

// GetSession returns nil without error when no record exists. A stored
// record that fails to parse is deleted and treated as absent, so the
// wizard silently starts fresh.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT state FROM sessions WHERE id = ?`, id)

	var stateJSON string
	err := row.Scan(&stateJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get session %s", id)
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(stateJSON), &sess); err != nil {
		zap.L().Warn("sqlite: discarding malformed session record",
			zap.String("session_id", id), zap.Error(err))
		_ = s.DeleteSession(ctx, id)
		return nil, nil
	}
	return &sess, nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return eris.Wrapf(err, "sqlite: delete session %s", id)
}

func (s *SQLiteStore) DeleteStaleSessions(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_active <= ?`, cutoff)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete stale sessions")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

func (s *SQLiteStore) CreateLead(ctx context.Context, lead *model.LeadRecord) error {
	payload, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal lead")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (id, email, tier, score, payload, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.Contact.Email, string(lead.Qualification.RecommendedApproach),
		lead.Qualification.Score, string(payload), lead.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert lead %s", lead.ID)
}

func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*model.LeadRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM leads WHERE id = ?`, id)

	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("lead not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lead %s", id)
	}

	var lead model.LeadRecord
	if err := json.Unmarshal([]byte(payload), &lead); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal lead")
	}
	return &lead, nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.LeadRecord, error) {
	query := `SELECT payload FROM leads WHERE 1=1`
	var args []any

	if filter.Tier != "" {
		query += ` AND tier = ?`
		args = append(args, string(filter.Tier))
	}
	if !filter.Since.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, filter.Since.UTC())
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.LeadRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		var lead model.LeadRecord
		if err := json.Unmarshal([]byte(payload), &lead); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal lead")
		}
		leads = append(leads, lead)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}
