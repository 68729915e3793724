package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clash-creation/qualify-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "qualify.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testSession(id string, lastActive time.Time) *model.Session {
	return &model.Session{
		ID:    id,
		Stage: model.StageTimeline,
		Answers: model.AnswerSet{
			TeamSize:              model.TeamSizeSmall,
			ImplementationSupport: model.SupportGuided,
		},
		Engagement: model.Engagement{TimeSpentSecs: 42, Interactions: 6},
		LastActive: lastActive,
		CreatedAt:  lastActive.Add(-time.Minute),
	}
}

func testLead(id string, tier model.Tier, created time.Time) *model.LeadRecord {
	return &model.LeadRecord{
		ID:      id,
		Contact: model.Contact{Name: "Jade", Email: "jade@studio.io", Company: "Studio"},
		Qualification: model.Qualification{
			TeamSizeBucket:      5,
			RecommendedApproach: tier,
			Score:               6,
		},
		Engagement: model.Engagement{TimeSpentSecs: 120, Interactions: 10},
		CreatedAt:  created,
	}
}

func TestSQLite_SaveAndGetSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := testSession("s1", time.Now().UTC())
	require.NoError(t, s.SaveSession(ctx, sess))

	got, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StageTimeline, got.Stage)
	assert.Equal(t, model.SupportGuided, got.Answers.ImplementationSupport)
	assert.Equal(t, 42, got.Engagement.TimeSpentSecs)
}

func TestSQLite_SaveSessionUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := testSession("s1", time.Now().UTC())
	require.NoError(t, s.SaveSession(ctx, sess))

	sess.Stage = model.StageContact
	sess.Engagement.Interactions = 9
	require.NoError(t, s.SaveSession(ctx, sess))

	got, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StageContact, got.Stage)
	assert.Equal(t, 9, got.Engagement.Interactions)
}

func TestSQLite_GetSessionMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetSession(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_GetSessionMalformedDiscarded(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, stage, state, last_active, created_at) VALUES (?, ?, ?, ?, ?)`,
		"bad", "timeline", "{not json", time.Now().UTC(), time.Now().UTC(),
	)
	require.NoError(t, err)

	got, err := s.GetSession(ctx, "bad")
	require.NoError(t, err)
	assert.Nil(t, got)

	// The malformed row is gone.
	var n int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestSQLite_DeleteSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, testSession("s1", time.Now().UTC())))
	require.NoError(t, s.DeleteSession(ctx, "s1"))

	got, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_DeleteStaleSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.SaveSession(ctx, testSession("fresh", now)))
	require.NoError(t, s.SaveSession(ctx, testSession("stale", now.Add(-25*time.Hour))))

	n, err := s.DeleteStaleSessions(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.GetSession(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, got)
	got, err = s.GetSession(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_CreateAndGetLead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	lead := testLead("l1", model.TierComprehensive, time.Now().UTC())
	require.NoError(t, s.CreateLead(ctx, lead))

	got, err := s.GetLead(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "jade@studio.io", got.Contact.Email)
	assert.Equal(t, model.TierComprehensive, got.Qualification.RecommendedApproach)
	assert.Equal(t, 6, got.Qualification.Score)
}

func TestSQLite_GetLeadMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetLead(context.Background(), "absent")
	assert.Error(t, err)
}

func TestSQLite_ListLeadsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.CreateLead(ctx, testLead("l1", model.TierFoundation, now.Add(-2*time.Hour))))
	require.NoError(t, s.CreateLead(ctx, testLead("l2", model.TierExecutive, now.Add(-time.Hour))))
	require.NoError(t, s.CreateLead(ctx, testLead("l3", model.TierExecutive, now)))

	all, err := s.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, "l3", all[0].ID)

	execs, err := s.ListLeads(ctx, LeadFilter{Tier: model.TierExecutive})
	require.NoError(t, err)
	assert.Len(t, execs, 2)

	recent, err := s.ListLeads(ctx, LeadFilter{Since: now.Add(-90 * time.Minute)})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	limited, err := s.ListLeads(ctx, LeadFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "l2", limited[0].ID)
}
