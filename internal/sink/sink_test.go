package sink

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/clash-creation/qualify-cli/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func testLead() *model.LeadRecord {
	return &model.LeadRecord{
		ID: "lead-1",
		Contact: model.Contact{
			Name:     "Jane Doe",
			Email:    "jane@acme.com",
			Company:  "Acme Corp",
			Position: "Head of Content",
		},
		MailingList: true,
		Qualification: model.Qualification{
			TeamSizeBucket:        15,
			ImplementationSupport: model.SupportFullService,
			Timeline:              model.TimelineImmediate,
			ContentVolume:         model.VolumeHigh,
			RecommendedApproach:   model.TierExecutive,
			Score:                 10,
		},
		Engagement: model.Engagement{TimeSpentSecs: 120, Interactions: 12},
		Responses: map[string]string{
			"teamSize": "Enterprise Team of 15+ content professionals",
		},
		Extras:     []string{"Extended Support (3 more months)"},
		Source:     model.Attribution{UTMSource: "newsletter"},
		Timestamps: model.LeadTimestamps{Completed: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// recordingSink captures delivered leads for assertions.
type recordingSink struct {
	name string
	err  error

	mu        sync.Mutex
	delivered []*model.LeadRecord
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Deliver(_ context.Context, lead *model.LeadRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered = append(r.delivered, lead)
	return r.err
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delivered)
}

func TestDispatchFansOutToAllSinks(t *testing.T) {
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b"}
	d := NewDispatcher(a, b)

	d.Dispatch(context.Background(), testLead())

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
}

func TestDispatchFailureDoesNotStopOthers(t *testing.T) {
	failing := &recordingSink{name: "failing", err: errors.New("boom")}
	healthy := &recordingSink{name: "healthy"}
	d := NewDispatcher(failing, healthy)

	d.Dispatch(context.Background(), testLead())

	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, healthy.count())
}

func TestDispatchNoSinks(t *testing.T) {
	d := NewDispatcher()
	// Must not panic.
	d.Dispatch(context.Background(), testLead())
}

func TestDispatchDeliversSameRecord(t *testing.T) {
	s := &recordingSink{name: "s"}
	d := NewDispatcher(s)
	lead := testLead()

	d.Dispatch(context.Background(), lead)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Same(t, lead, s.delivered[0])
}
