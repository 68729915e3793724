// Package session owns the live wizard sessions: their state machine
// transitions, engagement tracking, resume records, and the hand-off of
// completed leads to storage and sinks.
package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/clash-creation/qualify-cli/internal/model"
	"github.com/clash-creation/qualify-cli/internal/scoring"
	"github.com/clash-creation/qualify-cli/internal/sink"
	"github.com/clash-creation/qualify-cli/internal/store"
	"github.com/clash-creation/qualify-cli/internal/wizard"
	"github.com/clash-creation/qualify-cli/pkg/calendly"
)

// ErrNotFound is returned for operations on a session the manager does
// not hold live.
var ErrNotFound = eris.New("session: not found")

// View is the snapshot handed to API callers after every operation.
type View struct {
	ID             string                `json:"id"`
	Stage          model.Stage           `json:"stage"`
	Title          string                `json:"title"`
	Progress       int                   `json:"progress"`
	Answers        model.AnswerSet       `json:"answers"`
	Engagement     model.Engagement      `json:"engagement"`
	Extras         []string              `json:"selected_extras,omitempty"`
	Resumed        bool                  `json:"resumed,omitempty"`
	Analyzing      bool                  `json:"analyzing,omitempty"`
	Recommendation *model.Recommendation `json:"recommendation,omitempty"`
	Score          int                   `json:"score,omitempty"`
	BookingURL     string                `json:"booking_url,omitempty"`
}

// liveSession is one open wizard instance.
type liveSession struct {
	sess    *model.Session
	resumed bool

	// Set once the loading stage completes.
	rec        *model.Recommendation
	score      int
	bookingURL string

	stopTicker   chan struct{}
	loadingTimer *time.Timer
}

// Manager owns all live sessions and their timers.
type Manager struct {
	mu       sync.Mutex
	live     map[string]*liveSession
	discards map[string]*time.Timer

	store      store.Store
	dispatcher *sink.Dispatcher
	catalog    *scoring.Catalog
	scoring    scoring.Config
	calendly   *calendly.Builder

	loadingDelay time.Duration
	discardAfter time.Duration
	resumeWindow time.Duration
	tickInterval time.Duration

	now func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithDispatcher sets the sink dispatcher for completed leads.
func WithDispatcher(d *sink.Dispatcher) Option {
	return func(m *Manager) { m.dispatcher = d }
}

// WithCatalog overrides the recommendation catalog.
func WithCatalog(c *scoring.Catalog) Option {
	return func(m *Manager) { m.catalog = c }
}

// WithScoringConfig overrides the engagement bonus thresholds.
func WithScoringConfig(cfg scoring.Config) Option {
	return func(m *Manager) { m.scoring = cfg }
}

// WithCalendly overrides the booking URL builder.
func WithCalendly(b *calendly.Builder) Option {
	return func(m *Manager) { m.calendly = b }
}

// WithLoadingDelay sets the scripted analysis pause.
func WithLoadingDelay(d time.Duration) Option {
	return func(m *Manager) { m.loadingDelay = d }
}

// WithDiscardAfter sets how long closed sessions are retained.
func WithDiscardAfter(d time.Duration) Option {
	return func(m *Manager) { m.discardAfter = d }
}

// WithResumeWindow sets how long abandoned sessions stay restorable.
func WithResumeWindow(d time.Duration) Option {
	return func(m *Manager) { m.resumeWindow = d }
}

// WithTickInterval overrides the engagement tick cadence.
func WithTickInterval(d time.Duration) Option {
	return func(m *Manager) { m.tickInterval = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager over the given store.
func NewManager(st store.Store, opts ...Option) *Manager {
	m := &Manager{
		live:         make(map[string]*liveSession),
		discards:     make(map[string]*time.Timer),
		store:        st,
		dispatcher:   sink.NewDispatcher(),
		catalog:      scoring.DefaultCatalog(),
		scoring:      scoring.DefaultConfig(),
		calendly:     calendly.NewBuilder(),
		loadingDelay: 6 * time.Second,
		discardAfter: 30 * time.Minute,
		resumeWindow: 24 * time.Hour,
		tickInterval: time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open starts a session. With a known id it restores the stored state
// when it is recent enough and mid-flow; anything else yields a fresh
// session at the intro stage. A pending discard timer for the id is
// cancelled either way.
func (m *Manager) Open(ctx context.Context, id string, source model.Attribution) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.discards[id]; ok {
		t.Stop()
		delete(m.discards, id)
	}

	// Already live, e.g. a second tab.
	if ls, ok := m.live[id]; ok {
		return m.view(ls), nil
	}

	now := m.now()
	if id != "" {
		stored, err := m.store.GetSession(ctx, id)
		if err != nil {
			return View{}, eris.Wrap(err, "session: load")
		}
		if stored != nil && m.restorable(stored, now) {
			stored.LastActive = now
			ls := &liveSession{sess: stored, resumed: true, stopTicker: make(chan struct{})}
			m.live[id] = ls
			go m.runTicker(id, ls.stopTicker)
			if stored.Stage == model.StageLoading {
				// The close interrupted the analysis pause; restart it so
				// the session still reaches the recommendation.
				ls.loadingTimer = time.AfterFunc(m.loadingDelay, func() { m.finalize(id) })
			}
			zap.L().Info("qualification_resumed",
				zap.String("session_id", id),
				zap.String("stage", string(stored.Stage)))
			return m.view(ls), nil
		}
		if stored != nil {
			// Stale or terminal, not worth keeping.
			if err := m.store.DeleteSession(ctx, id); err != nil {
				zap.L().Warn("discard stored session", zap.String("session_id", id), zap.Error(err))
			}
		}
	}

	sess := &model.Session{
		ID:         uuid.NewString(),
		Stage:      model.StageIntro,
		Source:     source,
		Extras:     make(map[string]bool),
		LastActive: now,
		CreatedAt:  now,
	}
	if err := m.store.SaveSession(ctx, sess); err != nil {
		return View{}, eris.Wrap(err, "session: save new")
	}

	ls := &liveSession{sess: sess, stopTicker: make(chan struct{})}
	m.live[sess.ID] = ls
	go m.runTicker(sess.ID, ls.stopTicker)
	zap.L().Info("qualification_started",
		zap.String("session_id", sess.ID),
		zap.String("utm_source", source.UTMSource))
	return m.view(ls), nil
}

// restorable reports whether a stored session may continue where it
// left off. Terminal and not-yet-started stages always start over.
func (m *Manager) restorable(s *model.Session, now time.Time) bool {
	if now.Sub(s.LastActive) >= m.resumeWindow {
		return false
	}
	return s.Stage != model.StageIntro && s.Stage != model.StageRecommendation
}

// Get returns the current snapshot of a live session.
func (m *Manager) Get(id string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ls, ok := m.live[id]
	if !ok {
		return View{}, ErrNotFound
	}
	return m.view(ls), nil
}

// Answer records one answer or contact field.
func (m *Manager) Answer(ctx context.Context, id, field, value string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ls, ok := m.live[id]
	if !ok {
		return View{}, ErrNotFound
	}

	st := wizard.State{Stage: ls.sess.Stage, Answers: ls.sess.Answers, Engagement: ls.sess.Engagement}
	next, err := st.WithAnswer(field, value)
	if err != nil {
		return m.view(ls), err
	}
	ls.sess.Answers = next.Answers
	ls.sess.Engagement = next.Engagement

	if err := m.save(ctx, ls); err != nil {
		return m.view(ls), err
	}
	zap.L().Info("qualification_answer_changed",
		zap.String("session_id", id),
		zap.String("field", field),
		zap.String("stage", string(ls.sess.Stage)))
	return m.view(ls), nil
}

// Advance moves a session one stage forward. Entering the loading
// stage arms the analysis timer which later produces the recommendation.
func (m *Manager) Advance(ctx context.Context, id string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ls, ok := m.live[id]
	if !ok {
		return View{}, ErrNotFound
	}

	st := wizard.State{Stage: ls.sess.Stage, Answers: ls.sess.Answers, Engagement: ls.sess.Engagement}
	next, err := st.Advanced()
	if err != nil {
		return m.view(ls), err
	}
	from := ls.sess.Stage
	ls.sess.Stage = next.Stage

	if err := m.save(ctx, ls); err != nil {
		return m.view(ls), err
	}
	zap.L().Info("qualification_step_completed",
		zap.String("session_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(next.Stage)),
		zap.Int("progress", wizard.Progress(next.Stage)))

	if next.Stage == model.StageLoading {
		ls.loadingTimer = time.AfterFunc(m.loadingDelay, func() { m.finalize(id) })
	}
	return m.view(ls), nil
}

// Retreat moves a session one stage back.
func (m *Manager) Retreat(ctx context.Context, id string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ls, ok := m.live[id]
	if !ok {
		return View{}, ErrNotFound
	}

	st := wizard.State{Stage: ls.sess.Stage, Answers: ls.sess.Answers, Engagement: ls.sess.Engagement}
	next, err := st.Retreated()
	if err != nil {
		return m.view(ls), err
	}
	ls.sess.Stage = next.Stage

	if err := m.save(ctx, ls); err != nil {
		return m.view(ls), err
	}
	return m.view(ls), nil
}

// ToggleExtra flips one optional add-on on the recommendation.
func (m *Manager) ToggleExtra(ctx context.Context, id, name string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ls, ok := m.live[id]
	if !ok {
		return View{}, ErrNotFound
	}
	if ls.rec == nil {
		return m.view(ls), eris.New("session: no recommendation to customize yet")
	}

	known := false
	for _, e := range ls.rec.Extras {
		if e.Name == name {
			known = true
			break
		}
	}
	if !known {
		return m.view(ls), eris.Errorf("session: unknown extra %q", name)
	}

	if ls.sess.Extras == nil {
		ls.sess.Extras = make(map[string]bool)
	}
	ls.sess.Extras[name] = !ls.sess.Extras[name]
	ls.bookingURL = m.calendly.BookingURL(ls.rec.Type, selectedExtras(ls.sess.Extras))

	if err := m.save(ctx, ls); err != nil {
		return m.view(ls), err
	}
	zap.L().Info("extra_toggled",
		zap.String("session_id", id),
		zap.String("extra", name),
		zap.Bool("selected", ls.sess.Extras[name]))
	return m.view(ls), nil
}

// CloseSession releases a live session and arms the discard timer on
// its resume record.
func (m *Manager) CloseSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ls, ok := m.live[id]
	if !ok {
		return ErrNotFound
	}
	m.release(ls)
	delete(m.live, id)

	if err := m.save(ctx, ls); err != nil {
		return err
	}

	m.discards[id] = time.AfterFunc(m.discardAfter, func() {
		m.mu.Lock()
		delete(m.discards, id)
		m.mu.Unlock()
		if err := m.store.DeleteSession(context.Background(), id); err != nil {
			zap.L().Warn("discard session", zap.String("session_id", id), zap.Error(err))
		} else {
			zap.L().Info("qualification_abandoned", zap.String("session_id", id))
		}
	})
	zap.L().Info("qualification_closed",
		zap.String("session_id", id),
		zap.String("stage", string(ls.sess.Stage)))
	return nil
}

// Shutdown stops every timer and ticker. Resume records stay in the
// store so sessions survive a restart within the resume window.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, ls := range m.live {
		m.release(ls)
		delete(m.live, id)
	}
	for id, t := range m.discards {
		t.Stop()
		delete(m.discards, id)
	}
}

// release stops a session's timers. Caller holds the lock.
func (m *Manager) release(ls *liveSession) {
	close(ls.stopTicker)
	if ls.loadingTimer != nil {
		ls.loadingTimer.Stop()
	}
}

// finalize runs when the analysis pause elapses: score, select the
// package, persist the lead, and fan it out to the sinks.
func (m *Manager) finalize(id string) {
	m.mu.Lock()

	ls, ok := m.live[id]
	if !ok || ls.sess.Stage != model.StageLoading {
		m.mu.Unlock()
		return
	}

	rec, score := scoring.Recommend(ls.sess.Answers, ls.sess.Engagement, m.scoring, m.catalog)
	ls.rec = &rec
	ls.score = score
	ls.sess.Stage = model.StageRecommendation
	ls.bookingURL = m.calendly.BookingURL(rec.Type, nil)

	lead := m.assembleLead(ls, rec, score)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.save(ctx, ls); err != nil {
		zap.L().Warn("save finalized session", zap.String("session_id", id), zap.Error(err))
	}
	if err := m.store.CreateLead(ctx, lead); err != nil {
		zap.L().Error("persist lead", zap.String("lead_id", lead.ID), zap.Error(err))
	}
	m.mu.Unlock()

	m.dispatcher.Dispatch(context.Background(), lead)
}

// assembleLead builds the write-once lead record. Caller holds the lock.
func (m *Manager) assembleLead(ls *liveSession, rec model.Recommendation, score int) *model.LeadRecord {
	now := m.now()
	started := now.Add(-time.Duration(ls.sess.Engagement.TimeSpentSecs) * time.Second)

	return &model.LeadRecord{
		ID:          uuid.NewString(),
		Contact:     ls.sess.Answers.Contact,
		MailingList: ls.sess.Answers.MailingListOptIn,
		Qualification: model.Qualification{
			TeamSizeBucket:        ls.sess.Answers.TeamSize.Bucket(),
			ImplementationSupport: ls.sess.Answers.ImplementationSupport,
			Timeline:              ls.sess.Answers.Timeline,
			ContentVolume:         ls.sess.Answers.ContentVolume,
			RecommendedApproach:   rec.Type,
			Score:                 score,
		},
		Engagement: ls.sess.Engagement,
		Responses:  scoring.ReadableResponses(ls.sess.Answers),
		Extras:     selectedExtras(ls.sess.Extras),
		Source:     ls.sess.Source,
		Timestamps: model.LeadTimestamps{
			Started:              started,
			Completed:            now,
			RecommendationViewed: now,
		},
		CreatedAt: now,
	}
}

// runTicker accrues one second of engagement per tick until released.
func (m *Manager) runTicker(id string, stop <-chan struct{}) {
	t := time.NewTicker(m.tickInterval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			m.tick(id)
		}
	}
}

func (m *Manager) tick(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ls, ok := m.live[id]
	if !ok || ls.sess.Stage == model.StageRecommendation {
		return
	}
	ls.sess.Engagement.TimeSpentSecs++

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.save(ctx, ls); err != nil {
		zap.L().Warn("save tick", zap.String("session_id", id), zap.Error(err))
	}
}

// save touches LastActive and writes the resume record. Caller holds
// the lock.
func (m *Manager) save(ctx context.Context, ls *liveSession) error {
	ls.sess.LastActive = m.now()
	if err := m.store.SaveSession(ctx, ls.sess); err != nil {
		return eris.Wrap(err, "session: save")
	}
	return nil
}

// view snapshots a live session. Caller holds the lock.
func (m *Manager) view(ls *liveSession) View {
	v := View{
		ID:         ls.sess.ID,
		Stage:      ls.sess.Stage,
		Title:      wizard.Title(ls.sess.Stage),
		Progress:   wizard.Progress(ls.sess.Stage),
		Answers:    ls.sess.Answers,
		Engagement: ls.sess.Engagement,
		Extras:     selectedExtras(ls.sess.Extras),
		Resumed:    ls.resumed,
		Analyzing:  ls.sess.Stage == model.StageLoading,
	}
	if ls.rec != nil {
		v.Recommendation = ls.rec
		v.Score = ls.score
		v.BookingURL = ls.bookingURL
	}
	return v
}

// selectedExtras returns the chosen add-on names in stable order.
func selectedExtras(extras map[string]bool) []string {
	var names []string
	for name, on := range extras {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
