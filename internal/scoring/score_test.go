package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clash-creation/qualify-cli/internal/model"
)

var (
	teamSizes = []model.TeamSize{model.TeamSizeSolo, model.TeamSizeSmall, model.TeamSizeGrowing}
	supports  = []model.SupportLevel{model.SupportSelfDirected, model.SupportGuided, model.SupportFullService}
	timelines = []model.Timeline{model.TimelineExploratory, model.TimelineNextQuarter, model.TimelineImmediate}
	volumes   = []model.ContentVolume{model.VolumeLow, model.VolumeMedium, model.VolumeHigh}
)

// allAnswerSets enumerates every valid combination of the four enum answers.
func allAnswerSets() []model.AnswerSet {
	var out []model.AnswerSet
	for _, ts := range teamSizes {
		for _, sp := range supports {
			for _, tl := range timelines {
				for _, cv := range volumes {
					out = append(out, model.AnswerSet{
						TeamSize:              ts,
						ImplementationSupport: sp,
						Timeline:              tl,
						ContentVolume:         cv,
					})
				}
			}
		}
	}
	return out
}

func TestScore_Bounds(t *testing.T) {
	cfg := DefaultConfig()
	engagements := []model.Engagement{
		{},
		{TimeSpentSecs: 300, Interactions: 40},
	}
	for _, a := range allAnswerSets() {
		for _, e := range engagements {
			s := Score(a, e, cfg)
			assert.GreaterOrEqual(t, s, 1)
			assert.LessOrEqual(t, s, 11)
		}
	}
}

func TestScore_MonotonicPerFactor(t *testing.T) {
	cfg := DefaultConfig()
	e := model.Engagement{}

	// Raising any single factor while holding the others fixed never
	// decreases the total.
	for _, a := range allAnswerSets() {
		for i := 1; i < len(teamSizes); i++ {
			lo, hi := a, a
			lo.TeamSize, hi.TeamSize = teamSizes[i-1], teamSizes[i]
			assert.GreaterOrEqual(t, Score(hi, e, cfg), Score(lo, e, cfg))
		}
		for i := 1; i < len(supports); i++ {
			lo, hi := a, a
			lo.ImplementationSupport, hi.ImplementationSupport = supports[i-1], supports[i]
			assert.GreaterOrEqual(t, Score(hi, e, cfg), Score(lo, e, cfg))
		}
		for i := 1; i < len(timelines); i++ {
			lo, hi := a, a
			lo.Timeline, hi.Timeline = timelines[i-1], timelines[i]
			assert.GreaterOrEqual(t, Score(hi, e, cfg), Score(lo, e, cfg))
		}
		for i := 1; i < len(volumes); i++ {
			lo, hi := a, a
			lo.ContentVolume, hi.ContentVolume = volumes[i-1], volumes[i]
			assert.GreaterOrEqual(t, Score(hi, e, cfg), Score(lo, e, cfg))
		}
	}
}

func TestScore_EngagementBonusEdge(t *testing.T) {
	cfg := DefaultConfig()
	a := model.AnswerSet{
		TeamSize:              model.TeamSizeSolo,
		ImplementationSupport: model.SupportSelfDirected,
		Timeline:              model.TimelineExploratory,
		ContentVolume:         model.VolumeLow,
	}

	// Exactly at the thresholds: no bonus.
	assert.Equal(t, 2, Score(a, model.Engagement{TimeSpentSecs: 90, Interactions: 8}, cfg))
	// One past both thresholds: bonus applies.
	assert.Equal(t, 3, Score(a, model.Engagement{TimeSpentSecs: 91, Interactions: 9}, cfg))
	// Only one threshold exceeded: no bonus.
	assert.Equal(t, 2, Score(a, model.Engagement{TimeSpentSecs: 500, Interactions: 8}, cfg))
	assert.Equal(t, 2, Score(a, model.Engagement{TimeSpentSecs: 10, Interactions: 50}, cfg))
}

func TestScore_ConfigurableBonusWindow(t *testing.T) {
	// The older funnel used 120s/10; the window must follow config.
	cfg := Config{BonusMinSeconds: 120, BonusMinInteractions: 10}
	a := model.AnswerSet{
		TeamSize:              model.TeamSizeSolo,
		ImplementationSupport: model.SupportSelfDirected,
		Timeline:              model.TimelineExploratory,
		ContentVolume:         model.VolumeLow,
	}
	assert.Equal(t, 2, Score(a, model.Engagement{TimeSpentSecs: 100, Interactions: 9}, cfg))
	assert.Equal(t, 3, Score(a, model.Engagement{TimeSpentSecs: 121, Interactions: 11}, cfg))
}

func TestScore_EndToEndMaximum(t *testing.T) {
	a := model.AnswerSet{
		TeamSize:              model.TeamSizeGrowing,
		ImplementationSupport: model.SupportFullService,
		Timeline:              model.TimelineImmediate,
		ContentVolume:         model.VolumeHigh,
	}
	e := model.Engagement{TimeSpentSecs: 200, Interactions: 12}

	score := Score(a, e, DefaultConfig())
	assert.Equal(t, 11, score)
	assert.Equal(t, model.TierExecutive, SelectTier(score))
}

func TestSelectTier_Partition(t *testing.T) {
	want := map[int]model.Tier{
		1: model.TierFoundation,
		2: model.TierFoundation,
		3: model.TierFoundation,
		4: model.TierFoundation,
		5: model.TierComprehensive,
		6: model.TierComprehensive,
		7: model.TierComprehensive,
		8: model.TierExecutive,
		9: model.TierExecutive,
		10: model.TierExecutive,
		11: model.TierExecutive,
	}
	for s, tier := range want {
		assert.Equal(t, tier, SelectTier(s), "score %d", s)
	}
}

func TestRecommend_ReturnsCatalogRecord(t *testing.T) {
	cat := DefaultCatalog()
	a := model.AnswerSet{
		TeamSize:              model.TeamSizeSmall,
		ImplementationSupport: model.SupportGuided,
		Timeline:              model.TimelineNextQuarter,
		ContentVolume:         model.VolumeMedium,
	}
	// 2 + 2 + 1 + 1 = 6 -> comprehensive
	rec, score := Recommend(a, model.Engagement{}, DefaultConfig(), cat)
	assert.Equal(t, 6, score)
	assert.Equal(t, model.TierComprehensive, rec.Type)
	assert.Equal(t, "The Comprehensive Implementation", rec.Title)
	assert.Equal(t, model.CTABookSession, rec.CTAAction)
}
