// Package scoring computes the suitability score for a completed answer
// set and maps it onto the three-tier recommendation catalog. The point
// values and thresholds here are the product contract: they decide which
// price tier a real customer is shown.
package scoring

import (
	"go.uber.org/zap"

	"github.com/clash-creation/qualify-cli/internal/model"
)

// Tier boundaries over the 1-11 score range.
const (
	executiveThreshold     = 8
	comprehensiveThreshold = 5
)

// Config holds the engagement-bonus window. Two historical versions of
// the funnel disagreed on these values (90s/8 vs 120s/10); the defaults
// pin the newer flow and the product team can override via config.
type Config struct {
	BonusMinSeconds      int `yaml:"bonus_min_seconds" mapstructure:"bonus_min_seconds"`
	BonusMinInteractions int `yaml:"bonus_min_interactions" mapstructure:"bonus_min_interactions"`
}

// DefaultConfig returns the production bonus window.
func DefaultConfig() Config {
	return Config{BonusMinSeconds: 90, BonusMinInteractions: 8}
}

// Score computes the deterministic 1-11 suitability score from a
// complete answer set and the session's engagement counters.
func Score(a model.AnswerSet, e model.Engagement, cfg Config) int {
	score := scoreTeamSize(a.TeamSize)
	score += scoreSupport(a.ImplementationSupport)
	score += scoreTimeline(a.Timeline)
	score += scoreVolume(a.ContentVolume)
	if highlyEngaged(e, cfg) {
		score++
	}
	return score
}

// scoreTeamSize contributes 1-3 points by numeric bucket.
func scoreTeamSize(t model.TeamSize) int {
	switch b := t.Bucket(); {
	case b >= 15:
		return 3
	case b >= 5:
		return 2
	default:
		return 1
	}
}

// scoreSupport contributes 1-3 points.
func scoreSupport(s model.SupportLevel) int {
	switch s {
	case model.SupportFullService:
		return 3
	case model.SupportGuided:
		return 2
	default:
		return 1
	}
}

// scoreTimeline contributes 0-2 points; exploratory adds nothing.
func scoreTimeline(t model.Timeline) int {
	switch t {
	case model.TimelineImmediate:
		return 2
	case model.TimelineNextQuarter:
		return 1
	default:
		return 0
	}
}

// scoreVolume contributes 0-2 points; low adds nothing.
func scoreVolume(v model.ContentVolume) int {
	switch v {
	case model.VolumeHigh:
		return 2
	case model.VolumeMedium:
		return 1
	default:
		return 0
	}
}

// highlyEngaged reports whether the session earns the +1 engagement
// bonus. Both thresholds are strict: 90s/8 interactions exactly does
// not qualify.
func highlyEngaged(e model.Engagement, cfg Config) bool {
	return e.TimeSpentSecs > cfg.BonusMinSeconds && e.Interactions > cfg.BonusMinInteractions
}

// SelectTier maps a score onto a recommendation tier.
func SelectTier(score int) model.Tier {
	switch {
	case score >= executiveThreshold:
		return model.TierExecutive
	case score >= comprehensiveThreshold:
		return model.TierComprehensive
	default:
		return model.TierFoundation
	}
}

// Recommend scores the answers and returns the matching catalog record.
func Recommend(a model.AnswerSet, e model.Engagement, cfg Config, cat *Catalog) (model.Recommendation, int) {
	score := Score(a, e, cfg)
	tier := SelectTier(score)
	rec := cat.Tier(tier)

	zap.L().Info("recommendation_generated",
		zap.String("recommendation_type", string(tier)),
		zap.Int("score", score),
		zap.Int("time_spent", e.TimeSpentSecs),
		zap.Int("total_interactions", e.Interactions),
	)

	return rec, score
}
