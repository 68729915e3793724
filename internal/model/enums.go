// Package model defines the core types of the qualification engine:
// answer enums, wizard stages, sessions, recommendations, and lead records.
package model

import "github.com/rotisserie/eris"

// TeamSize is the answer to the team-size question. The wire values are
// the numeric bucket strings the frontend has always sent ("1", "5", "15").
type TeamSize string

const (
	TeamSizeSolo    TeamSize = "1"  // solo creator, occasional freelance help
	TeamSizeSmall   TeamSize = "5"  // tight-knit team of 1-4 creatives
	TeamSizeGrowing TeamSize = "15" // dedicated team of 5+ content professionals
)

// Bucket returns the numeric team-size bucket used by the scoring engine.
func (t TeamSize) Bucket() int {
	switch t {
	case TeamSizeSolo:
		return 1
	case TeamSizeSmall:
		return 5
	case TeamSizeGrowing:
		return 15
	}
	return 0
}

// ParseTeamSize accepts both the numeric bucket values and the option ids
// the frontend uses for display ("solo", "small", "growing").
func ParseTeamSize(s string) (TeamSize, error) {
	switch s {
	case "1", "solo":
		return TeamSizeSolo, nil
	case "5", "small":
		return TeamSizeSmall, nil
	case "15", "growing":
		return TeamSizeGrowing, nil
	}
	return "", eris.Errorf("model: invalid team size %q", s)
}

// SupportLevel is the answer to the implementation-support question.
type SupportLevel string

const (
	SupportSelfDirected SupportLevel = "self_directed"
	SupportGuided       SupportLevel = "guided"
	SupportFullService  SupportLevel = "full_service"
)

// ParseSupportLevel validates a raw support-level value.
func ParseSupportLevel(s string) (SupportLevel, error) {
	switch SupportLevel(s) {
	case SupportSelfDirected, SupportGuided, SupportFullService:
		return SupportLevel(s), nil
	}
	return "", eris.Errorf("model: invalid support level %q", s)
}

// Timeline is the answer to the results-timeline question.
type Timeline string

const (
	TimelineImmediate   Timeline = "immediate"
	TimelineNextQuarter Timeline = "next_quarter"
	TimelineExploratory Timeline = "exploratory"
)

// ParseTimeline validates a raw timeline value.
func ParseTimeline(s string) (Timeline, error) {
	switch Timeline(s) {
	case TimelineImmediate, TimelineNextQuarter, TimelineExploratory:
		return Timeline(s), nil
	}
	return "", eris.Errorf("model: invalid timeline %q", s)
}

// ContentVolume is the answer to the content-growth-goal question.
type ContentVolume string

const (
	VolumeLow    ContentVolume = "low"
	VolumeMedium ContentVolume = "medium"
	VolumeHigh   ContentVolume = "high"
)

// ParseContentVolume validates a raw content-volume value.
func ParseContentVolume(s string) (ContentVolume, error) {
	switch ContentVolume(s) {
	case VolumeLow, VolumeMedium, VolumeHigh:
		return ContentVolume(s), nil
	}
	return "", eris.Errorf("model: invalid content volume %q", s)
}

// Tier identifies one of the three fixed recommendation packages.
type Tier string

const (
	TierFoundation    Tier = "foundation"
	TierComprehensive Tier = "comprehensive"
	TierExecutive     Tier = "executive"
)

// ParseTier validates a raw tier value.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierFoundation, TierComprehensive, TierExecutive:
		return Tier(s), nil
	}
	return "", eris.Errorf("model: invalid tier %q", s)
}

// CTAKind is the call-to-action behaviour attached to a recommendation.
type CTAKind string

const (
	CTADirectPurchase CTAKind = "direct_purchase"
	CTABookSession    CTAKind = "book_session"
)
