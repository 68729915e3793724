package model

// Stage is one named step in the wizard's fixed linear sequence.
type Stage string

const (
	StageIntro          Stage = "intro"
	StageTeamSize       Stage = "teamSize"
	StageSupport        Stage = "implementationSupport"
	StageTimeline       Stage = "timeline"
	StageContentVolume  Stage = "contentVolume"
	StageContact        Stage = "contact"
	StageLoading        Stage = "loading"
	StageRecommendation Stage = "recommendation"
)
