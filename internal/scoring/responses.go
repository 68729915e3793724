package scoring

import "github.com/clash-creation/qualify-cli/internal/model"

// ReadableResponses produces the human-readable "about your match"
// sentences for the recommendation stage and the lead record. Static
// lookup from enum value to sentence; unanswered fields are omitted.
func ReadableResponses(a model.AnswerSet) map[string]string {
	out := make(map[string]string, 4)

	if s := readableTeamSize(a.TeamSize); s != "" {
		out["teamSize"] = s
	}
	if s := readableSupport(a.ImplementationSupport); s != "" {
		out["implementationSupport"] = s
	}
	if s := readableTimeline(a.Timeline); s != "" {
		out["timeline"] = s
	}
	if s := readableVolume(a.ContentVolume); s != "" {
		out["contentVolume"] = s
	}

	return out
}

func readableTeamSize(t model.TeamSize) string {
	switch t {
	case model.TeamSizeSolo:
		return "Solo Creator with occasional freelance help"
	case model.TeamSizeSmall:
		return "Small Team of 1-4 creatives"
	case model.TeamSizeGrowing:
		return "Growing Team of 5+ content professionals"
	}
	return ""
}

func readableSupport(s model.SupportLevel) string {
	switch s {
	case model.SupportSelfDirected:
		return "Self-paced learning approach"
	case model.SupportGuided:
		return "Guided implementation with coaching"
	case model.SupportFullService:
		return "Full implementation support"
	}
	return ""
}

func readableTimeline(t model.Timeline) string {
	switch t {
	case model.TimelineImmediate:
		return "Immediate implementation and results"
	case model.TimelineNextQuarter:
		return "Implementation within the next 90 days"
	case model.TimelineExploratory:
		return "Strategic implementation planning"
	}
	return ""
}

func readableVolume(v model.ContentVolume) string {
	switch v {
	case model.VolumeLow:
		return "High-impact focused content strategy"
	case model.VolumeMedium:
		return "Consistent content production (10-30 pieces/month)"
	case model.VolumeHigh:
		return "Full-scale content system across platforms"
	}
	return ""
}
