// Package wizard implements the qualification flow's stage controller:
// the fixed stage sequence, per-stage validation, and the pure state
// reducer the rendering layer drives.
package wizard

import (
	"math"

	"github.com/clash-creation/qualify-cli/internal/model"
)

// Sequence is the fixed order of wizard stages. Forward navigation moves
// exactly one position when validation passes; backward navigation moves
// exactly one position unconditionally (intro has no predecessor, loading
// has no user-triggered back).
var Sequence = []model.Stage{
	model.StageIntro,
	model.StageTeamSize,
	model.StageSupport,
	model.StageTimeline,
	model.StageContentVolume,
	model.StageContact,
	model.StageLoading,
	model.StageRecommendation,
}

// Index returns the position of a stage in the sequence, or -1 if the
// stage is unknown.
func Index(s model.Stage) int {
	for i, st := range Sequence {
		if st == s {
			return i
		}
	}
	return -1
}

// Advance returns the next stage in the sequence. Advancing from the
// terminal stage (or an unknown stage) is a no-op.
func Advance(s model.Stage) model.Stage {
	i := Index(s)
	if i < 0 || i >= len(Sequence)-1 {
		return s
	}
	return Sequence[i+1]
}

// Retreat returns the previous stage in the sequence. Retreating from
// intro is a no-op.
func Retreat(s model.Stage) model.Stage {
	i := Index(s)
	if i <= 0 {
		return s
	}
	return Sequence[i-1]
}

// Progress returns the completion percentage shown above the wizard:
// 0 at intro, 100 at loading and recommendation, and a linear
// interpolation across the question stages in between.
func Progress(s model.Stage) int {
	switch s {
	case model.StageIntro:
		return 0
	case model.StageLoading, model.StageRecommendation:
		return 100
	}

	first := Index(model.StageTeamSize)
	last := Index(model.StageContact)
	i := Index(s)
	if i < first {
		return 0
	}

	frac := float64(i-first) / float64(last-first+1)
	return int(math.Round(frac * 100))
}

// Title returns the heading the UI shows for a stage.
func Title(s model.Stage) string {
	switch s {
	case model.StageIntro:
		return "Billions of Views. Built for You."
	case model.StageTeamSize:
		return "How Big is your Content Team?"
	case model.StageSupport:
		return "How do you prefer to learn new systems?"
	case model.StageTimeline:
		return "When do you want to see results?"
	case model.StageContentVolume:
		return "What's your content growth goal?"
	case model.StageContact:
		return "Tell us a bit about yourself"
	case model.StageLoading:
		return "Analyzing your responses"
	case model.StageRecommendation:
		return "Your Personalised Plan"
	}
	return "Find Your Perfect Path"
}
