package wizard

import (
	"github.com/rotisserie/eris"

	"github.com/clash-creation/qualify-cli/internal/model"
)

// Answer field names accepted by WithAnswer.
const (
	FieldTeamSize      = "teamSize"
	FieldSupport       = "implementationSupport"
	FieldTimeline      = "timeline"
	FieldContentVolume = "contentVolume"
	FieldName          = "name"
	FieldEmail         = "email"
	FieldCompany       = "company"
	FieldPosition      = "position"
	FieldMailingList   = "mailingList"
)

// State is the immutable value a wizard session reduces over. Every
// transition returns a new State; callers own persistence and timers.
type State struct {
	Stage      model.Stage
	Answers    model.AnswerSet
	Engagement model.Engagement
}

// NewState returns a fresh wizard state at the intro stage.
func NewState() State {
	return State{Stage: model.StageIntro}
}

// WithAnswer records one answer or contact field, incrementing the
// interaction counter. Enum fields are validated on entry so a stored
// session can never hold an out-of-range value.
func (s State) WithAnswer(field, value string) (State, error) {
	next := s

	switch field {
	case FieldTeamSize:
		ts, err := model.ParseTeamSize(value)
		if err != nil {
			return s, err
		}
		next.Answers.TeamSize = ts
	case FieldSupport:
		sl, err := model.ParseSupportLevel(value)
		if err != nil {
			return s, err
		}
		next.Answers.ImplementationSupport = sl
	case FieldTimeline:
		tl, err := model.ParseTimeline(value)
		if err != nil {
			return s, err
		}
		next.Answers.Timeline = tl
	case FieldContentVolume:
		cv, err := model.ParseContentVolume(value)
		if err != nil {
			return s, err
		}
		next.Answers.ContentVolume = cv
	case FieldName:
		next.Answers.Contact.Name = value
	case FieldEmail:
		next.Answers.Contact.Email = value
	case FieldCompany:
		next.Answers.Contact.Company = value
	case FieldPosition:
		next.Answers.Contact.Position = value
	case FieldMailingList:
		next.Answers.MailingListOptIn = value == "true" || value == "1"
	default:
		return s, eris.Errorf("wizard: unknown answer field %q", field)
	}

	next.Engagement.Interactions++
	return next, nil
}

// Ticked adds one second of time-in-wizard.
func (s State) Ticked() State {
	s.Engagement.TimeSpentSecs++
	return s
}

// Advanced moves the state one stage forward. It returns the unchanged
// state and an error carrying FieldErrors when validation blocks the move.
func (s State) Advanced() (State, error) {
	ok, errs := CanAdvance(s.Stage, s.Answers)
	if !ok {
		return s, &ValidationError{Stage: s.Stage, Fields: errs}
	}
	s.Stage = Advance(s.Stage)
	return s, nil
}

// Retreated moves the state one stage back. No-op at intro; retreating
// out of loading is not user-triggered and is rejected.
func (s State) Retreated() (State, error) {
	if s.Stage == model.StageLoading {
		return s, eris.New("wizard: cannot navigate back during analysis")
	}
	s.Stage = Retreat(s.Stage)
	return s, nil
}

// ValidationError reports the fields blocking a forward transition.
// Recoverable: the user corrects the inputs and retries.
type ValidationError struct {
	Stage  model.Stage
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "wizard: validation failed at stage " + string(e.Stage)
}
