package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clash-creation/qualify-cli/internal/model"
)

func contactAnswers(name, email, company string) model.AnswerSet {
	return model.AnswerSet{
		Contact: model.Contact{Name: name, Email: email, Company: company},
	}
}

func TestCanAdvance_Intro(t *testing.T) {
	ok, errs := CanAdvance(model.StageIntro, model.AnswerSet{})
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestCanAdvance_QuestionStagesRequireAnswer(t *testing.T) {
	for _, s := range []model.Stage{
		model.StageTeamSize, model.StageSupport,
		model.StageTimeline, model.StageContentVolume,
	} {
		ok, errs := CanAdvance(s, model.AnswerSet{})
		assert.False(t, ok, string(s))
		assert.Len(t, errs, 1, string(s))
	}

	full := model.AnswerSet{
		TeamSize:              model.TeamSizeSmall,
		ImplementationSupport: model.SupportGuided,
		Timeline:              model.TimelineImmediate,
		ContentVolume:         model.VolumeMedium,
	}
	for _, s := range []model.Stage{
		model.StageTeamSize, model.StageSupport,
		model.StageTimeline, model.StageContentVolume,
	} {
		ok, _ := CanAdvance(s, full)
		assert.True(t, ok, string(s))
	}
}

func TestCanAdvance_ContactGating(t *testing.T) {
	ok, errs := CanAdvance(model.StageContact, contactAnswers("", "a@b.com", "X"))
	assert.False(t, ok)
	assert.Contains(t, errs, "name")

	ok, errs = CanAdvance(model.StageContact, contactAnswers("A", "a@b.com", "X"))
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestCanAdvance_ContactEmailFormat(t *testing.T) {
	ok, errs := CanAdvance(model.StageContact, contactAnswers("A", "not-an-email", "X"))
	assert.False(t, ok)
	assert.Equal(t, "Please enter a valid email address", errs["email"])

	ok, errs = CanAdvance(model.StageContact, contactAnswers("A", "", "X"))
	assert.False(t, ok)
	assert.Equal(t, "Please enter your email", errs["email"])
}

func TestCanAdvance_LoadingNever(t *testing.T) {
	ok, _ := CanAdvance(model.StageLoading, model.AnswerSet{})
	assert.False(t, ok)
}

func TestWithAnswer_EnumValidation(t *testing.T) {
	s := NewState()

	s, err := s.WithAnswer(FieldTeamSize, "15")
	require.NoError(t, err)
	assert.Equal(t, model.TeamSizeGrowing, s.Answers.TeamSize)
	assert.Equal(t, 1, s.Engagement.Interactions)

	_, err = s.WithAnswer(FieldTimeline, "whenever")
	assert.Error(t, err)
	// A rejected answer does not count as an interaction.
	assert.Equal(t, 1, s.Engagement.Interactions)
}

func TestWithAnswer_ContactAndMailingList(t *testing.T) {
	s := NewState()
	var err error
	for field, value := range map[string]string{
		FieldName:        "Jade",
		FieldEmail:       "jade@studio.io",
		FieldCompany:     "Studio",
		FieldPosition:    "Founder",
		FieldMailingList: "true",
	} {
		s, err = s.WithAnswer(field, value)
		require.NoError(t, err, field)
	}
	assert.Equal(t, "Jade", s.Answers.Contact.Name)
	assert.Equal(t, "Founder", s.Answers.Contact.Position)
	assert.True(t, s.Answers.MailingListOptIn)
	assert.Equal(t, 5, s.Engagement.Interactions)
}

func TestWithAnswer_UnknownField(t *testing.T) {
	_, err := NewState().WithAnswer("favoriteColor", "orange")
	assert.Error(t, err)
}

func TestTicked(t *testing.T) {
	s := NewState().Ticked().Ticked()
	assert.Equal(t, 2, s.Engagement.TimeSpentSecs)
}

func TestAdvanced_BlockedByValidation(t *testing.T) {
	s := NewState()
	s.Stage = model.StageContact

	_, err := s.Advanced()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.StageContact, verr.Stage)
	assert.Contains(t, verr.Fields, "company")
}

func TestAdvanced_MovesOneStage(t *testing.T) {
	s := NewState()
	s, err := s.Advanced()
	require.NoError(t, err)
	assert.Equal(t, model.StageTeamSize, s.Stage)
}

func TestRetreated_LoadingRejected(t *testing.T) {
	s := NewState()
	s.Stage = model.StageLoading
	_, err := s.Retreated()
	assert.Error(t, err)
}

func TestRetreated_MovesBack(t *testing.T) {
	s := NewState()
	s.Stage = model.StageTimeline
	s, err := s.Retreated()
	require.NoError(t, err)
	assert.Equal(t, model.StageSupport, s.Stage)
}
