package wizard

import (
	"regexp"
	"strings"

	"github.com/clash-creation/qualify-cli/internal/model"
)

// emailPattern is the minimal local@domain.tld check the contact form
// applies. Deliverability is the CRM's problem, not the wizard's.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// FieldErrors maps field names to user-facing validation messages.
type FieldErrors map[string]string

// CanAdvance reports whether the wizard may move forward from the given
// stage, and on failure which fields block it. Intro always passes;
// loading never passes (advancing out of it is driven by the scoring
// step, not by the user). Callers must check this before advancing -
// Advance itself does not validate.
func CanAdvance(stage model.Stage, answers model.AnswerSet) (bool, FieldErrors) {
	errs := FieldErrors{}

	switch stage {
	case model.StageIntro:
		return true, nil

	case model.StageTeamSize:
		if answers.TeamSize == "" {
			errs["teamSize"] = "Please select your team size"
		}

	case model.StageSupport:
		if answers.ImplementationSupport == "" {
			errs["implementationSupport"] = "Please select an implementation approach"
		}

	case model.StageTimeline:
		if answers.Timeline == "" {
			errs["timeline"] = "Please select a timeline"
		}

	case model.StageContentVolume:
		if answers.ContentVolume == "" {
			errs["contentVolume"] = "Please select a content goal"
		}

	case model.StageContact:
		c := answers.Contact
		if strings.TrimSpace(c.Name) == "" {
			errs["name"] = "Please enter your name"
		}
		if strings.TrimSpace(c.Email) == "" {
			errs["email"] = "Please enter your email"
		} else if !emailPattern.MatchString(c.Email) {
			errs["email"] = "Please enter a valid email address"
		}
		if strings.TrimSpace(c.Company) == "" {
			errs["company"] = "Please enter your company name"
		}

	case model.StageLoading:
		return false, nil
	}

	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}
