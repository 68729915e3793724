package model

import "time"

// Contact holds the details collected on the contact stage.
type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	Position string `json:"position,omitempty"`
}

// AnswerSet is the full record of a user's responses. Enum fields are
// empty until the user selects a value on the corresponding stage.
type AnswerSet struct {
	TeamSize              TeamSize      `json:"team_size"`
	ImplementationSupport SupportLevel  `json:"implementation_support"`
	Timeline              Timeline      `json:"timeline"`
	ContentVolume         ContentVolume `json:"content_volume"`
	Contact               Contact       `json:"contact"`
	MailingListOptIn      bool          `json:"mailing_list_opt_in"`
}

// Engagement holds the process-local counters that feed the scoring bonus.
// Never persisted beyond the session resume record.
type Engagement struct {
	TimeSpentSecs int `json:"time_spent_secs"`
	Interactions  int `json:"interactions"`
}

// Attribution captures where the visitor came from, recorded when the
// wizard opens and carried onto the lead.
type Attribution struct {
	Referrer    string `json:"referrer,omitempty"`
	LandingPage string `json:"landing_page,omitempty"`
	UTMSource   string `json:"utm_source,omitempty"`
	UTMMedium   string `json:"utm_medium,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
	Device      string `json:"device,omitempty"`
	Browser     string `json:"browser,omitempty"`
	Locale      string `json:"locale,omitempty"`
}

// Session is the resumable state of one wizard instance.
type Session struct {
	ID         string          `json:"id"`
	Stage      Stage           `json:"stage"`
	Answers    AnswerSet       `json:"answers"`
	Engagement Engagement      `json:"engagement"`
	Source     Attribution     `json:"source"`
	Extras     map[string]bool `json:"extras,omitempty"` // selected optional add-ons by name
	LastActive time.Time       `json:"last_active"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Extra is an optional add-on attached to a recommendation tier.
type Extra struct {
	Name  string `json:"name" yaml:"name"`
	Price string `json:"price" yaml:"price"`
}

// Recommendation is an immutable, pre-authored package record selected
// (not computed) from the three-tier catalog.
type Recommendation struct {
	Type        Tier     `json:"type" yaml:"type"`
	Title       string   `json:"title" yaml:"title"`
	Tagline     string   `json:"tagline" yaml:"tagline"`
	Pricing     string   `json:"pricing" yaml:"pricing"`
	Description []string `json:"description" yaml:"description"`
	Benefits    []string `json:"benefits" yaml:"benefits"`
	Extras      []Extra  `json:"optional_extras,omitempty" yaml:"optional_extras"`
	Testimonial string   `json:"testimonial" yaml:"testimonial"`
	CTAText     string   `json:"cta_text" yaml:"cta_text"`
	CTAAction   CTAKind  `json:"cta_action" yaml:"cta_action"`
}

// Qualification summarizes the scored answers on a lead.
type Qualification struct {
	TeamSizeBucket        int           `json:"team_size"`
	ImplementationSupport SupportLevel  `json:"implementation_support"`
	Timeline              Timeline      `json:"timeline"`
	ContentVolume         ContentVolume `json:"content_volume"`
	RecommendedApproach   Tier          `json:"recommended_approach"`
	Score                 int           `json:"score"`
}

// LeadTimestamps marks the lifecycle of a completed qualification journey.
type LeadTimestamps struct {
	Started              time.Time `json:"qualification_started"`
	Completed            time.Time `json:"qualification_completed"`
	RecommendationViewed time.Time `json:"recommendation_viewed"`
}

// LeadRecord is the terminal artifact of a completed session, handed to
// CRM/analytics sinks. Write-once: the engine never mutates it afterward.
type LeadRecord struct {
	ID            string            `json:"id"`
	Contact       Contact           `json:"contact"`
	MailingList   bool              `json:"mailing_list"`
	Qualification Qualification     `json:"qualification"`
	Engagement    Engagement        `json:"engagement"`
	Responses     map[string]string `json:"dynamic_responses"` // human-readable answer sentences
	Extras        []string          `json:"selected_extras,omitempty"`
	Source        Attribution       `json:"source"`
	Timestamps    LeadTimestamps    `json:"timestamps"`
	CreatedAt     time.Time         `json:"created_at"`
}
