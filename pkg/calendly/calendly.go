// Package calendly derives pre-filled discovery call booking URLs for
// the recommendation CTA.
package calendly

import (
	"net/url"
	"strings"

	"github.com/clash-creation/qualify-cli/internal/model"
)

// DefaultBaseURL is the discovery call event page.
const DefaultBaseURL = "https://calendly.com/jodenclashnewman/vertical-shortcut-discovery-call"

// DefaultPrimaryColor matches the site's accent color.
const DefaultPrimaryColor = "FEA35D"

// Builder derives booking URLs for a configured Calendly event.
type Builder struct {
	baseURL      string
	primaryColor string
}

// Option configures the Builder.
type Option func(*Builder)

// WithBaseURL overrides the event page URL.
func WithBaseURL(u string) Option {
	return func(b *Builder) { b.baseURL = u }
}

// WithPrimaryColor overrides the embed accent color.
func WithPrimaryColor(c string) Option {
	return func(b *Builder) { b.primaryColor = c }
}

// NewBuilder creates a Builder with the production event defaults.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		baseURL:      DefaultBaseURL,
		primaryColor: DefaultPrimaryColor,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// tierNames maps booking tiers onto the event name parameter shown in
// the Calendly embed.
var tierNames = map[model.Tier]string{
	model.TierExecutive:     "Executive_Partnership",
	model.TierComprehensive: "Comprehensive_Implementation",
}

// BookingURL builds the pre-filled booking URL for a tier. Selected
// extras are carried as a comma-joined custom answer so the sales call
// starts from what the lead already picked. Returns the empty string
// for tiers that purchase directly instead of booking.
func (b *Builder) BookingURL(tier model.Tier, extras []string) string {
	name, ok := tierNames[tier]
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(b.baseURL)
	sb.WriteString("?hide_gdpr_banner=1")
	sb.WriteString("&primary_color=")
	sb.WriteString(b.primaryColor)
	sb.WriteString("&name=")
	sb.WriteString(name)
	if len(extras) > 0 {
		sb.WriteString("&custom_enhancements=")
		sb.WriteString(url.QueryEscape(strings.Join(extras, ",")))
	}
	return sb.String()
}
