package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/clash-creation/qualify-cli/internal/model"
	"github.com/clash-creation/qualify-cli/pkg/salesforce"
)

// defaultLeadSource marks leads that arrived without campaign attribution.
const defaultLeadSource = "vertical_shortcut_qualification"

// ratings maps recommendation tiers onto Salesforce Lead ratings.
var ratings = map[model.Tier]string{
	model.TierExecutive:     "Hot",
	model.TierComprehensive: "Warm",
	model.TierFoundation:    "Cold",
}

// SalesforceSink upserts qualified leads into Salesforce by email.
type SalesforceSink struct {
	client salesforce.Client
}

// NewSalesforceSink creates a sink over the given Salesforce client.
func NewSalesforceSink(client salesforce.Client) *SalesforceSink {
	return &SalesforceSink{client: client}
}

func (s *SalesforceSink) Name() string { return "salesforce" }

// Deliver creates a Lead record, or updates the existing one when the
// same email has qualified before.
func (s *SalesforceSink) Deliver(ctx context.Context, lead *model.LeadRecord) error {
	fields := leadFields(lead)

	existing, err := salesforce.FindLeadByEmail(ctx, s.client, lead.Contact.Email)
	if err != nil {
		return eris.Wrap(err, "sink: salesforce lookup")
	}
	if existing != nil {
		delete(fields, "LastName")
		delete(fields, "Company")
		if err := salesforce.UpdateLead(ctx, s.client, existing.ID, fields); err != nil {
			return eris.Wrap(err, "sink: salesforce update")
		}
		return nil
	}

	if _, err := salesforce.CreateLead(ctx, s.client, fields); err != nil {
		return eris.Wrap(err, "sink: salesforce create")
	}
	return nil
}

// leadFields maps a lead record onto Salesforce Lead fields.
func leadFields(lead *model.LeadRecord) map[string]any {
	first, last := splitName(lead.Contact.Name)

	source := lead.Source.UTMSource
	if source == "" {
		source = defaultLeadSource
	}

	var desc strings.Builder
	fmt.Fprintf(&desc, "Recommended: %s (score %d)\n",
		lead.Qualification.RecommendedApproach, lead.Qualification.Score)
	for _, sentence := range lead.Responses {
		desc.WriteString(sentence)
		desc.WriteString("\n")
	}
	if len(lead.Extras) > 0 {
		fmt.Fprintf(&desc, "Selected extras: %s\n", strings.Join(lead.Extras, ", "))
	}

	fields := map[string]any{
		"FirstName":   first,
		"LastName":    last,
		"Email":       lead.Contact.Email,
		"Company":     lead.Contact.Company,
		"LeadSource":  source,
		"Rating":      ratings[lead.Qualification.RecommendedApproach],
		"Description": desc.String(),
	}
	if lead.Contact.Position != "" {
		fields["Title"] = lead.Contact.Position
	}
	return fields
}

// splitName breaks a free-form name into first/last. A single token
// becomes the last name since Salesforce requires one.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}
