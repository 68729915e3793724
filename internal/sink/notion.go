package sink

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/clash-creation/qualify-cli/internal/model"
	"github.com/clash-creation/qualify-cli/pkg/notion"
)

// NotionSink mirrors qualified leads into the Notion tracking database.
type NotionSink struct {
	client notion.Client
	dbID   string
}

// NewNotionSink creates a sink writing to the given database.
func NewNotionSink(client notion.Client, dbID string) *NotionSink {
	return &NotionSink{client: client, dbID: dbID}
}

func (s *NotionSink) Name() string { return "notion" }

// Deliver creates a lead row, or overwrites the existing one when the
// same email has qualified before.
func (s *NotionSink) Deliver(ctx context.Context, lead *model.LeadRecord) error {
	lp := notion.LeadPage{
		Name:        lead.Contact.Name,
		Email:       lead.Contact.Email,
		Company:     lead.Contact.Company,
		Position:    lead.Contact.Position,
		Tier:        string(lead.Qualification.RecommendedApproach),
		Score:       lead.Qualification.Score,
		MailingList: lead.MailingList,
		Source:      lead.Source.UTMSource,
		CompletedAt: lead.Timestamps.Completed,
	}

	existing, err := notion.FindLeadPageByEmail(ctx, s.client, s.dbID, lead.Contact.Email)
	if err != nil {
		return eris.Wrap(err, "sink: notion lookup")
	}
	if existing != nil {
		if _, err := notion.UpdateLeadPage(ctx, s.client, existing.ID.String(), lp); err != nil {
			return eris.Wrap(err, "sink: notion update")
		}
		return nil
	}

	if _, err := notion.CreateLeadPage(ctx, s.client, s.dbID, lp); err != nil {
		return eris.Wrap(err, "sink: notion create")
	}
	return nil
}
