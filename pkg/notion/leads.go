package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// LeadPage holds the fields written to the lead tracking database.
type LeadPage struct {
	Name        string
	Email       string
	Company     string
	Position    string
	Tier        string
	Score       int
	MailingList bool
	Source      string
	CompletedAt time.Time
}

// properties maps a LeadPage onto the tracking database schema.
func (lp LeadPage) properties() notionapi.Properties {
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: []notionapi.RichText{{Text: &notionapi.Text{Content: lp.Name}}},
		},
		emailProperty: notionapi.EmailProperty{Email: lp.Email},
		"Company": richText(lp.Company),
		"Tier": notionapi.SelectProperty{
			Select: notionapi.Option{Name: lp.Tier},
		},
		"Score":        notionapi.NumberProperty{Number: float64(lp.Score)},
		"Mailing List": notionapi.CheckboxProperty{Checkbox: lp.MailingList},
	}
	if lp.Position != "" {
		props["Position"] = richText(lp.Position)
	}
	if lp.Source != "" {
		props["Source"] = richText(lp.Source)
	}
	if !lp.CompletedAt.IsZero() {
		d := notionapi.Date(lp.CompletedAt)
		props["Completed"] = notionapi.DateProperty{Date: &notionapi.DateObject{Start: &d}}
	}
	return props
}

func richText(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: s}}},
	}
}

// CreateLeadPage inserts a new lead row into the tracking database.
func CreateLeadPage(ctx context.Context, c Client, dbID string, lp LeadPage) (*notionapi.Page, error) {
	if lp.Email == "" {
		return nil, eris.New("notion: lead email is required")
	}
	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(dbID),
		},
		Properties: lp.properties(),
	}
	page, err := c.CreatePage(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("notion: create lead page %s", lp.Email))
	}
	return page, nil
}

// FindLeadPageByEmail looks up an existing lead row by email.
// Returns nil if no page matches.
func FindLeadPageByEmail(ctx context.Context, c Client, dbID, email string) (*notionapi.Page, error) {
	page, err := c.FindPageByEmail(ctx, dbID, email)
	if err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("notion: find lead page %s", email))
	}
	return page, nil
}

// UpdateLeadPage overwrites an existing lead row with re-qualified values.
// A returning visitor who completes the wizard again keeps one row.
func UpdateLeadPage(ctx context.Context, c Client, pageID string, lp LeadPage) (*notionapi.Page, error) {
	req := &notionapi.PageUpdateRequest{Properties: lp.properties()}
	page, err := c.UpdatePage(ctx, pageID, req)
	if err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("notion: update lead page %s", pageID))
	}
	return page, nil
}
