package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/clash-creation/qualify-cli/internal/model"
)

func exportLead() model.LeadRecord {
	return model.LeadRecord{
		ID: "lead-1",
		Contact: model.Contact{
			Name:    "Jane Doe",
			Email:   "jane@acme.com",
			Company: "Acme Corp",
		},
		MailingList: true,
		Qualification: model.Qualification{
			TeamSizeBucket:        15,
			ImplementationSupport: model.SupportFullService,
			Timeline:              model.TimelineImmediate,
			ContentVolume:         model.VolumeHigh,
			RecommendedApproach:   model.TierExecutive,
			Score:                 10,
		},
		Engagement: model.Engagement{TimeSpentSecs: 95, Interactions: 9},
		Extras:     []string{"Extended Support (3 more months)"},
		Source:     model.Attribution{UTMSource: "newsletter"},
		Timestamps: model.LeadTimestamps{
			Completed: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriteLeadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")

	require.NoError(t, writeLeadWorkbook([]model.LeadRecord{exportLead()}, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Leads", sheet.Name)
	require.Len(t, sheet.Rows, 2)

	header := sheet.Rows[0]
	assert.Equal(t, "id", header.Cells[0].String())
	assert.Equal(t, "tier", header.Cells[6].String())

	row := sheet.Rows[1]
	assert.Equal(t, "lead-1", row.Cells[0].String())
	assert.Equal(t, "Jane Doe", row.Cells[1].String())
	assert.Equal(t, "jane@acme.com", row.Cells[2].String())
	assert.Equal(t, "executive", row.Cells[6].String())

	score, err := row.Cells[7].Int()
	require.NoError(t, err)
	assert.Equal(t, 10, score)
}

func TestWriteLeadWorkbookEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	require.NoError(t, writeLeadWorkbook(nil, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets[0].Rows, 1, "header only")
}

func TestParseSince(t *testing.T) {
	got, err := parseSince("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = parseSince("2026-03-01T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), got)

	_, err = parseSince("yesterday")
	assert.Error(t, err)
}
