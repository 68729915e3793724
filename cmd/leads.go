package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/clash-creation/qualify-cli/internal/model"
	"github.com/clash-creation/qualify-cli/internal/store"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect and export captured leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List captured leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		filter, err := leadFilterFromFlags(cmd)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		leads, err := st.ListLeads(ctx, filter)
		if err != nil {
			return err
		}
		printLeadTable(leads)
		return nil
	},
}

var leadsShowCmd = &cobra.Command{
	Use:   "show <lead-id>",
	Short: "Print one lead as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		lead, err := st.GetLead(ctx, args[0])
		if err != nil {
			return err
		}
		if lead == nil {
			return eris.Errorf("leads: no lead %s", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lead)
	},
}

var leadsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export leads to an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			return eris.New("leads: --output is required")
		}

		filter, err := leadFilterFromFlags(cmd)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		leads, err := st.ListLeads(ctx, filter)
		if err != nil {
			return err
		}

		if err := writeLeadWorkbook(leads, output); err != nil {
			return err
		}

		zap.L().Info("exported leads", zap.Int("count", len(leads)), zap.String("output", output))
		fmt.Printf("Exported %d leads to %s\n", len(leads), output)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{leadsListCmd, leadsExportCmd} {
		f := c.Flags()
		f.String("tier", "", "filter by recommended tier: foundation, comprehensive, or executive")
		f.String("since", "", "only leads captured on or after this date (RFC 3339 or YYYY-MM-DD)")
		f.Int("limit", 0, "maximum number of leads (0=all)")
	}
	leadsExportCmd.Flags().String("output", "", "output .xlsx path")

	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsShowCmd)
	leadsCmd.AddCommand(leadsExportCmd)
	rootCmd.AddCommand(leadsCmd)
}

func leadFilterFromFlags(cmd *cobra.Command) (store.LeadFilter, error) {
	var filter store.LeadFilter

	if raw, _ := cmd.Flags().GetString("tier"); raw != "" {
		tier, err := model.ParseTier(raw)
		if err != nil {
			return filter, err
		}
		filter.Tier = tier
	}
	if raw, _ := cmd.Flags().GetString("since"); raw != "" {
		since, err := parseSince(raw)
		if err != nil {
			return filter, err
		}
		filter.Since = since
	}
	filter.Limit, _ = cmd.Flags().GetInt("limit")
	return filter, nil
}

func parseSince(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, eris.Errorf("leads: cannot parse --since %q", raw)
	}
	return t, nil
}

func printLeadTable(leads []model.LeadRecord) {
	if len(leads) == 0 {
		fmt.Println("No leads.")
		return
	}

	fmt.Printf("%-36s %-25s %-30s %-13s %5s %-20s\n",
		"ID", "Name", "Email", "Tier", "Score", "Captured")
	fmt.Println(strings.Repeat("-", 135))
	for _, l := range leads {
		name := l.Contact.Name
		if len(name) > 25 {
			name = name[:22] + "..."
		}
		fmt.Printf("%-36s %-25s %-30s %-13s %5d %-20s\n",
			l.ID, name, l.Contact.Email,
			l.Qualification.RecommendedApproach, l.Qualification.Score,
			l.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("\n%d leads\n", len(leads))
}

var leadExportHeader = []string{
	"id", "name", "email", "company", "position", "mailing_list",
	"tier", "score", "team_size", "implementation_support", "timeline",
	"content_volume", "selected_extras", "utm_source", "utm_medium",
	"utm_campaign", "time_spent_secs", "interactions", "completed_at",
}

func writeLeadWorkbook(leads []model.LeadRecord, path string) error {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "leads: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range leadExportHeader {
		header.AddCell().SetString(h)
	}

	for _, l := range leads {
		row := sheet.AddRow()
		row.AddCell().SetString(l.ID)
		row.AddCell().SetString(l.Contact.Name)
		row.AddCell().SetString(l.Contact.Email)
		row.AddCell().SetString(l.Contact.Company)
		row.AddCell().SetString(l.Contact.Position)
		row.AddCell().SetBool(l.MailingList)
		row.AddCell().SetString(string(l.Qualification.RecommendedApproach))
		row.AddCell().SetInt(l.Qualification.Score)
		row.AddCell().SetInt(l.Qualification.TeamSizeBucket)
		row.AddCell().SetString(string(l.Qualification.ImplementationSupport))
		row.AddCell().SetString(string(l.Qualification.Timeline))
		row.AddCell().SetString(string(l.Qualification.ContentVolume))
		row.AddCell().SetString(strings.Join(l.Extras, ", "))
		row.AddCell().SetString(l.Source.UTMSource)
		row.AddCell().SetString(l.Source.UTMMedium)
		row.AddCell().SetString(l.Source.UTMCampaign)
		row.AddCell().SetInt(l.Engagement.TimeSpentSecs)
		row.AddCell().SetInt(l.Engagement.Interactions)
		row.AddCell().SetString(l.Timestamps.Completed.Format(time.RFC3339))
	}

	if err := wb.Save(path); err != nil {
		return eris.Wrapf(err, "leads: save workbook %s", path)
	}
	return nil
}
