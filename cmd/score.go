package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/clash-creation/qualify-cli/internal/model"
	"github.com/clash-creation/qualify-cli/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one answer set against the tier thresholds",
	Long: `Scores a hypothetical lead without running the wizard.

Useful for checking which package a combination of answers lands on,
and how the engagement bonus shifts borderline leads.

Examples:
  # Top-band lead
  score --team-size 15 --support full_service --timeline immediate --volume high

  # Same lead with the engagement bonus
  score --team-size 15 --support full_service --timeline immediate --volume high \
    --time-spent 120 --interactions 12

  # Machine-readable output
  score --team-size 5 --support guided --timeline next_quarter --volume medium --format json`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("team-size", "", "team size answer: 1, 5, or 15 (also solo/small/growing)")
	f.String("support", "", "implementation support answer: self_directed, guided, or full_service")
	f.String("timeline", "", "timeline answer: immediate, next_quarter, or exploratory")
	f.String("volume", "", "content volume answer: low, medium, or high")
	f.Int("time-spent", 0, "seconds spent in the wizard")
	f.Int("interactions", 0, "interaction count")
	f.String("format", "table", "output format: table or json")

	scoreCmd.MarkFlagRequired("team-size")     //nolint:errcheck
	scoreCmd.MarkFlagRequired("support")       //nolint:errcheck
	scoreCmd.MarkFlagRequired("timeline")      //nolint:errcheck
	scoreCmd.MarkFlagRequired("volume")        //nolint:errcheck

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" {
		return eris.Errorf("score: --format must be table or json (got %q)", format)
	}

	answers, err := answersFromFlags(cmd)
	if err != nil {
		return err
	}

	timeSpent, _ := cmd.Flags().GetInt("time-spent")
	interactions, _ := cmd.Flags().GetInt("interactions")
	engagement := model.Engagement{TimeSpentSecs: timeSpent, Interactions: interactions}

	catalog, err := initCatalog()
	if err != nil {
		return err
	}

	rec, score := scoring.Recommend(answers, engagement, cfg.Scoring, catalog)

	switch format {
	case "json":
		out := map[string]any{
			"score":          score,
			"tier":           rec.Type,
			"recommendation": rec,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		printScore(answers, engagement, rec, score)
		return nil
	}
}

func answersFromFlags(cmd *cobra.Command) (model.AnswerSet, error) {
	var a model.AnswerSet
	var err error

	raw, _ := cmd.Flags().GetString("team-size")
	if a.TeamSize, err = model.ParseTeamSize(raw); err != nil {
		return a, err
	}
	raw, _ = cmd.Flags().GetString("support")
	if a.ImplementationSupport, err = model.ParseSupportLevel(raw); err != nil {
		return a, err
	}
	raw, _ = cmd.Flags().GetString("timeline")
	if a.Timeline, err = model.ParseTimeline(raw); err != nil {
		return a, err
	}
	raw, _ = cmd.Flags().GetString("volume")
	if a.ContentVolume, err = model.ParseContentVolume(raw); err != nil {
		return a, err
	}
	return a, nil
}

func printScore(a model.AnswerSet, e model.Engagement, rec model.Recommendation, score int) {
	fmt.Printf("Score:   %d / 11\n", score)
	fmt.Printf("Tier:    %s\n", rec.Type)
	fmt.Printf("Package: %s (%s)\n", rec.Title, rec.Pricing)
	fmt.Println("\nResponses:")
	responses := scoring.ReadableResponses(a)
	for _, key := range []string{"teamSize", "implementationSupport", "timeline", "contentVolume"} {
		fmt.Printf("  %s\n", responses[key])
	}
	if e.TimeSpentSecs > 0 || e.Interactions > 0 {
		fmt.Printf("\nEngagement: %ds, %d interactions\n", e.TimeSpentSecs, e.Interactions)
	}
}
