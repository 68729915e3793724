package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect and maintain stored resume records",
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print one stored session as JSON",
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

		sess, err := st.GetSession(ctx, args[0])
		if err != nil {
			return err
		}
		if sess == nil {
			return eris.Errorf("sessions: no stored session %s", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sess)
	},
}

var sessionsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete resume records past the restore window",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		olderThan, err := cmd.Flags().GetDuration("older-than")
		if err != nil {
			return err
		}
		if olderThan == 0 {
			olderThan = cfg.Wizard.ResumeWindow()
		}
		if olderThan < 0 {
			return eris.New("sessions: --older-than must be positive")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		n, err := st.DeleteStaleSessions(ctx, olderThan)
		if err != nil {
			return err
		}

		zap.L().Info("purged stale sessions",
			zap.Int("count", n),
			zap.Duration("older_than", olderThan))
		fmt.Printf("Purged %d stale sessions (inactive for %s or longer)\n", n, olderThan)
		return nil
	},
}

func init() {
	sessionsPurgeCmd.Flags().Duration("older-than", 0, "inactivity cutoff (default: resume window from config)")

	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsPurgeCmd)
	rootCmd.AddCommand(sessionsCmd)
}
