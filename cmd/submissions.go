package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bytetobeacon/beacon/internal/audit"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Inspect the relay's submission log",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent submissions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		typ, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		store, done, err := openLogFromConfig()
		if err != nil {
			return err
		}
		defer done()

		entries, err := store.Query(cmd.Context(), audit.QueryFilter{
			Type:   typ,
			Status: audit.Status(status),
			Limit:  limit,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			if entries == nil {
				entries = []audit.Entry{}
			}
			return printJSON(entries)
		}
		if len(entries) == 0 {
			fmt.Println("No submissions.")
			return nil
		}

		fmt.Printf("%-19s  %-8s  %-7s  %-28s  %s\n", "TIME", "TYPE", "STATUS", "REPLY-TO", "SUBJECT")
		fmt.Println(strings.Repeat("-", 100))
		for _, e := range entries {
			fmt.Printf("%-19s  %-8s  %-7s  %-28s  %s\n",
				e.Timestamp.Local().Format(time.DateTime), e.Type, e.Status,
				truncate(e.ReplyTo, 28), truncate(e.Subject, 40))
			if e.Error != "" {
				fmt.Printf("%21s%s\n", "", truncate(e.Error, 78))
			}
		}
		return nil
	},
}

var submissionsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count submissions by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := openLogFromConfig()
		if err != nil {
			return err
		}
		defer done()

		counts, err := store.Counts(cmd.Context())
		if err != nil {
			return err
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		fmt.Printf("Sent:   %d\n", counts[audit.StatusSent])
		fmt.Printf("Failed: %d\n", counts[audit.StatusFailed])
		fmt.Printf("Total:  %d\n", total)
		return nil
	},
}

var submissionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old submission records",
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")
		if olderThan <= 0 {
			return fmt.Errorf("--older-than must be positive, got %s", olderThan)
		}

		store, done, err := openLogFromConfig()
		if err != nil {
			return err
		}
		defer done()

		n, err := store.DeleteBefore(cmd.Context(), time.Now().Add(-olderThan))
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d submissions older than %s\n", n, olderThan)
		return nil
	},
}

func openLogFromConfig() (*audit.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Relay.DBPath == "" {
		return nil, nil, fmt.Errorf("relay.db_path is empty; the submission log is disabled")
	}
	database, store, err := openSubmissionLog(cfg.Relay.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { database.Close() }, nil
}

func init() {
	submissionsListCmd.Flags().String("status", "", "filter by status (sent or failed)")
	submissionsListCmd.Flags().String("type", "", "filter by submission type (contact or article)")
	submissionsListCmd.Flags().Int("limit", 20, "maximum number of entries")
	submissionsListCmd.Flags().Bool("json", false, "output as JSON")
	submissionsPruneCmd.Flags().Duration("older-than", 90*24*time.Hour, "delete entries older than this")

	submissionsCmd.AddCommand(submissionsListCmd, submissionsStatsCmd, submissionsPruneCmd)
	rootCmd.AddCommand(submissionsCmd)
}
