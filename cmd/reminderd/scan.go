package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func scanCommand() *cobra.Command {
	var (
		dryRun  bool
		force   bool
		dateStr string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one evaluation reminder scan and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			today := time.Now()
			if dateStr != "" {
				parsed, err := time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("invalid --date %q (want YYYY-MM-DD): %w", dateStr, err)
				}
				today = parsed
			}
			return scan(today, dryRun, force)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be sent without sending or writing anything")
	cmd.Flags().BoolVar(&force, "force", false, "re-send initial notices even when already sent")
	cmd.Flags().StringVar(&dateStr, "date", "", "scan as of this date (YYYY-MM-DD) instead of today")
	return cmd
}

func scan(today time.Time, dryRun, force bool) error {
	rt, err := buildRuntime(false)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := context.Background()
	stats, err := rt.reminders.Run(ctx, today, dryRun, force)
	if err != nil {
		return err
	}

	label := "sent"
	if dryRun {
		label = "would send"
	}
	fmt.Printf("Scan for %s: created=%d %s=%d skipped=%d errors=%d\n",
		today.Format("2006-01-02"), stats.Created, label, stats.Sent, stats.Skipped, stats.Errors)
	if stats.Errors > 0 {
		return fmt.Errorf("%d assignment(s) failed during the scan", stats.Errors)
	}
	return nil
}
