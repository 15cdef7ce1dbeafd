package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/expenseflow/expenseflow/internal/cli"
	"github.com/expenseflow/expenseflow/internal/common"
	"github.com/expenseflow/expenseflow/internal/service"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull expenses from the remote API",
		Long: `Fetch the full expense listing from the remote API and overwrite
the local store with it. The remote is authoritative; local-only edits
that never reached the server are replaced.`,
		RunE: runSync,
	}

	cmd.Flags().Int("retries", 3, "attempts before giving up on an unreachable remote")

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	retries, _ := cmd.Flags().GetInt("retries")
	s := newSyncer()

	var count int
	err := common.WithRetry(cmd.Context(), func() error {
		records, syncErr := s.SyncFromRemote(cmd.Context())
		if syncErr != nil {
			return syncErr
		}
		count = len(records)
		return nil
	}, service.RetryOptions{
		MaxAttempts:  retries,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
	})
	if err != nil {
		return common.NewUserError("could not sync from the expense API", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Synced %d expenses from remote", count)))
	return nil
}
