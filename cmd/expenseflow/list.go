package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/expenseflow/expenseflow/internal/cli"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Long: `List expenses from the local store.

Pass --remote to read the remote API directly instead.`,
		RunE: runList,
	}

	cmd.Flags().Bool("remote", false, "list from the remote API instead of the local store")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	remote, _ := cmd.Flags().GetBool("remote")

	if remote {
		records, err := newRemoteClient().FetchAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list remote expenses: %w", err)
		}
		fmt.Println(cli.RenderExpenseTable(records))
		return nil
	}

	fmt.Println(cli.RenderExpenseTable(openLocalStore().GetAll()))
	return nil
}
