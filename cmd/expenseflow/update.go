package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/expenseflow/expenseflow/internal/cli"
	"github.com/expenseflow/expenseflow/internal/common"
	"github.com/expenseflow/expenseflow/internal/model"
)

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an expense",
		Long: `Merge-patch an existing expense. Only the flags you pass change;
everything else is preserved. The local copy updates immediately and the
remote catches up in the background.`,
		Args: cobra.ExactArgs(1),
		RunE: runUpdate,
	}

	cmd.Flags().String("status", "", "new status (pending, approved, rejected, reimbursed)")
	cmd.Flags().String("priority", "", "new priority (low, medium, high)")
	cmd.Flags().String("amount", "", "new amount")
	cmd.Flags().String("category", "", "new category")
	cmd.Flags().String("description", "", "new description")
	cmd.Flags().Bool("wait", false, "wait for the remote write to complete")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id := args[0]

	var patch model.Patch
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		status := model.Status(v)
		patch.Status = &status
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		priority := model.Priority(v)
		patch.Priority = &priority
	}
	if v, _ := cmd.Flags().GetString("amount"); v != "" {
		amount := model.ParseAmount(v)
		patch.Amount = &amount
	}
	if v, _ := cmd.Flags().GetString("category"); v != "" {
		patch.Category = &v
	}
	if v, _ := cmd.Flags().GetString("description"); v != "" {
		patch.Description = &v
	}
	wait, _ := cmd.Flags().GetBool("wait")

	local, pending := newSyncer().Update(cmd.Context(), id, patch)
	if local == nil {
		return common.NewUserError(
			fmt.Sprintf("expense %s not found in local store", id), common.ErrNotFound)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Expense %s updated locally", id)))
	fmt.Printf("  Status: %s\n", cli.FormatStatus(local.Status))

	if wait {
		if _, err := pending.Wait(); err != nil {
			fmt.Println(cli.FormatWarning("Remote update failed; local copy kept"))
			return nil
		}
		fmt.Println(cli.FormatSuccess("Remote copy updated"))
	}

	return nil
}
