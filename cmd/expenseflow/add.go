package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/expenseflow/expenseflow/internal/cli"
	"github.com/expenseflow/expenseflow/internal/model"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit a new expense",
		Long: `Submit an expense. The record is written to the local store
immediately and pushed to the remote API in the background.

Pass --wait to block until the remote write lands.`,
		RunE: runAdd,
	}

	cmd.Flags().String("employee", "", "employee name")
	cmd.Flags().String("department", "", "department")
	cmd.Flags().String("amount", "", "expense amount")
	cmd.Flags().String("date", "", "expense date (YYYY-MM-DD, default today)")
	cmd.Flags().String("category", "", "expense category")
	cmd.Flags().String("description", "", "description")
	cmd.Flags().String("priority", "", "priority (low, medium, high)")
	cmd.Flags().String("submitted-by", "", "submitter user ID")
	cmd.Flags().Bool("wait", false, "wait for the remote write to complete")

	return cmd
}

func runAdd(cmd *cobra.Command, _ []string) error {
	employee, _ := cmd.Flags().GetString("employee")
	department, _ := cmd.Flags().GetString("department")
	amount, _ := cmd.Flags().GetString("amount")
	date, _ := cmd.Flags().GetString("date")
	category, _ := cmd.Flags().GetString("category")
	description, _ := cmd.Flags().GetString("description")
	priority, _ := cmd.Flags().GetString("priority")
	submittedBy, _ := cmd.Flags().GetString("submitted-by")
	wait, _ := cmd.Flags().GetBool("wait")

	record := model.Expense{
		Employee:    employee,
		Department:  department,
		Amount:      model.ParseAmount(amount),
		Date:        date,
		Category:    category,
		Description: description,
		Priority:    model.Priority(priority),
		SubmittedBy: submittedBy,
	}

	local, pending := newSyncer().Add(cmd.Context(), record)

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Expense %s saved locally", local.ID)))

	if wait {
		remote, err := pending.Wait()
		if err != nil {
			fmt.Println(cli.FormatWarning("Remote submission failed; local copy kept"))
			return nil
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Expense %s synced to remote", remote.ID)))
	}

	return nil
}
