package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/expenseflow/expenseflow/internal/cli"
)

func clearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the local expense store",
		Long: `Remove the local JSON store. The remote API is not touched;
a later sync restores whatever the server holds.`,
		RunE: runClear,
	}

	cmd.Flags().Bool("force", false, "skip the confirmation prompt")

	return cmd
}

func runClear(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")

	if !force {
		fmt.Printf("Delete the local store at %s? [y/N] ", localStorePath())
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println(cli.SubtleStyle.Render("Aborted."))
			return nil
		}
	}

	if err := openLocalStore().Clear(); err != nil {
		return fmt.Errorf("failed to clear local store: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Local store cleared"))
	return nil
}
