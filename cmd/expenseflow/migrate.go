package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/expenseflow/expenseflow/internal/cli"
	"github.com/expenseflow/expenseflow/internal/common"
	"github.com/expenseflow/expenseflow/internal/model"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upload local expenses to the remote API",
		Long: `Push every locally-stored expense the remote does not already hold.
Records that fail to upload are skipped; the run always continues.
Afterwards the local store is refreshed from the remote listing.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	s := newSyncer()

	var bar *progressbar.ProgressBar
	result, err := s.MigrateLocalToRemote(cmd.Context(), func(done, total int, current model.Expense) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Migrating expenses"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
	})
	if err != nil {
		return common.NewUserError("migration needs the expense API to be reachable", err)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if result.Total == 0 {
		fmt.Println(cli.SubtleStyle.Render("Nothing to migrate."))
		return nil
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Migrated %d of %d expenses (%d already on remote)",
		result.Migrated, result.Total, result.Total-result.Migrated)))
	return nil
}
