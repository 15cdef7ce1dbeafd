package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/expenseflow/expenseflow/internal/cli"
	"github.com/expenseflow/expenseflow/internal/notify"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream simulated expense notifications",
		Long: `Print expense notifications as they arrive. Events are simulated
locally on an interval; stop with Ctrl-C.`,
		RunE: runWatch,
	}

	cmd.Flags().Duration("interval", 8*time.Second, "time between simulated events")

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	interval, _ := cmd.Flags().GetDuration("interval")

	feed := notify.NewFeed()
	ch, cancel := feed.Subscribe()
	defer cancel()

	ctx := cmd.Context()
	go feed.Simulate(ctx, interval)

	fmt.Println(cli.TitleStyle.Render("Watching for notifications..."))

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-ch:
			fmt.Printf("%s %s %s\n",
				cli.SubtleStyle.Render(n.Timestamp.Format("15:04:05")),
				cli.SuccessStyle.Render(n.Title),
				n.Message)
		}
	}
}
