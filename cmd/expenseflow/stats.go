package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/expenseflow/expenseflow/internal/analysis"
	"github.com/expenseflow/expenseflow/internal/cli"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show spending totals and next-month projection",
		Long: `Summarize local expenses: per-category totals, per-month totals,
and a linear-trend projection for next month's spend.`,
		RunE: runStats,
	}
}

func runStats(_ *cobra.Command, _ []string) error {
	records := openLocalStore().GetAll()
	if len(records) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No expenses found."))
		return nil
	}

	var b strings.Builder

	byCategory := analysis.CategoryTotals(records)
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	b.WriteString("By category\n")
	for _, c := range categories {
		label := c
		if label == "" {
			label = "(uncategorized)"
		}
		b.WriteString(fmt.Sprintf("  %-20s %10.2f\n", label, byCategory[c]))
	}

	monthly := analysis.MonthlyTotals(records)
	b.WriteString("\nBy month\n")
	for _, m := range monthly {
		b.WriteString(fmt.Sprintf("  %-20s %10.2f\n", m.Month, m.Amount))
	}

	prediction := analysis.PredictNextMonth(monthly)
	b.WriteString("\nNext month\n")
	if prediction.Confidence == 0 && prediction.Amount == 0 {
		b.WriteString(cli.SubtleStyle.Render("  Not enough history to project.") + "\n")
	} else {
		b.WriteString(fmt.Sprintf("  %-20s %10.2f  (%d%% confidence)\n",
			"projected spend", prediction.Amount, prediction.Confidence))
	}

	fmt.Println(cli.RenderBox("Spending summary", strings.TrimRight(b.String(), "\n")))
	return nil
}
