// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/expenseflow/expenseflow/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#5B8DEF")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
)

var statusStyles = map[model.Status]lipgloss.Style{
	model.StatusPending:    WarningStyle,
	model.StatusApproved:   SuccessStyle,
	model.StatusReimbursed: SuccessStyle,
	model.StatusRejected:   ErrorStyle,
	model.StatusEscalated:  ErrorStyle,
	model.StatusDraft:      SubtleStyle,
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatStatus renders a status with its review-state color.
func FormatStatus(status model.Status) string {
	if style, ok := statusStyles[status]; ok {
		return style.Render(string(status))
	}
	return string(status)
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	boxContent := lipgloss.JoinVertical(
		lipgloss.Left,
		boxTitle,
		content,
	)

	return BoxStyle.Render(boxContent)
}

// RenderExpenseTable renders expenses as an aligned table, one row each.
func RenderExpenseTable(records []model.Expense) string {
	if len(records) == 0 {
		return SubtleStyle.Render("No expenses found.")
	}

	var b strings.Builder
	header := fmt.Sprintf("%-26s %-18s %-12s %10s  %-10s %s",
		"ID", "EMPLOYEE", "DATE", "AMOUNT", "STATUS", "CATEGORY")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, r := range records {
		// pad before styling so ANSI codes don't skew the column width
		statusCell := fmt.Sprintf("%-10s", r.Status)
		if style, ok := statusStyles[r.Status]; ok {
			statusCell = style.Render(statusCell)
		}
		b.WriteString(fmt.Sprintf("%-26s %-18s %-12s %10.2f  %s %s\n",
			r.ID,
			truncate(r.Employee, 18),
			r.Date,
			float64(r.Amount),
			statusCell,
			r.Category))
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
