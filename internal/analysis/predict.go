// Package analysis aggregates spending and predicts the next month's total
// with a deterministic least-squares linear trend.
package analysis

import (
	"math"
	"sort"

	"github.com/expenseflow/expenseflow/internal/model"
)

// MonthlyTotal is the summed spend for one month, keyed YYYY-MM.
type MonthlyTotal struct {
	Month  string
	Amount float64
}

// Prediction is the projected spend for the month after the last data point.
// Confidence is the trend's R-squared as a 0-100 percentage.
type Prediction struct {
	Amount     float64
	Confidence int
}

// MonthlyTotals buckets expenses into chronological per-month totals, keyed
// by the expense date's YYYY-MM prefix. Records with a malformed date are
// skipped.
func MonthlyTotals(records []model.Expense) []MonthlyTotal {
	byMonth := make(map[string]float64)
	for _, r := range records {
		if len(r.Date) < 7 {
			continue
		}
		byMonth[r.Date[:7]] += float64(r.Amount)
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	totals := make([]MonthlyTotal, 0, len(months))
	for _, m := range months {
		totals = append(totals, MonthlyTotal{Month: m, Amount: byMonth[m]})
	}
	return totals
}

// CategoryTotals sums spend per category. Uncategorized records land under
// an empty key; callers decide how to label that.
func CategoryTotals(records []model.Expense) map[string]float64 {
	totals := make(map[string]float64)
	for _, r := range records {
		totals[r.Category] += float64(r.Amount)
	}
	return totals
}

// PredictNextMonth fits a least-squares line through the monthly totals and
// extrapolates one month ahead. The prediction is rounded and clamped at
// zero. Fewer than two data points predict nothing.
func PredictNextMonth(totals []MonthlyTotal) Prediction {
	n := len(totals)
	if n < 2 {
		return Prediction{}
	}

	var meanX, meanY float64
	for i, t := range totals {
		meanX += float64(i)
		meanY += t.Amount
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var num, den float64
	for i, t := range totals {
		dx := float64(i) - meanX
		num += dx * (t.Amount - meanY)
		den += dx * dx
	}

	slope := 0.0
	if den != 0 {
		slope = num / den
	}
	intercept := meanY - slope*meanX

	prediction := math.Round(intercept + slope*float64(n))
	if prediction < 0 {
		prediction = 0
	}

	// Confidence is R-squared of the fit; a flat series fits perfectly.
	var ssTot, ssRes float64
	for i, t := range totals {
		fitted := intercept + slope*float64(i)
		ssTot += (t.Amount - meanY) * (t.Amount - meanY)
		ssRes += (t.Amount - fitted) * (t.Amount - fitted)
	}
	r2 := 1.0
	if ssTot != 0 {
		r2 = math.Max(0, 1-ssRes/ssTot)
	}

	return Prediction{
		Amount:     prediction,
		Confidence: int(math.Round(r2 * 100)),
	}
}
