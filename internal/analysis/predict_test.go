package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/expenseflow/expenseflow/internal/model"
)

func TestPredictNextMonth(t *testing.T) {
	tests := []struct {
		name           string
		totals         []MonthlyTotal
		wantAmount     float64
		wantConfidence int
	}{
		{
			name:   "no data",
			totals: nil,
		},
		{
			name:   "single point is not a trend",
			totals: []MonthlyTotal{{Month: "2025-01", Amount: 500}},
		},
		{
			name: "perfect linear growth",
			totals: []MonthlyTotal{
				{Month: "2025-01", Amount: 100},
				{Month: "2025-02", Amount: 200},
				{Month: "2025-03", Amount: 300},
			},
			wantAmount:     400,
			wantConfidence: 100,
		},
		{
			name: "flat series predicts itself",
			totals: []MonthlyTotal{
				{Month: "2025-01", Amount: 250},
				{Month: "2025-02", Amount: 250},
			},
			wantAmount:     250,
			wantConfidence: 100,
		},
		{
			name: "steep decline clamps at zero",
			totals: []MonthlyTotal{
				{Month: "2025-01", Amount: 300},
				{Month: "2025-02", Amount: 100},
			},
			wantAmount:     0,
			wantConfidence: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PredictNextMonth(tt.totals)
			assert.Equal(t, tt.wantAmount, got.Amount)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestPredictNextMonth_NoisyDataLowersConfidence(t *testing.T) {
	noisy := []MonthlyTotal{
		{Month: "2025-01", Amount: 100},
		{Month: "2025-02", Amount: 900},
		{Month: "2025-03", Amount: 150},
		{Month: "2025-04", Amount: 800},
	}

	got := PredictNextMonth(noisy)
	assert.Less(t, got.Confidence, 100)
	assert.GreaterOrEqual(t, got.Confidence, 0)
}

func TestMonthlyTotals(t *testing.T) {
	records := []model.Expense{
		{Date: "2025-01-10", Amount: 100},
		{Date: "2025-01-25", Amount: 50},
		{Date: "2025-02-01", Amount: 75},
		{Date: "bad", Amount: 999}, // skipped
	}

	totals := MonthlyTotals(records)
	assert.Equal(t, []MonthlyTotal{
		{Month: "2025-01", Amount: 150},
		{Month: "2025-02", Amount: 75},
	}, totals)
}

func TestCategoryTotals(t *testing.T) {
	records := []model.Expense{
		{Category: "Travel", Amount: 100},
		{Category: "Travel", Amount: 50},
		{Category: "Meals", Amount: 25},
		{Amount: 10},
	}

	totals := CategoryTotals(records)
	assert.Equal(t, 150.0, totals["Travel"])
	assert.Equal(t, 25.0, totals["Meals"])
	assert.Equal(t, 10.0, totals[""])
}
