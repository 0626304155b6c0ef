package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBudgetSplit_Typical(t *testing.T) {
	split := ComputeBudgetSplit(392.7, 20)

	assert.InDelta(t, 78.54, split.Savings, 1e-6)
	assert.InDelta(t, 196.35, split.Needs, 1e-6)
	assert.InDelta(t, 117.81, split.Wants, 1e-6)
}

func TestComputeBudgetSplit_PartsSumToProfit(t *testing.T) {
	tests := []struct {
		name       string
		profit     float64
		savingsPct float64
	}{
		{"no savings", 300, 0},
		{"default savings", 392.7, 20},
		{"half savings", 1000, 50},
		{"all savings", 250, 100},
		{"zero profit", 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := ComputeBudgetSplit(tt.profit, tt.savingsPct)
			assert.InDelta(t, tt.profit, split.Needs+split.Wants+split.Savings, 1e-6)
		})
	}
}

func TestComputeBudgetSplit_NeedsWantsRatio(t *testing.T) {
	// Needs:wants stays 5:3 for any savings percentage below 100.
	for _, savingsPct := range []float64{0, 10, 20, 55, 99} {
		split := ComputeBudgetSplit(800, savingsPct)
		assert.InDelta(t, 5.0/3.0, split.Needs/split.Wants, 1e-6)
	}
}

func TestComputeBudgetSplit_ZeroSavings(t *testing.T) {
	split := ComputeBudgetSplit(160, 0)

	assert.Zero(t, split.Savings)
	assert.InDelta(t, 100, split.Needs, 1e-6)
	assert.InDelta(t, 60, split.Wants, 1e-6)
}
