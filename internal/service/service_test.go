package service

import (
	"testing"
	"time"

	"github.com/retoapp/socia-service/internal/calc"
	"github.com/retoapp/socia-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestAggregateStats_UsesRecordedCost(t *testing.T) {
	purchases := []models.Purchase{
		{Amount: 1000, CostPrice: fptr(600)},
		{Amount: 500, CostPrice: fptr(350)},
	}

	stats := aggregateStats(purchases)

	assert.Equal(t, 2, stats.PurchaseCount)
	assert.InDelta(t, 1500, stats.SalesTotal, 1e-9)
	assert.InDelta(t, 550, stats.ProfitTotal, 1e-9)
}

func TestAggregateStats_DefaultCostRatioFallback(t *testing.T) {
	// Without a recorded cost the profit falls back to 30% of the amount.
	stats := aggregateStats([]models.Purchase{{Amount: 1000}})

	assert.InDelta(t, 1000*(1-calc.DefaultCostRatio), stats.ProfitTotal, 1e-9)
}

func TestAggregateStats_Empty(t *testing.T) {
	stats := aggregateStats(nil)

	assert.Zero(t, stats.SalesTotal)
	assert.Zero(t, stats.ProfitTotal)
	assert.Zero(t, stats.PurchaseCount)
}

func TestBuildGoalView(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 0, 10)
	goal := &models.Goal{TargetAmount: 10000, Deadline: &deadline}

	view := buildGoalView(goal, 4500, now)

	assert.Equal(t, 45, view.Percentage)
	assert.InDelta(t, 5500, view.AmountRemaining, 1e-9)
	assert.Equal(t, 10, view.DaysRemaining)
	assert.Equal(t, calc.StatusStarted, view.Status)
	assert.InDelta(t, 550, view.PacePerDay, 1e-9)
	assert.InDelta(t, 3850, view.PacePerWeek, 1e-9)
	assert.InDelta(t, 16500, view.PacePerMonth, 1e-9)
}

func TestBuildGoalView_OverdueDeadline(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 0, -5)
	goal := &models.Goal{TargetAmount: 10000, Deadline: &deadline}

	view := buildGoalView(goal, 2000, now)

	assert.Equal(t, -5, view.DaysRemaining)
	// Pace floors the period at one day rather than going negative.
	assert.InDelta(t, 8000, view.PacePerDay, 1e-9)
}

func TestBuildGoalView_Complete(t *testing.T) {
	goal := &models.Goal{TargetAmount: 10000}

	view := buildGoalView(goal, 12000, time.Now())

	assert.Equal(t, 100, view.Percentage)
	assert.Zero(t, view.AmountRemaining)
	assert.Equal(t, calc.StatusComplete, view.Status)
	assert.Zero(t, view.PacePerDay)
}
