package calc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress_Typical(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 0, 15)

	p := ComputeProgress(4500, 10000, &deadline, now)

	assert.Equal(t, 45, p.Percentage)
	assert.InDelta(t, 5500, p.AmountRemaining, 1e-9)
	assert.Equal(t, 15, p.DaysRemaining)
	assert.Equal(t, StatusStarted, p.Status)
}

func TestComputeProgress_Clamping(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 100, ComputeProgress(15000, 10000, nil, now).Percentage)
	assert.Equal(t, 0, ComputeProgress(0, 10000, nil, now).Percentage)
	assert.Equal(t, 100, ComputeProgress(10000, 10000, nil, now).Percentage)
	assert.Zero(t, ComputeProgress(15000, 10000, nil, now).AmountRemaining)
}

func TestComputeProgress_ZeroTargetShortCircuits(t *testing.T) {
	p := ComputeProgress(500, 0, nil, time.Now())

	assert.Equal(t, 0, p.Percentage)
	assert.Zero(t, p.AmountRemaining)
	assert.Equal(t, StatusEarly, p.Status)
}

func TestComputeProgress_MonotonicInCurrent(t *testing.T) {
	now := time.Now()
	prev := -1
	for current := 0.0; current <= 12000; current += 500 {
		pct := ComputeProgress(current, 10000, nil, now).Percentage
		assert.GreaterOrEqual(t, pct, prev)
		assert.GreaterOrEqual(t, pct, 0)
		assert.LessOrEqual(t, pct, 100)
		prev = pct
	}
}

func TestComputeProgress_OverdueDeadline(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 0, -4)

	p := ComputeProgress(1000, 10000, &deadline, now)
	assert.Equal(t, -4, p.DaysRemaining)
}

func TestComputeProgress_NoDeadline(t *testing.T) {
	p := ComputeProgress(1000, 10000, nil, time.Now())
	assert.Equal(t, 0, p.DaysRemaining)
}

func TestRequiredPace(t *testing.T) {
	assert.InDelta(t, 100, RequiredPace(1500, 15), 1e-9)
	assert.InDelta(t, 5500.0/7, RequiredPace(5500, 7), 1e-9)
	// Denominator floors at one day, never divides by zero.
	assert.InDelta(t, 5500, RequiredPace(5500, 0), 1e-9)
	assert.InDelta(t, 5500, RequiredPace(5500, -3), 1e-9)
}

func TestStatusFor_BandsPartitionRange(t *testing.T) {
	tests := []struct {
		pct  int
		want GoalStatus
	}{
		{0, StatusEarly},
		{25, StatusEarly},
		{26, StatusStarted},
		{50, StatusStarted},
		{51, StatusHalfwayPlus},
		{75, StatusHalfwayPlus},
		{76, StatusNear},
		{99, StatusNear},
		{100, StatusComplete},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.pct), "pct=%d", tt.pct)
	}

	// Every percentage lands in exactly one band.
	for pct := 0; pct <= 100; pct++ {
		assert.NotEmpty(t, StatusFor(pct))
	}
}
