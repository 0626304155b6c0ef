package calc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeCycle_TwoPurchases(t *testing.T) {
	dates := []time.Time{date(2024, 1, 1), date(2024, 1, 15)}
	now := date(2024, 1, 20)

	p := ComputeCycle(dates, now)
	require.NotNil(t, p)

	assert.Equal(t, 14, p.AverageGapDays)
	assert.Equal(t, 5, p.DaysSinceLast)
	assert.Equal(t, 9, p.DaysUntilNext)
}

func TestComputeCycle_AveragesUnevenGaps(t *testing.T) {
	// Gaps of 10, 20 and 12 days average to 14.
	dates := []time.Time{
		date(2024, 2, 1),
		date(2024, 2, 11),
		date(2024, 3, 2),
		date(2024, 3, 14),
	}

	p := ComputeCycle(dates, date(2024, 3, 30))
	require.NotNil(t, p)

	assert.Equal(t, 14, p.AverageGapDays)
	assert.Equal(t, 16, p.DaysSinceLast)
	assert.Equal(t, -2, p.DaysUntilNext)
}

func TestComputeCycle_InsufficientHistory(t *testing.T) {
	now := time.Now()

	assert.Nil(t, ComputeCycle(nil, now))
	assert.Nil(t, ComputeCycle([]time.Time{}, now))
	assert.Nil(t, ComputeCycle([]time.Time{date(2024, 1, 1)}, now))
}

func TestDueSoon(t *testing.T) {
	tests := []struct {
		daysUntilNext int
		want          bool
	}{
		{-5, false},
		{-3, true},
		{0, true},
		{3, true},
		{4, false},
	}

	for _, tt := range tests {
		p := &CycleProfile{DaysUntilNext: tt.daysUntilNext}
		assert.Equal(t, tt.want, p.DueSoon(), "daysUntilNext=%d", tt.daysUntilNext)
	}

	var none *CycleProfile
	assert.False(t, none.DueSoon())
}

func TestSuggestComplement(t *testing.T) {
	assert.Equal(t, "bolsas y accesorios que combinen con sus zapatos", SuggestComplement("zapatos"))
	assert.Equal(t, "zapatos del mismo tono que su bolsa", SuggestComplement("bolsas"))
	assert.Equal(t, genericComplement, SuggestComplement("categoria-desconocida"))
	assert.Equal(t, genericComplement, SuggestComplement(""))
}
