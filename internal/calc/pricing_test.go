package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSplit_CashPercentMarkup(t *testing.T) {
	split := ComputeSplit(PricingConfig{
		BasePrice:   850,
		MarkupMode:  MarkupPercent,
		MarkupValue: 54,
		SaleMode:    SaleCash,
	})

	assert.True(t, split.Active)
	assert.InDelta(t, 459, split.MarkupAmount, 1e-9)
	assert.InDelta(t, 1309, split.PriceBeforeCommission, 1e-9)
	assert.InDelta(t, 1309, split.ClientPrice, 1e-9)
	assert.Zero(t, split.CommissionAmount)
	assert.InDelta(t, 850.85, split.ProductShare, 1e-6)
	assert.InDelta(t, 392.7, split.ProfitShare, 1e-6)
	assert.InDelta(t, 65.45, split.ExpenseShare, 1e-6)
}

func TestComputeSplit_CreditCommissionAndInstallments(t *testing.T) {
	split := ComputeSplit(PricingConfig{
		BasePrice:           1000,
		MarkupMode:          MarkupPercent,
		MarkupValue:         0,
		SaleMode:            SaleCredit,
		CreditCommissionPct: 10,
		InstallmentCount:    3,
	})

	assert.InDelta(t, 1000, split.PriceBeforeCommission, 1e-9)
	assert.InDelta(t, 100, split.CommissionAmount, 1e-9)
	assert.InDelta(t, 1100, split.ClientPrice, 1e-9)
	assert.InDelta(t, 366.666666, split.InstallmentAmount, 1e-4)
}

func TestComputeSplit_FixedMarkupAmount(t *testing.T) {
	split := ComputeSplit(PricingConfig{
		BasePrice:   500,
		MarkupMode:  MarkupAmount,
		MarkupValue: 150,
		SaleMode:    SaleCash,
	})

	assert.InDelta(t, 150, split.MarkupAmount, 1e-9)
	assert.InDelta(t, 650, split.ClientPrice, 1e-9)
	assert.InDelta(t, 650, split.InstallmentAmount, 1e-9)
}

func TestComputeSplit_ZeroBasePriceIsInactive(t *testing.T) {
	split := ComputeSplit(PricingConfig{
		BasePrice:   0,
		MarkupMode:  MarkupPercent,
		MarkupValue: 54,
		SaleMode:    SaleCredit,
	})

	assert.False(t, split.Active)
	assert.Zero(t, split.ClientPrice)
	assert.Zero(t, split.ProductShare)
}

func TestComputeSplit_SharesSumToClientPrice(t *testing.T) {
	tests := []struct {
		name string
		cfg  PricingConfig
	}{
		{"small cash", PricingConfig{BasePrice: 1, MarkupMode: MarkupPercent, MarkupValue: 0, SaleMode: SaleCash}},
		{"typical cash", PricingConfig{BasePrice: 850, MarkupMode: MarkupPercent, MarkupValue: 54, SaleMode: SaleCash}},
		{"fixed markup", PricingConfig{BasePrice: 1200, MarkupMode: MarkupAmount, MarkupValue: 333.33, SaleMode: SaleCash}},
		{"credit with commission", PricingConfig{BasePrice: 999.99, MarkupMode: MarkupPercent, MarkupValue: 40, SaleMode: SaleCredit, CreditCommissionPct: 12.5, InstallmentCount: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := ComputeSplit(tt.cfg)
			sum := split.ProductShare + split.ProfitShare + split.ExpenseShare
			assert.InDelta(t, split.ClientPrice, sum, 1e-6)
			assert.GreaterOrEqual(t, split.ClientPrice, tt.cfg.BasePrice)
		})
	}
}

func TestMarginPct(t *testing.T) {
	split := ComputeSplit(PricingConfig{BasePrice: 850, MarkupMode: MarkupPercent, MarkupValue: 54, SaleMode: SaleCash})
	assert.InDelta(t, 54, split.MarginPct(850), 1e-9)
	assert.Zero(t, split.MarginPct(0))
}
