package calc

// MarkupMode selects how the markup value is interpreted.
type MarkupMode string

const (
	MarkupPercent MarkupMode = "percent"
	MarkupAmount  MarkupMode = "amount"
)

// SaleMode selects the payment modality of a simulated sale.
type SaleMode string

const (
	SaleCash   SaleMode = "cash"
	SaleCredit SaleMode = "credit"
)

// Share of the client price that goes to product cost, profit and expenses.
// These are the canonical 3C percentages; per-user stored preferences only
// affect how recorded sales are split, never the simulator output.
const (
	ProductSharePct = 0.65
	ProfitSharePct  = 0.30
	ExpenseSharePct = 0.05
)

// PricingConfig holds the inputs of a price simulation.
type PricingConfig struct {
	BasePrice           float64
	MarkupMode          MarkupMode
	MarkupValue         float64
	SaleMode            SaleMode
	CreditCommissionPct float64
	InstallmentCount    int
}

// Split is the full output of a price simulation.
type Split struct {
	Active                bool    `json:"active"`
	MarkupAmount          float64 `json:"markup_amount"`
	PriceBeforeCommission float64 `json:"price_before_commission"`
	CommissionAmount      float64 `json:"commission_amount"`
	ClientPrice           float64 `json:"client_price"`
	InstallmentAmount     float64 `json:"installment_amount"`
	ProductShare          float64 `json:"product_share"`
	ProfitShare           float64 `json:"profit_share"`
	ExpenseShare          float64 `json:"expense_share"`
}

// ComputeSplit derives the client price and its 3C split from a pricing
// configuration. A zero base price means the simulator is inactive and every
// derived figure is zero. Inputs are assumed non-negative; validation happens
// at the boundary.
func ComputeSplit(cfg PricingConfig) Split {
	if cfg.BasePrice == 0 {
		return Split{}
	}

	markup := cfg.MarkupValue
	if cfg.MarkupMode == MarkupPercent {
		markup = cfg.BasePrice * cfg.MarkupValue / 100
	}
	priceBeforeCommission := cfg.BasePrice + markup

	var commission float64
	if cfg.SaleMode == SaleCredit {
		commission = priceBeforeCommission * cfg.CreditCommissionPct / 100
	}
	clientPrice := priceBeforeCommission + commission

	installment := clientPrice
	if cfg.InstallmentCount > 1 {
		installment = clientPrice / float64(cfg.InstallmentCount)
	}

	return Split{
		Active:                true,
		MarkupAmount:          markup,
		PriceBeforeCommission: priceBeforeCommission,
		CommissionAmount:      commission,
		ClientPrice:           clientPrice,
		InstallmentAmount:     installment,
		ProductShare:          clientPrice * ProductSharePct,
		ProfitShare:           clientPrice * ProfitSharePct,
		ExpenseShare:          clientPrice * ExpenseSharePct,
	}
}

// MarginPct returns the markup as a percentage of the base price.
func (s Split) MarginPct(basePrice float64) float64 {
	if basePrice == 0 {
		return 0
	}
	return s.MarkupAmount / basePrice * 100
}
