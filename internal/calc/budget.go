package calc

// Needs and wants keep a fixed 5:3 ratio over whatever is left after savings
// is carved out first. This is a 50/30/20 budgeting rule rescaled to the
// non-savings remainder.
const (
	needsShareOfRemainder = 0.625
	wantsShareOfRemainder = 0.375
)

// BudgetSplit is the needs/wants/savings allocation of a profit amount.
type BudgetSplit struct {
	Needs   float64 `json:"needs"`
	Wants   float64 `json:"wants"`
	Savings float64 `json:"savings"`
}

// ComputeBudgetSplit allocates a profit share into needs, wants and savings.
// savingsPct is expected in [0,100]; profit is expected non-negative.
func ComputeBudgetSplit(profit, savingsPct float64) BudgetSplit {
	remainderPct := 100 - savingsPct
	return BudgetSplit{
		Needs:   profit * remainderPct * needsShareOfRemainder / 100,
		Wants:   profit * remainderPct * wantsShareOfRemainder / 100,
		Savings: profit * savingsPct / 100,
	}
}
