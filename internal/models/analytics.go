package models

import "github.com/retoapp/socia-service/internal/calc"

// SalesStats represents aggregate sales and profit figures
type SalesStats struct {
	SalesTotal      float64 `json:"sales_total"`
	ProfitTotal     float64 `json:"profit_total"`
	PurchaseCount   int     `json:"purchase_count"`
	PendingCobranza float64 `json:"pending_cobranza"`
}

// CobranzaEntry represents an outstanding credit purchase with its balance
type CobranzaEntry struct {
	Purchase   Purchase `json:"purchase"`
	ClientName string   `json:"client_name"`
	PaidAmount float64  `json:"paid_amount"`
	Balance    float64  `json:"balance"`
	Overdue    bool     `json:"overdue"`
}

// ClientCycleView represents a client's purchase cadence plus the cross-sell
// suggestion derived from their last purchase
type ClientCycleView struct {
	ClientID       int64  `json:"client_id"`
	ClientName     string `json:"client_name"`
	AverageGapDays int    `json:"average_gap_days"`
	DaysSinceLast  int    `json:"days_since_last"`
	DaysUntilNext  int    `json:"days_until_next"`
	DueSoon        bool   `json:"due_soon"`
	LastCategory   string `json:"last_category,omitempty"`
	Suggestion     string `json:"suggestion"`
}

// GoalProgressView represents goal progress with the required pace per period
type GoalProgressView struct {
	TargetAmount    float64         `json:"target_amount"`
	CurrentAmount   float64         `json:"current_amount"`
	Percentage      int             `json:"percentage"`
	AmountRemaining float64         `json:"amount_remaining"`
	DaysRemaining   int             `json:"days_remaining"`
	Status          calc.GoalStatus `json:"status"`
	PacePerDay      float64         `json:"pace_per_day"`
	PacePerWeek     float64         `json:"pace_per_week"`
	PacePerMonth    float64         `json:"pace_per_month"`
}

// DashboardSummary represents the figures shown on the home screen
type DashboardSummary struct {
	Stats             SalesStats        `json:"stats"`
	Goal              *GoalProgressView `json:"goal,omitempty"`
	DueSoonClients    []ClientCycleView `json:"due_soon_clients"`
	DaysSinceLastSale *int              `json:"days_since_last_sale,omitempty"`
	NeedsSalesNudge   bool              `json:"needs_sales_nudge"`
}
