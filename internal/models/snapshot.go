package models

import "time"

// WeeklySnapshot represents a per-week finance summary, keyed by
// (user, week_start) and replaced on re-save
type WeeklySnapshot struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	WeekStart    time.Time `json:"week_start"`
	SalesTotal   float64   `json:"sales_total"`
	ProfitTotal  float64   `json:"profit_total"`
	SavingsTotal float64   `json:"savings_total"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
