package models

import "time"

// Goal represents the active savings goal of a socia. There is at most one
// per user; saving again replaces it.
type Goal struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	TargetAmount float64    `json:"target_amount"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
