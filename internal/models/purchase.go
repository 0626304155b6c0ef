package models

import "time"

// Purchase represents a recorded sale to a client
type Purchase struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	ClientID      int64      `json:"client_id"`
	ProductID     *int64     `json:"product_id,omitempty"`
	Amount        float64    `json:"amount"`
	CostPrice     *float64   `json:"cost_price,omitempty"`
	Category      string     `json:"category,omitempty"`
	PurchaseDate  time.Time  `json:"purchase_date"`
	IsCredit      bool       `json:"is_credit"`
	CreditPaid    bool       `json:"credit_paid"`
	CreditDueDate *time.Time `json:"credit_due_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreditPayment represents a partial payment (abono) against a credit purchase
type CreditPayment struct {
	ID         int64     `json:"id"`
	PurchaseID int64     `json:"purchase_id"`
	Amount     float64   `json:"amount"`
	PaidAt     time.Time `json:"paid_at"`
	CreatedAt  time.Time `json:"created_at"`
}
