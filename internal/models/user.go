package models

// User represents a socia account in the system
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // Not serialized
	CreatedAt    string `json:"created_at"`
}

// SplitPreferences holds the per-user percentage configuration applied when
// recording sales. PctReposicion + PctGanancia must not exceed 100; the
// remainder is the expense share. PctAhorro is the savings percentage fed to
// the budget allocator.
type SplitPreferences struct {
	PctReposicion float64 `json:"pct_reposicion"`
	PctGanancia   float64 `json:"pct_ganancia"`
	PctAhorro     float64 `json:"pct_ahorro"`
}

// PctGasto returns the expense share implied by the other two percentages.
func (p SplitPreferences) PctGasto() float64 {
	return 100 - p.PctReposicion - p.PctGanancia
}
