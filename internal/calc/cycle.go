package calc

import (
	"math"
	"time"
)

// Product-tuned heuristic thresholds. They have no derivation beyond field
// feedback; keep them named so they can be retuned without touching the
// algorithms.
const (
	// DueSoonWindowDays bounds the window around the expected next purchase
	// in which a client is surfaced as "due soon".
	DueSoonWindowDays = 3
	// IdleNudgeDays is how many days without any sale triggers a nudge.
	IdleNudgeDays = 3
	// DefaultCostRatio is the assumed cost fraction of a sale when the
	// purchase row has no recorded cost price.
	DefaultCostRatio = 0.70
	// ExcellentMarginPct is the markup percentage considered excellent in
	// simulator feedback.
	ExcellentMarginPct = 54.0
)

// CycleProfile describes one client's purchase cadence.
type CycleProfile struct {
	AverageGapDays int
	DaysSinceLast  int
	DaysUntilNext  int
}

// ComputeCycle derives a purchase-cadence profile from a client's purchase
// dates, which must be sorted ascending. With fewer than two dates there is
// nothing to predict and the result is nil. DaysUntilNext is signed: negative
// means the client is overdue for the next expected purchase.
func ComputeCycle(sortedDates []time.Time, now time.Time) *CycleProfile {
	if len(sortedDates) < 2 {
		return nil
	}

	var totalGap float64
	for i := 1; i < len(sortedDates); i++ {
		totalGap += sortedDates[i].Sub(sortedDates[i-1]).Hours() / 24
	}
	avgGap := int(math.Round(totalGap / float64(len(sortedDates)-1)))

	last := sortedDates[len(sortedDates)-1]
	sinceLast := int(math.Floor(now.Sub(last).Hours() / 24))

	return &CycleProfile{
		AverageGapDays: avgGap,
		DaysSinceLast:  sinceLast,
		DaysUntilNext:  avgGap - sinceLast,
	}
}

// DueSoon reports whether the client falls inside the actionable window
// around their expected next purchase.
func (p *CycleProfile) DueSoon() bool {
	return p != nil && p.DaysUntilNext >= -DueSoonWindowDays && p.DaysUntilNext <= DueSoonWindowDays
}

// complements maps a product category to the category usually bought next.
var complements = map[string]string{
	"zapatos":    "bolsas y accesorios que combinen con sus zapatos",
	"bolsas":     "zapatos del mismo tono que su bolsa",
	"sandalias":  "tenis o flats para la temporada de frío",
	"tenis":      "sandalias o zapatillas para ocasiones especiales",
	"zapatillas": "bolsas de vestir para completar el look",
	"botas":      "flats o tenis para el día a día",
	"flats":      "zapatillas o botas para eventos",
	"accesorios": "zapatos de la nueva temporada",
	"caballero":  "productos para dama del catálogo vigente",
	"infantil":   "zapatos para mamá de la línea confort",
}

const genericComplement = "novedades del catálogo de temporada"

// SuggestComplement returns the complementary-category suggestion for the
// client's last purchased category, with a generic fallback for categories
// not in the table.
func SuggestComplement(lastCategory string) string {
	if s, ok := complements[lastCategory]; ok {
		return s
	}
	return genericComplement
}
