package calc

import (
	"math"
	"time"
)

// GoalStatus is a qualitative band over goal completion, used to pick
// motivational copy in the presentation layer.
type GoalStatus string

const (
	StatusComplete    GoalStatus = "complete"
	StatusNear        GoalStatus = "near"
	StatusHalfwayPlus GoalStatus = "halfway-plus"
	StatusStarted     GoalStatus = "started"
	StatusEarly       GoalStatus = "early"
)

// Progress describes how far along a monetary goal is.
type Progress struct {
	Percentage      int
	AmountRemaining float64
	DaysRemaining   int
	Status          GoalStatus
}

// ComputeProgress derives goal progress from the amount saved so far, the
// target and an optional deadline. A zero or negative target means no goal is
// configured and the percentage short-circuits to 0. DaysRemaining is signed:
// negative means the deadline already passed. With no deadline it is 0.
func ComputeProgress(current, target float64, deadline *time.Time, now time.Time) Progress {
	var pct int
	if target > 0 {
		pct = int(math.Round(current / target * 100))
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
	}

	remaining := target - current
	if remaining < 0 {
		remaining = 0
	}

	var days int
	if deadline != nil {
		days = int(math.Floor(deadline.Sub(now).Hours() / 24))
	}

	return Progress{
		Percentage:      pct,
		AmountRemaining: remaining,
		DaysRemaining:   days,
		Status:          StatusFor(pct),
	}
}

// RequiredPace returns how much must be saved per period of the given length
// to close the remaining amount. The denominator is floored at one day.
func RequiredPace(amountRemaining float64, periodLengthDays int) float64 {
	if periodLengthDays < 1 {
		periodLengthDays = 1
	}
	return amountRemaining / float64(periodLengthDays)
}

// StatusFor maps a completion percentage into its qualitative band. The bands
// are inclusive on their lower bound and partition [0,100].
func StatusFor(pct int) GoalStatus {
	switch {
	case pct >= 100:
		return StatusComplete
	case pct >= 76:
		return StatusNear
	case pct >= 51:
		return StatusHalfwayPlus
	case pct >= 26:
		return StatusStarted
	default:
		return StatusEarly
	}
}
