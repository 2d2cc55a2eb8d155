package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/triptally/triptally-api/models"
)

// ============================================================================
// BUDGET / CASH ACCOUNTING ENGINE
//
// Pure derivation of every figure the views consume: totals, category
// breakdown, daily series, budget status, and both cash-ledger figures.
// No I/O, no caching — callers recompute after every write. The budget
// ceiling and the cash ledger are two independent ledgers over the same
// expense set: a cash purchase counts fully against the fixed budget AND
// reduces the cash balance. Collapsing them into one ledger would be a
// correctness regression.
// ============================================================================

// warningThreshold is the fraction of the budget at which a fixed-budget
// trip flips from good to warning.
const warningThreshold = 0.8

// Summarize computes the full TripSummary for one trip and the expenses that
// belong to it. It assumes well-formed input; malformed input (missing budget
// on a fixed-budget trip, non-finite amounts, a foreign expense) yields an
// error wrapping models.ErrMalformed rather than a defaulted figure.
func Summarize(trip models.Trip, expenses []models.Expense) (models.TripSummary, error) {
	if !trip.IsOpenBudget && trip.InitialBudget <= 0 {
		// Treating a missing budget as zero would classify every trip as
		// permanently exceeded.
		return models.TripSummary{}, fmt.Errorf("%w: trip %s has a fixed budget of %v", models.ErrMalformed, trip.ID, trip.InitialBudget)
	}

	var total, cashSpent, nonCash float64
	byCategory := make(map[models.ExpenseCategory]float64, len(models.ExpenseCategories))
	counts := make(map[models.ExpenseCategory]int)
	daily := make(map[string]float64)

	for _, cat := range models.ExpenseCategories {
		byCategory[cat] = 0
	}

	for _, e := range expenses {
		if e.TripID != trip.ID {
			return models.TripSummary{}, fmt.Errorf("%w: expense %s belongs to trip %s, not %s", models.ErrMalformed, e.ID, e.TripID, trip.ID)
		}
		if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
			return models.TripSummary{}, fmt.Errorf("%w: expense %s has a non-finite amount", models.ErrMalformed, e.ID)
		}

		total += e.Amount
		byCategory[e.Category] += e.Amount
		counts[e.Category]++
		// Bucket by calendar day, not timestamp.
		daily[e.Date.Format("2006-01-02")] += e.Amount

		if e.PaymentMethod == models.PaymentCash {
			cashSpent += e.Amount
		} else {
			nonCash += e.Amount
		}
	}

	categoryTotals := make([]models.CategoryTotal, 0, len(models.ExpenseCategories))
	for _, cat := range models.ExpenseCategories {
		if byCategory[cat] == 0 {
			continue
		}
		categoryTotals = append(categoryTotals, models.CategoryTotal{
			Category: cat,
			Amount:   byCategory[cat],
			Count:    counts[cat],
		})
	}

	dailyTotals := make([]models.DailyTotal, 0, len(daily))
	for day, amount := range daily {
		dailyTotals = append(dailyTotals, models.DailyTotal{Date: day, Amount: amount})
	}
	sort.Slice(dailyTotals, func(i, j int) bool { return dailyTotals[i].Date < dailyTotals[j].Date })

	remainingBudget := 0.0
	status := models.BudgetGood
	if !trip.IsOpenBudget {
		remainingBudget = trip.InitialBudget - total
		status = budgetStatus(total, trip.InitialBudget)
	}

	remainingCash := RemainingCash(trip, cashSpent)

	return models.TripSummary{
		Trip:               trip,
		Expenses:           expenses,
		TotalExpenses:      total,
		ExpensesByCategory: byCategory,
		CategoryTotals:     categoryTotals,
		DailyExpenses:      dailyTotals,
		RemainingBudget:    remainingBudget,
		BudgetStatus:       status,
		CashSpent:          cashSpent,
		RemainingCash:      remainingCash,
		RawTotal:           total,
		// Non-cash spend plus reconciled cash spend. Matches RawTotal only
		// while the cash override agrees with the logged cash expenses.
		CashReconciledTotal: nonCash + (trip.InitialCash - remainingCash),
	}, nil
}

// budgetStatus classifies spend against a fixed budget ceiling.
func budgetStatus(spent, budget float64) models.BudgetStatus {
	switch {
	case spent >= budget:
		return models.BudgetExceeded
	case spent >= budget*warningThreshold:
		return models.BudgetWarning
	default:
		return models.BudgetGood
	}
}

// RemainingCash resolves the cash balance: the manual override when present
// (authoritative, e.g. after a physical cash count), otherwise derived from
// the cash-tagged spend.
func RemainingCash(trip models.Trip, cashSpent float64) float64 {
	if trip.RemainingCash != nil {
		return *trip.RemainingCash
	}
	return trip.InitialCash - cashSpent
}

// ActualCashSpent backs the manual cash-update flow: given what the user
// counted as left, how much cash was actually spent. It re-anchors the cash
// ledger without touching any expense record.
func ActualCashSpent(trip models.Trip, remaining float64) float64 {
	return trip.InitialCash - remaining
}

// SplitShared returns the per-person share of a shared purchase. The stored
// expense amount is this share; the pre-split total is retained on the record
// and rounded only at display time. people < 2 is a caller error.
func SplitShared(total float64, people int) (float64, error) {
	if people < 2 {
		return 0, fmt.Errorf("%w: shared expense needs at least 2 people, got %d", models.ErrMalformed, people)
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return 0, fmt.Errorf("%w: shared total must be a positive finite number", models.ErrMalformed)
	}
	return total / float64(people), nil
}

// Compare derives the cross-trip analytics rows from already-computed
// summaries. Ordering follows the input.
func Compare(summaries []models.TripSummary) []models.TripComparison {
	out := make([]models.TripComparison, 0, len(summaries))
	for _, s := range summaries {
		days := s.Trip.DurationDays()
		avg := 0.0
		if days > 0 {
			avg = s.TotalExpenses / float64(days)
		}
		dest := ""
		if len(s.Trip.Destinations) > 0 {
			dest = s.Trip.Destinations[0].Name
		}
		out = append(out, models.TripComparison{
			TripID:        s.Trip.ID,
			TripName:      s.Trip.Name,
			Destination:   dest,
			TotalExpenses: s.TotalExpenses,
			DurationDays:  days,
			AveragePerDay: avg,
		})
	}
	return out
}
