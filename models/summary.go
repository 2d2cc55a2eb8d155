package models

// ============================================================================
// DERIVED FIGURES
// Everything in this file is recomputed on every read and never persisted.
// ============================================================================

type BudgetStatus string

const (
	BudgetGood     BudgetStatus = "good"
	BudgetWarning  BudgetStatus = "warning"
	BudgetExceeded BudgetStatus = "exceeded"
)

// DailyTotal is one calendar-day bucket of the daily series.
// Date is the day portion only, formatted as YYYY-MM-DD.
type DailyTotal struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// CategoryTotal is a chart-ready per-category figure; zero-total categories
// are omitted from this list but present in the full breakdown map.
type CategoryTotal struct {
	Category ExpenseCategory `json:"category"`
	Amount   float64         `json:"amount"`
	Count    int             `json:"count"`
}

// TripSummary is the accounting engine's full output for one trip.
//
// RawTotal and CashReconciledTotal are distinct by design. RawTotal is the
// plain sum of every expense amount and is what budget-ceiling checks use.
// CashReconciledTotal folds in a manual cash re-anchor (non-cash expenses
// plus initialCash minus remainingCash) and is what "what did this trip
// actually cost me" views use. They agree only while the cash override is
// consistent with the logged cash expenses.
type TripSummary struct {
	Trip     Trip      `json:"trip"`
	Expenses []Expense `json:"expenses"`

	TotalExpenses      float64                     `json:"total_expenses"`
	ExpensesByCategory map[ExpenseCategory]float64 `json:"expenses_by_category"`
	CategoryTotals     []CategoryTotal             `json:"category_totals"`
	DailyExpenses      []DailyTotal                `json:"daily_expenses"`

	// RemainingBudget is initialBudget − totalExpenses for fixed budgets;
	// negative means over budget. For open budgets it is pinned to 0 as a
	// sentinel — gate on Trip.IsOpenBudget, do not trust the number.
	RemainingBudget float64      `json:"remaining_budget"`
	BudgetStatus    BudgetStatus `json:"budget_status"`

	// Cash ledger — independent of the budget ceiling. Cash expenses count
	// fully against both.
	CashSpent     float64 `json:"cash_spent"`
	RemainingCash float64 `json:"remaining_cash"`

	RawTotal            float64 `json:"raw_total"`
	CashReconciledTotal float64 `json:"cash_reconciled_total"`
}

// TripComparison is one row of the cross-trip analytics view.
type TripComparison struct {
	TripID        string  `json:"trip_id"`
	TripName      string  `json:"trip_name"`
	Destination   string  `json:"destination"`
	TotalExpenses float64 `json:"total_expenses"`
	DurationDays  int     `json:"duration_days"`
	AveragePerDay float64 `json:"average_per_day"`
}
