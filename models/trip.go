package models

import (
	"fmt"
	"strings"
	"time"
)

// ============================================================================
// TRIP MODEL
// ============================================================================

// Destination is one place visited during a trip. Country and Flag are filled
// by the country lookup service when resolvable.
type Destination struct {
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Flag    string `json:"flag,omitempty"`
}

type Trip struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	Name          string        `json:"name"`
	Destinations  []Destination `json:"destinations"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       time.Time     `json:"end_date"`
	Currency      Currency      `json:"currency"`
	InitialBudget float64       `json:"initial_budget"`
	IsOpenBudget  bool          `json:"is_open_budget"`
	InitialCash   float64       `json:"initial_cash"`
	// RemainingCash is the manual override set via the cash-update flow.
	// When nil, remaining cash is derived from cash-tagged expenses.
	RemainingCash *float64  `json:"remaining_cash,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DurationDays returns the trip length as a count of calendar days,
// inclusive of both endpoints.
func (t Trip) DurationDays() int {
	start := t.StartDate.Truncate(24 * time.Hour)
	end := t.EndDate.Truncate(24 * time.Hour)
	return int(end.Sub(start).Hours()/24) + 1
}

// Validate checks the trip invariants. Errors wrap ErrMalformed.
func (t Trip) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: trip name is required", ErrMalformed)
	}
	if len(t.Destinations) == 0 {
		return fmt.Errorf("%w: at least one destination is required", ErrMalformed)
	}
	for _, d := range t.Destinations {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("%w: destination name is required", ErrMalformed)
		}
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrMalformed)
	}
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("%w: end date is before start date", ErrMalformed)
	}
	if !t.Currency.Valid() {
		return fmt.Errorf("%w: unknown currency %q", ErrMalformed, string(t.Currency))
	}
	if t.InitialBudget < 0 {
		return fmt.Errorf("%w: initial budget cannot be negative", ErrMalformed)
	}
	if !t.IsOpenBudget && t.InitialBudget <= 0 {
		return fmt.Errorf("%w: fixed-budget trip needs a positive initial budget", ErrMalformed)
	}
	if t.InitialCash < 0 {
		return fmt.Errorf("%w: initial cash cannot be negative", ErrMalformed)
	}
	if t.RemainingCash != nil && *t.RemainingCash < 0 {
		return fmt.Errorf("%w: remaining cash cannot be negative", ErrMalformed)
	}
	return nil
}

// ============================================================================
// TRIP REQUESTS
// ============================================================================

type CreateTripRequest struct {
	Name          string        `json:"name" binding:"required"`
	Destinations  []Destination `json:"destinations" binding:"required,min=1"`
	StartDate     time.Time     `json:"start_date" binding:"required"`
	EndDate       time.Time     `json:"end_date" binding:"required"`
	Currency      Currency      `json:"currency" binding:"required"`
	InitialBudget float64       `json:"initial_budget"`
	IsOpenBudget  bool          `json:"is_open_budget"`
	InitialCash   float64       `json:"initial_cash"`
	Notes         string        `json:"notes"`
}

// UpdateTripRequest carries a partial update; nil fields are left untouched.
// Currency is deliberately absent: it is immutable once set, because changing
// it would not retroactively convert stored expense amounts.
type UpdateTripRequest struct {
	Name          *string        `json:"name,omitempty"`
	Destinations  []Destination  `json:"destinations,omitempty"`
	StartDate     *time.Time     `json:"start_date,omitempty"`
	EndDate       *time.Time     `json:"end_date,omitempty"`
	InitialBudget *float64       `json:"initial_budget,omitempty"`
	IsOpenBudget  *bool          `json:"is_open_budget,omitempty"`
	InitialCash   *float64       `json:"initial_cash,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
}

// UpdateCashRequest re-anchors the cash ledger after a physical cash count.
// An explicit null clears the override and returns the ledger to the figure
// derived from cash-tagged expenses.
type UpdateCashRequest struct {
	RemainingCash *float64 `json:"remaining_cash"`
}
