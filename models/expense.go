package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ============================================================================
// EXPENSE MODEL
// ============================================================================

// Expense is a single spend event attributed to exactly one trip.
//
// Amount is always expressed in the trip's currency and is the authoritative
// figure for every ledger. OriginalAmount/OriginalCurrency retain the
// pre-conversion input for display only; conversion happens once at write
// time and is never recomputed.
type Expense struct {
	ID               string          `json:"id"`
	TripID           string          `json:"trip_id"`
	Date             time.Time       `json:"date"`
	Category         ExpenseCategory `json:"category"`
	Amount           float64         `json:"amount"`
	OriginalAmount   *float64        `json:"original_amount,omitempty"`
	OriginalCurrency *Currency       `json:"original_currency,omitempty"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	Description      string          `json:"description,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	ReceiptURL       string          `json:"receipt_url,omitempty"`

	// Sharing metadata. When IsShared, Amount is already the per-person
	// share and TotalAmountBeforeSharing keeps the pre-split figure as the
	// editable source of truth.
	IsShared                 bool     `json:"is_shared"`
	NumberOfPeople           int      `json:"number_of_people,omitempty"`
	TotalAmountBeforeSharing *float64 `json:"total_amount_before_sharing,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the expense invariants. Errors wrap ErrMalformed.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.TripID) == "" {
		return fmt.Errorf("%w: expense needs a trip", ErrMalformed)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: expense date is required", ErrMalformed)
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrMalformed, string(e.Category))
	}
	if !e.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrMalformed, string(e.PaymentMethod))
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return fmt.Errorf("%w: amount is not a finite number", ErrMalformed)
	}
	if e.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrMalformed)
	}
	if e.OriginalCurrency != nil && !e.OriginalCurrency.Valid() {
		return fmt.Errorf("%w: unknown original currency %q", ErrMalformed, string(*e.OriginalCurrency))
	}
	if e.IsShared {
		if e.NumberOfPeople < 2 {
			return fmt.Errorf("%w: shared expense needs at least 2 people", ErrMalformed)
		}
		if e.TotalAmountBeforeSharing == nil || *e.TotalAmountBeforeSharing <= 0 {
			return fmt.Errorf("%w: shared expense needs the pre-split total", ErrMalformed)
		}
	}
	return nil
}

// EditableTotal is the figure an edit form shows for this expense: the
// pre-split total for shared expenses, the plain amount otherwise. Re-deriving
// from Amount*NumberOfPeople would be lossy once the person count is re-edited.
func (e Expense) EditableTotal() float64 {
	if e.IsShared && e.TotalAmountBeforeSharing != nil {
		return *e.TotalAmountBeforeSharing
	}
	return e.Amount
}

// ============================================================================
// EXPENSE REQUESTS
// ============================================================================

type CreateExpenseRequest struct {
	Date             time.Time       `json:"date" binding:"required"`
	// Category may be left empty; the server categorizes from Description.
	Category         ExpenseCategory `json:"category"`
	Amount           float64         `json:"amount" binding:"required,gt=0"`
	OriginalCurrency *Currency       `json:"original_currency,omitempty"`
	PaymentMethod    PaymentMethod   `json:"payment_method" binding:"required"`
	Description      string          `json:"description"`
	Notes            string          `json:"notes"`
	ReceiptURL       string          `json:"receipt_url"`
	IsShared         bool            `json:"is_shared"`
	NumberOfPeople   int             `json:"number_of_people"`
}

type UpdateExpenseRequest struct {
	Date           *time.Time       `json:"date,omitempty"`
	Category       *ExpenseCategory `json:"category,omitempty"`
	Amount         *float64         `json:"amount,omitempty"`
	PaymentMethod  *PaymentMethod   `json:"payment_method,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	ReceiptURL     *string          `json:"receipt_url,omitempty"`
	IsShared       *bool            `json:"is_shared,omitempty"`
	NumberOfPeople *int             `json:"number_of_people,omitempty"`
}
