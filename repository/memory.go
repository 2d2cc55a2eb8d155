package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/triptally/triptally-api/models"
)

// ============================================================================
// IN-MEMORY IMPLEMENTATIONS
// Used by handler and engine tests as consistent-snapshot fixtures. Same
// contract as the Postgres implementations, including cascade on trip delete.
// ============================================================================

type MemoryTripRepository struct {
	mu       sync.RWMutex
	trips    map[string]models.Trip
	expenses *MemoryExpenseRepository // for cascade delete; may be nil
}

func NewMemoryTripRepository(expenses *MemoryExpenseRepository) *MemoryTripRepository {
	return &MemoryTripRepository{
		trips:    make(map[string]models.Trip),
		expenses: expenses,
	}
}

func (r *MemoryTripRepository) ListByUser(_ context.Context, userID string) ([]models.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trips := []models.Trip{}
	for _, t := range r.trips {
		if t.UserID == userID {
			trips = append(trips, t)
		}
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].StartDate.After(trips[j].StartDate) })
	return trips, nil
}

func (r *MemoryTripRepository) GetByID(_ context.Context, userID, tripID string) (models.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[tripID]
	if !ok || t.UserID != userID {
		return models.Trip{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryTripRepository) Create(_ context.Context, trip models.Trip) (models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	trip.CreatedAt = now
	trip.UpdatedAt = now
	r.trips[trip.ID] = trip
	return trip, nil
}

func (r *MemoryTripRepository) Update(_ context.Context, trip models.Trip) (models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.trips[trip.ID]
	if !ok || existing.UserID != trip.UserID {
		return models.Trip{}, ErrNotFound
	}
	trip.CreatedAt = existing.CreatedAt
	trip.UpdatedAt = time.Now().UTC()
	r.trips[trip.ID] = trip
	return trip, nil
}

func (r *MemoryTripRepository) UpdateCash(_ context.Context, userID, tripID string, remaining *float64) (models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[tripID]
	if !ok || t.UserID != userID {
		return models.Trip{}, ErrNotFound
	}
	t.RemainingCash = remaining
	t.UpdatedAt = time.Now().UTC()
	r.trips[tripID] = t
	return t, nil
}

func (r *MemoryTripRepository) Delete(_ context.Context, userID, tripID string) error {
	r.mu.Lock()
	t, ok := r.trips[tripID]
	if !ok || t.UserID != userID {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.trips, tripID)
	r.mu.Unlock()

	if r.expenses != nil {
		r.expenses.deleteByTrip(tripID)
	}
	return nil
}

type MemoryExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]models.Expense
}

func NewMemoryExpenseRepository() *MemoryExpenseRepository {
	return &MemoryExpenseRepository{expenses: make(map[string]models.Expense)}
}

func (r *MemoryExpenseRepository) ListByTrip(_ context.Context, tripID string) ([]models.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	expenses := []models.Expense{}
	for _, e := range r.expenses {
		if e.TripID == tripID {
			expenses = append(expenses, e)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Date.After(expenses[j].Date) })
	return expenses, nil
}

func (r *MemoryExpenseRepository) GetByID(_ context.Context, tripID, expenseID string) (models.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.expenses[expenseID]
	if !ok || e.TripID != tripID {
		return models.Expense{}, ErrNotFound
	}
	return e, nil
}

func (r *MemoryExpenseRepository) Create(_ context.Context, expense models.Expense) (models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now
	r.expenses[expense.ID] = expense
	return expense, nil
}

func (r *MemoryExpenseRepository) Update(_ context.Context, expense models.Expense) (models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.expenses[expense.ID]
	if !ok || existing.TripID != expense.TripID {
		return models.Expense{}, ErrNotFound
	}
	expense.CreatedAt = existing.CreatedAt
	expense.UpdatedAt = time.Now().UTC()
	r.expenses[expense.ID] = expense
	return expense, nil
}

func (r *MemoryExpenseRepository) Delete(_ context.Context, tripID, expenseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.expenses[expenseID]
	if !ok || e.TripID != tripID {
		return ErrNotFound
	}
	delete(r.expenses, expenseID)
	return nil
}

func (r *MemoryExpenseRepository) deleteByTrip(tripID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.expenses {
		if e.TripID == tripID {
			delete(r.expenses, id)
		}
	}
}
