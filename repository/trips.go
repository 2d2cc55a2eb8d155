package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/triptally/triptally-api/models"
	"github.com/triptally/triptally-api/utils"
)

// TripRepository is the persistence port for trips. The accounting engine and
// the handlers depend on this interface, never on ambient state, so both are
// testable with the in-memory implementation.
type TripRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Trip, error)
	GetByID(ctx context.Context, userID, tripID string) (models.Trip, error)
	Create(ctx context.Context, trip models.Trip) (models.Trip, error)
	Update(ctx context.Context, trip models.Trip) (models.Trip, error)
	// UpdateCash sets (or clears, with nil) the manual remaining-cash override.
	UpdateCash(ctx context.Context, userID, tripID string, remaining *float64) (models.Trip, error)
	// Delete removes the trip and every expense referencing it, atomically.
	Delete(ctx context.Context, userID, tripID string) error
}

type pgTripRepository struct {
	db *sql.DB
}

func NewTripRepository(db *sql.DB) TripRepository {
	return &pgTripRepository{db: db}
}

const tripColumns = `id, user_id, name, destinations, start_date, end_date, currency,
	initial_budget, is_open_budget, initial_cash, remaining_cash, notes, created_at, updated_at`

func (r *pgTripRepository) ListByUser(ctx context.Context, userID string) ([]models.Trip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE user_id = $1
		ORDER BY start_date DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	trips := []models.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list trips: %w", err)
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

func (r *pgTripRepository) GetByID(ctx context.Context, userID, tripID string) (models.Trip, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE id = $1 AND user_id = $2
	`, tripID, userID)

	trip, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return models.Trip{}, ErrNotFound
	}
	if err != nil {
		return models.Trip{}, fmt.Errorf("get trip: %w", err)
	}
	return trip, nil
}

func (r *pgTripRepository) Create(ctx context.Context, trip models.Trip) (models.Trip, error) {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	dests, err := json.Marshal(trip.Destinations)
	if err != nil {
		return models.Trip{}, fmt.Errorf("create trip: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO trips (id, user_id, name, destinations, start_date, end_date, currency,
			initial_budget, is_open_budget, initial_cash, remaining_cash, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, trip.ID, trip.UserID, trip.Name, dests, trip.StartDate, trip.EndDate, string(trip.Currency),
		trip.InitialBudget, trip.IsOpenBudget, trip.InitialCash, trip.RemainingCash, trip.Notes,
		trip.CreatedAt, trip.UpdatedAt)
	if err != nil {
		return models.Trip{}, fmt.Errorf("create trip: %w", err)
	}
	return trip, nil
}

func (r *pgTripRepository) Update(ctx context.Context, trip models.Trip) (models.Trip, error) {
	trip.UpdatedAt = time.Now().UTC()

	dests, err := json.Marshal(trip.Destinations)
	if err != nil {
		return models.Trip{}, fmt.Errorf("update trip: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE trips
		SET name = $1, destinations = $2, start_date = $3, end_date = $4,
		    initial_budget = $5, is_open_budget = $6, initial_cash = $7,
		    remaining_cash = $8, notes = $9, updated_at = $10
		WHERE id = $11 AND user_id = $12
	`, trip.Name, dests, trip.StartDate, trip.EndDate,
		trip.InitialBudget, trip.IsOpenBudget, trip.InitialCash,
		trip.RemainingCash, trip.Notes, trip.UpdatedAt,
		trip.ID, trip.UserID)
	if err != nil {
		return models.Trip{}, fmt.Errorf("update trip: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.Trip{}, ErrNotFound
	}
	return trip, nil
}

func (r *pgTripRepository) UpdateCash(ctx context.Context, userID, tripID string, remaining *float64) (models.Trip, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE trips
		SET remaining_cash = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`, remaining, time.Now().UTC(), tripID, userID)
	if err != nil {
		return models.Trip{}, fmt.Errorf("update trip cash: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.Trip{}, ErrNotFound
	}
	return r.GetByID(ctx, userID, tripID)
}

func (r *pgTripRepository) Delete(ctx context.Context, userID, tripID string) error {
	// The expenses FK also cascades at the schema level; deleting both sides
	// in one transaction keeps the behavior independent of the schema.
	return utils.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE trip_id = $1`, tripID); err != nil {
			return fmt.Errorf("delete trip expenses: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE id = $1 AND user_id = $2`, tripID, userID)
		if err != nil {
			return fmt.Errorf("delete trip: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (models.Trip, error) {
	var (
		trip     models.Trip
		dests    []byte
		currency string
		notes    sql.NullString
	)
	err := row.Scan(&trip.ID, &trip.UserID, &trip.Name, &dests, &trip.StartDate, &trip.EndDate,
		&currency, &trip.InitialBudget, &trip.IsOpenBudget, &trip.InitialCash,
		&trip.RemainingCash, &notes, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return models.Trip{}, err
	}
	trip.Currency = models.Currency(currency)
	trip.Notes = notes.String
	if len(dests) > 0 {
		if err := json.Unmarshal(dests, &trip.Destinations); err != nil {
			return models.Trip{}, fmt.Errorf("decode destinations: %w", err)
		}
	}
	return trip, nil
}
