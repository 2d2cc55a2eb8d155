package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/triptally/triptally-api/models"
)

// ExpenseRepository is the persistence port for expenses. Expenses are always
// accessed through their owning trip; the trip's ownership check happens in
// the handler before any call lands here.
type ExpenseRepository interface {
	ListByTrip(ctx context.Context, tripID string) ([]models.Expense, error)
	GetByID(ctx context.Context, tripID, expenseID string) (models.Expense, error)
	Create(ctx context.Context, expense models.Expense) (models.Expense, error)
	Update(ctx context.Context, expense models.Expense) (models.Expense, error)
	Delete(ctx context.Context, tripID, expenseID string) error
}

type pgExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) ExpenseRepository {
	return &pgExpenseRepository{db: db}
}

const expenseColumns = `id, trip_id, date, category, amount, original_amount, original_currency,
	payment_method, description, notes, receipt_url, is_shared, number_of_people,
	total_before_sharing, created_at, updated_at`

func (r *pgExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]models.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE trip_id = $1
		ORDER BY date DESC, created_at DESC
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("list expenses: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *pgExpenseRepository) GetByID(ctx context.Context, tripID, expenseID string) (models.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE id = $1 AND trip_id = $2
	`, expenseID, tripID)

	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return models.Expense{}, ErrNotFound
	}
	if err != nil {
		return models.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *pgExpenseRepository) Create(ctx context.Context, expense models.Expense) (models.Expense, error) {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now

	var origCurrency *string
	if expense.OriginalCurrency != nil {
		s := string(*expense.OriginalCurrency)
		origCurrency = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, trip_id, date, category, amount, original_amount, original_currency,
			payment_method, description, notes, receipt_url, is_shared, number_of_people,
			total_before_sharing, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, expense.ID, expense.TripID, expense.Date, string(expense.Category), expense.Amount,
		expense.OriginalAmount, origCurrency, string(expense.PaymentMethod),
		expense.Description, expense.Notes, expense.ReceiptURL,
		expense.IsShared, expense.NumberOfPeople, expense.TotalAmountBeforeSharing,
		expense.CreatedAt, expense.UpdatedAt)
	if err != nil {
		return models.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return expense, nil
}

func (r *pgExpenseRepository) Update(ctx context.Context, expense models.Expense) (models.Expense, error) {
	expense.UpdatedAt = time.Now().UTC()

	var origCurrency *string
	if expense.OriginalCurrency != nil {
		s := string(*expense.OriginalCurrency)
		origCurrency = &s
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET date = $1, category = $2, amount = $3, original_amount = $4, original_currency = $5,
		    payment_method = $6, description = $7, notes = $8, receipt_url = $9,
		    is_shared = $10, number_of_people = $11, total_before_sharing = $12, updated_at = $13
		WHERE id = $14 AND trip_id = $15
	`, expense.Date, string(expense.Category), expense.Amount, expense.OriginalAmount, origCurrency,
		string(expense.PaymentMethod), expense.Description, expense.Notes, expense.ReceiptURL,
		expense.IsShared, expense.NumberOfPeople, expense.TotalAmountBeforeSharing, expense.UpdatedAt,
		expense.ID, expense.TripID)
	if err != nil {
		return models.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.Expense{}, ErrNotFound
	}
	return expense, nil
}

func (r *pgExpenseRepository) Delete(ctx context.Context, tripID, expenseID string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM expenses WHERE id = $1 AND trip_id = $2
	`, expenseID, tripID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanExpense(row rowScanner) (models.Expense, error) {
	var (
		e            models.Expense
		category     string
		method       string
		origCurrency sql.NullString
		description  sql.NullString
		notes        sql.NullString
		receiptURL   sql.NullString
		people       sql.NullInt64
	)
	err := row.Scan(&e.ID, &e.TripID, &e.Date, &category, &e.Amount,
		&e.OriginalAmount, &origCurrency, &method, &description, &notes, &receiptURL,
		&e.IsShared, &people, &e.TotalAmountBeforeSharing, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.Expense{}, err
	}
	e.Category = models.ExpenseCategory(category)
	e.PaymentMethod = models.PaymentMethod(method)
	e.Description = description.String
	e.Notes = notes.String
	e.ReceiptURL = receiptURL.String
	e.NumberOfPeople = int(people.Int64)
	if origCurrency.Valid {
		c := models.Currency(origCurrency.String)
		e.OriginalCurrency = &c
	}
	return e, nil
}
