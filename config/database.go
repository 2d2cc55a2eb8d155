package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			totp_secret TEXT,
			totp_enabled BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			refresh_token VARCHAR(500) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS trips (
			id UUID PRIMARY KEY,
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			destinations JSONB NOT NULL DEFAULT '[]',
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP NOT NULL,
			currency VARCHAR(3) NOT NULL,
			initial_budget DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_open_budget BOOLEAN NOT NULL DEFAULT FALSE,
			initial_cash DOUBLE PRECISION NOT NULL DEFAULT 0,
			remaining_cash DOUBLE PRECISION,
			notes TEXT,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			CONSTRAINT trips_date_order CHECK (end_date >= start_date),
			CONSTRAINT trips_budget_nonneg CHECK (initial_budget >= 0),
			CONSTRAINT trips_cash_nonneg CHECK (initial_cash >= 0)
		)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id UUID PRIMARY KEY,
			trip_id UUID REFERENCES trips(id) ON DELETE CASCADE,
			date TIMESTAMP NOT NULL,
			category VARCHAR(30) NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			original_amount DOUBLE PRECISION,
			original_currency VARCHAR(3),
			payment_method VARCHAR(10) NOT NULL,
			description TEXT,
			notes TEXT,
			receipt_url TEXT,
			is_shared BOOLEAN NOT NULL DEFAULT FALSE,
			number_of_people INTEGER,
			total_before_sharing DOUBLE PRECISION,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			CONSTRAINT expenses_amount_positive CHECK (amount > 0)
		)`,

		`CREATE TABLE IF NOT EXISTS label_mappings (
			normalized_label VARCHAR(255) PRIMARY KEY,
			category VARCHAR(30) NOT NULL,
			source VARCHAR(20) NOT NULL DEFAULT 'AI',
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_trips_user_id ON trips(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_trip_id ON expenses(trip_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,

		// Legacy rows from before multi-destination support carried a single
		// destination column; keep it nullable so old dumps still restore.
		`ALTER TABLE trips ADD COLUMN IF NOT EXISTS destination VARCHAR(255)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
