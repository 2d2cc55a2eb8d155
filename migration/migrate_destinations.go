package migration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/triptally/triptally-api/models"
)

// MigrateLegacyDestinations backfills the destinations array for trips
// created before multi-destination support, when a trip carried a single
// destination column. Runs at startup and is a no-op once every legacy row
// is converted.
func MigrateLegacyDestinations(db *sql.DB) error {
	rows, err := db.Query(`
		SELECT id, destination
		FROM trips
		WHERE destination IS NOT NULL
		  AND destination <> ''
		  AND (destinations IS NULL OR destinations = '[]'::jsonb)
	`)
	if err != nil {
		return fmt.Errorf("failed to scan legacy trips: %w", err)
	}
	defer rows.Close()

	type legacyTrip struct {
		id          string
		destination string
	}

	var pending []legacyTrip
	for rows.Next() {
		var t legacyTrip
		if err := rows.Scan(&t.id, &t.destination); err != nil {
			return fmt.Errorf("failed to scan legacy trip: %w", err)
		}
		pending = append(pending, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(pending) == 0 {
		return nil
	}

	migrated := 0
	for _, t := range pending {
		destinations, err := json.Marshal([]models.Destination{{Name: t.destination}})
		if err != nil {
			return err
		}

		_, err = db.Exec(`
			UPDATE trips
			SET destinations = $1, destination = NULL, updated_at = NOW()
			WHERE id = $2
		`, destinations, t.id)
		if err != nil {
			return fmt.Errorf("failed to migrate trip %s: %w", t.id, err)
		}
		migrated++
	}

	log.Printf("Migrated %d legacy trips to multi-destination format", migrated)
	return nil
}
