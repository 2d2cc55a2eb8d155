package repository

import (
	"context"
	"database/sql"
)

// LabelMappingCache stores description-to-category pairs so the AI is asked
// about a given label at most once.
type LabelMappingCache interface {
	Get(ctx context.Context, normalizedLabel string) (string, bool)
	Put(ctx context.Context, normalizedLabel, category, source string) error
}

type pgLabelMappingCache struct {
	db *sql.DB
}

func NewLabelMappingCache(db *sql.DB) LabelMappingCache {
	return &pgLabelMappingCache{db: db}
}

func (c *pgLabelMappingCache) Get(ctx context.Context, normalizedLabel string) (string, bool) {
	var category string
	err := c.db.QueryRowContext(ctx,
		`SELECT category FROM label_mappings WHERE normalized_label = $1`,
		normalizedLabel).Scan(&category)
	if err != nil {
		return "", false
	}
	return category, true
}

func (c *pgLabelMappingCache) Put(ctx context.Context, normalizedLabel, category, source string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO label_mappings (normalized_label, category, source)
		VALUES ($1, $2, $3)
		ON CONFLICT (normalized_label) DO NOTHING
	`, normalizedLabel, category, source)
	return err
}
