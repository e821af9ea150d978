package store

import (
	"context"
	"fmt"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

// ListContent returns the static game-content rows for one kind
// (cards, relics or events), ordered by id for stable output.
func (p *Postgres) ListContent(ctx context.Context, kind string) ([]models.ContentItem, error) {
	table, err := contentTable(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, name, rarity, class, cost, metadata
		FROM %s
		ORDER BY id`, table)

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, translate(fmt.Errorf("listing %s: %w", table, err))
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		var (
			item     models.ContentItem
			metadata []byte
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Rarity, &item.Class, &item.Cost, &metadata); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		item.Metadata = models.Document(metadata)
		items = append(items, item)
	}
	return items, translate(rows.Err())
}
