package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gameshot-quiz-service/internal/domain"
	"github.com/uptrace/bun"
)

// Seeder upserts normalized catalog entries into the games table.
type Seeder struct {
	db *bun.DB
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed writes all entries in one transaction and returns how many were written.
func (s *Seeder) Seed(ctx context.Context, entries []domain.CatalogEntry) (int, error) {
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, entry := range entries {
			data, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("marshal game %s: %w", entry.ID, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO games (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
				entry.ID, string(data),
			); err != nil {
				return fmt.Errorf("insert game %s: %w", entry.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
