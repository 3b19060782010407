package cli

import (
	"context"
	"fmt"

	"gameshot-quiz-service/internal/infra/memory"
	"gameshot-quiz-service/internal/infra/postgres"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads a catalog export into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Normalize a JSON catalog export and upsert it into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "catalog JSON export (defaults to catalog.path)")
	return cmd
}

func runSeed(ctx context.Context, configPath, file string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if file == "" {
		file = cfg.Catalog.Path
	}
	if file == "" {
		return fmt.Errorf("no catalog file given")
	}

	entries, err := memory.NewFileCatalogLoader(file).LoadCatalog(ctx)
	if err != nil {
		return err
	}

	db, err := openBunDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := migrateDB(ctx, db); err != nil {
		return err
	}

	n, err := postgres.NewSeeder(db).Seed(ctx, entries)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	log.Info().Int("games", n).Str("file", file).Msg("catalog seeded")
	return nil
}
