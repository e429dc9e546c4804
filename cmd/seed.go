package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tokodemo/storefront/internal/repositories/postgres"
	"github.com/tokodemo/storefront/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the catalog and stores with demo data",
	Long: `seed fills the database with products, variants and store locations.
When --products-file points at a JSON file its contents are used; otherwise
generated demo data is inserted. An already seeded catalog is left alone.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx := context.Background()

		pool := connectDB(ctx, cfg)
		defer pool.Close()

		seeder := seed.NewSeeder(
			postgres.NewCatalogRepository(pool),
			postgres.NewStoreRepository(pool),
			log,
		)
		if err := seeder.Run(ctx, cfg.ProductsFile); err != nil {
			log.WithError(err).Fatal("seeding failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
