package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories/postgres"
)

var cfgFile string

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Online storefront with a deterministic daily menu generator",
	Long: `storefront serves a small online shop: product catalog, cart and
checkout, store locations, a rule-based chat assistant and a daily menu
that is generated deterministically from the calendar date.`,
	Run: func(cmd *cobra.Command, args []string) {
		runServe(cmd, args)
	},
}

func init() {
	cobra.OnInitialize(initEnv)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	rootCmd.PersistentFlags().String("server-address", ":8080", "HTTP listen address")
	rootCmd.PersistentFlags().String("timezone", "Asia/Jakarta", "Timezone used to resolve 'today'")
	rootCmd.PersistentFlags().Bool("kafka-enabled", false, "Enable Kafka order events")
	rootCmd.PersistentFlags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.PersistentFlags().String("products-file", "", "Products JSON file for seeding")
	rootCmd.PersistentFlags().String("output-folder", "exports", "Folder (or object prefix) for exports")

	viper.BindPFlag("server_address", rootCmd.PersistentFlags().Lookup("server-address"))
	viper.BindPFlag("timezone", rootCmd.PersistentFlags().Lookup("timezone"))
	viper.BindPFlag("kafka_enabled", rootCmd.PersistentFlags().Lookup("kafka-enabled"))
	viper.BindPFlag("kafka_broker_list", rootCmd.PersistentFlags().Lookup("kafka-broker-list"))
	viper.BindPFlag("products_file", rootCmd.PersistentFlags().Lookup("products-file"))
	viper.BindPFlag("output_folder", rootCmd.PersistentFlags().Lookup("output-folder"))
}

func initEnv() {
	// .env is optional, real deployments set env vars directly
	_ = godotenv.Load()

	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
}

func loadConfig() *models.Config {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func connectDB(ctx context.Context, cfg *models.Config) *pgxpool.Pool {
	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("could not connect to database")
	}
	return pool
}

func menuPolicy(cfg *models.Config) models.MenuPolicy {
	return models.MenuPolicy{
		ItemCount:         cfg.Menu.ItemsPerDay,
		ExcludeOutOfStock: cfg.Menu.ExcludeOutOfStock,
		PreferBestSellers: cfg.Menu.PreferBestSellers,
		SeedBasedOnDate:   cfg.Menu.SeedBasedOnDate,
		AvoidRecentDays:   cfg.Menu.AvoidRecentDays,
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
