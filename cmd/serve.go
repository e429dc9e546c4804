package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tokodemo/storefront/internal/cart"
	"github.com/tokodemo/storefront/internal/chat"
	"github.com/tokodemo/storefront/internal/checkout"
	"github.com/tokodemo/storefront/internal/events"
	"github.com/tokodemo/storefront/internal/menu"
	"github.com/tokodemo/storefront/internal/repositories/postgres"
	"github.com/tokodemo/storefront/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP server",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	ctx := context.Background()

	pool := connectDB(ctx, cfg)
	defer pool.Close()

	catalogRepo := postgres.NewCatalogRepository(pool)
	menuRepo := postgres.NewMenuRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)

	menuService := menu.NewService(catalogRepo, menuRepo, cfg.Menu.GeneratedBy)
	policy := menuPolicy(cfg)
	loc := cfg.Location()

	var producer events.Producer
	if cfg.KafkaEnabled {
		kafka, err := events.NewKafkaProducer(cfg)
		if err != nil {
			log.WithError(err).Fatal("could not start kafka producer")
		}
		defer kafka.Close()
		producer = kafka
		log.WithField("brokers", cfg.KafkaBrokerList).Info("kafka order events enabled")
	}

	checkoutService := checkout.NewService(orderRepo, producer, log)

	gemini := chat.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	responder := chat.NewResponder(catalogRepo, storeRepo, menuService, policy, loc)
	assistant := chat.NewAssistant(responder, gemini, catalogRepo, storeRepo)

	srv := server.New(server.Options{
		Catalog:   catalogRepo,
		Stores:    storeRepo,
		Orders:    orderRepo,
		Menus:     menuService,
		Carts:     cart.NewManager(),
		Checkout:  checkoutService,
		Assistant: assistant,
		Policy:    policy,
		Location:  loc,
		Log:       log,
	})

	log.WithField("address", cfg.ServerAddress).Info("storefront listening")
	if err := srv.Router().Run(cfg.ServerAddress); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
