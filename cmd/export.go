package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tokodemo/storefront/internal/archive"
	"github.com/tokodemo/storefront/internal/repositories/postgres"
)

var (
	exportMenus  bool
	exportOrders bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export daily menus and order history",
	Long: `export writes daily-menu JSON snapshots and the order history as a
parquet file. Output goes to the configured output folder, or to the
configured cloud bucket when a cloud storage provider is set.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx := context.Background()

		pool := connectDB(ctx, cfg)
		defer pool.Close()

		exporter, err := archive.NewExporter(cfg, log)
		if err != nil {
			log.WithError(err).Fatal("could not build exporter")
		}

		// no flags means export everything
		all := !exportMenus && !exportOrders

		if exportMenus || all {
			n, err := exporter.ExportMenus(ctx, postgres.NewMenuRepository(pool))
			if err != nil {
				log.WithError(err).Fatal("menu export failed")
			}
			log.WithField("menus", n).Info("menu export finished")
		}
		if exportOrders || all {
			n, err := exporter.ExportOrders(ctx, postgres.NewOrderRepository(pool))
			if err != nil {
				log.WithError(err).Fatal("order export failed")
			}
			log.WithField("orders", n).Info("order export finished")
		}
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportMenus, "menus", false, "export daily menus only")
	exportCmd.Flags().BoolVar(&exportOrders, "orders", false, "export orders only")
	rootCmd.AddCommand(exportCmd)
}
