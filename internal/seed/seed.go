// Package seed populates the catalog and store tables with demo data, either
// from a products JSON file or generated with faker.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/tokodemo/storefront/internal/factories"
	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
)

// defaultProductCount is used when no products file is configured.
const defaultProductCount = 20

const defaultStoreCount = 3

type productFile struct {
	Products []struct {
		SKU         string `json:"sku"`
		Name        string `json:"name"`
		Category    string `json:"category"`
		Description string `json:"description"`
		ImagePath   string `json:"image_path"`
		Variants    []struct {
			Name      string `json:"name"`
			Price     int64  `json:"price"`
			Stock     int    `json:"stock"`
			SoldCount int    `json:"sold_count"`
		} `json:"variants"`
	} `json:"products"`
	Stores []models.Store `json:"stores"`
}

type Seeder struct {
	catalog repositories.CatalogRepository
	stores  repositories.StoreRepository
	log     *logrus.Logger
}

func NewSeeder(catalog repositories.CatalogRepository, stores repositories.StoreRepository, log *logrus.Logger) *Seeder {
	return &Seeder{catalog: catalog, stores: stores, log: log}
}

// Run seeds the catalog from productsFile when set, otherwise with generated
// demo data. Seeding is skipped when the catalog already has rows.
func (s *Seeder) Run(ctx context.Context, productsFile string) error {
	count, err := s.catalog.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting catalog: %w", err)
	}
	if count > 0 {
		s.log.WithField("variants", count).Info("catalog already seeded, skipping")
		return nil
	}

	if productsFile != "" {
		return s.seedFromFile(ctx, productsFile)
	}
	return s.seedGenerated(ctx)
}

func (s *Seeder) seedFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading products file: %w", err)
	}

	var pf productFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("decoding products file: %w", err)
	}

	products := make([]*models.Product, 0, len(pf.Products))
	variants := make(map[string][]*models.Variant, len(pf.Products))
	for _, p := range pf.Products {
		products = append(products, &models.Product{
			SKU:         p.SKU,
			Name:        p.Name,
			Category:    p.Category,
			Description: p.Description,
			ImagePath:   p.ImagePath,
		})
		for _, v := range p.Variants {
			variants[p.SKU] = append(variants[p.SKU], &models.Variant{
				Name:        p.Name,
				VariantName: v.Name,
				SKU:         p.SKU,
				Category:    p.Category,
				Description: p.Description,
				ImagePath:   p.ImagePath,
				Price:       v.Price,
				Stock:       v.Stock,
				SoldCount:   v.SoldCount,
			})
		}
	}

	if err := s.insert(ctx, products, variants); err != nil {
		return err
	}
	return s.insertStores(ctx, pf.Stores)
}

func (s *Seeder) seedGenerated(ctx context.Context) error {
	factory := &factories.ProductFactory{}

	products := make([]*models.Product, 0, defaultProductCount)
	variants := make(map[string][]*models.Variant, defaultProductCount)
	for i := 0; i < defaultProductCount; i++ {
		p := factory.CreateProduct()
		products = append(products, &p)
		for _, v := range factory.CreateVariants(p) {
			v := v
			variants[p.SKU] = append(variants[p.SKU], &v)
		}
	}
	if err := s.insert(ctx, products, variants); err != nil {
		return err
	}

	stores := make([]models.Store, 0, defaultStoreCount)
	for i := 0; i < defaultStoreCount; i++ {
		stores = append(stores, factory.CreateStore())
	}
	return s.insertStores(ctx, stores)
}

func (s *Seeder) insert(ctx context.Context, products []*models.Product, variants map[string][]*models.Variant) error {
	bar := progressbar.Default(int64(len(products)), "seeding products")

	// BulkCreate is one transaction; the bar tracks preparation per product
	// batch so seeding large files still shows progress.
	if err := s.catalog.BulkCreate(ctx, products, variants); err != nil {
		return fmt.Errorf("bulk creating products: %w", err)
	}
	bar.Add(len(products))
	bar.Finish()

	total := 0
	for _, vs := range variants {
		total += len(vs)
	}
	s.log.WithFields(logrus.Fields{
		"products": len(products),
		"variants": total,
	}).Info("catalog seeded")
	return nil
}

func (s *Seeder) insertStores(ctx context.Context, stores []models.Store) error {
	existing, err := s.stores.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("listing stores: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for i := range stores {
		if err := s.stores.Create(ctx, &stores[i]); err != nil {
			return fmt.Errorf("creating store %q: %w", stores[i].Name, err)
		}
	}
	s.log.WithField("stores", len(stores)).Info("stores seeded")
	return nil
}
