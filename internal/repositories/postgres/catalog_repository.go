package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokodemo/storefront/internal/models"
)

const variantColumns = `
        p.id,
        pv.id,
        p.name,
        pv.variant_name,
        pv.price,
        pv.stock,
        pv.sold_count,
        COALESCE(p.image_path, ''),
        COALESCE(p.sku, ''),
        COALESCE(p.category, ''),
        COALESCE(p.description, '')
    `

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) BulkCreate(ctx context.Context, products []*models.Product, variants map[string][]*models.Variant) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, p := range products {
		err := tx.QueryRow(ctx, `
            INSERT INTO products (sku, name, category, description, image_path)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name
            RETURNING id
        `, p.SKU, p.Name, p.Category, p.Description, p.ImagePath).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("inserting product %s: %w", p.SKU, err)
		}

		for _, v := range variants[p.SKU] {
			err := tx.QueryRow(ctx, `
                INSERT INTO product_variants (product_id, variant_name, price, stock, sold_count)
                VALUES ($1, $2, $3, $4, $5)
                RETURNING id
            `, p.ID, v.VariantName, v.Price, v.Stock, v.SoldCount).Scan(&v.VariantID)
			if err != nil {
				return fmt.Errorf("inserting variant %s of %s: %w", v.VariantName, p.SKU, err)
			}
			v.ProductID = p.ID
		}
	}
	return tx.Commit(ctx)
}

func (r *CatalogRepository) ListVariants(ctx context.Context) ([]models.Variant, error) {
	query := `
        SELECT ` + variantColumns + `
        FROM products p JOIN product_variants pv ON p.id = pv.product_id
        ORDER BY p.id, pv.id
    `
	return r.queryVariants(ctx, query)
}

func (r *CatalogRepository) ListInStockVariants(ctx context.Context) ([]models.Variant, error) {
	query := `
        SELECT ` + variantColumns + `
        FROM products p JOIN product_variants pv ON p.id = pv.product_id
        WHERE pv.stock > 0
        ORDER BY p.id, pv.id
    `
	return r.queryVariants(ctx, query)
}

func (r *CatalogRepository) SearchVariants(ctx context.Context, term string, limit int) ([]models.Variant, error) {
	query := `
        SELECT ` + variantColumns + `
        FROM products p JOIN product_variants pv ON p.id = pv.product_id
        WHERE lower(p.name) LIKE $1 OR lower(pv.variant_name) LIKE $1 OR lower(p.category) LIKE $1
        LIMIT $2
    `
	return r.queryVariants(ctx, query, "%"+strings.ToLower(term)+"%", limit)
}

func (r *CatalogRepository) CheapestVariants(ctx context.Context, limit int) ([]models.Variant, error) {
	query := `
        SELECT ` + variantColumns + `
        FROM products p JOIN product_variants pv ON p.id = pv.product_id
        WHERE pv.stock > 0
        ORDER BY pv.price ASC
        LIMIT $1
    `
	return r.queryVariants(ctx, query, limit)
}

func (r *CatalogRepository) MostExpensiveVariants(ctx context.Context, limit int) ([]models.Variant, error) {
	query := `
        SELECT ` + variantColumns + `
        FROM products p JOIN product_variants pv ON p.id = pv.product_id
        WHERE pv.stock > 0
        ORDER BY pv.price DESC
        LIMIT $1
    `
	return r.queryVariants(ctx, query, limit)
}

func (r *CatalogRepository) TopStockVariants(ctx context.Context, limit int) ([]models.Variant, error) {
	query := `
        SELECT ` + variantColumns + `
        FROM products p JOIN product_variants pv ON p.id = pv.product_id
        WHERE pv.stock > 0
        ORDER BY pv.stock DESC
        LIMIT $1
    `
	return r.queryVariants(ctx, query, limit)
}

func (r *CatalogRepository) BestSellingVariants(ctx context.Context, limit int) ([]models.Variant, error) {
	query := `
        SELECT ` + variantColumns + `
        FROM products p JOIN product_variants pv ON p.id = pv.product_id
        WHERE pv.sold_count > 0 AND pv.stock > 0
        ORDER BY pv.sold_count DESC
        LIMIT $1
    `
	return r.queryVariants(ctx, query, limit)
}

func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&count)
	return count, err
}

func (r *CatalogRepository) queryVariants(ctx context.Context, query string, args ...interface{}) ([]models.Variant, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVariants(rows)
}

func scanVariants(rows pgx.Rows) ([]models.Variant, error) {
	var variants []models.Variant
	for rows.Next() {
		var v models.Variant
		err := rows.Scan(
			&v.ProductID,
			&v.VariantID,
			&v.Name,
			&v.VariantName,
			&v.Price,
			&v.Stock,
			&v.SoldCount,
			&v.ImagePath,
			&v.SKU,
			&v.Category,
			&v.Description,
		)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
