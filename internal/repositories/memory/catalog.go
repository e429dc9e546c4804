package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tokodemo/storefront/internal/models"
)

type CatalogRepository struct {
	mu       sync.RWMutex
	variants []models.Variant
	products int
}

func NewCatalogRepository(variants ...models.Variant) *CatalogRepository {
	r := &CatalogRepository{}
	r.variants = append(r.variants, variants...)
	seen := make(map[int64]bool)
	for _, v := range variants {
		seen[v.ProductID] = true
	}
	r.products = len(seen)
	return r
}

func (r *CatalogRepository) BulkCreate(ctx context.Context, products []*models.Product, variants map[string][]*models.Variant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		r.products++
		for _, v := range variants[p.SKU] {
			vv := *v
			vv.ProductID = p.ID
			vv.Name = p.Name
			vv.SKU = p.SKU
			vv.Category = p.Category
			vv.ImagePath = p.ImagePath
			r.variants = append(r.variants, vv)
		}
	}
	return nil
}

func (r *CatalogRepository) ListVariants(ctx context.Context) ([]models.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Variant(nil), r.variants...), nil
}

func (r *CatalogRepository) ListInStockVariants(ctx context.Context) ([]models.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Variant
	for _, v := range r.variants {
		if v.Stock > 0 {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *CatalogRepository) SearchVariants(ctx context.Context, term string, limit int) ([]models.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	term = strings.ToLower(term)
	var out []models.Variant
	for _, v := range r.variants {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(v.Name), term) ||
			strings.Contains(strings.ToLower(v.VariantName), term) ||
			strings.Contains(strings.ToLower(v.Category), term) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *CatalogRepository) CheapestVariants(ctx context.Context, limit int) ([]models.Variant, error) {
	return inStock(r.sorted(0, func(a, b models.Variant) bool { return a.Price < b.Price }), limit), nil
}

func (r *CatalogRepository) MostExpensiveVariants(ctx context.Context, limit int) ([]models.Variant, error) {
	return inStock(r.sorted(0, func(a, b models.Variant) bool { return a.Price > b.Price }), limit), nil
}

func (r *CatalogRepository) TopStockVariants(ctx context.Context, limit int) ([]models.Variant, error) {
	out := r.sorted(0, func(a, b models.Variant) bool { return a.Stock > b.Stock })
	filtered := out[:0]
	for _, v := range out {
		if v.Stock > 0 {
			filtered = append(filtered, v)
		}
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (r *CatalogRepository) BestSellingVariants(ctx context.Context, limit int) ([]models.Variant, error) {
	out := r.sorted(0, func(a, b models.Variant) bool { return a.SoldCount > b.SoldCount })
	filtered := out[:0]
	for _, v := range out {
		if v.SoldCount > 0 {
			filtered = append(filtered, v)
		}
	}
	return inStock(filtered, limit), nil
}

// inStock drops zero-stock variants, then applies the limit. Rankings only
// ever show products a customer can actually order.
func inStock(variants []models.Variant, limit int) []models.Variant {
	out := variants[:0:0]
	for _, v := range variants {
		if v.Stock > 0 {
			out = append(out, v)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.products, nil
}

// DecrementStock applies a checkout mutation; used by the in-memory order
// repository.
func (r *CatalogRepository) DecrementStock(variantID int64, qty int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.variants {
		if r.variants[i].VariantID == variantID {
			r.variants[i].Stock -= qty
			r.variants[i].SoldCount += qty
			return
		}
	}
}

// Variant returns a copy of the variant with the given ID.
func (r *CatalogRepository) Variant(variantID int64) (models.Variant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.variants {
		if v.VariantID == variantID {
			return v, true
		}
	}
	return models.Variant{}, false
}

func (r *CatalogRepository) sorted(limit int, less func(a, b models.Variant) bool) []models.Variant {
	r.mu.RLock()
	out := append([]models.Variant(nil), r.variants...)
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
