package repositories

import (
	"context"
	"errors"

	"github.com/tokodemo/storefront/internal/models"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// ErrMalformedMenu is returned when a stored daily-menu payload cannot be
// decoded. Callers treat it like an absent row.
var ErrMalformedMenu = errors.New("malformed daily menu payload")

type CatalogRepository interface {
	BulkCreate(ctx context.Context, products []*models.Product, variants map[string][]*models.Variant) error
	ListVariants(ctx context.Context) ([]models.Variant, error)
	ListInStockVariants(ctx context.Context) ([]models.Variant, error)
	SearchVariants(ctx context.Context, term string, limit int) ([]models.Variant, error)
	CheapestVariants(ctx context.Context, limit int) ([]models.Variant, error)
	MostExpensiveVariants(ctx context.Context, limit int) ([]models.Variant, error)
	TopStockVariants(ctx context.Context, limit int) ([]models.Variant, error)
	BestSellingVariants(ctx context.Context, limit int) ([]models.Variant, error)
	Count(ctx context.Context) (int, error)
}

type MenuRepository interface {
	GetByDate(ctx context.Context, date string) (*models.DailyMenu, error)
	GetRange(ctx context.Context, dates []string) ([]models.DailyMenu, error)
	Upsert(ctx context.Context, date string, items []models.MenuItem, generatedBy string) error
	ListAll(ctx context.Context) ([]models.DailyMenu, error)
}

type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	GetByID(ctx context.Context, id int64) (*models.Store, error)
	ListAll(ctx context.Context) ([]models.Store, error)
}

type OrderRepository interface {
	// PlaceOrder inserts the order and its items atomically, decrementing
	// stock and incrementing sold counts for each ordered variant.
	PlaceOrder(ctx context.Context, order *models.Order, items []models.CartItem) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
}
