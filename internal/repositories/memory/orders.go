package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
)

type OrderRepository struct {
	mu      sync.RWMutex
	nextID  int64
	orders  []models.Order
	catalog *CatalogRepository
}

// NewOrderRepository builds an order repository; when catalog is non-nil,
// placed orders mutate its stock and sold counts the way the relational
// adapter does.
func NewOrderRepository(catalog *CatalogRepository) *OrderRepository {
	return &OrderRepository{nextID: 1, catalog: catalog}
}

func (r *OrderRepository) PlaceOrder(ctx context.Context, order *models.Order, items []models.CartItem) error {
	r.mu.Lock()
	order.ID = r.nextID
	r.nextID++
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	order.CreatedAt = time.Now()

	order.Items = order.Items[:0]
	for _, it := range items {
		if it.ProductID == 0 || it.Qty <= 0 {
			continue
		}
		order.Items = append(order.Items, models.OrderItem{
			ID:          int64(len(order.Items) + 1),
			OrderID:     order.ID,
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			Qty:         it.Qty,
			Price:       it.Price,
			Name:        it.Name,
			VariantName: it.VariantName,
		})
	}
	r.orders = append(r.orders, *order)
	r.mu.Unlock()

	if r.catalog != nil {
		for _, it := range order.Items {
			r.catalog.DecrementStock(it.VariantID, it.Qty)
		}
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			out := o
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]models.Order(nil), r.orders...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
