package memory

import (
	"context"
	"sync"

	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
)

type StoreRepository struct {
	mu     sync.RWMutex
	nextID int64
	stores []models.Store
}

func NewStoreRepository(stores ...models.Store) *StoreRepository {
	r := &StoreRepository{nextID: 1}
	for i := range stores {
		s := stores[i]
		if s.ID == 0 {
			s.ID = r.nextID
		}
		if s.ID >= r.nextID {
			r.nextID = s.ID + 1
		}
		r.stores = append(r.stores, s)
	}
	return r
}

func (r *StoreRepository) Create(ctx context.Context, store *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	store.ID = r.nextID
	r.nextID++
	r.stores = append(r.stores, *store)
	return nil
}

func (r *StoreRepository) GetByID(ctx context.Context, id int64) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.stores {
		if s.ID == id {
			out := s
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *StoreRepository) ListAll(ctx context.Context) ([]models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Store(nil), r.stores...), nil
}
