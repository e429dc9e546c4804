// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces, used in tests and for embedded/demo runs without a
// database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
)

type MenuRepository struct {
	mu    sync.RWMutex
	menus map[string]models.DailyMenu

	// UpsertCount tracks writes so tests can assert the single-write
	// contract of the menu service.
	UpsertCount int
}

func NewMenuRepository() *MenuRepository {
	return &MenuRepository{menus: make(map[string]models.DailyMenu)}
}

func (r *MenuRepository) GetByDate(ctx context.Context, date string) (*models.DailyMenu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.menus[date]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := m
	out.Items = append([]models.MenuItem(nil), m.Items...)
	return &out, nil
}

func (r *MenuRepository) GetRange(ctx context.Context, dates []string) ([]models.DailyMenu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.DailyMenu
	for _, d := range dates {
		if m, ok := r.menus[d]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MenuRepository) Upsert(ctx context.Context, date string, items []models.MenuItem, generatedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menus[date] = models.DailyMenu{
		MenuDate:    date,
		Items:       append([]models.MenuItem(nil), items...),
		GeneratedBy: generatedBy,
		CreatedAt:   time.Now(),
	}
	r.UpsertCount++
	return nil
}

func (r *MenuRepository) ListAll(ctx context.Context) ([]models.DailyMenu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.DailyMenu, 0, len(r.menus))
	for _, m := range r.menus {
		out = append(out, m)
	}
	return out, nil
}

// Len reports the number of stored menus.
func (r *MenuRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.menus)
}
