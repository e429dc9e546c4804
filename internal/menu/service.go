package menu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
)

// Catalog is the slice of the catalog repository the menu service needs.
type Catalog interface {
	ListVariants(ctx context.Context) ([]models.Variant, error)
	ListInStockVariants(ctx context.Context) ([]models.Variant, error)
}

// Store persists daily menus keyed by calendar date.
type Store interface {
	GetByDate(ctx context.Context, date string) (*models.DailyMenu, error)
	GetRange(ctx context.Context, dates []string) ([]models.DailyMenu, error)
	Upsert(ctx context.Context, date string, items []models.MenuItem, generatedBy string) error
}

// Service implements get-or-create semantics over the menu store: once a
// menu for a date has been published it is stable under repeated requests,
// regardless of the policy those requests carry.
type Service struct {
	catalog     Catalog
	store       Store
	generatedBy string
}

func NewService(catalog Catalog, store Store, generatedBy string) *Service {
	if generatedBy == "" {
		generatedBy = "system"
	}
	return &Service{catalog: catalog, store: store, generatedBy: generatedBy}
}

// GetOrCreate returns the menu for date, generating and persisting one if
// none is stored (or unconditionally when force is set). The boolean
// reports whether the returned menu was freshly generated. A stored row
// whose payload cannot be decoded counts as absent.
func (s *Service) GetOrCreate(ctx context.Context, date string, force bool, policy models.MenuPolicy) ([]models.MenuItem, bool, error) {
	if err := policy.Validate(); err != nil {
		return nil, false, err
	}

	if !force {
		stored, err := s.store.GetByDate(ctx, date)
		if err == nil {
			return stored.Items, false, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) && !errors.Is(err, repositories.ErrMalformedMenu) {
			return nil, false, fmt.Errorf("reading menu for %s: %w", date, err)
		}
	}

	var (
		catalog []models.Variant
		err     error
	)
	if policy.ExcludeOutOfStock {
		catalog, err = s.catalog.ListInStockVariants(ctx)
	} else {
		catalog, err = s.catalog.ListVariants(ctx)
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading catalog snapshot: %w", err)
	}

	recent, err := s.recentVariantIDs(ctx, date, policy.AvoidRecentDays)
	if err != nil {
		return nil, false, err
	}

	items := Generate(date, catalog, recent, policy)
	if err := s.store.Upsert(ctx, date, items, s.generatedBy); err != nil {
		return nil, false, fmt.Errorf("saving menu for %s: %w", date, err)
	}
	return items, true, nil
}

// recentVariantIDs unions the variant IDs of every persisted menu in the
// trailing window of days before date. Missing dates contribute nothing.
func (s *Service) recentVariantIDs(ctx context.Context, date string, days int) (map[int64]bool, error) {
	ids := make(map[int64]bool)
	if days <= 0 {
		return ids, nil
	}
	base, err := time.Parse(models.MenuDateLayout, date)
	if err != nil {
		// A non-calendar date has no trailing window.
		return ids, nil
	}

	dates := make([]string, 0, days)
	for i := 1; i <= days; i++ {
		dates = append(dates, models.MenuDate(base.AddDate(0, 0, -i)))
	}
	menus, err := s.store.GetRange(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("reading recent menus: %w", err)
	}
	for _, m := range menus {
		for _, it := range m.Items {
			ids[it.VariantID] = true
		}
	}
	return ids, nil
}
