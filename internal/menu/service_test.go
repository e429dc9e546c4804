package menu

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
	"github.com/tokodemo/storefront/internal/repositories/memory"
)

func newCatalogRepo(n int) *memory.CatalogRepository {
	return memory.NewCatalogRepository(makeCatalog(n)...)
}

func TestGetOrCreateGeneratesOncePerDate(t *testing.T) {
	ctx := context.Background()
	menus := memory.NewMenuRepository()
	svc := NewService(newCatalogRepo(12), menus, "system")
	policy := models.DefaultMenuPolicy()

	first, generated, err := svc.GetOrCreate(ctx, "2024-03-10", false, policy)
	if err != nil {
		t.Fatal(err)
	}
	if !generated {
		t.Fatal("first request should generate")
	}
	if menus.UpsertCount != 1 {
		t.Fatalf("expected 1 write, got %d", menus.UpsertCount)
	}

	second, generated, err := svc.GetOrCreate(ctx, "2024-03-10", false, policy)
	if err != nil {
		t.Fatal(err)
	}
	if generated {
		t.Fatal("second request should read the stored menu")
	}
	if menus.UpsertCount != 1 {
		t.Fatalf("repeat request wrote again, total writes %d", menus.UpsertCount)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("stored menu changed between requests:\n%v\n%v", first, second)
	}
}

func TestGetOrCreateStableUnderDifferentPolicy(t *testing.T) {
	ctx := context.Background()
	menus := memory.NewMenuRepository()
	svc := NewService(newCatalogRepo(12), menus, "system")

	first, _, err := svc.GetOrCreate(ctx, "2024-03-10", false, models.DefaultMenuPolicy())
	if err != nil {
		t.Fatal(err)
	}

	// a later request with another valid policy still gets the stored menu
	other := models.DefaultMenuPolicy()
	other.ItemCount = 2
	other.PreferBestSellers = true
	second, generated, err := svc.GetOrCreate(ctx, "2024-03-10", false, other)
	if err != nil {
		t.Fatal(err)
	}
	if generated {
		t.Fatal("policy change must not regenerate a published menu")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("published menu not stable under differing policies")
	}
}

func TestGetOrCreateForceRegenerates(t *testing.T) {
	ctx := context.Background()
	menus := memory.NewMenuRepository()
	svc := NewService(newCatalogRepo(12), menus, "system")
	policy := models.DefaultMenuPolicy()

	first, _, err := svc.GetOrCreate(ctx, "2024-03-10", false, policy)
	if err != nil {
		t.Fatal(err)
	}

	// force with a smaller item count must overwrite the stored row
	smaller := policy
	smaller.ItemCount = 2
	regenerated, generated, err := svc.GetOrCreate(ctx, "2024-03-10", true, smaller)
	if err != nil {
		t.Fatal(err)
	}
	if !generated {
		t.Fatal("force should regenerate")
	}
	if len(first) == len(regenerated) {
		t.Fatalf("forced policy change had no effect: %d items before and after", len(first))
	}
	if menus.UpsertCount != 2 {
		t.Fatalf("expected 2 writes after force, got %d", menus.UpsertCount)
	}
	if menus.Len() != 1 {
		t.Fatalf("force created a second row for the same date, rows %d", menus.Len())
	}

	stored, err := menus.GetByDate(ctx, "2024-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(stored.Items, regenerated) {
		t.Fatalf("store does not hold the most recent menu:\nstored %v\nreturned %v", stored.Items, regenerated)
	}
}

func TestGetOrCreateOneRowPerDate(t *testing.T) {
	ctx := context.Background()
	menus := memory.NewMenuRepository()
	svc := NewService(newCatalogRepo(12), menus, "system")
	policy := models.DefaultMenuPolicy()

	for _, date := range []string{"2024-03-10", "2024-03-11", "2024-03-10"} {
		if _, _, err := svc.GetOrCreate(ctx, date, false, policy); err != nil {
			t.Fatal(err)
		}
	}
	if menus.Len() != 2 {
		t.Fatalf("expected 2 stored menus, got %d", menus.Len())
	}
}

// malformedMenuStore reports a corrupt payload for every read until a new
// menu is written over it.
type malformedMenuStore struct {
	*memory.MenuRepository
	corrupt bool
}

func (s *malformedMenuStore) GetByDate(ctx context.Context, date string) (*models.DailyMenu, error) {
	if s.corrupt {
		return nil, repositories.ErrMalformedMenu
	}
	return s.MenuRepository.GetByDate(ctx, date)
}

func (s *malformedMenuStore) Upsert(ctx context.Context, date string, items []models.MenuItem, generatedBy string) error {
	s.corrupt = false
	return s.MenuRepository.Upsert(ctx, date, items, generatedBy)
}

func TestGetOrCreateRegeneratesMalformedMenu(t *testing.T) {
	ctx := context.Background()
	store := &malformedMenuStore{MenuRepository: memory.NewMenuRepository(), corrupt: true}
	svc := NewService(newCatalogRepo(12), store, "system")

	items, generated, err := svc.GetOrCreate(ctx, "2024-03-10", false, models.DefaultMenuPolicy())
	if err != nil {
		t.Fatalf("malformed stored menu should regenerate, got error: %v", err)
	}
	if !generated {
		t.Fatal("malformed stored menu must count as absent")
	}
	if len(items) == 0 {
		t.Fatal("regenerated menu is empty")
	}
	if store.UpsertCount != 1 {
		t.Fatalf("expected the corrupt row to be overwritten once, writes %d", store.UpsertCount)
	}
}

func TestGetOrCreateRejectsInvalidPolicy(t *testing.T) {
	ctx := context.Background()
	menus := memory.NewMenuRepository()
	svc := NewService(newCatalogRepo(12), menus, "system")

	bad := models.DefaultMenuPolicy()
	bad.ItemCount = 0
	if _, _, err := svc.GetOrCreate(ctx, "2024-03-10", false, bad); err == nil {
		t.Fatal("item_count 0 should be rejected")
	} else if !strings.Contains(err.Error(), "item_count") {
		t.Fatalf("unexpected error: %v", err)
	}

	bad = models.DefaultMenuPolicy()
	bad.AvoidRecentDays = -1
	if _, _, err := svc.GetOrCreate(ctx, "2024-03-10", false, bad); err == nil {
		t.Fatal("negative avoid_recent_days should be rejected")
	}
	if menus.UpsertCount != 0 {
		t.Fatal("invalid policies must not write")
	}
}

func TestGetOrCreateExcludesOutOfStock(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewCatalogRepository(
		makeVariant(1, 5, 10),
		makeVariant(2, 0, 500), // out of stock, best seller
		makeVariant(3, 5, 10),
		makeVariant(4, 5, 10),
		makeVariant(5, 5, 10),
	)
	svc := NewService(catalog, memory.NewMenuRepository(), "system")

	policy := models.DefaultMenuPolicy()
	policy.ItemCount = 3
	policy.ExcludeOutOfStock = true

	items, _, err := svc.GetOrCreate(ctx, "2024-03-10", false, policy)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for _, it := range items {
		if it.VariantID == 2 {
			t.Fatal("out-of-stock variant got onto the menu")
		}
	}
}

func TestGetOrCreateAvoidsPreviousDays(t *testing.T) {
	ctx := context.Background()
	menus := memory.NewMenuRepository()
	svc := NewService(newCatalogRepo(20), menus, "system")

	policy := models.DefaultMenuPolicy()
	policy.ItemCount = 5
	policy.AvoidRecentDays = 2

	day1, _, err := svc.GetOrCreate(ctx, "2024-03-10", false, policy)
	if err != nil {
		t.Fatal(err)
	}
	day2, _, err := svc.GetOrCreate(ctx, "2024-03-11", false, policy)
	if err != nil {
		t.Fatal(err)
	}

	used := variantIDs(day1)
	for _, it := range day2 {
		if used[it.VariantID] {
			t.Fatalf("variant %d appears on consecutive days despite the window", it.VariantID)
		}
	}
}

func TestGetOrCreateGeneratedBy(t *testing.T) {
	ctx := context.Background()
	menus := memory.NewMenuRepository()
	svc := NewService(newCatalogRepo(8), menus, "cron")

	if _, _, err := svc.GetOrCreate(ctx, "2024-03-10", false, models.DefaultMenuPolicy()); err != nil {
		t.Fatal(err)
	}
	stored, err := menus.GetByDate(ctx, "2024-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if stored.GeneratedBy != "cron" {
		t.Fatalf("generated_by = %q, want cron", stored.GeneratedBy)
	}
}
