package menu

import (
	"reflect"
	"testing"

	"github.com/tokodemo/storefront/internal/models"
)

func makeVariant(id int64, stock, sold int) models.Variant {
	return models.Variant{
		ProductID:   id,
		VariantID:   id,
		Name:        "Product",
		VariantName: "Regular",
		Price:       15000,
		Stock:       stock,
		SoldCount:   sold,
	}
}

func makeCatalog(n int) []models.Variant {
	catalog := make([]models.Variant, 0, n)
	for i := 1; i <= n; i++ {
		catalog = append(catalog, makeVariant(int64(i), 10, i))
	}
	return catalog
}

func variantIDs(items []models.MenuItem) map[int64]bool {
	ids := make(map[int64]bool, len(items))
	for _, it := range items {
		ids[it.VariantID] = true
	}
	return ids
}

func TestSeedForDate(t *testing.T) {
	if got := SeedForDate("2024-01-01"); got != 20240101 {
		t.Fatalf("seed for 2024-01-01 = %d, want 20240101", got)
	}
	if got := SeedForDate("1999-12-31"); got != 19991231 {
		t.Fatalf("seed for 1999-12-31 = %d, want 19991231", got)
	}

	// non-calendar strings still seed deterministically
	a := SeedForDate("not-a-date")
	b := SeedForDate("not-a-date")
	if a != b {
		t.Fatalf("seed for the same string differed: %d vs %d", a, b)
	}
	if SeedForDate("not-a-date") == SeedForDate("also-not-a-date") {
		t.Fatal("different strings produced the same seed")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	catalog := makeCatalog(12)
	policy := models.DefaultMenuPolicy()

	first := Generate("2024-06-15", catalog, nil, policy)
	second := Generate("2024-06-15", catalog, nil, policy)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same date and catalog produced different menus:\n%v\n%v", first, second)
	}

	other := Generate("2024-06-16", catalog, nil, policy)
	if reflect.DeepEqual(first, other) {
		t.Fatal("different dates produced identical menus; selection is not date-seeded")
	}
}

func TestGenerateEmptyCatalog(t *testing.T) {
	items := Generate("2024-06-15", nil, nil, models.DefaultMenuPolicy())
	if items == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestGenerateItemCount(t *testing.T) {
	policy := models.DefaultMenuPolicy()
	policy.ItemCount = 6

	items := Generate("2024-06-15", makeCatalog(20), nil, policy)
	if len(items) != 6 {
		t.Fatalf("expected 6 items, got %d", len(items))
	}
	if len(variantIDs(items)) != 6 {
		t.Fatal("menu contains duplicate variants")
	}

	// a catalog smaller than the target yields the whole catalog
	items = Generate("2024-06-15", makeCatalog(3), nil, policy)
	if len(items) != 3 {
		t.Fatalf("expected 3 items from a 3-variant catalog, got %d", len(items))
	}
}

func TestGenerateAvoidsRecentVariants(t *testing.T) {
	policy := models.DefaultMenuPolicy()
	policy.ItemCount = 4

	recent := map[int64]bool{1: true, 2: true, 3: true}
	items := Generate("2024-06-15", makeCatalog(10), recent, policy)
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	for _, it := range items {
		if recent[it.VariantID] {
			t.Fatalf("variant %d was used recently but got picked anyway", it.VariantID)
		}
	}
}

func TestGenerateFallbackTopsUpFromRecent(t *testing.T) {
	policy := models.DefaultMenuPolicy()
	policy.ItemCount = 3

	// only variant 5 is fresh
	recent := map[int64]bool{1: true, 2: true, 3: true, 4: true}
	items := Generate("2024-06-15", makeCatalog(5), recent, policy)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	ids := variantIDs(items)
	if !ids[5] {
		t.Fatal("the only fresh variant was not included")
	}
	fromRecent := 0
	for id := range ids {
		if recent[id] {
			fromRecent++
		}
	}
	if fromRecent != 2 {
		t.Fatalf("expected exactly 2 top-up items from the recent pool, got %d", fromRecent)
	}
}

func TestGenerateWeighted(t *testing.T) {
	policy := models.DefaultMenuPolicy()
	policy.PreferBestSellers = true
	policy.ItemCount = 4

	catalog := makeCatalog(10)
	items := Generate("2024-06-15", catalog, nil, policy)

	// weighted draws go with replacement then dedupe, so short lists are fine
	if len(items) == 0 || len(items) > 4 {
		t.Fatalf("expected between 1 and 4 items, got %d", len(items))
	}
	if len(variantIDs(items)) != len(items) {
		t.Fatal("weighted menu contains duplicate variants")
	}

	again := Generate("2024-06-15", catalog, nil, policy)
	if !reflect.DeepEqual(items, again) {
		t.Fatal("weighted selection is not deterministic for a fixed date")
	}
}

func TestGenerateZeroSoldCountsStillDraw(t *testing.T) {
	policy := models.DefaultMenuPolicy()
	policy.PreferBestSellers = true
	policy.ItemCount = 2

	// every variant has zero sales; weights floor at 1
	catalog := []models.Variant{
		makeVariant(1, 10, 0),
		makeVariant(2, 10, 0),
		makeVariant(3, 10, 0),
	}
	items := Generate("2024-06-15", catalog, nil, policy)
	if len(items) == 0 {
		t.Fatal("expected at least one item from an all-zero-sales catalog")
	}
}

func TestGeneratePersistedFieldsOnly(t *testing.T) {
	policy := models.DefaultMenuPolicy()
	policy.ItemCount = 1

	catalog := []models.Variant{{
		ProductID:   7,
		VariantID:   70,
		Name:        "Thai Tea",
		VariantName: "Large",
		Price:       18000,
		ImagePath:   "images/thai-tea.jpg",
		Stock:       4,
		SoldCount:   99,
	}}
	items := Generate("2024-06-15", catalog, nil, policy)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	want := models.MenuItem{
		ProductID:   7,
		VariantID:   70,
		Name:        "Thai Tea",
		VariantName: "Large",
		Price:       18000,
		ImagePath:   "images/thai-tea.jpg",
		Stock:       4,
	}
	if items[0] != want {
		t.Fatalf("menu item = %+v, want %+v", items[0], want)
	}
}
