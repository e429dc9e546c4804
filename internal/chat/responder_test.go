package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tokodemo/storefront/internal/menu"
	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories/memory"
)

func testResponder(t *testing.T) *Responder {
	t.Helper()

	catalog := memory.NewCatalogRepository(
		models.Variant{ProductID: 1, VariantID: 1, Name: "Thai Tea", VariantName: "Regular", Category: "Drinks", Price: 15000, Stock: 10, SoldCount: 50},
		models.Variant{ProductID: 2, VariantID: 2, Name: "Brownie", VariantName: "Single", Category: "Desserts", Price: 25000, Stock: 3, SoldCount: 120},
		models.Variant{ProductID: 3, VariantID: 3, Name: "Chicken Noodle", VariantName: "Large", Category: "Noodles", Price: 35000, Stock: 7, SoldCount: 5},
		// sold out on both ends of the price range and the sales ranking
		models.Variant{ProductID: 4, VariantID: 4, Name: "Sold Out Tea", VariantName: "Regular", Category: "Drinks", Price: 5000, Stock: 0, SoldCount: 400},
		models.Variant{ProductID: 5, VariantID: 5, Name: "Gold Leaf Cake", VariantName: "Single", Category: "Desserts", Price: 99000, Stock: 0, SoldCount: 1},
	)
	stores := memory.NewStoreRepository()
	lat, lon := -6.2, 106.8
	if err := stores.Create(context.Background(), &models.Store{
		Name: "Toko Pusat", Address: "Jl. Sudirman No. 1", Phone: "021-555",
		Latitude: &lat, Longitude: &lon,
	}); err != nil {
		t.Fatal(err)
	}

	menus := menu.NewService(catalog, memory.NewMenuRepository(), "system")
	policy := models.DefaultMenuPolicy()
	policy.ItemCount = 2
	return NewResponder(catalog, stores, menus, policy, time.UTC)
}

func askMatched(t *testing.T, r *Responder, q string) string {
	t.Helper()
	answer, matched, err := r.Answer(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatalf("no rule matched %q, got: %s", q, answer)
	}
	return answer
}

func TestAnswerLocations(t *testing.T) {
	answer := askMatched(t, testResponder(t), "where is your store located?")
	if !strings.Contains(answer, "Toko Pusat") || !strings.Contains(answer, "Jl. Sudirman No. 1") {
		t.Fatalf("location answer missing store data: %s", answer)
	}
}

func TestAnswerCheapest(t *testing.T) {
	answer := askMatched(t, testResponder(t), "what is the cheapest item?")
	if !strings.Contains(answer, "cheapest") {
		t.Fatalf("unexpected answer: %s", answer)
	}
	// Sold Out Tea is cheaper but has no stock; Thai Tea must lead the list
	if strings.Contains(answer, "Sold Out Tea") {
		t.Fatalf("sold-out variant offered as cheapest: %s", answer)
	}
	lines := strings.Split(answer, "\n")
	if len(lines) < 2 || !strings.Contains(lines[1], "Thai Tea") {
		t.Fatalf("cheapest in-stock item not first: %s", answer)
	}
}

func TestAnswerMostExpensive(t *testing.T) {
	answer := askMatched(t, testResponder(t), "which one has the highest price?")
	if strings.Contains(answer, "Gold Leaf Cake") {
		t.Fatalf("sold-out variant offered as most expensive: %s", answer)
	}
	lines := strings.Split(answer, "\n")
	if len(lines) < 2 || !strings.Contains(lines[1], "Chicken Noodle") {
		t.Fatalf("most expensive in-stock item not first: %s", answer)
	}
}

func TestAnswerRankingEmptyCatalog(t *testing.T) {
	catalog := memory.NewCatalogRepository()
	stores := memory.NewStoreRepository()
	menus := menu.NewService(catalog, memory.NewMenuRepository(), "system")
	r := NewResponder(catalog, stores, menus, models.DefaultMenuPolicy(), time.UTC)

	answer := askMatched(t, r, "what is the cheapest item?")
	if !strings.Contains(answer, "No products with stock yet") {
		t.Fatalf("empty catalog should get a direct reply, got: %s", answer)
	}
}

func TestAnswerPriceLookup(t *testing.T) {
	answer := askMatched(t, testResponder(t), "what is the price of brownie?")
	if !strings.Contains(answer, "Brownie") || !strings.Contains(answer, "Rp 25,000") {
		t.Fatalf("price lookup missed the product: %s", answer)
	}
}

func TestAnswerPriceLookupUnknownProductFallsThrough(t *testing.T) {
	r := testResponder(t)
	answer, matched, err := r.Answer(context.Background(), "price of spaceship?")
	if err != nil {
		t.Fatal(err)
	}
	if matched {
		t.Fatalf("unknown product should not match, got: %s", answer)
	}
	if !strings.Contains(answer, "Try asking") {
		t.Fatalf("expected the usage hint, got: %s", answer)
	}
}

func TestAnswerStock(t *testing.T) {
	answer := askMatched(t, testResponder(t), "what do you have in stock?")
	if !strings.Contains(answer, "Thai Tea") || !strings.Contains(answer, "stock: 10") {
		t.Fatalf("stock answer missing data: %s", answer)
	}
}

func TestAnswerBestSellers(t *testing.T) {
	answer := askMatched(t, testResponder(t), "what are your best sellers?")
	// Sold Out Tea has the most sales but no stock, so Brownie leads
	if strings.Contains(answer, "Sold Out Tea") {
		t.Fatalf("sold-out variant listed as best seller: %s", answer)
	}
	lines := strings.Split(answer, "\n")
	if len(lines) < 2 || !strings.Contains(lines[1], "Brownie") {
		t.Fatalf("top in-stock seller not first: %s", answer)
	}
}

func TestAnswerMenuForDate(t *testing.T) {
	r := testResponder(t)
	answer := askMatched(t, r, "what's on the menu for 2024-05-20?")
	if !strings.Contains(answer, "2024-05-20") {
		t.Fatalf("menu answer missing the date: %s", answer)
	}

	// asking again returns the same stored menu
	again := askMatched(t, r, "show me the menu for 2024-05-20")
	if answer[strings.Index(answer, "\n"):] != again[strings.Index(again, "\n"):] {
		t.Fatalf("menu changed between questions:\n%s\n%s", answer, again)
	}
}

func TestFormatPrice(t *testing.T) {
	cases := map[int64]string{
		0:        "Rp 0",
		950:      "Rp 950",
		15000:    "Rp 15,000",
		1250000:  "Rp 1,250,000",
		10000000: "Rp 10,000,000",
	}
	for in, want := range cases {
		if got := FormatPrice(in); got != want {
			t.Errorf("FormatPrice(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestIncludesLocationIntent(t *testing.T) {
	if !IncludesLocationIntent("where is the nearest branch?") {
		t.Fatal("location question not detected")
	}
	if IncludesLocationIntent("how much is the brownie?") {
		t.Fatal("price question misdetected as location")
	}
}
