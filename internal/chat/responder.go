// Package chat answers product and location questions, either from local
// rule-based lookups or by forwarding to the Gemini API with local context
// attached.
package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tokodemo/storefront/internal/menu"
	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
)

var dateRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

var locationKeywords = []string{
	"location", "address", "where", "branch", "store", "nearest",
	"pickup", "pick up", "delivery", "directions",
}

type Responder struct {
	catalog repositories.CatalogRepository
	stores  repositories.StoreRepository
	menus   *menu.Service
	policy  models.MenuPolicy
	loc     *time.Location
}

func NewResponder(catalog repositories.CatalogRepository, stores repositories.StoreRepository, menus *menu.Service, policy models.MenuPolicy, loc *time.Location) *Responder {
	if loc == nil {
		loc = time.UTC
	}
	return &Responder{catalog: catalog, stores: stores, menus: menus, policy: policy, loc: loc}
}

// Answer resolves a question against the local rules, first match wins.
// The boolean reports whether any rule matched; when none did, the returned
// text is a usage hint.
func (r *Responder) Answer(ctx context.Context, question string) (string, bool, error) {
	q := strings.ToLower(question)

	if containsAny(q, "location", "address", "where", "branch", "nearest store") {
		return r.answerLocations(ctx)
	}
	if containsAny(q, "cheapest", "least expensive", "lowest price") {
		return r.answerPriceRanking(ctx, true)
	}
	if containsAny(q, "most expensive", "priciest", "highest price") {
		return r.answerPriceRanking(ctx, false)
	}
	if strings.Contains(q, "price") || strings.Contains(q, "how much") {
		answer, matched, err := r.answerPriceLookup(ctx, q)
		if err != nil || matched {
			return answer, matched, err
		}
	}
	if containsAny(q, "stock", "available", "in stock") {
		return r.answerStock(ctx)
	}
	if containsAny(q, "best seller", "bestseller", "most popular", "top selling") {
		return r.answerBestSellers(ctx)
	}
	if containsAny(q, "menu", "recommend", "suggest", "special") {
		return r.answerDailyMenu(ctx, q)
	}

	return "Sorry, I could not find a local answer. Try asking 'price of [product]' or 'today's menu'.", false, nil
}

// IncludesLocationIntent reports whether the question asks about store
// locations, pickup or delivery; the Gemini prompt only carries store data
// when it does.
func IncludesLocationIntent(question string) bool {
	q := strings.ToLower(question)
	for _, k := range locationKeywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

func (r *Responder) answerLocations(ctx context.Context) (string, bool, error) {
	stores, err := r.stores.ListAll(ctx)
	if err != nil {
		return "", false, fmt.Errorf("listing stores: %w", err)
	}
	if len(stores) == 0 {
		return "No store locations on file yet.", true, nil
	}
	lines := []string{"Store locations:"}
	for _, s := range stores {
		lines = append(lines, fmt.Sprintf("- %s: %s (Tel: %s)", s.Name, s.Address, s.Phone))
	}
	return strings.Join(lines, "\n"), true, nil
}

func (r *Responder) answerPriceRanking(ctx context.Context, cheapest bool) (string, bool, error) {
	var (
		variants []models.Variant
		err      error
		header   string
	)
	if cheapest {
		variants, err = r.catalog.CheapestVariants(ctx, 5)
		header = "Top 5 cheapest products (with stock):"
	} else {
		variants, err = r.catalog.MostExpensiveVariants(ctx, 5)
		header = "Top 5 most expensive products (with stock):"
	}
	if err != nil {
		return "", false, fmt.Errorf("ranking variants: %w", err)
	}
	if len(variants) == 0 {
		return "No products with stock yet.", true, nil
	}
	lines := []string{header}
	for _, v := range variants {
		lines = append(lines, fmt.Sprintf("- %s %s → %s (stock: %d)", v.Name, v.VariantName, FormatPrice(v.Price), v.Stock))
	}
	return strings.Join(lines, "\n"), true, nil
}

func (r *Responder) answerPriceLookup(ctx context.Context, q string) (string, bool, error) {
	cleaned := strings.NewReplacer("?", " ", "!", " ", ".", " ", ",", " ").Replace(q)
	var terms []string
	for _, t := range strings.Fields(cleaned) {
		if len(t) > 2 {
			terms = append(terms, t)
		}
	}

	// Scan last-first: the product name usually trails the question.
	for i := len(terms) - 1; i >= 0; i-- {
		variants, err := r.catalog.SearchVariants(ctx, terms[i], 10)
		if err != nil {
			return "", false, fmt.Errorf("searching variants: %w", err)
		}
		if len(variants) == 0 {
			continue
		}
		lines := []string{"I found these products:"}
		for _, v := range variants {
			lines = append(lines, fmt.Sprintf("- %s (%s) → %s (stock: %d)", v.Name, v.VariantName, FormatPrice(v.Price), v.Stock))
		}
		return strings.Join(lines, "\n"), true, nil
	}
	return "", false, nil
}

func (r *Responder) answerStock(ctx context.Context) (string, bool, error) {
	variants, err := r.catalog.TopStockVariants(ctx, 10)
	if err != nil {
		return "", false, fmt.Errorf("listing stock: %w", err)
	}
	lines := []string{"Products currently in stock (top 10):"}
	for _, v := range variants {
		lines = append(lines, fmt.Sprintf("- %s %s (stock: %d)", v.Name, v.VariantName, v.Stock))
	}
	return strings.Join(lines, "\n"), true, nil
}

func (r *Responder) answerBestSellers(ctx context.Context) (string, bool, error) {
	variants, err := r.catalog.BestSellingVariants(ctx, 10)
	if err != nil {
		return "", false, fmt.Errorf("listing best sellers: %w", err)
	}
	if len(variants) == 0 {
		return "No sales recorded yet.", true, nil
	}
	lines := []string{"Top selling products (with stock):"}
	for _, v := range variants {
		lines = append(lines, fmt.Sprintf("- %s %s (sold: %d) → %s (stock: %d)",
			v.Name, v.VariantName, v.SoldCount, FormatPrice(v.Price), v.Stock))
	}
	return strings.Join(lines, "\n"), true, nil
}

func (r *Responder) answerDailyMenu(ctx context.Context, q string) (string, bool, error) {
	var date string
	switch {
	case strings.Contains(q, "tomorrow"):
		date = models.MenuDate(time.Now().In(r.loc).AddDate(0, 0, 1))
	case dateRe.MatchString(q):
		date = dateRe.FindString(q)
	default:
		date = models.MenuDate(time.Now().In(r.loc))
	}

	items, _, err := r.menus.GetOrCreate(ctx, date, false, r.policy)
	if err != nil {
		return "", false, fmt.Errorf("resolving menu for %s: %w", date, err)
	}
	if len(items) == 0 {
		return fmt.Sprintf("Sorry, there are no menu items for %s yet.", date), true, nil
	}
	lines := []string{fmt.Sprintf("Menu for %s (with stock):", date)}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("- %s %s → %s (stock: %d)", it.Name, it.VariantName, FormatPrice(it.Price), it.Stock))
	}
	return strings.Join(lines, "\n"), true, nil
}

func containsAny(q string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

// FormatPrice renders a price in the smallest currency unit as a rupiah
// amount with thousands separators, e.g. 15000 → "Rp 15,000".
func FormatPrice(price int64) string {
	s := fmt.Sprintf("%d", price)
	if len(s) <= 3 {
		return "Rp " + s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return "Rp " + strings.Join(parts, ",")
}
