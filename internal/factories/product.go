// Package factories builds demo catalog data for seeding.
package factories

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/tokodemo/storefront/internal/models"
)

var fake = faker.New()

type ProductFactory struct{}

var productNames = map[string][]string{
	"Rice Bowl": {"Chicken Teriyaki Bowl", "Beef Blackpepper Bowl", "Salted Egg Chicken Bowl", "Spicy Tuna Bowl"},
	"Noodles":   {"Chicken Noodle", "Beef Ramen", "Spicy Seafood Noodle", "Vegetable Noodle"},
	"Snacks":    {"Chicken Wings", "Spring Rolls", "Potato Wedges", "Cheese Sticks"},
	"Drinks":    {"Iced Lemon Tea", "Thai Tea", "Avocado Coffee", "Mango Smoothie"},
	"Desserts":  {"Brownie", "Banana Fritters", "Mango Sticky Rice", "Pandan Cake"},
}

var variantNames = map[string][]string{
	"Rice Bowl": {"Regular", "Large", "Extra Protein"},
	"Noodles":   {"Regular", "Large", "Extra Spicy"},
	"Snacks":    {"6 pcs", "12 pcs"},
	"Drinks":    {"Regular", "Large", "Less Sugar"},
	"Desserts":  {"Single", "Sharing"},
}

// CreateProduct picks a random category and dish name. SKUs are cuid-based
// so repeated seeding never collides.
func (pf *ProductFactory) CreateProduct() models.Product {
	categories := make([]string, 0, len(productNames))
	for c := range productNames {
		categories = append(categories, c)
	}
	category := categories[rand.Intn(len(categories))]
	names := productNames[category]
	name := names[rand.Intn(len(names))]

	return models.Product{
		SKU:         "P-" + cuid.Slug(),
		Name:        name,
		Category:    category,
		Description: fake.Lorem().Sentence(8),
		ImagePath:   fmt.Sprintf("images/%s.jpg", slugify(name)),
	}
}

// CreateVariants builds 1 to 3 variants for a product, each with its own
// price, stock and sales history.
func (pf *ProductFactory) CreateVariants(product models.Product) []models.Variant {
	names := variantNames[product.Category]
	if len(names) == 0 {
		names = []string{"Regular"}
	}
	count := rand.Intn(len(names)) + 1

	variants := make([]models.Variant, 0, count)
	for i := 0; i < count; i++ {
		variants = append(variants, models.Variant{
			Name:        product.Name,
			VariantName: names[i],
			SKU:         product.SKU,
			Category:    product.Category,
			Description: product.Description,
			ImagePath:   product.ImagePath,
			Price:       int64(fake.IntBetween(10, 80)) * 1000,
			Stock:       fake.IntBetween(0, 40),
			SoldCount:   fake.IntBetween(0, 200),
		})
	}
	return variants
}

// CreateStore builds a demo store location around Jakarta.
func (pf *ProductFactory) CreateStore() models.Store {
	lat := -6.2 + (rand.Float64()*2-1)*0.15
	lon := 106.8 + (rand.Float64()*2-1)*0.15

	name := "Toko " + fake.Person().LastName()
	return models.Store{
		Name:      name,
		Address:   fake.Address().StreetAddress(),
		Phone:     fake.Phone().Number(),
		Latitude:  &lat,
		Longitude: &lon,
	}
}

func slugify(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}
