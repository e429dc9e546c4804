package models

type Product struct {
	ID          int64  `json:"id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
}

// Variant is a purchasable SKU-level item belonging to a product, carrying
// its own price, stock and sales counter. Prices are in the smallest
// currency unit.
type Variant struct {
	ProductID   int64  `json:"product_id"`
	VariantID   int64  `json:"variant_id"`
	Name        string `json:"name"`
	VariantName string `json:"variant_name"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	SoldCount   int    `json:"sold_count"`
	ImagePath   string `json:"image_path"`
	SKU         string `json:"sku,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}
