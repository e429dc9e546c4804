package models

import (
	"errors"
	"time"
)

// MenuItem is the persisted shape of a daily-menu entry. The json keys are
// the document keys stored in the daily_menus payload; sold counts are
// stripped before persistence.
type MenuItem struct {
	ProductID   int64  `json:"pid"`
	VariantID   int64  `json:"vid"`
	Name        string `json:"name"`
	VariantName string `json:"variant_name"`
	Price       int64  `json:"price"`
	ImagePath   string `json:"image_path"`
	Stock       int    `json:"stock"`
}

// DailyMenu is the fixed selection of variants for one calendar date.
// At most one row exists per MenuDate; writes replace the item list whole.
type DailyMenu struct {
	MenuDate    string     `json:"menu_date"`
	Items       []MenuItem `json:"items"`
	GeneratedBy string     `json:"generated_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// MenuPolicy controls daily-menu generation.
type MenuPolicy struct {
	ItemCount         int  `json:"item_count"`
	ExcludeOutOfStock bool `json:"exclude_out_of_stock"`
	PreferBestSellers bool `json:"prefer_best_sellers"`
	SeedBasedOnDate   bool `json:"seed_based_on_date"`
	AvoidRecentDays   int  `json:"avoid_recent_days"`
}

// DefaultMenuPolicy matches the generation defaults of the storefront.
func DefaultMenuPolicy() MenuPolicy {
	return MenuPolicy{
		ItemCount:         6,
		ExcludeOutOfStock: true,
		PreferBestSellers: false,
		SeedBasedOnDate:   true,
		AvoidRecentDays:   2,
	}
}

// Validate rejects misconfigured policies instead of clamping them.
func (p MenuPolicy) Validate() error {
	if p.ItemCount < 1 {
		return errors.New("menu policy: item_count must be at least 1")
	}
	if p.AvoidRecentDays < 0 {
		return errors.New("menu policy: avoid_recent_days must not be negative")
	}
	return nil
}

const MenuDateLayout = "2006-01-02"

// MenuDate formats a time as the canonical menu-date key.
func MenuDate(t time.Time) string {
	return t.Format(MenuDateLayout)
}
