// Package menu implements the daily "menu of the day" selection and its
// get-or-create persistence contract.
package menu

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/tokodemo/storefront/internal/models"
)

// SeedForDate derives the deterministic RNG seed for a menu date. For a
// canonical YYYY-MM-DD date the seed is year*10000 + month*100 + day, so
// "2024-01-01" seeds as 20240101. Any other string falls back to an FNV-1a
// hash of its bytes. Same date, same seed, on every platform.
func SeedForDate(date string) int64 {
	if t, err := time.Parse(models.MenuDateLayout, date); err == nil {
		return int64(t.Year())*10000 + int64(t.Month())*100 + int64(t.Day())
	}
	h := fnv.New64a()
	h.Write([]byte(date))
	return int64(h.Sum64())
}

// Generate picks at most policy.ItemCount variants from the catalog snapshot
// for the given date. Variants whose IDs appear in recent are avoided while
// enough fresh candidates remain; when they do not, availability wins over
// variety and the recently-used pool is drawn from as well. The returned
// items carry only the persisted fields.
//
// Generate is pure: it never touches storage, and with SeedBasedOnDate set
// its output is fully determined by its inputs.
func Generate(date string, catalog []models.Variant, recent map[int64]bool, policy models.MenuPolicy) []models.MenuItem {
	if len(catalog) == 0 {
		return []models.MenuItem{}
	}

	var rnd *rand.Rand
	if policy.SeedBasedOnDate {
		rnd = rand.New(rand.NewSource(SeedForDate(date)))
	} else {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	candidates := make([]models.Variant, 0, len(catalog))
	var excluded []models.Variant
	for _, v := range catalog {
		if recent[v.VariantID] {
			excluded = append(excluded, v)
		} else {
			candidates = append(candidates, v)
		}
	}

	var chosen []models.Variant
	switch {
	case policy.PreferBestSellers && len(candidates) > 0:
		// Drawing with replacement and deduplicating can return fewer than
		// ItemCount distinct variants; callers tolerate short lists.
		chosen = dedupeByVariantID(weightedDraw(rnd, candidates, min(policy.ItemCount, len(candidates))))
	case len(candidates) >= policy.ItemCount:
		chosen = sampleWithoutReplacement(rnd, candidates, policy.ItemCount)
	default:
		if policy.PreferBestSellers {
			chosen = dedupeByVariantID(weightedDraw(rnd, catalog, min(policy.ItemCount, len(catalog))))
		} else {
			// Too few fresh candidates: keep them all, top up from the
			// recently-used pool.
			chosen = append(chosen, candidates...)
			if need := min(policy.ItemCount, len(catalog)) - len(chosen); need > 0 {
				chosen = append(chosen, sampleWithoutReplacement(rnd, excluded, need)...)
			}
		}
	}

	items := make([]models.MenuItem, 0, len(chosen))
	for _, v := range chosen {
		items = append(items, models.MenuItem{
			ProductID:   v.ProductID,
			VariantID:   v.VariantID,
			Name:        v.Name,
			VariantName: v.VariantName,
			Price:       v.Price,
			ImagePath:   v.ImagePath,
			Stock:       v.Stock,
		})
	}
	return items
}

// weightedDraw picks k variants with replacement, weighting each by
// max(1, SoldCount).
func weightedDraw(rnd *rand.Rand, variants []models.Variant, k int) []models.Variant {
	totalWeight := 0.0
	weights := make([]float64, len(variants))
	for i, v := range variants {
		w := float64(v.SoldCount)
		if w < 1 {
			w = 1
		}
		weights[i] = w
		totalWeight += w
	}

	picks := make([]models.Variant, 0, k)
	for n := 0; n < k; n++ {
		randomValue := rnd.Float64() * totalWeight
		cumulativeWeight := 0.0
		picked := variants[len(variants)-1]
		for i, w := range weights {
			cumulativeWeight += w
			if randomValue <= cumulativeWeight {
				picked = variants[i]
				break
			}
		}
		picks = append(picks, picked)
	}
	return picks
}

func sampleWithoutReplacement(rnd *rand.Rand, variants []models.Variant, k int) []models.Variant {
	if k > len(variants) {
		k = len(variants)
	}
	picks := make([]models.Variant, 0, k)
	for _, i := range rnd.Perm(len(variants))[:k] {
		picks = append(picks, variants[i])
	}
	return picks
}

func dedupeByVariantID(variants []models.Variant) []models.Variant {
	seen := make(map[int64]bool, len(variants))
	out := variants[:0:0]
	for _, v := range variants {
		if seen[v.VariantID] {
			continue
		}
		seen[v.VariantID] = true
		out = append(out, v)
	}
	return out
}
