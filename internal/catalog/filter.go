package catalog

import (
	"fmt"
	"math"
	"strings"
)

// PriceBand is a price filter on the services page. Bounds are inclusive.
type PriceBand struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// Contains reports whether price falls inside the band.
func (b PriceBand) Contains(price int) bool {
	return price >= b.Min && price <= b.Max
}

// PriceBands returns the price filters in display order.
func PriceBands() []PriceBand {
	return []PriceBand{
		{Key: "all", Label: "ทุกราคา", Min: 0, Max: math.MaxInt},
		{Key: "under-3000", Label: "ต่ำกว่า ฿3,000", Min: 0, Max: 3000},
		{Key: "3000-4500", Label: "฿3,000-฿4,500", Min: 3000, Max: 4500},
		{Key: "4500-plus", Label: "฿4,500+", Min: 4500, Max: math.MaxInt},
	}
}

// LookupPriceBand resolves a band key. An empty key selects "all".
func LookupPriceBand(key string) (PriceBand, error) {
	if key == "" {
		key = "all"
	}
	for _, band := range PriceBands() {
		if band.Key == key {
			return band, nil
		}
	}
	return PriceBand{}, fmt.Errorf("%w: %q", ErrUnknownBand, key)
}

// Filter narrows the menu the way the services page does.
type Filter struct {
	Category string
	Band     PriceBand
	Query    string
}

// Matches reports whether item passes every criterion of f.
func (f Filter) Matches(item ServiceItem) bool {
	if f.Category != "" && f.Category != CategoryAll && item.Category != f.Category {
		return false
	}
	if f.Band.Key != "" && !f.Band.Contains(item.PriceRange) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Name), q) ||
		strings.Contains(strings.ToLower(item.Description), q)
}

// Apply returns the items of p that match f, in menu order.
func Apply(p Provider, f Filter) []ServiceItem {
	out := make([]ServiceItem, 0)
	for _, item := range p.All() {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}
