package pricing

import (
	"fmt"
	"sort"

	"github.com/Domenick1991/paraglide/config"
)

// DiscountTier reduces the per-person base price once a booking has at least
// MinGuests guests.
type DiscountTier struct {
	MinGuests    int
	PerPersonVND int64
}

// DiscountTable is sorted by MinGuests ascending.
type DiscountTable []DiscountTier

func NewDiscountTable(tiers ...DiscountTier) (DiscountTable, error) {
	table := make(DiscountTable, 0, len(tiers))
	seen := make(map[int]bool, len(tiers))
	for _, t := range tiers {
		if t.MinGuests < 2 {
			return nil, fmt.Errorf("pricing: discount tier needs min guests >= 2, got %d", t.MinGuests)
		}
		if t.PerPersonVND <= 0 {
			return nil, fmt.Errorf("pricing: discount tier for %d guests must be positive", t.MinGuests)
		}
		if seen[t.MinGuests] {
			return nil, fmt.Errorf("pricing: duplicate discount tier for %d guests", t.MinGuests)
		}
		seen[t.MinGuests] = true
		table = append(table, t)
	}
	sort.Slice(table, func(i, j int) bool { return table[i].MinGuests < table[j].MinGuests })
	return table, nil
}

func DiscountTableFromConfig(tiers []config.DiscountTier) (DiscountTable, error) {
	out := make([]DiscountTier, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, DiscountTier{MinGuests: t.MinGuests, PerPersonVND: t.PerPersonVND})
	}
	return NewDiscountTable(out...)
}

// PerPerson returns the discount of the highest tier reached by guests.
func (t DiscountTable) PerPerson(guests int) int64 {
	var discount int64
	for _, tier := range t {
		if guests < tier.MinGuests {
			break
		}
		discount = tier.PerPersonVND
	}
	return discount
}
