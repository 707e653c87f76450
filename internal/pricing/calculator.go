package pricing

import (
	"errors"
	"fmt"

	"github.com/Domenick1991/paraglide/internal/catalog"
	"github.com/Domenick1991/paraglide/internal/domain"
)

var ErrInvalidGuests = errors.New("guests count must be at least 1")

// Input is the part of a draft that determines the price.
type Input struct {
	Location    domain.LocationKey
	GuestsCount int
	DateISO     string
	AddonsQty   map[domain.Addon]int
}

func InputFromDraft(d domain.Draft) Input {
	return Input{
		Location:    d.Location,
		GuestsCount: d.GuestsCount,
		DateISO:     d.DateISO,
		AddonsQty:   d.AddonsQty,
	}
}

// Breakdown is the computed price. Every amount outside Display is whole VND.
type Breakdown struct {
	Location           domain.LocationKey     `json:"location"`
	GuestsCount        int                    `json:"guests_count"`
	BasePricePerPerson int64                  `json:"base_price_per_person"`
	DiscountPerPerson  int64                  `json:"discount_per_person"`
	AddonsQty          map[domain.Addon]int   `json:"addons_qty"`
	AddonsTotal        map[domain.Addon]int64 `json:"addons_total"`
	BaseTotal          int64                  `json:"base_total"`
	AddonsSum          int64                  `json:"addons_sum"`
	TotalAfterDiscount int64                  `json:"total_after_discount"`
	// Undetermined is set when the location has no rate for the date; callers must
	// not present a zero base price as free.
	Undetermined bool    `json:"undetermined"`
	Display      Display `json:"display"`
}

// Display is the breakdown expressed in the currency of one language.
type Display struct {
	Language           domain.Language        `json:"language"`
	Currency           Currency               `json:"currency"`
	BasePricePerPerson int64                  `json:"base_price_per_person"`
	DiscountPerPerson  int64                  `json:"discount_per_person"`
	AddonsTotal        map[domain.Addon]int64 `json:"addons_total"`
	TotalAfterDiscount int64                  `json:"total_after_discount"`
	Total              string                 `json:"total"`
}

type Calculator struct {
	catalog   *catalog.Catalog
	discounts DiscountTable
	converter Converter
}

func NewCalculator(cat *catalog.Catalog, discounts DiscountTable, converter Converter) *Calculator {
	return &Calculator{catalog: cat, discounts: discounts, converter: converter}
}

func (c *Calculator) Converter() Converter { return c.converter }

// Compute prices in. The discount applies to the base fare only; add-ons unavailable at
// the location contribute a zero line.
func (c *Calculator) Compute(in Input, lang domain.Language) (Breakdown, error) {
	if in.GuestsCount < 1 {
		return Breakdown{}, fmt.Errorf("%w: %d", ErrInvalidGuests, in.GuestsCount)
	}
	loc, err := c.catalog.Get(in.Location)
	if err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{
		Location:           loc.Key,
		GuestsCount:        in.GuestsCount,
		BasePricePerPerson: loc.BasePrice(in.DateISO),
		AddonsQty:          map[domain.Addon]int{},
		AddonsTotal:        map[domain.Addon]int64{},
	}
	b.Undetermined = b.BasePricePerPerson == 0

	for _, a := range domain.Addons {
		qty := in.AddonsQty[a]
		if qty <= 0 {
			continue
		}
		b.AddonsQty[a] = qty
		unit, ok := loc.AddonPrice(a)
		if !ok {
			unit = 0
		}
		b.AddonsTotal[a] = unit * int64(qty)
		b.AddonsSum += b.AddonsTotal[a]
	}

	b.DiscountPerPerson = min(c.discounts.PerPerson(in.GuestsCount), b.BasePricePerPerson)
	b.BaseTotal = (b.BasePricePerPerson - b.DiscountPerPerson) * int64(in.GuestsCount)
	b.TotalAfterDiscount = b.BaseTotal + b.AddonsSum
	b.Display = c.View(b, lang)
	return b, nil
}

// View re-expresses an existing breakdown for lang without recomputing it.
func (c *Calculator) View(b Breakdown, lang domain.Language) Display {
	cur := CurrencyFor(lang)
	d := Display{
		Language:           lang,
		Currency:           cur,
		BasePricePerPerson: c.converter.Convert(b.BasePricePerPerson, cur),
		DiscountPerPerson:  c.converter.Convert(b.DiscountPerPerson, cur),
		AddonsTotal:        make(map[domain.Addon]int64, len(b.AddonsTotal)),
		TotalAfterDiscount: c.converter.Convert(b.TotalAfterDiscount, cur),
	}
	for a, v := range b.AddonsTotal {
		d.AddonsTotal[a] = c.converter.Convert(v, cur)
	}
	d.Total = Format(d.TotalAfterDiscount, cur)
	return d
}
