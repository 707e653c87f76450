package catalog

import (
	"strings"
	"time"

	"github.com/Domenick1991/paraglide/internal/domain"
)

type Text struct {
	VI string `json:"vi"`
	EN string `json:"en"`
}

// In returns the text for lang, falling back to the other language when missing.
func (t Text) In(lang domain.Language) string {
	if lang == domain.LanguageEN && t.EN != "" {
		return t.EN
	}
	if t.VI != "" {
		return t.VI
	}
	return t.EN
}

type List struct {
	VI []string `json:"vi"`
	EN []string `json:"en"`
}

func (l List) In(lang domain.Language) []string {
	if lang == domain.LanguageEN && len(l.EN) > 0 {
		return l.EN
	}
	if len(l.VI) > 0 {
		return l.VI
	}
	return l.EN
}

// AddonPrices holds per-person VND prices. A nil price marks the add-on unavailable.
type AddonPrices struct {
	Pickup    *int64
	Flycam    *int64
	Camera360 *int64
}

// Price returns the unit price of a and whether the add-on is offered.
func (p AddonPrices) Price(a domain.Addon) (int64, bool) {
	var price *int64
	switch a {
	case domain.AddonPickup:
		price = p.Pickup
	case domain.AddonFlycam:
		price = p.Flycam
	case domain.AddonCamera360:
		price = p.Camera360
	default:
		return 0, false
	}
	if price == nil {
		return 0, false
	}
	return *price, true
}

// Location is the pricing and service description of one flight site.
type Location struct {
	Key        domain.LocationKey
	Name       Text
	WeekdayVND int64
	WeekendVND int64
	Included   List
	Excluded   List
	Addons     AddonPrices
}

// BasePrice returns the per-person VND rate for the given date. Weekend dates use the
// weekend rate when one is configured. A result of 0 means the price is undetermined.
func (l Location) BasePrice(dateISO string) int64 {
	if l.WeekendVND > 0 && IsWeekend(dateISO) {
		return l.WeekendVND
	}
	return l.WeekdayVND
}

// HasRate reports whether any base rate is configured.
func (l Location) HasRate() bool {
	return l.WeekdayVND > 0 || l.WeekendVND > 0
}

func (l Location) AddonPrice(a domain.Addon) (int64, bool) {
	return l.Addons.Price(a)
}

// ParseDate reads the calendar date of an ISO string ("2006-01-02", optionally followed
// by a 'T' or space separated time part) in loc.
func ParseDate(dateISO string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(dateISO)
	if len(s) < len("2006-01-02") {
		return time.Time{}, false
	}
	if len(s) > 10 && s[10] != 'T' && s[10] != ' ' {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", s[:10], loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsWeekend reports whether dateISO falls on Saturday or Sunday. Malformed dates are
// treated as weekdays.
func IsWeekend(dateISO string) bool {
	d, ok := ParseDate(dateISO, time.UTC)
	if !ok {
		return false
	}
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
