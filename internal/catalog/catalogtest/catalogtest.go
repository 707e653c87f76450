// Package catalogtest provides a fixed catalog for tests in other packages.
package catalogtest

import (
	"testing"

	"github.com/Domenick1991/paraglide/internal/catalog"
	"github.com/Domenick1991/paraglide/internal/domain"
)

// Dates with a known weekday, far enough in the past that they are never confused
// with "today" in gate tests.
const (
	Wednesday = "2024-06-05"
	Saturday  = "2024-06-08"
)

var TimeSlots = []string{"07:00", "09:00", "15:00", "16:30"}

func Price(v int64) *int64 { return &v }

// Locations: sapa offers every add-on, ha_noi has no pickup or 360 camera,
// mu_cang_chai has no weekend rate, da_nang has no rate at all.
func Locations() []catalog.Location {
	return []catalog.Location{
		{
			Key:        domain.LocationSapa,
			Name:       catalog.Text{VI: "Sa Pa", EN: "Sapa"},
			WeekdayVND: 1_500_000,
			WeekendVND: 1_800_000,
			Included:   catalog.List{VI: []string{"Phi công"}, EN: []string{"Tandem pilot"}},
			Excluded:   catalog.List{VI: []string{"Ăn trưa"}, EN: []string{"Lunch"}},
			Addons: catalog.AddonPrices{
				Pickup:    Price(200_000),
				Flycam:    Price(300_000),
				Camera360: Price(250_000),
			},
		},
		{
			Key:        domain.LocationHaNoi,
			Name:       catalog.Text{VI: "Hà Nội", EN: "Hanoi"},
			WeekdayVND: 1_200_000,
			WeekendVND: 1_400_000,
			Addons:     catalog.AddonPrices{Flycam: Price(300_000)},
		},
		{
			Key:        domain.LocationMuCangChai,
			Name:       catalog.Text{VI: "Mù Cang Chải", EN: "Mu Cang Chai"},
			WeekdayVND: 2_000_000,
			Addons: catalog.AddonPrices{
				Pickup:    Price(400_000),
				Flycam:    Price(350_000),
				Camera360: Price(250_000),
			},
		},
		{
			Key:  domain.LocationDaNang,
			Name: catalog.Text{VI: "Đà Nẵng", EN: "Da Nang"},
		},
	}
}

func New(t testing.TB, opts ...catalog.Option) *catalog.Catalog {
	t.Helper()
	opts = append([]catalog.Option{
		catalog.WithDefault(domain.LocationSapa),
		catalog.WithTimeSlots(TimeSlots...),
	}, opts...)
	c, err := catalog.New(Locations(), opts...)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}
