package catalog_test

import (
	"testing"
	"time"

	"github.com/Domenick1991/paraglide/config"
	"github.com/Domenick1991/paraglide/internal/catalog"
	"github.com/Domenick1991/paraglide/internal/catalog/catalogtest"
	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Get(t *testing.T) {
	c := catalogtest.New(t)

	loc, err := c.Get(domain.LocationSapa)
	require.NoError(t, err)
	assert.Equal(t, "Sapa", loc.Name.In(domain.LanguageEN))
	assert.Equal(t, "Sa Pa", loc.Name.In(domain.LanguageVI))

	_, err = c.Get("nha_trang")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestLocation_BasePrice(t *testing.T) {
	c := catalogtest.New(t)
	sapa, _ := c.Get(domain.LocationSapa)
	mcc, _ := c.Get(domain.LocationMuCangChai)
	dn, _ := c.Get(domain.LocationDaNang)

	testCases := []struct {
		name string
		loc  catalog.Location
		date string
		want int64
	}{
		{"weekday", sapa, catalogtest.Wednesday, 1_500_000},
		{"weekend", sapa, catalogtest.Saturday, 1_800_000},
		{"sunday", sapa, "2024-06-09", 1_800_000},
		{"timestamp suffix", sapa, "2024-06-08T10:00:00.000Z", 1_800_000},
		{"no date", sapa, "", 1_500_000},
		{"malformed date", sapa, "08/06/2024", 1_500_000},
		{"no weekend rate", mcc, catalogtest.Saturday, 2_000_000},
		{"no rate at all", dn, catalogtest.Saturday, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.loc.BasePrice(tc.date))
		})
	}
}

func TestLocation_AddonPrice(t *testing.T) {
	c := catalogtest.New(t)
	hn, _ := c.Get(domain.LocationHaNoi)

	price, ok := hn.AddonPrice(domain.AddonFlycam)
	assert.True(t, ok)
	assert.Equal(t, int64(300_000), price)

	_, ok = hn.AddonPrice(domain.AddonPickup)
	assert.False(t, ok)

	_, ok = hn.AddonPrice(domain.Addon("drone"))
	assert.False(t, ok)
}

func TestCatalog_AllowList(t *testing.T) {
	c := catalogtest.New(t, catalog.WithAllowed(domain.LocationHaNoi, domain.LocationDaNang, "nha_trang"))

	var keys []domain.LocationKey
	for _, loc := range c.Bookable() {
		keys = append(keys, loc.Key)
	}
	assert.Equal(t, []domain.LocationKey{domain.LocationHaNoi, domain.LocationDaNang}, keys)
	assert.False(t, c.IsBookable(domain.LocationSapa))
	assert.True(t, c.Has(domain.LocationSapa))
	assert.False(t, c.IsBookable("nha_trang"))

	// sapa is configured as default but not bookable
	assert.Equal(t, domain.LocationHaNoi, c.DefaultLocation())
}

func TestCatalog_NoAllowList(t *testing.T) {
	c := catalogtest.New(t, catalog.WithAllowed())
	assert.Len(t, c.Bookable(), len(catalogtest.Locations()))
	assert.Equal(t, domain.LocationSapa, c.DefaultLocation())
}

func TestCatalog_TimeSlots(t *testing.T) {
	c := catalogtest.New(t)
	assert.True(t, c.IsTimeSlot("09:00"))
	assert.False(t, c.IsTimeSlot("10:00"))
	assert.False(t, c.IsTimeSlot(""))

	open, err := catalog.New(catalogtest.Locations())
	require.NoError(t, err)
	assert.True(t, open.IsTimeSlot("10:00"))
	assert.False(t, open.IsTimeSlot(""))
}

func TestNew_Errors(t *testing.T) {
	_, err := catalog.New(nil)
	assert.Error(t, err)

	locs := catalogtest.Locations()
	_, err = catalog.New(append(locs, locs[0]))
	assert.ErrorContains(t, err, "duplicate")

	bad := catalogtest.Locations()
	bad[0].Addons.Flycam = catalogtest.Price(-1)
	_, err = catalog.New(bad)
	assert.ErrorContains(t, err, "negative")

	_, err = catalog.New(catalogtest.Locations(), catalog.WithAllowed("nha_trang"))
	assert.ErrorContains(t, err, "allow-list")
}

func TestFromConfig(t *testing.T) {
	flycam := int64(300_000)
	cfg := config.CatalogConfig{
		DefaultLocation:  "sapa",
		AllowedLocations: []string{"sapa"},
		TimeSlots:        []string{"07:00"},
		Locations: []config.LocationConfig{
			{
				Key:        "sapa",
				Name:       config.LocalizedText{VI: "Sa Pa", EN: "Sapa"},
				WeekdayVND: 1_500_000,
				Addons:     config.AddonPrices{Flycam: &flycam},
			},
			{Key: "ha_noi", WeekdayVND: 1_200_000},
		},
	}

	c, err := catalog.FromConfig(cfg)
	require.NoError(t, err)
	assert.Len(t, c.Bookable(), 1)
	assert.True(t, c.Has(domain.LocationHaNoi))
	assert.Equal(t, []string{"07:00"}, c.TimeSlots())

	cfg.Locations = append(cfg.Locations, config.LocationConfig{Key: "atlantis"})
	_, err = catalog.FromConfig(cfg)
	assert.ErrorContains(t, err, "unsupported location")
}

func TestParseDate(t *testing.T) {
	testCases := []struct {
		raw string
		ok  bool
	}{
		{"2026-10-20", true},
		{" 2026-10-20 ", true},
		{"2026-10-20T09:00:00Z", true},
		{"2026-10-20 09:00", true},
		{"2026-10-20junk", false},
		{"2026-10-2", false},
		{"2026-13-01", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			d, ok := catalog.ParseDate(tc.raw, time.UTC)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), d)
			}
		})
	}
}

func TestLocation_HasRate(t *testing.T) {
	c := catalogtest.New(t)

	sapa, err := c.Get(domain.LocationSapa)
	require.NoError(t, err)
	assert.True(t, sapa.HasRate())

	dn, err := c.Get(domain.LocationDaNang)
	require.NoError(t, err)
	assert.False(t, dn.HasRate())

	assert.True(t, catalog.Location{WeekendVND: 1_000_000}.HasRate())
}
