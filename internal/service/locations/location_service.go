package locations

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/paraglide/internal/catalog"
	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/Domenick1991/paraglide/internal/flow"
	"github.com/Domenick1991/paraglide/internal/pricing"
)

var ErrNotFound = errors.New("location not bookable")

type LocationUseCase interface {
	List(ctx context.Context, lang domain.Language) (*Listing, error)
	Get(ctx context.Context, key domain.LocationKey, lang domain.Language) (*LocationView, error)
	Quote(ctx context.Context, input QuoteInput) (*pricing.Breakdown, error)
}

// Listing is what the select-flight step renders: bookable locations, the preselected
// one and the time slots on offer.
type Listing struct {
	Default   domain.LocationKey `json:"default"`
	TimeSlots []string           `json:"time_slots"`
	Locations []LocationView     `json:"locations"`
}

type LocationView struct {
	Key        domain.LocationKey `json:"key"`
	Name       string             `json:"name"`
	Currency   pricing.Currency   `json:"currency"`
	WeekdayVND int64              `json:"weekday_vnd"`
	WeekendVND int64              `json:"weekend_vnd"`
	Weekday    int64              `json:"weekday"`
	Weekend    int64              `json:"weekend"`
	Included   []string           `json:"included"`
	Excluded   []string           `json:"excluded"`
	Addons     []AddonView        `json:"addons"`
}

// AddonView lists every add-on; unavailable ones carry no price.
type AddonView struct {
	Key       domain.Addon `json:"key"`
	Label     string       `json:"label"`
	Available bool         `json:"available"`
	PriceVND  *int64       `json:"price_vnd,omitempty"`
	Price     *int64       `json:"price,omitempty"`
}

type QuoteInput struct {
	Location    domain.LocationKey   `json:"location"`
	GuestsCount int                  `json:"guests_count"`
	DateISO     string               `json:"date"`
	AddonsQty   map[domain.Addon]int `json:"addons_qty"`
	Language    domain.Language      `json:"language"`
}

type LocationService struct {
	catalog    *catalog.Catalog
	calculator *pricing.Calculator
}

func NewLocationService(cat *catalog.Catalog, calculator *pricing.Calculator) *LocationService {
	return &LocationService{catalog: cat, calculator: calculator}
}

func (s *LocationService) List(_ context.Context, lang domain.Language) (*Listing, error) {
	bookable := s.catalog.Bookable()
	out := &Listing{
		Default:   s.catalog.DefaultLocation(),
		TimeSlots: s.catalog.TimeSlots(),
		Locations: make([]LocationView, 0, len(bookable)),
	}
	for _, loc := range bookable {
		out.Locations = append(out.Locations, s.view(loc, lang))
	}
	return out, nil
}

func (s *LocationService) Get(_ context.Context, key domain.LocationKey, lang domain.Language) (*LocationView, error) {
	if !s.catalog.IsBookable(key) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	loc, err := s.catalog.Get(key)
	if err != nil {
		return nil, err
	}
	view := s.view(loc, lang)
	return &view, nil
}

// Quote prices a draft outside any session. Guest count and add-on quantities are
// clamped exactly as the flow store would clamp them.
func (s *LocationService) Quote(_ context.Context, input QuoteInput) (*pricing.Breakdown, error) {
	if !s.catalog.IsBookable(input.Location) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, input.Location)
	}

	store := flow.NewStore(s.catalog)
	err := store.Update(flow.Patch{
		Location:    &input.Location,
		GuestsCount: &input.GuestsCount,
		DateISO:     &input.DateISO,
		AddonsQty:   input.AddonsQty,
	})
	if err != nil {
		return nil, err
	}

	lang, ok := domain.ParseLanguage(string(input.Language))
	if !ok {
		lang = domain.DefaultLanguage
	}
	price, err := s.calculator.Compute(pricing.InputFromDraft(store.Draft()), lang)
	if err != nil {
		return nil, err
	}
	if price.Undetermined {
		return nil, fmt.Errorf("%w: %q has no rate for %s", ErrNotFound, input.Location, input.DateISO)
	}
	return &price, nil
}

func (s *LocationService) view(loc catalog.Location, lang domain.Language) LocationView {
	conv := s.calculator.Converter()
	cur := pricing.CurrencyFor(lang)

	v := LocationView{
		Key:        loc.Key,
		Name:       loc.Name.In(lang),
		Currency:   cur,
		WeekdayVND: loc.WeekdayVND,
		WeekendVND: loc.WeekendVND,
		Weekday:    conv.Convert(loc.WeekdayVND, cur),
		Weekend:    conv.Convert(loc.WeekendVND, cur),
		Included:   loc.Included.In(lang),
		Excluded:   loc.Excluded.In(lang),
		Addons:     make([]AddonView, 0, len(domain.Addons)),
	}
	for _, a := range domain.Addons {
		av := AddonView{Key: a, Label: a.Label(lang)}
		if vnd, ok := loc.AddonPrice(a); ok {
			display := conv.Convert(vnd, cur)
			av.Available = true
			av.PriceVND = &vnd
			av.Price = &display
		}
		v.Addons = append(v.Addons, av)
	}
	return v
}

var _ LocationUseCase = (*LocationService)(nil)
