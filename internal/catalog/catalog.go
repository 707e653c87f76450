package catalog

import (
	"errors"
	"fmt"

	"github.com/Domenick1991/paraglide/config"
	"github.com/Domenick1991/paraglide/internal/domain"
)

var ErrNotFound = errors.New("location not found")

// Catalog is the read-only set of configured locations, optionally narrowed by an
// allow-list of keys that are bookable at runtime.
type Catalog struct {
	locations  map[domain.LocationKey]Location
	order      []domain.LocationKey
	allowed    map[domain.LocationKey]bool
	defaultKey domain.LocationKey
	timeSlots  []string
}

type Option func(*Catalog)

// WithAllowed restricts bookable locations to keys. Keys that are not configured are
// ignored. An empty list leaves every configured location bookable.
func WithAllowed(keys ...domain.LocationKey) Option {
	return func(c *Catalog) {
		if len(keys) == 0 {
			c.allowed = nil
			return
		}
		c.allowed = make(map[domain.LocationKey]bool, len(keys))
		for _, k := range keys {
			c.allowed[k] = true
		}
	}
}

func WithDefault(key domain.LocationKey) Option {
	return func(c *Catalog) {
		c.defaultKey = key
	}
}

func WithTimeSlots(slots ...string) Option {
	return func(c *Catalog) {
		c.timeSlots = append([]string(nil), slots...)
	}
}

func New(locations []Location, opts ...Option) (*Catalog, error) {
	if len(locations) == 0 {
		return nil, errors.New("catalog: no locations configured")
	}

	c := &Catalog{locations: make(map[domain.LocationKey]Location, len(locations))}
	for _, loc := range locations {
		if _, ok := domain.ParseLocationKey(string(loc.Key)); !ok {
			return nil, fmt.Errorf("catalog: unsupported location %q", loc.Key)
		}
		if _, dup := c.locations[loc.Key]; dup {
			return nil, fmt.Errorf("catalog: duplicate location %q", loc.Key)
		}
		if loc.WeekdayVND < 0 || loc.WeekendVND < 0 {
			return nil, fmt.Errorf("catalog: negative base price for %q", loc.Key)
		}
		for _, a := range domain.Addons {
			if p, ok := loc.AddonPrice(a); ok && p < 0 {
				return nil, fmt.Errorf("catalog: negative %s price for %q", a, loc.Key)
			}
		}
		c.locations[loc.Key] = loc
		c.order = append(c.order, loc.Key)
	}

	for _, opt := range opts {
		opt(c)
	}

	if len(c.Bookable()) == 0 {
		return nil, errors.New("catalog: allow-list excludes every configured location")
	}
	if c.defaultKey == "" || !c.IsBookable(c.defaultKey) {
		c.defaultKey = c.Bookable()[0].Key
	}
	return c, nil
}

// FromConfig builds the catalog from the catalog section of the config file.
func FromConfig(cfg config.CatalogConfig) (*Catalog, error) {
	locations := make([]Location, 0, len(cfg.Locations))
	for _, lc := range cfg.Locations {
		key, ok := domain.ParseLocationKey(lc.Key)
		if !ok {
			return nil, fmt.Errorf("catalog: unsupported location %q", lc.Key)
		}
		locations = append(locations, Location{
			Key:        key,
			Name:       Text{VI: lc.Name.VI, EN: lc.Name.EN},
			WeekdayVND: lc.WeekdayVND,
			WeekendVND: lc.WeekendVND,
			Included:   List{VI: lc.Included.VI, EN: lc.Included.EN},
			Excluded:   List{VI: lc.Excluded.VI, EN: lc.Excluded.EN},
			Addons: AddonPrices{
				Pickup:    lc.Addons.Pickup,
				Flycam:    lc.Addons.Flycam,
				Camera360: lc.Addons.Camera360,
			},
		})
	}

	allowed := make([]domain.LocationKey, 0, len(cfg.AllowedLocations))
	for _, raw := range cfg.AllowedLocations {
		allowed = append(allowed, domain.LocationKey(raw))
	}

	return New(locations,
		WithAllowed(allowed...),
		WithDefault(domain.LocationKey(cfg.DefaultLocation)),
		WithTimeSlots(cfg.TimeSlots...),
	)
}

// Get returns a configured location whether or not it is currently bookable.
func (c *Catalog) Get(key domain.LocationKey) (Location, error) {
	loc, ok := c.locations[key]
	if !ok {
		return Location{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return loc, nil
}

func (c *Catalog) Has(key domain.LocationKey) bool {
	_, ok := c.locations[key]
	return ok
}

func (c *Catalog) IsBookable(key domain.LocationKey) bool {
	if !c.Has(key) {
		return false
	}
	return c.allowed == nil || c.allowed[key]
}

// Bookable lists configured locations that pass the allow-list, in configuration order.
func (c *Catalog) Bookable() []Location {
	out := make([]Location, 0, len(c.order))
	for _, key := range c.order {
		if c.IsBookable(key) {
			out = append(out, c.locations[key])
		}
	}
	return out
}

func (c *Catalog) DefaultLocation() domain.LocationKey {
	return c.defaultKey
}

func (c *Catalog) TimeSlots() []string {
	return append([]string(nil), c.timeSlots...)
}

// IsTimeSlot reports whether slot may be booked. With no configured slots any
// non-empty value is accepted.
func (c *Catalog) IsTimeSlot(slot string) bool {
	if slot == "" {
		return false
	}
	if len(c.timeSlots) == 0 {
		return true
	}
	for _, s := range c.timeSlots {
		if s == slot {
			return true
		}
	}
	return false
}
