// Package flow holds the multi-step booking draft. A Store belongs to exactly one
// customer session; it is not safe for concurrent use.
package flow

import (
	"errors"
	"fmt"

	"github.com/Domenick1991/paraglide/internal/catalog"
	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/Domenick1991/paraglide/internal/pricing"
)

type Step int

const (
	StepSelectFlight Step = iota + 1
	StepContact
	StepGuests
	StepReview
	StepSuccess
)

const (
	MinGuests = 1
	MaxGuests = 100
)

var (
	ErrUnknownLocation = errors.New("unknown location")
	ErrGuestIndex      = errors.New("guest index out of range")
	ErrInvalidStep     = errors.New("invalid step")
)

func (s Step) Valid() bool {
	return s >= StepSelectFlight && s <= StepSuccess
}

// Snapshot is the serialisable state of a Store.
type Snapshot struct {
	Step         Step                 `json:"step"`
	Draft        domain.Draft         `json:"draft"`
	Confirmation *domain.Confirmation `json:"confirmation,omitempty"`
	Submitted    *pricing.Breakdown   `json:"submitted,omitempty"`
}

type Store struct {
	catalog      *catalog.Catalog
	step         Step
	draft        domain.Draft
	confirmation *domain.Confirmation
	submitted    *pricing.Breakdown
}

func NewStore(cat *catalog.Catalog) *Store {
	s := &Store{catalog: cat}
	s.Reset()
	return s
}

// Restore rebuilds a Store from a snapshot, re-establishing the draft invariants.
func Restore(cat *catalog.Catalog, snap Snapshot) (*Store, error) {
	if !snap.Step.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStep, snap.Step)
	}
	if !cat.Has(snap.Draft.Location) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, snap.Draft.Location)
	}

	d := snap.Draft.Clone()
	resizeGuests(&d, clampGuests(d.GuestsCount))
	qty := d.AddonsQty
	d.AddonsQty = map[domain.Addon]int{}
	for a, q := range qty {
		setAddonQty(&d, a, q)
	}

	s := &Store{catalog: cat, step: snap.Step, draft: d}
	if snap.Confirmation != nil {
		c := *snap.Confirmation
		s.confirmation = &c
	}
	if snap.Submitted != nil {
		b := *snap.Submitted
		s.submitted = &b
	}
	return s, nil
}

func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{Step: s.step, Draft: s.draft.Clone()}
	if s.confirmation != nil {
		c := *s.confirmation
		snap.Confirmation = &c
	}
	if s.submitted != nil {
		b := *s.submitted
		snap.Submitted = &b
	}
	return snap
}

func (s *Store) Step() Step { return s.step }

func (s *Store) Draft() domain.Draft { return s.draft.Clone() }

func (s *Store) Confirmation() *domain.Confirmation {
	if s.confirmation == nil {
		return nil
	}
	c := *s.confirmation
	return &c
}

// SubmittedPrice is the breakdown sent with the successful submission.
func (s *Store) SubmittedPrice() *pricing.Breakdown {
	if s.submitted == nil {
		return nil
	}
	b := *s.submitted
	return &b
}

func (s *Store) Next() Step {
	if s.step < StepSuccess {
		s.step++
	}
	return s.step
}

func (s *Store) Back() Step {
	if s.step > StepSelectFlight {
		s.step--
	}
	return s.step
}

// RewindTo moves back to an earlier step. Later or invalid steps are ignored.
func (s *Store) RewindTo(step Step) Step {
	if step.Valid() && step < s.step {
		s.step = step
	}
	return s.step
}

// Reset starts over with a default draft and forgets any confirmation.
func (s *Store) Reset() {
	s.step = StepSelectFlight
	s.draft = domain.NewDraft(s.catalog.DefaultLocation())
	s.confirmation = nil
	s.submitted = nil
}

// Complete records a successful submission and moves to the success step.
func (s *Store) Complete(conf domain.Confirmation, price pricing.Breakdown) {
	s.confirmation = &conf
	s.submitted = &price
	s.step = StepSuccess
}

// Patch is a partial draft. Nil fields are left unchanged. Guests and AddonsQty
// replace the current values when non-nil.
type Patch struct {
	Location      *domain.LocationKey
	GuestsCount   *int
	DateISO       *string
	TimeSlot      *string
	Contact       *domain.Contact
	Guests        []domain.Guest
	AddonsQty     map[domain.Addon]int
	AcceptedTerms *bool
}

// Update merges p into the draft. Switching location drops every add-on selection.
// The draft is left untouched when an error is returned.
func (s *Store) Update(p Patch) error {
	next := s.draft.Clone()

	if p.Location != nil && *p.Location != next.Location {
		if !s.catalog.Has(*p.Location) {
			return fmt.Errorf("%w: %q", ErrUnknownLocation, *p.Location)
		}
		next.Location = *p.Location
		next.AddonsQty = map[domain.Addon]int{}
	}
	if p.GuestsCount != nil {
		resizeGuests(&next, clampGuests(*p.GuestsCount))
	}
	if p.DateISO != nil {
		next.DateISO = *p.DateISO
	}
	if p.TimeSlot != nil {
		next.TimeSlot = *p.TimeSlot
	}
	if p.Contact != nil {
		next.Contact = *p.Contact
	}
	if p.Guests != nil {
		next.Guests = append([]domain.Guest(nil), p.Guests...)
		resizeGuests(&next, next.GuestsCount)
	}
	if p.AddonsQty != nil {
		next.AddonsQty = map[domain.Addon]int{}
		for a, q := range p.AddonsQty {
			setAddonQty(&next, a, q)
		}
	}
	if p.AcceptedTerms != nil {
		next.AcceptedTerms = *p.AcceptedTerms
	}

	s.draft = next
	return nil
}

// SetGuestsCount clamps n to [MinGuests, MaxGuests], resizes the guest list and
// re-clamps add-on quantities to the new count.
func (s *Store) SetGuestsCount(n int) {
	resizeGuests(&s.draft, clampGuests(n))
}

type GuestPatch struct {
	FullName    *string
	DateOfBirth *string
	Gender      *domain.Gender
	IDNumber    *string
	WeightKg    *float64
	Nationality *string
}

func (s *Store) SetGuest(index int, p GuestPatch) error {
	if index < 0 || index >= s.draft.GuestsCount {
		return fmt.Errorf("%w: %d", ErrGuestIndex, index)
	}
	g := s.draft.Guests[index]
	if p.FullName != nil {
		g.FullName = *p.FullName
	}
	if p.DateOfBirth != nil {
		g.DateOfBirth = *p.DateOfBirth
	}
	if p.Gender != nil {
		if gender, ok := domain.ParseGender(string(*p.Gender)); ok {
			g.Gender = gender
		}
	}
	if p.IDNumber != nil {
		g.IDNumber = *p.IDNumber
	}
	if p.WeightKg != nil {
		g.WeightKg = *p.WeightKg
	}
	if p.Nationality != nil {
		g.Nationality = *p.Nationality
	}
	s.draft.Guests[index] = g
	return nil
}

type ContactPatch struct {
	Phone          *string
	Email          *string
	PickupLocation *string
	SpecialRequest *string
}

func (s *Store) SetContact(p ContactPatch) {
	c := &s.draft.Contact
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.PickupLocation != nil {
		c.PickupLocation = *p.PickupLocation
	}
	if p.SpecialRequest != nil {
		c.SpecialRequest = *p.SpecialRequest
	}
}

// SetAddonQty clamps qty to [0, guests]; zero removes the selection.
func (s *Store) SetAddonQty(a domain.Addon, qty int) {
	setAddonQty(&s.draft, a, qty)
}

func clampGuests(n int) int {
	return max(MinGuests, min(n, MaxGuests))
}

func resizeGuests(d *domain.Draft, n int) {
	guests := make([]domain.Guest, n)
	copied := copy(guests, d.Guests)
	for i := copied; i < n; i++ {
		guests[i] = domain.NewGuest()
	}
	d.Guests = guests
	d.GuestsCount = n

	for a, q := range d.AddonsQty {
		if q > n {
			d.AddonsQty[a] = n
		}
		if d.AddonsQty[a] <= 0 {
			delete(d.AddonsQty, a)
		}
	}
}

func setAddonQty(d *domain.Draft, a domain.Addon, qty int) {
	if _, ok := domain.ParseAddon(string(a)); !ok {
		return
	}
	if d.AddonsQty == nil {
		d.AddonsQty = map[domain.Addon]int{}
	}
	qty = min(qty, max(1, d.GuestsCount))
	if qty <= 0 {
		delete(d.AddonsQty, a)
		return
	}
	d.AddonsQty[a] = qty
}
