package flow

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Domenick1991/paraglide/internal/catalog"
	"github.com/Domenick1991/paraglide/internal/domain"
)

type Reason string

const (
	ReasonLocationUnavailable Reason = "location_unavailable"
	ReasonLocationUnpriced    Reason = "location_unpriced"
	ReasonDateRequired        Reason = "date_required"
	ReasonDateTooEarly        Reason = "date_too_early"
	ReasonTimeSlotRequired    Reason = "time_slot_required"
	ReasonTimeSlotInvalid     Reason = "time_slot_invalid"
	ReasonPhoneRequired       Reason = "phone_required"
	ReasonEmailRequired       Reason = "email_required"
	ReasonGuestsMismatch      Reason = "guests_mismatch"
	ReasonNameRequired        Reason = "name_required"
	ReasonIDRequired          Reason = "id_required"
	ReasonWeightInvalid       Reason = "weight_invalid"
	ReasonBirthDateRequired   Reason = "birth_date_required"
	ReasonBirthDateInvalid    Reason = "birth_date_invalid"
	ReasonTermsRequired       Reason = "terms_required"
)

// GateError explains why the flow cannot leave Step.
type GateError struct {
	Step   Step
	Field  string
	Reason Reason
}

func (e *GateError) Error() string {
	return fmt.Sprintf("step %d: %s: %s", e.Step, e.Field, e.Reason)
}

func (e *GateError) Message(lang domain.Language) string {
	return message(e.Reason, lang)
}

// Gates decides whether a draft may leave a step. Dates are compared as calendar days
// in the operator's time zone.
type Gates struct {
	catalog *catalog.Catalog
	loc     *time.Location
	now     func() time.Time
}

func NewGates(cat *catalog.Catalog, loc *time.Location, now func() time.Time) *Gates {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Gates{catalog: cat, loc: loc, now: now}
}

// Today is the current calendar day at midnight in the operator's time zone.
func (g *Gates) Today() time.Time {
	n := g.now().In(g.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, g.loc)
}

func (g *Gates) Location() *time.Location { return g.loc }

// Check returns the first condition that blocks leaving step, or nil.
func (g *Gates) Check(step Step, d domain.Draft) error {
	switch step {
	case StepSelectFlight:
		return g.checkFlight(d)
	case StepContact:
		return g.checkContact(d)
	case StepGuests:
		return g.checkGuests(d)
	case StepReview:
		if !d.AcceptedTerms {
			return &GateError{Step: StepReview, Field: "accepted_terms", Reason: ReasonTermsRequired}
		}
		return nil
	default:
		return nil
	}
}

// CheckThrough runs every gate from the first step up to and including last.
func (g *Gates) CheckThrough(last Step, d domain.Draft) error {
	for step := StepSelectFlight; step <= last && step < StepSuccess; step++ {
		if err := g.Check(step, d); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gates) checkFlight(d domain.Draft) error {
	if !g.catalog.IsBookable(d.Location) {
		return &GateError{Step: StepSelectFlight, Field: "location", Reason: ReasonLocationUnavailable}
	}
	if loc, err := g.catalog.Get(d.Location); err != nil || !loc.HasRate() {
		return &GateError{Step: StepSelectFlight, Field: "location", Reason: ReasonLocationUnpriced}
	}
	return nil
}

func (g *Gates) checkContact(d domain.Draft) error {
	fail := func(field string, r Reason) error {
		return &GateError{Step: StepContact, Field: field, Reason: r}
	}

	if strings.TrimSpace(d.DateISO) == "" {
		return fail("date", ReasonDateRequired)
	}
	date, ok := catalog.ParseDate(d.DateISO, g.loc)
	if !ok {
		return fail("date", ReasonDateRequired)
	}
	if date.Before(g.Today().AddDate(0, 0, 1)) {
		return fail("date", ReasonDateTooEarly)
	}
	if strings.TrimSpace(d.TimeSlot) == "" {
		return fail("time_slot", ReasonTimeSlotRequired)
	}
	if !g.catalog.IsTimeSlot(d.TimeSlot) {
		return fail("time_slot", ReasonTimeSlotInvalid)
	}
	if strings.TrimSpace(d.Contact.Phone) == "" {
		return fail("contact.phone", ReasonPhoneRequired)
	}
	if strings.TrimSpace(d.Contact.Email) == "" {
		return fail("contact.email", ReasonEmailRequired)
	}
	return nil
}

func (g *Gates) checkGuests(d domain.Draft) error {
	if len(d.Guests) != d.GuestsCount || d.GuestsCount < MinGuests {
		return &GateError{Step: StepGuests, Field: "guests", Reason: ReasonGuestsMismatch}
	}
	today := g.Today()
	for i, guest := range d.Guests {
		fail := func(field string, r Reason) error {
			return &GateError{Step: StepGuests, Field: fmt.Sprintf("guests[%d].%s", i, field), Reason: r}
		}
		if strings.TrimSpace(guest.FullName) == "" {
			return fail("full_name", ReasonNameRequired)
		}
		if strings.TrimSpace(guest.IDNumber) == "" {
			return fail("id_number", ReasonIDRequired)
		}
		if !(guest.WeightKg > 0) || math.IsInf(guest.WeightKg, 0) {
			return fail("weight_kg", ReasonWeightInvalid)
		}
		if strings.TrimSpace(guest.DateOfBirth) == "" {
			return fail("date_of_birth", ReasonBirthDateRequired)
		}
		dob, ok := catalog.ParseDate(guest.DateOfBirth, g.loc)
		if !ok || dob.After(today) || dob.Year() == today.Year() {
			return fail("date_of_birth", ReasonBirthDateInvalid)
		}
	}
	return nil
}
