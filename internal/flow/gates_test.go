package flow

import (
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/paraglide/internal/catalog"
	"github.com/Domenick1991/paraglide/internal/catalog/catalogtest"
	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ict = time.FixedZone("ICT", 7*60*60)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newGates(t *testing.T, opts ...catalog.Option) *Gates {
	t.Helper()
	return NewGates(catalogtest.New(t, opts...), ict, fixedNow(time.Date(2026, 10, 19, 10, 0, 0, 0, ict)))
}

func validDraft() domain.Draft {
	d := domain.NewDraft(domain.LocationSapa)
	d.GuestsCount = 2
	d.DateISO = "2026-10-25"
	d.TimeSlot = "09:00"
	d.Contact = domain.Contact{Phone: "0900000000", Email: "guest@example.com"}
	d.Guests = []domain.Guest{
		{FullName: "Nguyen Van A", DateOfBirth: "1990-05-01", Gender: domain.GenderMale, IDNumber: "001", WeightKg: 70},
		{FullName: "Tran Thi B", DateOfBirth: "2025-12-31", Gender: domain.GenderFemale, IDNumber: "002", WeightKg: 45.5},
	}
	d.AcceptedTerms = true
	return d
}

func requireGate(t *testing.T, err error, step Step, field string, reason Reason) {
	t.Helper()
	var gateErr *GateError
	require.True(t, errors.As(err, &gateErr), "expected GateError, got %v", err)
	assert.Equal(t, step, gateErr.Step)
	assert.Equal(t, field, gateErr.Field)
	assert.Equal(t, reason, gateErr.Reason)
}

func TestGates_ValidDraftPassesEveryStep(t *testing.T) {
	g := newGates(t)
	assert.NoError(t, g.CheckThrough(StepReview, validDraft()))
	assert.NoError(t, g.Check(StepSuccess, validDraft()))
}

func TestGates_Location(t *testing.T) {
	g := newGates(t, catalog.WithAllowed(domain.LocationHaNoi))

	d := validDraft()
	requireGate(t, g.Check(StepSelectFlight, d), StepSelectFlight, "location", ReasonLocationUnavailable)

	d.Location = domain.LocationHaNoi
	assert.NoError(t, g.Check(StepSelectFlight, d))
}

func TestGates_LocationWithoutRate(t *testing.T) {
	g := newGates(t)

	d := validDraft()
	d.Location = domain.LocationDaNang
	requireGate(t, g.Check(StepSelectFlight, d), StepSelectFlight, "location", ReasonLocationUnpriced)
	requireGate(t, g.CheckThrough(StepReview, d), StepSelectFlight, "location", ReasonLocationUnpriced)

	d.Location = domain.LocationMuCangChai
	assert.NoError(t, g.Check(StepSelectFlight, d))
}

func TestGates_DateBoundary(t *testing.T) {
	g := newGates(t)

	testCases := []struct {
		date   string
		reason Reason
	}{
		{"2026-10-18", ReasonDateTooEarly},
		{"2026-10-19", ReasonDateTooEarly},
		{"2026-10-20", ""},
		{"2026-10-20T00:00:00.000Z", ""},
		{"", ReasonDateRequired},
		{"2026-10-20 09:00", ""},
		{"20/10/2026", ReasonDateRequired},
		{"2026-10-20junk", ReasonDateRequired},
	}

	for _, tc := range testCases {
		t.Run(tc.date, func(t *testing.T) {
			d := validDraft()
			d.DateISO = tc.date
			err := g.Check(StepContact, d)
			if tc.reason == "" {
				assert.NoError(t, err)
				return
			}
			requireGate(t, err, StepContact, "date", tc.reason)
		})
	}
}

func TestGates_DateUsesOperatorTimezone(t *testing.T) {
	// 18:00 UTC on the 19th is already 01:00 on the 20th in Vietnam.
	g := NewGates(catalogtest.New(t), ict, fixedNow(time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC)))

	d := validDraft()
	d.DateISO = "2026-10-20"
	requireGate(t, g.Check(StepContact, d), StepContact, "date", ReasonDateTooEarly)

	d.DateISO = "2026-10-21"
	assert.NoError(t, g.Check(StepContact, d))
}

func TestGates_Contact(t *testing.T) {
	g := newGates(t)

	d := validDraft()
	d.TimeSlot = ""
	requireGate(t, g.Check(StepContact, d), StepContact, "time_slot", ReasonTimeSlotRequired)

	d = validDraft()
	d.TimeSlot = "12:00"
	requireGate(t, g.Check(StepContact, d), StepContact, "time_slot", ReasonTimeSlotInvalid)

	d = validDraft()
	d.Contact.Phone = "   "
	requireGate(t, g.Check(StepContact, d), StepContact, "contact.phone", ReasonPhoneRequired)

	d = validDraft()
	d.Contact.Email = ""
	requireGate(t, g.Check(StepContact, d), StepContact, "contact.email", ReasonEmailRequired)
}

func TestGates_Guests(t *testing.T) {
	g := newGates(t)

	testCases := []struct {
		name   string
		mutate func(*domain.Guest)
		field  string
		reason Reason
	}{
		{"missing name", func(g *domain.Guest) { g.FullName = " " }, "guests[1].full_name", ReasonNameRequired},
		{"missing id", func(g *domain.Guest) { g.IDNumber = "" }, "guests[1].id_number", ReasonIDRequired},
		{"zero weight", func(g *domain.Guest) { g.WeightKg = 0 }, "guests[1].weight_kg", ReasonWeightInvalid},
		{"negative weight", func(g *domain.Guest) { g.WeightKg = -3 }, "guests[1].weight_kg", ReasonWeightInvalid},
		{"missing birth date", func(g *domain.Guest) { g.DateOfBirth = "" }, "guests[1].date_of_birth", ReasonBirthDateRequired},
		{"malformed birth date", func(g *domain.Guest) { g.DateOfBirth = "yesterday" }, "guests[1].date_of_birth", ReasonBirthDateInvalid},
		{"born this year", func(g *domain.Guest) { g.DateOfBirth = "2026-01-01" }, "guests[1].date_of_birth", ReasonBirthDateInvalid},
		{"born in the future", func(g *domain.Guest) { g.DateOfBirth = "2027-03-01" }, "guests[1].date_of_birth", ReasonBirthDateInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.mutate(&d.Guests[1])
			requireGate(t, g.Check(StepGuests, d), StepGuests, tc.field, tc.reason)
		})
	}

	d := validDraft()
	d.Guests = d.Guests[:1]
	requireGate(t, g.Check(StepGuests, d), StepGuests, "guests", ReasonGuestsMismatch)
}

func TestGates_Terms(t *testing.T) {
	g := newGates(t)
	d := validDraft()
	d.AcceptedTerms = false

	requireGate(t, g.Check(StepReview, d), StepReview, "accepted_terms", ReasonTermsRequired)
	assert.NoError(t, g.CheckThrough(StepGuests, d))
}

func TestGateError_Message(t *testing.T) {
	err := &GateError{Step: StepContact, Field: "date", Reason: ReasonDateTooEarly}

	assert.Equal(t, "The flight date must be tomorrow or later.", err.Message(domain.LanguageEN))
	assert.Equal(t, "Ngày bay phải từ ngày mai trở đi.", err.Message(domain.LanguageVI))
	assert.Equal(t, "step 2: date: date_too_early", err.Error())

	for reason := range messages {
		assert.NotEqual(t, string(reason), message(reason, domain.LanguageEN))
	}
}

func TestGates_Today(t *testing.T) {
	g := newGates(t)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, ict), g.Today())
}
