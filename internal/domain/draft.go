package domain

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func ParseGender(raw string) (Gender, bool) {
	switch Gender(raw) {
	case GenderMale, GenderFemale, GenderOther:
		return Gender(raw), true
	default:
		return "", false
	}
}

type Guest struct {
	FullName    string  `json:"full_name"`
	DateOfBirth string  `json:"date_of_birth"`
	Gender      Gender  `json:"gender"`
	IDNumber    string  `json:"id_number"`
	WeightKg    float64 `json:"weight_kg"`
	Nationality string  `json:"nationality,omitempty"`
}

// NewGuest returns the value used to fill newly added guest slots.
func NewGuest() Guest {
	return Guest{Gender: GenderMale}
}

type Contact struct {
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	PickupLocation string `json:"pickup_location,omitempty"`
	SpecialRequest string `json:"special_request,omitempty"`
}

// Draft is the in-progress reservation. AddonsQty is the only record of selected
// add-ons; the boolean view is derived by AddonFlags.
type Draft struct {
	Location      LocationKey   `json:"location"`
	GuestsCount   int           `json:"guests_count"`
	DateISO       string        `json:"date,omitempty"`
	TimeSlot      string        `json:"time_slot,omitempty"`
	Contact       Contact       `json:"contact"`
	Guests        []Guest       `json:"guests"`
	AddonsQty     map[Addon]int `json:"addons_qty"`
	AcceptedTerms bool          `json:"accepted_terms"`
}

func NewDraft(location LocationKey) Draft {
	return Draft{
		Location:    location,
		GuestsCount: 1,
		Guests:      []Guest{NewGuest()},
		AddonsQty:   map[Addon]int{},
	}
}

// AddonFlags reports, for every known add-on, whether any quantity is selected.
func (d Draft) AddonFlags() map[Addon]bool {
	flags := make(map[Addon]bool, len(Addons))
	for _, a := range Addons {
		flags[a] = d.AddonsQty[a] > 0
	}
	return flags
}

func (d Draft) Clone() Draft {
	out := d
	out.Guests = append([]Guest(nil), d.Guests...)
	out.AddonsQty = make(map[Addon]int, len(d.AddonsQty))
	for k, v := range d.AddonsQty {
		out.AddonsQty[k] = v
	}
	return out
}
