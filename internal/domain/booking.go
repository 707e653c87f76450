package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusExpired   BookingStatus = "EXPIRED"
)

// Booking is a submitted reservation request as persisted by the back office.
type Booking struct {
	ID          int64
	Code        string
	Location    LocationKey
	GuestsCount int
	FlightDate  time.Time
	TimeSlot    string
	Contact     Contact
	Guests      []Guest
	AddonsQty   map[Addon]int
	TotalVND    int64
	Language    Language
	Status      BookingStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Confirmation is what the flow keeps from a successful submission.
type Confirmation struct {
	BookingID int64         `json:"booking_id"`
	Code      string        `json:"code"`
	Status    BookingStatus `json:"status"`
	TotalVND  int64         `json:"total_vnd"`
	CreatedAt time.Time     `json:"created_at"`
}

func (b *Booking) Confirmation() Confirmation {
	return Confirmation{
		BookingID: b.ID,
		Code:      b.Code,
		Status:    b.Status,
		TotalVND:  b.TotalVND,
		CreatedAt: b.CreatedAt,
	}
}
