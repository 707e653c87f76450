// Package ticket renders the success-step ticket from a submitted booking.
package ticket

import (
	"strconv"
	"time"

	"github.com/Domenick1991/paraglide/internal/catalog"
	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/Domenick1991/paraglide/internal/pricing"
)

type Ticket struct {
	Code           string               `json:"code"`
	BookingID      int64                `json:"booking_id"`
	Status         domain.BookingStatus `json:"status"`
	Language       domain.Language      `json:"language"`
	Location       string               `json:"location"`
	Date           string               `json:"date"`
	TimeSlot       string               `json:"time_slot"`
	GuestsCount    int                  `json:"guests_count"`
	Guests         []string             `json:"guests"`
	Phone          string               `json:"phone"`
	Email          string               `json:"email"`
	PickupLocation string               `json:"pickup_location,omitempty"`
	Lines          []Line               `json:"lines"`
	Total          string               `json:"total"`
	TotalVND       int64                `json:"total_vnd"`
	IssuedAt       time.Time            `json:"issued_at"`
}

type Line struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// Build lays out a ticket from the submitted price. The price's Display must already be
// expressed in lang; amounts are never recomputed here so the ticket shows the total the
// customer reviewed.
func Build(d domain.Draft, price pricing.Breakdown, conf domain.Confirmation, loc catalog.Location, lang domain.Language) Ticket {
	disp := price.Display
	cur := disp.Currency
	if cur == "" {
		cur = pricing.CurrencyFor(lang)
	}

	t := Ticket{
		Code:           conf.Code,
		BookingID:      conf.BookingID,
		Status:         conf.Status,
		Language:       lang,
		Location:       loc.Name.In(lang),
		Date:           d.DateISO,
		TimeSlot:       d.TimeSlot,
		GuestsCount:    price.GuestsCount,
		Phone:          d.Contact.Phone,
		Email:          d.Contact.Email,
		PickupLocation: d.Contact.PickupLocation,
		Total:          disp.Total,
		TotalVND:       price.TotalAfterDiscount,
		IssuedAt:       conf.CreatedAt,
	}
	for _, g := range d.Guests {
		t.Guests = append(t.Guests, g.FullName)
	}

	t.Lines = append(t.Lines, Line{
		Label:  label(lang, "base") + " x" + strconv.Itoa(price.GuestsCount),
		Amount: pricing.Format(disp.BasePricePerPerson, cur),
	})
	if price.DiscountPerPerson > 0 {
		t.Lines = append(t.Lines, Line{
			Label:  label(lang, "discount") + " x" + strconv.Itoa(price.GuestsCount),
			Amount: pricing.Format(-disp.DiscountPerPerson, cur),
		})
	}
	for _, a := range domain.Addons {
		qty := price.AddonsQty[a]
		if qty == 0 {
			continue
		}
		t.Lines = append(t.Lines, Line{
			Label:  a.Label(lang) + " x" + strconv.Itoa(qty),
			Amount: pricing.Format(disp.AddonsTotal[a], cur),
		})
	}
	return t
}

var labels = map[string][2]string{
	"title":    {"VÉ BAY DÙ LƯỢN", "PARAGLIDING TICKET"},
	"code":     {"Mã đặt chỗ", "Booking code"},
	"status":   {"Trạng thái", "Status"},
	"location": {"Điểm bay", "Location"},
	"date":     {"Ngày bay", "Flight date"},
	"time":     {"Giờ bay", "Time slot"},
	"guests":   {"Khách", "Guests"},
	"contact":  {"Liên hệ", "Contact"},
	"pickup":   {"Điểm đón", "Pickup"},
	"base":     {"Giá vé", "Flight"},
	"discount": {"Giảm giá nhóm", "Group discount"},
	"total":    {"Tổng cộng", "Total"},
}

func label(lang domain.Language, key string) string {
	l, ok := labels[key]
	if !ok {
		return key
	}
	if lang == domain.LanguageEN {
		return l[1]
	}
	return l[0]
}
