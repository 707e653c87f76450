package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/Domenick1991/paraglide/internal/kafka"
	"github.com/Domenick1991/paraglide/internal/pricing"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers customer notifications. Delivery is a log line until an SMTP relay
// is configured.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	msg, ok := Compose(event)
	if !ok {
		s.logger.Debug("no notification for event", zap.String("type", event.Type), zap.String("code", event.Code))
		return nil
	}
	s.logger.Info("send email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("code", event.Code),
	)
	return nil
}

// Compose builds the customer email for event in the booking's language.
func Compose(event kafka.BookingEvent) (Message, bool) {
	if event.Email == "" {
		return Message{}, false
	}
	lang, _ := domain.ParseLanguage(event.Language)
	en := lang == domain.LanguageEN

	var subject string
	switch event.Type {
	case kafka.EventBookingCreated:
		subject = pick(en, "Đã nhận yêu cầu đặt bay", "We received your booking request")
	case kafka.EventBookingConfirmed:
		subject = pick(en, "Đặt bay đã được xác nhận", "Your flight is confirmed")
	case kafka.EventBookingCancelled:
		subject = pick(en, "Đặt bay đã bị huỷ", "Your booking was cancelled")
	case kafka.EventBookingExpired:
		subject = pick(en, "Yêu cầu đặt bay đã hết hạn", "Your booking request expired")
	default:
		return Message{}, false
	}

	body := fmt.Sprintf("%s: %s\n%s: %s %s\n%s: %d\n%s: %s",
		pick(en, "Mã đặt chỗ", "Booking code"), event.Code,
		pick(en, "Ngày bay", "Flight date"), event.FlightDate, event.TimeSlot,
		pick(en, "Số khách", "Guests"), event.GuestsCount,
		pick(en, "Tổng tiền", "Total"), pricing.Format(event.TotalVND, pricing.CurrencyVND),
	)

	return Message{To: event.Email, Subject: fmt.Sprintf("%s (%s)", subject, event.Code), Body: body}, true
}

func pick(en bool, vi, english string) string {
	if en {
		return english
	}
	return vi
}
