package email

import (
	"context"
	"testing"

	"github.com/Domenick1991/paraglide/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCompose(t *testing.T) {
	event := kafka.BookingEvent{
		Type:        kafka.EventBookingConfirmed,
		Code:        "ABC123",
		FlightDate:  "2026-10-25",
		TimeSlot:    "09:00",
		GuestsCount: 2,
		Email:       "guest@example.com",
		Language:    "en",
		TotalVND:    3_000_000,
	}

	msg, ok := Compose(event)
	require.True(t, ok)
	assert.Equal(t, "guest@example.com", msg.To)
	assert.Equal(t, "Your flight is confirmed (ABC123)", msg.Subject)
	assert.Contains(t, msg.Body, "Flight date: 2026-10-25 09:00")
	assert.Contains(t, msg.Body, "Guests: 2")

	event.Language = "vi"
	msg, ok = Compose(event)
	require.True(t, ok)
	assert.Equal(t, "Đặt bay đã được xác nhận (ABC123)", msg.Subject)
}

func TestCompose_Skips(t *testing.T) {
	_, ok := Compose(kafka.BookingEvent{Type: kafka.EventBookingCreated})
	assert.False(t, ok)

	_, ok = Compose(kafka.BookingEvent{Type: "booking_viewed", Email: "guest@example.com"})
	assert.False(t, ok)
}

func TestSender_Send(t *testing.T) {
	s := NewSender(zap.NewNop())
	assert.NoError(t, s.Send(context.Background(), kafka.BookingEvent{Type: kafka.EventBookingCreated, Email: "guest@example.com"}))
	assert.NoError(t, s.Send(context.Background(), kafka.BookingEvent{}))
}
