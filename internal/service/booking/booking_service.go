package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Domenick1991/paraglide/internal/catalog"
	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/Domenick1991/paraglide/internal/flow"
	"github.com/Domenick1991/paraglide/internal/kafka"
	"github.com/Domenick1991/paraglide/internal/pricing"
	"github.com/Domenick1991/paraglide/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound          = repository.ErrNotFound
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// Rejection reasons that do not come from a flow gate.
const (
	ReasonAddonInvalid      = "addon_invalid"
	ReasonPriceMismatch     = "price_mismatch"
	ReasonPriceUndetermined = "price_undetermined"
	ReasonLocationUnknown   = "location_unknown"
)

// RejectionError lists the submitted fields that were refused, with a reason each.
type RejectionError struct {
	Fields map[string]string
}

func (e *RejectionError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, reason := range e.Fields {
		parts = append(parts, field+": "+reason)
	}
	sort.Strings(parts)
	return "booking rejected: " + strings.Join(parts, ", ")
}

func (e *RejectionError) Rejects(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, code string) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, code string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, code string) (*domain.Booking, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	Location    domain.LocationKey   `json:"location"`
	GuestsCount int                  `json:"guests_count"`
	DateISO     string               `json:"date"`
	TimeSlot    string               `json:"time_slot"`
	Contact     domain.Contact       `json:"contact"`
	Guests      []domain.Guest       `json:"guests"`
	AddonsQty   map[domain.Addon]int `json:"addons_qty"`
	// PriceVND is the total the customer was shown. Zero skips the comparison.
	PriceVND int64           `json:"price"`
	Language domain.Language `json:"language"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	calculator         *pricing.Calculator
	gates              *flow.Gates
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	logger             *zap.Logger
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(logger *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	calculator *pricing.Calculator,
	gates *flow.Gates,
	producer Producer,
	eventsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		calculator:  calculator,
		gates:       gates,
		producer:    producer,
		eventsTopic: eventsTopic,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking validates the submitted draft, recomputes its price and stores it as a
// pending booking. Refused input is reported as *RejectionError.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	input = normalize(input)
	draft := domain.Draft{
		Location:      input.Location,
		GuestsCount:   input.GuestsCount,
		DateISO:       input.DateISO,
		TimeSlot:      input.TimeSlot,
		Contact:       input.Contact,
		Guests:        input.Guests,
		AddonsQty:     input.AddonsQty,
		AcceptedTerms: true,
	}

	rejected := map[string]string{}
	for step := flow.StepSelectFlight; step <= flow.StepGuests; step++ {
		var gateErr *flow.GateError
		if err := s.gates.Check(step, draft); errors.As(err, &gateErr) {
			rejected[gateErr.Field] = string(gateErr.Reason)
		}
	}
	for a, q := range input.AddonsQty {
		if _, ok := domain.ParseAddon(string(a)); !ok || q < 0 || q > input.GuestsCount {
			rejected["addons_qty."+string(a)] = ReasonAddonInvalid
		}
	}
	if rejected["location"] != "" {
		return nil, &RejectionError{Fields: rejected}
	}

	price, err := s.calculator.Compute(pricing.InputFromDraft(draft), input.Language)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		rejected["location"] = ReasonLocationUnknown
	case errors.Is(err, pricing.ErrInvalidGuests):
		rejected["guests_count"] = string(flow.ReasonGuestsMismatch)
	case err != nil:
		return nil, fmt.Errorf("compute price: %w", err)
	case price.Undetermined:
		rejected["location"] = ReasonPriceUndetermined
	case input.PriceVND != 0 && input.PriceVND != price.TotalAfterDiscount:
		rejected["price"] = ReasonPriceMismatch
	}
	if len(rejected) > 0 {
		return nil, &RejectionError{Fields: rejected}
	}

	flightDate, _ := catalog.ParseDate(input.DateISO, s.gates.Location())
	booking := &domain.Booking{
		Code:        uuid.NewString(),
		Location:    input.Location,
		GuestsCount: input.GuestsCount,
		FlightDate:  flightDate,
		TimeSlot:    input.TimeSlot,
		Contact:     input.Contact,
		Guests:      input.Guests,
		AddonsQty:   price.AddonsQty,
		TotalVND:    price.TotalAfterDiscount,
		Language:    input.Language,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("store booking: %w", err)
	}

	booking.Status = domain.BookingStatusPending
	s.logger.Info("booking created",
		zap.String("code", booking.Code),
		zap.String("location", string(booking.Location)),
		zap.Int("guests", booking.GuestsCount),
		zap.Int64("total_vnd", booking.TotalVND),
	)
	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, code string) (*domain.Booking, error) {
	return s.bookings.GetByCode(ctx, code)
}

func (s *BookingService) ConfirmBooking(ctx context.Context, code string) (*domain.Booking, error) {
	current, err := s.bookings.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.BookingStatusPending {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidTransition, current.Status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, code, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, kafka.EventBookingConfirmed, updated)
	return updated, nil
}

// CancelBooking is a no-op for bookings that are already cancelled or expired.
func (s *BookingService) CancelBooking(ctx context.Context, code string) (*domain.Booking, error) {
	current, err := s.bookings.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled || current.Status == domain.BookingStatusExpired {
		return current, nil
	}

	updated, err := s.bookings.UpdateStatus(ctx, code, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, kafka.EventBookingCancelled, updated)
	return updated, nil
}

// ExpirePendingBookings expires pending requests whose flight date has passed.
func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.bookings.ExpirePendingBefore(ctx, s.gates.Today())
	if err != nil {
		return nil, err
	}
	for i := range expired {
		s.publish(ctx, kafka.EventBookingExpired, &expired[i])
	}
	return expired, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		Code:        booking.Code,
		Location:    string(booking.Location),
		FlightDate:  booking.FlightDate.Format("2006-01-02"),
		TimeSlot:    booking.TimeSlot,
		GuestsCount: booking.GuestsCount,
		Email:       booking.Contact.Email,
		Phone:       booking.Contact.Phone,
		Language:    string(booking.Language),
		Status:      string(booking.Status),
		TotalVND:    booking.TotalVND,
		OccurredAt:  s.now(),
	}
	topics := []string{s.eventsTopic}
	if s.notificationsTopic != "" {
		topics = append(topics, s.notificationsTopic)
	}
	for _, topic := range topics {
		if err := s.producer.Publish(ctx, topic, booking.Code, event); err != nil {
			s.logger.Warn("failed to publish booking event",
				zap.String("type", eventType),
				zap.String("topic", topic),
				zap.String("code", booking.Code),
				zap.Error(err),
			)
		}
	}
}

func normalize(in CreateBookingInput) CreateBookingInput {
	in.TimeSlot = strings.TrimSpace(in.TimeSlot)
	in.DateISO = strings.TrimSpace(in.DateISO)
	in.Contact.Phone = strings.TrimSpace(in.Contact.Phone)
	in.Contact.Email = strings.ToLower(strings.TrimSpace(in.Contact.Email))
	in.Contact.PickupLocation = strings.TrimSpace(in.Contact.PickupLocation)
	in.Contact.SpecialRequest = strings.TrimSpace(in.Contact.SpecialRequest)

	guests := make([]domain.Guest, len(in.Guests))
	for i, g := range in.Guests {
		g.FullName = strings.Join(strings.Fields(g.FullName), " ")
		g.IDNumber = strings.TrimSpace(g.IDNumber)
		g.Nationality = strings.TrimSpace(g.Nationality)
		guests[i] = g
	}
	in.Guests = guests

	if lang, ok := domain.ParseLanguage(string(in.Language)); ok {
		in.Language = lang
	} else {
		in.Language = domain.DefaultLanguage
	}
	return in
}

var _ BookingUseCase = (*BookingService)(nil)
