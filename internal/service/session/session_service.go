package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/paraglide/internal/cache"
	"github.com/Domenick1991/paraglide/internal/catalog"
	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/Domenick1991/paraglide/internal/flow"
	"github.com/Domenick1991/paraglide/internal/pricing"
	"github.com/Domenick1991/paraglide/internal/service/booking"
	"github.com/Domenick1991/paraglide/internal/ticket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound         = cache.ErrSessionNotFound
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrCompleted        = errors.New("booking already submitted, reset to start over")
	ErrNotCompleted     = errors.New("booking not submitted yet")
)

// SubmitError is a refused submission. Step is where the flow now stands: the review
// step, or the first step when the location was rejected.
type SubmitError struct {
	Step   flow.Step
	Fields map[string]string
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submission rejected (%d fields), back at step %d", len(e.Fields), e.Step)
}

type SessionUseCase interface {
	Start(ctx context.Context, lang domain.Language) (*View, error)
	Get(ctx context.Context, id string, lang domain.Language) (*View, error)
	Apply(ctx context.Context, id string, lang domain.Language, m Mutation) (*View, error)
	Next(ctx context.Context, id string, lang domain.Language) (*View, error)
	Back(ctx context.Context, id string, lang domain.Language) (*View, error)
	Reset(ctx context.Context, id string, lang domain.Language) (*View, error)
	Ticket(ctx context.Context, id string, lang domain.Language) (*ticket.Ticket, error)
	Discard(ctx context.Context, id string) error
}

type SessionStore interface {
	LoadSession(ctx context.Context, id string) (*flow.Snapshot, error)
	SaveSession(ctx context.Context, id string, snap flow.Snapshot) error
	DeleteSession(ctx context.Context, id string) error
	AcquireSubmitLock(ctx context.Context, id string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, id string) error
}

type Submitter interface {
	CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error)
}

// Mutation edits a loaded store. It runs before the store is saved; an error leaves
// the saved session unchanged.
type Mutation func(*flow.Store) error

// View is the session as the booking pages render it.
type View struct {
	ID           string                `json:"id"`
	Step         flow.Step             `json:"step"`
	Draft        domain.Draft          `json:"draft"`
	Addons       map[domain.Addon]bool `json:"addons"`
	Price        *pricing.Breakdown    `json:"price,omitempty"`
	Confirmation *domain.Confirmation  `json:"confirmation,omitempty"`
}

type SessionService struct {
	catalog    *catalog.Catalog
	calculator *pricing.Calculator
	gates      *flow.Gates
	sessions   SessionStore
	bookings   Submitter
	lockTTL    time.Duration
	logger     *zap.Logger
}

type SessionServiceOption func(*SessionService)

func WithSubmitLockTTL(ttl time.Duration) SessionServiceOption {
	return func(s *SessionService) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func WithLogger(logger *zap.Logger) SessionServiceOption {
	return func(s *SessionService) {
		s.logger = logger
	}
}

func NewSessionService(
	cat *catalog.Catalog,
	calculator *pricing.Calculator,
	gates *flow.Gates,
	sessions SessionStore,
	bookings Submitter,
	opts ...SessionServiceOption,
) *SessionService {
	s := &SessionService{
		catalog:    cat,
		calculator: calculator,
		gates:      gates,
		sessions:   sessions,
		bookings:   bookings,
		lockTTL:    30 * time.Second,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionService) Start(ctx context.Context, lang domain.Language) (*View, error) {
	id := uuid.NewString()
	store := flow.NewStore(s.catalog)
	if err := s.save(ctx, id, store); err != nil {
		return nil, err
	}
	return s.view(id, store, lang), nil
}

func (s *SessionService) Get(ctx context.Context, id string, lang domain.Language) (*View, error) {
	store, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(id, store, lang), nil
}

// Apply runs m against the session's draft. A submitted session only accepts Reset.
func (s *SessionService) Apply(ctx context.Context, id string, lang domain.Language, m Mutation) (*View, error) {
	store, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if store.Step() == flow.StepSuccess {
		return nil, ErrCompleted
	}
	if err := m(store); err != nil {
		return nil, err
	}
	if err := s.save(ctx, id, store); err != nil {
		return nil, err
	}
	return s.view(id, store, lang), nil
}

// Next leaves the current step once its gate passes. Leaving the review step submits
// the draft.
func (s *SessionService) Next(ctx context.Context, id string, lang domain.Language) (*View, error) {
	store, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	switch store.Step() {
	case flow.StepSuccess:
		return s.view(id, store, lang), nil
	case flow.StepReview:
		if err := s.gates.CheckThrough(flow.StepReview, store.Draft()); err != nil {
			return nil, s.rewindToGate(ctx, id, store, err)
		}
		return s.submit(ctx, id, lang)
	}

	if err := s.gates.Check(store.Step(), store.Draft()); err != nil {
		return nil, err
	}
	store.Next()
	if err := s.save(ctx, id, store); err != nil {
		return nil, err
	}
	return s.view(id, store, lang), nil
}

func (s *SessionService) Back(ctx context.Context, id string, lang domain.Language) (*View, error) {
	return s.Apply(ctx, id, lang, func(store *flow.Store) error {
		store.Back()
		return nil
	})
}

func (s *SessionService) Reset(ctx context.Context, id string, lang domain.Language) (*View, error) {
	store, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	store.Reset()
	if err := s.save(ctx, id, store); err != nil {
		return nil, err
	}
	return s.view(id, store, lang), nil
}

// Discard drops the session. Discarding an unknown session is not an error.
func (s *SessionService) Discard(ctx context.Context, id string) error {
	if err := s.sessions.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Ticket lays out the submitted booking using the price recorded at submission.
func (s *SessionService) Ticket(ctx context.Context, id string, lang domain.Language) (*ticket.Ticket, error) {
	store, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	conf, price := store.Confirmation(), store.SubmittedPrice()
	if store.Step() != flow.StepSuccess || conf == nil || price == nil {
		return nil, ErrNotCompleted
	}

	draft := store.Draft()
	loc, err := s.catalog.Get(draft.Location)
	if err != nil {
		return nil, err
	}
	price.Display = s.calculator.View(*price, lang)
	t := ticket.Build(draft, *price, *conf, loc, lang)
	return &t, nil
}

// submit sends the review-step draft to the booking collaborator. The session is
// reloaded under the lock, so a submission that finished in the meantime is not repeated.
func (s *SessionService) submit(ctx context.Context, id string, lang domain.Language) (*View, error) {
	locked, err := s.sessions.AcquireSubmitLock(ctx, id, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire submit lock: %w", err)
	}
	if !locked {
		return nil, ErrSubmitInProgress
	}
	defer func() {
		if err := s.sessions.ReleaseSubmitLock(ctx, id); err != nil {
			s.logger.Warn("failed to release submit lock", zap.String("session", id), zap.Error(err))
		}
	}()

	store, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if store.Step() != flow.StepReview {
		return s.view(id, store, lang), nil
	}
	draft := store.Draft()
	if err := s.gates.CheckThrough(flow.StepReview, draft); err != nil {
		return nil, s.rewindToGate(ctx, id, store, err)
	}

	price, err := s.calculator.Compute(pricing.InputFromDraft(draft), lang)
	if err != nil {
		return nil, fmt.Errorf("compute price: %w", err)
	}

	created, err := s.bookings.CreateBooking(ctx, booking.CreateBookingInput{
		Location:    draft.Location,
		GuestsCount: draft.GuestsCount,
		DateISO:     draft.DateISO,
		TimeSlot:    draft.TimeSlot,
		Contact:     draft.Contact,
		Guests:      draft.Guests,
		AddonsQty:   draft.AddonsQty,
		PriceVND:    price.TotalAfterDiscount,
		Language:    lang,
	})

	var rejection *booking.RejectionError
	switch {
	case errors.As(err, &rejection):
		if !rejection.Rejects("location") {
			return nil, &SubmitError{Step: store.Step(), Fields: rejection.Fields}
		}
		store.RewindTo(flow.StepSelectFlight)
		if err := s.save(ctx, id, store); err != nil {
			return nil, err
		}
		return nil, &SubmitError{Step: store.Step(), Fields: rejection.Fields}
	case err != nil:
		return nil, fmt.Errorf("submit booking: %w", err)
	}

	store.Complete(created.Confirmation(), price)
	if err := s.save(ctx, id, store); err != nil {
		return nil, err
	}
	s.logger.Info("booking flow completed", zap.String("session", id), zap.String("code", created.Code))
	return s.view(id, store, lang), nil
}

// rewindToGate moves the session back to the earlier step whose gate failed, so the
// customer lands where the field can be fixed. gateErr is returned unchanged.
func (s *SessionService) rewindToGate(ctx context.Context, id string, store *flow.Store, gateErr error) error {
	var ge *flow.GateError
	if !errors.As(gateErr, &ge) || ge.Step >= store.Step() {
		return gateErr
	}
	store.RewindTo(ge.Step)
	if err := s.save(ctx, id, store); err != nil {
		return err
	}
	return gateErr
}

func (s *SessionService) load(ctx context.Context, id string) (*flow.Store, error) {
	snap, err := s.sessions.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	store, err := flow.Restore(s.catalog, *snap)
	if errors.Is(err, flow.ErrUnknownLocation) {
		s.logger.Warn("session location no longer configured, starting over", zap.String("session", id))
		return flow.NewStore(s.catalog), nil
	}
	return store, err
}

func (s *SessionService) save(ctx context.Context, id string, store *flow.Store) error {
	if err := s.sessions.SaveSession(ctx, id, store.Snapshot()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionService) view(id string, store *flow.Store, lang domain.Language) *View {
	draft := store.Draft()
	v := &View{
		ID:           id,
		Step:         store.Step(),
		Draft:        draft,
		Addons:       draft.AddonFlags(),
		Confirmation: store.Confirmation(),
	}

	if submitted := store.SubmittedPrice(); submitted != nil {
		submitted.Display = s.calculator.View(*submitted, lang)
		v.Price = submitted
		return v
	}
	price, err := s.calculator.Compute(pricing.InputFromDraft(draft), lang)
	if err != nil {
		s.logger.Warn("failed to price session draft", zap.String("session", id), zap.Error(err))
		return v
	}
	v.Price = &price
	return v
}

var _ SessionUseCase = (*SessionService)(nil)
