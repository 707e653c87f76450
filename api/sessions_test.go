package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/paraglide/internal/catalog/catalogtest"
	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/Domenick1991/paraglide/internal/flow"
	"github.com/Domenick1991/paraglide/internal/middleware"
	"github.com/Domenick1991/paraglide/internal/service/session"
	"github.com/Domenick1991/paraglide/internal/ticket"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSessionUseCase struct {
	mock.Mock
}

func (m *MockSessionUseCase) result(args mock.Arguments) (*session.View, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.View), args.Error(1)
}

func (m *MockSessionUseCase) Start(ctx context.Context, lang domain.Language) (*session.View, error) {
	return m.result(m.Called(ctx, lang))
}

func (m *MockSessionUseCase) Get(ctx context.Context, id string, lang domain.Language) (*session.View, error) {
	return m.result(m.Called(ctx, id, lang))
}

func (m *MockSessionUseCase) Apply(ctx context.Context, id string, lang domain.Language, mut session.Mutation) (*session.View, error) {
	return m.result(m.Called(ctx, id, lang, mut))
}

func (m *MockSessionUseCase) Next(ctx context.Context, id string, lang domain.Language) (*session.View, error) {
	return m.result(m.Called(ctx, id, lang))
}

func (m *MockSessionUseCase) Back(ctx context.Context, id string, lang domain.Language) (*session.View, error) {
	return m.result(m.Called(ctx, id, lang))
}

func (m *MockSessionUseCase) Reset(ctx context.Context, id string, lang domain.Language) (*session.View, error) {
	return m.result(m.Called(ctx, id, lang))
}

func (m *MockSessionUseCase) Ticket(ctx context.Context, id string, lang domain.Language) (*ticket.Ticket, error) {
	args := m.Called(ctx, id, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.Ticket), args.Error(1)
}

func (m *MockSessionUseCase) Discard(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newSessionRouter(service session.SessionUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewSessionHandler(service).Register(r.Group("/api/sessions"))
	return r
}

func serve(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// applyTo runs the mutation the handler passed to Apply against a fresh store, so the
// test can inspect what the request would have changed.
func applyTo(store *flow.Store, mockService *MockSessionUseCase, errOut *error) {
	mockService.On("Apply", mock.Anything, "s1", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*errOut = args.Get(3).(session.Mutation)(store)
		}).
		Return(&session.View{ID: "s1"}, nil).Once()
}

func TestSessionHandler_start(t *testing.T) {
	mockService := &MockSessionUseCase{}
	r := newSessionRouter(mockService)

	mockService.On("Start", mock.Anything, domain.LanguageEN).
		Return(&session.View{ID: "s1", Step: flow.StepSelectFlight}, nil).Once()

	w := serve(r, http.MethodPost, "/api/sessions?lang=en", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	var view session.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "s1", view.ID)
	mockService.AssertExpectations(t)
}

func TestSessionHandler_get_AcceptLanguage(t *testing.T) {
	mockService := &MockSessionUseCase{}
	r := newSessionRouter(mockService)

	mockService.On("Get", mock.Anything, "s1", domain.LanguageEN).Return(&session.View{ID: "s1"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/s1", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,vi;q=0.8")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestSessionHandler_get_NotFound(t *testing.T) {
	mockService := &MockSessionUseCase{}
	r := newSessionRouter(mockService)

	mockService.On("Get", mock.Anything, "gone", domain.LanguageVI).Return(nil, session.ErrNotFound).Once()

	w := serve(r, http.MethodGet, "/api/sessions/gone", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionHandler_patch(t *testing.T) {
	mockService := &MockSessionUseCase{}
	r := newSessionRouter(mockService)
	store := flow.NewStore(catalogtest.New(t))
	store.SetAddonQty(domain.AddonFlycam, 1)
	var mutErr error
	applyTo(store, mockService, &mutErr)

	w := serve(r, http.MethodPatch, "/api/sessions/s1", map[string]any{
		"location":     "ha_noi",
		"guests_count": 3,
		"date":         catalogtest.Saturday,
		"time_slot":    "07:00",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mutErr)
	d := store.Draft()
	assert.Equal(t, domain.LocationHaNoi, d.Location)
	assert.Len(t, d.Guests, 3)
	assert.Equal(t, catalogtest.Saturday, d.DateISO)
	assert.Empty(t, d.AddonsQty)
}

func TestSessionHandler_patch_BadInput(t *testing.T) {
	mockService := &MockSessionUseCase{}
	r := newSessionRouter(mockService)

	w := serve(r, http.MethodPatch, "/api/sessions/s1", map[string]any{"location": "nha_trang"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPatch, "/api/sessions/s1", map[string]any{"addons_qty": map[string]int{"drone": 1}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPut, "/api/sessions/s1/guests-count", map[string]any{"guests_count": "two"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionHandler_setGuestsCountAndAddons(t *testing.T) {
	mockService := &MockSessionUseCase{}
	r := newSessionRouter(mockService)
	store := flow.NewStore(catalogtest.New(t))
	var mutErr error

	applyTo(store, mockService, &mutErr)
	w := serve(r, http.MethodPut, "/api/sessions/s1/guests-count", map[string]any{"guests_count": 5})
	require.Equal(t, http.StatusOK, w.Code)

	applyTo(store, mockService, &mutErr)
	w = serve(r, http.MethodPut, "/api/sessions/s1/addons/pickup", map[string]any{"qty": 5})
	require.Equal(t, http.StatusOK, w.Code)

	applyTo(store, mockService, &mutErr)
	w = serve(r, http.MethodPut, "/api/sessions/s1/guests-count", map[string]any{"guests_count": 3})
	require.Equal(t, http.StatusOK, w.Code)

	d := store.Draft()
	assert.Len(t, d.Guests, 3)
	assert.Equal(t, 3, d.AddonsQty[domain.AddonPickup])

	w = serve(r, http.MethodPut, "/api/sessions/s1/addons/drone", map[string]any{"qty": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_setGuest(t *testing.T) {
	mockService := &MockSessionUseCase{}
	r := newSessionRouter(mockService)
	store := flow.NewStore(catalogtest.New(t))
	var mutErr error
	applyTo(store, mockService, &mutErr)

	w := serve(r, http.MethodPut, "/api/sessions/s1/guests/0", map[string]any{
		"full_name": "Nguyen Van A",
		"gender":    "Female",
		"weight_kg": 55.5,
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mutErr)
	g := store.Draft().Guests[0]
	assert.Equal(t, "Nguyen Van A", g.FullName)
	assert.Equal(t, domain.GenderFemale, g.Gender)
	assert.Equal(t, 55.5, g.WeightKg)

	w = serve(r, http.MethodPut, "/api/sessions/s1/guests/0", map[string]any{"gender": "female"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPut, "/api/sessions/s1/guests/x", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_setContact(t *testing.T) {
	mockService := &MockSessionUseCase{}
	r := newSessionRouter(mockService)
	store := flow.NewStore(catalogtest.New(t))
	var mutErr error
	applyTo(store, mockService, &mutErr)

	w := serve(r, http.MethodPut, "/api/sessions/s1/contact", map[string]any{"phone": "0900000000"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0900000000", store.Draft().Contact.Phone)
}

func TestSessionHandler_next_GateError(t *testing.T) {
	mockService := &MockSessionUseCase{}
	r := newSessionRouter(mockService)

	gateErr := &flow.GateError{Step: flow.StepContact, Field: "date", Reason: flow.ReasonDateTooEarly}
	mockService.On("Next", mock.Anything, "s1", domain.LanguageEN).Return(nil, gateErr).Once()

	w := serve(r, http.MethodPost, "/api/sessions/s1/next?lang=en", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "The flight date must be tomorrow or later.", body.Message)
	assert.Equal(t, map[string]string{"date": "date_too_early"}, body.Fields)
}

func TestSessionHandler_next_Submission(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"location rejected", &session.SubmitError{Step: flow.StepSelectFlight, Fields: map[string]string{"location": "location_unknown"}}, http.StatusUnprocessableEntity},
		{"double submit", session.ErrSubmitInProgress, http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockSessionUseCase{}
			r := newSessionRouter(mockService)
			mockService.On("Next", mock.Anything, "s1", domain.LanguageVI).Return(nil, tc.err).Once()

			w := serve(r, http.MethodPost, "/api/sessions/s1/next", nil)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestSessionHandler_backAndReset(t *testing.T) {
	mockService := &MockSessionUseCase{}
	r := newSessionRouter(mockService)

	mockService.On("Back", mock.Anything, "s1", domain.LanguageVI).Return(nil, session.ErrCompleted).Once()
	mockService.On("Reset", mock.Anything, "s1", domain.LanguageVI).Return(&session.View{ID: "s1", Step: flow.StepSelectFlight}, nil).Once()

	assert.Equal(t, http.StatusConflict, serve(r, http.MethodPost, "/api/sessions/s1/back", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/sessions/s1/reset", nil).Code)
	mockService.AssertExpectations(t)
}

func TestSessionHandler_discard(t *testing.T) {
	mockService := &MockSessionUseCase{}
	r := newSessionRouter(mockService)

	mockService.On("Discard", mock.Anything, "s1").Return(nil).Once()
	mockService.On("Discard", mock.Anything, "s2").Return(errors.New("redis down")).Once()

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/api/sessions/s1", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodDelete, "/api/sessions/s2", nil).Code)
	mockService.AssertExpectations(t)
}

func TestSessionHandler_ticket(t *testing.T) {
	mockService := &MockSessionUseCase{}
	r := newSessionRouter(mockService)

	tk := &ticket.Ticket{Code: "abc", Language: domain.LanguageEN, Total: "$132", Guests: []string{"Nguyen Van A"}}
	mockService.On("Ticket", mock.Anything, "s1", domain.LanguageEN).Return(tk, nil).Twice()

	w := serve(r, http.MethodGet, "/api/sessions/s1/ticket?lang=en", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":"$132"`)

	w = serve(r, http.MethodGet, "/api/sessions/s1/ticket.png?lang=en", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ticket-abc.png")
	_, err := png.Decode(w.Body)
	assert.NoError(t, err)
}

func TestSessionHandler_ticket_NotCompleted(t *testing.T) {
	mockService := &MockSessionUseCase{}
	r := newSessionRouter(mockService)

	mockService.On("Ticket", mock.Anything, "s1", domain.LanguageVI).Return(nil, session.ErrNotCompleted).Once()

	w := serve(r, http.MethodGet, "/api/sessions/s1/ticket.png", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
