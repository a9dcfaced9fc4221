package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DC-BookingService/internal/api/handlers"
	"github.com/m04kA/DC-BookingService/internal/api/middleware"
	"github.com/m04kA/DC-BookingService/internal/domain"
	createBooking "github.com/m04kA/DC-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/DC-BookingService/pkg/logger"
	"github.com/m04kA/DC-BookingService/pkg/ptr"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createBooking.Response), args.Error(1)
}

func newRequest(caller *domain.Caller, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		req = req.WithContext(middleware.WithCaller(req.Context(), *caller))
	}
	return req
}

func TestHandle_Created(t *testing.T) {
	caller := domain.Caller{UserID: uuid.New()}
	priestID, poojaID := uuid.New(), uuid.New()
	bookingID := uuid.New()

	uc := new(mockUseCase)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *createBooking.Request) bool {
		return r.Caller == caller &&
			r.PriestID != nil && *r.PriestID == priestID &&
			r.PoojaID != nil && *r.PoojaID == poojaID &&
			r.Date == "2025-06-16" &&
			r.TimeSlot == "09:00 AM" &&
			r.ServiceMode == domain.ModeVirtual &&
			r.SankalpDetails != nil && *r.SankalpDetails == `{"gotra":"Kashyap"}`
	})).Return(&createBooking.Response{
		Booking: &domain.Booking{
			ID:          bookingID,
			ProviderID:  priestID,
			BookingDate: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
			TimeSlot:    "09:00 AM",
			Status:      domain.StatusPending,
			BookingType: domain.TypePooja,
			TotalAmount: 1200,
			MeetingLink: ptr.Ptr("https://meet.example.com/1-abcdef12"),
		},
		Priest: &domain.ProviderProfile{ID: priestID, DisplayName: "Pandit Sharma"},
	}, nil).Once()

	body := fmt.Sprintf(`{"chosenPriestId":%q,"poojaId":%q,"serviceMode":"virtual","selectedDate":"2025-06-16","timeSlot":"09:00 AM","sankalpDetails":{"gotra":"Kashyap"}}`,
		priestID, poojaID)
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, newRequest(&caller, body))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CreateBookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, bookingID, resp.Booking.ID)
	assert.Equal(t, "2025-06-16", resp.Booking.Date)
	assert.Equal(t, "pending", resp.Booking.Status)
	assert.Equal(t, "pooja", resp.Booking.BookingType)
	assert.Equal(t, 1200.0, resp.Booking.TotalAmount)
	require.NotNil(t, resp.Booking.Priest)
	assert.Equal(t, "Pandit Sharma", resp.Booking.Priest.DisplayName)
	assert.Equal(t, msgBookingCreated, resp.Message)
	uc.AssertExpectations(t)
}

func TestHandle_NoCaller(t *testing.T) {
	uc := new(mockUseCase)
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, newRequest(nil, `{}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_BadBody(t *testing.T) {
	caller := domain.Caller{UserID: uuid.New()}

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"empty", ``},
		{"missing mode", `{"date":"2025-06-16","timeSlot":"09:00"}`},
		{"missing date", `{"serviceMode":"virtual","timeSlot":"09:00"}`},
		{"bad date", `{"serviceMode":"virtual","date":"16/06/2025","timeSlot":"09:00"}`},
		{"missing slot", `{"serviceMode":"virtual","date":"2025-06-16"}`},
		{"negative amount", `{"serviceMode":"virtual","date":"2025-06-16","timeSlot":"09:00","totalAmount":-1}`},
		{"too many devotees", `{"serviceMode":"virtual","date":"2025-06-16","timeSlot":"09:00","numDevotees":501}`},
		{"bad priest id", `{"priestId":"42","serviceMode":"virtual","date":"2025-06-16","timeSlot":"09:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			rec := httptest.NewRecorder()
			NewHandler(uc, logger.NewNop()).Handle(rec, newRequest(&caller, tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	caller := domain.Caller{UserID: uuid.New()}
	body := `{"serviceMode":"temple","templeId":"` + uuid.NewString() + `","date":"2025-06-16","timeSlot":"09:00"}`

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{"unauthorized", createBooking.ErrUnauthorized, http.StatusUnauthorized, handlers.KindAuth},
		{"temple required", createBooking.ErrTempleRequired, http.StatusBadRequest, handlers.KindValidation},
		{"invalid input", fmt.Errorf("%w: bad slot", createBooking.ErrInvalidInput), http.StatusBadRequest, handlers.KindValidation},
		{"temple not found", createBooking.ErrTempleNotFound, http.StatusNotFound, handlers.KindNotFound},
		{"pooja not found", createBooking.ErrPoojaNotFound, http.StatusNotFound, handlers.KindNotFound},
		{"priest not found", createBooking.ErrPriestNotFound, http.StatusNotFound, handlers.KindNotFound},
		{"slot taken", createBooking.ErrSlotTaken, http.StatusConflict, handlers.KindConflict},
		{"no priests", createBooking.ErrNoAvailablePriests, http.StatusConflict, handlers.KindNoAvailablePriests},
		{"internal", fmt.Errorf("%w: db down", createBooking.ErrInternal), http.StatusInternalServerError, handlers.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := httptest.NewRecorder()
			NewHandler(uc, logger.NewNop()).Handle(rec, newRequest(&caller, body))

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantKind, resp.Kind)
			uc.AssertExpectations(t)
		})
	}
}

func TestRawJSON(t *testing.T) {
	assert.Nil(t, rawJSON(nil))
	assert.Nil(t, rawJSON(json.RawMessage(" null ")))
	assert.Equal(t, `"plain"`, *rawJSON(json.RawMessage(`"plain"`)))
}
