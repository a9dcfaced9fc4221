package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/DC-BookingService/internal/api/handlers"
	"github.com/m04kA/DC-BookingService/internal/api/middleware"
	cancelBooking "github.com/m04kA/DC-BookingService/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID  = "invalid booking ID"
	msgInvalidRequest    = "invalid request body"
	msgUnauthorized      = "authentication required"
	msgBookingNotFound   = "booking not found"
	msgForbidden         = "you are not allowed to cancel this booking"
	msgAlreadyCancelled  = "booking is already cancelled"
	msgCannotBeCancelled = "booking cannot be cancelled in its current status"
	msgCancelled         = "Booking cancelled successfully"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/cancel
// ID из пути имеет приоритет над booking_id в теле
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var body CancelBookingRequest
	if err := handlers.DecodeJSON(r, &body); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /bookings/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}
	if err := handlers.ValidateStruct(body); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	rawID := mux.Vars(r)["bookingId"]
	if rawID == "" {
		rawID = body.BookingID
	}
	bookingID, err := uuid.Parse(rawID)
	if err != nil {
		h.logger.Warn("POST /bookings/cancel - Invalid booking ID: %s", rawID)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		Caller:    caller,
		BookingID: bookingID,
		Reason:    body.CancellationReason,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrUnauthorized):
			handlers.RespondUnauthorized(w, msgUnauthorized)

		case errors.Is(err, cancelBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, cancelBooking.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, cancelBooking.ErrForbidden):
			h.logger.Warn("POST /bookings/cancel - Forbidden: user=%s, booking=%s", caller.UserID, bookingID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelBooking.ErrAlreadyCancelled):
			handlers.RespondConflict(w, handlers.KindAlreadyCancelled, msgAlreadyCancelled)

		case errors.Is(err, cancelBooking.ErrCannotBeCancelled):
			handlers.RespondBadRequest(w, msgCannotBeCancelled)

		default:
			h.logger.Error("POST /bookings/cancel - Failed to cancel booking=%s: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/cancel - Booking cancelled: id=%s, refund=%.2f",
		result.BookingID, result.Refund.RefundAmount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
