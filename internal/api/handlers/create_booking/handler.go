package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/DC-BookingService/internal/api/handlers"
	"github.com/m04kA/DC-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/DC-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequest      = "invalid request body"
	msgDateRequired        = "date is required"
	msgUnauthorized        = "authentication required"
	msgTempleRequired      = "temple ID required"
	msgTempleNotFound      = "temple not found"
	msgPoojaNotFound       = "pooja not found"
	msgPriestNotFound      = "priest not found"
	msgSlotTaken           = "time slot is already booked"
	msgNoAvailablePriests  = "no priests available for the selected slot"
	msgBookingCreated      = "Booking created successfully"
	msgBookingAutoAssigned = "Booking created successfully, priest assigned automatically"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var body CreateBookingRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	if err := handlers.ValidateStruct(body); err != nil {
		h.logger.Warn("POST /bookings - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	if body.date() == "" {
		handlers.RespondBadRequest(w, msgDateRequired)
		return
	}

	result, err := h.useCase.Execute(r.Context(), body.ToUseCaseRequest(caller))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrUnauthorized):
			handlers.RespondUnauthorized(w, msgUnauthorized)

		case errors.Is(err, createBooking.ErrTempleRequired):
			handlers.RespondBadRequest(w, msgTempleRequired)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user=%s, error=%v", caller.UserID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrTempleNotFound):
			handlers.RespondNotFound(w, msgTempleNotFound)

		case errors.Is(err, createBooking.ErrPoojaNotFound):
			handlers.RespondNotFound(w, msgPoojaNotFound)

		case errors.Is(err, createBooking.ErrPriestNotFound):
			handlers.RespondNotFound(w, msgPriestNotFound)

		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: user=%s, date=%s, slot=%s", caller.UserID, body.date(), body.TimeSlot)
			handlers.RespondConflict(w, handlers.KindConflict, msgSlotTaken)

		case errors.Is(err, createBooking.ErrNoAvailablePriests):
			h.logger.Warn("POST /bookings - No available priests: date=%s, slot=%s, mode=%s", body.date(), body.TimeSlot, body.ServiceMode)
			handlers.RespondConflict(w, handlers.KindNoAvailablePriests, msgNoAvailablePriests)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user=%s, error=%v", caller.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: id=%s, user=%s, priest=%s",
		result.Booking.ID, caller.UserID, result.Booking.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
