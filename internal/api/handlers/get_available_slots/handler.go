package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/DC-BookingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/DC-BookingService/internal/usecase/get_available_slots"
)

const (
	msgTempleRequired = "temple ID required"
	msgTempleNotFound = "temple not found"
	msgInvalidInput   = "invalid availability request"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: poojaId, templeId (опционально), serviceMode, selectedDate (YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := AvailabilityQuery{
		PoojaID:      q.Get("poojaId"),
		TempleID:     q.Get("templeId"),
		ServiceMode:  q.Get("serviceMode"),
		SelectedDate: q.Get("selectedDate"),
	}

	if err := handlers.ValidateStruct(query); err != nil {
		h.logger.Warn("GET /availability - Invalid query: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), query.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTempleRequired):
			handlers.RespondBadRequest(w, msgTempleRequired)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getAvailableSlots.ErrTempleNotFound):
			h.logger.Warn("GET /availability - Temple not found: temple_id=%s", query.TempleID)
			handlers.RespondNotFound(w, msgTempleNotFound)

		default:
			h.logger.Error("GET /availability - Failed to resolve availability: date=%s, mode=%s, error=%v",
				query.SelectedDate, query.ServiceMode, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - %d slots for date=%s, mode=%s",
		len(result.Slots), query.SelectedDate, query.ServiceMode)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
