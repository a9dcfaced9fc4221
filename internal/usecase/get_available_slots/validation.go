package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/DC-BookingService/internal/domain"
)

// validateRequest валидирует входные данные и возвращает разобранную дату
func validateRequest(req *Request) (time.Time, error) {
	if req.SelectedDate == "" {
		return time.Time{}, fmt.Errorf("%w: selectedDate is required", ErrInvalidInput)
	}

	if req.ServiceMode == "" {
		return time.Time{}, fmt.Errorf("%w: serviceMode is required", ErrInvalidInput)
	}

	if !req.ServiceMode.IsValid() {
		return time.Time{}, fmt.Errorf("%w: unknown serviceMode %q", ErrInvalidInput, req.ServiceMode)
	}

	// Дата календарная, без таймзоны: день недели определяется самой датой
	date, err := time.Parse(domain.DateFormat, req.SelectedDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: selectedDate must be YYYY-MM-DD", ErrInvalidInput)
	}

	if req.ServiceMode.IsOnsite() && req.TempleID == nil {
		return time.Time{}, ErrTempleRequired
	}

	return date, nil
}
