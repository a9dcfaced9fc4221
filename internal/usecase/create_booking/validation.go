package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/DC-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса и возвращает дату бронирования
func validateRequest(req *Request) (time.Time, error) {
	if req.Caller.IsAnonymous() {
		return time.Time{}, ErrUnauthorized
	}

	if req.Date == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	if strings.TrimSpace(req.TimeSlot) == "" {
		return time.Time{}, fmt.Errorf("%w: timeSlot is required", ErrInvalidInput)
	}

	// Слот должен разбираться, иначе отмену невозможно посчитать
	if _, _, err := domain.SlotStart(req.TimeSlot); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.ServiceMode == "" {
		return time.Time{}, fmt.Errorf("%w: serviceMode is required", ErrInvalidInput)
	}

	if !req.ServiceMode.IsValid() {
		return time.Time{}, fmt.Errorf("%w: unknown serviceMode %q", ErrInvalidInput, req.ServiceMode)
	}

	if req.ServiceMode.IsOnsite() && req.TempleID == nil {
		return time.Time{}, ErrTempleRequired
	}

	if req.TotalAmount != nil && *req.TotalAmount < 0 {
		return time.Time{}, fmt.Errorf("%w: totalAmount must not be negative", ErrInvalidInput)
	}

	if req.NumDevotees != nil && (*req.NumDevotees < 1 || *req.NumDevotees > domain.MaxNumDevotees) {
		return time.Time{}, fmt.Errorf("%w: numDevotees must be between 1 and %d", ErrInvalidInput, domain.MaxNumDevotees)
	}

	if req.SpecialRequirements != nil && utf8.RuneCountInString(*req.SpecialRequirements) > domain.MaxSpecialRequirementsLength {
		return time.Time{}, fmt.Errorf("%w: specialRequirements is too long", ErrInvalidInput)
	}

	return date, nil
}
