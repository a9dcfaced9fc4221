package cancel_booking

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
)

func validateRequest(req *Request) error {
	if req.Caller.IsAnonymous() {
		return ErrUnauthorized
	}

	if req.BookingID == uuid.Nil {
		return fmt.Errorf("%w: booking_id is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation_reason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return nil
}
