package cancel_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
)

// Request модель запроса на отмену бронирования
type Request struct {
	Caller    domain.Caller
	BookingID uuid.UUID
	Reason    string
}

// Response итог отмены
type Response struct {
	BookingID            uuid.UUID
	Refund               domain.RefundQuote
	RefundProcessingDays int // 0, если возвращать нечего
}
