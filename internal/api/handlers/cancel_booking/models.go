package cancel_booking

import (
	"math"

	cancelBooking "github.com/m04kA/DC-BookingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest тело POST /bookings/{bookingId}/cancel. Тело опционально.
type CancelBookingRequest struct {
	BookingID          string `json:"booking_id" validate:"omitempty,uuid"`
	CancellationReason string `json:"cancellation_reason" validate:"max=500"`
}

// RefundDetails детали возврата, суммы округлены до копеек
type RefundDetails struct {
	OriginalAmount       float64 `json:"original_amount"`
	RefundAmount         float64 `json:"refund_amount"`
	RefundPercentage     float64 `json:"refund_percentage"`
	CancellationFee      float64 `json:"cancellation_fee"`
	PolicyApplied        string  `json:"policy_applied"`
	RefundProcessingDays int     `json:"refund_processing_days"`
}

// CancelBookingResponse ответ 200
type CancelBookingResponse struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	RefundDetails RefundDetails `json:"refund_details"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *cancelBooking.Response) CancelBookingResponse {
	q := resp.Refund
	return CancelBookingResponse{
		Success: true,
		Message: msgCancelled,
		RefundDetails: RefundDetails{
			OriginalAmount:       round2(q.OriginalAmount),
			RefundAmount:         round2(q.RefundAmount),
			RefundPercentage:     round2(q.Percentage),
			CancellationFee:      round2(q.CancellationFee),
			PolicyApplied:        q.PolicyApplied,
			RefundProcessingDays: resp.RefundProcessingDays,
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
