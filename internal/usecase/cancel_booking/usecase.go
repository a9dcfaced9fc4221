package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/booking"
)

// UseCase отмена бронирования с расчетом возврата по времени до начала
type UseCase struct {
	bookingRepo          BookingRepository
	auditRepo            AuditRepository
	txManager            TransactionManager
	location             *time.Location
	refundProcessingDays int
	timeProvider         TimeProvider
	logger               Logger
}

// NewUseCase создает новый экземпляр use case.
// location - таймзона, в которой трактуются дата и слот бронирования.
func NewUseCase(
	bookingRepo BookingRepository,
	auditRepo AuditRepository,
	txManager TransactionManager,
	location *time.Location,
	refundProcessingDays int,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:          bookingRepo,
		auditRepo:            auditRepo,
		txManager:            txManager,
		location:             location,
		refundProcessingDays: refundProcessingDays,
		timeProvider:         &RealTimeProvider{},
		logger:               logger,
	}
}

// Execute выполняет use case отмены бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%s, caller=%s", req.BookingID, req.Caller.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking id=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CancelBooking: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Доступ: владелец или администратор
	if !req.Caller.CanAccess(booking) {
		uc.logger.Warn("CancelBooking: user=%s is not allowed to cancel booking id=%s", req.Caller.UserID, booking.ID)
		return nil, ErrForbidden
	}

	// 4. Статус
	if booking.IsCancelled() {
		uc.logger.Warn("CancelBooking: booking id=%s already cancelled", booking.ID)
		return nil, ErrAlreadyCancelled
	}
	if !booking.CanBeCancelled() {
		uc.logger.Warn("CancelBooking: booking id=%s has status %s", booking.ID, booking.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrCannotBeCancelled, booking.Status)
	}

	// 5. Расчет возврата
	now := uc.timeProvider.Now()
	quote := domain.CalculateRefund(booking.BookingType, booking.TotalAmount,
		domain.HoursRemaining(now, uc.scheduledAt(booking)))

	// 6. Отмена и аудит в одной транзакции
	reason := strings.TrimSpace(req.Reason)
	err = uc.txManager.Do(ctx, func(ctx context.Context) error {
		if err := uc.bookingRepo.Cancel(ctx, domain.BookingCancellation{
			BookingID:    booking.ID,
			Reason:       reason,
			CancelledAt:  now,
			RefundAmount: quote.RefundAmount,
			RemarksNote:  remarksNote(now, reason, quote),
		}); err != nil {
			return err
		}

		return uc.auditRepo.Create(ctx, &domain.AuditLog{
			ID:         uuid.New(),
			UserID:     req.Caller.UserID,
			Action:     domain.AuditActionBookingCancelled,
			EntityType: domain.AuditEntityBooking,
			EntityID:   booking.ID,
			Details:    auditDetails(booking, reason, quote),
			CreatedAt:  now,
		})
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrAlreadyCancelled) {
			uc.logger.Warn("CancelBooking: booking id=%s cancelled concurrently", booking.ID)
			return nil, ErrAlreadyCancelled
		}
		if errors.Is(err, bookingRepo.ErrNotCancellable) {
			uc.logger.Warn("CancelBooking: booking id=%s left cancellable status concurrently", booking.ID)
			return nil, ErrCannotBeCancelled
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CancelBooking: failed to cancel booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
	}

	days := uc.refundProcessingDays
	if quote.RefundAmount == 0 {
		days = 0
	}

	uc.logger.Info("CancelBooking: booking id=%s cancelled, hours=%d, refund=%.2f (%.0f%%)",
		booking.ID, quote.HoursRemaining, quote.RefundAmount, quote.Percentage)

	return &Response{BookingID: booking.ID, Refund: quote, RefundProcessingDays: days}, nil
}

// scheduledAt начало бронирования. Нераспознанный слот трактуется как начало дня.
func (uc *UseCase) scheduledAt(b *domain.Booking) time.Time {
	at, err := b.ScheduledAt(uc.location)
	if err != nil {
		uc.logger.Warn("CancelBooking: booking id=%s has unparseable slot %q, using start of day", b.ID, b.TimeSlot)
		y, m, d := b.BookingDate.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, uc.location)
	}
	return at
}

func remarksNote(now time.Time, reason string, q domain.RefundQuote) string {
	note := fmt.Sprintf("Cancelled on %s. Refund: %.2f (%g%%).", now.UTC().Format(time.RFC3339), q.RefundAmount, q.Percentage)
	if reason != "" {
		note += " Reason: " + reason
	}
	return note
}

func auditDetails(b *domain.Booking, reason string, q domain.RefundQuote) map[string]interface{} {
	return map[string]interface{}{
		"booking_type":       string(b.BookingType),
		"booking_date":       b.DateString(),
		"time_slot":          b.TimeSlot,
		"previous_status":    string(b.Status),
		"hours_remaining":    q.HoursRemaining,
		"refund_percentage":  q.Percentage,
		"original_amount":    q.OriginalAmount,
		"refund_amount":      q.RefundAmount,
		"cancellation_fee":   q.CancellationFee,
		"policy_applied":     q.PolicyApplied,
		"materials_deducted": q.MaterialsDeducted,
		"reason":             reason,
	}
}
