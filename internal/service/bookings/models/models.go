package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	Caller domain.Caller
	UserID uuid.UUID
	Status *string
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	ProviderID    uuid.UUID  `json:"provider_id"`
	PoojaID       *uuid.UUID `json:"pooja_id,omitempty"`
	TempleID      *uuid.UUID `json:"temple_id,omitempty"`
	BookingType   string     `json:"booking_type"`
	ServiceMode   string     `json:"service_mode"`
	Date          string     `json:"date"` // "2025-10-15"
	TimeSlot      string     `json:"time_slot"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	TotalAmount   float64    `json:"total_amount"`
	MeetingLink   *string    `json:"meeting_link,omitempty"`

	Location            *string `json:"location,omitempty"`
	ItemsArrangedBy     *string `json:"items_arranged_by,omitempty"`
	NumDevotees         *int    `json:"num_devotees,omitempty"`
	SpecialRequirements *string `json:"special_requirements,omitempty"`
	Remarks             *string `json:"remarks,omitempty"`

	CancellationReason *string  `json:"cancellation_reason,omitempty"`
	CancelledAt        *string  `json:"cancelled_at,omitempty"` // ISO 8601
	RefundAmount       *float64 `json:"refund_amount,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                  b.ID,
		UserID:              b.UserID,
		ProviderID:          b.ProviderID,
		PoojaID:             b.PoojaID,
		TempleID:            b.TempleID,
		BookingType:         string(b.BookingType),
		ServiceMode:         string(b.ServiceMode),
		Date:                b.DateString(),
		TimeSlot:            b.TimeSlot,
		Status:              string(b.Status),
		PaymentStatus:       string(b.PaymentStatus),
		TotalAmount:         b.TotalAmount,
		MeetingLink:         b.MeetingLink,
		Location:            b.Location,
		ItemsArrangedBy:     b.ItemsArrangedBy,
		NumDevotees:         b.NumDevotees,
		SpecialRequirements: b.SpecialRequirements,
		Remarks:             b.Remarks,
		CancellationReason:  b.CancellationReason,
		RefundAmount:        b.RefundAmount,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в статус бронирования
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	switch s := domain.BookingStatus(status); s {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusInProgress,
		domain.StatusCompleted, domain.StatusCancelled:
		return s, nil
	}
	return "", ErrInvalidStatus
}
