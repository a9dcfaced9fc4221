package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// Booking one reserved engagement between a devotee and a priest
type Booking struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ProviderID uuid.UUID
	PoojaID    *uuid.UUID
	TempleID   *uuid.UUID

	BookingType   BookingType
	ServiceMode   ServiceMode
	BookingDate   time.Time // только дата
	TimeSlot      string
	Status        BookingStatus
	PaymentStatus PaymentStatus
	TotalAmount   float64
	MeetingLink   *string

	SankalpDetails      *string // JSON
	Location            *string
	ItemsArrangedBy     *string
	NumDevotees         *int
	SpecialRequirements *string
	Remarks             *string

	CancellationReason *string
	CancelledAt        *time.Time
	RefundAmount       *float64

	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking holds its slot
func (b *Booking) IsActive() bool {
	for _, s := range ActiveStatuses {
		if b.Status == s {
			return !b.IsDeleted
		}
	}
	return false
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed || b.Status == StatusInProgress
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsOwnedBy returns true if the booking belongs to the user
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.UserID == userID
}

// ScheduledAt момент начала бронирования: дата бронирования плюс начало слота в таймзоне loc
func (b *Booking) ScheduledAt(loc *time.Location) (time.Time, error) {
	hour, minute, err := SlotStart(b.TimeSlot)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := b.BookingDate.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc), nil
}

// DateString дата бронирования в формате YYYY-MM-DD
func (b *Booking) DateString() string {
	return b.BookingDate.Format(DateFormat)
}

// BookingCancellation данные для перевода бронирования в cancelled
type BookingCancellation struct {
	BookingID    uuid.UUID
	Reason       string
	CancelledAt  time.Time
	RefundAmount float64
	RemarksNote  string // дописывается к remarks, существующий текст сохраняется
}

// UserBookingsFilter фильтр истории бронирований пользователя
type UserBookingsFilter struct {
	UserID uuid.UUID
	Status *BookingStatus // опционально
}
