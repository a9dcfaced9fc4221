package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
	"github.com/m04kA/DC-BookingService/internal/usecase/get_available_slots"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	HasActiveForSlot(ctx context.Context, providerID uuid.UUID, date, timeSlot string) (bool, error)
}

// ProviderRepository интерфейс репозитория профилей священников
type ProviderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProviderProfile, error)
	IncrementTotalConsultations(ctx context.Context, id uuid.UUID) error
	IncrementScreenTimeScore(ctx context.Context, id uuid.UUID) error
}

// PoojaRepository интерфейс каталога пудж
type PoojaRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Pooja, error)
	IncrementTotalBookings(ctx context.Context, id uuid.UUID) error
}

// MappingRepository интерфейс репозитория связей священник-пуджа
type MappingRepository interface {
	GetByPriestAndPooja(ctx context.Context, priestID, poojaID uuid.UUID) (*domain.PriestPoojaMapping, error)
	IncrementTotalPerformed(ctx context.Context, priestID, poojaID uuid.UUID) error
}

// TempleRepository интерфейс каталога храмов
type TempleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Temple, error)
}

// SlotResolver подбирает священников на слот при автоназначении
type SlotResolver interface {
	Execute(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error)
}

// SlotLocker advisory-блокировка слота. Возвращает функцию освобождения.
type SlotLocker interface {
	Acquire(ctx context.Context, priestID uuid.UUID, date, timeSlot string) (func(), error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
