package get_available_slots

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
)

// MappingRepository интерфейс репозитория связей священник-пуджа
type MappingRepository interface {
	// GetActive активные маппинги пуджи, nil - всех пудж
	GetActive(ctx context.Context, poojaID *uuid.UUID) ([]*domain.PriestPoojaMapping, error)
}

// ProviderRepository интерфейс репозитория профилей священников
type ProviderRepository interface {
	GetApprovedPriestsByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.ProviderProfile, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveByDateAndProviders(ctx context.Context, date string, providerIDs []uuid.UUID) ([]*domain.Booking, error)
}

// PoojaRepository интерфейс каталога пудж
type PoojaRepository interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Pooja, error)
}

// TempleRepository интерфейс каталога храмов
type TempleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Temple, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
