package get_available_slots

import (
	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
)

// Request модель запроса доступных слотов
type Request struct {
	PoojaID      *uuid.UUID         // nil - все пуджи
	TempleID     *uuid.UUID         // обязателен для temple и in_person
	ServiceMode  domain.ServiceMode // virtual, in_person, temple
	SelectedDate string             // YYYY-MM-DD
}

// Response слоты по возрастанию метки, священники внутри слота отранжированы
type Response struct {
	SelectedDate string
	Slots        []domain.AvailableSlot
}
