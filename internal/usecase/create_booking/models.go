package create_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
)

// Request модель запроса на создание бронирования.
// PriestID == nil включает автоназначение священника.
type Request struct {
	Caller   domain.Caller
	PriestID *uuid.UUID
	PoojaID  *uuid.UUID
	TempleID *uuid.UUID

	ServiceMode domain.ServiceMode
	Date        string // YYYY-MM-DD
	TimeSlot    string

	TotalAmount         *float64 // явная сумма перекрывает расчет цены
	SankalpDetails      *string
	Location            *string
	ItemsArrangedBy     *string
	NumDevotees         *int
	SpecialRequirements *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking      *domain.Booking
	Priest       *domain.ProviderProfile
	AutoAssigned bool
}
