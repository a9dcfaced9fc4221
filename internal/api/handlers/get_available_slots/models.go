package get_available_slots

import (
	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/DC-BookingService/internal/usecase/get_available_slots"
)

// AvailabilityQuery параметры запроса из query string
type AvailabilityQuery struct {
	PoojaID      string `json:"poojaId" validate:"omitempty,uuid"`
	TempleID     string `json:"templeId" validate:"omitempty,uuid"`
	ServiceMode  string `json:"serviceMode" validate:"required,oneof=virtual in_person temple"`
	SelectedDate string `json:"selectedDate" validate:"required,isodate"`
}

// ToUseCaseRequest конвертирует валидированный запрос в модель use case
func (q AvailabilityQuery) ToUseCaseRequest() *getAvailableSlots.Request {
	return &getAvailableSlots.Request{
		PoojaID:      parseOptionalUUID(q.PoojaID),
		TempleID:     parseOptionalUUID(q.TempleID),
		ServiceMode:  domain.ServiceMode(q.ServiceMode),
		SelectedDate: q.SelectedDate,
	}
}

// PriestResponse священник в слоте
type PriestResponse struct {
	PriestID        uuid.UUID `json:"priestId"`
	PriestName      string    `json:"priestName"`
	PriestAvatar    *string   `json:"priestAvatar"`
	YearsExperience int       `json:"yearsExperience"`
	ScreenTimeScore int       `json:"screenTimeScore"`
	Price           float64   `json:"price"`
	Rating          float64   `json:"rating"`
}

// SlotResponse слот с ранжированными священниками
type SlotResponse struct {
	TimeSlot string           `json:"timeSlot"`
	Priests  []PriestResponse `json:"priests"`
}

// AvailabilityResponse ответ GET /availability
type AvailabilityResponse struct {
	AvailableSlots []SlotResponse `json:"availableSlots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getAvailableSlots.Response) AvailabilityResponse {
	out := AvailabilityResponse{AvailableSlots: make([]SlotResponse, 0, len(resp.Slots))}
	for _, slot := range resp.Slots {
		priests := make([]PriestResponse, 0, len(slot.Priests))
		for _, p := range slot.Priests {
			priests = append(priests, PriestResponse{
				PriestID:        p.PriestID,
				PriestName:      p.PriestName,
				PriestAvatar:    p.PriestAvatar,
				YearsExperience: p.YearsExperience,
				ScreenTimeScore: p.ScreenTimeScore,
				Price:           p.Price,
				Rating:          p.Rating,
			})
		}
		out.AvailableSlots = append(out.AvailableSlots, SlotResponse{TimeSlot: slot.TimeSlot, Priests: priests})
	}
	return out
}

func parseOptionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
