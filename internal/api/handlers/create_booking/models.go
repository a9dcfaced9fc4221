package create_booking

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
	createBooking "github.com/m04kA/DC-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest тело POST /bookings.
// chosenPriestId и selectedDate принимаются как синонимы priestId и date.
type CreateBookingRequest struct {
	PriestID       string `json:"priestId" validate:"omitempty,uuid"`
	ChosenPriestID string `json:"chosenPriestId" validate:"omitempty,uuid"`
	PoojaID        string `json:"poojaId" validate:"omitempty,uuid"`
	TempleID       string `json:"templeId" validate:"omitempty,uuid"`

	ServiceMode  string `json:"serviceMode" validate:"required,oneof=virtual in_person temple"`
	Date         string `json:"date" validate:"omitempty,isodate"`
	SelectedDate string `json:"selectedDate" validate:"omitempty,isodate"`
	TimeSlot     string `json:"timeSlot" validate:"required"`

	TotalAmount         *float64        `json:"totalAmount" validate:"omitempty,gte=0"`
	SankalpDetails      json.RawMessage `json:"sankalpDetails"`
	Location            *string         `json:"location"`
	ItemsArrangedBy     *string         `json:"itemsArrangedBy"`
	NumDevotees         *int            `json:"numDevotees" validate:"omitempty,min=1,max=500"`
	SpecialRequirements *string         `json:"specialRequirements" validate:"omitempty,max=1000"`
}

func (r *CreateBookingRequest) date() string {
	if r.Date != "" {
		return r.Date
	}
	return r.SelectedDate
}

func (r *CreateBookingRequest) priestID() string {
	if r.PriestID != "" {
		return r.PriestID
	}
	return r.ChosenPriestID
}

// ToUseCaseRequest конвертирует валидированное тело в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(caller domain.Caller) *createBooking.Request {
	return &createBooking.Request{
		Caller:              caller,
		PriestID:            parseOptionalUUID(r.priestID()),
		PoojaID:             parseOptionalUUID(r.PoojaID),
		TempleID:            parseOptionalUUID(r.TempleID),
		ServiceMode:         domain.ServiceMode(r.ServiceMode),
		Date:                r.date(),
		TimeSlot:            r.TimeSlot,
		TotalAmount:         r.TotalAmount,
		SankalpDetails:      rawJSON(r.SankalpDetails),
		Location:            r.Location,
		ItemsArrangedBy:     r.ItemsArrangedBy,
		NumDevotees:         r.NumDevotees,
		SpecialRequirements: r.SpecialRequirements,
	}
}

// PriestSummary краткие данные священника в ответе
type PriestSummary struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
}

// BookingSummary созданное бронирование
type BookingSummary struct {
	ID          uuid.UUID      `json:"id"`
	Date        string         `json:"date"`
	TimeSlot    string         `json:"time_slot"`
	Status      string         `json:"status"`
	MeetingLink *string        `json:"meeting_link"`
	TotalAmount float64        `json:"total_amount"`
	BookingType string         `json:"booking_type"`
	Priest      *PriestSummary `json:"priest"`
}

// CreateBookingResponse ответ 201
type CreateBookingResponse struct {
	Success bool           `json:"success"`
	Booking BookingSummary `json:"booking"`
	Message string         `json:"message"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createBooking.Response) CreateBookingResponse {
	b := resp.Booking
	out := CreateBookingResponse{
		Success: true,
		Booking: BookingSummary{
			ID:          b.ID,
			Date:        b.DateString(),
			TimeSlot:    b.TimeSlot,
			Status:      string(b.Status),
			MeetingLink: b.MeetingLink,
			TotalAmount: b.TotalAmount,
			BookingType: string(b.BookingType),
		},
		Message: msgBookingCreated,
	}

	if resp.Priest != nil {
		out.Booking.Priest = &PriestSummary{
			ID:          resp.Priest.ID,
			DisplayName: resp.Priest.DisplayName,
			AvatarURL:   resp.Priest.AvatarURL,
		}
	}
	if resp.AutoAssigned {
		out.Message = msgBookingAutoAssigned
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

// rawJSON sankalpDetails хранится как JSON-текст, null и пустое значение отбрасываются
func rawJSON(raw json.RawMessage) *string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	s := string(trimmed)
	return &s
}
