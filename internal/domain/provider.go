package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ProviderProfile священник или астролог
type ProviderProfile struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	ProviderType       string
	DisplayName        string
	AvatarURL          *string
	City               *string
	IsOnlineAvailable  bool
	IsOfflineAvailable bool
	AssociatedTemples  []uuid.UUID
	ApprovalStatus     string
	YearsExperience    int
	Rating             float64
	ScreenTimeScore    int
	TotalConsultations int
	IsDeleted          bool
}

// HasTemple returns true if the provider is associated with the temple
func (p *ProviderProfile) HasTemple(templeID uuid.UUID) bool {
	for _, id := range p.AssociatedTemples {
		if id == templeID {
			return true
		}
	}
	return false
}

// IsBookablePriest approved, not deleted priest
func (p *ProviderProfile) IsBookablePriest() bool {
	return p.ProviderType == ProviderTypePriest && p.ApprovalStatus == ApprovalStatusApproved && !p.IsDeleted
}

// EligibleFor проверяет доступность священника для режима.
// Для очных режимов templeID обязателен.
func (p *ProviderProfile) EligibleFor(mode ServiceMode, templeID *uuid.UUID) bool {
	switch mode {
	case ModeVirtual:
		return p.IsOnlineAvailable
	case ModeInPerson, ModeTemple:
		return templeID != nil && p.IsOfflineAvailable && p.HasTemple(*templeID)
	}
	return false
}

// PriestPoojaMapping предложение пуджи конкретным священником
type PriestPoojaMapping struct {
	ID                 uuid.UUID
	PriestID           uuid.UUID
	PoojaID            uuid.UUID
	IsActive           bool
	AvailableDays      []string
	AvailableTimeSlots []string
	PriceVirtual       *float64
	PriceInPerson      *float64
	PriceTemple        *float64
	YearsExperience    *int
	TotalPerformed     int
	IsDeleted          bool
}

// AvailableOn returns true if the weekday name is among available days (case-insensitive)
func (m *PriestPoojaMapping) AvailableOn(weekday string) bool {
	for _, d := range m.AvailableDays {
		if strings.EqualFold(strings.TrimSpace(d), weekday) {
			return true
		}
	}
	return false
}

// PriceOverride цена священника для режима, nil если не задана
func (m *PriestPoojaMapping) PriceOverride(mode ServiceMode) *float64 {
	switch mode {
	case ModeVirtual:
		return m.PriceVirtual
	case ModeInPerson:
		return m.PriceInPerson
	case ModeTemple:
		return m.PriceTemple
	}
	return nil
}

// Pooja catalogue entry
type Pooja struct {
	ID                   uuid.UUID
	Name                 string
	BasePriceVirtual     float64
	BasePriceInPerson    float64
	BasePriceTemple      float64
	ItemsArrangementCost float64
	DurationMinutes      int
	TotalBookings        int
	IsDeleted            bool
}

// BasePrice базовая цена для режима
func (p *Pooja) BasePrice(mode ServiceMode) float64 {
	switch mode {
	case ModeVirtual:
		return p.BasePriceVirtual
	case ModeInPerson:
		return p.BasePriceInPerson
	case ModeTemple:
		return p.BasePriceTemple
	}
	return 0
}

// Temple храм из каталога
type Temple struct {
	ID        uuid.UUID
	Name      string
	City      *string
	IsDeleted bool
}

// Price цена пуджи у священника: override из маппинга, иначе базовая цена пуджи.
// mapping и pooja могут быть nil.
func Price(mapping *PriestPoojaMapping, pooja *Pooja, mode ServiceMode) float64 {
	if mapping != nil {
		if p := mapping.PriceOverride(mode); p != nil {
			return *p
		}
	}
	if pooja != nil {
		return pooja.BasePrice(mode)
	}
	return 0
}

// YearsExperience опыт из маппинга, иначе из профиля
func YearsExperience(mapping *PriestPoojaMapping, profile *ProviderProfile) int {
	if mapping != nil && mapping.YearsExperience != nil {
		return *mapping.YearsExperience
	}
	return profile.YearsExperience
}
