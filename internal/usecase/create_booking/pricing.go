package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
)

// totalAmount явная сумма, иначе цена пуджи у священника плюс стоимость материалов,
// если их приносит священник
func totalAmount(req *Request, mapping *domain.PriestPoojaMapping, pooja *domain.Pooja) float64 {
	if req.TotalAmount != nil {
		return *req.TotalAmount
	}
	if pooja == nil {
		return 0
	}

	amount := domain.Price(mapping, pooja, req.ServiceMode)
	if req.ItemsArrangedBy != nil && strings.EqualFold(*req.ItemsArrangedBy, domain.ItemsArrangedByPriest) {
		amount += pooja.ItemsArrangementCost
	}
	return amount
}

func bookingType(req *Request) domain.BookingType {
	switch {
	case req.PoojaID != nil:
		return domain.TypePooja
	case req.ServiceMode == domain.ModeTemple && req.TempleID != nil:
		return domain.TypeTempleVisit
	default:
		return domain.TypeConsultation
	}
}

// meetingLink <base>/<unix-ms>-<первые 8 символов id>
func meetingLink(base string, now time.Time, id uuid.UUID) string {
	return fmt.Sprintf("%s/%d-%s", strings.TrimRight(base, "/"), now.UnixMilli(), id.String()[:8])
}
