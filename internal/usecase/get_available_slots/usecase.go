package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
	templeRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/temple"
)

// UseCase Availability Resolver: свободные слоты и ранжированные священники на дату
type UseCase struct {
	mappingRepo  MappingRepository
	providerRepo ProviderRepository
	bookingRepo  BookingRepository
	poojaRepo    PoojaRepository
	templeRepo   TempleRepository
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	mappingRepo MappingRepository,
	providerRepo ProviderRepository,
	bookingRepo BookingRepository,
	poojaRepo PoojaRepository,
	templeRepo TempleRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		mappingRepo:  mappingRepo,
		providerRepo: providerRepo,
		bookingRepo:  bookingRepo,
		poojaRepo:    poojaRepo,
		templeRepo:   templeRepo,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: pooja=%s, temple=%s, mode=%s, date=%s",
		idString(req.PoojaID), idString(req.TempleID), req.ServiceMode, req.SelectedDate)

	// 1. Валидация входных данных
	date, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	empty := &Response{SelectedDate: req.SelectedDate, Slots: []domain.AvailableSlot{}}

	// 2. Для очных режимов храм должен существовать
	if req.ServiceMode.IsOnsite() {
		if _, err := uc.templeRepo.GetByID(ctx, *req.TempleID); err != nil {
			if errors.Is(err, templeRepo.ErrTempleNotFound) {
				uc.logger.Warn("GetAvailableSlots: temple id=%s not found", *req.TempleID)
				return nil, ErrTempleNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get temple id=%s: %v", *req.TempleID, err)
			return nil, fmt.Errorf("%w: failed to get temple: %v", ErrInternal, err)
		}
	}

	// 3. Маппинги, доступные в этот день недели
	weekday := date.Weekday().String()

	mappings, err := uc.mappingRepo.GetActive(ctx, req.PoojaID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get mappings: %v", err)
		return nil, fmt.Errorf("%w: failed to get mappings: %v", ErrInternal, err)
	}

	mappings = filterByWeekday(mappings, weekday)
	if len(mappings) == 0 {
		uc.logger.Info("GetAvailableSlots: no priests offer this on %s", weekday)
		return empty, nil
	}

	// 4. Профили одобренных священников
	profiles, err := uc.providerRepo.GetApprovedPriestsByIDs(ctx, distinctPriestIDs(mappings))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get priests: %v", err)
		return nil, fmt.Errorf("%w: failed to get priests: %v", ErrInternal, err)
	}

	// 5. Доступность под режим
	eligible := make(map[uuid.UUID]*domain.ProviderProfile, len(profiles))
	eligibleIDs := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		if p.IsBookablePriest() && p.EligibleFor(req.ServiceMode, req.TempleID) {
			eligible[p.ID] = p
			eligibleIDs = append(eligibleIDs, p.ID)
		}
	}

	if len(eligible) == 0 {
		uc.logger.Info("GetAvailableSlots: no eligible priests for mode=%s", req.ServiceMode)
		return empty, nil
	}

	// 6. Занятые слоты
	bookings, err := uc.bookingRepo.GetActiveByDateAndProviders(ctx, req.SelectedDate, eligibleIDs)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Базовые цены пудж
	poojas, err := uc.poojaRepo.GetByIDs(ctx, distinctPoojaIDs(mappings))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get poojas: %v", err)
		return nil, fmt.Errorf("%w: failed to get poojas: %v", ErrInternal, err)
	}

	// 8. Кандидаты, ранжирование и сортировка слотов
	bySlot, unbookable := collectSlots(mappings, eligible, takenSlots(bookings), poojas, req.ServiceMode)
	if len(unbookable) > 0 {
		uc.logger.Warn("GetAvailableSlots: skipped unparseable slot labels %q on %s", unbookable, req.SelectedDate)
	}
	slots := rankSlots(bySlot, req.ServiceMode)

	uc.logger.Info("GetAvailableSlots: %d slots, %d eligible priests, %d taken on %s",
		len(slots), len(eligible), len(bookings), req.SelectedDate)

	return &Response{SelectedDate: req.SelectedDate, Slots: slots}, nil
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}
