package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
	"github.com/m04kA/DC-BookingService/internal/infra/lock"
	bookingRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/booking"
	mappingRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/mapping"
	poojaRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/pooja"
	providerRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/provider"
	templeRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/temple"
	"github.com/m04kA/DC-BookingService/internal/usecase/get_available_slots"
)

// UseCase создание бронирования: явный выбор священника или автоназначение
type UseCase struct {
	bookingRepo    BookingRepository
	providerRepo   ProviderRepository
	poojaRepo      PoojaRepository
	mappingRepo    MappingRepository
	templeRepo     TempleRepository
	resolver       SlotResolver
	locker         SlotLocker // nil - блокировки выключены
	meetingBaseURL string
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	providerRepo ProviderRepository,
	poojaRepo PoojaRepository,
	mappingRepo MappingRepository,
	templeRepo TempleRepository,
	resolver SlotResolver,
	locker SlotLocker,
	meetingBaseURL string,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		providerRepo:   providerRepo,
		poojaRepo:      poojaRepo,
		mappingRepo:    mappingRepo,
		templeRepo:     templeRepo,
		resolver:       resolver,
		locker:         locker,
		meetingBaseURL: meetingBaseURL,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%s, priest=%s, pooja=%s, mode=%s, date=%s, slot=%s",
		req.Caller.UserID, idString(req.PriestID), idString(req.PoojaID), req.ServiceMode, req.Date, req.TimeSlot)

	// 1. Валидация входных данных
	bookingDate, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Храм для очных режимов
	if req.ServiceMode.IsOnsite() {
		if err := uc.checkTemple(ctx, *req.TempleID); err != nil {
			return nil, err
		}
	}

	// 3. Пуджа
	var pooja *domain.Pooja
	if req.PoojaID != nil {
		pooja, err = uc.poojaRepo.GetByID(ctx, *req.PoojaID)
		if err != nil {
			if errors.Is(err, poojaRepo.ErrPoojaNotFound) {
				uc.logger.Warn("CreateBooking: pooja id=%s not found", *req.PoojaID)
				return nil, ErrPoojaNotFound
			}
			uc.logger.Error("CreateBooking: failed to get pooja id=%s: %v", *req.PoojaID, err)
			return nil, fmt.Errorf("%w: failed to get pooja: %v", ErrInternal, err)
		}
	}

	// 4. Священник: явный или лучший из доступных на слот
	autoAssigned := req.PriestID == nil
	priestID, err := uc.pickPriest(ctx, req)
	if err != nil {
		return nil, err
	}

	// 5. Блокировка слота
	release, err := uc.lockSlot(ctx, priestID, req.Date, req.TimeSlot)
	if err != nil {
		return nil, err
	}
	defer release()

	// 6. Повторная проверка занятости слота
	taken, err := uc.bookingRepo.HasActiveForSlot(ctx, priestID, req.Date, req.TimeSlot)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to check slot: %v", err)
		return nil, fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
	}
	if taken {
		uc.logger.Warn("CreateBooking: slot %s %s of priest id=%s already booked", req.Date, req.TimeSlot, priestID)
		return nil, ErrSlotTaken
	}

	// 7. Профиль священника
	priest, err := uc.providerRepo.GetByID(ctx, priestID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			uc.logger.Warn("CreateBooking: priest id=%s not found", priestID)
			return nil, ErrPriestNotFound
		}
		uc.logger.Error("CreateBooking: failed to get priest id=%s: %v", priestID, err)
		return nil, fmt.Errorf("%w: failed to get priest: %v", ErrInternal, err)
	}

	// 8. Цена
	var mapping *domain.PriestPoojaMapping
	if pooja != nil {
		mapping, err = uc.mappingRepo.GetByPriestAndPooja(ctx, priestID, pooja.ID)
		if err != nil && !errors.Is(err, mappingRepo.ErrMappingNotFound) {
			uc.logger.Error("CreateBooking: failed to get mapping priest=%s pooja=%s: %v", priestID, pooja.ID, err)
			return nil, fmt.Errorf("%w: failed to get mapping: %v", ErrInternal, err)
		}
	}
	amount := totalAmount(req, mapping, pooja)

	// 9. Создание бронирования
	booking := &domain.Booking{
		ID:                  uuid.New(),
		UserID:              req.Caller.UserID,
		ProviderID:          priestID,
		PoojaID:             req.PoojaID,
		TempleID:            req.TempleID,
		BookingType:         bookingType(req),
		ServiceMode:         req.ServiceMode,
		BookingDate:         bookingDate,
		TimeSlot:            req.TimeSlot,
		Status:              domain.StatusPending,
		PaymentStatus:       domain.PaymentPending,
		TotalAmount:         amount,
		SankalpDetails:      req.SankalpDetails,
		Location:            req.Location,
		ItemsArrangedBy:     req.ItemsArrangedBy,
		NumDevotees:         req.NumDevotees,
		SpecialRequirements: req.SpecialRequirements,
	}
	if req.ServiceMode == domain.ModeVirtual {
		link := meetingLink(uc.meetingBaseURL, now, booking.ID)
		booking.MeetingLink = &link
	}

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			uc.logger.Warn("CreateBooking: lost race for slot %s %s of priest id=%s", req.Date, req.TimeSlot, priestID)
			return nil, ErrSlotTaken
		}
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	// 10. Счетчики, ошибки не влияют на результат
	uc.bumpCounters(ctx, created, autoAssigned)

	uc.logger.Info("CreateBooking: booking id=%s created for priest id=%s (auto=%t), amount=%.2f",
		created.ID, priestID, autoAssigned, created.TotalAmount)

	return &Response{Booking: created, Priest: priest, AutoAssigned: autoAssigned}, nil
}

func (uc *UseCase) checkTemple(ctx context.Context, templeID uuid.UUID) error {
	if _, err := uc.templeRepo.GetByID(ctx, templeID); err != nil {
		if errors.Is(err, templeRepo.ErrTempleNotFound) {
			uc.logger.Warn("CreateBooking: temple id=%s not found", templeID)
			return ErrTempleNotFound
		}
		uc.logger.Error("CreateBooking: failed to get temple id=%s: %v", templeID, err)
		return fmt.Errorf("%w: failed to get temple: %v", ErrInternal, err)
	}
	return nil
}

// pickPriest возвращает явно выбранного священника или первого в рейтинге слота
func (uc *UseCase) pickPriest(ctx context.Context, req *Request) (uuid.UUID, error) {
	if req.PriestID != nil {
		return *req.PriestID, nil
	}

	resp, err := uc.resolver.Execute(ctx, &get_available_slots.Request{
		PoojaID:      req.PoojaID,
		TempleID:     req.TempleID,
		ServiceMode:  req.ServiceMode,
		SelectedDate: req.Date,
	})
	if err != nil {
		switch {
		case errors.Is(err, get_available_slots.ErrInvalidInput):
			return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		case errors.Is(err, get_available_slots.ErrTempleRequired):
			return uuid.Nil, ErrTempleRequired
		case errors.Is(err, get_available_slots.ErrTempleNotFound):
			return uuid.Nil, ErrTempleNotFound
		}
		uc.logger.Error("CreateBooking: failed to resolve priests: %v", err)
		return uuid.Nil, fmt.Errorf("%w: failed to resolve priests: %v", ErrInternal, err)
	}

	for _, slot := range resp.Slots {
		if slot.TimeSlot == req.TimeSlot && len(slot.Priests) > 0 {
			uc.logger.Info("CreateBooking: auto-assigned priest id=%s for slot %s", slot.Priests[0].PriestID, req.TimeSlot)
			return slot.Priests[0].PriestID, nil
		}
	}

	uc.logger.Warn("CreateBooking: no available priests for %s %s", req.Date, req.TimeSlot)
	return uuid.Nil, ErrNoAvailablePriests
}

// lockSlot захватывает advisory-блокировку. Недоступный Redis не блокирует бронирование:
// от двойной записи защищает уникальный индекс.
func (uc *UseCase) lockSlot(ctx context.Context, priestID uuid.UUID, date, timeSlot string) (func(), error) {
	noop := func() {}
	if uc.locker == nil {
		return noop, nil
	}

	release, err := uc.locker.Acquire(ctx, priestID, date, timeSlot)
	if err != nil {
		if errors.Is(err, lock.ErrLockHeld) {
			uc.logger.Warn("CreateBooking: slot %s %s of priest id=%s is locked", date, timeSlot, priestID)
			return nil, ErrSlotTaken
		}
		uc.logger.Warn("CreateBooking: slot lock unavailable, continuing without it: %v", err)
		return noop, nil
	}

	return release, nil
}

func (uc *UseCase) bumpCounters(ctx context.Context, b *domain.Booking, autoAssigned bool) {
	if err := uc.providerRepo.IncrementTotalConsultations(ctx, b.ProviderID); err != nil {
		uc.logger.Warn("CreateBooking: failed to increment consultations of priest id=%s: %v", b.ProviderID, err)
	}

	if b.PoojaID != nil {
		if err := uc.poojaRepo.IncrementTotalBookings(ctx, *b.PoojaID); err != nil {
			uc.logger.Warn("CreateBooking: failed to increment bookings of pooja id=%s: %v", *b.PoojaID, err)
		}
		if err := uc.mappingRepo.IncrementTotalPerformed(ctx, b.ProviderID, *b.PoojaID); err != nil {
			uc.logger.Warn("CreateBooking: failed to increment performed of mapping priest=%s pooja=%s: %v",
				b.ProviderID, *b.PoojaID, err)
		}
	}

	if autoAssigned {
		if err := uc.providerRepo.IncrementScreenTimeScore(ctx, b.ProviderID); err != nil {
			uc.logger.Warn("CreateBooking: failed to increment screen time of priest id=%s: %v", b.ProviderID, err)
		}
	}
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}
