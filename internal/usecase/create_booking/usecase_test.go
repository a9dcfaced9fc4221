package create_booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DC-BookingService/internal/domain"
	"github.com/m04kA/DC-BookingService/internal/infra/lock"
	bookingRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/booking"
	mappingRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/mapping"
	poojaRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/pooja"
	providerRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/provider"
	templeRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/temple"
	"github.com/m04kA/DC-BookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/DC-BookingService/pkg/ptr"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, b)
	if fn, ok := args.Get(0).(func(context.Context, *domain.Booking) *domain.Booking); ok {
		return fn(ctx, b), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) HasActiveForSlot(ctx context.Context, providerID uuid.UUID, date, timeSlot string) (bool, error) {
	args := m.Called(ctx, providerID, date, timeSlot)
	return args.Bool(0), args.Error(1)
}

type mockProviderRepo struct{ mock.Mock }

func (m *mockProviderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProviderProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderProfile), args.Error(1)
}

func (m *mockProviderRepo) IncrementTotalConsultations(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProviderRepo) IncrementScreenTimeScore(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockPoojaRepo struct{ mock.Mock }

func (m *mockPoojaRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pooja, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pooja), args.Error(1)
}

func (m *mockPoojaRepo) IncrementTotalBookings(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockMappingRepo struct{ mock.Mock }

func (m *mockMappingRepo) GetByPriestAndPooja(ctx context.Context, priestID, poojaID uuid.UUID) (*domain.PriestPoojaMapping, error) {
	args := m.Called(ctx, priestID, poojaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriestPoojaMapping), args.Error(1)
}

func (m *mockMappingRepo) IncrementTotalPerformed(ctx context.Context, priestID, poojaID uuid.UUID) error {
	return m.Called(ctx, priestID, poojaID).Error(0)
}

type mockTempleRepo struct{ mock.Mock }

func (m *mockTempleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Temple, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Temple), args.Error(1)
}

type mockResolver struct{ mock.Mock }

func (m *mockResolver) Execute(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*get_available_slots.Response), args.Error(1)
}

type mockLocker struct {
	mock.Mock
	released int
}

func (m *mockLocker) Acquire(ctx context.Context, priestID uuid.UUID, date, timeSlot string) (func(), error) {
	args := m.Called(ctx, priestID, date, timeSlot)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.released++ }, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	bookings *mockBookingRepo
	priests  *mockProviderRepo
	poojas   *mockPoojaRepo
	mappings *mockMappingRepo
	temples  *mockTempleRepo
	resolver *mockResolver
	locker   *mockLocker
	uc       *UseCase
}

var testNow = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

func newFixture(withLocker bool) *fixture {
	f := &fixture{
		bookings: new(mockBookingRepo),
		priests:  new(mockProviderRepo),
		poojas:   new(mockPoojaRepo),
		mappings: new(mockMappingRepo),
		temples:  new(mockTempleRepo),
		resolver: new(mockResolver),
		locker:   new(mockLocker),
	}
	var locker SlotLocker
	if withLocker {
		locker = f.locker
	}
	f.uc = NewUseCase(f.bookings, f.priests, f.poojas, f.mappings, f.temples, f.resolver, locker,
		"https://meet.example.test/", nopLogger{})
	f.uc.timeProvider = fixedTime{now: testNow}
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.bookings.AssertExpectations(t)
	f.priests.AssertExpectations(t)
	f.poojas.AssertExpectations(t)
	f.mappings.AssertExpectations(t)
	f.temples.AssertExpectations(t)
	f.resolver.AssertExpectations(t)
	f.locker.AssertExpectations(t)
}

func caller() domain.Caller {
	return domain.Caller{UserID: uuid.New(), Role: "user"}
}

func echoCreate(f *fixture) {
	f.bookings.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).
		Return(func(_ context.Context, b *domain.Booking) *domain.Booking { return b }, nil).Once()
}

func TestExecute_ExplicitPriestVirtual(t *testing.T) {
	f := newFixture(true)
	priestID, poojaID := uuid.New(), uuid.New()
	pooja := &domain.Pooja{ID: poojaID, BasePriceVirtual: 1100, ItemsArrangementCost: 300}
	req := &Request{
		Caller:          caller(),
		PriestID:        &priestID,
		PoojaID:         &poojaID,
		ServiceMode:     domain.ModeVirtual,
		Date:            "2025-06-16",
		TimeSlot:        "09:00 AM",
		ItemsArrangedBy: ptr.Ptr("priest"),
	}

	f.poojas.On("GetByID", mock.Anything, poojaID).Return(pooja, nil).Once()
	f.locker.On("Acquire", mock.Anything, priestID, "2025-06-16", "09:00 AM").Return(nil).Once()
	f.bookings.On("HasActiveForSlot", mock.Anything, priestID, "2025-06-16", "09:00 AM").Return(false, nil).Once()
	f.priests.On("GetByID", mock.Anything, priestID).Return(&domain.ProviderProfile{ID: priestID, DisplayName: "Pandit"}, nil).Once()
	f.mappings.On("GetByPriestAndPooja", mock.Anything, priestID, poojaID).
		Return(&domain.PriestPoojaMapping{PriceVirtual: ptr.Ptr(900.0)}, nil).Once()
	echoCreate(f)
	f.priests.On("IncrementTotalConsultations", mock.Anything, priestID).Return(nil).Once()
	f.poojas.On("IncrementTotalBookings", mock.Anything, poojaID).Return(nil).Once()
	f.mappings.On("IncrementTotalPerformed", mock.Anything, priestID, poojaID).Return(errors.New("ignored")).Once()

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	b := resp.Booking
	assert.False(t, resp.AutoAssigned)
	assert.Equal(t, req.Caller.UserID, b.UserID)
	assert.Equal(t, priestID, b.ProviderID)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, domain.PaymentPending, b.PaymentStatus)
	assert.Equal(t, domain.TypePooja, b.BookingType)
	assert.Equal(t, 1200.0, b.TotalAmount)
	assert.Equal(t, "2025-06-16", b.BookingDate.Format(domain.DateFormat))
	require.NotNil(t, b.MeetingLink)
	assert.Regexp(t, `^https://meet\.example\.test/1749542400000-[0-9a-f]{8}$`, *b.MeetingLink)
	assert.Equal(t, "Pandit", resp.Priest.DisplayName)
	assert.Equal(t, 1, f.locker.released)
	f.assertExpectations(t)
}

// Активное бронирование на ту же тройку: конфликт, новая запись не создается
func TestExecute_SlotAlreadyBooked(t *testing.T) {
	f := newFixture(false)
	priestID := uuid.New()

	f.bookings.On("HasActiveForSlot", mock.Anything, priestID, "2025-06-16", "10:00 AM").Return(true, nil).Once()

	_, err := f.uc.Execute(context.Background(), &Request{
		Caller:      caller(),
		PriestID:    &priestID,
		ServiceMode: domain.ModeVirtual,
		Date:        "2025-06-16",
		TimeSlot:    "10:00 AM",
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestExecute_LostInsertRace(t *testing.T) {
	f := newFixture(false)
	priestID := uuid.New()

	f.bookings.On("HasActiveForSlot", mock.Anything, priestID, "2025-06-16", "10:00 AM").Return(false, nil).Once()
	f.priests.On("GetByID", mock.Anything, priestID).Return(&domain.ProviderProfile{ID: priestID}, nil).Once()
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil, bookingRepo.ErrSlotTaken).Once()

	_, err := f.uc.Execute(context.Background(), &Request{
		Caller:      caller(),
		PriestID:    &priestID,
		ServiceMode: domain.ModeVirtual,
		Date:        "2025-06-16",
		TimeSlot:    "10:00 AM",
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
	f.assertExpectations(t)
}

func TestExecute_LockHeld(t *testing.T) {
	f := newFixture(true)
	priestID := uuid.New()

	f.locker.On("Acquire", mock.Anything, priestID, "2025-06-16", "10:00 AM").Return(lock.ErrLockHeld).Once()

	_, err := f.uc.Execute(context.Background(), &Request{
		Caller:      caller(),
		PriestID:    &priestID,
		ServiceMode: domain.ModeVirtual,
		Date:        "2025-06-16",
		TimeSlot:    "10:00 AM",
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
	f.assertExpectations(t)
}

func TestExecute_LockUnavailableProceeds(t *testing.T) {
	f := newFixture(true)
	priestID := uuid.New()

	f.locker.On("Acquire", mock.Anything, priestID, "2025-06-16", "10:00 AM").Return(errors.New("dial tcp: refused")).Once()
	f.bookings.On("HasActiveForSlot", mock.Anything, priestID, "2025-06-16", "10:00 AM").Return(false, nil).Once()
	f.priests.On("GetByID", mock.Anything, priestID).Return(&domain.ProviderProfile{ID: priestID}, nil).Once()
	echoCreate(f)
	f.priests.On("IncrementTotalConsultations", mock.Anything, priestID).Return(nil).Once()

	resp, err := f.uc.Execute(context.Background(), &Request{
		Caller:      caller(),
		PriestID:    &priestID,
		ServiceMode: domain.ModeVirtual,
		Date:        "2025-06-16",
		TimeSlot:    "10:00 AM",
		TotalAmount: ptr.Ptr(250.0),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TypeConsultation, resp.Booking.BookingType)
	assert.Equal(t, 250.0, resp.Booking.TotalAmount)
	f.assertExpectations(t)
}

func TestExecute_AutoAssignTemple(t *testing.T) {
	f := newFixture(false)
	templeID := uuid.New()
	top, second := uuid.New(), uuid.New()

	f.temples.On("GetByID", mock.Anything, templeID).Return(&domain.Temple{ID: templeID}, nil).Once()
	f.resolver.On("Execute", mock.Anything, &get_available_slots.Request{
		TempleID:     &templeID,
		ServiceMode:  domain.ModeTemple,
		SelectedDate: "2025-06-16",
	}).Return(&get_available_slots.Response{
		SelectedDate: "2025-06-16",
		Slots: []domain.AvailableSlot{
			{TimeSlot: "06:00 AM", Priests: []domain.PriestCandidate{{PriestID: second}}},
			{TimeSlot: "06:00 PM", Priests: []domain.PriestCandidate{{PriestID: top}, {PriestID: second}}},
		},
	}, nil).Once()
	f.bookings.On("HasActiveForSlot", mock.Anything, top, "2025-06-16", "06:00 PM").Return(false, nil).Once()
	f.priests.On("GetByID", mock.Anything, top).Return(&domain.ProviderProfile{ID: top}, nil).Once()
	echoCreate(f)
	f.priests.On("IncrementTotalConsultations", mock.Anything, top).Return(nil).Once()
	f.priests.On("IncrementScreenTimeScore", mock.Anything, top).Return(nil).Once()

	resp, err := f.uc.Execute(context.Background(), &Request{
		Caller:      caller(),
		TempleID:    &templeID,
		ServiceMode: domain.ModeTemple,
		Date:        "2025-06-16",
		TimeSlot:    "06:00 PM",
	})

	require.NoError(t, err)
	assert.True(t, resp.AutoAssigned)
	assert.Equal(t, top, resp.Booking.ProviderID)
	assert.Equal(t, domain.TypeTempleVisit, resp.Booking.BookingType)
	assert.Nil(t, resp.Booking.MeetingLink)
	assert.Zero(t, resp.Booking.TotalAmount)
	f.assertExpectations(t)
}

func TestExecute_AutoAssignNoPriests(t *testing.T) {
	f := newFixture(false)

	f.resolver.On("Execute", mock.Anything, mock.Anything).Return(&get_available_slots.Response{
		Slots: []domain.AvailableSlot{{TimeSlot: "07:00 AM", Priests: []domain.PriestCandidate{{PriestID: uuid.New()}}}},
	}, nil).Once()

	_, err := f.uc.Execute(context.Background(), &Request{
		Caller:      caller(),
		ServiceMode: domain.ModeVirtual,
		Date:        "2025-06-16",
		TimeSlot:    "09:00 AM",
	})

	assert.ErrorIs(t, err, ErrNoAvailablePriests)
	f.assertExpectations(t)
}

func TestExecute_NotFoundErrors(t *testing.T) {
	t.Run("priest", func(t *testing.T) {
		f := newFixture(false)
		priestID := uuid.New()
		f.bookings.On("HasActiveForSlot", mock.Anything, priestID, "2025-06-16", "09:00 AM").Return(false, nil).Once()
		f.priests.On("GetByID", mock.Anything, priestID).Return(nil, providerRepo.ErrProviderNotFound).Once()

		_, err := f.uc.Execute(context.Background(), &Request{
			Caller: caller(), PriestID: &priestID, ServiceMode: domain.ModeVirtual, Date: "2025-06-16", TimeSlot: "09:00 AM",
		})
		assert.ErrorIs(t, err, ErrPriestNotFound)
		f.assertExpectations(t)
	})

	t.Run("pooja", func(t *testing.T) {
		f := newFixture(false)
		priestID, poojaID := uuid.New(), uuid.New()
		f.poojas.On("GetByID", mock.Anything, poojaID).Return(nil, poojaRepo.ErrPoojaNotFound).Once()

		_, err := f.uc.Execute(context.Background(), &Request{
			Caller: caller(), PriestID: &priestID, PoojaID: &poojaID, ServiceMode: domain.ModeVirtual, Date: "2025-06-16", TimeSlot: "09:00 AM",
		})
		assert.ErrorIs(t, err, ErrPoojaNotFound)
		f.assertExpectations(t)
	})

	t.Run("temple", func(t *testing.T) {
		f := newFixture(false)
		priestID, templeID := uuid.New(), uuid.New()
		f.temples.On("GetByID", mock.Anything, templeID).Return(nil, templeRepo.ErrTempleNotFound).Once()

		_, err := f.uc.Execute(context.Background(), &Request{
			Caller: caller(), PriestID: &priestID, TempleID: &templeID, ServiceMode: domain.ModeInPerson, Date: "2025-06-16", TimeSlot: "09:00 AM",
		})
		assert.ErrorIs(t, err, ErrTempleNotFound)
		f.assertExpectations(t)
	})
}

func TestExecute_MissingMappingUsesBasePrice(t *testing.T) {
	f := newFixture(false)
	priestID, poojaID, templeID := uuid.New(), uuid.New(), uuid.New()
	pooja := &domain.Pooja{ID: poojaID, BasePriceInPerson: 2100, ItemsArrangementCost: 500}

	f.temples.On("GetByID", mock.Anything, templeID).Return(&domain.Temple{ID: templeID}, nil).Once()
	f.poojas.On("GetByID", mock.Anything, poojaID).Return(pooja, nil).Once()
	f.bookings.On("HasActiveForSlot", mock.Anything, priestID, "2025-06-16", "09:00 AM").Return(false, nil).Once()
	f.priests.On("GetByID", mock.Anything, priestID).Return(&domain.ProviderProfile{ID: priestID}, nil).Once()
	f.mappings.On("GetByPriestAndPooja", mock.Anything, priestID, poojaID).Return(nil, mappingRepo.ErrMappingNotFound).Once()
	echoCreate(f)
	f.priests.On("IncrementTotalConsultations", mock.Anything, priestID).Return(nil).Once()
	f.poojas.On("IncrementTotalBookings", mock.Anything, poojaID).Return(nil).Once()
	f.mappings.On("IncrementTotalPerformed", mock.Anything, priestID, poojaID).Return(nil).Once()

	resp, err := f.uc.Execute(context.Background(), &Request{
		Caller:          caller(),
		PriestID:        &priestID,
		PoojaID:         &poojaID,
		TempleID:        &templeID,
		ServiceMode:     domain.ModeInPerson,
		Date:            "2025-06-16",
		TimeSlot:        "09:00 AM",
		ItemsArrangedBy: ptr.Ptr("devotee"),
	})

	require.NoError(t, err)
	assert.Equal(t, 2100.0, resp.Booking.TotalAmount)
	f.assertExpectations(t)
}

func TestValidateRequest_CountsCharactersNotBytes(t *testing.T) {
	priestID := uuid.New()
	// деванагари: 3 байта на символ
	req := &Request{
		Caller:              caller(),
		PriestID:            &priestID,
		ServiceMode:         domain.ModeVirtual,
		Date:                "2025-06-16",
		TimeSlot:            "09:00 AM",
		SpecialRequirements: ptr.Ptr(strings.Repeat("क", domain.MaxSpecialRequirementsLength)),
	}

	_, err := validateRequest(req)
	assert.NoError(t, err)

	req.SpecialRequirements = ptr.Ptr(strings.Repeat("क", domain.MaxSpecialRequirementsLength+1))
	_, err = validateRequest(req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_Validation(t *testing.T) {
	priestID := uuid.New()
	valid := func() Request {
		return Request{Caller: caller(), PriestID: &priestID, ServiceMode: domain.ModeVirtual, Date: "2025-06-16", TimeSlot: "09:00 AM"}
	}

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"anonymous", func(r *Request) { r.Caller = domain.Caller{} }, ErrUnauthorized},
		{"missing date", func(r *Request) { r.Date = "" }, ErrInvalidInput},
		{"bad date", func(r *Request) { r.Date = "16/06/2025" }, ErrInvalidInput},
		{"missing slot", func(r *Request) { r.TimeSlot = " " }, ErrInvalidInput},
		{"unparseable slot", func(r *Request) { r.TimeSlot = "morning" }, ErrInvalidInput},
		{"missing mode", func(r *Request) { r.ServiceMode = "" }, ErrInvalidInput},
		{"unknown mode", func(r *Request) { r.ServiceMode = "astral" }, ErrInvalidInput},
		{"temple required", func(r *Request) { r.ServiceMode = domain.ModeTemple }, ErrTempleRequired},
		{"negative amount", func(r *Request) { r.TotalAmount = ptr.Ptr(-1.0) }, ErrInvalidInput},
		{"zero devotees", func(r *Request) { r.NumDevotees = ptr.Ptr(0) }, ErrInvalidInput},
		{"requirements too long", func(r *Request) {
			r.SpecialRequirements = ptr.Ptr(strings.Repeat("a", domain.MaxSpecialRequirementsLength+1))
		}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(true)
			req := valid()
			tt.mutate(&req)

			_, err := f.uc.Execute(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
			f.assertExpectations(t)
		})
	}
}

func TestMeetingLink(t *testing.T) {
	id := uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	link := meetingLink("https://meet.divineconnect.app", time.UnixMilli(1700000000123), id)
	assert.Equal(t, "https://meet.divineconnect.app/1700000000123-1b4e28ba", link)
}
