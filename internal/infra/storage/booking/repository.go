package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/DC-BookingService/internal/domain"
	"github.com/m04kA/DC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DC-BookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"user_id",
	"provider_id",
	"pooja_id",
	"temple_id",
	"booking_type",
	"service_mode",
	"booking_date",
	"time_slot",
	"status",
	"payment_status",
	"total_amount",
	"meeting_link",
	"sankalp_details",
	"location",
	"items_arranged_by",
	"num_devotees",
	"special_requirements",
	"remarks",
	"cancellation_reason",
	"cancelled_at",
	"refund_amount",
	"is_deleted",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет бронирование. Вставка условная: если частичный уникальный индекс
// bookings_active_slot_uidx уже содержит активную запись на (provider_id, booking_date, time_slot),
// строка не вставляется и возвращается ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"user_id",
			"provider_id",
			"pooja_id",
			"temple_id",
			"booking_type",
			"service_mode",
			"booking_date",
			"time_slot",
			"status",
			"payment_status",
			"total_amount",
			"meeting_link",
			"sankalp_details",
			"location",
			"items_arranged_by",
			"num_devotees",
			"special_requirements",
		).
		Values(
			booking.ID,
			booking.UserID,
			booking.ProviderID,
			nullUUID(booking.PoojaID),
			nullUUID(booking.TempleID),
			string(booking.BookingType),
			string(booking.ServiceMode),
			booking.DateString(),
			booking.TimeSlot,
			string(booking.Status),
			string(booking.PaymentStatus),
			booking.TotalAmount,
			booking.MeetingLink,
			booking.SankalpDetails,
			booking.Location,
			booking.ItemsArrangedBy,
			booking.NumDevotees,
			booking.SpecialRequirements,
		).
		Suffix("ON CONFLICT DO NOTHING RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) || isSlotConflict(err) {
		return nil, ErrSlotTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает не удаленное бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUserID история бронирований пользователя, новые первыми
func (r *Repository) GetByUserID(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": filter.UserID, "is_deleted": false}).
		OrderBy("booking_date DESC", "created_at DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// HasActiveForSlot проверяет, занят ли слот священника активным бронированием
func (r *Repository) HasActiveForSlot(ctx context.Context, providerID uuid.UUID, date, timeSlot string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"provider_id":  providerID,
			"booking_date": date,
			"time_slot":    timeSlot,
			"status":       activeStatusStrings(),
			"is_deleted":   false,
		}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasActiveForSlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: HasActiveForSlot - scan count: %v", ErrScanRow, err)
	}

	return count > 0, nil
}

// GetActiveByDateAndProviders активные бронирования на дату для набора священников
func (r *Repository) GetActiveByDateAndProviders(ctx context.Context, date string, providerIDs []uuid.UUID) ([]*domain.Booking, error) {
	if len(providerIDs) == 0 {
		return []*domain.Booking{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]string, len(providerIDs))
	for i, id := range providerIDs {
		ids[i] = id.String()
	}

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"booking_date": date,
			"provider_id":  ids,
			"status":       activeStatusStrings(),
			"is_deleted":   false,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDateAndProviders - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDateAndProviders - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Cancel переводит бронирование в cancelled одним условным UPDATE.
// remarks дописываются, payment_status paid становится refund_pending.
// Если бронирование уже отменено (или удалено), возвращает ErrAlreadyCancelled.
func (r *Repository) Cancel(ctx context.Context, c domain.BookingCancellation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(domain.StatusCancelled)).
		Set("cancellation_reason", c.Reason).
		Set("cancelled_at", c.CancelledAt).
		Set("refund_amount", c.RefundAmount).
		Set("remarks", squirrel.Expr(
			"CASE WHEN COALESCE(remarks, '') = '' THEN ? ELSE remarks || chr(10) || ? END",
			c.RemarksNote, c.RemarksNote,
		)).
		Set("payment_status", squirrel.Expr(
			"CASE WHEN payment_status = ? THEN ? ELSE payment_status END",
			string(domain.PaymentPaid), string(domain.PaymentRefundPending),
		)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.BookingID, "is_deleted": false}).
		Where(squirrel.Eq{"status": activeStatusStrings()}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return r.cancelRejection(ctx, executor, c.BookingID)
	}

	return nil
}

// cancelRejection перечитывает статус, чтобы объяснить, почему отмена не применилась
func (r *Repository) cancelRejection(ctx context.Context, executor DBExecutor, id uuid.UUID) error {
	query, args, err := psqlbuilder.Select("status").
		From("bookings").
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build status query: %v", ErrBuildQuery, err)
	}

	var status string
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("%w: Cancel - read status: %v", ErrScanRow, err)
	}

	if domain.BookingStatus(status) == domain.StatusCancelled {
		return ErrAlreadyCancelled
	}
	return ErrNotCancellable
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                         domain.Booking
		poojaID, templeID         uuid.NullUUID
		bookingType, mode         string
		status, paymentStatus     string
		meetingLink, sankalp, loc sql.NullString
		itemsBy, special, remarks sql.NullString
		reason                    sql.NullString
		numDevotees               sql.NullInt64
		cancelledAt               sql.NullTime
		refundAmount              sql.NullFloat64
		createdAt, updatedAt      sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.ProviderID,
		&poojaID,
		&templeID,
		&bookingType,
		&mode,
		&b.BookingDate,
		&b.TimeSlot,
		&status,
		&paymentStatus,
		&b.TotalAmount,
		&meetingLink,
		&sankalp,
		&loc,
		&itemsBy,
		&numDevotees,
		&special,
		&remarks,
		&reason,
		&cancelledAt,
		&refundAmount,
		&b.IsDeleted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.PoojaID = uuidPtr(poojaID)
	b.TempleID = uuidPtr(templeID)
	b.BookingType = domain.BookingType(bookingType)
	b.ServiceMode = domain.ServiceMode(mode)
	b.Status = domain.BookingStatus(status)
	b.PaymentStatus = domain.PaymentStatus(paymentStatus)
	b.MeetingLink = stringPtr(meetingLink)
	b.SankalpDetails = stringPtr(sankalp)
	b.Location = stringPtr(loc)
	b.ItemsArrangedBy = stringPtr(itemsBy)
	b.SpecialRequirements = stringPtr(special)
	b.Remarks = stringPtr(remarks)
	b.CancellationReason = stringPtr(reason)
	if numDevotees.Valid {
		n := int(numDevotees.Int64)
		b.NumDevotees = &n
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}
	if refundAmount.Valid {
		b.RefundAmount = &refundAmount.Float64
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation && pqErr.Constraint == activeSlotIndex
	}
	return false
}

func activeStatusStrings() []string {
	out := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
