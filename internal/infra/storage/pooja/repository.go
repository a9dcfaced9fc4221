package pooja

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
	"github.com/m04kA/DC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DC-BookingService/pkg/psqlbuilder"
)

var poojaColumns = []string{
	"id",
	"name",
	"base_price_virtual",
	"base_price_in_person",
	"base_price_temple",
	"items_arrangement_cost",
	"duration_minutes",
	"total_bookings",
	"is_deleted",
}

// Repository каталог пудж (только чтение, кроме счетчика бронирований)
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pooja, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(poojaColumns...).
		From("poojas").
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanPooja(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPoojaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan pooja: %v", ErrScanRow, err)
	}

	return p, nil
}

// GetByIDs возвращает пуджи по ID в виде map, отсутствующие ID пропускаются
func (r *Repository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Pooja, error) {
	result := make(map[uuid.UUID]*domain.Pooja, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	query, args, err := psqlbuilder.Select(poojaColumns...).
		From("poojas").
		Where(squirrel.Eq{"id": idStrings, "is_deleted": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPooja(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByIDs - scan row: %v", ErrScanRow, err)
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// IncrementTotalBookings атомарно увеличивает total_bookings на 1
func (r *Repository) IncrementTotalBookings(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("poojas").
		Set("total_bookings", squirrel.Expr("total_bookings + 1")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: IncrementTotalBookings - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementTotalBookings - execute update: %v", ErrExecQuery, err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrPoojaNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPooja(row rowScanner) (*domain.Pooja, error) {
	var p domain.Pooja
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.BasePriceVirtual,
		&p.BasePriceInPerson,
		&p.BasePriceTemple,
		&p.ItemsArrangementCost,
		&p.DurationMinutes,
		&p.TotalBookings,
		&p.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
