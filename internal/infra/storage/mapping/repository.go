package mapping

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

var mappingColumns = []string{
	"id",
	"priest_id",
	"pooja_id",
	"is_active",
	"available_days",
	"available_time_slots",
	"price_virtual",
	"price_in_person",
	"price_temple",
	"years_experience",
	"total_performed",
	"is_deleted",
}

// Repository репозиторий связей священник-пуджа
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActive активные не удаленные маппинги. poojaID = nil возвращает маппинги всех пудж.
// Порядок стабилен (created_at, id), от него зависит порядок священников с равным рангом.
func (r *Repository) GetActive(ctx context.Context, poojaID *uuid.UUID) ([]*domain.PriestPoojaMapping, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(mappingColumns...).
		From("priest_pooja_mappings").
		Where(squirrel.Eq{"is_active": true, "is_deleted": false}).
		OrderBy("created_at ASC", "id ASC")

	if poojaID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"pooja_id": *poojaID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	mappings := make([]*domain.PriestPoojaMapping, 0)
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActive - scan row: %v", ErrScanRow, err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActive - rows error: %v", ErrScanRow, err)
	}

	return mappings, nil
}

// GetByPriestAndPooja активный маппинг священника для пуджи
func (r *Repository) GetByPriestAndPooja(ctx context.Context, priestID, poojaID uuid.UUID) (*domain.PriestPoojaMapping, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(mappingColumns...).
		From("priest_pooja_mappings").
		Where(squirrel.Eq{
			"priest_id":  priestID,
			"pooja_id":   poojaID,
			"is_active":  true,
			"is_deleted": false,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPriestAndPooja - build select query: %v", ErrBuildQuery, err)
	}

	m, err := scanMapping(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMappingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPriestAndPooja - scan mapping: %v", ErrScanRow, err)
	}

	return m, nil
}

// IncrementTotalPerformed атомарно увеличивает total_performed
func (r *Repository) IncrementTotalPerformed(ctx context.Context, priestID, poojaID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("priest_pooja_mappings").
		Set("total_performed", squirrel.Expr("total_performed + 1")).
		Where(squirrel.Eq{"priest_id": priestID, "pooja_id": poojaID, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: IncrementTotalPerformed - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementTotalPerformed - execute update: %v", ErrExecQuery, err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrMappingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMapping(row rowScanner) (*domain.PriestPoojaMapping, error) {
	var (
		m                           domain.PriestPoojaMapping
		priceVirtual, priceInPerson sql.NullFloat64
		priceTemple                 sql.NullFloat64
		yearsExperience             sql.NullInt64
	)

	err := row.Scan(
		&m.ID,
		&m.PriestID,
		&m.PoojaID,
		&m.IsActive,
		pq.Array(&m.AvailableDays),
		pq.Array(&m.AvailableTimeSlots),
		&priceVirtual,
		&priceInPerson,
		&priceTemple,
		&yearsExperience,
		&m.TotalPerformed,
		&m.IsDeleted,
	)
	if err != nil {
		return nil, err
	}

	m.PriceVirtual = floatPtr(priceVirtual)
	m.PriceInPerson = floatPtr(priceInPerson)
	m.PriceTemple = floatPtr(priceTemple)
	if yearsExperience.Valid {
		years := int(yearsExperience.Int64)
		m.YearsExperience = &years
	}

	return &m, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
