package temple

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

var (
	// ErrTempleNotFound возвращается, когда храм не найден или удален
	ErrTempleNotFound = errors.New("temple.repository: temple not found")

	ErrBuildQuery = errors.New("temple.repository: failed to build query")
	ErrScanRow    = errors.New("temple.repository: failed to scan row")
)

type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Temple, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "city", "is_deleted").
		From("temples").
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		t    domain.Temple
		city sql.NullString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.Name, &city, &t.IsDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTempleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan temple: %v", ErrScanRow, err)
	}

	if city.Valid {
		t.City = &city.String
	}

	return &t, nil
}
