package provider

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

var profileColumns = []string{
	"id",
	"user_id",
	"provider_type",
	"display_name",
	"avatar_url",
	"city",
	"is_online_available",
	"is_offline_available",
	"associated_temples",
	"approval_status",
	"years_experience",
	"rating",
	"screen_time_score",
	"total_consultations",
	"is_deleted",
}

// Repository репозиторий профилей священников и астрологов
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает не удаленный профиль по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProviderProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(profileColumns...).
		From("provider_profiles").
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	profile, err := scanProfile(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan profile: %v", ErrScanRow, err)
	}

	return profile, nil
}

// GetApprovedPriestsByIDs одобренные не удаленные священники из набора ID
func (r *Repository) GetApprovedPriestsByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.ProviderProfile, error) {
	if len(ids) == 0 {
		return []*domain.ProviderProfile{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	query, args, err := psqlbuilder.Select(profileColumns...).
		From("provider_profiles").
		Where(squirrel.Eq{
			"id":              idStrings,
			"provider_type":   domain.ProviderTypePriest,
			"approval_status": domain.ApprovalStatusApproved,
			"is_deleted":      false,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetApprovedPriestsByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetApprovedPriestsByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	profiles := make([]*domain.ProviderProfile, 0, len(ids))
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetApprovedPriestsByIDs - scan row: %v", ErrScanRow, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetApprovedPriestsByIDs - rows error: %v", ErrScanRow, err)
	}

	return profiles, nil
}

// IncrementTotalConsultations атомарно увеличивает total_consultations на 1
func (r *Repository) IncrementTotalConsultations(ctx context.Context, id uuid.UUID) error {
	return r.increment(ctx, id, "total_consultations")
}

// IncrementScreenTimeScore атомарно увеличивает screen_time_score на 1
func (r *Repository) IncrementScreenTimeScore(ctx context.Context, id uuid.UUID) error {
	return r.increment(ctx, id, "screen_time_score")
}

func (r *Repository) increment(ctx context.Context, id uuid.UUID, column string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("provider_profiles").
		Set(column, squirrel.Expr(column+" + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: increment %s - build update query: %v", ErrBuildQuery, column, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: increment %s - execute update: %v", ErrExecQuery, column, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: increment %s - get rows affected: %v", ErrExecQuery, column, err)
	}
	if rowsAffected == 0 {
		return ErrProviderNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*domain.ProviderProfile, error) {
	var (
		p         domain.ProviderProfile
		avatarURL sql.NullString
		city      sql.NullString
		temples   []string
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.ProviderType,
		&p.DisplayName,
		&avatarURL,
		&city,
		&p.IsOnlineAvailable,
		&p.IsOfflineAvailable,
		pq.Array(&temples),
		&p.ApprovalStatus,
		&p.YearsExperience,
		&p.Rating,
		&p.ScreenTimeScore,
		&p.TotalConsultations,
		&p.IsDeleted,
	)
	if err != nil {
		return nil, err
	}

	if avatarURL.Valid {
		p.AvatarURL = &avatarURL.String
	}
	if city.Valid {
		p.City = &city.String
	}

	p.AssociatedTemples = make([]uuid.UUID, 0, len(temples))
	for _, t := range temples {
		id, err := uuid.Parse(t)
		if err != nil {
			return nil, fmt.Errorf("associated temple %q: %w", t, err)
		}
		p.AssociatedTemples = append(p.AssociatedTemples, id)
	}

	return &p, nil
}
