package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
	"github.com/m04kA/DC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DC-BookingService/pkg/psqlbuilder"
)

var (
	ErrBuildQuery = errors.New("audit.repository: failed to build query")
	ErrExecQuery  = errors.New("audit.repository: failed to execute query")
)

// Repository журнал аудита, только вставка
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает событие аудита. Details сохраняются в JSONB.
func (r *Repository) Create(ctx context.Context, entry *domain.AuditLog) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("%w: Create - marshal details: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("audit_logs").
		Columns("id", "user_id", "action", "entity_type", "entity_id", "details", "created_at").
		Values(entry.ID, entry.UserID, entry.Action, entry.EntityType, entry.EntityID, string(details), entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
