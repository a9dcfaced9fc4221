package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog запись журнала действий над сущностями
type AuditLog struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Details    map[string]interface{}
	CreatedAt  time.Time
}

// Caller идентичность вызывающего, передается в операции явно
type Caller struct {
	UserID uuid.UUID
	Role   string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsAnonymous returns true when no user is attached
func (c Caller) IsAnonymous() bool {
	return c.UserID == uuid.Nil
}

// CanAccess owner or admin
func (c Caller) CanAccess(b *Booking) bool {
	return c.IsAdmin() || b.IsOwnedBy(c.UserID)
}
