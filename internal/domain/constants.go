package domain

// ServiceMode способ проведения услуги
type ServiceMode string

const (
	ModeVirtual  ServiceMode = "virtual"
	ModeInPerson ServiceMode = "in_person"
	ModeTemple   ServiceMode = "temple"
)

// IsValid returns true for a known service mode
func (m ServiceMode) IsValid() bool {
	switch m {
	case ModeVirtual, ModeInPerson, ModeTemple:
		return true
	}
	return false
}

// IsOnsite returns true for modes that require a temple
func (m ServiceMode) IsOnsite() bool {
	return m == ModeInPerson || m == ModeTemple
}

// BookingType тип бронирования, определяет политику возврата
type BookingType string

const (
	TypePooja        BookingType = "pooja"
	TypeTempleVisit  BookingType = "temple_visit"
	TypeConsultation BookingType = "consultation"
)

// PaymentStatus статус оплаты
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentPaid          PaymentStatus = "paid"
	PaymentRefundPending PaymentStatus = "refund_pending"
)

const (
	ProviderTypePriest     = "priest"
	ApprovalStatusApproved = "approved"

	// ItemsArrangedByPriest означает, что материалы для пуджи приносит священник (за доплату)
	ItemsArrangedByPriest = "priest"

	RoleAdmin = "admin"

	AuditActionBookingCancelled = "booking_cancelled"
	AuditEntityBooking          = "booking"
)

// Business validation constants
const (
	MaxCancellationReasonLength  = 500
	MaxSpecialRequirementsLength = 1000
	MaxNumDevotees               = 500
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие слот священника
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}
