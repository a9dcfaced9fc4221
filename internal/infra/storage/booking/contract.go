package booking

import (
	"github.com/m04kA/DC-BookingService/pkg/dbmetrics"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// uniqueViolation код ошибки PostgreSQL unique_violation
const uniqueViolation = "23505"

// activeSlotIndex частичный уникальный индекс, гарантирующий одно активное бронирование на слот
const activeSlotIndex = "bookings_active_slot_uidx"
