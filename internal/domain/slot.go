package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidSlotLabel = errors.New("invalid time slot label")

var slotLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
	"3 PM",
	"3PM",
}

// SlotStart разбирает начало слота из метки.
// Поддерживаются "09:00", "9:00 AM", "6 PM" и диапазоны "09:00-10:00", "6:00 PM - 7:00 PM".
func SlotStart(label string) (hour, minute int, err error) {
	start := strings.TrimSpace(label)
	if i := strings.Index(start, "-"); i >= 0 {
		start = strings.TrimSpace(start[:i])
	}
	start = strings.ToUpper(start)

	for _, layout := range slotLayouts {
		t, perr := time.Parse(layout, start)
		if perr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSlotLabel, label)
}

// PriestCandidate священник, свободный в конкретном слоте
type PriestCandidate struct {
	PriestID        uuid.UUID
	PriestName      string
	PriestAvatar    *string
	YearsExperience int
	ScreenTimeScore int
	Price           float64
	Rating          float64
}

// AvailableSlot слот и отранжированные свободные священники
type AvailableSlot struct {
	TimeSlot string
	Priests  []PriestCandidate
}
