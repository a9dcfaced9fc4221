package get_available_slots

import (
	"sort"

	"github.com/google/uuid"

	"github.com/m04kA/DC-BookingService/internal/domain"
)

type slotKey struct {
	priestID uuid.UUID
	timeSlot string
}

// filterByWeekday оставляет маппинги, доступные в указанный день недели
func filterByWeekday(mappings []*domain.PriestPoojaMapping, weekday string) []*domain.PriestPoojaMapping {
	result := make([]*domain.PriestPoojaMapping, 0, len(mappings))
	for _, m := range mappings {
		if m.AvailableOn(weekday) {
			result = append(result, m)
		}
	}
	return result
}

// distinctPriestIDs ID священников в порядке первого появления
func distinctPriestIDs(mappings []*domain.PriestPoojaMapping) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(mappings))
	ids := make([]uuid.UUID, 0, len(mappings))
	for _, m := range mappings {
		if _, ok := seen[m.PriestID]; ok {
			continue
		}
		seen[m.PriestID] = struct{}{}
		ids = append(ids, m.PriestID)
	}
	return ids
}

func distinctPoojaIDs(mappings []*domain.PriestPoojaMapping) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(mappings))
	ids := make([]uuid.UUID, 0, len(mappings))
	for _, m := range mappings {
		if _, ok := seen[m.PoojaID]; ok {
			continue
		}
		seen[m.PoojaID] = struct{}{}
		ids = append(ids, m.PoojaID)
	}
	return ids
}

// takenSlots множество занятых пар (священник, слот)
func takenSlots(bookings []*domain.Booking) map[slotKey]struct{} {
	taken := make(map[slotKey]struct{}, len(bookings))
	for _, b := range bookings {
		taken[slotKey{priestID: b.ProviderID, timeSlot: b.TimeSlot}] = struct{}{}
	}
	return taken
}

// collectSlots собирает кандидатов по слотам. Священник попадает в слот не более одного раза,
// при нескольких маппингах берется первый. Метки, из которых не разбирается время начала,
// забронировать нельзя: они пропускаются и возвращаются вторым значением.
func collectSlots(
	mappings []*domain.PriestPoojaMapping,
	eligible map[uuid.UUID]*domain.ProviderProfile,
	taken map[slotKey]struct{},
	poojas map[uuid.UUID]*domain.Pooja,
	mode domain.ServiceMode,
) (map[string][]domain.PriestCandidate, []string) {
	bySlot := make(map[string][]domain.PriestCandidate)
	listed := make(map[slotKey]struct{})
	var unbookable []string
	rejected := make(map[string]struct{})

	for _, m := range mappings {
		profile, ok := eligible[m.PriestID]
		if !ok {
			continue
		}

		for _, slot := range m.AvailableTimeSlots {
			if _, _, err := domain.SlotStart(slot); err != nil {
				if _, seen := rejected[slot]; !seen {
					rejected[slot] = struct{}{}
					unbookable = append(unbookable, slot)
				}
				continue
			}

			key := slotKey{priestID: m.PriestID, timeSlot: slot}
			if _, busy := taken[key]; busy {
				continue
			}
			if _, dup := listed[key]; dup {
				continue
			}
			listed[key] = struct{}{}

			bySlot[slot] = append(bySlot[slot], domain.PriestCandidate{
				PriestID:        profile.ID,
				PriestName:      profile.DisplayName,
				PriestAvatar:    profile.AvatarURL,
				YearsExperience: domain.YearsExperience(m, profile),
				ScreenTimeScore: profile.ScreenTimeScore,
				Price:           domain.Price(m, poojas[m.PoojaID], mode),
				Rating:          profile.Rating,
			})
		}
	}

	return bySlot, unbookable
}

// rankSlots сортирует священников внутри слота и слоты по метке.
// virtual - по screen_time_score, остальные режимы - по опыту; при равенстве порядок сохраняется.
func rankSlots(bySlot map[string][]domain.PriestCandidate, mode domain.ServiceMode) []domain.AvailableSlot {
	labels := make([]string, 0, len(bySlot))
	for label := range bySlot {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	slots := make([]domain.AvailableSlot, 0, len(labels))
	for _, label := range labels {
		priests := bySlot[label]
		if mode == domain.ModeVirtual {
			sort.SliceStable(priests, func(i, j int) bool {
				return priests[i].ScreenTimeScore > priests[j].ScreenTimeScore
			})
		} else {
			sort.SliceStable(priests, func(i, j int) bool {
				return priests[i].YearsExperience > priests[j].YearsExperience
			})
		}
		slots = append(slots, domain.AvailableSlot{TimeSlot: label, Priests: priests})
	}

	return slots
}
