package get_available_slots

import (
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
	"github.com/salonix/SLN-BookingService/pkg/types"
)

// collectOccupiedOrdinals помечает порядковые номера слотов, занятых активными
// записями линии. Запись длительностью больше одного слота занимает все слоты
// своего интервала, начиная со стартового.
func collectOccupiedOrdinals(grid *domain.Grid, appointments []*domain.Appointment) map[int]bool {
	occupied := make(map[int]bool)

	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}

		start, err := grid.IndexOf(appt.TimeSlot)
		if err != nil {
			// Запись с меткой вне текущей сетки (например, после смены
			// расписания) не влияет на доступность
			continue
		}

		span := appt.SlotSpan(grid.SlotMinutes())
		for i := start; i < start+span && i < grid.Len(); i++ {
			occupied[i] = true
		}
	}

	return occupied
}

// applyBlockedSlots помечает занятыми слоты, закрытые административными
// блоками для указанной линии. Возвращает true, если день закрыт целиком.
func applyBlockedSlots(grid *domain.Grid, occupied map[int]bool, blocks []*domain.BlockedSlot, staffID *int64) bool {
	for _, block := range blocks {
		if !block.AppliesToLane(staffID) {
			continue
		}

		if block.IsAllDay() {
			return true
		}

		idx, err := grid.IndexOf(types.TimeString(block.TimeSlot))
		if err != nil {
			continue
		}
		occupied[idx] = true
	}

	return false
}

// findAvailableStarts находит все стартовые слоты, с которых помещается
// непрерывная цепочка из slotsNeeded свободных слотов. Слоты с порядковым
// номером меньше minOrdinal считаются прошедшими и не предлагаются.
func findAvailableStarts(grid *domain.Grid, occupied map[int]bool, slotsNeeded, minOrdinal int) []types.TimeString {
	result := make([]types.TimeString, 0)

	if slotsNeeded > grid.Len() {
		return result
	}

	for start := minOrdinal; start+slotsNeeded <= grid.Len(); start++ {
		free := true
		for i := start; i < start+slotsNeeded; i++ {
			if occupied[i] {
				free = false
				break
			}
		}
		if !free {
			continue
		}

		label, err := grid.LabelAt(start)
		if err != nil {
			continue
		}
		result = append(result, label)
	}

	return result
}

// firstFutureOrdinal возвращает порядковый номер первого слота, который еще
// не начался на момент now. Для дат, отличных от сегодняшней, возвращает 0.
func firstFutureOrdinal(grid *domain.Grid, requestDate, now time.Time) int {
	if !isSameDay(requestDate, now) {
		return 0
	}

	nowMinutes := now.Hour()*60 + now.Minute()

	for i, label := range grid.Labels() {
		minutes, err := label.Minutes()
		if err != nil {
			continue
		}
		if minutes > nowMinutes {
			return i
		}
	}

	return grid.Len()
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
