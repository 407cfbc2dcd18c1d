package domain

import (
	"errors"
	"fmt"

	"github.com/salonix/SLN-BookingService/pkg/types"
)

var (
	// ErrInvalidSchedule возвращается при некорректных параметрах рабочего дня
	ErrInvalidSchedule = errors.New("domain: invalid schedule configuration")

	// ErrSlotNotInGrid возвращается, когда метка слота не принадлежит сетке дня
	ErrSlotNotInGrid = errors.New("domain: time slot is not in the day grid")
)

// Grid каноническая упорядоченная последовательность слотов рабочего дня.
// Идентичность слота во всей системе - это его порядковый номер в этой сетке;
// метки форматируются в 12-часовом представлении ("10:00 AM" ... "7:30 PM").
type Grid struct {
	slots       []types.TimeString
	index       map[types.TimeString]int
	slotMinutes int
}

// NewGrid строит сетку слотов из окна рабочего дня.
// Чистая функция конфигурации: час открытия, час закрытия, шаг в минутах.
// Последний слот начинается так, чтобы целиком уместиться до закрытия.
func NewGrid(openHour, closeHour, slotMinutes int) (*Grid, error) {
	if openHour < 0 || closeHour > 24 || openHour >= closeHour {
		return nil, fmt.Errorf("%w: open=%d close=%d", ErrInvalidSchedule, openHour, closeHour)
	}
	if slotMinutes < MinSlotDurationMinutes || slotMinutes > MaxSlotDurationMinutes {
		return nil, fmt.Errorf("%w: slot duration %d minutes", ErrInvalidSchedule, slotMinutes)
	}

	openMin := openHour * 60
	closeMin := closeHour * 60

	slots := make([]types.TimeString, 0, (closeMin-openMin)/slotMinutes)
	index := make(map[types.TimeString]int)

	for cur := openMin; cur+slotMinutes <= closeMin; cur += slotMinutes {
		label, err := types.NewTimeStringFromMinutes(cur)
		if err != nil {
			return nil, err
		}
		index[label] = len(slots)
		slots = append(slots, label)
	}

	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: window shorter than slot duration", ErrInvalidSchedule)
	}

	return &Grid{slots: slots, index: index, slotMinutes: slotMinutes}, nil
}

// Len возвращает количество слотов в сетке
func (g *Grid) Len() int {
	return len(g.slots)
}

// SlotMinutes возвращает длительность одного слота
func (g *Grid) SlotMinutes() int {
	return g.slotMinutes
}

// Labels возвращает копию меток всех слотов в порядке сетки
func (g *Grid) Labels() []types.TimeString {
	out := make([]types.TimeString, len(g.slots))
	copy(out, g.slots)
	return out
}

// LabelAt возвращает метку слота по порядковому номеру
func (g *Grid) LabelAt(i int) (types.TimeString, error) {
	if i < 0 || i >= len(g.slots) {
		return "", fmt.Errorf("%w: ordinal %d", ErrSlotNotInGrid, i)
	}
	return g.slots[i], nil
}

// IndexOf возвращает порядковый номер слота по метке
func (g *Grid) IndexOf(label types.TimeString) (int, error) {
	// Нормализуем метку, чтобы "10:00 am" и "10:00 AM" совпадали
	normalized, err := types.NewTimeStringFromString(label.String())
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrSlotNotInGrid, label)
	}
	i, ok := g.index[normalized]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrSlotNotInGrid, label)
	}
	return i, nil
}

// Contains возвращает true, если метка принадлежит сетке
func (g *Grid) Contains(label types.TimeString) bool {
	_, err := g.IndexOf(label)
	return err == nil
}
