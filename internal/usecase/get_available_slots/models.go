package get_available_slots

import (
	"time"

	"github.com/salonix/SLN-BookingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID     int64     // ID пользователя (для логирования, не влияет на результат)
	Date       time.Time // Дата для получения слотов (без времени)
	StaffID    *int64    // ID мастера; nil = общая линия
	ServiceIDs []int64   // Выбранные услуги, определяют суммарную длительность
}

// Response модель ответа со списком доступных стартовых слотов
type Response struct {
	Date        time.Time          // Дата, на которую запрашивались слоты
	StaffID     *int64             // Линия, для которой считалась доступность
	SlotsNeeded int                // Сколько смежных слотов займет запись
	Slots       []types.TimeString // Доступные метки начала ("10:00 AM" ...)
}
