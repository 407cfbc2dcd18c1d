package create_appointment

import (
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
	"github.com/salonix/SLN-BookingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID   int64                     // ID пользователя
	Date     time.Time                 // Дата записи (без времени)
	TimeSlot types.TimeString          // Метка стартового слота ("10:00 AM")
	StaffID  *int64                    // ID мастера; nil = общая линия
	Services []domain.ServiceSelection // Выбранные услуги с вариантом цены
	Products []int64                   // Товары; повторы = несколько единиц
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	UserID          int64
	StaffID         *int64
	Date            time.Time
	TimeSlot        types.TimeString
	DurationMinutes int
	Status          string
	Services        []domain.ServiceSelection
	Products        []int64

	// Сумма рассчитана на сервере; клиентская сумма игнорируется
	TotalAmount float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
