package domain

// Default schedule values (переопределяются секцией [schedule] конфигурации)
const (
	DefaultOpenHour            = 10
	DefaultCloseHour           = 20
	DefaultSlotDurationMinutes = 30
	DefaultServiceDuration     = 30
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 240
	MaxServicesPerAppointment   = 10
	MaxProductsPerAppointment   = 20
	MaxReasonLength             = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AllDaySlot значение time_slot административного блока, закрывающее весь день
const AllDaySlot = "ALL"

// InactiveStatuses статусы, не занимающие слот в расписании.
// Используются при подсчете занятости и при проверке конфликтов.
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses статусы, занимающие слот в расписании
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
