package notifier

// BookingConfirmation payload подтверждения записи для диспетчера уведомлений
type BookingConfirmation struct {
	UserID        int64   `json:"user_id"`
	AppointmentID int64   `json:"appointment_id"`
	Date          string  `json:"date"`      // YYYY-MM-DD
	TimeSlot      string  `json:"time_slot"` // "10:00 AM"
	TotalAmount   float64 `json:"total_amount"`
}

// CancellationNotice payload уведомления об отмене
type CancellationNotice struct {
	UserID        int64  `json:"user_id"`
	AppointmentID int64  `json:"appointment_id"`
	Date          string `json:"date"`
	TimeSlot      string `json:"time_slot"`
}
