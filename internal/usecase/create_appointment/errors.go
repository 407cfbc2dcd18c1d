package create_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInvalidDate возвращается при дате записи в прошлом
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrInvalidTimeSlot возвращается, когда метка слота не принадлежит сетке
	// дня или цепочка слотов не помещается до закрытия
	ErrInvalidTimeSlot = errors.New("create_appointment: invalid time slot")

	// ErrTimeSlotInPast возвращается при попытке записаться на уже
	// начавшийся сегодня слот
	ErrTimeSlotInPast = errors.New("create_appointment: time slot is in the past")

	// ErrStaffNotFound возвращается, когда мастер не найден или неактивен
	ErrStaffNotFound = errors.New("create_appointment: staff member not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrProductNotFound возвращается, когда товар не найден или неактивен
	ErrProductNotFound = errors.New("create_appointment: product not found")

	// ErrOutOfStock возвращается, когда товара нет в наличии
	ErrOutOfStock = errors.New("create_appointment: product is out of stock")

	// ErrSlotTaken возвращается, когда слот уже занят другой записью на линии
	ErrSlotTaken = errors.New("create_appointment: slot is already taken")

	// ErrSlotBlocked возвращается, когда слот закрыт административным блоком
	ErrSlotBlocked = errors.New("create_appointment: slot is blocked")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
