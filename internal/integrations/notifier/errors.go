package notifier

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе диспетчера
	ErrInvalidResponse = errors.New("notifier client: invalid response")

	// ErrDisabled возвращается, когда отправка уведомлений выключена конфигурацией
	ErrDisabled = errors.New("notifier client: notifications disabled")
)
