package catalog

import "errors"

var (
	// ErrProductNotFound возвращается, когда товар не найден или неактивен
	ErrProductNotFound = errors.New("catalog.repository: product not found")

	// ErrOutOfStock возвращается, когда условный декремент не нашел строку
	// с положительным остатком - товар закончился
	ErrOutOfStock = errors.New("catalog.repository: product out of stock")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
