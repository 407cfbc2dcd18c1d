package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownVariant возвращается при неизвестном варианте цены
var ErrUnknownVariant = errors.New("domain: unknown price variant")

// Variant закрытое перечисление вариантов цены услуги
type Variant string

const (
	VariantMale   Variant = "male"
	VariantFemale Variant = "female"
)

// Validate проверяет, что вариант принадлежит перечислению
func (v Variant) Validate() error {
	switch v {
	case VariantMale, VariantFemale:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
	}
}

// Service услуга салона (каталог, read-only для ядра бронирования)
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	PriceMale       float64
	PriceFemale     float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PriceFor возвращает цену услуги для варианта.
// Перечисление обрабатывается исчерпывающе, молчаливого fallback нет.
func (s *Service) PriceFor(v Variant) (float64, error) {
	switch v {
	case VariantMale:
		return s.PriceMale, nil
	case VariantFemale:
		return s.PriceFemale, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
	}
}

// Product товар салона; stock мутируется только координатором бронирования
type Product struct {
	ID        int64
	Name      string
	Price     float64
	Stock     int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StaffRole роль сотрудника
type StaffRole string

const (
	RoleStylist StaffRole = "stylist"
	RoleManager StaffRole = "manager"
	RoleHelper  StaffRole = "helper"
)

// Staff сотрудник салона (справочник, read-only для ядра)
type Staff struct {
	ID        int64
	Name      string
	Role      StaffRole
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
