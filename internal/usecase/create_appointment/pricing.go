package create_appointment

import (
	"fmt"

	"github.com/salonix/SLN-BookingService/internal/domain"
)

// priceQuote серверный расчет стоимости и длительности записи.
// Клиентские суммы никогда не участвуют в расчете.
type priceQuote struct {
	TotalAmount     float64
	DurationMinutes int
}

// quoteServices сверяет выбор услуг с каталогом и считает их вклад в цену
// и длительность. Отсутствующая или неактивная услуга - отказ целиком.
func quoteServices(selections []domain.ServiceSelection, services []*domain.Service) (priceQuote, error) {
	byID := make(map[int64]*domain.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	var quote priceQuote
	for _, sel := range selections {
		svc, ok := byID[sel.ServiceID]
		if !ok {
			return priceQuote{}, fmt.Errorf("%w: id=%d", ErrServiceNotFound, sel.ServiceID)
		}

		price, err := svc.PriceFor(sel.Variant)
		if err != nil {
			return priceQuote{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		quote.TotalAmount += price

		if svc.DurationMinutes > 0 {
			quote.DurationMinutes += svc.DurationMinutes
		} else {
			quote.DurationMinutes += domain.DefaultServiceDuration
		}
	}

	return quote, nil
}

// quoteProducts считает вклад товаров в цену. Каждое вхождение ID в заказе -
// отдельная единица товара по каталожной цене.
func quoteProducts(productIDs []int64, products []*domain.Product) (float64, error) {
	byID := make(map[int64]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	total := 0.0
	for _, id := range productIDs {
		p, ok := byID[id]
		if !ok {
			return 0, fmt.Errorf("%w: id=%d", ErrProductNotFound, id)
		}
		total += p.Price
	}

	return total, nil
}

// uniqueIDs возвращает ID без повторов с сохранением порядка
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// serviceIDs извлекает ID услуг из выбора
func serviceIDs(selections []domain.ServiceSelection) []int64 {
	out := make([]int64, 0, len(selections))
	for _, sel := range selections {
		out = append(out, sel.ServiceID)
	}
	return out
}
