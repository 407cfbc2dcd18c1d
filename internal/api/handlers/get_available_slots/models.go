package get_available_slots

import (
	"strconv"
	"strings"
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
	getAvailableSlots "github.com/salonix/SLN-BookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date        string   `json:"date"`
	StaffID     *int64   `json:"staffId,omitempty"`
	SlotsNeeded int      `json:"slotsNeeded"`
	Slots       []string `json:"slots"` // Метки начала: "10:00 AM", "10:30 AM" ...
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	return &AvailableSlotsResponse{
		Date:        resp.Date.Format(domain.DateFormat),
		StaffID:     resp.StaffID,
		SlotsNeeded: resp.SlotsNeeded,
		Slots:       slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(userID int64, dateStr string, staffID *int64, serviceIDsStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	serviceIDs, err := parseServiceIDs(serviceIDsStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		UserID:     userID,
		Date:       date,
		StaffID:    staffID,
		ServiceIDs: serviceIDs,
	}, nil
}

// parseServiceIDs парсит список ID услуг из query параметра "1,2,3"
func parseServiceIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
