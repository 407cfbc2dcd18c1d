package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/salonix/SLN-BookingService/internal/api/handlers"
	"github.com/salonix/SLN-BookingService/internal/api/middleware"
	getAvailableSlots "github.com/salonix/SLN-BookingService/internal/usecase/get_available_slots"
)

const (
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStaffID    = "некорректный ID мастера"
	msgInvalidServiceIDs = "некорректный список услуг"
	msgInvalidPastDate   = "дата не может быть в прошлом"
	msgServiceNotFound   = "услуга не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: date (required, YYYY-MM-DD), staffId (optional), serviceIds (optional, "1,2,3")
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	var staffID *int64
	if staffIDStr := r.URL.Query().Get("staffId"); staffIDStr != "" {
		id, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /availability - Invalid staff ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStaffID)
			return
		}
		staffID = &id
	}

	useCaseReq, err := ToUseCaseRequest(userID, dateStr, staffID, r.URL.Query().Get("serviceIds"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid query params: %v", err)
		if r.URL.Query().Get("serviceIds") != "" {
			handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /availability - Service not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /availability - Date in the past: user_id=%d, date=%s", userID, dateStr)
			handlers.RespondBadRequest(w, msgInvalidPastDate)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidServiceIDs)

		default:
			h.logger.Error("GET /availability - Failed to get slots: user_id=%d, date=%s, error=%v",
				userID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /availability - Slots retrieved successfully: user_id=%d, date=%s, slots_count=%d",
		userID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
