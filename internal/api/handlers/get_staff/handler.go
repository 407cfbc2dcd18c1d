package get_staff

import (
	"net/http"

	"github.com/salonix/SLN-BookingService/internal/api/handlers"
	"github.com/salonix/SLN-BookingService/internal/domain"
)

type Handler struct {
	staff  StaffProvider
	logger Logger
}

func NewHandler(staff StaffProvider, logger Logger) *Handler {
	return &Handler{
		staff:  staff,
		logger: logger,
	}
}

// StaffMemberResponse HTTP response model
type StaffMemberResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// StaffListResponse ответ со списком активных сотрудников
type StaffListResponse struct {
	Staff []StaffMemberResponse `json:"staff"`
}

// Handle GET /api/v1/staff
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	members, err := h.staff.ListActive(r.Context())
	if err != nil {
		h.logger.Error("GET /staff - Failed to get staff: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	response := StaffListResponse{Staff: make([]StaffMemberResponse, 0, len(members))}
	for _, m := range members {
		response.Staff = append(response.Staff, fromDomainStaff(m))
	}

	h.logger.Info("GET /staff - Staff retrieved successfully: count=%d", len(members))
	handlers.RespondJSON(w, http.StatusOK, response)
}

func fromDomainStaff(m *domain.Staff) StaffMemberResponse {
	return StaffMemberResponse{
		ID:   m.ID,
		Name: m.Name,
		Role: string(m.Role),
	}
}
