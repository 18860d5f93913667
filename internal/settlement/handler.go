package settlement

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tally/pkg/response"
)

// Handler handles HTTP requests for settlement computation
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/groups/{groupId}", h.GetGroupDebts)

	return r
}

// GetGroupDebts handles GET /settlements/groups/{groupId}
// @Summary      Compute group debts
// @Description  Compute the transfers that settle all balances for a group, across all bills or one bill
// @Tags         settlements
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Param        bill_id query string false "Limit the computation to a single bill"
// @Success      200 {object} response.APIResponse{data=DebtsResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /settlements/groups/{groupId} [get]
func (h *Handler) GetGroupDebts(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupId")

	var billID *string
	if q := r.URL.Query().Get("bill_id"); q != "" {
		billID = &q
	}

	debts, err := h.service.GroupDebts(r.Context(), groupID, billID)
	if err != nil {
		switch {
		case errors.Is(err, ErrGroupNotFound), errors.Is(err, ErrBillNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrMissingAssignees),
			errors.Is(err, ErrInvalidAmount),
			errors.Is(err, ErrNestedSubGroup):
			response.UnprocessableEntity(w, err.Error())
		default:
			response.InternalError(w, "Failed to compute debts")
		}
		return
	}

	response.JSON(w, http.StatusOK, debts)
}
