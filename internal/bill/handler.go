package bill

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tally/pkg/middleware"
	"github.com/tallyhq/tally/pkg/response"
)

// Handler handles HTTP requests for bill operations
type Handler struct {
	service *Service
}

// NewHandler creates a new bill handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for bill endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Post("/parse", h.Parse)
	r.Get("/", h.ListByGroup)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/items/{itemId}", h.UpdateItem)

	return r
}

// Parse handles POST /bills/parse
// @Summary      Preview a markdown bill
// @Description  Parse a 3-column markdown table into priced items without saving
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        request body ParseRequest true "Markdown to parse"
// @Success      200 {object} response.APIResponse{data=[]ParsedItem}
// @Failure      422 {object} response.APIResponse
// @Router       /bills/parse [post]
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Markdown == "" {
		response.BadRequest(w, "markdown is required")
		return
	}

	items, err := h.service.Parse(req.Markdown)
	if err != nil {
		response.UnprocessableEntity(w, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, items)
}

// Create handles POST /bills
// @Summary      Create a bill
// @Description  Create an itemized bill from inline items or raw markdown
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        request body CreateBillRequest true "Bill creation request"
// @Success      201 {object} response.APIResponse{data=BillResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /bills [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.GroupID == "" || req.Title == "" {
		response.BadRequest(w, "group_id and title are required")
		return
	}

	bill, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrGroupNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNoItems), errors.Is(err, ErrUnknownPayer), errors.Is(err, ErrUnknownAssignee):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrTotalMismatch), errors.Is(err, ErrNoDataRows):
			response.UnprocessableEntity(w, err.Error())
		default:
			response.InternalError(w, "Failed to create bill")
		}
		return
	}

	response.JSON(w, http.StatusCreated, bill.ToResponse())
}

// GetByID handles GET /bills/{id}
// @Summary      Get bill by ID
// @Tags         bills
// @Produce      json
// @Param        id path string true "Bill ID"
// @Success      200 {object} response.APIResponse{data=BillResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /bills/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	bill, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBillNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get bill")
		return
	}

	response.JSON(w, http.StatusOK, bill.ToResponse())
}

// ListByGroup handles GET /bills?group_id=
// @Summary      List bills for a group
// @Tags         bills
// @Produce      json
// @Param        group_id query string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]BillSummaryResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /bills [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group_id")
	if groupID == "" {
		response.BadRequest(w, "group_id is required")
		return
	}

	bills, err := h.service.ListByGroup(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list bills")
		return
	}

	summaries := make([]*BillSummaryResponse, len(bills))
	for i, b := range bills {
		summaries[i] = b.ToSummaryResponse()
	}

	response.JSON(w, http.StatusOK, summaries)
}

// UpdateItem handles PUT /bills/{id}/items/{itemId}
// @Summary      Re-assign a bill item
// @Description  Replace an item's payer and/or assignee list (member or sub-group IDs)
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id path string true "Bill ID"
// @Param        itemId path string true "Item ID"
// @Param        request body UpdateItemRequest true "New payer/assignees"
// @Success      200 {object} response.APIResponse{data=ItemResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /bills/{id}/items/{itemId} [put]
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	billID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemId")

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	item, err := h.service.UpdateItem(r.Context(), billID, itemID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBillNotFound), errors.Is(err, ErrItemNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrUnknownPayer), errors.Is(err, ErrUnknownAssignee):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to update item")
		}
		return
	}

	response.JSON(w, http.StatusOK, item.ToResponse())
}

// Delete handles DELETE /bills/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrBillNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete bill")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Bill deleted successfully"})
}
