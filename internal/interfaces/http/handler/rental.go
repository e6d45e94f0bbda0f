package handler

import (
	"github.com/gin-gonic/gin"
	apprental "github.com/rently/backend/internal/application/rental"
)

// RentalHandler handles rental lifecycle HTTP requests
type RentalHandler struct {
	BaseHandler
	lifecycleService *apprental.LifecycleService
}

// NewRentalHandler creates a new rental handler
func NewRentalHandler(lifecycleService *apprental.LifecycleService) *RentalHandler {
	return &RentalHandler{lifecycleService: lifecycleService}
}

// Create godoc
// @Summary      Create a rental
// @Description  Books an available asset for a date range on behalf of the caller
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Param        request body rental.CreateRentalRequest true "Rental details"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /rentals [post]
func (h *RentalHandler) Create(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	var req apprental.CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.lifecycleService.CreateRental(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Cancel godoc
// @Summary      Cancel an active rental
// @Description  Releases the asset and reverses the rental's financial contribution
// @Tags         rentals
// @Produce      json
// @Param        id path int true "Rental ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /rentals/{id}/cancel [post]
func (h *RentalHandler) Cancel(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rental ID")
		return
	}

	result, err := h.lifecycleService.CancelRental(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Get godoc
// @Summary      Get a rental by ID
// @Tags         rentals
// @Produce      json
// @Param        id path int true "Rental ID"
// @Success      200 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /rentals/{id} [get]
func (h *RentalHandler) Get(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rental ID")
		return
	}

	result, err := h.lifecycleService.GetRental(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List rentals
// @Description  Regular users see their own rentals, admins see everyone's
// @Tags         rentals
// @Produce      json
// @Param        status query string false "Filter by status"
// @Param        user_id query int false "Filter by renting user (admin only)"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /rentals [get]
func (h *RentalHandler) List(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filters := map[string]interface{}{}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if userID := c.Query("user_id"); userID != "" {
		filters["user_id"] = userID
	}
	if len(filters) > 0 {
		filter.Filters = filters
	}

	items, err := h.lifecycleService.ListRentals(c.Request.Context(), principal, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// ListHistory godoc
// @Summary      List a rental's status transitions
// @Tags         rentals
// @Produce      json
// @Param        id path int true "Rental ID"
// @Success      200 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /rentals/{id}/history [get]
func (h *RentalHandler) ListHistory(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rental ID")
		return
	}

	entries, err := h.lifecycleService.ListRentalHistory(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}
