package handler

import (
	"github.com/gin-gonic/gin"
	appfinance "github.com/rently/backend/internal/application/finance"
)

// FinanceHandler handles financial summary HTTP requests
type FinanceHandler struct {
	BaseHandler
	summaryService *appfinance.SummaryService
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(summaryService *appfinance.SummaryService) *FinanceHandler {
	return &FinanceHandler{summaryService: summaryService}
}

// ListSummaries godoc
// @Summary      List a user's monthly spending summaries
// @Tags         finance
// @Produce      json
// @Param        user_id path int true "User ID"
// @Success      200 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{user_id}/summaries [get]
func (h *FinanceHandler) ListSummaries(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	summaries, err := h.summaryService.ListSummaries(c.Request.Context(), principal, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summaries)
}

// GetMonthlySummary godoc
// @Summary      Get a user's summary for one month
// @Description  Months without activity read as a zero summary
// @Tags         finance
// @Produce      json
// @Param        user_id path int true "User ID"
// @Param        period path string true "Month in YYYY-MM format"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{user_id}/summaries/{period} [get]
func (h *FinanceHandler) GetMonthlySummary(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	summary, err := h.summaryService.GetMonthlySummary(c.Request.Context(), principal, userID, c.Param("period"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Recompute godoc
// @Summary      Rebuild a user's monthly summary from rentals
// @Description  Recomputes the stored summary from the rental records for that month
// @Tags         finance
// @Produce      json
// @Param        user_id path int true "User ID"
// @Param        period path string true "Month in YYYY-MM format"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{user_id}/summaries/{period}/recompute [post]
func (h *FinanceHandler) Recompute(c *gin.Context) {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	summary, err := h.summaryService.Recompute(c.Request.Context(), userID, c.Param("period"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
