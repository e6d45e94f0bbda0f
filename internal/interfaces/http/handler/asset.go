package handler

import (
	"github.com/gin-gonic/gin"
	appcatalog "github.com/rently/backend/internal/application/catalog"
)

// AssetHandler handles asset catalog HTTP requests
type AssetHandler struct {
	BaseHandler
	assetService *appcatalog.AssetService
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assetService *appcatalog.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// Create godoc
// @Summary      Create an asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateAssetRequest true "Asset details"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	var req appcatalog.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	asset, err := h.assetService.Create(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, asset)
}

// Get godoc
// @Summary      Get an asset by ID
// @Tags         assets
// @Produce      json
// @Param        id path int true "Asset ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /assets/{id} [get]
func (h *AssetHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	asset, err := h.assetService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, asset)
}

// List godoc
// @Summary      List assets
// @Tags         assets
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by status"
// @Param        category query string false "Filter by category"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filters := map[string]interface{}{}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if category := c.Query("category"); category != "" {
		filters["category"] = category
	}
	if len(filters) > 0 {
		filter.Filters = filters
	}

	result, err := h.assetService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @Summary      Update an asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id path int true "Asset ID"
// @Param        request body catalog.UpdateAssetRequest true "Fields to update"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /assets/{id} [put]
func (h *AssetHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	var req appcatalog.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	asset, err := h.assetService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, asset)
}

// Delete godoc
// @Summary      Delete an asset
// @Tags         assets
// @Param        id path int true "Asset ID"
// @Success      204
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /assets/{id} [delete]
func (h *AssetHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	if err := h.assetService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// StartMaintenance godoc
// @Summary      Take an asset out of service for maintenance
// @Tags         assets
// @Produce      json
// @Param        id path int true "Asset ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /assets/{id}/maintenance [post]
func (h *AssetHandler) StartMaintenance(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	asset, err := h.assetService.StartMaintenance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, asset)
}

// CompleteMaintenance godoc
// @Summary      Return an asset to service after maintenance
// @Tags         assets
// @Produce      json
// @Param        id path int true "Asset ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /assets/{id}/maintenance [delete]
func (h *AssetHandler) CompleteMaintenance(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	asset, err := h.assetService.CompleteMaintenance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, asset)
}

// ListStatusHistory godoc
// @Summary      List an asset's status transitions
// @Tags         assets
// @Produce      json
// @Param        id path int true "Asset ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /assets/{id}/status-history [get]
func (h *AssetHandler) ListStatusHistory(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.assetService.ListStatusHistory(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
