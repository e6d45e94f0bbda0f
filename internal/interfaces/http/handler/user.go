package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/rently/backend/internal/application/identity"
)

// UserHandler handles user administration HTTP requests
type UserHandler struct {
	BaseHandler
	userService *appidentity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *appidentity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateUserRequest is the payload for editing a user's profile
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Search username or email"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	if role := c.Query("role"); role != "" {
		filter.Filters = map[string]interface{}{"role": role}
	}

	result, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        user_id path int true "User ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{user_id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "user_id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Update godoc
// @Summary      Update a user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user_id path int true "User ID"
// @Param        request body UpdateUserRequest true "Fields to update"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{user_id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "user_id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, appidentity.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Delete godoc
// @Summary      Delete a user
// @Tags         users
// @Param        user_id path int true "User ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{user_id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "user_id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), principal, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GrantAdmin godoc
// @Summary      Grant the admin role to a user
// @Tags         users
// @Produce      json
// @Param        user_id path int true "User ID"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{user_id}/admin [post]
func (h *UserHandler) GrantAdmin(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "user_id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GrantAdmin(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// RevokeAdmin godoc
// @Summary      Revoke the admin role from a user
// @Tags         users
// @Produce      json
// @Param        user_id path int true "User ID"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{user_id}/admin [delete]
func (h *UserHandler) RevokeAdmin(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "user_id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.RevokeAdmin(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}
