package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/models"
	"mosquefund/internal/policy"
	"mosquefund/internal/response"
	"mosquefund/internal/services"
)

// UserHandler handles user profile requests. Profiles are provisioned by
// the identity provider; this API only reads and administers them.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// UpdateUserRequest represents the request payload for an admin profile update.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Role     *string `json:"role" binding:"omitempty,user_role" enums:"admin,treasurer,viewer"`
	IsActive *bool   `json:"is_active"`
}

type userQuery struct {
	Role   string `form:"role" binding:"omitempty,user_role"`
	Search string `form:"search" binding:"max=100"`
}

// GetMe returns the caller's own profile
// @Summary     Get current user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} response.Envelope{data=models.User} "Current user"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), actor.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, user, "")
}

// ListUsers lists user profiles
// @Summary     List users
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       role      query string false "admin, treasurer, viewer"
// @Param       is_active query bool   false "Filter by active flag"
// @Param       search    query string false "Match on name or email"
// @Success     200 {object} response.PageEnvelope{data=[]models.User} "Paginated users"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q userQuery
	if err := bindQuery(c, &q); err != nil {
		respondWithError(c, err)
		return
	}
	isActive, err := optionalBool(c, "is_active")
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter := services.UserFilter{IsActive: isActive, Search: q.Search}
	if q.Role != "" {
		role := models.UserRole(q.Role)
		filter.Role = &role
	}

	result, err := h.userService.ListUsers(c.Request.Context(), filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.Page(c, http.StatusOK, result)
}

// GetUser returns one profile; non-admins may only read their own
// @Summary     Get user by ID
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} response.Envelope{data=models.User} "User details"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := policy.AuthorizeUserRead(actor, id); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, user, "")
}

// UpdateUser handles an admin profile update
// @Summary     Update user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "User ID"
// @Param       request body UpdateUserRequest true "Fields to update"
// @Success     200 {object} response.Envelope{data=models.User} "User updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	if id == actor.ID && req.IsActive != nil && !*req.IsActive {
		respondWithError(c, apperrors.ErrCannotDeactivateSelf)
		return
	}

	update := services.UserUpdate{FullName: req.FullName, Phone: req.Phone, IsActive: req.IsActive}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		update.Role = &role
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "UPDATE_USER", "user", user.ID, c.ClientIP(),
		map[string]interface{}{"role": req.Role, "is_active": req.IsActive, "full_name": req.FullName})

	response.OK(c, http.StatusOK, user, "User updated")
}

// DeactivateUser handles deactivating another user
// @Summary     Deactivate user
// @Description Deactivate a profile. Deactivated users are refused on every request. Admins cannot deactivate themselves.
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} response.Envelope{data=models.User} "User deactivated"
// @Failure     400 {object} ErrorResponse "Cannot deactivate self"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.DeactivateUser(c.Request.Context(), actor.ID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "DEACTIVATE_USER", "user", user.ID, c.ClientIP(), nil)

	response.OK(c, http.StatusOK, user, "User deactivated")
}
