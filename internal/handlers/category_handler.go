package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mosquefund/internal/models"
	"mosquefund/internal/response"
	"mosquefund/internal/services"
)

// CategoryHandler serves one category registry. Donation and expense
// categories get separate instances bound to their kind.
type CategoryHandler struct {
	kind            models.CategoryKind
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a CategoryHandler for the given kind.
func NewCategoryHandler(kind models.CategoryKind, categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{kind: kind, categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateCategoryRequest represents the request payload for updating a category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

func (h *CategoryHandler) resourceType() string {
	return string(h.kind) + "_category"
}

func (h *CategoryHandler) action(verb string) string {
	return verb + "_" + strings.ToUpper(h.resourceType())
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a donation or expense category, depending on the route
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} response.Envelope{data=models.Category} "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /donation-categories [post]
// @Router      /expense-categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), h.kind, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, h.action("CREATE"), h.resourceType(), category.ID, c.ClientIP(),
		map[string]interface{}{"name": category.Name})

	response.OK(c, http.StatusCreated, category, "Category created")
}

// ListCategories lists the categories of this kind
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Param       is_active query bool false "Filter by active flag"
// @Success     200 {object} response.PageEnvelope{data=[]models.Category} "Paginated categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /donation-categories [get]
// @Router      /expense-categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	isActive, err := optionalBool(c, "is_active")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.categoryService.ListCategories(c.Request.Context(), h.kind, page, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.Page(c, http.StatusOK, result)
}

// GetCategory handles the retrieval of a single category
// @Summary     Get category by ID
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} response.Envelope{data=models.Category} "Category details"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /donation-categories/{id} [get]
// @Router      /expense-categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategory(c.Request.Context(), h.kind, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, category, "")
}

// UpdateCategory handles updating a category
// @Summary     Update category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Category ID"
// @Param       request body UpdateCategoryRequest true "Fields to update"
// @Success     200 {object} response.Envelope{data=models.Category} "Category updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /donation-categories/{id} [put]
// @Router      /expense-categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
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

	var req UpdateCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), h.kind, id, services.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, h.action("UPDATE"), h.resourceType(), category.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "description": req.Description, "is_active": req.IsActive})

	response.OK(c, http.StatusOK, category, "Category updated")
}

// DeleteCategory handles deleting an unused category
// @Summary     Delete category
// @Description Delete a category that no line item references
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} response.Envelope "Category deleted"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category in use"
// @Router      /donation-categories/{id} [delete]
// @Router      /expense-categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
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

	if err := h.categoryService.DeleteCategory(c.Request.Context(), h.kind, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, h.action("DELETE"), h.resourceType(), id, c.ClientIP(), nil)

	response.OK(c, http.StatusOK, nil, "Category deleted")
}
