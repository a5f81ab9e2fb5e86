package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mosquefund/internal/response"
	"mosquefund/internal/services"
)

// PocketHandler handles pocket management and balance requests.
type PocketHandler struct {
	pocketService services.PocketServicer
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewPocketHandler creates a new PocketHandler.
func NewPocketHandler(pocketService services.PocketServicer, ledgerService services.LedgerServicer, auditService services.AuditServicer) *PocketHandler {
	return &PocketHandler{pocketService: pocketService, ledgerService: ledgerService, auditService: auditService}
}

// CreatePocketRequest represents the request payload for creating a pocket.
type CreatePocketRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdatePocketRequest represents the request payload for updating a pocket.
type UpdatePocketRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// CreatePocket handles the creation of a new pocket
// @Summary     Create a pocket
// @Description Create a named fund that donations and expenses are attributed to
// @Tags        pockets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePocketRequest true "Pocket details"
// @Success     201 {object} response.Envelope{data=models.Pocket} "Pocket created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /pockets [post]
func (h *PocketHandler) CreatePocket(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePocketRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	pocket, err := h.pocketService.CreatePocket(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "CREATE_POCKET", "pocket", pocket.ID, c.ClientIP(),
		map[string]interface{}{"name": pocket.Name})

	response.OK(c, http.StatusCreated, pocket, "Pocket created")
}

// ListPockets lists pockets with their current balances
// @Summary     List pockets
// @Description List pockets ordered by name, each with its balance computed from transactions
// @Tags        pockets
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Param       is_active query bool false "Filter by active flag"
// @Success     200 {object} response.PageEnvelope{data=[]models.PocketBalance} "Paginated pockets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /pockets [get]
func (h *PocketHandler) ListPockets(c *gin.Context) {
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

	result, err := h.ledgerService.ListPocketBalances(c.Request.Context(), page, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.Page(c, http.StatusOK, result)
}

// GetPocket handles the retrieval of a single pocket
// @Summary     Get pocket by ID
// @Tags        pockets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pocket ID"
// @Success     200 {object} response.Envelope{data=models.Pocket} "Pocket details"
// @Failure     404 {object} ErrorResponse "Pocket not found"
// @Router      /pockets/{id} [get]
func (h *PocketHandler) GetPocket(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	pocket, err := h.pocketService.GetPocket(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, pocket, "")
}

// GetPocketSummary returns a pocket's ledger aggregate
// @Summary     Get pocket summary
// @Description Totals of donations and non-rejected expenses for a pocket, optionally bounded by transaction date
// @Tags        pockets
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Pocket ID"
// @Param       from_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       to_date   query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {object} response.Envelope{data=services.PocketSummary} "Pocket summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Pocket not found"
// @Router      /pockets/{id}/summary [get]
func (h *PocketHandler) GetPocketSummary(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q dateRangeQuery
	if err := bindQuery(c, &q); err != nil {
		respondWithError(c, err)
		return
	}
	from, to, err := q.bounds()
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.ledgerService.GetPocketSummary(c.Request.Context(), id, services.Period{From: from, To: to})
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, summary, "")
}

// UpdatePocket handles updating a pocket
// @Summary     Update pocket
// @Description Rename, describe, or activate/deactivate a pocket
// @Tags        pockets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Pocket ID"
// @Param       request body UpdatePocketRequest true "Fields to update"
// @Success     200 {object} response.Envelope{data=models.Pocket} "Pocket updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Pocket not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /pockets/{id} [put]
func (h *PocketHandler) UpdatePocket(c *gin.Context) {
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

	var req UpdatePocketRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	pocket, err := h.pocketService.UpdatePocket(c.Request.Context(), id, services.PocketUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "UPDATE_POCKET", "pocket", pocket.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "description": req.Description, "is_active": req.IsActive})

	response.OK(c, http.StatusOK, pocket, "Pocket updated")
}

// DeletePocket handles deleting an unreferenced pocket
// @Summary     Delete pocket
// @Description Delete a pocket. Pockets referenced by transactions must be deactivated instead.
// @Tags        pockets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pocket ID"
// @Success     200 {object} response.Envelope "Pocket deleted"
// @Failure     404 {object} ErrorResponse "Pocket not found"
// @Failure     409 {object} ErrorResponse "Pocket in use"
// @Router      /pockets/{id} [delete]
func (h *PocketHandler) DeletePocket(c *gin.Context) {
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

	if err := h.pocketService.DeletePocket(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "DELETE_POCKET", "pocket", id, c.ClientIP(), nil)

	response.OK(c, http.StatusOK, nil, "Pocket deleted")
}
