package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mosquefund/internal/models"
	"mosquefund/internal/response"
	"mosquefund/internal/services"
	"mosquefund/internal/validator"
)

// ExpenseHandler handles expense and approval requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for recording an expense.
type CreateExpenseRequest struct {
	PocketID    string        `json:"pocket_id" binding:"required,uuid"`
	Description string        `json:"description" binding:"required,min=1,max=500"`
	Date        string        `json:"date" binding:"required,date_ymd" example:"2024-03-01"`
	Notes       string        `json:"notes" binding:"max=1000"`
	Items       []ItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
// Status is changed only through the approve endpoint.
type UpdateExpenseRequest struct {
	PocketID    *string        `json:"pocket_id" binding:"omitempty,uuid"`
	Description *string        `json:"description" binding:"omitempty,min=1,max=500"`
	Date        *string        `json:"date" binding:"omitempty,date_ymd"`
	Notes       *string        `json:"notes" binding:"omitempty,max=1000"`
	Items       *[]ItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// ApproveExpenseRequest carries the resolution of a pending expense.
type ApproveExpenseRequest struct {
	Status string `json:"status" binding:"required,approval_status" enums:"approved,rejected"`
}

type expenseQuery struct {
	Status string `form:"status" binding:"omitempty,expense_status"`
}

// CreateExpense handles recording a new expense
// @Summary     Record an expense
// @Description Record a pending expense split across one or more expense categories
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} response.Envelope{data=models.Expense} "Expense recorded"
// @Failure     400 {object} ErrorResponse "Invalid input, inactive pocket or category"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Pocket or category not found"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	date, _ := validator.ParseDate(req.Date)

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), actor.ID, services.ExpenseInput{
		PocketID:    req.PocketID,
		Description: req.Description,
		Date:        date,
		Notes:       req.Notes,
		Items:       toItemInputs(req.Items),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{
			"pocket_id":    expense.PocketID,
			"total_amount": expense.TotalAmount.String(),
			"items":        len(expense.Items),
		})

	response.OK(c, http.StatusCreated, expense, "Expense recorded")
}

// ListExpenses lists expenses, newest first
// @Summary     List expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       pocket_id   query string false "Filter by pocket"
// @Param       category_id query string false "Expenses with at least one item in this category"
// @Param       from_date   query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       to_date     query string false "Inclusive end date (YYYY-MM-DD)"
// @Param       status      query string false "pending, approved, rejected"
// @Success     200 {object} response.PageEnvelope{data=[]models.Expense} "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var eq entryQuery
	if err := bindQuery(c, &eq); err != nil {
		respondWithError(c, err)
		return
	}
	var xq expenseQuery
	if err := bindQuery(c, &xq); err != nil {
		respondWithError(c, err)
		return
	}
	entryFilter, err := eq.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter := services.ExpenseFilter{EntryFilter: entryFilter}
	if xq.Status != "" {
		status := models.ExpenseStatus(xq.Status)
		filter.Status = &status
	}

	result, err := h.expenseService.ListExpenses(c.Request.Context(), filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.Page(c, http.StatusOK, result)
}

// GetExpense handles the retrieval of a single expense
// @Summary     Get expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} response.Envelope{data=models.Expense} "Expense details"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, expense, "")
}

// UpdateExpense handles updating an expense
// @Summary     Update expense
// @Description Update an expense. Items, pocket and date are frozen once the expense is approved or rejected.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} response.Envelope{data=models.Expense} "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Expense, pocket or category not found"
// @Failure     409 {object} ErrorResponse "Expense already resolved"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
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

	var req UpdateExpenseRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	update := services.ExpenseUpdate{
		PocketID:    req.PocketID,
		Description: req.Description,
		Notes:       req.Notes,
		Items:       toItemInputsPtr(req.Items),
	}
	if req.Date != nil {
		date, _ := validator.ParseDate(*req.Date)
		update.Date = &date
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), id, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "UPDATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{
			"items_replaced": req.Items != nil,
			"total_amount":   expense.TotalAmount.String(),
		})

	response.OK(c, http.StatusOK, expense, "Expense updated")
}

// ApproveExpense resolves a pending expense
// @Summary     Approve or reject an expense
// @Description Move a pending expense to approved or rejected. Resolution happens at most once.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Expense ID"
// @Param       request body ApproveExpenseRequest true "Resolution"
// @Success     200 {object} response.Envelope{data=models.Expense} "Expense resolved"
// @Failure     400 {object} ErrorResponse "Invalid status"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Expense already resolved"
// @Router      /expenses/{id}/approve [put]
func (h *ExpenseHandler) ApproveExpense(c *gin.Context) {
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

	var req ApproveExpenseRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	status := models.ExpenseStatus(req.Status)
	expense, err := h.expenseService.ApproveExpense(c.Request.Context(), id, status, actor.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	action := "APPROVE_EXPENSE"
	if status == models.ExpenseStatusRejected {
		action = "REJECT_EXPENSE"
	}
	h.auditService.Log(actor.ID, action, "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"status": status, "total_amount": expense.TotalAmount.String()})

	response.OK(c, http.StatusOK, expense, "Expense "+string(status))
}

// DeleteExpense handles deleting an expense and its items
// @Summary     Delete expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} response.Envelope "Expense deleted"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
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

	if err := h.expenseService.DeleteExpense(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "DELETE_EXPENSE", "expense", id, c.ClientIP(), nil)

	response.OK(c, http.StatusOK, nil, "Expense deleted")
}
