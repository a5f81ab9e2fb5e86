package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mosquefund/internal/models"
	"mosquefund/internal/policy"
	"mosquefund/internal/response"
	"mosquefund/internal/services"
	"mosquefund/internal/validator"
)

// DonationHandler handles donation requests.
type DonationHandler struct {
	donationService services.DonationServicer
	auditService    services.AuditServicer
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donationService services.DonationServicer, auditService services.AuditServicer) *DonationHandler {
	return &DonationHandler{donationService: donationService, auditService: auditService}
}

// CreateDonationRequest represents the request payload for recording a donation.
type CreateDonationRequest struct {
	PocketID      string        `json:"pocket_id" binding:"required,uuid"`
	DonorName     string        `json:"donor_name" binding:"max=100"`
	IsAnonymous   bool          `json:"is_anonymous"`
	PaymentMethod string        `json:"payment_method" binding:"required,payment_method"`
	Date          string        `json:"date" binding:"required,date_ymd" example:"2024-03-01"`
	Notes         string        `json:"notes" binding:"max=1000"`
	Items         []ItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateDonationRequest represents the request payload for updating a donation.
// Omitting items keeps the existing ones; sending items replaces all of them.
type UpdateDonationRequest struct {
	PocketID      *string        `json:"pocket_id" binding:"omitempty,uuid"`
	DonorName     *string        `json:"donor_name" binding:"omitempty,max=100"`
	IsAnonymous   *bool          `json:"is_anonymous"`
	PaymentMethod *string        `json:"payment_method" binding:"omitempty,payment_method"`
	Date          *string        `json:"date" binding:"omitempty,date_ymd"`
	Notes         *string        `json:"notes" binding:"omitempty,max=1000"`
	Items         *[]ItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

type donationQuery struct {
	PaymentMethod string `form:"payment_method" binding:"omitempty,payment_method"`
}

// maskDonor blanks the donor name of anonymous donations for everyone but
// admins. The stored value is untouched.
func maskDonor(actor *policy.Actor, d *models.Donation) {
	if d.IsAnonymous && (actor == nil || actor.Role != models.RoleAdmin) {
		d.DonorName = ""
	}
}

// CreateDonation handles recording a new donation
// @Summary     Record a donation
// @Description Record a donation split across one or more donation categories. The total is the sum of the items.
// @Tags        donations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDonationRequest true "Donation details"
// @Success     201 {object} response.Envelope{data=models.Donation} "Donation recorded"
// @Failure     400 {object} ErrorResponse "Invalid input, inactive pocket or category"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Pocket or category not found"
// @Router      /donations [post]
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDonationRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	date, _ := validator.ParseDate(req.Date)

	donation, err := h.donationService.CreateDonation(c.Request.Context(), actor.ID, services.DonationInput{
		PocketID:      req.PocketID,
		DonorName:     req.DonorName,
		IsAnonymous:   req.IsAnonymous,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Date:          date,
		Notes:         req.Notes,
		Items:         toItemInputs(req.Items),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "CREATE_DONATION", "donation", donation.ID, c.ClientIP(),
		map[string]interface{}{
			"pocket_id":    donation.PocketID,
			"total_amount": donation.TotalAmount.String(),
			"items":        len(donation.Items),
		})

	maskDonor(actor, donation)
	response.OK(c, http.StatusCreated, donation, "Donation recorded")
}

// ListDonations lists donations, newest first
// @Summary     List donations
// @Tags        donations
// @Produce     json
// @Security    BearerAuth
// @Param       page           query int    false "Page number (default 1)"
// @Param       page_size      query int    false "Items per page (default 20, max 100)"
// @Param       pocket_id      query string false "Filter by pocket"
// @Param       category_id    query string false "Donations with at least one item in this category"
// @Param       from_date      query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       to_date        query string false "Inclusive end date (YYYY-MM-DD)"
// @Param       payment_method query string false "cash, transfer, qris, other"
// @Success     200 {object} response.PageEnvelope{data=[]models.Donation} "Paginated donations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /donations [get]
func (h *DonationHandler) ListDonations(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

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
	var dq donationQuery
	if err := bindQuery(c, &dq); err != nil {
		respondWithError(c, err)
		return
	}
	entryFilter, err := eq.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter := services.DonationFilter{EntryFilter: entryFilter}
	if dq.PaymentMethod != "" {
		method := models.PaymentMethod(dq.PaymentMethod)
		filter.PaymentMethod = &method
	}

	result, err := h.donationService.ListDonations(c.Request.Context(), filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	for i := range result.Data {
		maskDonor(actor, &result.Data[i])
	}
	response.Page(c, http.StatusOK, result)
}

// GetDonation handles the retrieval of a single donation
// @Summary     Get donation by ID
// @Tags        donations
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Donation ID"
// @Success     200 {object} response.Envelope{data=models.Donation} "Donation details"
// @Failure     404 {object} ErrorResponse "Donation not found"
// @Router      /donations/{id} [get]
func (h *DonationHandler) GetDonation(c *gin.Context) {
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

	donation, err := h.donationService.GetDonation(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	maskDonor(actor, donation)
	response.OK(c, http.StatusOK, donation, "")
}

// UpdateDonation handles updating a donation
// @Summary     Update donation
// @Description Update header fields. Sending items replaces the whole item set; omitting them keeps it.
// @Tags        donations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Donation ID"
// @Param       request body UpdateDonationRequest true "Fields to update"
// @Success     200 {object} response.Envelope{data=models.Donation} "Donation updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Donation, pocket or category not found"
// @Router      /donations/{id} [put]
func (h *DonationHandler) UpdateDonation(c *gin.Context) {
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

	var req UpdateDonationRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	update := services.DonationUpdate{
		PocketID:    req.PocketID,
		DonorName:   req.DonorName,
		IsAnonymous: req.IsAnonymous,
		Notes:       req.Notes,
		Items:       toItemInputsPtr(req.Items),
	}
	if req.PaymentMethod != nil {
		method := models.PaymentMethod(*req.PaymentMethod)
		update.PaymentMethod = &method
	}
	if req.Date != nil {
		date, _ := validator.ParseDate(*req.Date)
		update.Date = &date
	}

	donation, err := h.donationService.UpdateDonation(c.Request.Context(), id, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "UPDATE_DONATION", "donation", donation.ID, c.ClientIP(),
		map[string]interface{}{
			"items_replaced": req.Items != nil,
			"total_amount":   donation.TotalAmount.String(),
		})

	maskDonor(actor, donation)
	response.OK(c, http.StatusOK, donation, "Donation updated")
}

// DeleteDonation handles deleting a donation and its items
// @Summary     Delete donation
// @Tags        donations
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Donation ID"
// @Success     200 {object} response.Envelope "Donation deleted"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Donation not found"
// @Router      /donations/{id} [delete]
func (h *DonationHandler) DeleteDonation(c *gin.Context) {
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

	if err := h.donationService.DeleteDonation(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "DELETE_DONATION", "donation", id, c.ClientIP(), nil)

	response.OK(c, http.StatusOK, nil, "Donation deleted")
}
