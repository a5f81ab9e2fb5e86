package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/middleware"
	"mosquefund/internal/pagination"
	"mosquefund/internal/policy"
	"mosquefund/internal/response"
	"mosquefund/internal/uuid"
	"mosquefund/internal/validator"
)

// ErrorResponse documents the failure envelope for the API description.
type ErrorResponse = response.ErrorEnvelope

// getActor returns the caller resolved by the auth middleware.
// Returns ErrUnauthorized if not present.
func getActor(c *gin.Context) (*policy.Actor, error) {
	actor := middleware.ActorFrom(c)
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return actor, nil
}

// parsePathID reads a UUID path parameter.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	raw := c.Param(param)
	if !uuid.IsValid(raw) {
		return "", apperrors.Validation(param, "must be a valid UUID")
	}
	id, _ := uuid.Parse(raw)
	return id, nil
}

// respondWithError writes the failure envelope for err.
func respondWithError(c *gin.Context, err error) {
	response.Error(c, err)
}

// bindJSON decodes and validates the request body, reporting every failing
// field under its JSON path.
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return validator.Translate(err)
	}
	return nil
}

// bindQuery decodes and validates query parameters into req.
func bindQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return validator.Translate(err)
	}
	return nil
}

func bindPage(c *gin.Context) (pagination.PageRequest, error) {
	var page pagination.PageRequest
	err := bindQuery(c, &page)
	return page, err
}

// dateRangeQuery is the from_date/to_date pair accepted by listings and
// summaries.
type dateRangeQuery struct {
	FromDate string `form:"from_date" binding:"omitempty,date_ymd"`
	ToDate   string `form:"to_date" binding:"omitempty,date_ymd"`
}

// bounds returns the parsed range. Both ends are inclusive.
func (q dateRangeQuery) bounds() (from, to *time.Time, err error) {
	if q.FromDate != "" {
		t, _ := validator.ParseDate(q.FromDate)
		from = &t
	}
	if q.ToDate != "" {
		t, _ := validator.ParseDate(q.ToDate)
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, apperrors.Validation("to_date", "must not be before from_date")
	}
	return from, to, nil
}

// optionalBool parses a boolean query parameter; absent means no filter.
func optionalBool(c *gin.Context, name string) (*bool, error) {
	switch c.Query(name) {
	case "":
		return nil, nil
	case "true", "1":
		v := true
		return &v, nil
	case "false", "0":
		v := false
		return &v, nil
	}
	return nil, apperrors.Validation(name, "must be true or false")
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
