package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "mosquefund/internal/errors"
)

var enumValues = map[string]string{
	"payment_method":  "cash, transfer, qris, other",
	"approval_status": "approved, rejected",
	"expense_status":  "pending, approved, rejected",
	"user_role":       "admin, treasurer, viewer",
}

// Translate converts a binding error into a VALIDATION_ERROR whose details
// map each failing field path (e.g. "items[1].amount") to a message.
// Every failing field is reported, not just the first.
func Translate(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			path := fieldPath(fe.Namespace())
			if _, seen := details[path]; !seen {
				details[path] = message(fe)
			}
		}
		return apperrors.WithDetails(apperrors.ErrValidation, details)
	}

	if errors.Is(err, io.EOF) {
		return apperrors.WithMessage(apperrors.ErrValidation, "Request body is required")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.Validation(typeErr.Field, fmt.Sprintf("must be of type %s", typeErr.Type.String()))
	}

	return apperrors.WithMessage(apperrors.ErrValidation, "Invalid request: "+err.Error())
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without", "required_unless", "required_if":
		return "is required"
	case "uuid", "uuid4", "uuid7":
		return "must be a valid UUID"
	case "money":
		return "must be a positive amount with at most 2 decimal places"
	case "date_ymd":
		return "must be a valid calendar date in YYYY-MM-DD format"
	case "min":
		if isCollection(fe) {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if isCollection(fe) {
			return fmt.Sprintf("must contain at most %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	if values, ok := enumValues[fe.Tag()]; ok {
		return "must be one of: " + values
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}

func isCollection(fe validator.FieldError) bool {
	switch fe.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}
