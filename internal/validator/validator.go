// Package validator provides the request validation rules registered with
// Gin's binding engine and the translation of their failures into
// field-path keyed VALIDATION_ERROR responses.
package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"mosquefund/internal/models"
)

// DateLayout is the calendar-date format accepted for date fields.
const DateLayout = "2006-01-02"

// maxAmount bounds item amounts to what a decimal(15,2) column stores.
var maxAmount = decimal.New(1, 13)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("date_ymd", validateDate)
	_ = v.RegisterValidation("payment_method", validatePaymentMethod)
	_ = v.RegisterValidation("approval_status", validateApprovalStatus)
	_ = v.RegisterValidation("expense_status", validateExpenseStatus)
	_ = v.RegisterValidation("user_role", validateUserRole)
}

// jsonFieldName makes error namespaces use the JSON names callers send.
func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return "-"
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// decimalValue lets string-based tags (required, money) inspect decimals.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// ParseMoney parses a positive amount with at most two decimal places.
func ParseMoney(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if !d.IsPositive() || !d.Equal(d.Round(2)) || d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, false
	}
	return d, true
}

func validateMoney(fl validator.FieldLevel) bool {
	_, ok := ParseMoney(fl.Field().String())
	return ok
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC, rejecting
// out-of-range days such as 2024-02-30.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch models.PaymentMethod(fl.Field().String()) {
	case models.PaymentMethodCash, models.PaymentMethodTransfer,
		models.PaymentMethodQRIS, models.PaymentMethodOther:
		return true
	}
	return false
}

// validateApprovalStatus accepts only the terminal states an approval may set.
func validateApprovalStatus(fl validator.FieldLevel) bool {
	switch models.ExpenseStatus(fl.Field().String()) {
	case models.ExpenseStatusApproved, models.ExpenseStatusRejected:
		return true
	}
	return false
}

func validateExpenseStatus(fl validator.FieldLevel) bool {
	switch models.ExpenseStatus(fl.Field().String()) {
	case models.ExpenseStatusPending, models.ExpenseStatusApproved, models.ExpenseStatusRejected:
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.RoleAdmin, models.RoleTreasurer, models.RoleViewer:
		return true
	}
	return false
}
