package util

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidatePositiveAmount accepts decimal.Decimal fields that are strictly
// greater than zero. Registered as the "positive_amount" binding tag.
func ValidatePositiveAmount(fl validator.FieldLevel) bool {
	amount, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return amount.IsPositive()
}
