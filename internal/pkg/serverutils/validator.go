package serverutils

import (
	"errors"
	"fmt"

	"ai-webchat-be/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and reports the first failing
// field as a validation error.
func ValidateRequest(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return apperror.Validation(fmt.Sprintf("Field '%s' failed on '%s' rule", first.Field(), first.Tag()))
	}
	return apperror.Validation("Invalid request body")
}
