package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// bindErrorMessage names the missing required field when the body
// parsed but failed validation. A body that could not be parsed at all
// gets a neutral message instead of blaming a field.
func bindErrorMessage(err error, field string) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return fmt.Sprintf("Missing '%s' in request body", field)
	}
	return "Bad Request"
}
