package validator

import (
	"github.com/go-playground/validator/v10"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

// customValidations are the tags registered on top of the built-in ones
var customValidations = map[string]validator.Func{
	"decimal": validateDecimalString,
}

func NewValidator() (*validator.Validate, error) {
	v := validator.New()
	if err := registerValidations(v, customValidations); err != nil {
		return nil, err
	}
	validate = v
	return validate, nil
}

func registerValidations(v *validator.Validate, validations map[string]validator.Func) error {
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return ierr.WithError(err).
				WithHintf("Failed to register the %q validation", tag).
				Mark(ierr.ErrSystem)
		}
	}
	return nil
}

func GetValidator() *validator.Validate {
	return validate
}

func ValidateRequest(req interface{}) error {
	if validate == nil {
		return ierr.NewError("validator not initialized").
			WithHint("Validator must be initialized before using it").
			Mark(ierr.ErrSystem)
	}

	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// validateDecimalString is registered as the "decimal" tag and accepts strings
// that parse as a decimal number
func validateDecimalString(fl validator.FieldLevel) bool {
	if fl.Field().String() == "" {
		return true
	}
	_, err := decimal.NewFromString(fl.Field().String())
	return err == nil
}
