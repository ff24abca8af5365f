package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type RentalValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRentalValidator(log *logger.Logger) *RentalValidator {
	return &RentalValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateCreate requires at least one unit; a rental that starts with zero
// units could never take a booking.
func (v *RentalValidator) ValidateCreate(params *model.RentalParams) error {
	if err := v.validateStruct(params); err != nil {
		return err
	}

	if params.Units < 1 {
		return ValidationErrors{
			ValidationError{
				Field:   "Units",
				Message: "units must be at least 1",
			},
		}
	}

	return nil
}

// ValidateUpdate allows zero units: shrinking to zero is legal as long as no
// existing booking needs a unit.
func (v *RentalValidator) ValidateUpdate(params *model.RentalParams) error {
	return v.validateStruct(params)
}

func (v *RentalValidator) validateStruct(params *model.RentalParams) error {
	if err := v.validate.Struct(params); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
