package validator

import (
	"errors"
	"testing"

	"staybook/pkg/logger"
	"staybook/pkg/model"
)

func newValidator() *RentalValidator {
	return NewRentalValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	}))
}

func TestValidateCreate(t *testing.T) {
	v := newValidator()

	cases := []struct {
		name    string
		params  model.RentalParams
		wantErr bool
	}{
		{"valid", model.RentalParams{Units: 1, PreparationTimeInDays: 0}, false},
		{"valid with prep", model.RentalParams{Units: 3, PreparationTimeInDays: 2}, false},
		{"zero units", model.RentalParams{Units: 0}, true},
		{"negative units", model.RentalParams{Units: -2}, true},
		{"negative prep", model.RentalParams{Units: 1, PreparationTimeInDays: -1}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := v.ValidateCreate(&c.params)
			if (err != nil) != c.wantErr {
				t.Errorf("ValidateCreate(%+v) error = %v, wantErr %v", c.params, err, c.wantErr)
			}
			if err != nil {
				var validationErrs ValidationErrors
				if !errors.As(err, &validationErrs) {
					t.Errorf("error is not ValidationErrors: %T", err)
				}
			}
		})
	}
}

func TestValidateUpdateAllowsZeroUnits(t *testing.T) {
	v := newValidator()

	if err := v.ValidateUpdate(&model.RentalParams{Units: 0, PreparationTimeInDays: 0}); err != nil {
		t.Errorf("zero units must be legal on update: %v", err)
	}
	if err := v.ValidateUpdate(&model.RentalParams{Units: -1}); err == nil {
		t.Error("negative units must fail on update")
	}
}
