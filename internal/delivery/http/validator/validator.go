// Package validator adapts go-playground/validator to echo's Validator
// interface so handlers can validate bound input structs in one call.
package validator

import (
	"medash/internal/domain/apierror"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a shared validate instance.
type Validator struct {
	validate *validator.Validate
}

// New is the constructor for Validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator. Failures surface as local validation
// errors, never as backend calls.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return apierror.NewValidation(err.Error())
	}

	return nil
}
