package entity

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var travelerValidator = validator.New()

// TravelerProfile is entered at the first checkout step. It lives only for the
// duration of the checkout session and is never persisted.
type TravelerProfile struct {
	FullName       string `json:"full_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
}

func (p TravelerProfile) Validate() error {
	err := travelerValidator.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	validationErr := ValidationError{Fields: map[string]string{}}
	for _, fe := range fieldErrors {
		validationErr.Fields[fe.Field()] = fe.Tag()
	}

	return validationErr
}
