package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContactMessage is what the contact form posts. Delivery happens in the
// browser; the server only checks the fields.
type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

const ContactAccepted = "Message received!"

func ValidateContact(msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrBadRequest(err.Error())
	}
	for _, verr := range verrs {
		if verr.Tag() == "required" {
			return ErrBadRequest("All fields are required")
		}
	}
	return ErrBadRequest("Invalid email format")
}
