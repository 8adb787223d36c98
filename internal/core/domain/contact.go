package domain

import (
	"strings"
	"time"
)

// ContactInput is a landing-page contact form submission.
type ContactInput struct {
	Name            string   `json:"name" validate:"required,max=100"`
	Email           string   `json:"email" validate:"required,email"`
	Company         string   `json:"company,omitempty" validate:"max=100"`
	Phone           string   `json:"phone,omitempty" validate:"omitempty,numeric,max=16"`
	Message         string   `json:"message" validate:"required,min=10,max=2000"`
	ServiceInterest []string `json:"service_interest" validate:"max=20,dive,max=100"`
}

// Normalize trims every free-text field.
func (in ContactInput) Normalize() ContactInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Company = strings.TrimSpace(in.Company)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	if in.ServiceInterest == nil {
		in.ServiceInterest = []string{}
	}
	return in
}

// Contact statuses.
const ContactStatusNew = "new"

// Contact is a stored contact submission.
type Contact struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Company         string    `json:"company,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Message         string    `json:"message"`
	ServiceInterest []string  `json:"service_interest"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
}
