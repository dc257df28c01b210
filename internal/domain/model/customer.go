package model

import (
	"fmt"
	"strings"

	"membership-checkout/internal/domain"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender accepts the closed set {male, female}, case-insensitive.
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("%w: gender must be male or female", domain.ErrInvalidArgument)
	}
}

// Code is the registry's wire encoding for gender: 1 for male, 0 otherwise.
func (g Gender) Code() int {
	if g == GenderMale {
		return 1
	}
	return 0
}

// CustomerProfile is the personal data collected during registration or
// echoed back by the registry/billing provider.
type CustomerProfile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Gender    Gender `json:"gender,omitempty"`
}

// CustomerRecord is a registry entry: either an existing lookup hit or a
// freshly registered customer.
type CustomerRecord struct {
	ID      string
	Profile CustomerProfile
}

// NewCustomerProfile validates the registration form. All four fields are
// required; the phone must already have passed ValidatePhoneNumber.
func NewCustomerProfile(firstName, lastName, phone string, gender Gender) (*CustomerProfile, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, fmt.Errorf("%w: first name is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(lastName) == "" {
		return nil, fmt.Errorf("%w: last name is required", domain.ErrInvalidArgument)
	}
	if err := ValidatePhoneNumber(phone); err != nil {
		return nil, err
	}
	if gender != GenderMale && gender != GenderFemale {
		return nil, fmt.Errorf("%w: gender must be male or female", domain.ErrInvalidArgument)
	}
	return &CustomerProfile{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Phone:     phone,
		Gender:    gender,
	}, nil
}

// ValidatePhoneNumber checks the local-format number the visitor types:
// exactly 10 digits, nothing else. Messages are part of the UI contract.
func ValidatePhoneNumber(number string) error {
	if number == "" {
		return fmt.Errorf("%w: phone number is required", domain.ErrInvalidArgument)
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: phone number should contain only digits", domain.ErrInvalidArgument)
		}
	}
	if len(number) != 10 {
		return fmt.Errorf("%w: phone number should be 10 digits", domain.ErrInvalidArgument)
	}
	return nil
}
