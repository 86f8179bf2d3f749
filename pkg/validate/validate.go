// Package validate holds the client-side input checks that run before any
// remote call. Failures are ValidationError-kind and never retried.
package validate

import (
	"regexp"
	"strings"

	"github.com/example/fooddash/pkg/apperr"
	"github.com/example/fooddash/pkg/models"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func Email(email string) error {
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return apperr.Validation("validate.Email", "please enter a valid email address")
	}
	return nil
}

func Password(password string) error {
	if len(password) < 6 {
		return apperr.Validation("validate.Password", "password must be at least 6 characters")
	}
	return nil
}

func SignUp(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("validate.SignUp", "name is required")
	}
	if err := Email(email); err != nil {
		return err
	}
	return Password(password)
}

// Card checks the raw card input. Only the last four digits ever leave this
// layer; the full number is discarded after validation.
func Card(number, holder, expiry, cvv string) error {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) < 16 {
		return apperr.Validation("validate.Card", "please enter a valid 16-digit card number")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return apperr.Validation("validate.Card", "card number must contain digits only")
		}
	}
	if strings.TrimSpace(holder) == "" {
		return apperr.Validation("validate.Card", "card holder name is required")
	}
	if len(expiry) < 5 {
		return apperr.Validation("validate.Card", "please enter a valid expiry date (MM/YY)")
	}
	if len(cvv) < 3 {
		return apperr.Validation("validate.Card", "please enter a valid CVV")
	}
	return nil
}

// LastFour extracts the stored display suffix from a raw card number.
func LastFour(number string) string {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) < 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

func Address(a models.Address) error {
	switch a.Label {
	case models.LabelHome, models.LabelSchool, models.LabelOther:
	default:
		return apperr.Validation("validate.Address", "label must be Home, School or Other")
	}
	if strings.TrimSpace(a.FullAddress) == "" {
		return apperr.Validation("validate.Address", "full address is required")
	}
	if strings.TrimSpace(a.Street) == "" {
		return apperr.Validation("validate.Address", "street is required")
	}
	if strings.TrimSpace(a.PostCode) == "" {
		return apperr.Validation("validate.Address", "post code is required")
	}
	return nil
}
