package validation

import (
	"strings"

	"github.com/clearharbor/bond-platform-backend/internal/api/request"
)

// ValidateCreateUser validates a user registration request.
func ValidateCreateUser(req request.CreateUserRequest) error {
	errors := make(map[string]string)

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errors["email"] = "email is required"
	} else if !strings.Contains(email, "@") {
		errors["email"] = "email is not valid"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
