package handler

import (
	"github.com/bookshelf/secureapp/internal/pkg/validation"
)

// echoValidator wraps the shared validator so Echo can call c.Validate(req).
// Failures come back as *domain.ValidationError and render as 422.
type echoValidator struct {
	v *validation.Validator
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validation.New()}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	return ev.v.Struct(i)
}
