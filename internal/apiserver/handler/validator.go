package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns a validator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return echo.NewHTTPError(http.StatusUnprocessableEntity, strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// messageFormats maps validation tags to message templates taking the field
// name and, where meaningful, the tag parameter.
var messageFormats = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email",
	"url":      "%s must be a valid url",
	"gt":       "%s must be greater than %[2]s",
	"min":      "%s must be at least %[2]s",
	"max":      "%s must be at most %[2]s",
	"oneof":    "%s must be one of: %[2]s",
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	format, ok := messageFormats[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
	if strings.Contains(format, "%[2]s") {
		return fmt.Sprintf(format, field, fe.Param())
	}
	return fmt.Sprintf(format, field)
}
