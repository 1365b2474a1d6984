package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/itou/backend/internal/interfaces/http/dto"
)

// SetupValidator makes gin's validator report json or form field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// FormatValidationErrors formats binding errors into the error envelope
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, c.GetString(RequestIDContextKey)))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "min", "gte":
		if e.Type().Kind() == reflect.String {
			return "Ensure this field has at least " + e.Param() + " characters."
		}
		return "Ensure this value is greater than or equal to " + e.Param() + "."
	case "max", "lte":
		if e.Type().Kind() == reflect.String {
			return "Ensure this field has no more than " + e.Param() + " characters."
		}
		return "Ensure this value is less than or equal to " + e.Param() + "."
	case "oneof":
		return "Select a valid choice among: " + e.Param() + "."
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid value."
	}
}
