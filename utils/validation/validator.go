package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
)

// Validator wraps the go-playground validator.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a struct using its validate tags.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatErrors converts validator errors into the per-field list carried in
// validation responses. Messages are in Spanish, matching the API locale.
func FormatErrors(err error) []response.FieldError {
	var out []response.FieldError

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []response.FieldError{{Field: "", Message: "Solicitud inválida"}}
	}

	for _, e := range validationErrs {
		field := toSnakeCase(e.Field())
		var msg string
		switch e.Tag() {
		case "required":
			msg = fmt.Sprintf("El campo %s es requerido", field)
		case "email":
			msg = "Email inválido"
		case "oneof":
			msg = fmt.Sprintf("El campo %s debe ser uno de: %s", field, e.Param())
		case "min":
			msg = fmt.Sprintf("El campo %s debe tener al menos %s caracteres", field, e.Param())
		case "max":
			msg = fmt.Sprintf("El campo %s debe tener como máximo %s caracteres", field, e.Param())
		case "gte":
			msg = fmt.Sprintf("El campo %s debe ser mayor o igual a %s", field, e.Param())
		case "lte":
			msg = fmt.Sprintf("El campo %s debe ser menor o igual a %s", field, e.Param())
		case "datetime":
			msg = fmt.Sprintf("El campo %s debe tener formato %s", field, e.Param())
		case "url":
			msg = fmt.Sprintf("El campo %s debe ser una URL válida", field)
		default:
			msg = fmt.Sprintf("El campo %s es inválido", field)
		}
		out = append(out, response.FieldError{Field: field, Message: msg})
	}

	return out
}

// SanitizeString trims whitespace and strips null bytes from user input.
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}

func toSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			// Break before the capital unless it continues an acronym run
			// (e.g. InstitutionID -> institution_id).
			if i > 0 && (runes[i-1] < 'A' || runes[i-1] > 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
