package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Name            string `validate:"required"`
	Email           string `validate:"omitempty,email"`
	Type            string `validate:"omitempty,oneof=universidad colegio"`
	InstitutionID   uint   `validate:"omitempty,gte=1"`
	ClassroomsCount int    `validate:"gte=0"`
}

func TestValidateStructPasses(t *testing.T) {
	v := NewValidator()
	err := v.ValidateStruct(sampleRequest{Name: "ULAEM", Email: "info@uleam.edu.ec", Type: "universidad"})
	if err != nil {
		t.Errorf("expected valid struct, got %v", err)
	}
}

func TestFormatErrorsSnakeCaseFields(t *testing.T) {
	v := NewValidator()
	err := v.ValidateStruct(sampleRequest{Email: "no-es-email", Type: "otro", ClassroomsCount: -1})
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := map[string]string{}
	for _, fe := range FormatErrors(err) {
		fields[fe.Field] = fe.Message
	}

	if _, ok := fields["name"]; !ok {
		t.Error("missing error for required name")
	}
	if _, ok := fields["email"]; !ok {
		t.Error("missing error for invalid email")
	}
	if _, ok := fields["classrooms_count"]; !ok {
		t.Errorf("expected snake_case field classrooms_count, got %v", fields)
	}

	// messages are user-facing Spanish
	for field, msg := range fields {
		if msg == "" {
			t.Errorf("empty message for %s", field)
		}
	}
}

func TestToSnakeCaseAcronyms(t *testing.T) {
	tests := map[string]string{
		"InstitutionID":   "institution_id",
		"ClassroomsCount": "classrooms_count",
		"Name":            "name",
		"AreaM2":          "area_m2",
	}

	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hola  "); got != "hola" {
		t.Errorf("expected trimmed string, got %q", got)
	}
	if strings.Contains(SanitizeString("a\x00b"), "\x00") {
		t.Error("expected NUL bytes removed")
	}
}
