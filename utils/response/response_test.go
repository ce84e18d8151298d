package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func perform(t *testing.T, handler fiber.Handler) (int, Response) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("Unmarshal %q: %v", body, err)
	}
	return resp.StatusCode, parsed
}

func TestSuccessList(t *testing.T) {
	status, body := perform(t, func(c *fiber.Ctx) error {
		return SuccessList(c, []string{"a", "b"}, 2)
	})

	if status != fiber.StatusOK {
		t.Errorf("status = %d", status)
	}
	if !body.Success {
		t.Error("success should be true")
	}
	if body.Count == nil || *body.Count != 2 {
		t.Errorf("count = %v, want 2", body.Count)
	}
}

func TestCreated(t *testing.T) {
	status, body := perform(t, func(c *fiber.Ctx) error {
		return Created(c, "Creado exitosamente", fiber.Map{"id": 1})
	})

	if status != fiber.StatusCreated {
		t.Errorf("status = %d, want 201", status)
	}
	if body.Message != "Creado exitosamente" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestValidationFailed(t *testing.T) {
	status, body := perform(t, func(c *fiber.Ctx) error {
		return ValidationFailed(c, []FieldError{{Field: "name", Message: "El campo name es requerido"}})
	})

	if status != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
	if body.Success {
		t.Error("success should be false")
	}
	if body.Message != "Errores de validación" {
		t.Errorf("message = %q", body.Message)
	}
	if len(body.Errors) != 1 || body.Errors[0].Field != "name" {
		t.Errorf("errors = %+v", body.Errors)
	}
}

func TestNotFound(t *testing.T) {
	status, body := perform(t, func(c *fiber.Ctx) error {
		return NotFound(c, "Institución no encontrada")
	})

	if status != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if body.Message != "Institución no encontrada" {
		t.Errorf("message = %q", body.Message)
	}
}
