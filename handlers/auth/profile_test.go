package auth

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	authutil "github.com/gmpi-ec/gmpi-backend/utils/auth"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
	"github.com/gmpi-ec/gmpi-backend/utils/validation"
)

// A password change with a too-short replacement fails before the user row
// is ever loaded.
func TestUpdateProfileRejectsShortPassword(t *testing.T) {
	manager := authutil.NewJWTManager(authutil.JWTConfig{
		Secret: "clave-de-prueba",
		Expiry: time.Hour,
		Issuer: "gmpi-backend",
	})
	h := NewAuthHandler(nil, manager, validation.NewValidator(), testBcryptCost, nil)

	app := fiber.New()
	app.Put("/api/auth/profile", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		return c.Next()
	}, h.UpdateProfile)

	raw, err := json.Marshal(fiber.Map{
		"currentPassword": "secreta123",
		"newPassword":     "corta",
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	req := httptest.NewRequest("PUT", "/api/auth/profile", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var parsed response.Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if parsed.Message != "La nueva contraseña debe tener al menos 6 caracteres" {
		t.Errorf("message = %q", parsed.Message)
	}
}
