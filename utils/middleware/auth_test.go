package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/gmpi-ec/gmpi-backend/model"
)

func roleGateStatus(t *testing.T, user *model.User, gate fiber.Handler) int {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals("user", user)
		}
		return c.Next()
	}, gate, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestRequireRole(t *testing.T) {
	m := NewAuthMiddleware(nil, nil)

	tests := []struct {
		name string
		user *model.User
		gate fiber.Handler
		want int
	}{
		{"admin passes admin gate", &model.User{Role: model.RoleAdmin}, m.RequireRole(model.RoleAdmin), fiber.StatusOK},
		{"user blocked by admin gate", &model.User{Role: model.RoleUser}, m.RequireRole(model.RoleAdmin), fiber.StatusForbidden},
		{"user passes user gate", &model.User{Role: model.RoleUser}, m.RequireRole(model.RoleUser), fiber.StatusOK},
		{"admin passes user gate", &model.User{Role: model.RoleAdmin}, m.RequireRole(model.RoleUser), fiber.StatusOK},
		{"missing user blocked", nil, m.RequireRole(model.RoleAdmin), fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := roleGateStatus(t, tt.user, tt.gate); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}
