package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gmpi-ec/gmpi-backend/database"
	"github.com/gmpi-ec/gmpi-backend/model"
	authutil "github.com/gmpi-ec/gmpi-backend/utils/auth"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
	"github.com/gmpi-ec/gmpi-backend/utils/validation"
)

const testBcryptCost = 4

func integrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("set RUN_INTEGRATION_TESTS=true to run auth handler integration tests")
	}

	store, err := database.StartGORM()
	if err != nil {
		t.Fatalf("StartGORM: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store.GetDB()
}

func registerApp(db *gorm.DB) *fiber.App {
	manager := authutil.NewJWTManager(authutil.JWTConfig{
		Secret: "clave-de-prueba",
		Expiry: time.Hour,
		Issuer: "gmpi-backend",
	})
	h := NewAuthHandler(db, manager, validation.NewValidator(), testBcryptCost, nil)

	app := fiber.New()
	app.Post("/api/auth/register", h.Register)
	return app
}

func postRegister(t *testing.T, app *fiber.App, payload fiber.Map) (int, response.Response) {
	t.Helper()

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var parsed response.Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return resp.StatusCode, parsed
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := integrationDB(t)
	app := registerApp(db)

	suffix := time.Now().UnixNano()
	username := fmt.Sprintf("usuario%d", suffix)
	email := fmt.Sprintf("usuario%d@gmpi.ec", suffix)
	t.Cleanup(func() {
		db.Where("username LIKE ?", fmt.Sprintf("usuario%d%%", suffix)).Delete(&model.User{})
	})

	status, body := postRegister(t, app, fiber.Map{
		"username": username,
		"email":    email,
		"password": "secreta123",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("first register status = %d, message = %q", status, body.Message)
	}

	tests := []struct {
		name    string
		payload fiber.Map
	}{
		{"same username", fiber.Map{
			"username": username,
			"email":    fmt.Sprintf("usuario%d.otro@gmpi.ec", suffix),
			"password": "secreta123",
		}},
		{"same email", fiber.Map{
			"username": fmt.Sprintf("usuario%dotro", suffix),
			"email":    email,
			"password": "secreta123",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postRegister(t, app, tt.payload)
			if status != fiber.StatusConflict {
				t.Errorf("status = %d, want 409", status)
			}
			if body.Message != "El usuario o email ya existe" {
				t.Errorf("message = %q", body.Message)
			}
		})
	}
}
