package institution

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gmpi-ec/gmpi-backend/database"
	"github.com/gmpi-ec/gmpi-backend/model"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
	"github.com/gmpi-ec/gmpi-backend/utils/validation"
)

func testApp(h *InstitutionHandler) *fiber.App {
	app := fiber.New()
	app.Get("/api/institutions", h.ListInstitutions)
	app.Get("/api/institutions/:id", h.GetInstitution)
	app.Delete("/api/institutions/:id", h.DeleteInstitution)
	return app
}

func perform(t *testing.T, app *fiber.App, method, target string) (int, response.Response) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(method, target, nil))
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

func TestListInstitutionsRejectsUnknownType(t *testing.T) {
	h := NewInstitutionHandler(nil, validation.NewValidator())
	app := testApp(h)

	status, body := perform(t, app, "GET", "/api/institutions?type=academia")
	if status != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
	if body.Success {
		t.Error("success should be false")
	}
	if body.Message != "Tipo de institución inválido" {
		t.Errorf("message = %q", body.Message)
	}
}

func integrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("set RUN_INTEGRATION_TESTS=true to run institution handler integration tests")
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

// A soft-deleted institution disappears from the default listing but stays
// reachable through its id.
func TestDeletedInstitutionHiddenFromListingButFetchable(t *testing.T) {
	db := integrationDB(t)
	h := NewInstitutionHandler(db, validation.NewValidator())
	app := testApp(h)

	institution := model.Institution{
		Name:     fmt.Sprintf("Colegio Prueba Baja %d", time.Now().UnixNano()),
		Type:     model.InstitutionCollege,
		Location: "Guayaquil",
		Status:   model.StatusActive,
	}
	if err := db.Create(&institution).Error; err != nil {
		t.Fatalf("create institution: %v", err)
	}
	t.Cleanup(func() { db.Delete(&institution) })

	status, _ := perform(t, app, "DELETE", fmt.Sprintf("/api/institutions/%d", institution.ID))
	if status != fiber.StatusOK {
		t.Fatalf("delete status = %d", status)
	}

	target := "/api/institutions?search=" + url.QueryEscape(institution.Name)
	status, body := perform(t, app, "GET", target)
	if status != fiber.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if body.Count == nil || *body.Count != 0 {
		t.Errorf("count = %v, want 0: deleted rows must not appear in the default listing", body.Count)
	}

	status, body = perform(t, app, "GET", fmt.Sprintf("/api/institutions/%d", institution.ID))
	if status != fiber.StatusOK {
		t.Fatalf("get status = %d, want 200", status)
	}
	if !body.Success {
		t.Error("success should be true")
	}

	var got model.Institution
	if err := db.First(&got, institution.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != model.StatusDeleted {
		t.Errorf("status = %q, want %q", got.Status, model.StatusDeleted)
	}
}
