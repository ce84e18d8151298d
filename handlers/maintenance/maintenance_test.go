package maintenance

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
	"github.com/gmpi-ec/gmpi-backend/utils/response"
	"github.com/gmpi-ec/gmpi-backend/utils/validation"
)

func testApp(h *MaintenanceHandler) *fiber.App {
	app := fiber.New()
	app.Get("/api/maintenance", h.ListMaintenance)
	app.Post("/api/maintenance", h.CreateMaintenance)
	app.Post("/api/maintenance/:id/complete", h.CompleteMaintenance)
	return app
}

func performJSON(t *testing.T, app *fiber.App, method, target string, payload interface{}) (int, response.Response) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
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

// Scheduling a record that references neither an institution nor an
// infrastructure must fail before anything reaches the database.
func TestCreateMaintenanceRequiresTarget(t *testing.T) {
	h := NewMaintenanceHandler(nil, validation.NewValidator())
	app := testApp(h)

	status, body := performJSON(t, app, "POST", "/api/maintenance", fiber.Map{
		"type":           model.MaintenancePreventive,
		"title":          "Revisión general de instalaciones",
		"scheduled_date": "2026-09-15",
	})

	if status != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
	if body.Success {
		t.Error("success should be false")
	}
	if body.Message != "Debe especificar al menos una institución o infraestructura" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestListMaintenanceRejectsUnknownFilterValues(t *testing.T) {
	h := NewMaintenanceHandler(nil, validation.NewValidator())
	app := testApp(h)

	tests := []struct {
		name   string
		target string
	}{
		{"status", "/api/maintenance?status=pendiente"},
		{"type", "/api/maintenance?type=rutinario"},
		{"priority", "/api/maintenance?priority=urgente"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := performJSON(t, app, "GET", tt.target, nil)
			if status != fiber.StatusBadRequest {
				t.Errorf("status = %d, want 400", status)
			}
			if body.Success {
				t.Error("success should be false")
			}
		})
	}
}

func integrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("set RUN_INTEGRATION_TESTS=true to run maintenance handler integration tests")
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

func TestCompleteMaintenanceStampsToday(t *testing.T) {
	db := integrationDB(t)
	h := NewMaintenanceHandler(db, validation.NewValidator())
	app := testApp(h)

	institution := model.Institution{
		Name:     fmt.Sprintf("Escuela Prueba Completar %d", time.Now().UnixNano()),
		Type:     model.InstitutionSchool,
		Location: "Quito",
		Status:   model.StatusActive,
	}
	if err := db.Create(&institution).Error; err != nil {
		t.Fatalf("create institution: %v", err)
	}
	t.Cleanup(func() { db.Delete(&institution) })

	record := model.MaintenanceRecord{
		InstitutionID: &institution.ID,
		Type:          model.MaintenancePreventive,
		Title:         "Revisión preventiva de tableros",
		ScheduledDate: model.Today().AddMonths(-1),
		Priority:      model.PriorityMedium,
		Status:        model.MaintenanceScheduled,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("create record: %v", err)
	}
	t.Cleanup(func() { db.Delete(&record) })

	status, body := performJSON(t, app, "POST", fmt.Sprintf("/api/maintenance/%d/complete", record.ID), nil)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, body = %+v", status, body)
	}

	var got model.MaintenanceRecord
	if err := db.First(&got, record.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}

	if got.Status != model.MaintenanceCompleted {
		t.Errorf("status = %q, want %q", got.Status, model.MaintenanceCompleted)
	}
	today := model.Today()
	if got.CompletedDate == nil || got.CompletedDate.String() != today.String() {
		t.Errorf("completed_date = %v, want %s", got.CompletedDate, today)
	}
	wantNext := model.NextPreventiveDueDate(today)
	if got.NextDueDate == nil || got.NextDueDate.String() != wantNext.String() {
		t.Errorf("next_due_date = %v, want %s", got.NextDueDate, wantNext)
	}
}
