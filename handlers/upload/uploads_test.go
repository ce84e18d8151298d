package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gmpi-ec/gmpi-backend/database"
	"github.com/gmpi-ec/gmpi-backend/model"
	"github.com/gmpi-ec/gmpi-backend/utils/filevalidation"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
	"github.com/gmpi-ec/gmpi-backend/utils/storage"
)

func integrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("set RUN_INTEGRATION_TESTS=true to run upload handler integration tests")
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

// A rejected file type must leave neither a metadata row nor a file on disk.
func TestUploadDisallowedMimeLeavesNoTrace(t *testing.T) {
	db := integrationDB(t)

	localStore, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	h := NewUploadHandler(db, localStore, filevalidation.Config{
		AllowedTypes: []string{"image/png", "application/pdf"},
		MaxSize:      1 << 20,
	})

	app := fiber.New()
	app.Post("/api/upload", h.UploadFile)

	institution := model.Institution{
		Name:     fmt.Sprintf("Instituto Prueba Adjuntos %d", time.Now().UnixNano()),
		Type:     model.InstitutionInstitute,
		Location: "Cuenca",
		Status:   model.StatusActive,
	}
	if err := db.Create(&institution).Error; err != nil {
		t.Fatalf("create institution: %v", err)
	}
	t.Cleanup(func() { db.Delete(&institution) })

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("related_table", model.RelatedInstitutions); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	if err := w.WriteField("related_id", strconv.Itoa(int(institution.ID))); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="programa.exe"`)
	hdr.Set("Content-Type", "application/octet-stream")
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write([]byte("MZ\x90\x00")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var parsed response.Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if parsed.Success {
		t.Error("success should be false")
	}

	var rows int64
	err = db.Model(&model.Attachment{}).
		Where("related_table = ? AND related_id = ?", model.RelatedInstitutions, institution.ID).
		Count(&rows).Error
	if err != nil {
		t.Fatalf("count attachments: %v", err)
	}
	if rows != 0 {
		t.Errorf("attachments = %d, want 0: rejected uploads must not write metadata", rows)
	}

	entries, err := os.ReadDir(localStore.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("stored files = %d, want 0", len(entries))
	}
}
