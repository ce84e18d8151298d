package upload

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gmpi-ec/gmpi-backend/model"
	"github.com/gmpi-ec/gmpi-backend/utils/filevalidation"
	"github.com/gmpi-ec/gmpi-backend/utils/middleware"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
	"github.com/gmpi-ec/gmpi-backend/utils/storage"
)

const maxFilesPerUpload = 10

// UploadHandler handles file uploads and attachment metadata
type UploadHandler struct {
	db      *gorm.DB
	store   *storage.LocalStore
	fileCfg filevalidation.Config
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(db *gorm.DB, store *storage.LocalStore, fileCfg filevalidation.Config) *UploadHandler {
	return &UploadHandler{
		db:      db,
		store:   store,
		fileCfg: fileCfg,
	}
}

// AttachmentResponse represents an uploaded file in responses.
type AttachmentResponse struct {
	ID           uint      `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	FileSize     int64     `json:"file_size"`
	UploadedAt   time.Time `json:"uploaded_at,omitempty"`
	URL          string    `json:"url"`
	DownloadURL  string    `json:"download_url,omitempty"`
}

func attachmentResponse(a *model.Attachment, withDates bool) AttachmentResponse {
	res := AttachmentResponse{
		ID:           a.ID,
		Filename:     a.Filename,
		OriginalName: a.OriginalName,
		MimeType:     a.MimeType,
		FileSize:     a.FileSize,
		URL:          "/api/upload/files/" + a.Filename,
	}
	if withDates {
		res.UploadedAt = a.UploadedAt
		res.DownloadURL = res.URL + "?download=true"
	}
	return res
}

// relatedRowExists checks that the referenced entity row is real before an
// attachment may point at it.
func (h *UploadHandler) relatedRowExists(table string, id uint) (bool, error) {
	var count int64
	if err := h.db.Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (h *UploadHandler) saveFile(c *fiber.Ctx, fh *multipart.FileHeader, relatedTable string, relatedID uint, userID *uint) (*model.Attachment, error) {
	if err := filevalidation.CheckFile(fh, h.fileCfg); err != nil {
		return nil, err
	}

	storedName := h.store.StoredName(fh.Filename)
	filePath := h.store.PathFor(storedName)

	if err := c.SaveFile(fh, filePath); err != nil {
		return nil, err
	}

	attachment := model.Attachment{
		RelatedTable: relatedTable,
		RelatedID:    relatedID,
		Filename:     storedName,
		OriginalName: fh.Filename,
		FilePath:     filePath,
		MimeType:     fh.Header.Get("Content-Type"),
		FileSize:     fh.Size,
		UploadedBy:   userID,
	}

	if err := h.db.Create(&attachment).Error; err != nil {
		// keep file and metadata lifecycles coupled
		h.store.Remove(storedName)
		return nil, err
	}

	return &attachment, nil
}

func (h *UploadHandler) parseRelated(c *fiber.Ctx) (string, uint, error) {
	relatedTable := c.FormValue("related_table")

	var id uint
	if _, err := fmt.Sscanf(c.FormValue("related_id"), "%d", &id); err != nil || relatedTable == "" || id == 0 {
		return "", 0, errors.New("related_table y related_id son requeridos")
	}

	if !model.ValidRelatedTable(relatedTable) {
		return "", 0, errors.New("Tabla relacionada inválida")
	}

	exists, err := h.relatedRowExists(relatedTable, id)
	if err != nil {
		return "", 0, err
	}
	if !exists {
		return "", 0, errors.New("El registro relacionado no existe")
	}

	return relatedTable, id, nil
}

// UploadFile handles POST /api/upload
func (h *UploadHandler) UploadFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "No se proporcionó ningún archivo")
	}

	relatedTable, relatedID, err := h.parseRelated(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var userID *uint
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	attachment, err := h.saveFile(c, fh, relatedTable, relatedID, userID)
	if err != nil {
		var checkErr *filevalidation.CheckError
		if errors.As(err, &checkErr) {
			return response.BadRequest(c, checkErr.Message)
		}
		return response.InternalServerError(c, "Error al subir el archivo")
	}

	return response.Created(c, "Archivo subido exitosamente", attachmentResponse(attachment, false))
}

// UploadMultiple handles POST /api/upload/multiple
func (h *UploadHandler) UploadMultiple(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "No se proporcionaron archivos")
	}

	files := form.File["files"]
	if len(files) == 0 {
		return response.BadRequest(c, "No se proporcionaron archivos")
	}
	if len(files) > maxFilesPerUpload {
		return response.BadRequest(c, "Demasiados archivos en una sola petición")
	}

	relatedTable, relatedID, err := h.parseRelated(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var userID *uint
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	uploaded := make([]AttachmentResponse, 0, len(files))
	for _, fh := range files {
		attachment, err := h.saveFile(c, fh, relatedTable, relatedID, userID)
		if err != nil {
			var checkErr *filevalidation.CheckError
			if errors.As(err, &checkErr) {
				return response.BadRequest(c, checkErr.Message)
			}
			return response.InternalServerError(c, "Error al subir los archivos")
		}
		uploaded = append(uploaded, attachmentResponse(attachment, false))
	}

	return response.Created(c, fmt.Sprintf("%d archivos subidos exitosamente", len(uploaded)), uploaded)
}

// ServeFile handles GET /api/upload/files/:filename. Lookup goes through
// the metadata row so only registered files are served.
func (h *UploadHandler) ServeFile(c *fiber.Ctx) error {
	filename := c.Params("filename")

	var attachment model.Attachment
	if err := h.db.Where("filename = ?", filename).First(&attachment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Archivo no encontrado")
		}
		return response.InternalServerError(c, "Error al descargar el archivo")
	}

	if !h.store.Exists(attachment.Filename) {
		return response.NotFound(c, "Archivo no encontrado en el sistema")
	}

	disposition := "inline"
	if c.Query("download") == "true" {
		disposition = "attachment"
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`%s; filename="%s"`, disposition, attachment.OriginalName))
	if attachment.MimeType != "" {
		c.Set(fiber.HeaderContentType, attachment.MimeType)
	}

	return c.SendFile(h.store.PathFor(attachment.Filename))
}

// ListAttachments handles GET /api/upload/attachments/:table/:id
func (h *UploadHandler) ListAttachments(c *fiber.Ctx) error {
	table := c.Params("table")
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Identificador inválido")
	}

	if !model.ValidRelatedTable(table) {
		return response.BadRequest(c, "Tabla relacionada inválida")
	}

	var attachments []model.Attachment
	if err := h.db.Where("related_table = ? AND related_id = ?", table, id).
		Order("uploaded_at DESC").
		Find(&attachments).Error; err != nil {
		return response.InternalServerError(c, "Error al obtener los archivos adjuntos")
	}

	result := make([]AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		result = append(result, attachmentResponse(&attachments[i], true))
	}

	return response.SuccessList(c, result, len(result))
}

// DeleteAttachment handles DELETE /api/upload/attachments/:id. The file on
// disk and the metadata row go together.
func (h *UploadHandler) DeleteAttachment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Identificador inválido")
	}

	var attachment model.Attachment
	if err := h.db.First(&attachment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Archivo no encontrado")
		}
		return response.InternalServerError(c, "Error al eliminar el archivo")
	}

	if err := h.store.Remove(attachment.Filename); err != nil {
		return response.InternalServerError(c, "Error al eliminar el archivo")
	}

	if err := h.db.Delete(&attachment).Error; err != nil {
		return response.InternalServerError(c, "Error al eliminar el archivo")
	}

	return response.SuccessWithMessage(c, "Archivo eliminado exitosamente", nil)
}
