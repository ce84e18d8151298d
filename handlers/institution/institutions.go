package institution

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gmpi-ec/gmpi-backend/model"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
	"github.com/gmpi-ec/gmpi-backend/utils/validation"
)

// InstitutionHandler handles institution-related requests
type InstitutionHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewInstitutionHandler creates a new institution handler
func NewInstitutionHandler(db *gorm.DB, validator *validation.Validator) *InstitutionHandler {
	return &InstitutionHandler{
		db:        db,
		validator: validator,
	}
}

// InstitutionRequest represents the request body for creating or replacing
// an institution. Updates are full replacements, matching PUT semantics.
type InstitutionRequest struct {
	Name              string `json:"name" validate:"required,min=1,max=255"`
	Type              string `json:"type" validate:"required,oneof=universidad colegio escuela instituto"`
	Acronym           string `json:"acronym" validate:"omitempty,max=20"`
	Location          string `json:"location" validate:"required,min=1"`
	Address           string `json:"address" validate:"omitempty"`
	Phone             string `json:"phone" validate:"omitempty,max=20"`
	Email             string `json:"email" validate:"omitempty,email,max=100"`
	Website           string `json:"website" validate:"omitempty,url,max=255"`
	BuildingsCount    int    `json:"buildings_count" validate:"gte=0"`
	ClassroomsCount   int    `json:"classrooms_count" validate:"gte=0"`
	LaboratoriesCount int    `json:"laboratories_count" validate:"gte=0"`
}

// MaintenanceStats is the maintenance rollup attached to each institution
// in list responses.
type MaintenanceStats struct {
	TotalMaintenance     int64       `json:"total_maintenance"`
	PendingMaintenance   int64       `json:"pending_maintenance"`
	CompletedMaintenance int64       `json:"completed_maintenance"`
	LastMaintenance      *model.Date `json:"last_maintenance"`
	NextMaintenance      *model.Date `json:"next_maintenance"`
}

// InstitutionWithStats is an institution plus its maintenance rollup.
type InstitutionWithStats struct {
	model.Institution
	MaintenanceStats MaintenanceStats `json:"maintenance_stats"`
}

// InstitutionDetail is an institution plus its active infrastructures and
// recent maintenance history.
type InstitutionDetail struct {
	model.Institution
	Infrastructures    []model.Infrastructure    `json:"infrastructures"`
	MaintenanceHistory []model.MaintenanceRecord `json:"maintenance_history"`
}

// ListInstitutions handles GET /api/institutions
func (h *InstitutionHandler) ListInstitutions(c *fiber.Ctx) error {
	status := c.Query("status", model.StatusActive)
	institutionType := c.Query("type", "")
	search := c.Query("search", "")

	if institutionType != "" && !model.ValidInstitutionType(institutionType) {
		return response.BadRequest(c, "Tipo de institución inválido")
	}

	query := h.db.Model(&model.Institution{}).Where("status = ?", status)

	if institutionType != "" {
		query = query.Where("type = ?", institutionType)
	}

	if search != "" {
		term := "%" + search + "%"
		query = query.Where("name ILIKE ? OR location ILIKE ? OR acronym ILIKE ?", term, term, term)
	}

	var institutions []model.Institution
	if err := query.Order("name ASC").Find(&institutions).Error; err != nil {
		return response.InternalServerError(c, "Error al obtener las instituciones")
	}

	result := make([]InstitutionWithStats, 0, len(institutions))
	for _, inst := range institutions {
		stats, err := h.maintenanceStats(inst.ID)
		if err != nil {
			return response.InternalServerError(c, "Error al obtener las instituciones")
		}
		result = append(result, InstitutionWithStats{Institution: inst, MaintenanceStats: *stats})
	}

	return response.SuccessList(c, result, len(result))
}

func (h *InstitutionHandler) maintenanceStats(institutionID uint) (*MaintenanceStats, error) {
	var stats MaintenanceStats
	err := h.db.Model(&model.MaintenanceRecord{}).
		Select("COUNT(*) as total_maintenance, " +
			"COUNT(CASE WHEN status = 'scheduled' THEN 1 END) as pending_maintenance, " +
			"COUNT(CASE WHEN status = 'completed' THEN 1 END) as completed_maintenance, " +
			"MAX(completed_date) as last_maintenance, " +
			"MIN(CASE WHEN status = 'scheduled' THEN scheduled_date END) as next_maintenance").
		Where("institution_id = ?", institutionID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetInstitution handles GET /api/institutions/:id. The lookup is by id
// alone so soft-deleted rows stay reachable by direct reference.
func (h *InstitutionHandler) GetInstitution(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Identificador inválido")
	}

	var institution model.Institution
	if err := h.db.First(&institution, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Institución no encontrada")
		}
		return response.InternalServerError(c, "Error al obtener la institución")
	}

	detail := InstitutionDetail{Institution: institution}

	if err := h.db.Where("institution_id = ? AND status = ?", id, model.StatusActive).
		Find(&detail.Infrastructures).Error; err != nil {
		return response.InternalServerError(c, "Error al obtener la institución")
	}

	if err := h.db.Where("institution_id = ?", id).
		Order("scheduled_date DESC").
		Limit(10).
		Find(&detail.MaintenanceHistory).Error; err != nil {
		return response.InternalServerError(c, "Error al obtener la institución")
	}

	return response.Success(c, detail)
}

// CreateInstitution handles POST /api/institutions
func (h *InstitutionHandler) CreateInstitution(c *fiber.Ctx) error {
	var req InstitutionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Location = validation.SanitizeString(req.Location)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatErrors(err))
	}

	var existing model.Institution
	err := h.db.Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		return response.Conflict(c, "Ya existe una institución con ese nombre")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "Error al crear la institución")
	}

	institution := model.Institution{
		Name:              req.Name,
		Type:              req.Type,
		Acronym:           req.Acronym,
		Location:          req.Location,
		Address:           req.Address,
		Phone:             req.Phone,
		Email:             req.Email,
		Website:           req.Website,
		BuildingsCount:    req.BuildingsCount,
		ClassroomsCount:   req.ClassroomsCount,
		LaboratoriesCount: req.LaboratoriesCount,
		TotalCapacity:     model.TotalCapacityFor(req.ClassroomsCount, req.LaboratoriesCount),
		Status:            model.StatusActive,
	}

	if err := h.db.Create(&institution).Error; err != nil {
		return response.InternalServerError(c, "Error al crear la institución")
	}

	return response.Created(c, "Institución creada exitosamente", institution)
}

// UpdateInstitution handles PUT /api/institutions/:id
func (h *InstitutionHandler) UpdateInstitution(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Identificador inválido")
	}

	var req InstitutionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Location = validation.SanitizeString(req.Location)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatErrors(err))
	}

	var institution model.Institution
	if err := h.db.Where("id = ? AND status = ?", id, model.StatusActive).
		First(&institution).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Institución no encontrada")
		}
		return response.InternalServerError(c, "Error al actualizar la institución")
	}

	updates := map[string]interface{}{
		"name":               req.Name,
		"type":               req.Type,
		"acronym":            req.Acronym,
		"location":           req.Location,
		"address":            req.Address,
		"phone":              req.Phone,
		"email":              req.Email,
		"website":            req.Website,
		"buildings_count":    req.BuildingsCount,
		"classrooms_count":   req.ClassroomsCount,
		"laboratories_count": req.LaboratoriesCount,
		"total_capacity":     model.TotalCapacityFor(req.ClassroomsCount, req.LaboratoriesCount),
	}

	if err := h.db.Model(&institution).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Error al actualizar la institución")
	}

	if err := h.db.First(&institution, id).Error; err != nil {
		return response.InternalServerError(c, "Error al actualizar la institución")
	}

	return response.SuccessWithMessage(c, "Institución actualizada exitosamente", institution)
}

// DeleteInstitution handles DELETE /api/institutions/:id. Deletion is a
// status flip; the row and its history remain in place.
func (h *InstitutionHandler) DeleteInstitution(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Identificador inválido")
	}

	var institution model.Institution
	if err := h.db.Where("id = ? AND status = ?", id, model.StatusActive).
		First(&institution).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Institución no encontrada")
		}
		return response.InternalServerError(c, "Error al eliminar la institución")
	}

	if err := h.db.Model(&institution).Update("status", model.StatusDeleted).Error; err != nil {
		return response.InternalServerError(c, "Error al eliminar la institución")
	}

	return response.SuccessWithMessage(c, "Institución eliminada exitosamente", nil)
}

// SummaryStats is the payload of GET /api/institutions/stats/summary.
type SummaryStats struct {
	Institutions InstitutionSummary `json:"institutions"`
	Maintenance  MaintenanceSummary `json:"maintenance"`
}

// InstitutionSummary aggregates the active institutions.
type InstitutionSummary struct {
	TotalInstitutions int64 `json:"total_institutions"`
	Universities      int64 `json:"universities"`
	Colleges          int64 `json:"colleges"`
	Schools           int64 `json:"schools"`
	Institutes        int64 `json:"institutes"`
	TotalBuildings    int64 `json:"total_buildings"`
	TotalClassrooms   int64 `json:"total_classrooms"`
	TotalLaboratories int64 `json:"total_laboratories"`
	TotalCapacity     int64 `json:"total_capacity"`
}

// MaintenanceSummary aggregates all maintenance records.
type MaintenanceSummary struct {
	TotalMaintenance     int64 `json:"total_maintenance"`
	PendingMaintenance   int64 `json:"pending_maintenance"`
	CompletedMaintenance int64 `json:"completed_maintenance"`
	OverdueMaintenance   int64 `json:"overdue_maintenance"`
}

// GetSummaryStats handles GET /api/institutions/stats/summary
func (h *InstitutionHandler) GetSummaryStats(c *fiber.Ctx) error {
	var stats SummaryStats

	if err := h.db.Model(&model.Institution{}).
		Select("COUNT(*) as total_institutions, "+
			"COUNT(CASE WHEN type = 'universidad' THEN 1 END) as universities, "+
			"COUNT(CASE WHEN type = 'colegio' THEN 1 END) as colleges, "+
			"COUNT(CASE WHEN type = 'escuela' THEN 1 END) as schools, "+
			"COUNT(CASE WHEN type = 'instituto' THEN 1 END) as institutes, "+
			"COALESCE(SUM(buildings_count), 0) as total_buildings, "+
			"COALESCE(SUM(classrooms_count), 0) as total_classrooms, "+
			"COALESCE(SUM(laboratories_count), 0) as total_laboratories, "+
			"COALESCE(SUM(total_capacity), 0) as total_capacity").
		Where("status = ?", model.StatusActive).
		Scan(&stats.Institutions).Error; err != nil {
		return response.InternalServerError(c, "Error al obtener las estadísticas")
	}

	if err := h.db.Model(&model.MaintenanceRecord{}).
		Select("COUNT(*) as total_maintenance, " +
			"COUNT(CASE WHEN status = 'scheduled' THEN 1 END) as pending_maintenance, " +
			"COUNT(CASE WHEN status = 'completed' THEN 1 END) as completed_maintenance, " +
			"COUNT(CASE WHEN status = 'overdue' THEN 1 END) as overdue_maintenance").
		Scan(&stats.Maintenance).Error; err != nil {
		return response.InternalServerError(c, "Error al obtener las estadísticas")
	}

	return response.Success(c, stats)
}
