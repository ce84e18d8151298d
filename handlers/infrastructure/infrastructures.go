package infrastructure

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gmpi-ec/gmpi-backend/model"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
	"github.com/gmpi-ec/gmpi-backend/utils/validation"
)

// InfrastructureHandler handles infrastructure-related requests
type InfrastructureHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewInfrastructureHandler creates a new infrastructure handler
func NewInfrastructureHandler(db *gorm.DB, validator *validation.Validator) *InfrastructureHandler {
	return &InfrastructureHandler{
		db:        db,
		validator: validator,
	}
}

// CreateInfrastructureRequest represents the request body for creating an
// infrastructure.
type CreateInfrastructureRequest struct {
	InstitutionID    uint     `json:"institution_id" validate:"required,gte=1"`
	Name             string   `json:"name" validate:"required,min=1,max=255"`
	Type             string   `json:"type" validate:"required,min=1,max=100"`
	Location         string   `json:"location" validate:"omitempty"`
	Capacity         *int     `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	AreaM2           *float64 `json:"area_m2,omitempty" validate:"omitempty,gte=0"`
	ConstructionYear *int     `json:"construction_year,omitempty" validate:"omitempty,gte=1800"`
	ConditionStatus  string   `json:"condition_status,omitempty" validate:"omitempty,oneof=excellent good fair poor critical"`
	Description      string   `json:"description,omitempty"`
}

// UpdateInfrastructureRequest represents the request body for replacing an
// infrastructure. The owning institution cannot be changed.
type UpdateInfrastructureRequest struct {
	Name             string   `json:"name" validate:"required,min=1,max=255"`
	Type             string   `json:"type" validate:"required,min=1,max=100"`
	Location         string   `json:"location" validate:"omitempty"`
	Capacity         *int     `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	AreaM2           *float64 `json:"area_m2,omitempty" validate:"omitempty,gte=0"`
	ConstructionYear *int     `json:"construction_year,omitempty" validate:"omitempty,gte=1800"`
	ConditionStatus  string   `json:"condition_status,omitempty" validate:"omitempty,oneof=excellent good fair poor critical"`
	Description      string   `json:"description,omitempty"`
}

// InfrastructureRow is an infrastructure joined with its institution's name
// and type.
type InfrastructureRow struct {
	model.Infrastructure
	InstitutionName string `json:"institution_name"`
	InstitutionType string `json:"institution_type"`
}

// InfrastructureDetail is an infrastructure plus its maintenance history.
type InfrastructureDetail struct {
	InfrastructureRow
	MaintenanceHistory []model.MaintenanceRecord `json:"maintenance_history"`
}

// ListInfrastructures handles GET /api/infrastructure
func (h *InfrastructureHandler) ListInfrastructures(c *fiber.Ctx) error {
	status := c.Query("status", model.StatusActive)
	institutionID := c.QueryInt("institution_id", 0)
	infraType := c.Query("type", "")

	query := h.db.Table("infrastructures i").
		Select("i.*, COALESCE(inst.name, '') as institution_name, COALESCE(inst.type, '') as institution_type").
		Joins("LEFT JOIN institutions inst ON i.institution_id = inst.id").
		Where("i.status = ?", status)

	if institutionID > 0 {
		query = query.Where("i.institution_id = ?", institutionID)
	}

	if infraType != "" {
		query = query.Where("i.type = ?", infraType)
	}

	var infrastructures []InfrastructureRow
	if err := query.Order("inst.name ASC, i.name ASC").Scan(&infrastructures).Error; err != nil {
		return response.InternalServerError(c, "Error al obtener las infraestructuras")
	}

	return response.SuccessList(c, infrastructures, len(infrastructures))
}

// GetInfrastructure handles GET /api/infrastructure/:id. As with
// institutions, the direct lookup does not filter by status.
func (h *InfrastructureHandler) GetInfrastructure(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Identificador inválido")
	}

	var detail InfrastructureDetail
	result := h.db.Table("infrastructures i").
		Select("i.*, COALESCE(inst.name, '') as institution_name, COALESCE(inst.type, '') as institution_type").
		Joins("LEFT JOIN institutions inst ON i.institution_id = inst.id").
		Where("i.id = ?", id).
		Scan(&detail.InfrastructureRow)
	if result.Error != nil {
		return response.InternalServerError(c, "Error al obtener la infraestructura")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Infraestructura no encontrada")
	}

	if err := h.db.Where("infrastructure_id = ?", id).
		Order("scheduled_date DESC").
		Find(&detail.MaintenanceHistory).Error; err != nil {
		return response.InternalServerError(c, "Error al obtener la infraestructura")
	}

	return response.Success(c, detail)
}

// CreateInfrastructure handles POST /api/infrastructure
func (h *InfrastructureHandler) CreateInfrastructure(c *fiber.Ctx) error {
	var req CreateInfrastructureRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Type = validation.SanitizeString(req.Type)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatErrors(err))
	}

	if req.ConstructionYear != nil && *req.ConstructionYear > time.Now().Year() {
		return response.ValidationFailed(c, []response.FieldError{
			{Field: "construction_year", Message: "Año de construcción inválido"},
		})
	}

	var institution model.Institution
	if err := h.db.Where("id = ? AND status = ?", req.InstitutionID, model.StatusActive).
		First(&institution).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Institución no encontrada")
		}
		return response.InternalServerError(c, "Error al crear la infraestructura")
	}

	condition := req.ConditionStatus
	if condition == "" {
		condition = model.ConditionGood
	}

	infrastructure := model.Infrastructure{
		InstitutionID:    req.InstitutionID,
		Name:             req.Name,
		Type:             req.Type,
		Location:         req.Location,
		Capacity:         req.Capacity,
		AreaM2:           req.AreaM2,
		ConstructionYear: req.ConstructionYear,
		ConditionStatus:  condition,
		Description:      req.Description,
		Status:           model.StatusActive,
	}

	if err := h.db.Create(&infrastructure).Error; err != nil {
		return response.InternalServerError(c, "Error al crear la infraestructura")
	}

	return response.Created(c, "Infraestructura creada exitosamente", InfrastructureRow{
		Infrastructure:  infrastructure,
		InstitutionName: institution.Name,
		InstitutionType: institution.Type,
	})
}

// UpdateInfrastructure handles PUT /api/infrastructure/:id
func (h *InfrastructureHandler) UpdateInfrastructure(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Identificador inválido")
	}

	var req UpdateInfrastructureRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Type = validation.SanitizeString(req.Type)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatErrors(err))
	}

	var infrastructure model.Infrastructure
	if err := h.db.Where("id = ? AND status = ?", id, model.StatusActive).
		First(&infrastructure).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Infraestructura no encontrada")
		}
		return response.InternalServerError(c, "Error al actualizar la infraestructura")
	}

	updates := map[string]interface{}{
		"name":              req.Name,
		"type":              req.Type,
		"location":          req.Location,
		"capacity":          req.Capacity,
		"area_m2":           req.AreaM2,
		"construction_year": req.ConstructionYear,
		"description":       req.Description,
	}
	if req.ConditionStatus != "" {
		updates["condition_status"] = req.ConditionStatus
	}

	if err := h.db.Model(&infrastructure).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Error al actualizar la infraestructura")
	}

	var detail InfrastructureRow
	if err := h.db.Table("infrastructures i").
		Select("i.*, COALESCE(inst.name, '') as institution_name, COALESCE(inst.type, '') as institution_type").
		Joins("LEFT JOIN institutions inst ON i.institution_id = inst.id").
		Where("i.id = ?", id).
		Scan(&detail).Error; err != nil {
		return response.InternalServerError(c, "Error al actualizar la infraestructura")
	}

	return response.SuccessWithMessage(c, "Infraestructura actualizada exitosamente", detail)
}

// DeleteInfrastructure handles DELETE /api/infrastructure/:id with the same
// status-flip semantics as institutions.
func (h *InfrastructureHandler) DeleteInfrastructure(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Identificador inválido")
	}

	var infrastructure model.Infrastructure
	if err := h.db.Where("id = ? AND status = ?", id, model.StatusActive).
		First(&infrastructure).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Infraestructura no encontrada")
		}
		return response.InternalServerError(c, "Error al eliminar la infraestructura")
	}

	if err := h.db.Model(&infrastructure).Update("status", model.StatusDeleted).Error; err != nil {
		return response.InternalServerError(c, "Error al eliminar la infraestructura")
	}

	return response.SuccessWithMessage(c, "Infraestructura eliminada exitosamente", nil)
}
