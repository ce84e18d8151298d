package maintenance

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gmpi-ec/gmpi-backend/model"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
	"github.com/gmpi-ec/gmpi-backend/utils/validation"
)

// MaintenanceHandler handles maintenance-record requests
type MaintenanceHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(db *gorm.DB, validator *validation.Validator) *MaintenanceHandler {
	return &MaintenanceHandler{
		db:        db,
		validator: validator,
	}
}

// CreateMaintenanceRequest represents the request body for scheduling a
// maintenance record. At least one of institution_id/infrastructure_id is
// required; a record referencing only an infrastructure inherits its
// owning institution.
type CreateMaintenanceRequest struct {
	InstitutionID    *uint    `json:"institution_id,omitempty" validate:"omitempty,gte=1"`
	InfrastructureID *uint    `json:"infrastructure_id,omitempty" validate:"omitempty,gte=1"`
	Type             string   `json:"type" validate:"required,oneof=preventivo correctivo predictivo emergencia"`
	Title            string   `json:"title" validate:"required,min=1,max=255"`
	Description      string   `json:"description,omitempty"`
	ScheduledDate    string   `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	Priority         string   `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Contractor       string   `json:"contractor,omitempty" validate:"omitempty,max=255"`
	Cost             *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
	Notes            string   `json:"notes,omitempty"`
}

// UpdateMaintenanceRequest represents a partial update. Only the fields
// present in the body change; pointer fields distinguish absent from zero.
// Unknown fields are ignored rather than written through to the database.
type UpdateMaintenanceRequest struct {
	Type          *string  `json:"type,omitempty" validate:"omitempty,oneof=preventivo correctivo predictivo emergencia"`
	Title         *string  `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description   *string  `json:"description,omitempty"`
	ScheduledDate *string  `json:"scheduled_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CompletedDate *string  `json:"completed_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	NextDueDate   *string  `json:"next_due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Priority      *string  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Status        *string  `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled overdue"`
	Contractor    *string  `json:"contractor,omitempty" validate:"omitempty,max=255"`
	Cost          *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
	Notes         *string  `json:"notes,omitempty"`
}

// CompleteMaintenanceRequest represents the body of the completion shortcut.
type CompleteMaintenanceRequest struct {
	Notes      *string  `json:"notes,omitempty"`
	ActualCost *float64 `json:"actual_cost,omitempty" validate:"omitempty,gte=0"`
}

// MaintenanceRow is a record joined with the names of its institution and
// infrastructure.
type MaintenanceRow struct {
	model.MaintenanceRecord
	InstitutionName    string `json:"institution_name"`
	InfrastructureName string `json:"infrastructure_name"`
}

// MaintenanceDetail adds the types of both parents for the single-record view.
type MaintenanceDetail struct {
	MaintenanceRow
	InstitutionType    string `json:"institution_type"`
	InfrastructureType string `json:"infrastructure_type"`
	Overdue            bool   `json:"is_overdue"`
}

func (h *MaintenanceHandler) joined() *gorm.DB {
	return h.db.Table("maintenance_records m").
		Joins("LEFT JOIN institutions i ON m.institution_id = i.id").
		Joins("LEFT JOIN infrastructures inf ON m.infrastructure_id = inf.id")
}

func (h *MaintenanceHandler) fetchRow(id int) (*MaintenanceRow, error) {
	var row MaintenanceRow
	result := h.joined().
		Select("m.*, COALESCE(i.name, '') as institution_name, COALESCE(inf.name, '') as infrastructure_name").
		Where("m.id = ?", id).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// ListMaintenance handles GET /api/maintenance
func (h *MaintenanceHandler) ListMaintenance(c *fiber.Ctx) error {
	status := c.Query("status")
	mType := c.Query("type")
	priority := c.Query("priority")

	if status != "" && !model.ValidMaintenanceStatus(status) {
		return response.BadRequest(c, "Estado de mantenimiento inválido")
	}
	if mType != "" && !model.ValidMaintenanceType(mType) {
		return response.BadRequest(c, "Tipo de mantenimiento inválido")
	}
	if priority != "" && !model.ValidPriority(priority) {
		return response.BadRequest(c, "Prioridad inválida")
	}

	query := h.joined().
		Select("m.*, COALESCE(i.name, '') as institution_name, COALESCE(inf.name, '') as infrastructure_name")

	if id := c.QueryInt("institution_id", 0); id > 0 {
		query = query.Where("m.institution_id = ?", id)
	}
	if id := c.QueryInt("infrastructure_id", 0); id > 0 {
		query = query.Where("m.infrastructure_id = ?", id)
	}
	if status != "" {
		query = query.Where("m.status = ?", status)
	}
	if mType != "" {
		query = query.Where("m.type = ?", mType)
	}
	if priority != "" {
		query = query.Where("m.priority = ?", priority)
	}
	if startDate := c.Query("start_date"); startDate != "" {
		query = query.Where("m.scheduled_date >= ?", startDate)
	}
	if endDate := c.Query("end_date"); endDate != "" {
		query = query.Where("m.scheduled_date <= ?", endDate)
	}
	if c.Query("overdue") == "true" {
		query = query.Where("m.scheduled_date < CURRENT_DATE AND m.status = ?", model.MaintenanceScheduled)
	}

	var records []MaintenanceRow
	if err := query.Order("m.scheduled_date DESC").Scan(&records).Error; err != nil {
		return response.InternalServerError(c, "Error al obtener los mantenimientos")
	}

	return response.SuccessList(c, records, len(records))
}

// GetMaintenance handles GET /api/maintenance/:id
func (h *MaintenanceHandler) GetMaintenance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Identificador inválido")
	}

	var detail MaintenanceDetail
	result := h.joined().
		Select("m.*, "+
			"COALESCE(i.name, '') as institution_name, COALESCE(i.type, '') as institution_type, "+
			"COALESCE(inf.name, '') as infrastructure_name, COALESCE(inf.type, '') as infrastructure_type").
		Where("m.id = ?", id).
		Scan(&detail)
	if result.Error != nil {
		return response.InternalServerError(c, "Error al obtener el mantenimiento")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Mantenimiento no encontrado")
	}

	detail.Overdue = detail.IsOverdue(model.Today())

	return response.Success(c, detail)
}

// CreateMaintenance handles POST /api/maintenance
func (h *MaintenanceHandler) CreateMaintenance(c *fiber.Ctx) error {
	var req CreateMaintenanceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	req.Title = validation.SanitizeString(req.Title)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatErrors(err))
	}

	if req.InstitutionID == nil && req.InfrastructureID == nil {
		return response.BadRequest(c, "Debe especificar al menos una institución o infraestructura")
	}

	scheduledDate, err := model.ParseDate(req.ScheduledDate)
	if err != nil {
		return response.BadRequest(c, "Fecha programada inválida")
	}

	institutionID := req.InstitutionID
	if req.InfrastructureID != nil {
		var infrastructure model.Infrastructure
		if err := h.db.First(&infrastructure, *req.InfrastructureID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NotFound(c, "Infraestructura no encontrada")
			}
			return response.InternalServerError(c, "Error al crear el mantenimiento")
		}
		if institutionID == nil {
			institutionID = &infrastructure.InstitutionID
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	record := model.MaintenanceRecord{
		InstitutionID:    institutionID,
		InfrastructureID: req.InfrastructureID,
		Type:             req.Type,
		Title:            req.Title,
		Description:      req.Description,
		ScheduledDate:    scheduledDate,
		Priority:         priority,
		Status:           model.MaintenanceScheduled,
		Contractor:       req.Contractor,
		Cost:             req.Cost,
		Notes:            req.Notes,
	}

	if req.Type == model.MaintenancePreventive {
		next := model.NextPreventiveDueDate(scheduledDate)
		record.NextDueDate = &next
	}

	if err := h.db.Create(&record).Error; err != nil {
		return response.InternalServerError(c, "Error al crear el mantenimiento")
	}

	row, err := h.fetchRow(int(record.ID))
	if err != nil {
		return response.InternalServerError(c, "Error al crear el mantenimiento")
	}

	return response.Created(c, "Mantenimiento creado exitosamente", row)
}

// UpdateMaintenance handles PUT /api/maintenance/:id. Each updatable field
// maps to one known column; nothing else in the body reaches the database.
func (h *MaintenanceHandler) UpdateMaintenance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Identificador inválido")
	}

	var req UpdateMaintenanceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatErrors(err))
	}

	var record model.MaintenanceRecord
	if err := h.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Mantenimiento no encontrado")
		}
		return response.InternalServerError(c, "Error al actualizar el mantenimiento")
	}

	updates := map[string]interface{}{}

	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Title != nil {
		updates["title"] = validation.SanitizeString(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ScheduledDate != nil {
		date, err := model.ParseDate(*req.ScheduledDate)
		if err != nil {
			return response.BadRequest(c, "Fecha programada inválida")
		}
		updates["scheduled_date"] = date
	}
	if req.CompletedDate != nil {
		date, err := model.ParseDate(*req.CompletedDate)
		if err != nil {
			return response.BadRequest(c, "Fecha de completado inválida")
		}
		updates["completed_date"] = date
	}
	if req.NextDueDate != nil {
		date, err := model.ParseDate(*req.NextDueDate)
		if err != nil {
			return response.BadRequest(c, "Próxima fecha de mantenimiento inválida")
		}
		updates["next_due_date"] = date
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Status != nil {
		updates["status"] = *req.Status
		if *req.Status == model.MaintenanceCompleted && req.CompletedDate == nil {
			updates["completed_date"] = model.Today()
		}
	}
	if req.Contractor != nil {
		updates["contractor"] = *req.Contractor
	}
	if req.Cost != nil {
		updates["cost"] = *req.Cost
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) == 0 {
		return response.BadRequest(c, "No hay campos para actualizar")
	}

	if err := h.db.Model(&record).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Error al actualizar el mantenimiento")
	}

	row, err := h.fetchRow(id)
	if err != nil {
		return response.InternalServerError(c, "Error al actualizar el mantenimiento")
	}

	return response.SuccessWithMessage(c, "Mantenimiento actualizado exitosamente", row)
}

// DeleteMaintenance handles DELETE /api/maintenance/:id. Unlike
// institutions and infrastructures, maintenance rows are removed for real.
func (h *MaintenanceHandler) DeleteMaintenance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Identificador inválido")
	}

	var record model.MaintenanceRecord
	if err := h.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Mantenimiento no encontrado")
		}
		return response.InternalServerError(c, "Error al eliminar el mantenimiento")
	}

	if err := h.db.Delete(&record).Error; err != nil {
		return response.InternalServerError(c, "Error al eliminar el mantenimiento")
	}

	return response.SuccessWithMessage(c, "Mantenimiento eliminado exitosamente", nil)
}

// CompleteMaintenance handles POST /api/maintenance/:id/complete. For
// preventive records the next due date restarts from today, not from the
// originally scheduled date.
func (h *MaintenanceHandler) CompleteMaintenance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Identificador inválido")
	}

	var req CompleteMaintenanceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Cuerpo de la petición inválido")
		}
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatErrors(err))
	}

	var record model.MaintenanceRecord
	if err := h.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Mantenimiento no encontrado")
		}
		return response.InternalServerError(c, "Error al completar el mantenimiento")
	}

	today := model.Today()
	updates := map[string]interface{}{
		"status":         model.MaintenanceCompleted,
		"completed_date": today,
	}

	if record.Type == model.MaintenancePreventive {
		updates["next_due_date"] = model.NextPreventiveDueDate(today)
	} else {
		updates["next_due_date"] = nil
	}

	if req.ActualCost != nil {
		updates["cost"] = *req.ActualCost
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if err := h.db.Model(&record).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Error al completar el mantenimiento")
	}

	row, err := h.fetchRow(id)
	if err != nil {
		return response.InternalServerError(c, "Error al completar el mantenimiento")
	}

	return response.SuccessWithMessage(c, "Mantenimiento marcado como completado", row)
}

// DashboardOverview is the headline block of the maintenance dashboard.
type DashboardOverview struct {
	Total      int64   `json:"total"`
	Scheduled  int64   `json:"scheduled"`
	InProgress int64   `json:"in_progress"`
	Completed  int64   `json:"completed"`
	Overdue    int64   `json:"overdue"`
	AvgCost    float64 `json:"avg_cost"`
	TotalCost  float64 `json:"total_cost"`
}

// CountByKey is a generic label/count pair for dashboard groupings.
type CountByKey struct {
	Priority string `json:"priority,omitempty"`
	Type     string `json:"type,omitempty"`
	Count    int64  `json:"count"`
}

// DashboardStats is the payload of GET /api/maintenance/stats/dashboard.
type DashboardStats struct {
	Overview   DashboardOverview `json:"overview"`
	ByPriority []CountByKey      `json:"by_priority"`
	ByType     []CountByKey      `json:"by_type"`
	Upcoming   []MaintenanceRow  `json:"upcoming"`
}

// GetDashboardStats handles GET /api/maintenance/stats/dashboard
func (h *MaintenanceHandler) GetDashboardStats(c *fiber.Ctx) error {
	var stats DashboardStats

	if err := h.db.Model(&model.MaintenanceRecord{}).
		Select("COUNT(*) as total, " +
			"COUNT(CASE WHEN status = 'scheduled' THEN 1 END) as scheduled, " +
			"COUNT(CASE WHEN status = 'in_progress' THEN 1 END) as in_progress, " +
			"COUNT(CASE WHEN status = 'completed' THEN 1 END) as completed, " +
			"COUNT(CASE WHEN status = 'overdue' OR (status = 'scheduled' AND scheduled_date < CURRENT_DATE) THEN 1 END) as overdue, " +
			"COALESCE(AVG(cost), 0) as avg_cost, " +
			"COALESCE(SUM(cost), 0) as total_cost").
		Scan(&stats.Overview).Error; err != nil {
		return response.InternalServerError(c, "Error al obtener las estadísticas")
	}

	if err := h.db.Model(&model.MaintenanceRecord{}).
		Select("priority, COUNT(*) as count").
		Where("status IN ?", []string{model.MaintenanceScheduled, model.MaintenanceInProgress}).
		Group("priority").
		Scan(&stats.ByPriority).Error; err != nil {
		return response.InternalServerError(c, "Error al obtener las estadísticas")
	}

	if err := h.db.Model(&model.MaintenanceRecord{}).
		Select("type, COUNT(*) as count").
		Group("type").
		Scan(&stats.ByType).Error; err != nil {
		return response.InternalServerError(c, "Error al obtener las estadísticas")
	}

	if err := h.db.Table("maintenance_records m").
		Select("m.*, COALESCE(i.name, '') as institution_name, '' as infrastructure_name").
		Joins("LEFT JOIN institutions i ON m.institution_id = i.id").
		Where("m.status = ?", model.MaintenanceScheduled).
		Where("m.scheduled_date <= CURRENT_DATE + 7").
		Order("m.scheduled_date ASC").
		Limit(5).
		Scan(&stats.Upcoming).Error; err != nil {
		return response.InternalServerError(c, "Error al obtener las estadísticas")
	}

	return response.Success(c, stats)
}
