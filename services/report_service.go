package services

import (
	"context"
	"fmt"

	"github.com/gmpi-ec/gmpi-backend/model"
	"gorm.io/gorm"
)

// ReportService builds the aggregated reports exposed under /api/reports.
// Every figure is computed from the live tables at request time.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new report service.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{
		db: db,
	}
}

// GeneralStats represents the dashboard headline counters.
type GeneralStats struct {
	TotalInstitutions    int64 `json:"total_institutions"`
	TotalInfrastructures int64 `json:"total_infrastructures"`
	TotalMaintenance     int64 `json:"total_maintenance"`
	PendingMaintenance   int64 `json:"pending_maintenance"`
	CompletedMaintenance int64 `json:"completed_maintenance"`
	OverdueMaintenance   int64 `json:"overdue_maintenance"`
}

// InstitutionTypeStats aggregates active institutions by type.
type InstitutionTypeStats struct {
	Type              string `json:"type"`
	Count             int64  `json:"count"`
	TotalBuildings    int64  `json:"total_buildings"`
	TotalClassrooms   int64  `json:"total_classrooms"`
	TotalLaboratories int64  `json:"total_laboratories"`
}

// MonthlyMaintenanceStats buckets maintenance activity by calendar month.
type MonthlyMaintenanceStats struct {
	Month     string  `json:"month"`
	Total     int64   `json:"total"`
	Completed int64   `json:"completed"`
	Pending   int64   `json:"pending"`
	AvgCost   float64 `json:"avg_cost"`
}

// TopInstitutionStats ranks institutions by maintenance volume.
type TopInstitutionStats struct {
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	TotalMaintenance int64   `json:"total_maintenance"`
	Completed        int64   `json:"completed"`
	Pending          int64   `json:"pending"`
	AvgCost          float64 `json:"avg_cost"`
}

// PriorityStats aggregates maintenance records by priority.
type PriorityStats struct {
	Priority  string `json:"priority"`
	Count     int64  `json:"count"`
	Completed int64  `json:"completed"`
	Scheduled int64  `json:"scheduled"`
}

// CostAnalysis summarises maintenance spending across record types.
type CostAnalysis struct {
	RecordsWithCost int64   `json:"records_with_cost"`
	AvgCost         float64 `json:"avg_cost"`
	MinCost         float64 `json:"min_cost"`
	MaxCost         float64 `json:"max_cost"`
	TotalCost       float64 `json:"total_cost"`
	PreventiveCost  float64 `json:"preventive_cost"`
	CorrectiveCost  float64 `json:"corrective_cost"`
}

// DashboardReport is the full payload of GET /api/reports/dashboard.
type DashboardReport struct {
	GeneralStats          GeneralStats              `json:"general_stats"`
	InstitutionTypes      []InstitutionTypeStats    `json:"institution_types"`
	MaintenanceByMonth    []MonthlyMaintenanceStats `json:"maintenance_by_month"`
	TopInstitutions       []TopInstitutionStats     `json:"top_institutions"`
	MaintenanceByPriority []PriorityStats           `json:"maintenance_by_priority"`
	CostAnalysis          CostAnalysis              `json:"cost_analysis"`
}

// GetDashboardReport computes the general dashboard report.
func (s *ReportService) GetDashboardReport(ctx context.Context) (*DashboardReport, error) {
	report := &DashboardReport{}
	db := s.db.WithContext(ctx)

	general := &report.GeneralStats
	if err := db.Model(&model.Institution{}).
		Where("status = ?", model.StatusActive).
		Count(&general.TotalInstitutions).Error; err != nil {
		return nil, fmt.Errorf("failed to count institutions: %w", err)
	}

	if err := db.Model(&model.Infrastructure{}).
		Where("status = ?", model.StatusActive).
		Count(&general.TotalInfrastructures).Error; err != nil {
		return nil, fmt.Errorf("failed to count infrastructures: %w", err)
	}

	if err := db.Model(&model.MaintenanceRecord{}).
		Count(&general.TotalMaintenance).Error; err != nil {
		return nil, fmt.Errorf("failed to count maintenance records: %w", err)
	}

	if err := db.Model(&model.MaintenanceRecord{}).
		Where("status = ?", model.MaintenanceScheduled).
		Count(&general.PendingMaintenance).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending maintenance: %w", err)
	}

	if err := db.Model(&model.MaintenanceRecord{}).
		Where("status = ?", model.MaintenanceCompleted).
		Count(&general.CompletedMaintenance).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed maintenance: %w", err)
	}

	if err := db.Model(&model.MaintenanceRecord{}).
		Where("status = ? AND scheduled_date < CURRENT_DATE", model.MaintenanceScheduled).
		Count(&general.OverdueMaintenance).Error; err != nil {
		return nil, fmt.Errorf("failed to count overdue maintenance: %w", err)
	}

	if err := db.Model(&model.Institution{}).
		Select("type, COUNT(*) as count, "+
			"COALESCE(SUM(buildings_count), 0) as total_buildings, "+
			"COALESCE(SUM(classrooms_count), 0) as total_classrooms, "+
			"COALESCE(SUM(laboratories_count), 0) as total_laboratories").
		Where("status = ?", model.StatusActive).
		Group("type").
		Order("count DESC").
		Scan(&report.InstitutionTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate institution types: %w", err)
	}

	if err := db.Model(&model.MaintenanceRecord{}).
		Select("to_char(scheduled_date, 'YYYY-MM') as month, "+
			"COUNT(*) as total, "+
			"COUNT(CASE WHEN status = 'completed' THEN 1 END) as completed, "+
			"COUNT(CASE WHEN status = 'scheduled' THEN 1 END) as pending, "+
			"COALESCE(AVG(cost), 0) as avg_cost").
		Where("scheduled_date >= CURRENT_DATE - INTERVAL '12 months'").
		Group("to_char(scheduled_date, 'YYYY-MM')").
		Order("month ASC").
		Scan(&report.MaintenanceByMonth).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate maintenance by month: %w", err)
	}

	if err := db.Table("institutions i").
		Select("i.name, i.type, "+
			"COUNT(m.id) as total_maintenance, "+
			"COUNT(CASE WHEN m.status = 'completed' THEN 1 END) as completed, "+
			"COUNT(CASE WHEN m.status = 'scheduled' THEN 1 END) as pending, "+
			"COALESCE(AVG(m.cost), 0) as avg_cost").
		Joins("LEFT JOIN maintenance_records m ON i.id = m.institution_id").
		Where("i.status = ?", model.StatusActive).
		Group("i.id, i.name, i.type").
		Order("total_maintenance DESC").
		Limit(5).
		Scan(&report.TopInstitutions).Error; err != nil {
		return nil, fmt.Errorf("failed to rank institutions: %w", err)
	}

	if err := db.Model(&model.MaintenanceRecord{}).
		Select("priority, COUNT(*) as count, "+
			"COUNT(CASE WHEN status = 'completed' THEN 1 END) as completed, "+
			"COUNT(CASE WHEN status = 'scheduled' THEN 1 END) as scheduled").
		Group("priority").
		Order("CASE priority WHEN 'critical' THEN 1 WHEN 'high' THEN 2 WHEN 'medium' THEN 3 WHEN 'low' THEN 4 END").
		Scan(&report.MaintenanceByPriority).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate maintenance by priority: %w", err)
	}

	if err := db.Model(&model.MaintenanceRecord{}).
		Select("COUNT(CASE WHEN cost IS NOT NULL THEN 1 END) as records_with_cost, "+
			"COALESCE(AVG(cost), 0) as avg_cost, "+
			"COALESCE(MIN(cost), 0) as min_cost, "+
			"COALESCE(MAX(cost), 0) as max_cost, "+
			"COALESCE(SUM(cost), 0) as total_cost, "+
			"COALESCE(SUM(CASE WHEN type = 'preventivo' THEN cost ELSE 0 END), 0) as preventive_cost, "+
			"COALESCE(SUM(CASE WHEN type = 'correctivo' THEN cost ELSE 0 END), 0) as corrective_cost").
		Where("cost IS NOT NULL AND cost > 0").
		Scan(&report.CostAnalysis).Error; err != nil {
		return nil, fmt.Errorf("failed to analyse costs: %w", err)
	}

	return report, nil
}

// MaintenanceReportFilters narrows the detailed maintenance report.
type MaintenanceReportFilters struct {
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	InstitutionID uint   `json:"institution_id,omitempty"`
	Type          string `json:"type,omitempty"`
	Status        string `json:"status,omitempty"`
	Priority      string `json:"priority,omitempty"`
}

// MaintenanceReportRow is one maintenance record joined with the names of
// the institution and infrastructure it belongs to.
type MaintenanceReportRow struct {
	model.MaintenanceRecord
	InstitutionName    string `json:"institution_name"`
	InstitutionType    string `json:"institution_type"`
	InfrastructureName string `json:"infrastructure_name"`
}

// MaintenanceReportStats summarises the filtered record set.
type MaintenanceReportStats struct {
	TotalRecords int64   `json:"total_records"`
	Completed    int64   `json:"completed"`
	Scheduled    int64   `json:"scheduled"`
	InProgress   int64   `json:"in_progress"`
	Cancelled    int64   `json:"cancelled"`
	AvgCost      float64 `json:"avg_cost"`
	TotalCost    float64 `json:"total_cost"`
}

// MaintenanceReport is the payload of GET /api/reports/maintenance.
type MaintenanceReport struct {
	Records []MaintenanceReportRow   `json:"records"`
	Stats   MaintenanceReportStats   `json:"stats"`
	Filters MaintenanceReportFilters `json:"filters"`
}

func (s *ReportService) filteredMaintenance(ctx context.Context, filters MaintenanceReportFilters) *gorm.DB {
	query := s.db.WithContext(ctx).Table("maintenance_records m")

	if filters.StartDate != "" {
		query = query.Where("m.scheduled_date >= ?", filters.StartDate)
	}
	if filters.EndDate != "" {
		query = query.Where("m.scheduled_date <= ?", filters.EndDate)
	}
	if filters.InstitutionID != 0 {
		query = query.Where("m.institution_id = ?", filters.InstitutionID)
	}
	if filters.Type != "" {
		query = query.Where("m.type = ?", filters.Type)
	}
	if filters.Status != "" {
		query = query.Where("m.status = ?", filters.Status)
	}
	if filters.Priority != "" {
		query = query.Where("m.priority = ?", filters.Priority)
	}

	return query
}

// GetMaintenanceReport retrieves the detailed maintenance report.
func (s *ReportService) GetMaintenanceReport(ctx context.Context, filters MaintenanceReportFilters) (*MaintenanceReport, error) {
	report := &MaintenanceReport{Filters: filters}

	if err := s.filteredMaintenance(ctx, filters).
		Select("m.*, "+
			"COALESCE(i.name, '') as institution_name, "+
			"COALESCE(i.type, '') as institution_type, "+
			"COALESCE(inf.name, '') as infrastructure_name").
		Joins("LEFT JOIN institutions i ON m.institution_id = i.id").
		Joins("LEFT JOIN infrastructures inf ON m.infrastructure_id = inf.id").
		Order("m.scheduled_date DESC").
		Scan(&report.Records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch maintenance records: %w", err)
	}

	if err := s.filteredMaintenance(ctx, filters).
		Select("COUNT(*) as total_records, " +
			"COUNT(CASE WHEN m.status = 'completed' THEN 1 END) as completed, " +
			"COUNT(CASE WHEN m.status = 'scheduled' THEN 1 END) as scheduled, " +
			"COUNT(CASE WHEN m.status = 'in_progress' THEN 1 END) as in_progress, " +
			"COUNT(CASE WHEN m.status = 'cancelled' THEN 1 END) as cancelled, " +
			"COALESCE(AVG(m.cost), 0) as avg_cost, " +
			"COALESCE(SUM(m.cost), 0) as total_cost").
		Scan(&report.Stats).Error; err != nil {
		return nil, fmt.Errorf("failed to compute report stats: %w", err)
	}

	return report, nil
}

// InstitutionReportRow is one institution with its maintenance rollup.
type InstitutionReportRow struct {
	model.Institution
	InfrastructureCount  int64       `json:"infrastructure_count"`
	MaintenanceCount     int64       `json:"maintenance_count"`
	PendingMaintenance   int64       `json:"pending_maintenance"`
	CompletedMaintenance int64       `json:"completed_maintenance"`
	AvgMaintenanceCost   float64     `json:"avg_maintenance_cost"`
	TotalMaintenanceCost float64     `json:"total_maintenance_cost"`
	LastMaintenanceDate  *model.Date `json:"last_maintenance_date,omitempty"`
}

// InstitutionReportSummary aggregates the reported institutions.
type InstitutionReportSummary struct {
	TotalInstitutions int64   `json:"total_institutions"`
	TotalBuildings    int64   `json:"total_buildings"`
	TotalClassrooms   int64   `json:"total_classrooms"`
	TotalLaboratories int64   `json:"total_laboratories"`
	TotalCapacity     int64   `json:"total_capacity"`
	AvgBuildings      float64 `json:"avg_buildings"`
	AvgClassrooms     float64 `json:"avg_classrooms"`
}

// InstitutionReport is the payload of GET /api/reports/institutions.
type InstitutionReport struct {
	Institutions []InstitutionReportRow   `json:"institutions"`
	Summary      InstitutionReportSummary `json:"summary"`
	Type         string                   `json:"type,omitempty"`
}

// GetInstitutionReport retrieves the per-institution rollup report,
// optionally narrowed to one institution type.
func (s *ReportService) GetInstitutionReport(ctx context.Context, institutionType string) (*InstitutionReport, error) {
	report := &InstitutionReport{Type: institutionType}
	db := s.db.WithContext(ctx)

	query := db.Table("institutions i").
		Select("i.*, "+
			"COUNT(DISTINCT inf.id) as infrastructure_count, "+
			"COUNT(DISTINCT m.id) as maintenance_count, "+
			"COUNT(DISTINCT CASE WHEN m.status = 'scheduled' THEN m.id END) as pending_maintenance, "+
			"COUNT(DISTINCT CASE WHEN m.status = 'completed' THEN m.id END) as completed_maintenance, "+
			"COALESCE(AVG(m.cost), 0) as avg_maintenance_cost, "+
			"COALESCE(SUM(m.cost), 0) as total_maintenance_cost, "+
			"MAX(m.completed_date) as last_maintenance_date").
		Joins("LEFT JOIN infrastructures inf ON i.id = inf.institution_id AND inf.status = ?", model.StatusActive).
		Joins("LEFT JOIN maintenance_records m ON i.id = m.institution_id").
		Where("i.status = ?", model.StatusActive)

	if institutionType != "" {
		query = query.Where("i.type = ?", institutionType)
	}

	if err := query.Group("i.id").Order("i.name ASC").Scan(&report.Institutions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch institutions: %w", err)
	}

	summary := db.Model(&model.Institution{}).
		Select("COUNT(*) as total_institutions, " +
			"COALESCE(SUM(buildings_count), 0) as total_buildings, " +
			"COALESCE(SUM(classrooms_count), 0) as total_classrooms, " +
			"COALESCE(SUM(laboratories_count), 0) as total_laboratories, " +
			"COALESCE(SUM(total_capacity), 0) as total_capacity, " +
			"COALESCE(AVG(buildings_count), 0) as avg_buildings, " +
			"COALESCE(AVG(classrooms_count), 0) as avg_classrooms").
		Where("status = ?", model.StatusActive)

	if institutionType != "" {
		summary = summary.Where("type = ?", institutionType)
	}

	if err := summary.Scan(&report.Summary).Error; err != nil {
		return nil, fmt.Errorf("failed to summarise institutions: %w", err)
	}

	return report, nil
}

// UpcomingMaintenanceRow is a scheduled record with the days remaining
// until (or elapsed since) its scheduled date.
type UpcomingMaintenanceRow struct {
	model.MaintenanceRecord
	InstitutionName    string `json:"institution_name"`
	InstitutionType    string `json:"institution_type"`
	InfrastructureName string `json:"infrastructure_name"`
	DaysUntil          int    `json:"days_until,omitempty"`
	DaysOverdue        int    `json:"days_overdue,omitempty"`
}

// UpcomingMaintenanceSummary counts the upcoming and overdue workload.
type UpcomingMaintenanceSummary struct {
	UpcomingCount        int `json:"upcoming_count"`
	OverdueCount         int `json:"overdue_count"`
	CriticalUpcoming     int `json:"critical_upcoming"`
	HighPriorityUpcoming int `json:"high_priority_upcoming"`
}

// UpcomingMaintenanceReport is the payload of GET /api/reports/upcoming-maintenance.
type UpcomingMaintenanceReport struct {
	Upcoming []UpcomingMaintenanceRow   `json:"upcoming"`
	Overdue  []UpcomingMaintenanceRow   `json:"overdue"`
	Summary  UpcomingMaintenanceSummary `json:"summary"`
}

// GetUpcomingMaintenanceReport lists scheduled records falling due within
// the next `days` days, plus everything already overdue.
func (s *ReportService) GetUpcomingMaintenanceReport(ctx context.Context, days int) (*UpcomingMaintenanceReport, error) {
	if days <= 0 {
		days = 30
	}

	report := &UpcomingMaintenanceReport{}
	db := s.db.WithContext(ctx)

	joined := func() *gorm.DB {
		return db.Table("maintenance_records m").
			Joins("LEFT JOIN institutions i ON m.institution_id = i.id").
			Joins("LEFT JOIN infrastructures inf ON m.infrastructure_id = inf.id")
	}

	if err := joined().
		Select("m.*, "+
			"COALESCE(i.name, '') as institution_name, "+
			"COALESCE(i.type, '') as institution_type, "+
			"COALESCE(inf.name, '') as infrastructure_name, "+
			"(m.scheduled_date - CURRENT_DATE) as days_until").
		Where("m.status = ?", model.MaintenanceScheduled).
		Where("m.scheduled_date >= CURRENT_DATE").
		Where("m.scheduled_date <= CURRENT_DATE + ?", days).
		Order("m.scheduled_date ASC").
		Scan(&report.Upcoming).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming maintenance: %w", err)
	}

	if err := joined().
		Select("m.*, "+
			"COALESCE(i.name, '') as institution_name, "+
			"COALESCE(i.type, '') as institution_type, "+
			"COALESCE(inf.name, '') as infrastructure_name, "+
			"(CURRENT_DATE - m.scheduled_date) as days_overdue").
		Where("m.status = ?", model.MaintenanceScheduled).
		Where("m.scheduled_date < CURRENT_DATE").
		Order("m.scheduled_date ASC").
		Scan(&report.Overdue).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch overdue maintenance: %w", err)
	}

	report.Summary.UpcomingCount = len(report.Upcoming)
	report.Summary.OverdueCount = len(report.Overdue)
	for _, row := range report.Upcoming {
		switch row.Priority {
		case model.PriorityCritical:
			report.Summary.CriticalUpcoming++
		case model.PriorityHigh:
			report.Summary.HighPriorityUpcoming++
		}
	}

	return report, nil
}

// CostAnalysisFilters narrows the cost analysis report.
type CostAnalysisFilters struct {
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	InstitutionID uint   `json:"institution_id,omitempty"`
}

// CostSummary summarises spending across the filtered records.
type CostSummary struct {
	TotalRecords    int64   `json:"total_records"`
	AvgCost         float64 `json:"avg_cost"`
	MinCost         float64 `json:"min_cost"`
	MaxCost         float64 `json:"max_cost"`
	TotalCost       float64 `json:"total_cost"`
	PreventiveTotal float64 `json:"preventive_total"`
	CorrectiveTotal float64 `json:"corrective_total"`
	PredictiveTotal float64 `json:"predictive_total"`
	EmergencyTotal  float64 `json:"emergency_total"`
}

// InstitutionCostStats aggregates spending for one institution.
type InstitutionCostStats struct {
	InstitutionName  string  `json:"institution_name"`
	InstitutionType  string  `json:"institution_type"`
	MaintenanceCount int64   `json:"maintenance_count"`
	AvgCost          float64 `json:"avg_cost"`
	TotalCost        float64 `json:"total_cost"`
}

// MonthlyCostStats aggregates spending for one calendar month.
type MonthlyCostStats struct {
	Month            string  `json:"month"`
	MaintenanceCount int64   `json:"maintenance_count"`
	AvgCost          float64 `json:"avg_cost"`
	TotalCost        float64 `json:"total_cost"`
}

// CostAnalysisReport is the payload of GET /api/reports/cost-analysis.
type CostAnalysisReport struct {
	Summary       CostSummary            `json:"summary"`
	ByInstitution []InstitutionCostStats `json:"by_institution"`
	ByMonth       []MonthlyCostStats     `json:"by_month"`
	Filters       CostAnalysisFilters    `json:"filters"`
}

func (s *ReportService) costedMaintenance(ctx context.Context, filters CostAnalysisFilters) *gorm.DB {
	query := s.db.WithContext(ctx).Table("maintenance_records m").
		Where("m.cost IS NOT NULL AND m.cost > 0")

	if filters.StartDate != "" {
		query = query.Where("m.scheduled_date >= ?", filters.StartDate)
	}
	if filters.EndDate != "" {
		query = query.Where("m.scheduled_date <= ?", filters.EndDate)
	}
	if filters.InstitutionID != 0 {
		query = query.Where("m.institution_id = ?", filters.InstitutionID)
	}

	return query
}

// GetCostAnalysisReport computes the cost analysis report over records that
// carry a positive cost.
func (s *ReportService) GetCostAnalysisReport(ctx context.Context, filters CostAnalysisFilters) (*CostAnalysisReport, error) {
	report := &CostAnalysisReport{Filters: filters}

	if err := s.costedMaintenance(ctx, filters).
		Select("COUNT(*) as total_records, " +
			"COALESCE(AVG(m.cost), 0) as avg_cost, " +
			"COALESCE(MIN(m.cost), 0) as min_cost, " +
			"COALESCE(MAX(m.cost), 0) as max_cost, " +
			"COALESCE(SUM(m.cost), 0) as total_cost, " +
			"COALESCE(SUM(CASE WHEN m.type = 'preventivo' THEN m.cost ELSE 0 END), 0) as preventive_total, " +
			"COALESCE(SUM(CASE WHEN m.type = 'correctivo' THEN m.cost ELSE 0 END), 0) as corrective_total, " +
			"COALESCE(SUM(CASE WHEN m.type = 'predictivo' THEN m.cost ELSE 0 END), 0) as predictive_total, " +
			"COALESCE(SUM(CASE WHEN m.type = 'emergencia' THEN m.cost ELSE 0 END), 0) as emergency_total").
		Scan(&report.Summary).Error; err != nil {
		return nil, fmt.Errorf("failed to summarise costs: %w", err)
	}

	if err := s.costedMaintenance(ctx, filters).
		Select("COALESCE(i.name, '') as institution_name, "+
			"COALESCE(i.type, '') as institution_type, "+
			"COUNT(m.id) as maintenance_count, "+
			"COALESCE(AVG(m.cost), 0) as avg_cost, "+
			"COALESCE(SUM(m.cost), 0) as total_cost").
		Joins("LEFT JOIN institutions i ON m.institution_id = i.id").
		Group("i.id, i.name, i.type").
		Order("total_cost DESC").
		Scan(&report.ByInstitution).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate costs by institution: %w", err)
	}

	if err := s.costedMaintenance(ctx, filters).
		Select("to_char(m.scheduled_date, 'YYYY-MM') as month, " +
			"COUNT(*) as maintenance_count, " +
			"COALESCE(AVG(m.cost), 0) as avg_cost, " +
			"COALESCE(SUM(m.cost), 0) as total_cost").
		Group("to_char(m.scheduled_date, 'YYYY-MM')").
		Order("month ASC").
		Scan(&report.ByMonth).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate costs by month: %w", err)
	}

	return report, nil
}
