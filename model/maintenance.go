package model

import "time"

// Maintenance types. Names are kept in Spanish as the frontend and the
// historical data use them verbatim.
const (
	MaintenancePreventive = "preventivo"
	MaintenanceCorrective = "correctivo"
	MaintenancePredictive = "predictivo"
	MaintenanceEmergency  = "emergencia"
)

// Maintenance statuses.
const (
	MaintenanceScheduled  = "scheduled"
	MaintenanceInProgress = "in_progress"
	MaintenanceCompleted  = "completed"
	MaintenanceCancelled  = "cancelled"
	MaintenanceOverdue    = "overdue"
)

// Priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// PreventiveCycleMonths is the fixed interval between preventive maintenance
// rounds: completing or scheduling one books the next six months out.
const PreventiveCycleMonths = 6

// MaintenanceRecord represents one maintenance event. It must reference at
// least one of InstitutionID/InfrastructureID; rows referencing only an
// infrastructure inherit its owning institution at creation time.
type MaintenanceRecord struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	InstitutionID    *uint     `gorm:"index:idx_maintenance_institution" json:"institution_id,omitempty"`
	InfrastructureID *uint     `gorm:"index:idx_maintenance_infrastructure" json:"infrastructure_id,omitempty"`
	Type             string    `gorm:"type:varchar(50);not null" json:"type"`
	Title            string    `gorm:"type:varchar(255);not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	ScheduledDate    Date      `gorm:"index:idx_maintenance_date" json:"scheduled_date"`
	CompletedDate    *Date     `json:"completed_date,omitempty"`
	NextDueDate      *Date     `json:"next_due_date,omitempty"`
	Priority         string    `gorm:"type:varchar(20);default:'medium'" json:"priority"`
	Status           string    `gorm:"type:varchar(30);default:'scheduled';index:idx_maintenance_status" json:"status"`
	Cost             *float64  `gorm:"type:decimal(10,2)" json:"cost,omitempty"`
	Contractor       string    `gorm:"type:varchar(255)" json:"contractor"`
	Notes            string    `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	CreatedBy        *uint     `json:"created_by,omitempty"`

	Institution    *Institution    `gorm:"foreignKey:InstitutionID" json:"-"`
	Infrastructure *Infrastructure `gorm:"foreignKey:InfrastructureID" json:"-"`
}

// TableName keeps the historical table name.
func (MaintenanceRecord) TableName() string {
	return "maintenance_records"
}

// NextPreventiveDueDate returns the due date of the following preventive
// round, six months after the given reference date.
func NextPreventiveDueDate(from Date) Date {
	return from.AddMonths(PreventiveCycleMonths)
}

// IsOverdue reports whether the record is still scheduled past its date.
func (m *MaintenanceRecord) IsOverdue(today Date) bool {
	return m.Status == MaintenanceScheduled && m.ScheduledDate.Before(today)
}

// ValidMaintenanceType reports whether t is one of the known types.
func ValidMaintenanceType(t string) bool {
	switch t {
	case MaintenancePreventive, MaintenanceCorrective, MaintenancePredictive, MaintenanceEmergency:
		return true
	}
	return false
}

// ValidMaintenanceStatus reports whether s is one of the known statuses.
func ValidMaintenanceStatus(s string) bool {
	switch s {
	case MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled, MaintenanceOverdue:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}
